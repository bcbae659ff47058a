// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/clay-auth/clay-auth/internal/config"
)

// MySQL builds the go-sql-driver Data Source Name from the configuration.
func MySQL(db config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Extras,
	)

	return out
}

// Postgres builds a postgres connection URI from the configuration.
// Extras is appended as query string, e.g. "sslmode=disable".
func Postgres(db config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	return u.String()
}

// SQLite returns the sqlite file name, in-memory when no name is configured.
func SQLite(db config.DB) string {
	if db.Name == "" {
		return ":memory:"
	}

	return db.Name
}
