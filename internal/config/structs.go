package config

import (
	"time"

	"github.com/clay-auth/clay-auth/internal/logger"
)

// Session settings.
type Session struct {
	Secret     string        // cookie encryption secret, overridden by CLAY_SESSION_SECRET
	Expiration time.Duration // session lifetime, default one week
	Rolling    bool          // refresh the expiry on every authenticated request
	Storage    string        // memory, redis, postgres or mysql
	Table      string        // table name for sql session storage
	KeyPrefix  string        // redis key prefix, derived from REDIS_DB when empty
}

// APIKey holds the api key policy.
type APIKey struct {
	Mode          string // master or user
	AccessKey     string `json:"-" toml:"-"` // master key, only read from CLAY_ACCESS_KEY
	DisableGlobal bool   // disables the master key
}

// Redis connection settings shared by the session storage, the user store and the event bus.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Store selects the user key value store backend.
type Store struct {
	Engine string // sqlite, mysql, postgres or redis
	Prefix string // redis key prefix
}

// Bus implements event bus settings.
type Bus struct {
	Enabled   bool
	Namespace string        // channel prefix, default "clay"
	Timeout   time.Duration // publish timeout
}

// Seed describes an initial user created at startup when missing.
type Seed struct {
	Username string
	Provider string
	Auth     string
	Password string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Redis     Redis
	Store     Store
	Session   Session
	Bus       Bus
	APIKey    APIKey
	Auth      Auth
	Sites     []Site
	Seed      Seed
	Log       logger.Log
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool   // enable static file browsing (for development purposes only)
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	CheckAliveURI  string // load balancer health check path
	MetricsURI     string // prometheus metrics path
}
