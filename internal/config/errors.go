package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrNoSites error if no site is configured.
	ErrNoSites = errors.New("toml config needs at least one [[Sites]] entry")

	// ErrSiteHostEmpty error if a site has no host.
	ErrSiteHostEmpty = errors.New("toml config sites.host can not be empty")

	// ErrSiteSlugEmpty error if a site has no slug.
	ErrSiteSlugEmpty = errors.New("toml config sites.slug can not be empty")

	// ErrInvalidAPIKeyMode error if apikey.mode is neither master nor user.
	ErrInvalidAPIKeyMode = errors.New("toml config apikey.mode must be master or user")

	// ErrInvalidStoreEngine error if store.engine is unknown.
	ErrInvalidStoreEngine = errors.New("toml config store.engine must be sqlite, mysql, postgres or redis")

	// ErrInvalidSessionStorage error if session.storage is unknown.
	ErrInvalidSessionStorage = errors.New("toml config session.storage must be memory, redis, postgres or mysql")

	// ErrAutoCreateWithPassword error if a mapping creates users and also checks passwords.
	ErrAutoCreateWithPassword = errors.New("toml config mapping.autocreate can not be combined with a password mapping")
)
