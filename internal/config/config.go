// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	// JSONConfigEnv names the env var holding a JSON document merged over the toml config.
	JSONConfigEnv = "CLAY_AUTH_CONFIG_JSON"

	defaultSessionExpiration = 7 * 24 * time.Hour
	defaultBusTimeout        = 5 * time.Second
	defaultShutDownTime      = 5
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c    Config
		meta toml.MetaData
		err  error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if meta, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// rolling sessions unless explicitly switched off
	if !meta.IsDefined("Session", "Rolling") {
		c.Session.Rolling = true
	}

	applyEnv(&c)

	// override it from env
	if JSONConfig := os.Getenv(JSONConfigEnv); JSONConfig != "" {
		c, err = decodeAndMergeConfig(c, JSONConfig)
		if err != nil {
			return c, err
		}
	}

	setDefaults(&c)

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

func setDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.CheckAliveURI == "" {
		c.Webserver.CheckAliveURI = "/checkalive"
	}

	if c.Webserver.MetricsURI == "" {
		c.Webserver.MetricsURI = "/metrics"
	}

	if c.Session.Expiration == 0 {
		c.Session.Expiration = defaultSessionExpiration
	}

	if c.Session.Storage == "" {
		c.Session.Storage = "memory"
	}

	if c.Session.Table == "" {
		c.Session.Table = "sessions"
	}

	if c.Store.Engine == "" {
		c.Store.Engine = "sqlite"
	}

	if c.Bus.Namespace == "" {
		c.Bus.Namespace = "clay"
	}

	if c.Bus.Timeout == 0 {
		c.Bus.Timeout = defaultBusTimeout
	}

	if c.APIKey.Mode == "" {
		c.APIKey.Mode = "master"
	}
}

// validate minimal config settings.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if len(c.Sites) == 0 {
		return errors.Wrap(ErrNoSites, invalidErrMessage)
	}

	for _, s := range c.Sites {
		if s.Host == "" {
			return errors.Wrap(ErrSiteHostEmpty, invalidErrMessage)
		}

		if s.Slug == "" {
			return errors.Wrap(ErrSiteSlugEmpty, invalidErrMessage)
		}
	}

	switch c.APIKey.Mode {
	case "master", "user":
	default:
		return errors.Wrap(ErrInvalidAPIKeyMode, invalidErrMessage)
	}

	switch c.Store.Engine {
	case "sqlite", "mysql", "postgres", "redis":
	default:
		return errors.Wrap(ErrInvalidStoreEngine, invalidErrMessage)
	}

	switch c.Session.Storage {
	case "memory", "redis", "postgres", "mysql":
	default:
		return errors.Wrap(ErrInvalidSessionStorage, invalidErrMessage)
	}

	for name, p := range c.Auth.Providers {
		if p.Mapping.AutoCreate && p.Mapping.Password != "" {
			return errors.Wrap(ErrAutoCreateWithPassword, name)
		}
	}

	return nil
}
