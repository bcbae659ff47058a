package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	envSessionSecret          = "CLAY_SESSION_SECRET"
	envAccessKey              = "CLAY_ACCESS_KEY"
	envDisableGlobalAccessKey = "CLAY_DISABLE_GLOBAL_ACCESS_KEY"
	envRedisSessionHost       = "REDIS_SESSION_HOST"
	envRedisDB                = "REDIS_DB"
	envPort                   = "PORT"
	envSeedPassword           = "CLAY_SEED_PASSWORD"

	defaultSessionSecret = "clay"
)

// applyEnv overrides config values with the well known environment variables.
func applyEnv(c *Config) {
	v := viper.New()

	v.SetDefault("session.secret", defaultSessionSecret)

	if c.Session.Secret != "" {
		v.SetDefault("session.secret", c.Session.Secret)
	}

	v.SetDefault("apikey.accesskey", c.APIKey.AccessKey)
	v.SetDefault("seed.password", c.Seed.Password)

	_ = v.BindEnv("session.secret", envSessionSecret)
	_ = v.BindEnv("apikey.accesskey", envAccessKey)
	_ = v.BindEnv("apikey.disableglobal", envDisableGlobalAccessKey)
	_ = v.BindEnv("redis.sessionhost", envRedisSessionHost)
	_ = v.BindEnv("redis.db", envRedisDB)
	_ = v.BindEnv("webserver.port", envPort)
	_ = v.BindEnv("seed.password", envSeedPassword)

	c.Session.Secret = v.GetString("session.secret")
	c.APIKey.AccessKey = v.GetString("apikey.accesskey")
	c.Seed.Password = v.GetString("seed.password")
	c.APIKey.DisableGlobal = StrToBool(v.GetString("apikey.disableglobal"), c.APIKey.DisableGlobal)

	if host := v.GetString("redis.sessionhost"); host != "" {
		c.Session.Storage = "redis"

		if c.Redis.Addr == "" {
			c.Redis.Addr = strings.TrimPrefix(host, "redis://")
		}
	}

	if c.Session.KeyPrefix == "" {
		c.Session.KeyPrefix = "clay-session:"

		if db := v.GetString("redis.db"); db != "" {
			c.Session.KeyPrefix = db + "-clay-session:"
		}
	}

	if port := v.GetInt("webserver.port"); port != 0 {
		c.Webserver.Port = port
	}
}

// StrToBool converts t/true/1 and f/false/0 to a bool, anything else returns def.
func StrToBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1":
		return true
	case "f", "false", "0":
		return false
	default:
		return def
	}
}
