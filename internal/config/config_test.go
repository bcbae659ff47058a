package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectConfigPath(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err, "failed to get project root")

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600))

	return dir + string(filepath.Separator)
}

const minimalConfig = `
[Webserver]
Port = 3001

[[Sites]]
Slug = "site"
Host = "example.com"
Path = "/blog"
Providers = ["local"]
`

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Sites)
	assert.Equal(t, "master", cfg.APIKey.Mode)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.Expiration)
	assert.True(t, cfg.Session.Rolling)

	local, ok := cfg.Auth.Providers["local"]
	require.True(t, ok, "local provider should be configured")
	assert.Equal(t, "password", local.Mapping.Password)
}

func TestReadConfig_Defaults(t *testing.T) {
	t.Setenv(envSessionSecret, "")
	t.Setenv(envRedisSessionHost, "")
	t.Setenv(envRedisDB, "")
	t.Setenv(envPort, "")

	cfg, err := ReadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, defaultSessionSecret, cfg.Session.Secret)
	assert.Equal(t, "memory", cfg.Session.Storage)
	assert.Equal(t, "clay-session:", cfg.Session.KeyPrefix)
	assert.Equal(t, "sqlite", cfg.Store.Engine)
	assert.Equal(t, "clay", cfg.Bus.Namespace)
	assert.Equal(t, defaultShutDownTime, cfg.Webserver.ShutDownTime)
	assert.True(t, cfg.Session.Rolling)
}

func TestReadConfig_Env(t *testing.T) {
	t.Setenv(envSessionSecret, "s3cret")
	t.Setenv(envAccessKey, "master-key")
	t.Setenv(envDisableGlobalAccessKey, "true")
	t.Setenv(envRedisSessionHost, "redis://cache:6379")
	t.Setenv(envRedisDB, "7")
	t.Setenv(envPort, "8080")

	cfg, err := ReadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, "master-key", cfg.APIKey.AccessKey)
	assert.True(t, cfg.APIKey.DisableGlobal)
	assert.Equal(t, "redis", cfg.Session.Storage)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "7-clay-session:", cfg.Session.KeyPrefix)
	assert.Equal(t, 8080, cfg.Webserver.Port)
}

func TestReadConfig_EnvKeepsFileValues(t *testing.T) {
	t.Setenv(envAccessKey, "")
	t.Setenv(envSeedPassword, "")

	cfg, err := ReadConfig(writeConfig(t, minimalConfig+`
[APIKey]
AccessKey = "from-file"

[Seed]
Username = "admin"
Password = "from-file"
`))
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.APIKey.AccessKey)
	assert.Equal(t, "from-file", cfg.Seed.Password)

	t.Setenv(envSeedPassword, "from-env")

	cfg, err = ReadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Seed.Password)
}

func TestShippedSeedHasNoPassword(t *testing.T) {
	t.Setenv(envSeedPassword, "")

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)
	assert.Empty(t, cfg.Seed.Password)
}

func TestReadConfig_JSONOverride(t *testing.T) {
	t.Setenv(JSONConfigEnv, `{"Title":"from json","APIKey":{"Mode":"user"}}`)

	cfg, err := ReadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "from json", cfg.Title)
	assert.Equal(t, "user", cfg.APIKey.Mode)
}

func TestReadConfig_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "port zero",
			content: "[[Sites]]\nSlug = \"a\"\nHost = \"a\"\n",
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "no sites",
			content: "[Webserver]\nPort = 1\n",
			wantErr: ErrNoSites,
		},
		{
			name:    "site without host",
			content: "[Webserver]\nPort = 1\n[[Sites]]\nSlug = \"a\"\n",
			wantErr: ErrSiteHostEmpty,
		},
		{
			name:    "site without slug",
			content: "[Webserver]\nPort = 1\n[[Sites]]\nHost = \"a\"\n",
			wantErr: ErrSiteSlugEmpty,
		},
		{
			name:    "unknown api key mode",
			content: minimalConfig + "[APIKey]\nMode = \"both\"\n",
			wantErr: ErrInvalidAPIKeyMode,
		},
		{
			name:    "unknown store engine",
			content: minimalConfig + "[Store]\nEngine = \"leveldb\"\n",
			wantErr: ErrInvalidStoreEngine,
		},
		{
			name: "auto create with password",
			content: minimalConfig + "[Auth.Providers.local]\nType = \"local\"\n" +
				"[Auth.Providers.local.Mapping]\nUsername = \"username\"\nPassword = \"password\"\nAutoCreate = true\n",
			wantErr: ErrAutoCreateWithPassword,
		},
	}

	t.Setenv(envPort, "")

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadConfig(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestReadConfig_MissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read main config file")
}

func TestStrToBool(t *testing.T) {
	testCases := []struct {
		in   string
		def  bool
		want bool
	}{
		{"t", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"f", true, false},
		{"false", true, false},
		{"0", true, false},
		{"", true, true},
		{"yes", false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, StrToBool(tc.in, tc.def))
		})
	}
}

func TestDumpConfig(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	cfg.APIKey.AccessKey = "do-not-print"

	out, err := DumpConfig(cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "example.com")
	assert.NotContains(t, out, "do-not-print")

	js, err := DumpConfigJSON(cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(js, "{"))
	assert.NotContains(t, js, "do-not-print")
}
