package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Tenancy: TenancyConfig{RootDomain: "example.com"},
		Storage: StorageConfig{Backend: BackendBadger, DataPath: "/data"},
		Server: ServerConfig{
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Auth: AuthConfig{SessionDuration: 168 * time.Hour},
	}
}

// noEnvFile points Load at a file that does not exist so a developer's
// local .env cannot leak into tests.
func noEnvFile(t *testing.T) string {
	return "-env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.Logger.Level = "verbose" }, "invalid log level"},
		{"root domain", func(c *Config) { c.Tenancy.RootDomain = " " }, "ROOT_DOMAIN"},
		{"backend", func(c *Config) { c.Storage.Backend = "postgres" }, "invalid KV_BACKEND"},
		{"badger path", func(c *Config) { c.Storage.DataPath = "" }, "data path"},
		{"redis addr", func(c *Config) { c.Storage.Backend = BackendRedis; c.Storage.RedisAddr = "" }, "REDIS_ADDR"},
		{"session duration", func(c *Config) { c.Auth.SessionDuration = 0 }, "SESSION_DURATION"},
		{"rate", func(c *Config) { c.Auth.LoginRatePerMinute = -1 }, "LOGIN_RATE_PER_MINUTE"},
		{"reconcile", func(c *Config) { c.Jobs.ReconcileInterval = -time.Second }, "RECONCILE_INTERVAL"},
		{"timeouts", func(c *Config) { c.Server.IdleTimeout = 0 }, "timeouts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{noEnvFile(t), "-data-path", t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "localhost:3000", cfg.Tenancy.RootDomain)
	assert.Equal(t, []string{"vercel.app"}, cfg.Tenancy.PreviewSuffixes)
	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, 168*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, 10, cfg.Auth.LoginRatePerMinute)
	assert.Equal(t, time.Duration(0), cfg.Jobs.ReconcileInterval)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoad_EnvAndFlags(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("ROOT_DOMAIN", "libraries.example")
	t.Setenv("PREVIEW_SUFFIXES", "vercel.app, netlify.app ,")
	t.Setenv("KV_BACKEND", "REDIS")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://libraries.example")
	t.Setenv("RECONCILE_INTERVAL", "1h")

	cfg, err := Load([]string{noEnvFile(t), "-root-domain", "override.example"})
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "override.example", cfg.Tenancy.RootDomain, "flag beats env")
	assert.Equal(t, []string{"vercel.app", "netlify.app"}, cfg.Tenancy.PreviewSuffixes)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, 2, cfg.Storage.RedisDB)
	assert.Equal(t, []string{"https://libraries.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, time.Hour, cfg.Jobs.ReconcileInterval)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SESSION_DURATION", "a week")

	_, err := Load([]string{noEnvFile(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_DURATION")
}

func TestExpandDataPath_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.expandDataPath())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "LibrarySites", "data"), cfg.Storage.DataPath)
}

func TestExpandDataPath_TildeExpansion(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{DataPath: "~/sites"}}
	require.NoError(t, cfg.expandDataPath())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "sites"), cfg.Storage.DataPath)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b "))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `# Test env file
ROOT_DOMAIN=libraries.example
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'

  KEY_WITH_SPACES  =  value with spaces  
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	// t.Setenv registers cleanup; unsetting afterwards leaves the keys empty.
	for _, k := range []string{"ROOT_DOMAIN", "QUOTED_VALUE", "SINGLE_QUOTED", "KEY_WITH_SPACES"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "libraries.example", os.Getenv("ROOT_DOMAIN"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
	assert.Equal(t, "value with spaces", os.Getenv("KEY_WITH_SPACES"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("TEST_VAR", "original-value")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`TEST_VAR=new-value`), 0o644))

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}
