// Package config loads server configuration from command-line flags,
// environment variables and an optional .env file.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Tenancy TenancyConfig
	Storage StorageConfig
	Server  ServerConfig
	Auth    AuthConfig
	Jobs    JobsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// IsProduction reports whether the server runs in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// TenancyConfig holds hostname classification settings.
type TenancyConfig struct {
	// RootDomain is the platform's own domain, with an optional port
	// (default: localhost:3000).
	RootDomain string
	// DefaultProductID is passed through to the root site.
	DefaultProductID string
	// PreviewSuffixes are hostname suffixes of preview deployments
	// (default: vercel.app).
	PreviewSuffixes []string
}

// Storage backends.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend       string // badger or redis (default: badger)
	DataPath      string // badger database and search index directory
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string        // Server port (default: 8080)
	ReadTimeout        time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout       time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout        time.Duration // HTTP idle timeout (default: 60s)
	CORSAllowedOrigins []string      // Dashboard origins allowed to call the API
}

// AuthConfig holds dashboard authentication configuration.
type AuthConfig struct {
	SessionDuration    time.Duration // default: 168h
	AdminEmail         string
	AdminPassword      string
	LoginRatePerMinute int // attempts per client IP; 0 disables (default: 10)
}

// JobsConfig holds background job schedules.
type JobsConfig struct {
	// ReconcileInterval runs the orphaned custom domain sweep; 0 disables it.
	ReconcileInterval time.Duration
}

// LoadConfig loads configuration from os.Args with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig with explicit arguments.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("librarysites", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	rootDomain := fs.String("root-domain", "", "Platform root domain (default: localhost:3000)")
	previewSuffixes := fs.String("preview-suffixes", "", "Comma-separated preview deployment suffixes")

	backend := fs.String("kv-backend", "", "Key-value backend: badger or redis (default: badger)")
	dataPath := fs.String("data-path", "", "Directory for the badger database and search index")
	redisAddr := fs.String("redis-addr", "", "Redis address (host:port)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	sessionDuration := fs.String("session-duration", "", "Dashboard session lifetime (default: 168h)")
	reconcileInterval := fs.String("reconcile-interval", "", "Orphaned custom domain sweep interval (default: 0, disabled)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Tenancy: TenancyConfig{
			RootDomain:       getConfigValue(*rootDomain, "ROOT_DOMAIN", "localhost:3000"),
			DefaultProductID: getConfigValue("", "DEFAULT_PRODUCT_ID", ""),
			PreviewSuffixes:  splitList(getConfigValue(*previewSuffixes, "PREVIEW_SUFFIXES", "vercel.app")),
		},
		Storage: StorageConfig{
			Backend:       strings.ToLower(getConfigValue(*backend, "KV_BACKEND", BackendBadger)),
			DataPath:      getConfigValue(*dataPath, "DATA_PATH", ""),
			RedisAddr:     getConfigValue(*redisAddr, "REDIS_ADDR", "localhost:6379"),
			RedisPassword: getConfigValue("", "REDIS_PASSWORD", ""),
			RedisDB:       getIntConfigValue("", "REDIS_DB", 0),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSAllowedOrigins: splitList(getConfigValue("", "CORS_ALLOWED_ORIGINS", "")),
		},
		Auth: AuthConfig{
			AdminEmail:         getConfigValue("", "ADMIN_EMAIL", ""),
			AdminPassword:      getConfigValue("", "ADMIN_PASSWORD", ""),
			LoginRatePerMinute: getIntConfigValue("", "LOGIN_RATE_PER_MINUTE", 10),
		},
	}

	durations := []struct {
		flagValue, envKey, def string
		dest                   *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*sessionDuration, "SESSION_DURATION", "168h", &cfg.Auth.SessionDuration},
		{*reconcileInterval, "RECONCILE_INTERVAL", "0", &cfg.Jobs.ReconcileInterval},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dest = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if strings.TrimSpace(c.Tenancy.RootDomain) == "" {
		return errors.New("ROOT_DOMAIN cannot be empty")
	}

	switch c.Storage.Backend {
	case BackendBadger:
		if c.Storage.DataPath == "" {
			return errors.New("data path cannot be empty for the badger backend")
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid KV_BACKEND: %s (must be badger or redis)", c.Storage.Backend)
	}

	if c.Auth.SessionDuration <= 0 {
		return errors.New("SESSION_DURATION must be positive")
	}
	if c.Auth.LoginRatePerMinute < 0 {
		return errors.New("LOGIN_RATE_PER_MINUTE cannot be negative")
	}
	if c.Jobs.ReconcileInterval < 0 {
		return errors.New("RECONCILE_INTERVAL cannot be negative")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}

	// Admin credentials may be empty: the dashboard then refuses every login.

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data directory to ~/LibrarySites/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "LibrarySites", "data")

	expanded, err := expandPath(c.Storage.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables take precedence over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
