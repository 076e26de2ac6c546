package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the athletedex API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	DSN              string `yaml:"dsn"`
	MaxOpenConns     int    `yaml:"max_open_conns"`
	MaxIdleConns     int    `yaml:"max_idle_conns"`
	AutoMigrate      bool   `yaml:"auto_migrate"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds key-value cache settings.
// An empty Addrs list disables caching.
type CacheConfig struct {
	Addrs           []string `yaml:"addrs"`
	Username        string   `yaml:"username"`
	Password        string   `yaml:"password"`
	DB              int      `yaml:"db"`
	DefaultTTLSec   int      `yaml:"default_ttl_sec"`
	ResponseTTLSec  int      `yaml:"response_ttl_sec"`
	OpTimeoutMillis int      `yaml:"op_timeout_ms"`
	// RedialBackoffMillis is how long the cache stays off after a failed connect.
	RedialBackoffMillis int `yaml:"redial_backoff_ms"`
}

// WindowConfig is a fixed-window limit: at most Max requests per Window seconds.
type WindowConfig struct {
	WindowSec int `yaml:"window_sec"`
	Max       int `yaml:"max"`
}

// RateLimitConfig holds the two request limiters.
type RateLimitConfig struct {
	Enabled *bool        `yaml:"enabled"`
	API     WindowConfig `yaml:"api"`
	Search  WindowConfig `yaml:"search"`
}

// IsEnabled reports whether rate limiting is on (default: true).
func (r RateLimitConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// CORSConfig holds cross-origin settings for the browser UI.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// SearchConfig holds fuzzy search tuning.
type SearchConfig struct {
	Threshold      float64 `yaml:"threshold"`
	MinMatchLength int     `yaml:"min_match_length"`
	Limit          int     `yaml:"limit"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config bytes, expanding ${VAR} references, applying defaults and validating.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.DefaultTTLSec <= 0 {
		c.Cache.DefaultTTLSec = 3600
	}
	if c.Cache.ResponseTTLSec <= 0 {
		c.Cache.ResponseTTLSec = 1800
	}
	if c.Cache.OpTimeoutMillis <= 0 {
		c.Cache.OpTimeoutMillis = 500
	}
	if c.Cache.RedialBackoffMillis <= 0 {
		c.Cache.RedialBackoffMillis = 5000
	}
	if c.RateLimit.API.WindowSec <= 0 {
		c.RateLimit.API.WindowSec = 15 * 60
	}
	if c.RateLimit.API.Max <= 0 {
		c.RateLimit.API.Max = 100
	}
	if c.RateLimit.Search.WindowSec <= 0 {
		c.RateLimit.Search.WindowSec = 5 * 60
	}
	if c.RateLimit.Search.Max <= 0 {
		c.RateLimit.Search.Max = 30
	}
	if c.CORS.MaxAgeSec <= 0 {
		c.CORS.MaxAgeSec = 300
	}
	if c.Search.Threshold <= 0 {
		c.Search.Threshold = 0.3
	}
	if c.Search.MinMatchLength <= 0 {
		c.Search.MinMatchLength = 2
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = 50
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Cache.DB < 0 {
		return fmt.Errorf("cache.db must be >= 0, got %d", c.Cache.DB)
	}
	if c.Search.Threshold > 1 {
		return fmt.Errorf("search.threshold must be within (0, 1], got %g", c.Search.Threshold)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests run from package dirs.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
