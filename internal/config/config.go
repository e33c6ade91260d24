package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// HTTP API configuration
	Server ServerConfig `toml:"server"`

	// SQLite database configuration
	Database DatabaseConfig `toml:"database"`

	// Card and campaign data files
	Data DataConfig `toml:"data"`

	// Upstream card API configuration
	ArkhamDB ArkhamDBConfig `toml:"arkhamdb"`

	// Logging configuration
	Log LogConfig `toml:"log"`

	// Env is "development" or "production".
	Env string `toml:"env" env:"ENV"`
}

// ServerConfig contains API server settings.
type ServerConfig struct {
	Port           int      `toml:"port" env:"PORT"`                  // Listen port
	CacheMaxAge    string   `toml:"cache_max_age" env:"CACHE_MAX_AGE"` // Cache-Control max-age (e.g., "24h")
	AllowedOrigins []string `toml:"allowed_origins"`                  // CORS origins
	RequestTimeout string   `toml:"request_timeout"`                  // Per-request timeout (e.g., "60s")
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `toml:"path" env:"CODEX_DB_PATH"` // Path to the SQLite database
}

// DataConfig contains data file settings.
type DataConfig struct {
	Dir           string `toml:"dir" env:"CODEX_DATA_DIR"` // Directory holding the data files
	CardsFile     string `toml:"cards_file"`               // Card export file name
	CampaignsFile string `toml:"campaigns_file"`           // Campaign hierarchy file name (.json or .yaml)
	Watch         bool   `toml:"watch"`                    // Reload when the files change
	Debounce      string `toml:"debounce"`                 // Quiet period before a reload (e.g., "500ms")
}

// ArkhamDBConfig contains upstream card API settings.
type ArkhamDBConfig struct {
	BaseURL           string  `toml:"base_url" env:"ARKHAMDB_URL"` // API base URL
	RequestsPerSecond float64 `toml:"requests_per_second"`        // Client rate limit
	Timeout           string  `toml:"timeout"`                    // HTTP timeout (e.g., "60s")
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level       string `toml:"level" env:"LOG_LEVEL"` // debug, info, warn or error
	Development bool   `toml:"development"`           // Human-readable console output
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           3001,
			CacheMaxAge:    "24h",
			AllowedOrigins: []string{"*"},
			RequestTimeout: "60s",
		},
		Database: DatabaseConfig{
			Path: "data/codex.db",
		},
		Data: DataConfig{
			Dir:           "data",
			CardsFile:     "cards.json",
			CampaignsFile: "campaigns.json",
			Watch:         false,
			Debounce:      "500ms",
		},
		ArkhamDB: ArkhamDBConfig{
			BaseURL:           "https://arkhamdb.com",
			RequestsPerSecond: 2,
			Timeout:           "60s",
		},
		Log: LogConfig{
			Level:       "info",
			Development: false,
		},
		Env: "production",
	}
}

// DefaultPath returns the path of the user's configuration file.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".otherworld-codex", "config.toml"), nil
}

// Load reads the configuration file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.IsDevelopment() && os.Getenv("CACHE_MAX_AGE") == "" {
		cfg.Server.CacheMaxAge = "5s"
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if _, err := time.ParseDuration(c.Server.CacheMaxAge); err != nil {
		return fmt.Errorf("invalid cache max age %q: %w", c.Server.CacheMaxAge, err)
	}
	if _, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request timeout %q: %w", c.Server.RequestTimeout, err)
	}
	if _, err := time.ParseDuration(c.Data.Debounce); err != nil {
		return fmt.Errorf("invalid debounce %q: %w", c.Data.Debounce, err)
	}
	if _, err := time.ParseDuration(c.ArkhamDB.Timeout); err != nil {
		return fmt.Errorf("invalid arkhamdb timeout %q: %w", c.ArkhamDB.Timeout, err)
	}
	if c.ArkhamDB.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive: %v", c.ArkhamDB.RequestsPerSecond)
	}
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// IsDevelopment reports whether the configuration targets development.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// GetCacheMaxAge returns the Cache-Control max-age as a duration.
func (c *Config) GetCacheMaxAge() (time.Duration, error) {
	return time.ParseDuration(c.Server.CacheMaxAge)
}

// GetRequestTimeout returns the per-request timeout as a duration.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.RequestTimeout)
}

// GetDebounce returns the reload quiet period as a duration.
func (c *Config) GetDebounce() (time.Duration, error) {
	return time.ParseDuration(c.Data.Debounce)
}

// GetArkhamDBTimeout returns the upstream HTTP timeout as a duration.
func (c *Config) GetArkhamDBTimeout() (time.Duration, error) {
	return time.ParseDuration(c.ArkhamDB.Timeout)
}

// CardsPath returns the full path of the card export file.
func (c *Config) CardsPath() string { return filepath.Join(c.Data.Dir, c.Data.CardsFile) }

// CampaignsPath returns the full path of the campaign hierarchy file.
func (c *Config) CampaignsPath() string { return filepath.Join(c.Data.Dir, c.Data.CampaignsFile) }
