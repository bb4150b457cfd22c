package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the deskfeed client.
type Config struct {
	API       API       `yaml:"api"`
	Storage   Storage   `yaml:"storage"`
	Dashboard Dashboard `yaml:"dashboard"`
	Logging   Logging   `yaml:"logging"`
}

// API holds the platform REST API endpoint and request behaviour.
type API struct {
	BaseURL         string `yaml:"base_url"`
	Token           string `yaml:"token"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	MaxRetries      int    `yaml:"max_retries"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// Storage holds paths for local persistence (snapshot archive, pin store).
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Dashboard controls aggregation and refresh behaviour.
type Dashboard struct {
	WindowDays int `yaml:"window_days"` // "recent" window for date-filtered stats
	TopK       int `yaml:"top_k"`       // entries kept in the most-active table
	RefreshSec int `yaml:"refresh_sec"` // auto-refresh interval, 0 disables
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, applies defaults for unset fields, and then applies
// environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("config: api.base_url is required")
	}

	return cfg, nil
}

// Default returns a Config with defaults applied and environment overrides
// honoured, for running without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = 10
	}
	if cfg.API.MaxRetries <= 0 {
		cfg.API.MaxRetries = 3
	}
	if cfg.API.RateLimitPerMin <= 0 {
		cfg.API.RateLimitPerMin = 120
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = filepath.Join(cfg.Storage.DataDir, "deskfeed.db")
	}
	if cfg.Dashboard.WindowDays <= 0 {
		cfg.Dashboard.WindowDays = 7
	}
	if cfg.Dashboard.TopK <= 0 {
		cfg.Dashboard.TopK = 5
	}
	if cfg.Dashboard.RefreshSec <= 0 {
		cfg.Dashboard.RefreshSec = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DESKFEED_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("DESKFEED_TOKEN"); v != "" {
		cfg.API.Token = v
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("DESKFEED_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Dashboard.WindowDays = n
		}
	}
}
