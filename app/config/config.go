// Package config loads the server settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"newsboard/app/logger"
	"newsboard/app/repositories"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvAddr        = "NEWSBOARD_ADDR"
	EnvStorage     = "NEWSBOARD_STORAGE"
	EnvDSN         = "NEWSBOARD_DSN"
	EnvNewsCount   = "NEWSBOARD_NEWS_COUNT"
	EnvSessionTTL  = "NEWSBOARD_SESSION_TTL"
	EnvLogLevel    = "NEWSBOARD_LOG_LEVEL"
	DefaultEnvFile = ".env"
)

// StorageConfig selects the database.
type StorageConfig struct {
	Type string `yaml:"type"`
	DSN  string `yaml:"dsn"`
}

// Config holds all server settings.
type Config struct {
	Addr            string        `yaml:"addr"`
	Storage         StorageConfig `yaml:"storage"`
	NewsPerPage     int           `yaml:"news_count_on_home_page"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Addr: ":8080",
		Storage: StorageConfig{
			Type: repositories.StorageBadger,
			DSN:  "data/badger",
		},
		NewsPerPage:     10,
		SessionTTL:      14 * 24 * time.Hour,
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile exports the variables in a dotenv file that are not set
// already. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from the variables lookup finds.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok {
		c.Addr = v
	}
	if v, ok := lookup(EnvStorage); ok {
		c.Storage.Type = v
	}
	if v, ok := lookup(EnvDSN); ok {
		c.Storage.DSN = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvNewsCount); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNewsCount, err)
		}
		c.NewsPerPage = n
	}
	if v, ok := lookup(EnvSessionTTL); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSessionTTL, err)
		}
		c.SessionTTL = d
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case repositories.StorageBadger, repositories.StorageSQLite:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.Storage.DSN == "" {
		return errors.New("storage dsn is required")
	}
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.NewsPerPage < 1 {
		return fmt.Errorf("news_count_on_home_page must be positive, got %d", c.NewsPerPage)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}
