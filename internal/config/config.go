// Package config loads runtime settings from a YAML file with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Pranoy-dev/Knightec-Conferences/internal/logger"
)

// Environment variables that override file values
const (
	EnvListenAddress   = "CONFSCRAPE_LISTEN_ADDRESS"
	EnvLogLevel        = "CONFSCRAPE_LOG_LEVEL"
	EnvLogFormat       = "CONFSCRAPE_LOG_FORMAT"
	EnvScraperTimeout  = "CONFSCRAPE_SCRAPER_TIMEOUT"
	EnvDefaultCurrency = "CONFSCRAPE_DEFAULT_CURRENCY"
	EnvRateLimit       = "CONFSCRAPE_RATE_LIMIT"
)

type Server struct {
	ListenAddress   string        `yaml:"listen_address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimit       float64       `yaml:"rate_limit"` // scrape requests per second, 0 disables
	RateBurst       int           `yaml:"rate_burst"`
}

type Scraper struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Defaults struct {
	Currency string `yaml:"currency"`
}

type Config struct {
	Server   Server   `yaml:"server"`
	Scraper  Scraper  `yaml:"scraper"`
	Logging  Logging  `yaml:"logging"`
	Defaults Defaults `yaml:"defaults"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path (when non-empty), applies environment overrides and defaults, and
// validates the result
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvListenAddress); v != "" {
		c.Server.ListenAddress = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvDefaultCurrency); v != "" {
		c.Defaults.Currency = v
	}
	if v := os.Getenv(EnvScraperTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvScraperTimeout, err)
		}
		c.Scraper.Timeout = d
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvRateLimit, err)
		}
		c.Server.RateLimit = r
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	// Scrapes block on a remote fetch, so the write timeout must outlast the fetch timeout
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst == 0 {
		c.Server.RateBurst = 1
	}
	if c.Scraper.Timeout == 0 {
		c.Scraper.Timeout = 30 * time.Second
	}
	if c.Scraper.MaxBodyBytes == 0 {
		c.Scraper.MaxBodyBytes = 10 << 20
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Defaults.Currency == "" {
		c.Defaults.Currency = "SEK"
	}
	c.Defaults.Currency = strings.ToUpper(strings.TrimSpace(c.Defaults.Currency))
}

// Validate rejects negative durations and limits, and unknown log settings
func (c *Config) Validate() error {
	durations := map[string]time.Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"scraper.timeout":         c.Scraper.Timeout,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s must not be negative (got %s)", name, d)
		}
	}

	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("server.rate_limit and server.rate_burst must not be negative")
	}
	if c.Scraper.MaxBodyBytes < 0 {
		return fmt.Errorf("scraper.max_body_bytes must not be negative")
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := logger.ParseFormat(c.Logging.Format); err != nil {
		return err
	}
	if len(c.Defaults.Currency) != 3 {
		return fmt.Errorf("defaults.currency must be a 3-letter code (got %q)", c.Defaults.Currency)
	}
	return nil
}

// NewLogger builds the logger described by the logging section
func (c *Config) NewLogger() (*logger.Logger, error) {
	level, err := logger.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(c.Logging.Format)
	if err != nil {
		return nil, err
	}
	return logger.NewWithFormat(level, format, os.Stderr), nil
}
