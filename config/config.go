package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/JoseManuelOberreuter/Binance-API/internal/adapters/logger"
	"github.com/JoseManuelOberreuter/Binance-API/internal/timerange"
)

// Config holds all application configuration.
type Config struct {
	// Binance API
	BaseURL        string        `env:"BINANCE_BASE_URL" envDefault:"https://api.binance.com"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	// Cache freshness windows
	KlinesTTL time.Duration `env:"KLINES_CACHE_TTL" envDefault:"5m"`
	TickerTTL time.Duration `env:"TICKER_CACHE_TTL" envDefault:"30s"`

	// Dashboard
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"30s"`
	DefaultSymbol   string        `env:"DEFAULT_SYMBOL" envDefault:"BTCUSDT"`
	DefaultRange    string        `env:"DEFAULT_RANGE" envDefault:"1M"`

	// Logging
	LogLevelName string          `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat    string          `env:"LOG_FORMAT" envDefault:"text"`
	LogFile      string          `env:"LOG_FILE"` // Empty: stderr for CLIs, discarded by the dashboard
	LogLevel     logger.LogLevel // Derived from LogLevelName
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if errs := cfg.validate(); len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	cfg.LogLevel = logger.ParseLevel(cfg.LogLevelName)
	return cfg, nil
}

func (c *Config) validate() []string {
	var errs []string

	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("BINANCE_BASE_URL %q is not an absolute URL", c.BaseURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, "REQUEST_TIMEOUT must be positive")
	}
	if c.KlinesTTL <= 0 {
		errs = append(errs, "KLINES_CACHE_TTL must be positive")
	}
	if c.TickerTTL <= 0 {
		errs = append(errs, "TICKER_CACHE_TTL must be positive")
	}
	if c.RefreshInterval <= 0 {
		errs = append(errs, "REFRESH_INTERVAL must be positive")
	}
	if c.DefaultSymbol == "" {
		errs = append(errs, "DEFAULT_SYMBOL must be set")
	}

	known := false
	for _, l := range timerange.Labels() {
		if string(l) == c.DefaultRange {
			known = true
			break
		}
	}
	if !known {
		errs = append(errs, fmt.Sprintf("DEFAULT_RANGE %q is not one of 24h, 1w, 1M, 3M, 1y, All", c.DefaultRange))
	}

	switch strings.ToLower(c.LogFormat) {
	case logger.FormatText, logger.FormatJSON, logger.FormatPretty:
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT %q must be text, json or pretty", c.LogFormat))
	}

	return errs
}
