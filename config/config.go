// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/artpar/denda/domain/catalog"
	"github.com/artpar/denda/domain/penalty"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server       ServerConfig        `yaml:"server"`
	Logging      LoggingConfig       `yaml:"logging"`
	Metrics      MetricsConfig       `yaml:"metrics"`
	RateLimit    RateLimitConfig     `yaml:"rate_limit"`
	Penalty      PenaltyConfig       `yaml:"penalty"`
	Applications []ApplicationConfig `yaml:"applications"`
	Packages     []PackageConfig     `yaml:"packages"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // default: /metrics
}

// RateLimitConfig configures per-client request rate limiting of the HTTP API.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// PenaltyConfig selects where the penalty rate comes from.
type PenaltyConfig struct {
	Mode      string  `yaml:"mode"`       // "application" or "fixed"
	FixedRate float64 `yaml:"fixed_rate"` // used in fixed mode (0.5 = 50%); 0 means the default
}

// ApplicationConfig configures a streaming application.
type ApplicationConfig struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	PenaltyRate float64 `yaml:"penalty_rate"`
}

// PackageConfig configures a subscription package.
type PackageConfig struct {
	ID                    string `yaml:"id"`
	AppID                 string `yaml:"app_id"`
	Name                  string `yaml:"name"`
	Price                 int64  `yaml:"price"` // whole Rupiah
	MaxDevicesPerCustomer int    `yaml:"max_devices_per_customer"`
	MaxCustomers          int    `yaml:"max_customers,omitempty"`
}

// Catalog converts the configured tables to a catalog.
func (c *Config) Catalog() catalog.Catalog {
	out := catalog.Catalog{
		Applications: make([]catalog.Application, 0, len(c.Applications)),
		Packages:     make([]catalog.Package, 0, len(c.Packages)),
	}
	for _, a := range c.Applications {
		out.Applications = append(out.Applications, catalog.Application{
			ID:          a.ID,
			Name:        a.Name,
			PenaltyRate: a.PenaltyRate,
		})
	}
	for _, p := range c.Packages {
		out.Packages = append(out.Packages, catalog.Package{
			ID:                    p.ID,
			AppID:                 p.AppID,
			Name:                  p.Name,
			Price:                 p.Price,
			MaxDevicesPerCustomer: p.MaxDevicesPerCustomer,
			MaxCustomers:          p.MaxCustomers,
		})
	}
	return out
}

// Policy returns the configured penalty policy.
func (c *Config) Policy() penalty.Policy {
	return penalty.Policy{
		Mode:      penalty.Mode(c.Penalty.Mode),
		FixedRate: c.Penalty.FixedRate,
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes, applying environment
// overrides and defaults.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration from defaults and environment variables.
//
// Environment variables:
//
//	DENDA_SERVER_HOST         - Server host (default: 0.0.0.0)
//	DENDA_SERVER_PORT         - Server port (default: 8080)
//	DENDA_LOG_LEVEL           - Log level: debug, info, warn, error (default: info)
//	DENDA_LOG_FORMAT          - Log format: json or console (default: json)
//	DENDA_METRICS_ENABLED     - Enable /metrics endpoint (default: false)
//	DENDA_RATELIMIT_ENABLED   - Enable API rate limiting (default: false)
//	DENDA_PENALTY_MODE        - Penalty mode: application or fixed (default: application)
//	DENDA_PENALTY_FIXED_RATE  - Rate for fixed mode (default: 0.5)
func LoadFromEnv() (*Config, error) {
	return Parse(nil)
}

// LoadWithFallback loads the file when it exists and falls back to
// defaults plus environment variables otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies DENDA_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DENDA_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DENDA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("DENDA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DENDA_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("DENDA_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("DENDA_RATELIMIT_ENABLED"); v != "" {
		cfg.RateLimit.Enabled = parseBool(v)
	}

	if v := os.Getenv("DENDA_PENALTY_MODE"); v != "" {
		cfg.Penalty.Mode = v
	}
	if v := os.Getenv("DENDA_PENALTY_FIXED_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Penalty.FixedRate = rate
		}
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 10
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 20
	}

	def := penalty.DefaultPolicy()
	if cfg.Penalty.Mode == "" {
		cfg.Penalty.Mode = string(def.Mode)
	}
	if cfg.Penalty.FixedRate == 0 {
		cfg.Penalty.FixedRate = def.FixedRate
	}

	// Built-in tables if none configured
	if len(cfg.Applications) == 0 && len(cfg.Packages) == 0 {
		tables := catalog.Default()
		for _, a := range tables.Applications {
			cfg.Applications = append(cfg.Applications, ApplicationConfig{
				ID:          a.ID,
				Name:        a.Name,
				PenaltyRate: a.PenaltyRate,
			})
		}
		for _, p := range tables.Packages {
			cfg.Packages = append(cfg.Packages, PackageConfig{
				ID:                    p.ID,
				AppID:                 p.AppID,
				Name:                  p.Name,
				Price:                 p.Price,
				MaxDevicesPerCustomer: p.MaxDevicesPerCustomer,
				MaxCustomers:          p.MaxCustomers,
			})
		}
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", cfg.Server.Port)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}

	if cfg.RateLimit.RequestsPerSecond < 0 || cfg.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit.requests_per_second and rate_limit.burst must not be negative")
	}

	if !penalty.Mode(cfg.Penalty.Mode).Valid() {
		return fmt.Errorf("penalty.mode must be 'application' or 'fixed', got %q", cfg.Penalty.Mode)
	}
	if cfg.Penalty.FixedRate < 0 {
		return fmt.Errorf("penalty.fixed_rate must not be negative, got %v", cfg.Penalty.FixedRate)
	}

	if err := cfg.Catalog().Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	return nil
}
