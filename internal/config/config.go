package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config.yaml"

// AppConfig holds all runtime configuration. Values come from the YAML file,
// then PORTAL_* environment variables override (a .env file is honored in
// development).
type AppConfig struct {
	Env  string `yaml:"env"`
	Port int    `yaml:"port"`

	DSN      string `yaml:"dsn"`
	RedisURL string `yaml:"redis_url"`

	AllowedOrigins []string `yaml:"allowed_origins"`

	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`

	// ReconcileSchedule is a standard 5-field cron expression for the
	// publication counter reconciliation job. Empty disables the job.
	ReconcileSchedule string `yaml:"reconcile_schedule"`
}

// Load reads configuration from path and applies environment overrides.
// A missing file is not an error when the environment provides a DSN.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Env:               "production",
		Port:              3000,
		CacheTTLSeconds:   15,
		ReconcileSchedule: "0 4 * * *",
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.DSN == "" {
		return nil, fmt.Errorf("no database DSN configured (set dsn in %s or PORTAL_DSN)", path)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("PORTAL_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PORTAL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("PORTAL_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("PORTAL_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("PORTAL_RECONCILE_SCHEDULE"); v != "" {
		cfg.ReconcileSchedule = v
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
