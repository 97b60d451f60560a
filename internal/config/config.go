package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"garment-tracker/internal/core"
)

// Config is read once at startup from the environment (after .env has been loaded).
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	AllowedOrigins  string
	LogLevel        string
	StockPolicy     core.StockPolicy
	Store           string // postgres or memory
	SizeGridsFile   string
	Timezone        *time.Location
	MigrationsOnRun bool
}

// Load reads the configuration. Invalid values are errors; missing values take defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Store:           strings.ToLower(getEnv("STORE", "postgres")),
		SizeGridsFile:   getEnv("SIZE_GRIDS_FILE", ""),
		MigrationsOnRun: getEnv("MIGRATE_ON_START", "false") == "true",
	}

	policy, err := core.ParseStockPolicy(getEnv("CUTTING_STOCK_POLICY", string(core.PolicyPessimistic)))
	if err != nil {
		return nil, fmt.Errorf("CUTTING_STOCK_POLICY: %w", err)
	}
	cfg.StockPolicy = policy

	switch cfg.Store {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("STORE: unknown store %q (want postgres or memory)", cfg.Store)
	}
	if cfg.Store == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	loc, err := time.LoadLocation(getEnv("TZ_REPORTS", "Local"))
	if err != nil {
		return nil, fmt.Errorf("TZ_REPORTS: %w", err)
	}
	cfg.Timezone = loc

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
