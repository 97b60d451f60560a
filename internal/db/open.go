package db

import (
	"context"
	"fmt"

	"garment-tracker/internal/config"
	"garment-tracker/internal/core"
	"garment-tracker/internal/db/memstore"
	"garment-tracker/migrations"

	"github.com/sirupsen/logrus"
)

// Open returns the store selected by cfg.Store and a func that releases it.
// For postgres the schema is migrated first when cfg.MigrationsOnRun is set.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (core.Store, func(), error) {
	if cfg.Store == "memory" {
		logger.WithField("store", "memory").Warn("using in-memory store; data is lost on exit")
		return memstore.New(), func() {}, nil
	}

	pool, err := NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if cfg.MigrationsOnRun {
		if err := Migrate(ctx, pool, migrations.FS, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return NewStore(pool, logger), pool.Close, nil
}
