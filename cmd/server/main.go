package main

import (
	"context"
	"net/http"

	webAdapter "garment-tracker/internal/adapters/web"
	"garment-tracker/internal/app"
	"garment-tracker/internal/config"
	"garment-tracker/internal/db"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	grids, err := config.LoadSizeGrids(cfg.SizeGridsFile)
	if err != nil {
		logger.Fatalf("size grids: %v", err)
	}

	ctx := context.Background()
	store, closeStore, err := db.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer closeStore()

	svc := app.New(store, grids, cfg.StockPolicy, cfg.Timezone, logger)
	handler := webAdapter.NewHandler(svc, cfg.AllowedOrigins, logger)

	logger.WithFields(logrus.Fields{
		"port":   cfg.HTTPPort,
		"store":  cfg.Store,
		"policy": cfg.StockPolicy,
	}).Info("server starting")
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
