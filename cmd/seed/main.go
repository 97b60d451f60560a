// seed loads a small demo workshop: products, seamstresses, fabrics and two orders.
// Records that already exist are left alone, so it is safe to run twice.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"errors"

	"garment-tracker/internal/app"
	"garment-tracker/internal/config"
	"garment-tracker/internal/core"
	"garment-tracker/internal/db"
	"garment-tracker/internal/db/sqltime"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
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
		logger.Fatalf("Failed to connect: %v", err)
	}
	defer closeStore()

	svc := app.New(store, grids, cfg.StockPolicy, cfg.Timezone, logger)

	logger.Info("Seeding products...")
	for _, p := range []app.ProductRequest{
		{
			ID: "p-1020", Code: "1020", Description: "Blusa manga curta", DefaultFabric: "Viscose",
			DefaultColors: []core.ColorOption{{Name: "Azul", Hex: "#1e40af"}, {Name: "Preto", Hex: "#000000"}},
			DefaultGrid:   "STANDARD", EstimatedPiecesPerRoll: 40,
		},
		{
			ID: "p-2040", Code: "2040", Description: "Vestido plus", DefaultFabric: "Malha",
			DefaultColors: []core.ColorOption{{Name: "Vinho", Hex: "#7f1d1d"}},
			DefaultGrid:   "STANDARD", EstimatedPiecesPerRoll: 25,
		},
	} {
		_, err := svc.CreateProduct(ctx, p)
		skipExisting(logger, "product", p.ID, err)
	}

	logger.Info("Seeding seamstresses...")
	for _, m := range []app.SeamstressRequest{
		{ID: "s-ana", Name: "Ana", Phone: "11 99999-0001", Specialty: "Blusas", City: "São Paulo"},
		{ID: "s-bia", Name: "Bia", Phone: "11 99999-0002", Specialty: "Vestidos", City: "Guarulhos"},
	} {
		_, err := svc.CreateSeamstress(ctx, m)
		skipExisting(logger, "seamstress", m.ID, err)
	}

	logger.Info("Seeding fabrics...")
	for _, f := range []app.FabricRequest{
		{ID: "f-vis-azul", Name: "Viscose", Color: "Azul", ColorHex: "#1e40af", StockRolls: decimal.NewFromInt(12)},
		{ID: "f-vis-preto", Name: "Viscose", Color: "Preto", ColorHex: "#000000", StockRolls: decimal.RequireFromString("7.5")},
		{ID: "f-malha-vinho", Name: "Malha", Color: "Vinho", ColorHex: "#7f1d1d", StockRolls: decimal.NewFromInt(4)},
	} {
		_, err := svc.CreateFabric(ctx, f)
		skipExisting(logger, "fabric", f.ID, err)
	}

	logger.Info("Seeding orders...")
	created, err := sqltime.ParseAny("2025-03-03")
	if err != nil {
		logger.Fatalf("seed date: %v", err)
	}
	for _, o := range []app.CreateOrderRequest{
		{
			ID: "1", ReferenceID: "p-1020", Fabric: "Viscose", Notes: "Coleção outono", CreatedAt: &created,
			Items: []app.OrderItemRequest{
				{Color: "Azul", ColorHex: "#1e40af", RollsUsed: decimal.NewFromInt(2), PiecesPerSize: 10},
				{Color: "Preto", ColorHex: "#000000", RollsUsed: decimal.NewFromInt(1), PiecesPerSize: 6},
			},
		},
		{
			ID: "2", ReferenceID: "p-2040", CreatedAt: &created,
			Items: []app.OrderItemRequest{
				{Color: "Vinho", ColorHex: "#7f1d1d", RollsUsed: decimal.NewFromInt(1), PiecesPerSize: 5},
			},
		},
	} {
		_, err := svc.CreateOrder(ctx, o)
		skipExisting(logger, "order", o.ID, err)
	}

	logger.Info("Seed data loaded successfully.")
}

func skipExisting(logger *logrus.Logger, entity, id string, err error) {
	switch {
	case err == nil:
		logger.WithFields(logrus.Fields{"entity": entity, "id": id}).Info("created")
	case errors.Is(err, core.ErrConflict):
		logger.WithFields(logrus.Fields{"entity": entity, "id": id}).Info("already present, skipped")
	default:
		config.LogError(logger, "seed", "main", "create "+entity, id, err)
		logger.Fatal("seed aborted")
	}
}
