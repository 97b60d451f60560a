// app is the terminal front end of the workshop tracker.
//
// With arguments it runs one command and exits:
//
//	go run ./cmd/app orders SEWING
//	go run ./cmd/app cut-start 42
//
// Without arguments it starts the interactive shell.
package main

import (
	"context"
	"fmt"
	"os"

	"garment-tracker/internal/adapters/cli"
	"garment-tracker/internal/adapters/repl"
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
	logger.SetOutput(os.Stderr)

	grids, err := config.LoadSizeGrids(cfg.SizeGridsFile)
	if err != nil {
		logger.Fatalf("size grids: %v", err)
	}

	ctx := context.Background()
	store, closeStore, err := db.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Unable to connect to database: %v", err)
	}
	defer closeStore()

	svc := app.New(store, grids, cfg.StockPolicy, cfg.Timezone, logger)

	if len(os.Args) > 1 {
		if err := cli.Run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			closeStore()
			os.Exit(1)
		}
		return
	}

	repl.NewShell(svc, os.Stdin, os.Stdout).Run(ctx)
}
