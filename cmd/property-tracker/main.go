// Command property-tracker is an interactive CLI over a Google Sheet of
// quarterly Irish house prices: view the latest record, analyse a quarter
// range for one region, append a new quarterly row and export results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sdaly-ie/property-tracker-cli/internal/app"
	"github.com/sdaly-ie/property-tracker-cli/internal/config"
	"github.com/sdaly-ie/property-tracker-cli/internal/exporter"
	"github.com/sdaly-ie/property-tracker-cli/internal/infrastructure"
	"github.com/sdaly-ie/property-tracker-cli/internal/prompt"
	"github.com/sdaly-ie/property-tracker-cli/internal/sheets"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "property-tracker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "config.yaml", "path to optional YAML config file")
	envFile := flag.String("env", ".env", "path to optional .env file")
	outDir := flag.String("out", "", "export directory (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	// A missing .env file is fine; explicit env vars still apply.
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load env file", "path", *envFile, "error", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *outDir != "" {
		cfg.ExportDir = *outDir
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogger()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sheets.NewClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	a := app.New(
		store,
		prompt.New(os.Stdin, os.Stdout),
		exporter.NewWriter(cfg.ExportDir, logger),
		os.Stdout,
		logger,
	)

	logger.Info("property tracker started",
		slog.String("spreadsheet_id", cfg.SpreadsheetID),
		slog.String("export_dir", cfg.ExportDir))

	return a.Run(ctx)
}
