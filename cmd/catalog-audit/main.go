package main

import (
	"bytes"
	"log/slog"
	"os"

	"github.com/eshaffer321/upi-search/internal/cli"
	"github.com/eshaffer321/upi-search/internal/domain/catalog"
	"github.com/eshaffer321/upi-search/internal/domain/upi"
	"github.com/eshaffer321/upi-search/internal/infrastructure/config"
	"github.com/eshaffer321/upi-search/internal/infrastructure/logging"
)

func main() {
	flags, err := cli.ParseAuditFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	cfg := config.LoadOrEnvWithPath(flags.ConfigFile)
	if flags.CatalogPath != "" {
		cfg.Catalog.Path = flags.CatalogPath
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "catalog-audit")

	if cfg.Catalog.Path == "" {
		logger.Error("A catalog path is required (-upi or catalog.path)")
		os.Exit(1)
	}

	data, err := os.ReadFile(cfg.Catalog.Path)
	if err != nil {
		logger.Error("Failed to read catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}
	variant, err := catalog.DetectFormat(cfg.Catalog.Path, data)
	if err != nil {
		logger.Error("Failed to detect catalog format", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cat, err := catalog.NewLoader(logger).Load(bytes.NewReader(data), variant)
	if err != nil {
		logger.Error("Failed to load catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if flags.AssetClass != "" {
		ac, err := upi.ParseAssetClass(flags.AssetClass)
		if err != nil {
			logger.Error("Invalid asset class", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if cat, err = cat.ForAssetClass(ac); err != nil {
			logger.Error("Failed to filter catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	cli.PrintCatalogStats(os.Stdout, cfg.Catalog.Path, cat.Stats())
}
