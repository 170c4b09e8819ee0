package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/upi-search/internal/adapters/report"
	"github.com/eshaffer321/upi-search/internal/adapters/tradefile"
	"github.com/eshaffer321/upi-search/internal/application/batch"
	"github.com/eshaffer321/upi-search/internal/cli"
	"github.com/eshaffer321/upi-search/internal/domain/catalog"
	"github.com/eshaffer321/upi-search/internal/domain/matcher"
	"github.com/eshaffer321/upi-search/internal/domain/trade"
	"github.com/eshaffer321/upi-search/internal/infrastructure/config"
	"github.com/eshaffer321/upi-search/internal/infrastructure/logging"
)

func main() {
	// Parse flags
	flags, err := cli.ParseSearchFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	// Load configuration
	cfg := config.LoadOrEnvWithPath(flags.ConfigFile)
	flags.Apply(cfg)

	// Setup logging
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "upi-search")

	mcfg, err := cfg.MatcherConfig()
	if err != nil {
		logger.Error("Invalid matching configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.Catalog.Path == "" || cfg.Trades.Path == "" {
		logger.Error("Both -upi and -trades are required")
		os.Exit(1)
	}

	cli.PrintHeader(os.Stdout, "UPI search", mcfg.AssetClass)
	cli.PrintConfiguration(os.Stdout, mcfg, cfg.Catalog.Path, cfg.Trades.Path)

	// Load reference data
	cat, err := catalog.NewLoader(logger).LoadFile(cfg.Catalog.Path, mcfg.AssetClass)
	if err != nil {
		logger.Error("Failed to load UPI catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load trades
	rows, err := tradefile.Read(cfg.Trades.Path, cfg.Trades.Sheet)
	if err != nil {
		logger.Error("Failed to read trades", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(rows) == 0 {
		logger.Warn("No trades to match", "path", cfg.Trades.Path)
		return
	}

	mapping, err := resolveMapping(flags.MappingFile, cfg, rows[0].Columns, mcfg)
	if err != nil {
		logger.Error("Failed to resolve column mapping", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cli.PrintMapping(os.Stdout, mapping)

	// Run the batch
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := batch.NewService(matcher.NewMatcher(mcfg), batch.Options{Workers: cfg.Matching.Workers}, logger)
	result, err := svc.Run(ctx, rows, mapping, cat)
	if err != nil {
		logger.Error("Matching failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Export
	outputPath := cfg.Output.Path
	if outputPath == "" {
		outputPath = report.DefaultPath(time.Now())
	}
	if err := report.Write(outputPath, result); err != nil {
		logger.Error("Failed to export results", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cli.PrintSummary(os.Stdout, result, mcfg.Threshold.String(), mcfg.HighConfidence.String(), outputPath)
}

// resolveMapping prefers a mapping file, then the configured mapping, then
// auto-mapping against the trade header.
func resolveMapping(path string, cfg *config.Config, columns []string, mcfg matcher.Config) (trade.Mapping, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		m, err := trade.ParseMapping(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return m, nil
	}

	m, err := cfg.Mapping()
	if err != nil {
		return nil, err
	}
	if len(m) > 0 {
		return m, nil
	}

	m = trade.AutoMap(columns, mcfg.AssetClass)
	if len(m) == 0 {
		return nil, fmt.Errorf("no trade columns could be mapped to %s fields", mcfg.AssetClass)
	}
	return m, nil
}
