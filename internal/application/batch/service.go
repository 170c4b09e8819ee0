// Package batch matches many trade rows against one catalog.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eshaffer321/upi-search/internal/domain/catalog"
	"github.com/eshaffer321/upi-search/internal/domain/matcher"
	"github.com/eshaffer321/upi-search/internal/domain/trade"
)

// Service runs the batch matching process
type Service struct {
	matcher *matcher.Matcher
	opts    Options
	logger  *slog.Logger
}

// NewService creates a new batch service
func NewService(m *matcher.Matcher, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Service{
		matcher: m,
		opts:    opts,
		logger:  logger,
	}
}

// Run extracts and matches every row. Each worker writes only its own slot,
// so Items keep the input order. Cancelling ctx abandons the run and
// returns ctx.Err().
func (s *Service) Run(ctx context.Context, rows []trade.Row, mapping trade.Mapping, cat *catalog.Catalog) (*Result, error) {
	if cat == nil {
		return nil, fmt.Errorf("batch: nil catalog")
	}

	result := &Result{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Items:   make([]Item, len(rows)),
	}
	logger := s.logger.With("run_id", result.RunID)

	logger.Info("Starting UPI search",
		"trades", len(rows),
		"catalog_records", cat.Len(),
		"workers", s.opts.Workers,
		"asset_class", s.matcher.Config().AssetClass,
		"mode", s.matcher.Config().Mode,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := rows[i]
			attrs, override := trade.ExtractWithOverride(row, mapping)
			match := s.matcher.FindMatch(row.Index, attrs, cat)
			result.Items[i] = Item{Row: row, Match: match, Override: override}

			logger.Debug("Matched trade",
				"trade_index", row.Index,
				"upi", match.Code,
				"score", match.Score.String(),
				"confidence", match.Confidence,
				"orientation", match.Orientation,
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Duration = time.Since(result.Started)
	result.Summary = Summarize(result.Items)

	logger.Info("UPI search complete",
		"total", result.Summary.Total,
		"matched", result.Summary.Matched,
		"high_confidence", result.Summary.HighConfidence,
		"no_match", result.Summary.NoMatch,
		"duration", result.Duration.Round(time.Millisecond),
	)
	return result, nil
}
