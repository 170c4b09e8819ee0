// Package matcher selects the best reference record for a trade.
//
// The matcher uses these criteria:
//   - Every record of the (optionally product-filtered) catalog is scored
//   - A strictly higher score replaces the best; ties keep the earliest record
//   - The best score must reach the threshold (default 50) to count as a match
//   - Scores at or above the high confidence mark (default 80) are HighConfidence
//
// Example usage:
//
//	config := matcher.DefaultConfig(upi.AssetClassFX)
//	m := matcher.NewMatcher(config)
//	result := m.FindMatch(0, attrs, cat)
//	if result.IsMatch() {
//		// Found a match!
//		code := result.Code
//	}
package matcher

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/upi-search/internal/domain/catalog"
	"github.com/eshaffer321/upi-search/internal/domain/scoring"
	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// Matcher matches trade attributes with catalog records
type Matcher struct {
	config Config
	scorer *scoring.Scorer
}

// NewMatcher creates a new matcher with the given config
func NewMatcher(config Config) *Matcher {
	return &Matcher{
		config: config,
		scorer: scoring.NewScorer(config.AssetClass, config.Mode, config.Weights),
	}
}

// Config returns the configuration the matcher was built with.
func (m *Matcher) Config() Config {
	return m.config
}

// pass is the outcome of scanning the catalog once.
type pass struct {
	best       int
	result     scoring.Result
	candidates []Candidate
}

func (p pass) score() decimal.Decimal {
	if p.best < 0 {
		return decimal.Zero
	}
	return p.result.Total
}

// FindMatch finds the best matching record for a trade.
// The catalog is never modified; attrs is only read.
func (m *Matcher) FindMatch(tradeIndex int, attrs upi.Attributes, cat *catalog.Catalog) MatchResult {
	result := MatchResult{
		TradeIndex:  tradeIndex,
		Score:       decimal.Zero,
		Confidence:  NoMatch,
		Orientation: OrientationOriginal,
		Attributes:  attrs,
	}

	pool := cat
	if pool != nil && m.config.ProductType != "" {
		pool = pool.WithProductType(m.config.ProductType)
	}
	if pool == nil || pool.Len() == 0 {
		return result
	}

	chosen := m.scan(attrs, pool)

	// Retry with the pair currencies swapped on a copy
	if m.config.RetrySwapped &&
		chosen.score().LessThan(m.config.Threshold) &&
		attrs.HasCurrencyPair() {
		swapped := attrs.SwapCurrencies()
		retry := m.scan(swapped, pool)
		if retry.score().GreaterThan(chosen.score()) {
			chosen = retry
			result.Orientation = OrientationSwapped
			result.Attributes = swapped
		}
	}

	result.Candidates = chosen.candidates
	if chosen.best < 0 {
		return result
	}
	result.Score = chosen.result.Total
	result.Breakdown = chosen.result.Breakdown

	if result.Score.LessThan(m.config.Threshold) {
		return result
	}

	rec := pool.At(chosen.best)
	result.Code = rec.Code
	result.Record = &rec
	result.Confidence = Matched
	if !result.Score.LessThan(m.config.HighConfidence) {
		result.Confidence = HighConfidence
	}
	return result
}

func (m *Matcher) scan(attrs upi.Attributes, pool *catalog.Catalog) pass {
	p := pass{best: -1}

	for i := 0; i < pool.Len(); i++ {
		rec := pool.At(i)
		res := m.scorer.Score(attrs, rec)

		if res.Total.IsPositive() {
			p.candidates = append(p.candidates, Candidate{Code: rec.Code, Score: res.Total})
		}
		if p.best < 0 || res.Total.GreaterThan(p.result.Total) {
			p.best = i
			p.result = res
		}
	}

	sort.SliceStable(p.candidates, func(i, j int) bool {
		return p.candidates[i].Score.GreaterThan(p.candidates[j].Score)
	})
	return p
}
