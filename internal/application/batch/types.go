package batch

import (
	"time"

	"github.com/eshaffer321/upi-search/internal/domain/currency"
	"github.com/eshaffer321/upi-search/internal/domain/matcher"
	"github.com/eshaffer321/upi-search/internal/domain/trade"
)

// Options holds batch configuration
type Options struct {
	Workers int // Concurrent matchers (default: runtime.NumCPU())
}

// Item is the outcome for one trade row.
type Item struct {
	Row      trade.Row
	Match    matcher.MatchResult
	Override currency.Override
}

// Result holds batch results
type Result struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Items    []Item // same order as the input rows
	Summary  Summary
}

// Summary counts outcomes across a run.
type Summary struct {
	Total            int
	Matched          int // score >= threshold
	HighConfidence   int
	NoMatch          int
	Swapped          int
	OffshoreAdjusted int
}

// MatchRate is the share of matched trades as a percentage.
func (s Summary) MatchRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total) * 100
}

// Summarize counts the outcomes of items.
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch it.Match.Confidence {
		case matcher.HighConfidence:
			s.Matched++
			s.HighConfidence++
		case matcher.Matched:
			s.Matched++
		default:
			s.NoMatch++
		}
		if it.Match.Orientation == matcher.OrientationSwapped {
			s.Swapped++
		}
		if !it.Override.Empty() {
			s.OffshoreAdjusted++
		}
	}
	return s
}
