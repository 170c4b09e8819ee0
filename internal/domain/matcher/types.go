package matcher

import (
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/upi-search/internal/domain/scoring"
	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// Config holds matcher configuration
type Config struct {
	AssetClass     upi.AssetClass
	Mode           scoring.Mode
	Threshold      decimal.Decimal // Default: 50
	HighConfidence decimal.Decimal // Default: 80
	Weights        scoring.Weights // nil selects the asset class defaults
	ProductType    string          // Optional UseCase pre-filter
	RetrySwapped   bool            // Rescan with the pair currencies swapped on a miss
}

// DefaultConfig returns sensible defaults for an asset class
func DefaultConfig(ac upi.AssetClass) Config {
	return Config{
		AssetClass:     ac,
		Mode:           scoring.ModeAdditive,
		Threshold:      decimal.NewFromInt(50),
		HighConfidence: decimal.NewFromInt(80),
	}
}

// Confidence is the tier a score falls into.
type Confidence string

const (
	NoMatch        Confidence = "NoMatch"
	Matched        Confidence = "Matched"
	HighConfidence Confidence = "HighConfidence"
)

// Orientation records which currency order produced the result.
type Orientation string

const (
	OrientationOriginal Orientation = "original"
	OrientationSwapped  Orientation = "swapped"
)

// Candidate is a record that scored above zero.
type Candidate struct {
	Code  string
	Score decimal.Decimal
}

// MatchResult contains match information for one trade
type MatchResult struct {
	TradeIndex  int
	Code        string // empty when Confidence is NoMatch
	Record      *upi.Record
	Score       decimal.Decimal
	Breakdown   []scoring.FieldScore
	Candidates  []Candidate // best first
	Confidence  Confidence
	Orientation Orientation
	Attributes  upi.Attributes // the trade attributes that were scored
}

// IsMatch reports whether a record cleared the threshold.
func (r MatchResult) IsMatch() bool {
	return r.Confidence != NoMatch
}
