// Package scoring computes the weighted similarity between a trade and a
// reference record.
//
// Fields are compared in canonical order. For each field the trade carries,
// the first rule that applies decides the points awarded:
//
//  1. currency pair (FX): both pair currencies on both sides, compared in
//     either order as one unit
//  2. exact: trimmed, case-insensitive equality
//  3. partial: asset class synonyms, cash/physical delivery families and
//     reference rate substrings earn a fixed share of the weight
//  4. mismatch: nothing
package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// ErrUnknownMode is returned by ParseMode for anything but additive or percentage.
var ErrUnknownMode = errors.New("unknown scoring mode")

// Mode selects how awarded points become a score.
type Mode string

const (
	// ModeAdditive reports the sum of awarded points.
	ModeAdditive Mode = "additive"
	// ModePercentage reports awarded points over the weight of the fields
	// the trade actually carried, times 100.
	ModePercentage Mode = "percentage"
)

// ParseMode resolves a mode name. The empty string selects ModeAdditive.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAdditive:
		return ModeAdditive, nil
	case ModePercentage:
		return ModePercentage, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Rule names the comparison that produced a field score.
type Rule string

const (
	RuleCurrencyPair Rule = "currency_pair"
	RuleExact        Rule = "exact"
	RulePartial      Rule = "partial"
	RuleMismatch     Rule = "mismatch"
)

var (
	hundred = decimal.NewFromInt(100)

	assetClassShare    = decimal.RequireFromString("0.75")
	deliveryTypeShare  = decimal.RequireFromString("0.80")
	referenceRateShare = decimal.RequireFromString("0.70")
)

// FieldScore explains one line of a score.
type FieldScore struct {
	Field      upi.Field
	Rule       Rule
	Weight     decimal.Decimal
	Awarded    decimal.Decimal
	TradeValue string
	RefValue   string
}

// Result is the outcome of scoring one trade against one record.
type Result struct {
	Total     decimal.Decimal
	Awarded   decimal.Decimal
	Evaluated decimal.Decimal
	Breakdown []FieldScore
}

// Scorer scores trades for one asset class in one mode. It is immutable and
// safe for concurrent use.
type Scorer struct {
	assetClass upi.AssetClass
	mode       Mode
	weights    Weights
}

// NewScorer builds a scorer. Nil weights select DefaultWeights(ac).
func NewScorer(ac upi.AssetClass, mode Mode, weights Weights) *Scorer {
	if weights == nil {
		weights = DefaultWeights(ac)
	}
	if mode == "" {
		mode = ModeAdditive
	}
	return &Scorer{
		assetClass: ac,
		mode:       mode,
		weights:    weights.With(nil),
	}
}

// Mode returns the scoring mode.
func (s *Scorer) Mode() Mode {
	return s.mode
}

// Score compares trade attributes with a reference record.
func (s *Scorer) Score(trade upi.Attributes, rec upi.Record) Result {
	res := Result{
		Awarded:   decimal.Zero,
		Evaluated: decimal.Zero,
	}

	pair := s.assetClass == upi.AssetClassFX &&
		trade.HasCurrencyPair() && rec.Attributes.HasCurrencyPair()
	pairMatch := pair && pairsMatch(trade, rec.Attributes)

	for _, f := range upi.Fields {
		tv := trade.Get(f)
		if tv == "" {
			continue
		}
		rv := rec.Value(f)
		weight := decimal.NewFromInt(int64(s.weights.Of(f)))

		fs := FieldScore{
			Field:      f,
			Weight:     weight,
			Awarded:    decimal.Zero,
			TradeValue: tv,
			RefValue:   rv,
		}

		if pair && (f == upi.FieldNotionalCurrency || f == upi.FieldOtherNotionalCurrency) {
			fs.Rule = RuleCurrencyPair
			if pairMatch {
				fs.Awarded = weight
			}
		} else {
			fs.Rule, fs.Awarded = compare(f, tv, rv, weight)
		}

		res.Evaluated = res.Evaluated.Add(weight)
		res.Awarded = res.Awarded.Add(fs.Awarded)
		res.Breakdown = append(res.Breakdown, fs)
	}

	res.Total = s.total(res.Awarded, res.Evaluated)
	return res
}

func (s *Scorer) total(awarded, evaluated decimal.Decimal) decimal.Decimal {
	if s.mode == ModePercentage {
		if evaluated.IsZero() {
			return decimal.Zero
		}
		return awarded.Mul(hundred).Div(evaluated).Round(2)
	}
	return awarded.Round(2)
}

func pairsMatch(trade, ref upi.Attributes) bool {
	t1, t2 := trade.Get(upi.FieldNotionalCurrency), trade.Get(upi.FieldOtherNotionalCurrency)
	r1, r2 := ref.Get(upi.FieldNotionalCurrency), ref.Get(upi.FieldOtherNotionalCurrency)
	return (upi.Equal(t1, r1) && upi.Equal(t2, r2)) ||
		(upi.Equal(t1, r2) && upi.Equal(t2, r1))
}

func compare(f upi.Field, tv, rv string, weight decimal.Decimal) (Rule, decimal.Decimal) {
	if rv == "" {
		return RuleMismatch, decimal.Zero
	}
	if upi.Equal(tv, rv) {
		return RuleExact, weight
	}
	if share, ok := partialShare(f, tv, rv); ok {
		return RulePartial, weight.Mul(share)
	}
	return RuleMismatch, decimal.Zero
}

func partialShare(f upi.Field, tv, rv string) (decimal.Decimal, bool) {
	switch {
	case f == upi.FieldAssetClass:
		tc, tok := upi.ClassifyAssetClass(tv)
		rc, rok := upi.ClassifyAssetClass(rv)
		if tok && rok && tc == rc {
			return assetClassShare, true
		}
	case f == upi.FieldDeliveryType:
		t, r := upi.Fold(tv), upi.Fold(rv)
		if (strings.Contains(t, "CASH") && strings.Contains(r, "CASH")) ||
			(strings.Contains(t, "PHYS") && strings.Contains(r, "PHYS")) {
			return deliveryTypeShare, true
		}
	case f.IsReferenceRate():
		t, r := upi.Fold(tv), upi.Fold(rv)
		if strings.Contains(t, r) || strings.Contains(r, t) {
			return referenceRateShare, true
		}
	}
	return decimal.Zero, false
}
