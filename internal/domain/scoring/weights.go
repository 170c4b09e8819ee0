package scoring

import (
	"fmt"

	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// FallbackWeight scores a trade field that has no entry in the weight table.
const FallbackWeight = 5

// Weights maps canonical fields to their non-negative weight.
type Weights map[upi.Field]int

// DefaultWeights returns a fresh copy of the standard table for ac.
func DefaultWeights(ac upi.AssetClass) Weights {
	switch ac {
	case upi.AssetClassIR:
		return Weights{
			upi.FieldAssetClass:            20,
			upi.FieldInstrumentType:        20,
			upi.FieldProductType:           20,
			upi.FieldReferenceRate:         15,
			upi.FieldNotionalCurrency:      10,
			upi.FieldTerm:                  10,
			upi.FieldOtherLegReferenceRate: 10,
			upi.FieldOtherLegCurrency:      5,
			upi.FieldOtherLegTerm:          5,
			upi.FieldDeliveryType:          10,
		}
	default:
		return Weights{
			upi.FieldAssetClass:            20,
			upi.FieldInstrumentType:        20,
			upi.FieldProductType:           20,
			upi.FieldNotionalCurrency:      10,
			upi.FieldOtherNotionalCurrency: 10,
			upi.FieldSettlementCurrency:    10,
			upi.FieldOptionType:            5,
			upi.FieldOptionStyle:           5,
			upi.FieldDeliveryType:          10,
			upi.FieldPlaceOfSettlement:     10,
		}
	}
}

// ParseWeights converts a name → weight table (as found in YAML config) into
// Weights. Field names are resolved with upi.ParseField.
func ParseWeights(raw map[string]int) (Weights, error) {
	w := make(Weights, len(raw))
	for name, v := range raw {
		f, err := upi.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
		if f == upi.FieldCurrencyPair {
			return nil, fmt.Errorf("weights: %s is not scored, weight the two currencies instead", f)
		}
		if v < 0 {
			return nil, fmt.Errorf("weights: negative weight %d for %s", v, f)
		}
		w[f] = v
	}
	return w, nil
}

// With returns a copy of w with overrides applied on top.
func (w Weights) With(overrides Weights) Weights {
	out := make(Weights, len(w)+len(overrides))
	for f, v := range w {
		out[f] = v
	}
	for f, v := range overrides {
		out[f] = v
	}
	return out
}

// Of returns the weight of f, or FallbackWeight when f is not in the table.
func (w Weights) Of(f upi.Field) int {
	if v, ok := w[f]; ok {
		return v
	}
	return FallbackWeight
}
