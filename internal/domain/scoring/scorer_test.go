package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

func fxRecord(code, pair string) upi.Record {
	attrs := upi.Attributes{}
	attrs.Set(upi.FieldAssetClass, "ForeignExchange")
	attrs.Set(upi.FieldInstrumentType, "Forward")
	attrs.Set(upi.FieldProductType, "Vanilla")
	attrs.Set(upi.FieldDeliveryType, "Physical")
	ccy1, ccy2 := upi.SplitCurrencyPair(pair)
	attrs.Set(upi.FieldNotionalCurrency, ccy1)
	attrs.Set(upi.FieldOtherNotionalCurrency, ccy2)
	return upi.Record{Code: code, Variant: upi.VariantFlat, Attributes: attrs}
}

func attrs(kv ...string) upi.Attributes {
	a := upi.Attributes{}
	for i := 0; i+1 < len(kv); i += 2 {
		a.Set(upi.Field(kv[i]), kv[i+1])
	}
	return a
}

func breakdownFor(t *testing.T, res Result, f upi.Field) FieldScore {
	t.Helper()
	for _, fs := range res.Breakdown {
		if fs.Field == f {
			return fs
		}
	}
	require.Failf(t, "field not scored", "%s", f)
	return FieldScore{}
}

func TestScore_CurrencyPairEitherOrder(t *testing.T) {
	scorer := NewScorer(upi.AssetClassFX, ModeAdditive, nil)
	trade := attrs("NotionalCurrency", "EUR", "OtherNotionalCurrency", "USD")

	tests := []struct {
		name string
		pair string
		want string
	}{
		{"reversed", "USD/EUR", "20"},
		{"same order", "EUR/USD", "20"},
		{"lowercase reference", "usd/eur", "20"},
		{"different pair", "GBP/JPY", "0"},
		{"one currency shared", "EUR/GBP", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scorer.Score(trade, fxRecord("X", tt.pair))

			assert.Equal(t, tt.want, res.Total.String())
			assert.Equal(t, RuleCurrencyPair, breakdownFor(t, res, upi.FieldNotionalCurrency).Rule)
			assert.Equal(t, RuleCurrencyPair, breakdownFor(t, res, upi.FieldOtherNotionalCurrency).Rule)
		})
	}
}

func TestScore_PairFallsThroughWhenIncomplete(t *testing.T) {
	scorer := NewScorer(upi.AssetClassFX, ModeAdditive, nil)
	trade := attrs("NotionalCurrency", "EUR")

	res := scorer.Score(trade, fxRecord("X", "EUR/USD"))

	assert.Equal(t, "10", res.Total.String())
	assert.Equal(t, RuleExact, breakdownFor(t, res, upi.FieldNotionalCurrency).Rule)
}

func TestScore_ForwardScenario(t *testing.T) {
	trade := attrs(
		"AssetClass", "ForeignExchange",
		"InstrumentType", "Forward",
		"NotionalCurrency", "EUR",
		"OtherNotionalCurrency", "USD",
		"DeliveryType", "Physical",
	)
	ref := fxRecord("USD_EUR_FWD_001", "USD/EUR")

	t.Run("percentage with four fields", func(t *testing.T) {
		res := NewScorer(upi.AssetClassFX, ModePercentage, nil).Score(trade, ref)

		assert.Equal(t, "100", res.Total.String())
		assert.Equal(t, "70", res.Evaluated.String())
	})

	t.Run("additive with product", func(t *testing.T) {
		withProduct := trade.Clone()
		withProduct.Set(upi.FieldProductType, "Vanilla")

		res := NewScorer(upi.AssetClassFX, ModeAdditive, nil).Score(withProduct, ref)

		assert.Equal(t, "90", res.Total.String())
	})
}

func TestScore_PartialRules(t *testing.T) {
	tests := []struct {
		name  string
		ac    upi.AssetClass
		field upi.Field
		trade string
		ref   string
		want  string
		rule  Rule
	}{
		{"asset class synonym", upi.AssetClassFX, upi.FieldAssetClass, "fx", "ForeignExchange", "15", RulePartial},
		{"rates synonym", upi.AssetClassIR, upi.FieldAssetClass, "IR", "Rates", "15", RulePartial},
		{"asset class family mismatch", upi.AssetClassFX, upi.FieldAssetClass, "IR", "ForeignExchange", "0", RuleMismatch},
		{"cash delivery", upi.AssetClassFX, upi.FieldDeliveryType, "Cash Settled", "CASH", "8", RulePartial},
		{"physical delivery", upi.AssetClassFX, upi.FieldDeliveryType, "PHYS", "Physical", "8", RulePartial},
		{"delivery mismatch", upi.AssetClassFX, upi.FieldDeliveryType, "Cash", "Physical", "0", RuleMismatch},
		{"reference rate substring", upi.AssetClassIR, upi.FieldReferenceRate, "SOFR", "USD-SOFR-COMPOUND", "10.5", RulePartial},
		{"other leg rate superstring", upi.AssetClassIR, upi.FieldOtherLegReferenceRate, "USD-LIBOR-BBA", "LIBOR", "7", RulePartial},
		{"exact ignores case and space", upi.AssetClassFX, upi.FieldInstrumentType, " forward ", "Forward", "20", RuleExact},
		{"absent on reference", upi.AssetClassFX, upi.FieldOptionType, "Call", "", "0", RuleMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := upi.Record{Code: "R", Attributes: upi.Attributes{}}
			ref.Attributes.Set(tt.field, tt.ref)
			trade := upi.Attributes{}
			trade.Set(tt.field, tt.trade)

			res := NewScorer(tt.ac, ModeAdditive, nil).Score(trade, ref)

			assert.Equal(t, tt.want, res.Total.String())
			assert.Equal(t, tt.rule, breakdownFor(t, res, tt.field).Rule)
		})
	}
}

func TestScore_PercentageCountsOnlyTradeFields(t *testing.T) {
	trade := attrs("AssetClass", "ForeignExchange", "DeliveryType", "Cash")
	ref := upi.Record{Code: "R", Attributes: attrs("AssetClass", "ForeignExchange", "InstrumentType", "Forward")}

	res := NewScorer(upi.AssetClassFX, ModePercentage, nil).Score(trade, ref)

	assert.Equal(t, "66.67", res.Total.String())
	assert.Equal(t, "30", res.Evaluated.String())
	assert.Len(t, res.Breakdown, 2)
}

func TestScore_PercentageWithNothingEvaluated(t *testing.T) {
	res := NewScorer(upi.AssetClassFX, ModePercentage, nil).Score(upi.Attributes{}, fxRecord("X", "EUR/USD"))

	assert.True(t, res.Total.IsZero())
	assert.Empty(t, res.Breakdown)
}

func TestScore_FallbackWeightAndOverrides(t *testing.T) {
	trade := attrs("SettlementCurrency", "USD")
	ref := upi.Record{Code: "R", Attributes: attrs("SettlementCurrency", "usd")}

	res := NewScorer(upi.AssetClassIR, ModeAdditive, nil).Score(trade, ref)
	assert.Equal(t, "5", res.Total.String(), "IR table has no settlement currency")

	custom := DefaultWeights(upi.AssetClassIR).With(Weights{upi.FieldSettlementCurrency: 12})
	res = NewScorer(upi.AssetClassIR, ModeAdditive, custom).Score(trade, ref)
	assert.Equal(t, "12", res.Total.String())
}

func TestScore_BreakdownFollowsCanonicalOrder(t *testing.T) {
	trade := attrs("DeliveryType", "Physical", "AssetClass", "FX", "InstrumentType", "Forward")

	res := NewScorer(upi.AssetClassFX, ModeAdditive, nil).Score(trade, fxRecord("X", "EUR/USD"))

	require.Len(t, res.Breakdown, 3)
	assert.Equal(t, upi.FieldAssetClass, res.Breakdown[0].Field)
	assert.Equal(t, upi.FieldInstrumentType, res.Breakdown[1].Field)
	assert.Equal(t, upi.FieldDeliveryType, res.Breakdown[2].Field)
	assert.True(t, decimal.NewFromInt(45).Equal(res.Awarded))
}

func TestScore_IRHasNoPairRule(t *testing.T) {
	trade := attrs("NotionalCurrency", "USD", "OtherNotionalCurrency", "EUR")
	ref := upi.Record{Code: "R", Attributes: attrs("NotionalCurrency", "EUR", "OtherNotionalCurrency", "USD")}

	res := NewScorer(upi.AssetClassIR, ModeAdditive, nil).Score(trade, ref)

	assert.Equal(t, "0", res.Total.String())
	assert.Equal(t, RuleMismatch, breakdownFor(t, res, upi.FieldNotionalCurrency).Rule)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAdditive, m)

	m, err = ParseMode(" Percentage ")
	require.NoError(t, err)
	assert.Equal(t, ModePercentage, m)

	_, err = ParseMode("weighted")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseWeights(t *testing.T) {
	w, err := ParseWeights(map[string]int{"Asset Class": 30, "place_of_settlement": 0})
	require.NoError(t, err)
	assert.Equal(t, 30, w.Of(upi.FieldAssetClass))
	assert.Equal(t, 0, w.Of(upi.FieldPlaceOfSettlement))
	assert.Equal(t, FallbackWeight, w.Of(upi.FieldTerm))

	_, err = ParseWeights(map[string]int{"AssetClass": -1})
	assert.Error(t, err)

	_, err = ParseWeights(map[string]int{"CurrencyPair": 20})
	assert.Error(t, err)

	_, err = ParseWeights(map[string]int{"Colour": 1})
	assert.Error(t, err)
}
