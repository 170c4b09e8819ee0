package matcher

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/upi-search/internal/domain/catalog"
	"github.com/eshaffer321/upi-search/internal/domain/scoring"
	"github.com/eshaffer321/upi-search/internal/domain/trade"
	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// Helper to create a flat FX record
func makeRecord(code, pair, product, delivery string) upi.Record {
	attrs := upi.Attributes{}
	attrs.Set(upi.FieldAssetClass, "ForeignExchange")
	attrs.Set(upi.FieldInstrumentType, "Forward")
	attrs.Set(upi.FieldProductType, product)
	attrs.Set(upi.FieldDeliveryType, delivery)
	ccy1, ccy2 := upi.SplitCurrencyPair(pair)
	attrs.Set(upi.FieldNotionalCurrency, ccy1)
	attrs.Set(upi.FieldOtherNotionalCurrency, ccy2)
	return upi.Record{Code: code, Variant: upi.VariantFlat, Attributes: attrs}
}

func fxMapping() trade.Mapping {
	return trade.Mapping{
		upi.FieldAssetClass:         "AssetClass",
		upi.FieldInstrumentType:     "InstrumentType",
		upi.FieldProductType:        "Product",
		upi.FieldCurrencyPair:       "CcyPair",
		upi.FieldSettlementCurrency: "SettlementCcy",
		upi.FieldDeliveryType:       "DeliveryType",
	}
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestMatcher_ForwardPairReversed(t *testing.T) {
	// Arrange
	cat := catalog.New([]upi.Record{makeRecord("USD_EUR_FWD_001", "USD/EUR", "Vanilla", "Physical")}, 0)
	row := trade.NewRow(0,
		[]string{"TradeID", "AssetClass", "InstrumentType", "CcyPair", "DeliveryType"},
		[]string{"T001", "ForeignExchange", "Forward", "EUR/USD", "Physical"},
	)
	attrs := trade.Extract(row, fxMapping())

	config := DefaultConfig(upi.AssetClassFX)
	config.Mode = scoring.ModePercentage

	// Act
	result := NewMatcher(config).FindMatch(0, attrs, cat)

	// Assert
	assert.Equal(t, "USD_EUR_FWD_001", result.Code)
	assert.True(t, dec(100).Equal(result.Score))
	assert.Equal(t, HighConfidence, result.Confidence)
	assert.Equal(t, OrientationOriginal, result.Orientation)
	require.NotNil(t, result.Record)
	assert.Equal(t, "Vanilla", result.Record.Value(upi.FieldProductType))
}

func TestMatcher_ForwardPairReversedAdditive(t *testing.T) {
	// Arrange
	cat := catalog.New([]upi.Record{makeRecord("USD_EUR_FWD_001", "USD/EUR", "Vanilla", "Physical")}, 0)
	row := trade.NewRow(0,
		[]string{"AssetClass", "InstrumentType", "Product", "CcyPair", "DeliveryType"},
		[]string{"ForeignExchange", "Forward", "Vanilla", "EUR/USD", "Physical"},
	)

	// Act
	result := NewMatcher(DefaultConfig(upi.AssetClassFX)).FindMatch(0, trade.Extract(row, fxMapping()), cat)

	// Assert
	assert.Equal(t, "USD_EUR_FWD_001", result.Code)
	assert.True(t, dec(90).Equal(result.Score), "got %s", result.Score)
	assert.Equal(t, HighConfidence, result.Confidence)
}

func TestMatcher_OffshoreSwapAgainstDSB(t *testing.T) {
	// Arrange
	raw := json.RawMessage(`{
		"Header": {"AssetClass": "ForeignExchange", "InstrumentType": "Swap", "UseCase": "Non_Deliverable_FX_Swap", "Level": "UPI"},
		"Identifier": {"UPI": "QZNDS0000001", "Status": "New"},
		"Derived": {"ShortName": "NDS USD CNY"},
		"Attributes": {
			"NotionalCurrency": "USD",
			"OtherNotionalCurrency": "CNY",
			"SettlementCurrency": "CNY",
			"PlaceofSettlement": "Hong Kong"
		}
	}`)
	rec, err := catalog.Normalize(raw, upi.VariantNestedDSB)
	require.NoError(t, err)
	cat := catalog.New([]upi.Record{rec}, 0)

	row := trade.NewRow(0,
		[]string{"TradeID", "CcyPair", "InstrumentType", "SettlementCcy"},
		[]string{"T005", "USD/CNH", "Swap", "CNH"},
	)
	attrs := trade.Extract(row, fxMapping())

	// Act
	result := NewMatcher(DefaultConfig(upi.AssetClassFX)).FindMatch(0, attrs, cat)

	// Assert
	assert.Equal(t, "QZNDS0000001", result.Code)
	assert.True(t, result.Score.GreaterThanOrEqual(dec(80)), "got %s", result.Score)
	assert.Equal(t, HighConfidence, result.Confidence)
}

func TestMatcher_ThresholdBoundary(t *testing.T) {
	// AssetClass 20 + InstrumentType 20 + DeliveryType 10 = 50
	cat := catalog.New([]upi.Record{makeRecord("A", "GBP/JPY", "Vanilla", "Physical")}, 0)
	attrs := upi.Attributes{
		upi.FieldAssetClass:     "ForeignExchange",
		upi.FieldInstrumentType: "Forward",
		upi.FieldDeliveryType:   "Physical",
	}

	t.Run("exactly at threshold", func(t *testing.T) {
		result := NewMatcher(DefaultConfig(upi.AssetClassFX)).FindMatch(0, attrs, cat)

		assert.Equal(t, Matched, result.Confidence)
		assert.Equal(t, "A", result.Code)
	})

	t.Run("one point below", func(t *testing.T) {
		config := DefaultConfig(upi.AssetClassFX)
		config.Threshold = dec(51)

		result := NewMatcher(config).FindMatch(0, attrs, cat)

		assert.Equal(t, NoMatch, result.Confidence)
		assert.Empty(t, result.Code)
		assert.Nil(t, result.Record)
		assert.True(t, dec(50).Equal(result.Score), "best effort score is kept")
		assert.Len(t, result.Breakdown, 3)
	})

	t.Run("exactly at high confidence", func(t *testing.T) {
		config := DefaultConfig(upi.AssetClassFX)
		config.HighConfidence = dec(50)

		result := NewMatcher(config).FindMatch(0, attrs, cat)

		assert.Equal(t, HighConfidence, result.Confidence)
	})
}

func TestMatcher_TiesKeepEarliest(t *testing.T) {
	// Arrange
	cat := catalog.New([]upi.Record{
		makeRecord("FIRST", "EUR/USD", "Vanilla", "Physical"),
		makeRecord("SECOND", "USD/EUR", "Vanilla", "Physical"),
		makeRecord("OTHER", "GBP/JPY", "Exotic", "Cash"),
	}, 0)
	attrs := upi.Attributes{
		upi.FieldAssetClass:            "ForeignExchange",
		upi.FieldInstrumentType:        "Forward",
		upi.FieldNotionalCurrency:      "EUR",
		upi.FieldOtherNotionalCurrency: "USD",
	}

	// Act
	result := NewMatcher(DefaultConfig(upi.AssetClassFX)).FindMatch(7, attrs, cat)

	// Assert
	assert.Equal(t, 7, result.TradeIndex)
	assert.Equal(t, "FIRST", result.Code)
	require.Len(t, result.Candidates, 3)
	assert.Equal(t, []string{"FIRST", "SECOND", "OTHER"}, candidateCodes(result))
	assert.True(t, dec(40).Equal(result.Candidates[2].Score))
}

func TestMatcher_CandidatesExcludeZeroScores(t *testing.T) {
	cat := catalog.New([]upi.Record{
		makeRecord("ZERO", "GBP/JPY", "Vanilla", "Cash"),
		makeRecord("LOW", "GBP/JPY", "Vanilla", "Physical"),
		makeRecord("HIGH", "EUR/USD", "Vanilla", "Physical"),
	}, 0)
	attrs := upi.Attributes{
		upi.FieldNotionalCurrency:      "EUR",
		upi.FieldOtherNotionalCurrency: "USD",
		upi.FieldDeliveryType:          "Physical",
	}

	result := NewMatcher(DefaultConfig(upi.AssetClassFX)).FindMatch(0, attrs, cat)

	assert.Equal(t, []string{"HIGH", "LOW"}, candidateCodes(result))
	assert.Equal(t, NoMatch, result.Confidence, "30 is below the default threshold")
	assert.True(t, dec(30).Equal(result.Score))
}

func TestMatcher_Deterministic(t *testing.T) {
	cat := catalog.New([]upi.Record{
		makeRecord("A", "EUR/USD", "Vanilla", "Physical"),
		makeRecord("B", "USD/EUR", "Vanilla", "Cash"),
		makeRecord("C", "EUR/GBP", "Vanilla", "Physical"),
	}, 0)
	attrs := upi.Attributes{
		upi.FieldAssetClass:            "FX",
		upi.FieldNotionalCurrency:      "USD",
		upi.FieldOtherNotionalCurrency: "EUR",
		upi.FieldDeliveryType:          "Cash settled",
	}
	m := NewMatcher(DefaultConfig(upi.AssetClassFX))

	first := m.FindMatch(0, attrs, cat)
	second := m.FindMatch(0, attrs, cat)

	assert.Equal(t, first, second)
}

func TestMatcher_ProductTypePreFilter(t *testing.T) {
	cat := catalog.New([]upi.Record{
		makeRecord("VAN", "EUR/USD", "Vanilla", "Physical"),
		makeRecord("NS", "EUR/USD", "Non_Standard", "Physical"),
	}, 0)
	attrs := upi.Attributes{
		upi.FieldAssetClass:            "ForeignExchange",
		upi.FieldInstrumentType:        "Forward",
		upi.FieldNotionalCurrency:      "EUR",
		upi.FieldOtherNotionalCurrency: "USD",
	}

	t.Run("filters to the product", func(t *testing.T) {
		config := DefaultConfig(upi.AssetClassFX)
		config.ProductType = "non_standard"

		result := NewMatcher(config).FindMatch(0, attrs, cat)

		assert.Equal(t, "NS", result.Code)
		assert.Equal(t, []string{"NS"}, candidateCodes(result))
	})

	t.Run("empty filtered catalog", func(t *testing.T) {
		config := DefaultConfig(upi.AssetClassFX)
		config.ProductType = "Exotic"

		result := NewMatcher(config).FindMatch(0, attrs, cat)

		assert.Equal(t, NoMatch, result.Confidence)
		assert.True(t, result.Score.IsZero())
		assert.Empty(t, result.Breakdown)
	})
}

func TestMatcher_RetrySwapped(t *testing.T) {
	// The reference only carries one currency, so the pair rule cannot fire
	// and orientation matters.
	ref := upi.Record{Code: "USD_ONLY", Attributes: upi.Attributes{
		upi.FieldAssetClass:       "ForeignExchange",
		upi.FieldInstrumentType:   "Forward",
		upi.FieldNotionalCurrency: "USD",
	}}
	cat := catalog.New([]upi.Record{ref}, 0)
	attrs := upi.Attributes{
		upi.FieldAssetClass:            "ForeignExchange",
		upi.FieldInstrumentType:        "Forward",
		upi.FieldNotionalCurrency:      "EUR",
		upi.FieldOtherNotionalCurrency: "USD",
	}

	t.Run("disabled", func(t *testing.T) {
		result := NewMatcher(DefaultConfig(upi.AssetClassFX)).FindMatch(0, attrs, cat)

		assert.Equal(t, NoMatch, result.Confidence)
		assert.True(t, dec(40).Equal(result.Score))
		assert.Equal(t, OrientationOriginal, result.Orientation)
	})

	t.Run("enabled", func(t *testing.T) {
		config := DefaultConfig(upi.AssetClassFX)
		config.RetrySwapped = true

		result := NewMatcher(config).FindMatch(0, attrs, cat)

		assert.Equal(t, "USD_ONLY", result.Code)
		assert.Equal(t, Matched, result.Confidence)
		assert.True(t, dec(50).Equal(result.Score))
		assert.Equal(t, OrientationSwapped, result.Orientation)
		assert.Equal(t, "USD", result.Attributes.Get(upi.FieldNotionalCurrency))
		assert.Equal(t, "EUR", attrs.Get(upi.FieldNotionalCurrency), "input attributes are not mutated")
	})

	t.Run("not attempted above threshold", func(t *testing.T) {
		config := DefaultConfig(upi.AssetClassFX)
		config.RetrySwapped = true
		config.Threshold = dec(40)

		result := NewMatcher(config).FindMatch(0, attrs, cat)

		assert.Equal(t, OrientationOriginal, result.Orientation)
		assert.True(t, dec(40).Equal(result.Score))
	})
}

func TestMatcher_NilCatalog(t *testing.T) {
	result := NewMatcher(DefaultConfig(upi.AssetClassIR)).FindMatch(3, upi.Attributes{}, nil)

	assert.Equal(t, NoMatch, result.Confidence)
	assert.Equal(t, 3, result.TradeIndex)
	assert.False(t, result.IsMatch())
}

func candidateCodes(r MatchResult) []string {
	codes := make([]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		codes = append(codes, c.Code)
	}
	return codes
}
