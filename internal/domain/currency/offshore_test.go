package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOffshore_ProductByInstrument(t *testing.T) {
	tests := []struct {
		name           string
		instrumentType string
		wantProduct    string
	}{
		{"swap", "Swap", ProductNonDeliverableSwap},
		{"swap upper", "SWAP", ProductNonDeliverableSwap},
		{"forward", "Forward", ProductNonStandard},
		{"option", "option", ProductNonStandard},
		{"spot gets no override", "Spot", ""},
		{"missing instrument", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveOffshore([]string{"T001", "USD/CNH", "CNH"}, tt.instrumentType)

			assert.Equal(t, CNY, got.Currency)
			assert.Equal(t, HongKong, got.PlaceOfSettlement)
			assert.Equal(t, tt.wantProduct, got.ProductType)
		})
	}
}

func TestResolveOffshore_NoHit(t *testing.T) {
	// A pair string is not a bare currency and must not trigger the scan.
	got := ResolveOffshore([]string{"T004", "USD/CNH", "Forward"}, "Forward")

	assert.True(t, got.Empty())
}

func TestResolveOffshore_CNYPassesThrough(t *testing.T) {
	got := ResolveOffshore([]string{"cny"}, "Forward")

	assert.Equal(t, CNY, got.Currency)
	assert.Equal(t, ProductNonStandard, got.ProductType)
}

func TestDetectOffshore_StopsAtFirstHit(t *testing.T) {
	code, ok := DetectOffshore([]string{"EUR", " cnh ", "CNY"})

	assert.True(t, ok)
	assert.Equal(t, CNH, code)
}

func TestNormalizeOffshore(t *testing.T) {
	assert.Equal(t, CNY, NormalizeOffshore("CNH"))
	assert.Equal(t, CNY, NormalizeOffshore("cnh"))
	assert.Equal(t, "USD", NormalizeOffshore("USD"))
	assert.Equal(t, "", NormalizeOffshore(""))
}
