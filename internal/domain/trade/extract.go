package trade

import (
	"strings"

	"github.com/eshaffer321/upi-search/internal/domain/currency"
	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// instrumentTypeColumns are tried when InstrumentType is not mapped.
var instrumentTypeColumns = []string{
	"InstrumentType", "Instrument_Type", "ProductType", "Product_Type",
	"TradeType", "Trade_Type", "Type", "Instrument",
}

// Extract builds the canonical attributes of a trade.
func Extract(row Row, mapping Mapping) upi.Attributes {
	attrs, _ := ExtractWithOverride(row, mapping)
	return attrs
}

// ExtractWithOverride is Extract that also returns the offshore override it
// applied, if any.
func ExtractWithOverride(row Row, mapping Mapping) (upi.Attributes, currency.Override) {
	attrs := upi.Attributes{}

	for _, f := range upi.Fields {
		col, ok := mapping.Column(f)
		if !ok {
			continue
		}
		v, ok := row.Get(col)
		if !ok {
			continue
		}
		if f.IsCurrency() {
			v = currency.NormalizeOffshore(v)
		}
		attrs.Set(f, v)
	}

	fromPair := false
	if col, ok := mapping.Column(upi.FieldCurrencyPair); ok {
		if pair, ok := row.Get(col); ok && strings.Contains(pair, "/") {
			ccy1, ccy2 := upi.SplitCurrencyPair(pair)
			if ccy1 != "" && ccy2 != "" {
				attrs.Set(upi.FieldNotionalCurrency, currency.NormalizeOffshore(ccy1))
				attrs.Set(upi.FieldOtherNotionalCurrency, currency.NormalizeOffshore(ccy2))
				fromPair = true
			}
		}
	}

	override := currency.ResolveOffshore(row.Values, instrumentType(row, mapping))
	if override.Empty() {
		return attrs, override
	}

	if override.PlaceOfSettlement != "" {
		attrs.Set(upi.FieldPlaceOfSettlement, override.PlaceOfSettlement)
	}
	if override.ProductType != "" {
		attrs.Set(upi.FieldProductType, override.ProductType)
	}
	if override.Currency != "" {
		if attrs.Has(upi.FieldSettlementCurrency) {
			attrs.Set(upi.FieldSettlementCurrency, override.Currency)
		}
		if !fromPair && attrs.Has(upi.FieldNotionalCurrency) {
			attrs.Set(upi.FieldNotionalCurrency, override.Currency)
		}
	}
	return attrs, override
}

func instrumentType(row Row, mapping Mapping) string {
	if col, ok := mapping.Column(upi.FieldInstrumentType); ok {
		if v, ok := row.Get(col); ok && v != "" {
			return v
		}
	}
	return row.Lookup(instrumentTypeColumns...)
}
