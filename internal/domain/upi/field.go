// Package upi defines the canonical vocabulary shared by the matching engine:
// attribute fields, reference records, schema variants and asset classes.
//
// Every reference schema and every trade row is reduced to an Attributes map
// keyed by Field before any comparison happens, so the scoring code never
// touches raw nested JSON or spreadsheet columns.
package upi

import (
	"fmt"
	"strings"
)

// Field is a canonical attribute name.
type Field string

const (
	FieldAssetClass            Field = "AssetClass"
	FieldInstrumentType        Field = "InstrumentType"
	FieldProductType           Field = "ProductType"
	FieldNotionalCurrency      Field = "NotionalCurrency"
	FieldOtherNotionalCurrency Field = "OtherNotionalCurrency"
	FieldSettlementCurrency    Field = "SettlementCurrency"
	FieldDeliveryType          Field = "DeliveryType"
	FieldPlaceOfSettlement     Field = "PlaceOfSettlement"
	FieldReferenceRate         Field = "ReferenceRate"
	FieldTerm                  Field = "Term"
	FieldOtherLegReferenceRate Field = "OtherLegReferenceRate"
	FieldOtherLegCurrency      Field = "OtherLegCurrency"
	FieldOtherLegTerm          Field = "OtherLegTerm"
	FieldOptionType            Field = "OptionType"
	FieldOptionStyle           Field = "OptionStyle"

	// FieldCurrencyPair is a mapping-only field. Extraction splits it into
	// FieldNotionalCurrency and FieldOtherNotionalCurrency; it never appears
	// in an Attributes map handed to the scorer.
	FieldCurrencyPair Field = "CurrencyPair"
)

// Fields is the canonical vocabulary in display and scoring order.
var Fields = []Field{
	FieldAssetClass,
	FieldInstrumentType,
	FieldProductType,
	FieldNotionalCurrency,
	FieldOtherNotionalCurrency,
	FieldSettlementCurrency,
	FieldDeliveryType,
	FieldPlaceOfSettlement,
	FieldReferenceRate,
	FieldTerm,
	FieldOtherLegReferenceRate,
	FieldOtherLegCurrency,
	FieldOtherLegTerm,
	FieldOptionType,
	FieldOptionStyle,
}

// currencyFields hold ISO-4217 style three letter codes.
var currencyFields = map[Field]bool{
	FieldNotionalCurrency:      true,
	FieldOtherNotionalCurrency: true,
	FieldSettlementCurrency:    true,
	FieldOtherLegCurrency:      true,
}

// IsCurrency reports whether the field carries a currency code.
func (f Field) IsCurrency() bool {
	return currencyFields[f]
}

// IsReferenceRate reports whether the field names a floating rate index.
func (f Field) IsReferenceRate() bool {
	return f == FieldReferenceRate || f == FieldOtherLegReferenceRate
}

// ParseField resolves a field name case-insensitively, ignoring spaces and
// underscores, so "Place of Settlement" and "place_of_settlement" both
// resolve to FieldPlaceOfSettlement.
func ParseField(name string) (Field, error) {
	key := simplify(name)
	if key == simplify(string(FieldCurrencyPair)) {
		return FieldCurrencyPair, nil
	}
	for _, f := range Fields {
		if simplify(string(f)) == key {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", name)
}

func simplify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, "-", "")
}
