package trade

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// maxFuzzyDistance is the largest edit distance accepted when no alias matches.
const maxFuzzyDistance = 2

// fieldsByAssetClass lists the mapping targets offered for each asset class.
var fieldsByAssetClass = map[upi.AssetClass][]upi.Field{
	upi.AssetClassFX: {
		upi.FieldAssetClass,
		upi.FieldInstrumentType,
		upi.FieldProductType,
		upi.FieldCurrencyPair,
		upi.FieldSettlementCurrency,
		upi.FieldOptionType,
		upi.FieldOptionStyle,
		upi.FieldDeliveryType,
		upi.FieldPlaceOfSettlement,
	},
	upi.AssetClassIR: {
		upi.FieldAssetClass,
		upi.FieldInstrumentType,
		upi.FieldProductType,
		upi.FieldReferenceRate,
		upi.FieldNotionalCurrency,
		upi.FieldTerm,
		upi.FieldOtherLegReferenceRate,
		upi.FieldOtherLegCurrency,
		upi.FieldOtherLegTerm,
		upi.FieldDeliveryType,
	},
}

// aliases are known column names per field, most specific first.
var aliases = map[upi.Field][]string{
	upi.FieldAssetClass:            {"AssetClass", "Asset_Class", "Product_Class", "Class"},
	upi.FieldInstrumentType:        {"InstrumentType", "Instrument_Type", "ProductType", "Product_Type", "TradeType", "Type"},
	upi.FieldProductType:           {"Product", "ProductType", "Product_Type", "SubProduct", "ForwardType", "UseCase"},
	upi.FieldCurrencyPair:          {"CcyPair", "CurrencyPair", "Ccy_Pair", "Currency_Pair", "Pair"},
	upi.FieldSettlementCurrency:    {"SettlementCcy", "Settlement_Currency", "SettlementCurrency", "SettleCcy"},
	upi.FieldOptionType:            {"OptionType", "Option_Type", "CallPut", "Call_Put"},
	upi.FieldOptionStyle:           {"OptionStyle", "Option_Style", "ExerciseStyle", "Exercise_Style"},
	upi.FieldDeliveryType:          {"DeliveryType", "Delivery_Type", "SettlementType", "Settlement_Type"},
	upi.FieldPlaceOfSettlement:     {"PlaceofSettlement", "Place_of_Settlement", "SettlementPlace"},
	upi.FieldReferenceRate:         {"RefRate", "ReferenceRate", "Reference_Rate", "IndexRate", "Index_Rate"},
	upi.FieldNotionalCurrency:      {"Currency", "Ccy", "Currency1", "NotionalCurrency", "Notional_Currency"},
	upi.FieldTerm:                  {"Term", "Tenor", "Term1", "Maturity"},
	upi.FieldOtherLegReferenceRate: {"RefRate2", "OtherLegRate", "Other_Leg_Rate", "IndexRate2", "OtherLegReferenceRate"},
	upi.FieldOtherLegCurrency:      {"Currency2", "OtherLegCcy", "Other_Leg_Currency", "OtherLegCurrency"},
	upi.FieldOtherLegTerm:          {"Term2", "OtherLegTerm", "Other_Leg_Term", "Tenor2"},
}

// AutoMap suggests a column for each field of the asset class. Known aliases
// are tried first (case-insensitive); otherwise the closest unused column
// within maxFuzzyDistance edits of the field name or an alias is taken.
// A column is assigned to at most one field. Fields with no candidate are
// left out.
func AutoMap(columns []string, ac upi.AssetClass) Mapping {
	m := Mapping{}
	used := make(map[string]bool, len(columns))
	targets := fieldsByAssetClass[ac]

	for _, f := range targets {
		if col, ok := aliasColumn(columns, aliases[f], used); ok {
			m[f] = col
			used[col] = true
		}
	}

	for _, f := range targets {
		if _, ok := m[f]; ok {
			continue
		}
		if col, ok := fuzzyColumn(columns, f, used); ok {
			m[f] = col
			used[col] = true
		}
	}
	return m
}

func aliasColumn(columns, names []string, used map[string]bool) (string, bool) {
	for _, name := range names {
		for _, col := range columns {
			if !used[col] && strings.EqualFold(strings.TrimSpace(col), name) {
				return col, true
			}
		}
	}
	return "", false
}

func fuzzyColumn(columns []string, f upi.Field, used map[string]bool) (string, bool) {
	names := append([]string{string(f)}, aliases[f]...)

	best, bestDist := "", maxFuzzyDistance+1
	for _, col := range columns {
		if used[col] {
			continue
		}
		key := simplify(col)
		if key == "" {
			continue
		}
		for _, name := range names {
			if d := levenshtein.ComputeDistance(key, simplify(name)); d < bestDist {
				best, bestDist = col, d
			}
		}
	}
	return best, best != ""
}

func simplify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}
