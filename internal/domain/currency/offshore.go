// Package currency handles offshore currency conventions for UPI matching.
//
// Offshore renminbi (CNH) has no UPI of its own: reference data lists CNY
// with Hong Kong as the place of settlement, and the product type depends on
// the instrument (swaps become Non_Deliverable_FX_Swap, forwards and options
// become Non_Standard).
package currency

import "strings"

const (
	CNH = "CNH"
	CNY = "CNY"

	// HongKong is the place of settlement recorded for offshore renminbi UPIs.
	HongKong = "Hong Kong"

	ProductNonDeliverableSwap = "Non_Deliverable_FX_Swap"
	ProductNonStandard        = "Non_Standard"
)

// Override holds values derived from an offshore currency scan. Empty fields
// mean "no override".
type Override struct {
	Currency          string
	PlaceOfSettlement string
	ProductType       string
}

// Empty reports whether the scan found nothing.
func (o Override) Empty() bool {
	return o.Currency == "" && o.PlaceOfSettlement == "" && o.ProductType == ""
}

// NormalizeOffshore rewrites CNH (any case) to CNY and leaves other codes alone.
func NormalizeOffshore(code string) string {
	if strings.EqualFold(strings.TrimSpace(code), CNH) {
		return CNY
	}
	return code
}

// DetectOffshore returns the first value, in order, that is exactly CNH or CNY.
func DetectOffshore(values []string) (string, bool) {
	for _, v := range values {
		switch strings.ToUpper(strings.TrimSpace(v)) {
		case CNH, CNY:
			return strings.ToUpper(strings.TrimSpace(v)), true
		}
	}
	return "", false
}

// ProductOverride maps an instrument type to the product type used by
// renminbi UPIs. Unknown instrument types get no override.
func ProductOverride(instrumentType string) string {
	switch strings.ToUpper(strings.TrimSpace(instrumentType)) {
	case "SWAP":
		return ProductNonDeliverableSwap
	case "FORWARD", "OPTION":
		return ProductNonStandard
	}
	return ""
}

// ResolveOffshore scans a trade's values in column order and derives the
// renminbi overrides when CNH or CNY is present.
func ResolveOffshore(values []string, instrumentType string) Override {
	code, ok := DetectOffshore(values)
	if !ok {
		return Override{}
	}
	return Override{
		Currency:          NormalizeOffshore(code),
		PlaceOfSettlement: HongKong,
		ProductType:       ProductOverride(instrumentType),
	}
}
