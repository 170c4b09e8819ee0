package upi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAssetClass is returned when an asset class selector is neither FX nor IR.
var ErrUnknownAssetClass = errors.New("unknown asset class")

// AssetClass selects the weight table and catalog slice for a session.
type AssetClass string

const (
	AssetClassFX AssetClass = "FX"
	AssetClassIR AssetClass = "IR"
)

// ParseAssetClass accepts FX/IR and their long spellings.
func ParseAssetClass(s string) (AssetClass, error) {
	if ac, ok := ClassifyAssetClass(s); ok {
		return ac, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAssetClass, s)
}

// ClassifyAssetClass maps a free-form asset class value onto its family.
// "FX", "fx_spot", "ForeignExchange" are FX; "IR", "Rates", "InterestRate" are IR.
func ClassifyAssetClass(value string) (AssetClass, bool) {
	key := simplify(value)
	switch {
	case key == "":
		return "", false
	case strings.Contains(key, "fx"), strings.Contains(key, "foreignexchange"):
		return AssetClassFX, true
	case key == "ir", strings.HasPrefix(key, "ir"),
		strings.Contains(key, "rates"), strings.Contains(key, "interestrate"):
		return AssetClassIR, true
	}
	return "", false
}

// Matches reports whether a record-level asset class value belongs to ac.
func (ac AssetClass) Matches(value string) bool {
	got, ok := ClassifyAssetClass(value)
	return ok && got == ac
}

// ReferenceName is the asset class spelling used by the reference data.
func (ac AssetClass) ReferenceName() string {
	switch ac {
	case AssetClassFX:
		return "ForeignExchange"
	case AssetClassIR:
		return "Rates"
	}
	return string(ac)
}
