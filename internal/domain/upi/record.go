package upi

import "strings"

// Variant tags the reference schema a record was read from.
type Variant string

const (
	// VariantFlat is the {"upis": [...]} export with nested underlying/otherLeg objects.
	VariantFlat Variant = "Flat"
	// VariantNestedDSB is a JSON array of Header/Identifier/Derived/Attributes objects.
	VariantNestedDSB Variant = "NestedDSB"
	// VariantRecordsLine is the DSB RECORDS export: one NestedDSB object per line.
	VariantRecordsLine Variant = "RecordsLine"
)

// Attributes maps canonical fields to values. Absent fields are absent keys;
// an empty string is never stored.
type Attributes map[Field]string

// Get returns the trimmed value of f, or "" when absent.
func (a Attributes) Get(f Field) string {
	return strings.TrimSpace(a[f])
}

// Has reports whether f carries a non-empty value.
func (a Attributes) Has(f Field) bool {
	return a.Get(f) != ""
}

// Set stores a trimmed value, deleting the key when the value is empty.
func (a Attributes) Set(f Field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		delete(a, f)
		return
	}
	a[f] = value
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// SwapCurrencies returns a copy with the two pair currencies exchanged.
// The receiver is left untouched.
func (a Attributes) SwapCurrencies() Attributes {
	out := a.Clone()
	out.Set(FieldNotionalCurrency, a.Get(FieldOtherNotionalCurrency))
	out.Set(FieldOtherNotionalCurrency, a.Get(FieldNotionalCurrency))
	return out
}

// HasCurrencyPair reports whether both pair currencies are present.
func (a Attributes) HasCurrencyPair() bool {
	return a.Has(FieldNotionalCurrency) && a.Has(FieldOtherNotionalCurrency)
}

// Record is a normalized reference instrument definition.
type Record struct {
	Code        string
	Variant     Variant
	Attributes  Attributes
	Status      string
	LastUpdated string
	Level       string
	Derived     map[string]string
}

// Value returns the canonical value of f for this record.
func (r Record) Value(f Field) string {
	return r.Attributes.Get(f)
}

// Equal compares two values the way every scoring rule does: trimmed and
// case-insensitive.
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Fold upper-cases and trims a value for comparisons.
func Fold(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
