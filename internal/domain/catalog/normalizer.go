// Package catalog loads UPI reference data and normalizes the three schema
// shapes found in the wild into upi.Record values.
//
// Supported shapes:
//   - Flat: {"upis": [{"upiCode": ..., "underlying": {...}, "otherLeg": {...}}]}
//   - NestedDSB: [{"Header": ..., "Identifier": ..., "Derived": ..., "Attributes": ...}]
//   - RecordsLine: the DSB RECORDS export, one NestedDSB object per line
//
// Invalid records are skipped and counted rather than failing the load.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eshaffer321/upi-search/internal/domain/currency"
	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// ErrInvalidRecord marks a reference record that was skipped during load.
var ErrInvalidRecord = errors.New("invalid reference record")

// Normalize converts one raw reference record into a upi.Record.
// The variant decides which schema the raw JSON is read as.
func Normalize(raw json.RawMessage, variant upi.Variant) (upi.Record, error) {
	switch variant {
	case upi.VariantFlat:
		return normalizeFlat(raw)
	case upi.VariantNestedDSB, upi.VariantRecordsLine:
		return normalizeDSB(raw, variant)
	default:
		return upi.Record{}, fmt.Errorf("unsupported schema variant %q", variant)
	}
}

// scalar decodes any JSON scalar into its string form.
type scalar string

func (s *scalar) UnmarshalJSON(b []byte) error {
	str, ok := scalarString(b)
	if !ok {
		return fmt.Errorf("expected scalar, got %s", string(b))
	}
	*s = scalar(str)
	return nil
}

func scalarString(b []byte) (string, bool) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

type flatLeg struct {
	CurrencyPair       scalar `json:"currencyPair"`
	SettlementCurrency scalar `json:"settlementCurrency"`
	ReferenceRate      scalar `json:"referenceRate"`
	Currency           scalar `json:"currency"`
	Term               scalar `json:"term"`
}

type flatRecord struct {
	UPICode           scalar   `json:"upiCode"`
	AssetClass        scalar   `json:"assetClass"`
	InstrumentType    scalar   `json:"instrumentType"`
	Product           scalar   `json:"product"`
	DeliveryType      scalar   `json:"deliveryType"`
	OptionType        scalar   `json:"optionType"`
	OptionStyle       scalar   `json:"optionStyle"`
	PlaceOfSettlement scalar   `json:"placeOfSettlement"`
	Underlying        flatLeg  `json:"underlying"`
	OtherLeg          *flatLeg `json:"otherLeg"`
}

func normalizeFlat(raw json.RawMessage) (upi.Record, error) {
	var r flatRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return upi.Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if r.UPICode == "" {
		return upi.Record{}, fmt.Errorf("%w: missing upiCode", ErrInvalidRecord)
	}

	attrs := upi.Attributes{}
	attrs.Set(upi.FieldAssetClass, string(r.AssetClass))
	attrs.Set(upi.FieldInstrumentType, string(r.InstrumentType))
	attrs.Set(upi.FieldProductType, string(r.Product))
	attrs.Set(upi.FieldDeliveryType, string(r.DeliveryType))
	attrs.Set(upi.FieldOptionType, string(r.OptionType))
	attrs.Set(upi.FieldOptionStyle, string(r.OptionStyle))
	attrs.Set(upi.FieldPlaceOfSettlement, string(r.PlaceOfSettlement))
	attrs.Set(upi.FieldReferenceRate, string(r.Underlying.ReferenceRate))
	attrs.Set(upi.FieldTerm, string(r.Underlying.Term))

	if pair := string(r.Underlying.CurrencyPair); pair != "" {
		ccy1, ccy2 := upi.SplitCurrencyPair(pair)
		setCurrency(attrs, upi.FieldNotionalCurrency, ccy1)
		setCurrency(attrs, upi.FieldOtherNotionalCurrency, ccy2)
	} else {
		setCurrency(attrs, upi.FieldNotionalCurrency, string(r.Underlying.Currency))
	}
	setCurrency(attrs, upi.FieldSettlementCurrency, string(r.Underlying.SettlementCurrency))

	if r.OtherLeg != nil {
		attrs.Set(upi.FieldOtherLegReferenceRate, string(r.OtherLeg.ReferenceRate))
		attrs.Set(upi.FieldOtherLegTerm, string(r.OtherLeg.Term))
		setCurrency(attrs, upi.FieldOtherLegCurrency, string(r.OtherLeg.Currency))
	}

	return upi.Record{
		Code:       string(r.UPICode),
		Variant:    upi.VariantFlat,
		Attributes: attrs,
	}, nil
}

type dsbHeader struct {
	AssetClass     *scalar `json:"AssetClass"`
	InstrumentType *scalar `json:"InstrumentType"`
	UseCase        *scalar `json:"UseCase"`
	Level          *scalar `json:"Level"`
}

type dsbIdentifier struct {
	UPI                scalar `json:"UPI"`
	Status             scalar `json:"Status"`
	LastUpdateDateTime scalar `json:"LastUpdateDateTime"`
}

type dsbRecord struct {
	Header     *dsbHeader                 `json:"Header"`
	Identifier *dsbIdentifier             `json:"Identifier"`
	Derived    map[string]json.RawMessage `json:"Derived"`
	Attributes map[string]json.RawMessage `json:"Attributes"`
}

func normalizeDSB(raw json.RawMessage, variant upi.Variant) (upi.Record, error) {
	var r dsbRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return upi.Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := validateDSB(r); err != nil {
		return upi.Record{}, err
	}

	attr := func(key string) string {
		s, _ := scalarString(r.Attributes[key])
		return s
	}

	attrs := upi.Attributes{}
	attrs.Set(upi.FieldAssetClass, string(*r.Header.AssetClass))
	attrs.Set(upi.FieldInstrumentType, string(*r.Header.InstrumentType))
	attrs.Set(upi.FieldProductType, string(*r.Header.UseCase))
	attrs.Set(upi.FieldDeliveryType, attr("DeliveryType"))
	attrs.Set(upi.FieldOptionType, attr("OptionType"))
	attrs.Set(upi.FieldOptionStyle, attr("OptionExerciseStyle"))
	attrs.Set(upi.FieldPlaceOfSettlement, attr("PlaceofSettlement"))
	attrs.Set(upi.FieldReferenceRate, attr("ReferenceRate"))
	attrs.Set(upi.FieldTerm, joinTerm(attr("ReferenceRateTermValue"), attr("ReferenceRateTermUnit")))
	attrs.Set(upi.FieldOtherLegReferenceRate, attr("OtherLegReferenceRate"))
	attrs.Set(upi.FieldOtherLegTerm, joinTerm(attr("OtherLegReferenceRateTermValue"), attr("OtherLegReferenceRateTermUnit")))
	setCurrency(attrs, upi.FieldNotionalCurrency, attr("NotionalCurrency"))
	setCurrency(attrs, upi.FieldOtherNotionalCurrency, attr("OtherNotionalCurrency"))
	setCurrency(attrs, upi.FieldOtherLegCurrency, attr("OtherNotionalCurrency"))
	setCurrency(attrs, upi.FieldSettlementCurrency, attr("SettlementCurrency"))

	rec := upi.Record{
		Code:        string(r.Identifier.UPI),
		Variant:     variant,
		Attributes:  attrs,
		Status:      string(r.Identifier.Status),
		LastUpdated: string(r.Identifier.LastUpdateDateTime),
	}
	if r.Header.Level != nil {
		rec.Level = string(*r.Header.Level)
	}
	if len(r.Derived) > 0 {
		rec.Derived = make(map[string]string, len(r.Derived))
		for k, v := range r.Derived {
			if s, ok := scalarString(v); ok && s != "" {
				rec.Derived[k] = s
			}
		}
	}
	return rec, nil
}

func validateDSB(r dsbRecord) error {
	switch {
	case r.Header == nil:
		return fmt.Errorf("%w: missing Header", ErrInvalidRecord)
	case r.Identifier == nil:
		return fmt.Errorf("%w: missing Identifier", ErrInvalidRecord)
	case r.Derived == nil:
		return fmt.Errorf("%w: missing Derived", ErrInvalidRecord)
	case r.Attributes == nil:
		return fmt.Errorf("%w: missing Attributes", ErrInvalidRecord)
	case r.Header.AssetClass == nil:
		return fmt.Errorf("%w: missing Header.AssetClass", ErrInvalidRecord)
	case r.Header.InstrumentType == nil:
		return fmt.Errorf("%w: missing Header.InstrumentType", ErrInvalidRecord)
	case r.Header.UseCase == nil:
		return fmt.Errorf("%w: missing Header.UseCase", ErrInvalidRecord)
	case r.Identifier.UPI == "":
		return fmt.Errorf("%w: missing Identifier.UPI", ErrInvalidRecord)
	}
	return nil
}

// joinTerm renders a tenor as value followed by unit, e.g. "3" + "MNTH" = "3MNTH".
func joinTerm(value, unit string) string {
	if value == "" {
		return ""
	}
	return value + unit
}

// setCurrency stores a three letter code, rewriting the offshore CNH alias.
// Anything that is not a currency code is dropped.
func setCurrency(attrs upi.Attributes, f upi.Field, code string) {
	attrs.Set(f, currency.NormalizeOffshore(upi.NormalizeCurrencyCode(code)))
}
