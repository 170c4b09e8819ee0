package trade

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// NotApplicable marks a canonical field the trade file deliberately does not
// provide.
const NotApplicable = "N/A"

// Mapping assigns a trade column to each canonical field.
type Mapping map[upi.Field]string

// NewMapping resolves field names (any spelling ParseField accepts) into a
// Mapping. Empty column names are dropped.
func NewMapping(raw map[string]string) (Mapping, error) {
	m := make(Mapping, len(raw))
	for name, column := range raw {
		f, err := upi.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("mapping: %w", err)
		}
		if column = strings.TrimSpace(column); column != "" {
			m[f] = column
		}
	}
	return m, nil
}

// ParseMapping reads a YAML document of field: column pairs.
//
//	CurrencyPair: CcyPair
//	InstrumentType: Instrument_Type
//	OptionStyle: N/A
func ParseMapping(r io.Reader) (Mapping, error) {
	var raw map[string]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return Mapping{}, nil
		}
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}
	return NewMapping(raw)
}

// Column returns the column mapped to f. N/A and unmapped fields report false.
func (m Mapping) Column(f upi.Field) (string, bool) {
	col, ok := m[f]
	if !ok || col == "" || strings.EqualFold(col, NotApplicable) {
		return "", false
	}
	return col, true
}

// Fields returns the mapped fields in a stable order.
func (m Mapping) Fields() []upi.Field {
	out := make([]upi.Field, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
