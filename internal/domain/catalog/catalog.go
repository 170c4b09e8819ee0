package catalog

import (
	"errors"
	"fmt"

	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

var (
	// ErrEmptyCatalog is returned when a load yields no valid records at all.
	ErrEmptyCatalog = errors.New("catalog contains no valid records")
	// ErrNoRecordsForAssetClass is returned when no record belongs to the requested asset class.
	ErrNoRecordsForAssetClass = errors.New("catalog contains no records for asset class")
)

// Catalog is an immutable, ordered set of reference records. It is safe for
// concurrent reads.
type Catalog struct {
	records []upi.Record
	skipped int
}

// New builds a catalog from already normalized records.
func New(records []upi.Record, skipped int) *Catalog {
	out := make([]upi.Record, len(records))
	copy(out, records)
	return &Catalog{records: out, skipped: skipped}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// At returns the i-th record in load order.
func (c *Catalog) At(i int) upi.Record {
	return c.records[i]
}

// Records returns a copy of the records in load order.
func (c *Catalog) Records() []upi.Record {
	out := make([]upi.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Skipped returns how many raw records were rejected during load.
func (c *Catalog) Skipped() int {
	return c.skipped
}

// ForAssetClass returns the records belonging to ac.
func (c *Catalog) ForAssetClass(ac upi.AssetClass) (*Catalog, error) {
	sub := c.filter(func(r upi.Record) bool {
		return ac.Matches(r.Value(upi.FieldAssetClass))
	})
	if sub.Len() == 0 {
		return nil, fmt.Errorf("%w %s", ErrNoRecordsForAssetClass, ac)
	}
	return sub, nil
}

// WithProductType returns the records whose product type (UseCase) equals pt.
// The result may be empty.
func (c *Catalog) WithProductType(pt string) *Catalog {
	return c.filter(func(r upi.Record) bool {
		return upi.Equal(r.Value(upi.FieldProductType), pt)
	})
}

func (c *Catalog) filter(keep func(upi.Record) bool) *Catalog {
	out := &Catalog{skipped: c.skipped}
	for _, r := range c.records {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}

// Stats summarises a catalog for audit output.
type Stats struct {
	Total         int
	Skipped       int
	ByVariant     map[upi.Variant]int
	ByAssetClass  map[string]int
	ByProductType map[string]int
}

// Stats counts records by variant, asset class and product type.
func (c *Catalog) Stats() Stats {
	s := Stats{
		Total:         len(c.records),
		Skipped:       c.skipped,
		ByVariant:     make(map[upi.Variant]int),
		ByAssetClass:  make(map[string]int),
		ByProductType: make(map[string]int),
	}
	for _, r := range c.records {
		s.ByVariant[r.Variant]++
		s.ByAssetClass[orUnknown(r.Value(upi.FieldAssetClass))]++
		s.ByProductType[orUnknown(r.Value(upi.FieldProductType))]++
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
