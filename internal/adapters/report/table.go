// Package report exports batch results as CSV, XLSX or JSON.
package report

import (
	"strconv"

	"github.com/eshaffer321/upi-search/internal/application/batch"
	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// NoMatchLabel fills Best_UPI when no record cleared the threshold.
const NoMatchLabel = "No Match"

// Table is the flat, one-row-per-trade view shared by the CSV and XLSX writers.
type Table struct {
	Header []string
	Rows   [][]string
}

// BuildTable flattens items. Ref_ and Trade_ columns are emitted only for
// fields that appear in at least one item; Original_ columns follow the
// first-seen column order of the input rows.
func BuildTable(items []batch.Item) Table {
	refFields, tradeFields := usedFields(items)
	originals := originalColumns(items)

	header := []string{"Trade_Index", "Best_UPI", "Match_Score", "Confidence", "Orientation"}
	for _, f := range refFields {
		header = append(header, "Ref_"+string(f))
	}
	for _, f := range tradeFields {
		header = append(header, "Trade_"+string(f))
	}
	for _, c := range originals {
		header = append(header, "Original_"+c)
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		m := it.Match
		best := m.Code
		if best == "" {
			best = NoMatchLabel
		}
		row := []string{
			strconv.Itoa(m.TradeIndex),
			best,
			m.Score.String(),
			string(m.Confidence),
			string(m.Orientation),
		}
		for _, f := range refFields {
			v := ""
			if m.Record != nil {
				v = m.Record.Value(f)
			}
			row = append(row, v)
		}
		for _, f := range tradeFields {
			row = append(row, m.Attributes.Get(f))
		}
		for _, c := range originals {
			v, _ := it.Row.Get(c)
			row = append(row, v)
		}
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}
}

func usedFields(items []batch.Item) (ref, tr []upi.Field) {
	for _, f := range upi.Fields {
		var inRef, inTrade bool
		for _, it := range items {
			if it.Match.Record != nil && it.Match.Record.Attributes.Has(f) {
				inRef = true
			}
			if it.Match.Attributes.Has(f) {
				inTrade = true
			}
		}
		if inRef {
			ref = append(ref, f)
		}
		if inTrade {
			tr = append(tr, f)
		}
	}
	return ref, tr
}

func originalColumns(items []batch.Item) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, it := range items {
		for _, c := range it.Row.Columns {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return cols
}
