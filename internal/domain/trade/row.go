// Package trade turns raw trade rows into canonical attributes.
//
// A Row is whatever the trade file reader produced: a header-ordered list of
// column names and cell values. A Mapping says which column feeds which
// canonical field. Extract combines the two and applies the offshore
// renminbi conventions.
package trade

import "strings"

// Row is one trade as read from a spreadsheet. Values are positional with
// Columns; the engine never modifies a Row.
type Row struct {
	Index   int
	Columns []string
	Values  []string
}

// NewRow builds a row, padding or truncating values to the header width.
func NewRow(index int, columns, values []string) Row {
	cells := make([]string, len(columns))
	copy(cells, values)
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Row{Index: index, Columns: cols, Values: cells}
}

// Get returns the trimmed value of column. The second result is false when
// the column does not exist. Duplicate column names resolve to the first.
func (r Row) Get(column string) (string, bool) {
	for i, c := range r.Columns {
		if c == column {
			if i < len(r.Values) {
				return strings.TrimSpace(r.Values[i]), true
			}
			return "", true
		}
	}
	return "", false
}

// Lookup returns the first non-empty value among the given column names,
// compared case-insensitively.
func (r Row) Lookup(names ...string) string {
	for _, name := range names {
		for i, c := range r.Columns {
			if !strings.EqualFold(strings.TrimSpace(c), name) || i >= len(r.Values) {
				continue
			}
			if v := strings.TrimSpace(r.Values[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

// Empty reports whether every cell is blank.
func (r Row) Empty() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
