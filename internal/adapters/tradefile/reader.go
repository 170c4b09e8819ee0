// Package tradefile reads trade spreadsheets into trade rows.
//
// The first row is the header. Rows whose cells are all blank are skipped;
// the remaining rows are indexed from zero in file order.
package tradefile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/upi-search/internal/domain/trade"
)

var (
	// ErrUnsupportedFormat is returned for extensions other than .csv and .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported trade file format")
	// ErrNoHeader is returned when the file has no header row.
	ErrNoHeader = errors.New("trade file has no header row")
)

// Read loads trade rows from a .csv or .xlsx file. sheet selects an XLSX
// worksheet by name; empty means the first sheet.
func Read(path, sheet string) ([]trade.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade file: %w", err)
	}
	defer f.Close()

	rows, err := ReadFrom(f, filepath.Ext(path), sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadFrom loads trade rows from r, choosing the decoder from ext.
func ReadFrom(r io.Reader, ext, sheet string) ([]trade.Row, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(ext) {
	case ".csv":
		records, err = readCSV(r)
	case ".xlsx", ".xlsm":
		records, err = readXLSX(r, sheet)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return toRows(records)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return records, nil
}

func readXLSX(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("worksheet %q not found", sheet)
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	return records, nil
}

func toRows(records [][]string) ([]trade.Row, error) {
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}
	if strings.Join(header, "") == "" {
		return nil, ErrNoHeader
	}

	rows := make([]trade.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := trade.NewRow(len(rows), header, rec)
		if row.Empty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
