package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eshaffer321/upi-search/internal/application/batch"
)

// ErrUnsupportedFormat is returned for extensions other than .csv, .xlsx and .json.
var ErrUnsupportedFormat = errors.New("unsupported report format")

const (
	resultsSheet = "Results"
	summarySheet = "Summary"

	// maxCandidates bounds the candidate list in the JSON report.
	maxCandidates = 5
)

// DefaultPath names an XLSX report after the run time.
func DefaultPath(now time.Time) string {
	return fmt.Sprintf("upi_search_results_%s.xlsx", now.Format("20060102_150405"))
}

// Write exports a batch result, choosing the format from the file extension.
func Write(path string, res *batch.Result) error {
	if res == nil {
		return fmt.Errorf("no results to export")
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx":
		return WriteXLSX(path, res)
	case ".csv", ".json":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	if ext == ".csv" {
		err = WriteCSV(f, BuildTable(res.Items))
	} else {
		err = WriteJSON(f, res)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close report: %w", cerr)
	}
	return err
}

// WriteCSV writes the table with a header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with a Results sheet and a Summary sheet.
func WriteXLSX(path string, res *batch.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}
	if err := writeResultsSheet(f, BuildTable(res.Items)); err != nil {
		return err
	}
	if err := writeSummarySheet(f, res); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeResultsSheet(f *excelize.File, t Table) error {
	sw, err := f.NewStreamWriter(resultsSheet)
	if err != nil {
		return fmt.Errorf("failed to open results sheet: %w", err)
	}

	if err := sw.SetRow("A1", toCells(t.Header, nil)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	numeric := map[int]bool{0: true, 2: true} // Trade_Index, Match_Score
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row, numeric)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush results sheet: %w", err)
	}
	return nil
}

func toCells(values []string, numeric map[int]bool) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		if numeric[i] {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				cells[i] = n
				continue
			}
		}
		cells[i] = v
	}
	return cells
}

func writeSummarySheet(f *excelize.File, res *batch.Result) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	s := res.Summary
	rows := [][]any{
		{"Metric", "Value"},
		{"Run ID", res.RunID},
		{"Started", res.Started.Format(time.RFC3339)},
		{"Total trades", s.Total},
		{"Matched", s.Matched},
		{"High confidence", s.HighConfidence},
		{"No match", s.NoMatch},
		{"Swapped orientation", s.Swapped},
		{"Offshore adjusted", s.OffshoreAdjusted},
		{"Match rate (%)", roundRate(s.MatchRate())},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

func roundRate(rate float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(rate, 'f', 1, 64), 64)
	return v
}

type jsonFieldScore struct {
	Field      string  `json:"field"`
	Rule       string  `json:"rule"`
	Weight     float64 `json:"weight"`
	Awarded    float64 `json:"awarded"`
	TradeValue string  `json:"trade_value"`
	RefValue   string  `json:"ref_value,omitempty"`
}

type jsonCandidate struct {
	UPI   string  `json:"upi"`
	Score float64 `json:"score"`
}

type jsonResult struct {
	TradeIndex      int               `json:"trade_index"`
	BestUPI         string            `json:"best_upi"`
	Score           float64           `json:"score"`
	Confidence      string            `json:"confidence"`
	Orientation     string            `json:"orientation"`
	Breakdown       []jsonFieldScore  `json:"breakdown"`
	Candidates      []jsonCandidate   `json:"candidates"`
	TradeAttributes map[string]string `json:"trade_attributes"`
	Reference       map[string]string `json:"reference,omitempty"`
	Original        map[string]string `json:"original"`
}

type jsonSummary struct {
	Total            int     `json:"total"`
	Matched          int     `json:"matched"`
	HighConfidence   int     `json:"high_confidence"`
	NoMatch          int     `json:"no_match"`
	Swapped          int     `json:"swapped"`
	OffshoreAdjusted int     `json:"offshore_adjusted"`
	MatchRate        float64 `json:"match_rate"`
}

type jsonReport struct {
	RunID   string       `json:"run_id"`
	Started time.Time    `json:"started"`
	Summary jsonSummary  `json:"summary"`
	Results []jsonResult `json:"results"`
}

// WriteJSON writes the full result, including breakdowns and the top candidates.
func WriteJSON(w io.Writer, res *batch.Result) error {
	s := res.Summary
	doc := jsonReport{
		RunID:   res.RunID,
		Started: res.Started,
		Summary: jsonSummary{
			Total:            s.Total,
			Matched:          s.Matched,
			HighConfidence:   s.HighConfidence,
			NoMatch:          s.NoMatch,
			Swapped:          s.Swapped,
			OffshoreAdjusted: s.OffshoreAdjusted,
			MatchRate:        roundRate(s.MatchRate()),
		},
		Results: make([]jsonResult, 0, len(res.Items)),
	}

	for _, it := range res.Items {
		m := it.Match
		jr := jsonResult{
			TradeIndex:      m.TradeIndex,
			BestUPI:         m.Code,
			Score:           m.Score.InexactFloat64(),
			Confidence:      string(m.Confidence),
			Orientation:     string(m.Orientation),
			Breakdown:       make([]jsonFieldScore, 0, len(m.Breakdown)),
			Candidates:      make([]jsonCandidate, 0, maxCandidates),
			TradeAttributes: make(map[string]string, len(m.Attributes)),
			Original:        make(map[string]string, len(it.Row.Columns)),
		}
		if jr.BestUPI == "" {
			jr.BestUPI = NoMatchLabel
		}
		for _, fs := range m.Breakdown {
			jr.Breakdown = append(jr.Breakdown, jsonFieldScore{
				Field:      string(fs.Field),
				Rule:       string(fs.Rule),
				Weight:     fs.Weight.InexactFloat64(),
				Awarded:    fs.Awarded.InexactFloat64(),
				TradeValue: fs.TradeValue,
				RefValue:   fs.RefValue,
			})
		}
		for i, c := range m.Candidates {
			if i == maxCandidates {
				break
			}
			jr.Candidates = append(jr.Candidates, jsonCandidate{UPI: c.Code, Score: c.Score.InexactFloat64()})
		}
		for f, v := range m.Attributes {
			jr.TradeAttributes[string(f)] = v
		}
		if m.Record != nil {
			jr.Reference = make(map[string]string, len(m.Record.Attributes)+1)
			for f, v := range m.Record.Attributes {
				jr.Reference[string(f)] = v
			}
			if m.Record.Status != "" {
				jr.Reference["Status"] = m.Record.Status
			}
		}
		for i, c := range it.Row.Columns {
			if c != "" && i < len(it.Row.Values) {
				if _, dup := jr.Original[c]; !dup {
					jr.Original[c] = it.Row.Values[i]
				}
			}
		}
		doc.Results = append(doc.Results, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}
