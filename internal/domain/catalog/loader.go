package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// maxLineSize bounds a single RECORDS line.
const maxLineSize = 16 * 1024 * 1024

// Loader reads reference files into catalogs.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// DetectFormat picks the schema variant for a file from its extension, then
// from its first non-space byte.
func DetectFormat(name string, head []byte) (upi.Variant, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jsonl", ".ndjson", ".txt", ".records":
		return upi.VariantRecordsLine, nil
	}

	trimmed := bytes.TrimLeft(head, " \t\r\n\uFEFF")
	if len(trimmed) == 0 {
		return "", fmt.Errorf("cannot detect format of %s: empty input", name)
	}
	switch trimmed[0] {
	case '{':
		return upi.VariantFlat, nil
	case '[':
		return upi.VariantNestedDSB, nil
	}
	return "", fmt.Errorf("cannot detect format of %s: unexpected leading %q", name, trimmed[0])
}

// LoadFile reads a reference file, detects its variant and returns the
// records belonging to ac. Read errors, empty catalogs and catalogs without
// records for ac are load errors.
func (l *Loader) LoadFile(path string, ac upi.AssetClass) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	variant, err := DetectFormat(path, data)
	if err != nil {
		return nil, err
	}

	all, err := l.Load(bytes.NewReader(data), variant)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	cat, err := all.ForAssetClass(ac)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Loaded UPI catalog",
		"path", path,
		"variant", variant,
		"records", all.Len(),
		"asset_class", ac,
		"asset_class_records", cat.Len(),
		"skipped", all.Skipped(),
	)
	return cat, nil
}

// Load decodes every record of the given variant from r.
func (l *Loader) Load(r io.Reader, variant upi.Variant) (*Catalog, error) {
	var (
		raws    []json.RawMessage
		skipped int
		err     error
	)

	switch variant {
	case upi.VariantFlat:
		var file struct {
			UPIs []json.RawMessage `json:"upis"`
		}
		if err = json.NewDecoder(r).Decode(&file); err != nil {
			return nil, fmt.Errorf("decode flat catalog: %w", err)
		}
		raws = file.UPIs
	case upi.VariantNestedDSB:
		if err = json.NewDecoder(r).Decode(&raws); err != nil {
			return nil, fmt.Errorf("decode DSB catalog: %w", err)
		}
	case upi.VariantRecordsLine:
		raws, skipped, err = l.scanLines(r)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported schema variant %q", variant)
	}

	records := make([]upi.Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := Normalize(raw, variant)
		if err != nil {
			skipped++
			l.logger.Debug("Skipping reference record", "index", i, "variant", variant, "error", err)
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w (%d skipped)", ErrEmptyCatalog, skipped)
	}
	if skipped > 0 {
		l.logger.Warn("Skipped invalid reference records", "variant", variant, "skipped", skipped)
	}

	return &Catalog{records: records, skipped: skipped}, nil
}

// scanLines splits a RECORDS stream into raw objects. Blank lines and lines
// starting with # are ignored; lines that are not JSON objects are counted
// as skipped.
func (l *Loader) scanLines(r io.Reader) ([]json.RawMessage, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		raws    []json.RawMessage
		skipped int
		lineNum int
	)
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if !json.Valid(line) || line[0] != '{' {
			skipped++
			l.logger.Debug("Skipping malformed RECORDS line", "line", lineNum)
			continue
		}
		raw := make(json.RawMessage, len(line))
		copy(raw, line)
		raws = append(raws, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read RECORDS line %d: %w", lineNum+1, err)
	}
	return raws, skipped, nil
}
