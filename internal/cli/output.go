package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/eshaffer321/upi-search/internal/application/batch"
	"github.com/eshaffer321/upi-search/internal/domain/catalog"
	"github.com/eshaffer321/upi-search/internal/domain/matcher"
	"github.com/eshaffer321/upi-search/internal/domain/trade"
	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, command string, ac upi.AssetClass) {
	fmt.Fprintf(w, "%s: %s (%s)\n", command, ac, ac.ReferenceName())
}

// PrintConfiguration prints the matching configuration
func PrintConfiguration(w io.Writer, cfg matcher.Config, catalogPath, tradesPath string) {
	fmt.Fprintf(w, "Catalog: %s | Trades: %s\n", catalogPath, tradesPath)
	fmt.Fprintf(w, "Mode: %s | Threshold: %s | High confidence: %s",
		cfg.Mode, cfg.Threshold.String(), cfg.HighConfidence.String())
	if cfg.ProductType != "" {
		fmt.Fprintf(w, " | Product: %s", cfg.ProductType)
	}
	if cfg.RetrySwapped {
		fmt.Fprintf(w, " | Retry swapped: true")
	}
	fmt.Fprint(w, "\n\n")
}

// PrintMapping prints the column mapping in a stable order
func PrintMapping(w io.Writer, m trade.Mapping) {
	fmt.Fprintf(w, "Column mapping (%d):\n", len(m))
	for _, f := range m.Fields() {
		fmt.Fprintf(w, "  %s -> %s\n", f, m[f])
	}
	fmt.Fprintln(w)
}

// PrintSummary prints the batch result summary
func PrintSummary(w io.Writer, res *batch.Result, threshold, high string, outputPath string) {
	s := res.Summary
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Summary: Total=%d Matched=%d HighConfidence=%d NoMatch=%d\n",
		s.Total, s.Matched, s.HighConfidence, s.NoMatch)
	fmt.Fprintf(w, "  Matched trades (score >= %s): %d\n", threshold, s.Matched)
	fmt.Fprintf(w, "  High confidence matches (score >= %s): %d\n", high, s.HighConfidence)
	if s.Swapped > 0 {
		fmt.Fprintf(w, "  Matched with swapped currencies: %d\n", s.Swapped)
	}
	if s.OffshoreAdjusted > 0 {
		fmt.Fprintf(w, "  Offshore CNH trades adjusted: %d\n", s.OffshoreAdjusted)
	}
	fmt.Fprintf(w, "  Match rate: %.1f%%\n", s.MatchRate())

	if outputPath != "" {
		fmt.Fprintf(w, "\nResults exported to %s (run %s)\n", outputPath, res.RunID)
	}
}

// PrintCatalogStats prints a catalog audit
func PrintCatalogStats(w io.Writer, path string, stats catalog.Stats) {
	fmt.Fprintf(w, "Catalog: %s\n", path)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Records: %d | Skipped: %d\n", stats.Total, stats.Skipped)

	variants := make(map[string]int, len(stats.ByVariant))
	for v, n := range stats.ByVariant {
		variants[string(v)] = n
	}
	printCounts(w, "By schema", variants)
	printCounts(w, "By asset class", stats.ByAssetClass)
	printCounts(w, "By product type", stats.ByProductType)
}

// printCounts prints a count table, largest first, ties by name
func printCounts(w io.Writer, title string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(w, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-40s %d\n", k, counts[k])
	}
}
