package cli

import (
	"flag"
	"io"

	"github.com/eshaffer321/upi-search/internal/infrastructure/config"
)

// SearchFlags are the flags of the upi-search command
type SearchFlags struct {
	ConfigFile   string
	CatalogPath  string
	TradesPath   string
	Sheet        string
	AssetClass   string
	MappingFile  string
	Mode         string
	Threshold    float64
	ProductType  string
	RetrySwapped bool
	Workers      int
	OutputPath   string
	Verbose      bool

	set map[string]bool
}

// ParseSearchFlags parses upi-search flags from args (normally os.Args[1:])
func ParseSearchFlags(args []string, output io.Writer) (SearchFlags, error) {
	var flags SearchFlags
	fs := flag.NewFlagSet("upi-search", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&flags.ConfigFile, "config", "config.yaml", "Configuration file path")
	fs.StringVar(&flags.CatalogPath, "upi", "", "UPI reference file (.json or DSB RECORDS)")
	fs.StringVar(&flags.TradesPath, "trades", "", "Trade file (.csv or .xlsx)")
	fs.StringVar(&flags.Sheet, "sheet", "", "Worksheet name for .xlsx trades (default: first sheet)")
	fs.StringVar(&flags.AssetClass, "asset-class", "", "Asset class: FX or IR")
	fs.StringVar(&flags.MappingFile, "mapping", "", "YAML column mapping (default: auto-map)")
	fs.StringVar(&flags.Mode, "mode", "", "Scoring mode: additive or percentage")
	fs.Float64Var(&flags.Threshold, "threshold", 0, "Minimum score for a match")
	fs.StringVar(&flags.ProductType, "product", "", "Only consider UPIs with this product type (UseCase)")
	fs.BoolVar(&flags.RetrySwapped, "retry-swapped", false, "Retry with the currency pair swapped on a miss")
	fs.IntVar(&flags.Workers, "workers", 0, "Concurrent matchers (0 = number of CPUs)")
	fs.StringVar(&flags.OutputPath, "output", "", "Output file (.xlsx, .csv or .json)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return SearchFlags{}, err
	}

	flags.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { flags.set[f.Name] = true })
	return flags, nil
}

// Apply overlays explicitly set flags onto cfg
func (f SearchFlags) Apply(cfg *config.Config) {
	if f.CatalogPath != "" {
		cfg.Catalog.Path = f.CatalogPath
	}
	if f.TradesPath != "" {
		cfg.Trades.Path = f.TradesPath
	}
	if f.Sheet != "" {
		cfg.Trades.Sheet = f.Sheet
	}
	if f.AssetClass != "" {
		cfg.Matching.AssetClass = f.AssetClass
	}
	if f.Mode != "" {
		cfg.Matching.Mode = f.Mode
	}
	if f.set["threshold"] {
		cfg.Matching.Threshold = f.Threshold
	}
	if f.ProductType != "" {
		cfg.Matching.ProductType = f.ProductType
	}
	if f.set["retry-swapped"] {
		cfg.Matching.RetrySwapped = f.RetrySwapped
	}
	if f.set["workers"] {
		cfg.Matching.Workers = f.Workers
	}
	if f.OutputPath != "" {
		cfg.Output.Path = f.OutputPath
	}
	if f.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
}

// AuditFlags are the flags of the catalog-audit command
type AuditFlags struct {
	ConfigFile  string
	CatalogPath string
	AssetClass  string
}

// ParseAuditFlags parses catalog-audit flags from args
func ParseAuditFlags(args []string, output io.Writer) (AuditFlags, error) {
	var flags AuditFlags
	fs := flag.NewFlagSet("catalog-audit", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&flags.ConfigFile, "config", "config.yaml", "Configuration file path")
	fs.StringVar(&flags.CatalogPath, "upi", "", "UPI reference file (.json or DSB RECORDS)")
	fs.StringVar(&flags.AssetClass, "asset-class", "", "Asset class: FX or IR (default: all)")
	if err := fs.Parse(args); err != nil {
		return AuditFlags{}, err
	}
	return flags, nil
}
