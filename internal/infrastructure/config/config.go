// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml), with ${VAR} expansion
//  2. Environment variables (fallback)
//
// A .env file in the working directory is loaded into the environment first
// when present; variables already set win.
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	mcfg, err := cfg.MatcherConfig()
//	catalogPath := cfg.Catalog.Path
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/upi-search/internal/domain/matcher"
	"github.com/eshaffer321/upi-search/internal/domain/scoring"
	"github.com/eshaffer321/upi-search/internal/domain/trade"
	"github.com/eshaffer321/upi-search/internal/domain/upi"
)

// Config represents the entire application configuration
type Config struct {
	Matching      MatchingConfig      `yaml:"matching"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Trades        TradesConfig        `yaml:"trades"`
	Output        OutputConfig        `yaml:"output"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MatchingConfig holds matching session settings
type MatchingConfig struct {
	AssetClass     string                    `yaml:"asset_class"`
	Mode           string                    `yaml:"mode"`
	Threshold      float64                   `yaml:"threshold"`
	HighConfidence float64                   `yaml:"high_confidence"`
	RetrySwapped   bool                      `yaml:"retry_swapped"`
	ProductType    string                    `yaml:"product_type"`
	Workers        int                       `yaml:"workers"`
	Mapping        map[string]string         `yaml:"mapping"` // field → trade column
	Weights        map[string]map[string]int `yaml:"weights"` // asset class → field → weight
}

// CatalogConfig holds reference data settings
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// TradesConfig holds trade input settings
type TradesConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

// OutputConfig holds export settings
type OutputConfig struct {
	Path string `yaml:"path"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console, text or json
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Matching: MatchingConfig{
			AssetClass:     "FX",
			Mode:           string(scoring.ModeAdditive),
			Threshold:      50,
			HighConfidence: 80,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "console",
			},
		},
	}
}

// Load reads and parses the config file. Keys missing from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${UPI_CATALOG_PATH})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	def := Default()
	return &Config{
		Matching: MatchingConfig{
			AssetClass:     getEnv("UPI_ASSET_CLASS", def.Matching.AssetClass),
			Mode:           getEnv("UPI_MODE", def.Matching.Mode),
			Threshold:      getEnvFloat("UPI_THRESHOLD", def.Matching.Threshold),
			HighConfidence: getEnvFloat("UPI_HIGH_CONFIDENCE", def.Matching.HighConfidence),
			RetrySwapped:   getEnvBool("UPI_RETRY_SWAPPED", false),
			Workers:        getEnvInt("UPI_WORKERS", 0),
		},
		Catalog: CatalogConfig{
			Path: os.Getenv("UPI_CATALOG_PATH"),
		},
		Trades: TradesConfig{
			Path: os.Getenv("UPI_TRADES_PATH"),
		},
		Output: OutputConfig{
			Path: os.Getenv("UPI_OUTPUT_PATH"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", def.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", def.Observability.Logging.Format),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	_ = LoadDotEnv()
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// MatcherConfig converts the matching section into an immutable matcher.Config.
func (c *Config) MatcherConfig() (matcher.Config, error) {
	ac, err := upi.ParseAssetClass(c.Matching.AssetClass)
	if err != nil {
		return matcher.Config{}, err
	}
	mode, err := scoring.ParseMode(c.Matching.Mode)
	if err != nil {
		return matcher.Config{}, err
	}
	if c.Matching.Threshold < 0 || c.Matching.HighConfidence < c.Matching.Threshold {
		return matcher.Config{}, fmt.Errorf("invalid thresholds: threshold=%v high_confidence=%v",
			c.Matching.Threshold, c.Matching.HighConfidence)
	}

	weights := scoring.DefaultWeights(ac)
	for name, table := range c.Matching.Weights {
		if tac, ok := upi.ClassifyAssetClass(name); !ok || tac != ac {
			continue
		}
		overrides, err := scoring.ParseWeights(table)
		if err != nil {
			return matcher.Config{}, err
		}
		weights = weights.With(overrides)
	}

	mcfg := matcher.DefaultConfig(ac)
	mcfg.Mode = mode
	mcfg.Threshold = decimal.NewFromFloat(c.Matching.Threshold)
	mcfg.HighConfidence = decimal.NewFromFloat(c.Matching.HighConfidence)
	mcfg.Weights = weights
	mcfg.ProductType = strings.TrimSpace(c.Matching.ProductType)
	mcfg.RetrySwapped = c.Matching.RetrySwapped
	return mcfg, nil
}

// Mapping returns the configured column mapping, or nil when none is set.
func (c *Config) Mapping() (trade.Mapping, error) {
	if len(c.Matching.Mapping) == 0 {
		return nil, nil
	}
	return trade.NewMapping(c.Matching.Mapping)
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return fallback
}
