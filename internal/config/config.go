package config

// Package config handles configuration loading for dcfvalue.
// It supports YAML config files with environment variable overrides.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, e.g. DCFVALUE_VALUATION_TAX_RATE.
const EnvPrefix = "DCFVALUE"

// Config represents the complete application configuration.
type Config struct {
	Valuation ValuationConfig `mapstructure:"valuation" yaml:"valuation"`
	Resolver  ResolverConfig  `mapstructure:"resolver"  yaml:"resolver"`
	Data      DataConfig      `mapstructure:"data"      yaml:"data"`
	Report    ReportConfig    `mapstructure:"report"    yaml:"report"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ValuationConfig holds the fixed economic assumptions of the DCF model.
type ValuationConfig struct {
	RiskFreeRate      float64 `mapstructure:"risk_free_rate"      yaml:"risk_free_rate"`
	MarketRiskPremium float64 `mapstructure:"market_risk_premium" yaml:"market_risk_premium"`
	CostOfDebt        float64 `mapstructure:"cost_of_debt"        yaml:"cost_of_debt"` // pre-tax
	TaxRate           float64 `mapstructure:"tax_rate"            yaml:"tax_rate"`
	GrowthRate        float64 `mapstructure:"growth_rate"         yaml:"growth_rate"` // perpetual
	HorizonYears      int     `mapstructure:"horizon_years"       yaml:"horizon_years"`
	Epsilon           float64 `mapstructure:"epsilon"             yaml:"epsilon"` // |denominator| below this is a hazard
}

// ResolverConfig tunes fuzzy line-item matching.
type ResolverConfig struct {
	Cutoff         float64 `mapstructure:"cutoff"          yaml:"cutoff"`
	MaxSuggestions int     `mapstructure:"max_suggestions" yaml:"max_suggestions"`
}

// DataConfig selects and tunes the financial data provider.
type DataConfig struct {
	Provider     string `mapstructure:"provider"      yaml:"provider"` // "yfinance" or "snapshot"
	Ticker       string `mapstructure:"ticker"        yaml:"ticker"`
	SnapshotPath string `mapstructure:"snapshot_path" yaml:"snapshot_path"`
	BaseURL      string `mapstructure:"base_url"      yaml:"base_url"`
	TimeoutSec   int    `mapstructure:"timeout_sec"   yaml:"timeout_sec"`
	RateLimit    int    `mapstructure:"rate_limit"    yaml:"rate_limit"` // requests per second
}

// ReportConfig controls the exported report.
type ReportConfig struct {
	Output         string `mapstructure:"output"          yaml:"output"` // empty: <ticker>_valuation_output.xlsx
	Sheet          string `mapstructure:"sheet"           yaml:"sheet"`
	CurrencySymbol string `mapstructure:"currency_symbol" yaml:"currency_symbol"`
	Console        bool   `mapstructure:"console"         yaml:"console"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Known provider names.
const (
	ProviderYFinance = "yfinance"
	ProviderSnapshot = "snapshot"
)

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.dcfvalue/config.yaml (home directory)
//  3. /etc/dcfvalue/config.yaml (system)
//
// Environment variables override config file values.
// Format: DCFVALUE_<SECTION>_<KEY>, e.g., DCFVALUE_VALUATION_GROWTH_RATE
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".dcfvalue"))
	v.AddConfigPath("/etc/dcfvalue")

	bindEnv(v)

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Valuation defaults
	v.SetDefault("valuation.risk_free_rate", 0.045)
	v.SetDefault("valuation.market_risk_premium", 0.055)
	v.SetDefault("valuation.cost_of_debt", 0.035)
	v.SetDefault("valuation.tax_rate", 0.15)
	v.SetDefault("valuation.growth_rate", 0.05)
	v.SetDefault("valuation.horizon_years", 5)
	v.SetDefault("valuation.epsilon", 1e-12)

	// Resolver defaults
	v.SetDefault("resolver.cutoff", 0.5)
	v.SetDefault("resolver.max_suggestions", 3)

	// Data defaults
	v.SetDefault("data.provider", ProviderYFinance)
	v.SetDefault("data.ticker", "ADBE")
	v.SetDefault("data.snapshot_path", "")
	v.SetDefault("data.base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("data.timeout_sec", 30)
	v.SetDefault("data.rate_limit", 5)

	// Report defaults
	v.SetDefault("report.output", "")
	v.SetDefault("report.sheet", "Valuation")
	v.SetDefault("report.currency_symbol", "$")
	v.SetDefault("report.console", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate rejects settings the valuation or providers cannot work with.
func (c *Config) Validate() error {
	if c.Resolver.Cutoff < 0 || c.Resolver.Cutoff > 1 {
		return fmt.Errorf("resolver.cutoff must be within [0, 1], got %v", c.Resolver.Cutoff)
	}
	if c.Resolver.MaxSuggestions < 0 {
		return fmt.Errorf("resolver.max_suggestions must not be negative, got %d", c.Resolver.MaxSuggestions)
	}
	if c.Valuation.HorizonYears < 0 {
		return fmt.Errorf("valuation.horizon_years must not be negative, got %d", c.Valuation.HorizonYears)
	}
	if c.Valuation.Epsilon < 0 {
		return fmt.Errorf("valuation.epsilon must not be negative, got %v", c.Valuation.Epsilon)
	}
	switch c.Data.Provider {
	case ProviderYFinance, ProviderSnapshot:
	default:
		return fmt.Errorf("data.provider must be %q or %q, got %q", ProviderYFinance, ProviderSnapshot, c.Data.Provider)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
