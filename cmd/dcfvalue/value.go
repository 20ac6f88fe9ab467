package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/dcfvalue/internal/analysis/fundamental"
	"github.com/seenimoa/dcfvalue/internal/config"
	"github.com/seenimoa/dcfvalue/internal/datasource"
	"github.com/seenimoa/dcfvalue/internal/provider"
	"github.com/seenimoa/dcfvalue/internal/providers"
	"github.com/seenimoa/dcfvalue/internal/providers/snapshot"
	"github.com/seenimoa/dcfvalue/internal/report"
	"github.com/seenimoa/dcfvalue/pkg/models"
	"github.com/seenimoa/dcfvalue/pkg/utils"
)

// --- Value Command ---

var valueCmd = &cobra.Command{
	Use:   "value [ticker]",
	Short: "Value a company and export the report",
	Long: `Fetch the company profile and annual statements, compute the valuation
and write it to <ticker>_valuation_output.xlsx (or --output).

Examples:
  dcfvalue value ADBE
  dcfvalue value MSFT --growth-rate 0.04 --output reports/msft.xlsx
  dcfvalue value --snapshot testdata/demo.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *cfg
		if err := applyValueFlags(cmd, &c); err != nil {
			return err
		}
		// A snapshot names its own company; the configured ticker only
		// applies to live providers.
		ticker := ""
		switch {
		case len(args) == 1:
			ticker = args[0]
		case c.Data.Provider != config.ProviderSnapshot:
			ticker = c.Data.Ticker
		}
		_, err := runValuation(cmd.Context(), c, ticker, cmd.OutOrStdout(), logger)
		return err
	},
}

func init() {
	f := valueCmd.Flags()
	f.StringP("output", "o", "", "xlsx output path (default: <ticker>_valuation_output.xlsx)")
	f.String("provider", "", "data provider (yfinance, snapshot)")
	f.String("snapshot", "", "snapshot file (.yaml, .json, .html); implies --provider snapshot")
	f.Bool("no-console", false, "do not print the report table")
	f.Float64("risk-free-rate", 0, "risk-free rate")
	f.Float64("market-risk-premium", 0, "market risk premium")
	f.Float64("cost-of-debt", 0, "pre-tax cost of debt")
	f.Float64("tax-rate", 0, "tax rate")
	f.Float64("growth-rate", 0, "perpetual free-cash-flow growth rate")
	f.Int("horizon", 0, "years the terminal value is discounted over")
}

// applyValueFlags copies explicitly set flags over c.
func applyValueFlags(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()
	if f.Changed("output") {
		c.Report.Output, _ = f.GetString("output")
	}
	if f.Changed("snapshot") {
		c.Data.SnapshotPath, _ = f.GetString("snapshot")
		c.Data.Provider = config.ProviderSnapshot
	}
	if f.Changed("provider") {
		c.Data.Provider, _ = f.GetString("provider")
	}
	if f.Changed("no-console") {
		noConsole, _ := f.GetBool("no-console")
		c.Report.Console = !noConsole
	}

	rates := map[string]*float64{
		"risk-free-rate":      &c.Valuation.RiskFreeRate,
		"market-risk-premium": &c.Valuation.MarketRiskPremium,
		"cost-of-debt":        &c.Valuation.CostOfDebt,
		"tax-rate":            &c.Valuation.TaxRate,
		"growth-rate":         &c.Valuation.GrowthRate,
	}
	for name, dst := range rates {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}
	if f.Changed("horizon") {
		c.Valuation.HorizonYears, _ = f.GetInt("horizon")
	}
	return c.Validate()
}

// assumptionsFrom maps the valuation config onto the engine's inputs.
func assumptionsFrom(v config.ValuationConfig) fundamental.Assumptions {
	return fundamental.Assumptions{
		RiskFreeRate:      v.RiskFreeRate,
		MarketRiskPremium: v.MarketRiskPremium,
		CostOfDebt:        v.CostOfDebt,
		TaxRate:           v.TaxRate,
		GrowthRate:        v.GrowthRate,
		HorizonYears:      v.HorizonYears,
		Epsilon:           v.Epsilon,
	}
}

// runValuation fetches ticker, values it and exports the report. It returns
// the path of the written workbook.
func runValuation(ctx context.Context, c config.Config, ticker string, out io.Writer, logger *slog.Logger) (string, error) {
	reg := provider.NewRegistry()
	if err := providers.RegisterAllTo(reg, c.Data, logger); err != nil {
		return "", err
	}

	if ticker == "" {
		sym, err := snapshotSymbol(reg)
		if err != nil {
			return "", err
		}
		ticker = sym
	}

	start := time.Now()
	data, err := datasource.Gather(ctx, reg, ticker, c.Data.Provider)
	if err != nil {
		return "", err
	}
	logger.Info("fetched company data",
		"symbol", data.Symbol,
		"provider", data.Provider,
		"revenue", compact(data.Profile.Field(models.FieldTotalRevenue)),
		"rows", data.BalanceSheet.Len()+data.CashFlow.Len()+data.IncomeStatement.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	engine := fundamental.NewEngine(
		assumptionsFrom(c.Valuation),
		fundamental.Resolver{Cutoff: c.Resolver.Cutoff, MaxSuggestions: c.Resolver.MaxSuggestions},
		logger,
	)
	result := engine.Compute(data)

	path := c.Report.Output
	if path == "" {
		path = utils.ReportFileName(data.Symbol)
	}
	var sinks report.MultiSink
	if c.Report.Console {
		sinks = append(sinks, report.NewConsoleSink(out, c.Report.CurrencySymbol))
	}
	sinks = append(sinks, report.NewXLSXSink(path, c.Report.Sheet, c.Report.CurrencySymbol))
	if err := sinks.Export(result); err != nil {
		return "", err
	}

	fmt.Fprintf(out, "\nValuation results exported to '%s'\n", path)
	return path, nil
}

// snapshotSymbol reads the ticker from the registered snapshot file.
func snapshotSymbol(reg *provider.Registry) (string, error) {
	p, err := reg.Get(config.ProviderSnapshot)
	if err != nil {
		return "", fmt.Errorf("no ticker given: %w", err)
	}
	snap, ok := p.(*snapshot.Provider)
	if !ok {
		return "", fmt.Errorf("no ticker given and %q is not a snapshot provider", config.ProviderSnapshot)
	}
	sym, err := snap.Symbol()
	if err != nil {
		return "", err
	}
	if sym == "" {
		return "", fmt.Errorf("no ticker given and snapshot names no symbol")
	}
	return sym, nil
}

func compact(v models.Value) string {
	if x, ok := v.Get(); ok {
		return utils.FormatCompact(x)
	}
	return "n/a"
}
