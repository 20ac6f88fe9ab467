package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seenimoa/dcfvalue/internal/provider"
	"github.com/seenimoa/dcfvalue/internal/providers"
	"github.com/seenimoa/dcfvalue/pkg/utils"
)

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and registered providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := provider.NewRegistry()
		if err := providers.RegisterAllTo(reg, cfg.Data, logger); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		line := strings.Repeat("═", 39)
		fmt.Fprintln(out, line)
		fmt.Fprintln(out, "  dcfvalue — Status")
		fmt.Fprintln(out, line)
		fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
		fmt.Fprintln(out)

		v := cfg.Valuation
		fmt.Fprintln(out, "  Valuation:")
		fmt.Fprintf(out, "    Risk-free rate:      %s\n", utils.FormatPct(v.RiskFreeRate))
		fmt.Fprintf(out, "    Market premium:      %s\n", utils.FormatPct(v.MarketRiskPremium))
		fmt.Fprintf(out, "    Cost of debt:        %s\n", utils.FormatPct(v.CostOfDebt))
		fmt.Fprintf(out, "    Tax rate:            %s\n", utils.FormatPct(v.TaxRate))
		fmt.Fprintf(out, "    Growth rate:         %s\n", utils.FormatPct(v.GrowthRate))
		fmt.Fprintf(out, "    Horizon:             %d years\n", v.HorizonYears)
		fmt.Fprintf(out, "    Resolver cutoff:     %.2f (%d suggestions)\n", cfg.Resolver.Cutoff, cfg.Resolver.MaxSuggestions)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  Data:")
		fmt.Fprintf(out, "    Provider:            %s\n", cfg.Data.Provider)
		fmt.Fprintf(out, "    Default ticker:      %s\n", cfg.Data.Ticker)
		if cfg.Data.SnapshotPath != "" {
			fmt.Fprintf(out, "    Snapshot:            %s\n", cfg.Data.SnapshotPath)
		}
		output := cfg.Report.Output
		if output == "" {
			output = utils.ReportFileName(cfg.Data.Ticker)
		}
		fmt.Fprintf(out, "    Report:              %s [%s]\n", output, cfg.Report.Sheet)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  Providers:")
		for _, info := range reg.List() {
			fmt.Fprintf(out, "    %-12s %s\n", info.Name, info.Description)
		}
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  Model coverage:")
		for _, m := range provider.AllModels() {
			def, _ := reg.DefaultProvider(m)
			fmt.Fprintf(out, "    %-20s %-22s %s (default %s)\n", m, provider.ModelCategory(m), strings.Join(reg.ProvidersFor(m), ", "), def)
		}
		fmt.Fprintln(out, line)
		return nil
	},
}
