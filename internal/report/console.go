package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/seenimoa/dcfvalue/internal/analysis/fundamental"
)

// ConsoleSink prints the report as a table, followed by notes on labels
// that could not be resolved and on arithmetic hazards.
type ConsoleSink struct {
	W        io.Writer
	Currency string
}

// NewConsoleSink returns a sink printing to w.
func NewConsoleSink(w io.Writer, currency string) *ConsoleSink {
	return &ConsoleSink{W: w, Currency: currency}
}

// Export implements Sink.
func (s *ConsoleSink) Export(result *fundamental.ValuationResult) error {
	t := table.NewWriter()
	t.SetOutputMirror(s.W)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	if sym := result.Symbol(); sym != "" {
		t.SetTitle(sym + " valuation")
	}
	t.AppendHeader(table.Row{HeaderMetric, HeaderValue})
	for _, row := range Rows(result, s.Currency) {
		t.AppendRow(table.Row{row.Metric, row.Value})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()

	for _, res := range result.Resolutions() {
		if res.Resolved() {
			continue
		}
		if _, err := fmt.Fprintf(s.W, "unresolved %q; closest rows: %s\n", res.Label, strings.Join(res.Suggestions, ", ")); err != nil {
			return err
		}
	}
	for _, h := range result.Hazards() {
		if _, err := fmt.Fprintf(s.W, "hazard %s\n", h); err != nil {
			return err
		}
	}
	return nil
}
