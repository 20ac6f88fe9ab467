package fundamental

import "github.com/seenimoa/dcfvalue/pkg/models"

// Statement labels read by exact key.
const (
	LabelEBIT          = "EBIT"
	LabelNetIncome     = "Net Income"
	LabelLongTermDebt  = "Long Term Debt"
	LabelOperatingCash = "Operating Cash Flow"
	LabelCapex         = "Capital Expenditures"
)

// CashLabels are tried in order; the first row present wins.
var CashLabels = []string{
	"Cash",
	"Cash And Cash Equivalents",
	"Cash And Short Term Investments",
}

// LatestExact returns the most recent value of the first row labelled
// exactly label, absent when no such row exists.
func LatestExact(t *models.FinancialTable, label string) models.Value {
	row, ok := t.Lookup(label)
	if !ok {
		return models.None()
	}
	return row.Latest()
}

// FirstPresent tries labels in order and returns the most recent value of
// the first one found in t, along with the label used. A row that exists
// ends the search even if its latest cell is missing.
func FirstPresent(t *models.FinancialTable, labels ...string) (models.Value, string) {
	for _, l := range labels {
		if row, ok := t.Lookup(l); ok {
			return row.Latest(), l
		}
	}
	return models.None(), ""
}
