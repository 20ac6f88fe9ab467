// Package report renders a valuation result as a two-column Metric/Value
// document: an xlsx workbook, a console table, or both.
package report

import (
	"errors"

	"github.com/seenimoa/dcfvalue/internal/analysis/fundamental"
	"github.com/seenimoa/dcfvalue/pkg/utils"
)

// Column headers of every report.
const (
	HeaderMetric = "Metric"
	HeaderValue  = "Value"
)

// Row is one formatted report line. Value is empty for an absent metric.
type Row struct {
	Metric string
	Value  string
}

// Rows formats every metric of result in report order. Present values are
// rendered as currency with two decimals and thousands separators.
func Rows(result *fundamental.ValuationResult, currency string) []Row {
	entries := result.Entries()
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Metric: string(e.Metric)}
		if v, ok := e.Value.Get(); ok {
			rows[i].Value = utils.FormatCurrency(v, currency)
		}
	}
	return rows
}

// Sink receives a finished valuation.
type Sink interface {
	Export(result *fundamental.ValuationResult) error
}

// MultiSink exports to every sink in order and joins their errors.
type MultiSink []Sink

// Export implements Sink.
func (m MultiSink) Export(result *fundamental.ValuationResult) error {
	var errs []error
	for _, s := range m {
		if err := s.Export(result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
