package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/seenimoa/dcfvalue/internal/analysis/fundamental"
)

// DefaultSheet is used when XLSXSink.Sheet is empty.
const DefaultSheet = "Valuation"

// XLSXSink writes the report to a single-sheet workbook.
type XLSXSink struct {
	Path     string
	Sheet    string
	Currency string
}

// NewXLSXSink returns a sink writing to path.
func NewXLSXSink(path, sheet, currency string) *XLSXSink {
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &XLSXSink{Path: path, Sheet: sheet, Currency: currency}
}

// Export implements Sink. Absent metrics leave the Value cell empty.
func (s *XLSXSink) Export(result *fundamental.ValuationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), s.Sheet); err != nil {
		return fmt.Errorf("xlsx sheet %q: %w", s.Sheet, err)
	}
	if err := f.SetSheetRow(s.Sheet, "A1", &[]any{HeaderMetric, HeaderValue}); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	if err := f.SetCellStyle(s.Sheet, "A1", "B1", bold); err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	for i, row := range Rows(result, s.Currency) {
		metricCell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellStr(s.Sheet, metricCell, row.Metric); err != nil {
			return fmt.Errorf("xlsx %s: %w", metricCell, err)
		}
		if row.Value == "" {
			continue
		}
		valueCell, _ := excelize.CoordinatesToCellName(2, i+2)
		if err := f.SetCellStr(s.Sheet, valueCell, row.Value); err != nil {
			return fmt.Errorf("xlsx %s: %w", valueCell, err)
		}
	}

	if err := f.SetColWidth(s.Sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("xlsx column width: %w", err)
	}
	if err := f.SetColWidth(s.Sheet, "B", "B", 20); err != nil {
		return fmt.Errorf("xlsx column width: %w", err)
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	return nil
}
