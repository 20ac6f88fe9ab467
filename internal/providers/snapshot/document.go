package snapshot

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seenimoa/dcfvalue/pkg/models"
)

// Document is the YAML/JSON snapshot layout:
//
//	symbol: ADBE
//	name: Adobe Inc.
//	currency: USD
//	as_of: 2025-01-15T00:00:00Z
//	periods: ["2024-11-29", "2023-12-01"]
//	profile:
//	  currentPrice: 480.5
//	  beta: 1.3
//	cash_flow:
//	  - label: Operating Cash Flow
//	    values: [8056000000, 7302000000]
//
// A null entry in values marks a missing period.
type Document struct {
	Symbol          string             `yaml:"symbol"`
	Name            string             `yaml:"name"`
	Currency        string             `yaml:"currency"`
	AsOf            time.Time          `yaml:"as_of"`
	Periods         []string           `yaml:"periods"`
	Profile         map[string]float64 `yaml:"profile"`
	BalanceSheet    []DocumentRow      `yaml:"balance_sheet"`
	CashFlow        []DocumentRow      `yaml:"cash_flow"`
	IncomeStatement []DocumentRow      `yaml:"income_statement"`
}

// DocumentRow is one line item of a statement.
type DocumentRow struct {
	Label  string     `yaml:"label"`
	Values []*float64 `yaml:"values"`
}

// JSON is a subset of YAML, so one decoder serves both.
func decodeDocument(r io.Reader) (*models.CompanyData, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc.CompanyData(), nil
}

// CompanyData converts the document into the model used by the valuation.
func (d *Document) CompanyData() *models.CompanyData {
	profile := &models.CompanyProfile{
		Symbol:   d.Symbol,
		Name:     d.Name,
		Currency: d.Currency,
		Fields:   make(map[string]float64, len(d.Profile)),
	}
	for k, v := range d.Profile {
		profile.Fields[k] = v
	}

	return &models.CompanyData{
		Symbol:          d.Symbol,
		Profile:         profile,
		BalanceSheet:    d.table(models.StatementBalanceSheet, d.BalanceSheet),
		CashFlow:        d.table(models.StatementCashFlow, d.CashFlow),
		IncomeStatement: d.table(models.StatementIncomeStatement, d.IncomeStatement),
		FetchedAt:       d.AsOf,
	}
}

func (d *Document) table(s models.Statement, rows []DocumentRow) *models.FinancialTable {
	t := models.NewFinancialTable(s, d.Periods...)
	for _, r := range rows {
		values := make([]models.Value, len(r.Values))
		for i, v := range r.Values {
			values[i] = models.FromPtr(v)
		}
		t.Add(r.Label, values...)
	}
	return t
}
