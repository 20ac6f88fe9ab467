package models

import "time"

// Statement identifies one of the three financial statements.
type Statement string

const (
	StatementBalanceSheet    Statement = "balance_sheet"
	StatementCashFlow        Statement = "cash_flow"
	StatementIncomeStatement Statement = "income_statement"
)

// Statements returns all statements in display order.
func Statements() []Statement {
	return []Statement{StatementBalanceSheet, StatementCashFlow, StatementIncomeStatement}
}

// Row is a single line item of a financial statement.
// Values are ordered most-recent-period first; a missing cell is an absent Value.
type Row struct {
	Label  string  `json:"label"`
	Values []Value `json:"-"`
}

// Latest returns the most recent period value, absent if the row is empty.
func (r Row) Latest() Value {
	if len(r.Values) == 0 {
		return None()
	}
	return r.Values[0]
}

// FinancialTable is an ordered collection of statement rows.
// Labels are not guaranteed unique or standardized across vendors/periods.
type FinancialTable struct {
	Statement Statement `json:"statement"`
	Periods   []string  `json:"periods"` // most recent first, e.g. "2024-11-29"
	Rows      []Row     `json:"rows"`
}

// NewFinancialTable creates an empty table for the given statement.
func NewFinancialTable(s Statement, periods ...string) *FinancialTable {
	return &FinancialTable{Statement: s, Periods: periods}
}

// Add appends a row, keeping insertion order.
func (t *FinancialTable) Add(label string, values ...Value) {
	t.Rows = append(t.Rows, Row{Label: label, Values: values})
}

// AddFloats appends a row where every cell is present.
func (t *FinancialTable) AddFloats(label string, values ...float64) {
	vals := make([]Value, len(values))
	for i, v := range values {
		vals[i] = Some(v)
	}
	t.Add(label, vals...)
}

// Lookup returns the first row whose label equals label exactly.
func (t *FinancialTable) Lookup(label string) (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	for _, r := range t.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return Row{}, false
}

// Labels returns the row labels in table order.
func (t *FinancialTable) Labels() []string {
	if t == nil {
		return nil
	}
	labels := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		labels[i] = r.Label
	}
	return labels
}

// Len returns the number of rows.
func (t *FinancialTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Profile field keys, as named by the company profile provider.
const (
	FieldTotalRevenue      = "totalRevenue"
	FieldSharesOutstanding = "sharesOutstanding"
	FieldCurrentPrice      = "currentPrice"
	FieldBeta              = "beta"
)

// CompanyProfile holds the scalar company facts used by the valuation.
type CompanyProfile struct {
	Symbol   string             `json:"symbol"`
	Name     string             `json:"name"`
	Currency string             `json:"currency"`
	Fields   map[string]float64 `json:"fields"`
}

// Field returns the named profile field, absent if not provided.
func (p *CompanyProfile) Field(key string) Value {
	if p == nil {
		return None()
	}
	v, ok := p.Fields[key]
	if !ok {
		return None()
	}
	return Some(v)
}

// CompanyData bundles everything fetched for one company in a run.
type CompanyData struct {
	Symbol          string          `json:"symbol"`
	Profile         *CompanyProfile `json:"profile"`
	BalanceSheet    *FinancialTable `json:"balance_sheet"`
	CashFlow        *FinancialTable `json:"cash_flow"`
	IncomeStatement *FinancialTable `json:"income_statement"`
	Provider        string          `json:"provider"`
	FetchedAt       time.Time       `json:"fetched_at"`
}

// Table returns the table for the given statement.
func (d *CompanyData) Table(s Statement) *FinancialTable {
	if d == nil {
		return nil
	}
	switch s {
	case StatementBalanceSheet:
		return d.BalanceSheet
	case StatementCashFlow:
		return d.CashFlow
	case StatementIncomeStatement:
		return d.IncomeStatement
	}
	return nil
}

// SetTable stores t under the given statement.
func (d *CompanyData) SetTable(s Statement, t *FinancialTable) {
	switch s {
	case StatementBalanceSheet:
		d.BalanceSheet = t
	case StatementCashFlow:
		d.CashFlow = t
	case StatementIncomeStatement:
		d.IncomeStatement = t
	}
}
