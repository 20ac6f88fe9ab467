package fundamental

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/dcfvalue/pkg/models"
)

// demoCompany returns the reference scenario: price 50, beta 1.2, 10 shares,
// debt 200, cash 100, operating cash flow 300 and capex 50.
func demoCompany() *models.CompanyData {
	bs := models.NewFinancialTable(models.StatementBalanceSheet, "2024-11-29", "2023-12-01")
	bs.AddFloats("Total Assets", 2500, 2300)
	bs.AddFloats("Cash And Cash Equivalents", 100, 90)
	bs.AddFloats("Long Term Debt", 200, 210)

	cf := models.NewFinancialTable(models.StatementCashFlow, "2024-11-29", "2023-12-01")
	cf.AddFloats("Operating Cash Flow", 300, 280)
	cf.Add("Capital Expenditure", models.Some(50), models.None())

	is := models.NewFinancialTable(models.StatementIncomeStatement, "2024-11-29", "2023-12-01")
	is.AddFloats("EBIT", 150, 140)
	is.AddFloats("Net Income", 120, 110)

	return &models.CompanyData{
		Symbol: "DEMO",
		Profile: &models.CompanyProfile{
			Symbol: "DEMO",
			Fields: map[string]float64{
				models.FieldCurrentPrice:      50,
				models.FieldBeta:              1.2,
				models.FieldSharesOutstanding: 10,
				models.FieldTotalRevenue:      1000,
			},
		},
		BalanceSheet:    bs,
		CashFlow:        cf,
		IncomeStatement: is,
	}
}

func defaultEngine() *Engine {
	return NewEngine(DefaultAssumptions(), DefaultResolver(), nil)
}

func requireValue(t *testing.T, r *ValuationResult, m Metric) float64 {
	t.Helper()
	v, ok := r.Get(m).Get()
	require.True(t, ok, "%s should be present", m)
	return v
}

func TestComputeReferenceScenario(t *testing.T) {
	r := defaultEngine().Compute(demoCompany())

	costOfEquity := 0.045 + 1.2*0.055
	wacc := 500.0/700*costOfEquity + 200.0/700*0.035*(1-0.15)
	terminal := 250 * 1.05 / (wacc - 0.05)
	discount := math.Pow(1+wacc, 5)
	pv := terminal / discount

	tests := []struct {
		metric Metric
		want   float64
	}{
		{MetricCurrentPrice, 50},
		{MetricBeta, 1.2},
		{MetricRevenue, 1000},
		{MetricEBIT, 150},
		{MetricNetIncome, 120},
		{MetricCash, 100},
		{MetricDebt, 200},
		{MetricSharesOutstanding, 10},
		{MetricOperatingCashFlow, 300},
		{MetricCapitalExpenditures, 50},
		{MetricFCF, 250},
		{MetricCostOfEquity, 0.111},
		{MetricEquityValue, 500},
		{MetricFirmValue, 700},
		{MetricWACC, wacc},
		{MetricTerminalValue, terminal},
		{MetricDiscountFactor, discount},
		{MetricPresentValueTV, pv},
		{MetricIntrinsicEquityValue, pv - 100},
		{MetricIntrinsicValuePerShare, (pv - 100) / 10},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			assert.InDelta(t, tt.want, requireValue(t, r, tt.metric), 1e-9)
		})
	}

	// Worked figures, to a cent.
	assert.InDelta(t, 0.08779, requireValue(t, r, MetricWACC), 1e-5)
	assert.InDelta(t, 6947.07, requireValue(t, r, MetricTerminalValue), 0.01)
	assert.InDelta(t, 4561.26, requireValue(t, r, MetricPresentValueTV), 0.01)
	assert.InDelta(t, 446.13, requireValue(t, r, MetricIntrinsicValuePerShare), 0.01)

	assert.Empty(t, r.Hazards())
	assert.Equal(t, "DEMO", r.Symbol())
}

func TestComputeRecordsResolutions(t *testing.T) {
	r := defaultEngine().Compute(demoCompany())
	res := r.Resolutions()
	require.Len(t, res, 2)
	assert.Equal(t, "Operating Cash Flow", res[0].Matched)
	assert.Equal(t, "Capital Expenditures", res[1].Label)
	assert.Equal(t, "Capital Expenditure", res[1].Matched)

	res[0].Matched = "tampered"
	assert.Equal(t, "Operating Cash Flow", r.Resolutions()[0].Matched)
}

func TestComputeIsIdempotent(t *testing.T) {
	e := defaultEngine()
	data := demoCompany()
	first := e.Compute(data)
	second := e.Compute(data)
	assert.Equal(t, first.Entries(), second.Entries())
	assert.Equal(t, first.Resolutions(), second.Resolutions())
}

func TestDebtDefaultsToZero(t *testing.T) {
	data := demoCompany()
	data.BalanceSheet = models.NewFinancialTable(models.StatementBalanceSheet, "2024-11-29")
	data.BalanceSheet.AddFloats("Cash", 100)

	r := defaultEngine().Compute(data)
	assert.Equal(t, models.Some(0), r.Get(MetricDebt))
	assert.InDelta(t, 500, requireValue(t, r, MetricFirmValue), 1e-9)
	assert.InDelta(t, 0.111, requireValue(t, r, MetricWACC), 1e-12)
	assert.True(t, r.Get(MetricIntrinsicValuePerShare).Present())
}

func TestCashAbsentPropagates(t *testing.T) {
	data := demoCompany()
	data.BalanceSheet = models.NewFinancialTable(models.StatementBalanceSheet, "2024-11-29")
	data.BalanceSheet.AddFloats("Long Term Debt", 200)

	r := defaultEngine().Compute(data)
	assert.False(t, r.Get(MetricCash).Present())
	assert.True(t, r.Get(MetricPresentValueTV).Present())
	assert.False(t, r.Get(MetricIntrinsicEquityValue).Present())
	assert.False(t, r.Get(MetricIntrinsicValuePerShare).Present())
}

func TestAbsencePropagation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *models.CompanyData)
		absent  []Metric
		present []Metric
	}{
		{
			name:    "no beta",
			mutate:  func(d *models.CompanyData) { delete(d.Profile.Fields, models.FieldBeta) },
			absent:  []Metric{MetricBeta, MetricCostOfEquity, MetricWACC, MetricTerminalValue, MetricDiscountFactor, MetricPresentValueTV, MetricIntrinsicValuePerShare},
			present: []Metric{MetricEquityValue, MetricFirmValue, MetricFCF},
		},
		{
			name:    "no price",
			mutate:  func(d *models.CompanyData) { delete(d.Profile.Fields, models.FieldCurrentPrice) },
			absent:  []Metric{MetricEquityValue, MetricFirmValue, MetricWACC, MetricIntrinsicValuePerShare},
			present: []Metric{MetricCostOfEquity, MetricFCF, MetricDebt},
		},
		{
			name:    "no shares",
			mutate:  func(d *models.CompanyData) { delete(d.Profile.Fields, models.FieldSharesOutstanding) },
			absent:  []Metric{MetricSharesOutstanding, MetricEquityValue, MetricWACC, MetricIntrinsicEquityValue, MetricIntrinsicValuePerShare},
			present: []Metric{MetricCostOfEquity, MetricFCF},
		},
		{
			name: "no capex",
			mutate: func(d *models.CompanyData) {
				d.CashFlow = models.NewFinancialTable(models.StatementCashFlow, "2024-11-29")
				d.CashFlow.AddFloats("Operating Cash Flow", 300)
				d.CashFlow.AddFloats("Dividends Paid", -20)
			},
			absent:  []Metric{MetricCapitalExpenditures, MetricFCF, MetricTerminalValue, MetricPresentValueTV, MetricIntrinsicValuePerShare},
			present: []Metric{MetricOperatingCashFlow, MetricWACC, MetricDiscountFactor},
		},
		{
			name:    "no statements",
			mutate:  func(d *models.CompanyData) { d.BalanceSheet, d.CashFlow, d.IncomeStatement = nil, nil, nil },
			absent:  []Metric{MetricEBIT, MetricNetIncome, MetricCash, MetricFCF, MetricIntrinsicValuePerShare},
			present: []Metric{MetricDebt, MetricWACC, MetricRevenue},
		},
		{
			name:    "no profile",
			mutate:  func(d *models.CompanyData) { d.Profile = nil },
			absent:  []Metric{MetricCurrentPrice, MetricBeta, MetricRevenue, MetricCostOfEquity, MetricWACC, MetricIntrinsicValuePerShare},
			present: []Metric{MetricFCF, MetricCash, MetricDebt, MetricEBIT},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := demoCompany()
			tt.mutate(data)
			r := defaultEngine().Compute(data)
			for _, m := range tt.absent {
				assert.False(t, r.Get(m).Present(), "%s should be absent", m)
			}
			for _, m := range tt.present {
				assert.True(t, r.Get(m).Present(), "%s should be present", m)
			}
			assert.Empty(t, r.Hazards())
		})
	}
}

func TestComputeNilData(t *testing.T) {
	r := defaultEngine().Compute(nil)
	for _, e := range r.Entries() {
		if e.Metric == MetricDebt {
			assert.Equal(t, models.Some(0), e.Value)
			continue
		}
		assert.False(t, e.Value.Present(), "%s should be absent", e.Metric)
	}
}

func TestZeroFirmValueIsHazard(t *testing.T) {
	data := demoCompany()
	data.Profile.Fields[models.FieldCurrentPrice] = 0
	data.BalanceSheet = models.NewFinancialTable(models.StatementBalanceSheet, "2024-11-29")
	data.BalanceSheet.AddFloats("Cash", 100)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewEngine(DefaultAssumptions(), DefaultResolver(), logger).Compute(data)

	assert.Equal(t, models.Some(0), r.Get(MetricFirmValue))
	assert.False(t, r.Get(MetricWACC).Present())
	assert.False(t, r.Get(MetricIntrinsicValuePerShare).Present())

	hazards := r.Hazards()
	require.Len(t, hazards, 1)
	assert.Equal(t, MetricWACC, hazards[0].Metric)
	assert.Equal(t, "firm_value", hazards[0].Denominator)
	assert.Contains(t, buf.String(), "arithmetic hazard")
}

func TestWACCEqualToGrowthIsHazard(t *testing.T) {
	data := demoCompany()
	data.Profile.Fields[models.FieldBeta] = 0
	data.BalanceSheet = models.NewFinancialTable(models.StatementBalanceSheet, "2024-11-29")
	data.BalanceSheet.AddFloats("Cash", 100)

	a := DefaultAssumptions()
	a.GrowthRate = a.RiskFreeRate // all-equity, zero beta: wacc is the risk-free rate
	r := NewEngine(a, DefaultResolver(), nil).Compute(data)

	assert.InDelta(t, a.GrowthRate, requireValue(t, r, MetricWACC), 0)
	assert.False(t, r.Get(MetricTerminalValue).Present())
	assert.False(t, r.Get(MetricIntrinsicValuePerShare).Present())
	assert.True(t, r.Get(MetricDiscountFactor).Present())

	hazards := r.Hazards()
	require.Len(t, hazards, 1)
	assert.Equal(t, MetricTerminalValue, hazards[0].Metric)
	assert.Equal(t, "terminal_value: wacc - growth_rate is 0", hazards[0].String())
}

func TestZeroSharesIsHazard(t *testing.T) {
	data := demoCompany()
	data.Profile.Fields[models.FieldSharesOutstanding] = 0
	data.Profile.Fields[models.FieldCurrentPrice] = 50

	r := defaultEngine().Compute(data)
	// Zero shares also zero the equity weight; debt alone carries the WACC.
	assert.InDelta(t, 0.035*0.85, requireValue(t, r, MetricWACC), 1e-12)
	assert.True(t, r.Get(MetricIntrinsicEquityValue).Present())
	assert.False(t, r.Get(MetricIntrinsicValuePerShare).Present())

	hazards := r.Hazards()
	require.Len(t, hazards, 1)
	assert.Equal(t, MetricIntrinsicValuePerShare, hazards[0].Metric)
}

func TestUnresolvedLabelIsLogged(t *testing.T) {
	data := demoCompany()
	data.CashFlow = models.NewFinancialTable(models.StatementCashFlow, "2024-11-29")
	data.CashFlow.AddFloats("Operating Cash Flow", 300)
	data.CashFlow.AddFloats("Dividends Paid", -20)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	r := NewEngine(DefaultAssumptions(), DefaultResolver(), logger).Compute(data)

	assert.False(t, r.Get(MetricFCF).Present())
	out := buf.String()
	assert.Contains(t, out, "line item unresolved")
	assert.Contains(t, out, "label=\"Capital Expenditures\"")
	assert.NotContains(t, out, "line item resolved")
}

func TestMetricsOrder(t *testing.T) {
	metrics := Metrics()
	require.Len(t, metrics, 20)
	assert.Equal(t, MetricCurrentPrice, metrics[0])
	assert.Equal(t, MetricIntrinsicValuePerShare, metrics[14])

	entries := defaultEngine().Compute(demoCompany()).Entries()
	for i, e := range entries {
		assert.Equal(t, metrics[i], e.Metric)
	}
}
