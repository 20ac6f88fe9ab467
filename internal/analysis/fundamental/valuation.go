// Package fundamental implements the discounted-cash-flow valuation of a
// single company: line-item resolution against statement tables and the
// CAPM/WACC/terminal-value chain built on top of it.
package fundamental

import (
	"fmt"
	"log/slog"

	"github.com/seenimoa/dcfvalue/internal/infra"
	"github.com/seenimoa/dcfvalue/pkg/models"
)

// Metric names a value in a ValuationResult.
type Metric string

const (
	MetricCurrentPrice           Metric = "current_price"
	MetricBeta                   Metric = "beta"
	MetricCostOfEquity           Metric = "cost_of_equity"
	MetricRevenue                Metric = "revenue"
	MetricEBIT                   Metric = "ebit"
	MetricNetIncome              Metric = "net_income"
	MetricDebt                   Metric = "debt"
	MetricCash                   Metric = "cash"
	MetricSharesOutstanding      Metric = "shares_outstanding"
	MetricFCF                    Metric = "fcf"
	MetricWACC                   Metric = "wacc"
	MetricTerminalValue          Metric = "terminal_value"
	MetricPresentValueTV         Metric = "present_value_tv"
	MetricIntrinsicEquityValue   Metric = "intrinsic_equity_value"
	MetricIntrinsicValuePerShare Metric = "intrinsic_value_per_share"

	MetricEquityValue         Metric = "equity_value"
	MetricFirmValue           Metric = "firm_value"
	MetricOperatingCashFlow   Metric = "operating_cash_flow"
	MetricCapitalExpenditures Metric = "capital_expenditures"
	MetricDiscountFactor      Metric = "discount_factor"
)

// Metrics returns every metric in report order: the headline figures first,
// then the intermediate ones.
func Metrics() []Metric {
	return []Metric{
		MetricCurrentPrice,
		MetricBeta,
		MetricCostOfEquity,
		MetricRevenue,
		MetricEBIT,
		MetricNetIncome,
		MetricDebt,
		MetricCash,
		MetricSharesOutstanding,
		MetricFCF,
		MetricWACC,
		MetricTerminalValue,
		MetricPresentValueTV,
		MetricIntrinsicEquityValue,
		MetricIntrinsicValuePerShare,
		MetricEquityValue,
		MetricFirmValue,
		MetricOperatingCashFlow,
		MetricCapitalExpenditures,
		MetricDiscountFactor,
	}
}

// Assumptions are the fixed economic inputs of the model.
type Assumptions struct {
	RiskFreeRate      float64
	MarketRiskPremium float64
	CostOfDebt        float64 // pre-tax
	TaxRate           float64
	GrowthRate        float64 // perpetual FCF growth
	HorizonYears      int     // years the terminal value is discounted over
	Epsilon           float64 // denominators smaller than this in magnitude are hazards
}

// DefaultAssumptions returns the reference model's constants.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		RiskFreeRate:      0.045,
		MarketRiskPremium: 0.055,
		CostOfDebt:        0.035,
		TaxRate:           0.15,
		GrowthRate:        0.05,
		HorizonYears:      5,
		Epsilon:           1e-12,
	}
}

// Hazard records a division whose denominator was zero or nearly so.
// The affected metric is absent.
type Hazard struct {
	Metric      Metric  `json:"metric"`
	Denominator string  `json:"denominator"`
	Value       float64 `json:"value"`
}

func (h Hazard) String() string {
	return fmt.Sprintf("%s: %s is %g", h.Metric, h.Denominator, h.Value)
}

// Entry is one metric of a result.
type Entry struct {
	Metric Metric
	Value  models.Value
}

// ValuationResult is the immutable outcome of Engine.Compute.
type ValuationResult struct {
	symbol      string
	values      map[Metric]models.Value
	hazards     []Hazard
	resolutions []Resolution
}

// Symbol returns the ticker the result was computed for.
func (r *ValuationResult) Symbol() string { return r.symbol }

// Get returns the value of m, absent for unknown metrics.
func (r *ValuationResult) Get(m Metric) models.Value { return r.values[m] }

// Entries returns every metric in report order.
func (r *ValuationResult) Entries() []Entry {
	metrics := Metrics()
	out := make([]Entry, len(metrics))
	for i, m := range metrics {
		out[i] = Entry{Metric: m, Value: r.values[m]}
	}
	return out
}

// Hazards returns the arithmetic hazards met while computing.
func (r *ValuationResult) Hazards() []Hazard {
	return append([]Hazard(nil), r.hazards...)
}

// Resolutions returns how each fuzzily resolved label was matched.
func (r *ValuationResult) Resolutions() []Resolution {
	out := make([]Resolution, len(r.resolutions))
	for i, res := range r.resolutions {
		res.Suggestions = append([]string(nil), res.Suggestions...)
		out[i] = res
	}
	return out
}

// Engine computes valuations. It holds no per-run state and is safe for
// concurrent use.
type Engine struct {
	assumptions Assumptions
	resolver    Resolver
	logger      *slog.Logger
}

// NewEngine returns an engine. A nil logger discards diagnostics.
func NewEngine(a Assumptions, r Resolver, logger *slog.Logger) *Engine {
	return &Engine{assumptions: a, resolver: r, logger: infra.OrDiscard(logger)}
}

// Assumptions returns the engine's economic inputs.
func (e *Engine) Assumptions() Assumptions { return e.assumptions }

// Compute runs the valuation on data. Missing inputs never fail the run:
// they make every metric that depends on them absent.
func (e *Engine) Compute(data *models.CompanyData) *ValuationResult {
	if data == nil {
		data = &models.CompanyData{}
	}
	a := e.assumptions
	r := &ValuationResult{
		symbol: data.Symbol,
		values: make(map[Metric]models.Value, len(Metrics())),
	}
	div := func(m Metric, denominator string, num, den models.Value) models.Value {
		q, hazard := models.Div(num, den, a.Epsilon)
		if hazard {
			h := Hazard{Metric: m, Denominator: denominator, Value: den.OrElse(0)}
			r.hazards = append(r.hazards, h)
			e.logger.Warn("arithmetic hazard", "symbol", data.Symbol, "metric", string(m), "denominator", denominator, "value", h.Value)
		}
		return q
	}

	// Direct inputs.
	revenue := data.Profile.Field(models.FieldTotalRevenue)
	shares := data.Profile.Field(models.FieldSharesOutstanding)
	price := data.Profile.Field(models.FieldCurrentPrice)
	beta := data.Profile.Field(models.FieldBeta)

	ebit := LatestExact(data.IncomeStatement, LabelEBIT)
	netIncome := LatestExact(data.IncomeStatement, LabelNetIncome)

	cash, cashLabel := FirstPresent(data.BalanceSheet, CashLabels...)
	if cashLabel != "" {
		e.logger.Debug("cash row", "symbol", data.Symbol, "label", cashLabel)
	}

	debt := LatestExact(data.BalanceSheet, LabelLongTermDebt)
	if _, found := data.BalanceSheet.Lookup(LabelLongTermDebt); !found {
		debt = models.Some(0)
	}

	// CAPM.
	costOfEquity := models.Map(beta, func(b float64) float64 {
		return a.RiskFreeRate + b*a.MarketRiskPremium
	})

	// Capital structure.
	equityValue := models.Mul(price, shares)
	firmValue := models.Add(equityValue, debt)

	equityWeight := div(MetricWACC, "firm_value", equityValue, firmValue)
	debtWeight, _ := models.Div(debt, firmValue, a.Epsilon) // hazard already recorded
	afterTaxDebt := a.CostOfDebt * (1 - a.TaxRate)
	wacc := models.Add(
		models.Mul(equityWeight, costOfEquity),
		models.Map(debtWeight, func(w float64) float64 { return w * afterTaxDebt }),
	)

	// Free cash flow.
	ocf := e.resolve(r, data, LabelOperatingCash)
	capex := e.resolve(r, data, LabelCapex)
	fcf := models.Sub(ocf, capex)

	// Terminal value, discounted over the horizon.
	g := models.Some(a.GrowthRate)
	grownFCF := models.Map(fcf, func(f float64) float64 { return f * (1 + a.GrowthRate) })
	terminalValue := div(MetricTerminalValue, "wacc - growth_rate", grownFCF, models.Sub(wacc, g))
	discountFactor := models.Pow(models.Map(wacc, func(w float64) float64 { return 1 + w }), float64(a.HorizonYears))
	presentValueTV := div(MetricPresentValueTV, "discount_factor", terminalValue, discountFactor)

	intrinsicEquity := models.Sub(models.Add(presentValueTV, cash), debt)
	perShare := div(MetricIntrinsicValuePerShare, "shares_outstanding", intrinsicEquity, shares)

	for m, v := range map[Metric]models.Value{
		MetricCurrentPrice:           price,
		MetricBeta:                   beta,
		MetricCostOfEquity:           costOfEquity,
		MetricRevenue:                revenue,
		MetricEBIT:                   ebit,
		MetricNetIncome:              netIncome,
		MetricDebt:                   debt,
		MetricCash:                   cash,
		MetricSharesOutstanding:      shares,
		MetricFCF:                    fcf,
		MetricWACC:                   wacc,
		MetricTerminalValue:          terminalValue,
		MetricPresentValueTV:         presentValueTV,
		MetricIntrinsicEquityValue:   intrinsicEquity,
		MetricIntrinsicValuePerShare: perShare,
		MetricEquityValue:            equityValue,
		MetricFirmValue:              firmValue,
		MetricOperatingCashFlow:      ocf,
		MetricCapitalExpenditures:    capex,
		MetricDiscountFactor:         discountFactor,
	} {
		r.values[m] = v
	}
	return r
}

// resolve looks label up in the cash-flow table and records the resolution.
func (e *Engine) resolve(r *ValuationResult, data *models.CompanyData, label string) models.Value {
	v, res := e.resolver.Resolve(label, data.CashFlow)
	r.resolutions = append(r.resolutions, res)
	if !res.Resolved() {
		e.logger.Warn("line item unresolved",
			"symbol", data.Symbol,
			"label", label,
			"suggestions", res.Suggestions,
		)
		return v
	}
	e.logger.Debug("line item resolved",
		"symbol", data.Symbol,
		"label", label,
		"matched", res.Matched,
		"score", res.Score,
	)
	return v
}
