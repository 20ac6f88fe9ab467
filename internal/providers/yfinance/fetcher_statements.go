package yfinance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/seenimoa/dcfvalue/internal/provider"
	"github.com/seenimoa/dcfvalue/pkg/models"
)

// Timeseries keys requested per statement, in the row order of the
// resulting table. Each key is sent with an "annual" prefix.
var statementKeys = map[provider.ModelType][]string{
	provider.ModelBalanceSheet: {
		"TotalAssets",
		"CurrentAssets",
		"CashCashEquivalentsAndShortTermInvestments",
		"CashAndCashEquivalents",
		"OtherShortTermInvestments",
		"TotalLiabilitiesNetMinorityInterest",
		"CurrentLiabilities",
		"CurrentDebt",
		"LongTermDebt",
		"TotalDebt",
		"NetDebt",
		"StockholdersEquity",
		"WorkingCapital",
		"OrdinarySharesNumber",
		"ShareIssued",
	},
	provider.ModelCashFlowStatement: {
		"OperatingCashFlow",
		"InvestingCashFlow",
		"FinancingCashFlow",
		"EndCashPosition",
		"CapitalExpenditure",
		"FreeCashFlow",
		"DepreciationAndAmortization",
		"StockBasedCompensation",
		"RepurchaseOfCapitalStock",
		"CashDividendsPaid",
	},
	provider.ModelIncomeStatement: {
		"TotalRevenue",
		"OperatingRevenue",
		"CostOfRevenue",
		"GrossProfit",
		"OperatingIncome",
		"EBIT",
		"EBITDA",
		"InterestExpense",
		"PretaxIncome",
		"TaxProvision",
		"NetIncome",
		"NetIncomeCommonStockholders",
		"BasicEPS",
		"DilutedEPS",
		"DilutedAverageShares",
	},
}

var statementFor = map[provider.ModelType]models.Statement{
	provider.ModelBalanceSheet:      models.StatementBalanceSheet,
	provider.ModelCashFlowStatement: models.StatementCashFlow,
	provider.ModelIncomeStatement:   models.StatementIncomeStatement,
}

// timeseriesStart is the earliest period requested; Yahoo serves about
// four fiscal years of annual data regardless.
var timeseriesStart = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)

// --- Statement fetcher (balance sheet, cash flow, income statement) ---

type statementFetcher struct {
	provider.BaseFetcher
	session   *session
	statement models.Statement
	keys      []string
	now       func() time.Time
}

func newStatementFetcher(s *session, rateLimit int, model provider.ModelType) *statementFetcher {
	return &statementFetcher{
		BaseFetcher: provider.NewBaseFetcherWithLimit(
			model,
			fmt.Sprintf("Annual %s from Yahoo Finance fundamentals timeseries", statementFor[model]),
			[]string{provider.ParamSymbol},
			[]string{provider.ParamPeriod},
			rateLimit, time.Second,
		),
		session:   s,
		statement: statementFor[model],
		keys:      statementKeys[model],
		now:       time.Now,
	}
}

func (f *statementFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	if symbol == "" {
		return nil, &provider.ErrMissingParam{Param: provider.ParamSymbol}
	}
	if period := params[provider.ParamPeriod]; period != "" && period != "annual" {
		return nil, fmt.Errorf("yfinance %s: unsupported period %q (only annual)", f.statement, period)
	}
	yfTicker := toYFTicker(symbol)

	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	types := make([]string, len(f.keys))
	for i, k := range f.keys {
		types[i] = "annual" + k
	}
	query := url.Values{
		"symbol":  {yfTicker},
		"type":    {strings.Join(types, ",")},
		"period1": {strconv.FormatInt(timeseriesStart.Unix(), 10)},
		"period2": {strconv.FormatInt(f.now().Unix(), 10)},
		"merge":   {"false"},
	}

	var resp yfTimeseriesResponse
	path := "/ws/fundamentals-timeseries/v1/finance/timeseries/" + url.PathEscape(yfTicker)
	if err := f.session.getJSON(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("yfinance %s %s: %w", f.statement, yfTicker, err)
	}
	if resp.Timeseries.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.Timeseries.Error.Description)
	}

	table, err := parseTimeseries(f.statement, f.keys, resp.Timeseries.Result)
	if err != nil {
		return nil, fmt.Errorf("yfinance %s %s: %w", f.statement, yfTicker, err)
	}
	return newResult(table), nil
}

// parseTimeseries pivots per-type timeseries results into a statement table.
// Columns are the union of reported fiscal period ends, most recent first;
// rows follow keys order and types without any reported value are dropped.
func parseTimeseries(stmt models.Statement, keys []string, results []map[string]json.RawMessage) (*models.FinancialTable, error) {
	byKey := make(map[string]map[string]float64, len(results))
	periodSet := make(map[string]struct{})

	for _, res := range results {
		var meta yfTimeseriesMeta
		if raw, ok := res["meta"]; !ok || json.Unmarshal(raw, &meta) != nil || len(meta.Type) == 0 {
			continue
		}
		typ := meta.Type[0]
		raw, ok := res[typ]
		if !ok {
			continue
		}
		var points []*yfTimeseriesPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}

		values := make(map[string]float64)
		for _, pt := range points {
			if pt == nil || pt.ReportedValue.Raw == nil || pt.AsOfDate == "" {
				continue
			}
			if pt.PeriodType != "" && pt.PeriodType != "12M" {
				continue
			}
			values[pt.AsOfDate] = *pt.ReportedValue.Raw
			periodSet[pt.AsOfDate] = struct{}{}
		}
		if len(values) > 0 {
			byKey[strings.TrimPrefix(typ, "annual")] = values
		}
	}

	periods := make([]string, 0, len(periodSet))
	for p := range periodSet {
		periods = append(periods, p)
	}
	// ISO dates sort lexically.
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))

	table := models.NewFinancialTable(stmt, periods...)
	for _, key := range keys {
		values, ok := byKey[key]
		if !ok {
			continue
		}
		row := make([]models.Value, len(periods))
		for i, p := range periods {
			if v, ok := values[p]; ok {
				row[i] = models.Some(v)
			}
		}
		table.Add(camelToTitle(key), row...)
	}
	return table, nil
}
