package yfinance

import "encoding/json"

// --- Yahoo Finance API response types ---

// yfQuoteSummaryResponse wraps the v10 quoteSummary API response.
type yfQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []yfQuoteSummaryResult `json:"result"`
		Error  *yfError               `json:"error"`
	} `json:"quoteSummary"`
}

type yfQuoteSummaryResult struct {
	Price                *yfPrice                `json:"price"`
	DefaultKeyStatistics *yfDefaultKeyStatistics `json:"defaultKeyStatistics"`
	SummaryDetail        *yfSummaryDetail        `json:"summaryDetail"`
	FinancialData        *yfFinancialData        `json:"financialData"`
}

// yfFinVal is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper.
// An empty object ({}) means the value is not reported.
type yfFinVal struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type yfPrice struct {
	Symbol             string   `json:"symbol"`
	ShortName          string   `json:"shortName"`
	LongName           string   `json:"longName"`
	Currency           string   `json:"currency"`
	RegularMarketPrice yfFinVal `json:"regularMarketPrice"`
	MarketCap          yfFinVal `json:"marketCap"`
}

type yfDefaultKeyStatistics struct {
	EnterpriseValue   yfFinVal `json:"enterpriseValue"`
	SharesOutstanding yfFinVal `json:"sharesOutstanding"`
	Beta              yfFinVal `json:"beta"`
	BookValue         yfFinVal `json:"bookValue"`
	TrailingEps       yfFinVal `json:"trailingEps"`
	ForwardEps        yfFinVal `json:"forwardEps"`
}

type yfSummaryDetail struct {
	PreviousClose yfFinVal `json:"previousClose"`
	MarketCap     yfFinVal `json:"marketCap"`
	Beta          yfFinVal `json:"beta"`
	TrailingPE    yfFinVal `json:"trailingPE"`
	ForwardPE     yfFinVal `json:"forwardPE"`
	DividendYield yfFinVal `json:"dividendYield"`
	Currency      string   `json:"currency"`
}

type yfFinancialData struct {
	CurrentPrice      yfFinVal `json:"currentPrice"`
	TotalRevenue      yfFinVal `json:"totalRevenue"`
	TotalCash         yfFinVal `json:"totalCash"`
	TotalDebt         yfFinVal `json:"totalDebt"`
	FreeCashflow      yfFinVal `json:"freeCashflow"`
	OperatingCashflow yfFinVal `json:"operatingCashflow"`
	Ebitda            yfFinVal `json:"ebitda"`
	FinancialCurrency string   `json:"financialCurrency"`
}

// yfTimeseriesResponse wraps the fundamentals-timeseries API response.
// Each result carries one requested type; its data points live under a key
// named after the type, so results are kept raw and decoded per type.
type yfTimeseriesResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *yfError                     `json:"error"`
	} `json:"timeseries"`
}

type yfTimeseriesMeta struct {
	Symbol []string `json:"symbol"`
	Type   []string `json:"type"`
}

// yfTimeseriesPoint is one period of one line item. Missing periods are null.
type yfTimeseriesPoint struct {
	AsOfDate      string   `json:"asOfDate"`
	PeriodType    string   `json:"periodType"`
	CurrencyCode  string   `json:"currencyCode"`
	ReportedValue yfFinVal `json:"reportedValue"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
