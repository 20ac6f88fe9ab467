package yfinance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/seenimoa/dcfvalue/internal/infra"
	"github.com/seenimoa/dcfvalue/internal/provider"
	"github.com/seenimoa/dcfvalue/pkg/models"
)

// quoteSummary modules read by the profile fetcher.
const profileModules = "financialData,defaultKeyStatistics,summaryDetail,price"

// --- CompanyProfile fetcher ---

type companyProfileFetcher struct {
	provider.BaseFetcher
	session *session
}

func newCompanyProfileFetcher(s *session, rateLimit int) *companyProfileFetcher {
	return &companyProfileFetcher{
		BaseFetcher: provider.NewBaseFetcherWithLimit(
			provider.ModelCompanyProfile,
			"Price, beta, shares and revenue from Yahoo Finance quoteSummary",
			[]string{provider.ParamSymbol},
			nil,
			rateLimit, time.Second,
		),
		session: s,
	}
}

func (f *companyProfileFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	symbol := params[provider.ParamSymbol]
	if symbol == "" {
		return nil, &provider.ErrMissingParam{Param: provider.ParamSymbol}
	}
	yfTicker := toYFTicker(symbol)

	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	var resp yfQuoteSummaryResponse
	path := "/v10/finance/quoteSummary/" + url.PathEscape(yfTicker)
	if err := f.session.getJSON(ctx, path, url.Values{"modules": {profileModules}}, &resp); err != nil {
		var httpErr *infra.ErrHTTP
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, &provider.ErrTickerNotFound{Provider: providerName, Symbol: symbol}
		}
		return nil, fmt.Errorf("yfinance profile %s: %w", yfTicker, err)
	}
	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yfinance API error: %s", resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, &provider.ErrTickerNotFound{Provider: providerName, Symbol: symbol}
	}

	return newResult(parseProfile(symbol, resp.QuoteSummary.Result[0])), nil
}

// parseProfile maps the quoteSummary modules onto profile fields.
// Only reported values are stored; a field Yahoo omits stays absent.
func parseProfile(symbol string, r yfQuoteSummaryResult) *models.CompanyProfile {
	p := &models.CompanyProfile{
		Symbol: symbol,
		Fields: make(map[string]float64),
	}
	set := func(key string, vals ...yfFinVal) {
		for _, v := range vals {
			if v.Raw != nil {
				p.Fields[key] = *v.Raw
				return
			}
		}
	}

	fd := r.FinancialData
	ks := r.DefaultKeyStatistics
	sd := r.SummaryDetail
	pr := r.Price
	if fd == nil {
		fd = &yfFinancialData{}
	}
	if ks == nil {
		ks = &yfDefaultKeyStatistics{}
	}
	if sd == nil {
		sd = &yfSummaryDetail{}
	}
	if pr == nil {
		pr = &yfPrice{}
	}

	set(models.FieldCurrentPrice, fd.CurrentPrice, pr.RegularMarketPrice)
	set(models.FieldBeta, ks.Beta, sd.Beta)
	set(models.FieldSharesOutstanding, ks.SharesOutstanding)
	set(models.FieldTotalRevenue, fd.TotalRevenue)
	set("marketCap", pr.MarketCap, sd.MarketCap)
	set("enterpriseValue", ks.EnterpriseValue)
	set("totalCash", fd.TotalCash)
	set("totalDebt", fd.TotalDebt)
	set("freeCashflow", fd.FreeCashflow)
	set("operatingCashflow", fd.OperatingCashflow)
	set("ebitda", fd.Ebitda)
	set("trailingPE", sd.TrailingPE)
	set("forwardPE", sd.ForwardPE)

	p.Name = coalesce(pr.LongName, pr.ShortName)
	p.Currency = coalesce(pr.Currency, fd.FinancialCurrency, sd.Currency)
	return p
}
