// Package yfinance implements the Yahoo Finance data provider.
// It wraps Yahoo Finance's public quoteSummary and fundamentals-timeseries
// APIs into the standard provider/fetcher framework.
//
// Yahoo Finance needs no API key, but every request carries a session
// crumb obtained with a cookie handshake (see session.go).
package yfinance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/seenimoa/dcfvalue/internal/infra"
	"github.com/seenimoa/dcfvalue/internal/provider"
	"github.com/seenimoa/dcfvalue/pkg/utils"
)

const providerName = "yfinance"

// Default endpoints.
const (
	DefaultBaseURL = "https://query2.finance.yahoo.com"
	DefaultSeedURL = "https://fc.yahoo.com"
)

// Options tunes the provider. Zero values fall back to defaults.
type Options struct {
	BaseURL   string        // API host, e.g. DefaultBaseURL
	SeedURL   string        // page that sets the session cookies
	Timeout   time.Duration // per-request timeout
	RateLimit int           // requests per second per fetcher; <= 0 disables
	Client    *http.Client  // overrides the client built from Timeout
	Logger    *slog.Logger
}

// Provider implements provider.Provider for Yahoo Finance.
type Provider struct {
	provider.BaseProvider
	session *session
}

// New creates a new YFinance provider and registers all fetchers.
func New(opts Options) *Provider {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.SeedURL == "" {
		opts.SeedURL = DefaultSeedURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = infra.NewHTTPClient(opts.Timeout)
	}

	s := &session{
		client:  client,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		seedURL: opts.SeedURL,
		logger:  infra.OrDiscard(opts.Logger).With("provider", providerName),
	}

	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Yahoo Finance - free global financial data",
			"https://finance.yahoo.com",
		),
		session: s,
	}

	// --- Equity / Profile ---
	p.RegisterFetcher(newCompanyProfileFetcher(s, opts.RateLimit))

	// --- Equity / Fundamentals ---
	p.RegisterFetcher(newStatementFetcher(s, opts.RateLimit, provider.ModelBalanceSheet))
	p.RegisterFetcher(newStatementFetcher(s, opts.RateLimit, provider.ModelCashFlowStatement))
	p.RegisterFetcher(newStatementFetcher(s, opts.RateLimit, provider.ModelIncomeStatement))

	return p
}

// Ping checks connectivity to Yahoo Finance by completing the crumb handshake.
func (p *Provider) Ping(ctx context.Context) error {
	if _, err := p.session.getCrumb(ctx); err != nil {
		return fmt.Errorf("yfinance ping: %w", err)
	}
	return nil
}

// --- Shared helpers ---

func jsonHeaders() map[string]string {
	return map[string]string{"Accept": "application/json"}
}

// decodeJSON reads body fully and decodes it into dest.
func decodeJSON(body io.Reader, dest any) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// toYFTicker converts a symbol to Yahoo Finance format.
func toYFTicker(symbol string) string {
	return utils.ToYFinanceTicker(symbol)
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// newResult creates a FetchResult with the current timestamp.
func newResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
	}
}

// camelToTitle turns a timeseries key into a statement label:
// "CashAndCashEquivalents" → "Cash And Cash Equivalents",
// "DilutedEPS" → "Diluted EPS", "EBIT" → "EBIT".
func camelToTitle(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
