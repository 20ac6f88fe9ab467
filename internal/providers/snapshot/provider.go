// Package snapshot implements an offline data provider that serves a
// company's profile and statements from a file on disk.
//
// Supported formats, chosen by extension:
//   - .yaml, .yml, .json: a Document (see document.go)
//   - .html, .htm: a saved page with one <table> per statement (see html.go)
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/seenimoa/dcfvalue/internal/provider"
	"github.com/seenimoa/dcfvalue/pkg/models"
	"github.com/seenimoa/dcfvalue/pkg/utils"
)

const providerName = "snapshot"

// Provider implements provider.Provider over a snapshot file.
// The file is parsed once, on first use.
type Provider struct {
	provider.BaseProvider
	path string

	once sync.Once
	data *models.CompanyData
	err  error
}

// New creates a snapshot provider reading from path.
func New(path string) *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"Offline company snapshot ("+filepath.Base(path)+")",
			"",
		),
		path: path,
	}
	p.RegisterFetcher(newFetcher(p, provider.ModelCompanyProfile))
	p.RegisterFetcher(newFetcher(p, provider.ModelBalanceSheet))
	p.RegisterFetcher(newFetcher(p, provider.ModelCashFlowStatement))
	p.RegisterFetcher(newFetcher(p, provider.ModelIncomeStatement))
	return p
}

// Ping verifies the snapshot file exists and parses.
func (p *Provider) Ping(ctx context.Context) error {
	_, err := p.load()
	return err
}

// Symbol returns the ticker the snapshot file describes.
func (p *Provider) Symbol() (string, error) {
	data, err := p.load()
	if err != nil {
		return "", err
	}
	return data.Symbol, nil
}

func (p *Provider) load() (*models.CompanyData, error) {
	p.once.Do(func() {
		p.data, p.err = LoadFile(p.path)
	})
	return p.data, p.err
}

// LoadFile parses a snapshot file into company data.
func LoadFile(path string) (*models.CompanyData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var data *models.CompanyData
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		data, err = decodeDocument(f)
	case ".html", ".htm":
		data, err = parseHTML(f)
	default:
		return nil, fmt.Errorf("snapshot %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}

	data.Provider = providerName
	if data.FetchedAt.IsZero() {
		if info, statErr := f.Stat(); statErr == nil {
			data.FetchedAt = info.ModTime()
		}
	}
	return data, nil
}

// --- Fetcher ---

type fetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newFetcher(p *Provider, model provider.ModelType) *fetcher {
	return &fetcher{
		BaseFetcher: provider.NewBaseFetcherWithLimit(
			model,
			string(model)+" from a local snapshot file",
			[]string{provider.ParamSymbol},
			nil,
			0, time.Second,
		),
		p: p,
	}
}

func (f *fetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := f.p.load()
	if err != nil {
		return nil, err
	}

	symbol := params[provider.ParamSymbol]
	if data.Symbol != "" && utils.NormalizeTicker(symbol) != utils.NormalizeTicker(data.Symbol) {
		return nil, &provider.ErrTickerNotFound{Provider: providerName, Symbol: symbol}
	}

	var out any
	switch f.ModelType() {
	case provider.ModelCompanyProfile:
		out = data.Profile
	case provider.ModelBalanceSheet:
		out = data.BalanceSheet
	case provider.ModelCashFlowStatement:
		out = data.CashFlow
	case provider.ModelIncomeStatement:
		out = data.IncomeStatement
	}
	return &provider.FetchResult{Data: out, FetchedAt: data.FetchedAt}, nil
}
