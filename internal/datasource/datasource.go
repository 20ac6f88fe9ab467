// Package datasource assembles everything one valuation run needs about a
// company by fanning out model fetches over the provider registry.
package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/dcfvalue/internal/provider"
	"github.com/seenimoa/dcfvalue/pkg/models"
	"github.com/seenimoa/dcfvalue/pkg/utils"
)

// Gather fetches the company profile and the three annual statements for
// symbol concurrently. providerName selects a registered provider; empty
// means each model's default. Any failed fetch cancels the rest and is
// returned wrapped with the model it belongs to.
func Gather(ctx context.Context, reg *provider.Registry, symbol, providerName string) (*models.CompanyData, error) {
	symbol = utils.NormalizeTicker(symbol)
	if symbol == "" {
		return nil, &provider.ErrMissingParam{Param: provider.ParamSymbol}
	}

	data := &models.CompanyData{Symbol: symbol}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := reg.Fetch(gctx, provider.ModelCompanyProfile, params(symbol, providerName))
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		profile, ok := res.Data.(*models.CompanyProfile)
		if !ok {
			return fmt.Errorf("profile: unexpected data type %T from %s", res.Data, res.Provider)
		}
		mu.Lock()
		data.Profile = profile
		record(data, res)
		mu.Unlock()
		return nil
	})

	for _, model := range provider.StatementModels() {
		stmt := statementOf(model)
		g.Go(func() error {
			res, err := reg.Fetch(gctx, model, params(symbol, providerName))
			if err != nil {
				return fmt.Errorf("%s: %w", stmt, err)
			}
			table, ok := res.Data.(*models.FinancialTable)
			if !ok {
				return fmt.Errorf("%s: unexpected data type %T from %s", stmt, res.Data, res.Provider)
			}
			if table == nil {
				table = models.NewFinancialTable(stmt)
			}
			mu.Lock()
			data.SetTable(stmt, table)
			record(data, res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("gather %s: %w", symbol, err)
	}
	if data.Profile == nil {
		data.Profile = &models.CompanyProfile{Symbol: symbol}
	}
	if data.FetchedAt.IsZero() {
		data.FetchedAt = time.Now()
	}
	return data, nil
}

func params(symbol, providerName string) provider.QueryParams {
	p := provider.QueryParams{
		provider.ParamSymbol: symbol,
		provider.ParamPeriod: "annual",
	}
	if providerName != "" {
		p[provider.ParamProvider] = providerName
	}
	return p
}

// record keeps the provider name and the oldest fetch time across results.
// Must be called with the data mutex held.
func record(data *models.CompanyData, res *provider.FetchResult) {
	if data.Provider == "" {
		data.Provider = res.Provider
	} else if data.Provider != res.Provider {
		data.Provider = "mixed"
	}
	if data.FetchedAt.IsZero() || res.FetchedAt.Before(data.FetchedAt) {
		data.FetchedAt = res.FetchedAt
	}
}

func statementOf(model provider.ModelType) models.Statement {
	switch model {
	case provider.ModelBalanceSheet:
		return models.StatementBalanceSheet
	case provider.ModelCashFlowStatement:
		return models.StatementCashFlow
	default:
		return models.StatementIncomeStatement
	}
}
