package datasource

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/dcfvalue/internal/provider"
	"github.com/seenimoa/dcfvalue/internal/providers/snapshot"
	"github.com/seenimoa/dcfvalue/pkg/models"
)

type stubFetcher struct {
	provider.BaseFetcher
	fn func(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error)
}

func (s *stubFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	return s.fn(ctx, params)
}

type stubProvider struct {
	provider.BaseProvider
}

// newStub registers one fetcher per model; fn decides each result.
func newStub(name string, fn func(model provider.ModelType, params provider.QueryParams) (any, error)) *stubProvider {
	p := &stubProvider{BaseProvider: provider.NewBaseProvider(name, "stub", "")}
	for _, m := range provider.AllModels() {
		p.RegisterFetcher(&stubFetcher{
			BaseFetcher: provider.NewBaseFetcher(m, "stub", []string{provider.ParamSymbol}, nil),
			fn: func(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
				data, err := fn(m, params)
				if err != nil {
					return nil, err
				}
				return &provider.FetchResult{Data: data, FetchedAt: time.Unix(100, 0)}, nil
			},
		})
	}
	return p
}

func snapshotRegistry(t *testing.T) *provider.Registry {
	t.Helper()
	reg := provider.NewRegistry()
	require.NoError(t, reg.Register(snapshot.New(filepath.Join("..", "providers", "snapshot", "testdata", "demo.yaml"))))
	return reg
}

func TestGatherFromSnapshot(t *testing.T) {
	data, err := Gather(context.Background(), snapshotRegistry(t), " demo ", "")
	require.NoError(t, err)

	assert.Equal(t, "DEMO", data.Symbol)
	assert.Equal(t, "snapshot", data.Provider)
	require.NotNil(t, data.Profile)
	assert.Equal(t, "Demo Corp", data.Profile.Name)
	for _, s := range models.Statements() {
		assert.NotZero(t, data.Table(s).Len(), "statement %s is empty", s)
	}
	assert.True(t, data.FetchedAt.Equal(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
}

func TestGatherPassesParams(t *testing.T) {
	seen := make(chan provider.QueryParams, 4)
	reg := provider.NewRegistry()
	require.NoError(t, reg.Register(newStub("stub", func(m provider.ModelType, params provider.QueryParams) (any, error) {
		seen <- params
		if m == provider.ModelCompanyProfile {
			return &models.CompanyProfile{Symbol: params[provider.ParamSymbol]}, nil
		}
		return models.NewFinancialTable(models.StatementBalanceSheet), nil
	})))

	data, err := Gather(context.Background(), reg, "brk.b", "stub")
	require.NoError(t, err)
	assert.Equal(t, "BRK.B", data.Symbol)
	close(seen)

	count := 0
	for p := range seen {
		count++
		assert.Equal(t, "BRK.B", p[provider.ParamSymbol])
		assert.Equal(t, "annual", p[provider.ParamPeriod])
		assert.Equal(t, "stub", p[provider.ParamProvider])
	}
	assert.Equal(t, 4, count)
}

func TestGatherNilTableBecomesEmpty(t *testing.T) {
	reg := provider.NewRegistry()
	require.NoError(t, reg.Register(newStub("stub", func(m provider.ModelType, _ provider.QueryParams) (any, error) {
		if m == provider.ModelCompanyProfile {
			return &models.CompanyProfile{}, nil
		}
		return (*models.FinancialTable)(nil), nil
	})))

	data, err := Gather(context.Background(), reg, "X", "")
	require.NoError(t, err)
	require.NotNil(t, data.CashFlow)
	assert.Equal(t, models.StatementCashFlow, data.CashFlow.Statement)
	assert.Equal(t, 0, data.CashFlow.Len())
}

func TestGatherFailsOnFetchError(t *testing.T) {
	boom := errors.New("upstream unavailable")
	reg := provider.NewRegistry()
	require.NoError(t, reg.Register(newStub("stub", func(m provider.ModelType, _ provider.QueryParams) (any, error) {
		if m == provider.ModelCashFlowStatement {
			return nil, boom
		}
		if m == provider.ModelCompanyProfile {
			return &models.CompanyProfile{}, nil
		}
		return models.NewFinancialTable(models.StatementBalanceSheet), nil
	})))

	_, err := Gather(context.Background(), reg, "ADBE", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "cash_flow")
}

func TestGatherRejectsWrongDataType(t *testing.T) {
	reg := provider.NewRegistry()
	require.NoError(t, reg.Register(newStub("stub", func(m provider.ModelType, _ provider.QueryParams) (any, error) {
		return "not a model", nil
	})))

	_, err := Gather(context.Background(), reg, "ADBE", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected data type")
}

func TestGatherUnknownTicker(t *testing.T) {
	_, err := Gather(context.Background(), snapshotRegistry(t), "ADBE", "")
	var notFound *provider.ErrTickerNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestGatherEmptySymbol(t *testing.T) {
	_, err := Gather(context.Background(), provider.NewRegistry(), "  ", "")
	var missing *provider.ErrMissingParam
	assert.ErrorAs(t, err, &missing)
}

func TestGatherUnknownProvider(t *testing.T) {
	_, err := Gather(context.Background(), snapshotRegistry(t), "DEMO", "bloomberg")
	var notFound *provider.ErrProviderNotFound
	assert.ErrorAs(t, err, &notFound)
}
