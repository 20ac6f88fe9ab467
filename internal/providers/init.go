// Package providers initializes and registers all concrete data providers
// with a provider registry.
package providers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/seenimoa/dcfvalue/internal/config"
	"github.com/seenimoa/dcfvalue/internal/provider"
	"github.com/seenimoa/dcfvalue/internal/providers/snapshot"
	"github.com/seenimoa/dcfvalue/internal/providers/yfinance"
)

// RegisterAllTo registers all available providers to the given registry and
// makes cfg.Provider the default for every model. The snapshot provider is
// only registered when a snapshot path is configured.
func RegisterAllTo(reg *provider.Registry, cfg config.DataConfig, logger *slog.Logger) error {
	// --- YFinance (free, no API key) ---
	yf := yfinance.New(yfinance.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	if err := reg.Register(yf); err != nil {
		return err
	}

	// --- Snapshot (local file) ---
	if cfg.SnapshotPath != "" {
		if err := reg.Register(snapshot.New(cfg.SnapshotPath)); err != nil {
			return err
		}
	} else if cfg.Provider == config.ProviderSnapshot {
		return fmt.Errorf("provider %q needs data.snapshot_path", config.ProviderSnapshot)
	}

	if cfg.Provider == "" {
		return nil
	}
	for _, m := range provider.AllModels() {
		if err := reg.SetDefault(m, cfg.Provider); err != nil {
			return err
		}
	}
	return nil
}
