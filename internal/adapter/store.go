// Package adapter selects and opens the configured ledger backend.
package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"alumni/internal/adapter/repo"
	"alumni/internal/domain"
	"alumni/internal/infra"
	"alumni/internal/storage/sqlite"
)

// OpenStore opens the ledger named by cfg.LedgerDriver. The returned close
// function releases the underlying connections.
func OpenStore(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (domain.FundraisingStore, func(), error) {
	switch cfg.LedgerDriver {
	case infra.LedgerPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store := repo.NewFundraisingRepository(infra.NewSQLRunner(pool, logger))
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info().Str("driver", cfg.LedgerDriver).Int32("max_conns", pool.Config().MaxConns).Msg("ledger ready")
		return store, pool.Close, nil

	case infra.LedgerSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("driver", cfg.LedgerDriver).Str("path", cfg.SQLitePath).Msg("ledger ready")
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error().Err(err).Msg("close sqlite ledger")
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unsupported ledger driver %q", cfg.LedgerDriver)
}
