package cli

import (
	"context"
	"fmt"

	"github.com/geohub/geod/internal/config"
	"github.com/geohub/geod/internal/store"
	"github.com/geohub/geod/internal/store/postgres"
	"github.com/geohub/geod/internal/store/sqlite"
)

// openStore opens the backend named by cfg.Store.Driver. Both
// backends apply their schema (idempotent CREATE TABLE IF NOT EXISTS)
// as part of Open, so openStore doubles as the migration entry point.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "postgres":
		pgCfg, err := postgres.ParseDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.Open(ctx, pgCfg)
	case "sqlite":
		return sqlite.Open(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("cli: unknown store driver %q", cfg.Driver)
	}
}
