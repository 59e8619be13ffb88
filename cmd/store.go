package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "dealflow.db"
		}
		s, err := store.NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// activeFilter resolves the filter configuration for a run: an explicit
// file wins over the configured preset. The snapshot is taken once here so
// the whole batch scores against one consistent configuration.
func activeFilter() (filter.Configuration, error) {
	if cfg.Filter.File != "" {
		return filter.LoadFile(cfg.Filter.File)
	}
	preset := cfg.Filter.Preset
	if preset == "" {
		preset = filter.PresetAlexDefault
	}
	return filter.ApplyPreset(preset)
}
