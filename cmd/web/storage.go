package main

import (
	"context"
	"fmt"
	"moviesocial/proj/internal/config"
	"moviesocial/proj/internal/services/search"
	"moviesocial/proj/internal/storage"
	"moviesocial/proj/internal/storage/memory"
	"moviesocial/proj/internal/storage/postgres"
	"moviesocial/proj/internal/storage/sqlite"
)

type searchCache interface {
	search.Cache
	Close() error
}

func openSearchCache(ctx context.Context, cfg config.Storage) (searchCache, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.New(cfg.Dsn)
	case "postgres":
		return postgres.New(ctx, cfg.Dsn, cfg.MaxConns, cfg.MaxConnIdleTime)
	case "memory":
		return memory.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, cfg.Driver)
}
