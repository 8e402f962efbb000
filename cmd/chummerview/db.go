package main

import (
	"context"
	"fmt"

	"chummerview/internal/config"
	"chummerview/internal/store"
	"chummerview/internal/store/postgres"
	"chummerview/internal/store/sqlite"
)

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	switch config.Driver(cfg.Database.DSN) {
	case "postgres":
		return postgres.New(ctx, cfg.Database.DSN)
	case "sqlite":
		return sqlite.New(ctx, cfg.Database.DSN)
	}
	return nil, fmt.Errorf("database.dsn is not configured")
}
