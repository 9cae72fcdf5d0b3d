package main

import (
	"fmt"

	"github.com/pairspend/pairspend/internal/config"
	"github.com/pairspend/pairspend/internal/storage"
	"github.com/spf13/viper"
)

// openStore loads configuration and opens the SQLite store behind it.
// The caller owns the returned store and must Close it.
func openStore() (*storage.SQLiteStore, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	return store, cfg, nil
}

// coupleID returns the couple account id from flags/config.
func coupleID() (string, error) {
	id := viper.GetString("couple.id")
	if id == "" {
		return "", fmt.Errorf("no couple id configured; pass --couple or set couple.id")
	}
	return id, nil
}
