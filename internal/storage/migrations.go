package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Merchant alias table with two-axis uniqueness",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS merchant_aliases (
					id TEXT PRIMARY KEY,
					couple_id TEXT NOT NULL,
					ocr_merchant TEXT NOT NULL,
					ocr_merchant_normalized TEXT NOT NULL,
					user_alias TEXT NOT NULL,
					user_alias_normalized TEXT NOT NULL,
					usage_count INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME NOT NULL,
					last_used_at DATETIME NOT NULL,
					created_by TEXT NOT NULL DEFAULT ''
				)`,
				`CREATE UNIQUE INDEX idx_aliases_ocr_merchant
					ON merchant_aliases(couple_id, ocr_merchant_normalized)`,
				`CREATE UNIQUE INDEX idx_aliases_user_alias
					ON merchant_aliases(couple_id, user_alias_normalized)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Expense ledger",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS expenses (
					id TEXT PRIMARY KEY,
					couple_id TEXT NOT NULL,
					date DATETIME NOT NULL,
					merchant TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT '',
					amount TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT ''
				)`,
				`CREATE INDEX idx_expenses_couple_date ON expenses(couple_id, date)`,
				`CREATE INDEX idx_expenses_merchant ON expenses(merchant)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
