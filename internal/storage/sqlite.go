package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pairspend/pairspend/internal/common"
	"github.com/pairspend/pairspend/internal/model"
	"github.com/pairspend/pairspend/internal/service"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStore) BeginTx(ctx context.Context) (service.Tx, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classifyDriverError("begin transaction", err)
	}

	return &sqliteTx{
		tx:    tx,
		store: s,
	}, nil
}

// classifyDriverError maps driver failures onto the application error
// taxonomy: lock contention becomes retryable, everything else surfaces as a
// store-unavailable failure.
func classifyDriverError(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked {
			return &common.RetryableError{Err: err, Retryable: true}
		}
	}
	return &common.StoreUnavailableError{Op: op, Err: err}
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// sqliteTx wraps sql.Tx to implement service.Tx.
type sqliteTx struct {
	tx    *sql.Tx
	store *SQLiteStore
}

func (t *sqliteTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return classifyDriverError("commit", err)
	}
	return nil
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main store with the transaction.
func (t *sqliteTx) GetAliasByID(ctx context.Context, coupleID, id string) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.getAliasTx(ctx, t.tx, coupleID, "id", id)
}

func (t *sqliteTx) GetAliasByMerchant(ctx context.Context, coupleID, ocrMerchantNormalized string) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.getAliasTx(ctx, t.tx, coupleID, "ocr_merchant_normalized", ocrMerchantNormalized)
}

func (t *sqliteTx) GetAliasByName(ctx context.Context, coupleID, userAliasNormalized string) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.getAliasTx(ctx, t.tx, coupleID, "user_alias_normalized", userAliasNormalized)
}

func (t *sqliteTx) CreateAlias(ctx context.Context, alias *model.MerchantAlias) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAlias(alias); err != nil {
		return err
	}
	return t.store.createAliasTx(ctx, t.tx, alias)
}

func (t *sqliteTx) TouchAlias(ctx context.Context, coupleID, id string, usedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.store.touchAliasTx(ctx, t.tx, coupleID, id, usedAt)
}

func (t *sqliteTx) ListAliases(ctx context.Context, coupleID string, limit int) ([]model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.listAliasesTx(ctx, t.tx, coupleID, limit)
}

func (t *sqliteTx) DeleteAlias(ctx context.Context, coupleID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.store.deleteAliasTx(ctx, t.tx, coupleID, id)
}

func (t *sqliteTx) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpenses(expenses); err != nil {
		return err
	}
	return t.store.saveExpensesTx(ctx, t.tx, expenses)
}

func (t *sqliteTx) ListExpenses(ctx context.Context, coupleID string, limit int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.store.listExpensesTx(ctx, t.tx, coupleID, limit)
}

func (t *sqliteTx) UpdateExpenseCategory(ctx context.Context, coupleID, id, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.store.updateExpenseCategoryTx(ctx, t.tx, coupleID, id, category)
}

func (t *sqliteTx) CountExpenses(ctx context.Context, coupleID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return t.store.countExpensesTx(ctx, t.tx, coupleID)
}

func (t *sqliteTx) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTx) BeginTx(_ context.Context) (service.Tx, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTx) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}
