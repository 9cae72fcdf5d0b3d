// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/pairspend/pairspend/internal/model"
)

// Store defines the contract for the persistence layer. All alias mutation
// goes through BeginTx so uniqueness checks and writes commit as one unit.
type Store interface {
	// Alias operations
	GetAliasByID(ctx context.Context, coupleID, id string) (*model.MerchantAlias, error)
	GetAliasByMerchant(ctx context.Context, coupleID, ocrMerchantNormalized string) (*model.MerchantAlias, error)
	GetAliasByName(ctx context.Context, coupleID, userAliasNormalized string) (*model.MerchantAlias, error)
	CreateAlias(ctx context.Context, alias *model.MerchantAlias) error
	TouchAlias(ctx context.Context, coupleID, id string, usedAt time.Time) error
	ListAliases(ctx context.Context, coupleID string, limit int) ([]model.MerchantAlias, error)
	DeleteAlias(ctx context.Context, coupleID, id string) error

	// Expense ledger operations
	SaveExpenses(ctx context.Context, expenses []model.Expense) error
	ListExpenses(ctx context.Context, coupleID string, limit int) ([]model.Expense, error)
	UpdateExpenseCategory(ctx context.Context, coupleID, id, category string) error
	CountExpenses(ctx context.Context, coupleID string) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	Close() error
}

// Tx represents an atomic store transaction: reads observe a consistent
// snapshot and writes commit together or not at all.
type Tx interface {
	Commit() error
	Rollback() error
	// Include all Store methods for use within the transaction
	Store
}

// RetryOptions configures retry behavior for transient store failures.
type RetryOptions struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	MaxAttempts  int
}
