package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pairspend/pairspend/internal/common"
	"github.com/pairspend/pairspend/internal/model"
	"github.com/pairspend/pairspend/internal/service"
)

// MemoryStore implements the Store interface in memory. Transactions hold the
// store lock and mutate a staged copy, so read-check-write sequences are
// atomic exactly like the SQLite implementation's.
type MemoryStore struct {
	data    *memData
	failErr error
	mu      sync.Mutex
}

// memData is the mutable state behind a memory store or staged transaction.
type memData struct {
	aliases  map[string]*model.MerchantAlias
	expenses map[string]*model.Expense
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: &memData{
			aliases:  make(map[string]*model.MerchantAlias),
			expenses: make(map[string]*model.Expense),
		},
	}
}

// FailWith makes every subsequent operation return a store-unavailable error
// wrapping err. Pass nil to restore normal behavior. Test hook for the
// degraded-store paths.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *MemoryStore) checkFailure(op string) error {
	if s.failErr != nil {
		return &common.StoreUnavailableError{Op: op, Err: s.failErr}
	}
	return nil
}

func (d *memData) clone() *memData {
	staged := &memData{
		aliases:  make(map[string]*model.MerchantAlias, len(d.aliases)),
		expenses: make(map[string]*model.Expense, len(d.expenses)),
	}
	for id, alias := range d.aliases {
		copied := *alias
		staged.aliases[id] = &copied
	}
	for id, expense := range d.expenses {
		copied := *expense
		staged.expenses[id] = &copied
	}
	return staged
}

// BeginTx starts a transaction. It holds the store lock until Commit or
// Rollback, serializing writers.
func (s *MemoryStore) BeginTx(ctx context.Context) (service.Tx, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if err := s.checkFailure("begin transaction"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	return &memTx{store: s, staged: s.data.clone()}, nil
}

// Migrate is a no-op for the memory store.
func (s *MemoryStore) Migrate(ctx context.Context) error {
	return validateContext(ctx)
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Store operations lock around the shared data.

func (s *MemoryStore) GetAliasByID(ctx context.Context, coupleID, id string) (*model.MerchantAlias, error) {
	return s.locked(ctx, "get alias", func(d *memData) (*model.MerchantAlias, error) {
		return d.getAliasByID(coupleID, id)
	})
}

func (s *MemoryStore) GetAliasByMerchant(ctx context.Context, coupleID, ocrMerchantNormalized string) (*model.MerchantAlias, error) {
	return s.locked(ctx, "get alias", func(d *memData) (*model.MerchantAlias, error) {
		return d.getAliasByMerchant(coupleID, ocrMerchantNormalized)
	})
}

func (s *MemoryStore) GetAliasByName(ctx context.Context, coupleID, userAliasNormalized string) (*model.MerchantAlias, error) {
	return s.locked(ctx, "get alias", func(d *memData) (*model.MerchantAlias, error) {
		return d.getAliasByName(coupleID, userAliasNormalized)
	})
}

func (s *MemoryStore) CreateAlias(ctx context.Context, alias *model.MerchantAlias) error {
	_, err := s.locked(ctx, "create alias", func(d *memData) (*model.MerchantAlias, error) {
		return nil, d.createAlias(alias)
	})
	return err
}

func (s *MemoryStore) TouchAlias(ctx context.Context, coupleID, id string, usedAt time.Time) error {
	_, err := s.locked(ctx, "touch alias", func(d *memData) (*model.MerchantAlias, error) {
		return nil, d.touchAlias(coupleID, id, usedAt)
	})
	return err
}

func (s *MemoryStore) ListAliases(ctx context.Context, coupleID string, limit int) ([]model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("list aliases"); err != nil {
		return nil, err
	}
	return s.data.listAliases(coupleID, limit)
}

func (s *MemoryStore) DeleteAlias(ctx context.Context, coupleID, id string) error {
	_, err := s.locked(ctx, "delete alias", func(d *memData) (*model.MerchantAlias, error) {
		return nil, d.deleteAlias(coupleID, id)
	})
	return err
}

func (s *MemoryStore) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpenses(expenses); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("save expenses"); err != nil {
		return err
	}
	s.data.saveExpenses(expenses)
	return nil
}

func (s *MemoryStore) ListExpenses(ctx context.Context, coupleID string, limit int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("list expenses"); err != nil {
		return nil, err
	}
	return s.data.listExpenses(coupleID, limit)
}

func (s *MemoryStore) UpdateExpenseCategory(ctx context.Context, coupleID, id, category string) error {
	_, err := s.locked(ctx, "update expense category", func(d *memData) (*model.MerchantAlias, error) {
		return nil, d.updateExpenseCategory(coupleID, id, category)
	})
	return err
}

func (s *MemoryStore) CountExpenses(ctx context.Context, coupleID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("count expenses"); err != nil {
		return 0, err
	}
	count := 0
	for _, expense := range s.data.expenses {
		if expense.CoupleID == coupleID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) locked(ctx context.Context, op string, fn func(*memData) (*model.MerchantAlias, error)) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure(op); err != nil {
		return nil, err
	}
	return fn(s.data)
}

// memTx applies operations to a staged copy; Commit publishes it.
type memTx struct {
	store  *MemoryStore
	staged *memData
	done   bool
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.data = t.staged
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) GetAliasByID(ctx context.Context, coupleID, id string) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.staged.getAliasByID(coupleID, id)
}

func (t *memTx) GetAliasByMerchant(ctx context.Context, coupleID, ocrMerchantNormalized string) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.staged.getAliasByMerchant(coupleID, ocrMerchantNormalized)
}

func (t *memTx) GetAliasByName(ctx context.Context, coupleID, userAliasNormalized string) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.staged.getAliasByName(coupleID, userAliasNormalized)
}

func (t *memTx) CreateAlias(ctx context.Context, alias *model.MerchantAlias) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAlias(alias); err != nil {
		return err
	}
	return t.staged.createAlias(alias)
}

func (t *memTx) TouchAlias(ctx context.Context, coupleID, id string, usedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.staged.touchAlias(coupleID, id, usedAt)
}

func (t *memTx) ListAliases(ctx context.Context, coupleID string, limit int) ([]model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.staged.listAliases(coupleID, limit)
}

func (t *memTx) DeleteAlias(ctx context.Context, coupleID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.staged.deleteAlias(coupleID, id)
}

func (t *memTx) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpenses(expenses); err != nil {
		return err
	}
	t.staged.saveExpenses(expenses)
	return nil
}

func (t *memTx) ListExpenses(ctx context.Context, coupleID string, limit int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return t.staged.listExpenses(coupleID, limit)
}

func (t *memTx) UpdateExpenseCategory(ctx context.Context, coupleID, id, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return t.staged.updateExpenseCategory(coupleID, id, category)
}

func (t *memTx) CountExpenses(_ context.Context, coupleID string) (int, error) {
	count := 0
	for _, expense := range t.staged.expenses {
		if expense.CoupleID == coupleID {
			count++
		}
	}
	return count, nil
}

func (t *memTx) Migrate(_ context.Context) error {
	return nil
}

func (t *memTx) BeginTx(_ context.Context) (service.Tx, error) {
	return nil, common.ErrStoreUnavailable
}

func (t *memTx) Close() error {
	return nil
}

// Data operations shared by the store and its transactions.

func (d *memData) getAliasByID(coupleID, id string) (*model.MerchantAlias, error) {
	alias, ok := d.aliases[id]
	if !ok || alias.CoupleID != coupleID {
		return nil, common.ErrNotFound
	}
	copied := *alias
	return &copied, nil
}

func (d *memData) getAliasByMerchant(coupleID, ocrMerchantNormalized string) (*model.MerchantAlias, error) {
	for _, alias := range d.aliases {
		if alias.CoupleID == coupleID && alias.OCRMerchantNormalized == ocrMerchantNormalized {
			copied := *alias
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (d *memData) getAliasByName(coupleID, userAliasNormalized string) (*model.MerchantAlias, error) {
	for _, alias := range d.aliases {
		if alias.CoupleID == coupleID && alias.UserAliasNormalized == userAliasNormalized {
			copied := *alias
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (d *memData) createAlias(alias *model.MerchantAlias) error {
	for _, existing := range d.aliases {
		if existing.CoupleID != alias.CoupleID {
			continue
		}
		if existing.OCRMerchantNormalized == alias.OCRMerchantNormalized {
			return &common.ConflictError{Axis: common.ConflictAxisOCRMerchant, Value: alias.OCRMerchant}
		}
		if existing.UserAliasNormalized == alias.UserAliasNormalized {
			return &common.ConflictError{Axis: common.ConflictAxisUserAlias, Value: alias.UserAlias}
		}
	}
	copied := *alias
	d.aliases[alias.ID] = &copied
	return nil
}

func (d *memData) touchAlias(coupleID, id string, usedAt time.Time) error {
	alias, ok := d.aliases[id]
	if !ok || alias.CoupleID != coupleID {
		return common.ErrNotFound
	}
	alias.UsageCount++
	alias.LastUsedAt = usedAt
	return nil
}

func (d *memData) listAliases(coupleID string, limit int) ([]model.MerchantAlias, error) {
	if limit <= 0 {
		limit = 50
	}
	var aliases []model.MerchantAlias
	for _, alias := range d.aliases {
		if alias.CoupleID == coupleID {
			aliases = append(aliases, *alias)
		}
	}
	sort.Slice(aliases, func(i, j int) bool {
		if aliases[i].UsageCount != aliases[j].UsageCount {
			return aliases[i].UsageCount > aliases[j].UsageCount
		}
		return aliases[i].UserAliasNormalized < aliases[j].UserAliasNormalized
	})
	if len(aliases) > limit {
		aliases = aliases[:limit]
	}
	return aliases, nil
}

func (d *memData) deleteAlias(coupleID, id string) error {
	alias, ok := d.aliases[id]
	if !ok || alias.CoupleID != coupleID {
		return common.ErrNotFound
	}
	delete(d.aliases, id)
	return nil
}

func (d *memData) saveExpenses(expenses []model.Expense) {
	for i := range expenses {
		copied := expenses[i]
		d.expenses[copied.ID] = &copied
	}
}

func (d *memData) listExpenses(coupleID string, limit int) ([]model.Expense, error) {
	var expenses []model.Expense
	for _, expense := range d.expenses {
		if expense.CoupleID == coupleID {
			expenses = append(expenses, *expense)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
	if limit > 0 && len(expenses) > limit {
		expenses = expenses[:limit]
	}
	return expenses, nil
}

func (d *memData) updateExpenseCategory(coupleID, id, category string) error {
	expense, ok := d.expenses[id]
	if !ok || expense.CoupleID != coupleID {
		return common.ErrNotFound
	}
	expense.Category = category
	return nil
}
