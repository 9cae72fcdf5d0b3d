package storage

import (
	"context"
	"fmt"

	"github.com/pairspend/pairspend/internal/common"
	"github.com/pairspend/pairspend/internal/model"
	"github.com/shopspring/decimal"
)

// SaveExpenses persists a batch of ledger entries. Existing ids are replaced,
// which keeps re-imports idempotent.
func (s *SQLiteStore) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpenses(expenses); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyDriverError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveExpensesTx(ctx, tx, expenses); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) saveExpensesTx(ctx context.Context, q queryable, expenses []model.Expense) error {
	for i := range expenses {
		expense := &expenses[i]
		_, err := q.ExecContext(ctx, `
			INSERT INTO expenses (id, couple_id, date, merchant, category, amount, description)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				date = excluded.date,
				merchant = excluded.merchant,
				category = excluded.category,
				amount = excluded.amount,
				description = excluded.description
		`,
			expense.ID,
			expense.CoupleID,
			expense.Date,
			expense.Merchant,
			expense.Category,
			expense.Amount.String(),
			expense.Description,
		)
		if err != nil {
			return classifyDriverError("save expense", err)
		}
	}
	return nil
}

// ListExpenses retrieves a couple's ledger, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, coupleID string, limit int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listExpensesTx(ctx, s.db, coupleID, limit)
}

func (s *SQLiteStore) listExpensesTx(ctx context.Context, q queryable, coupleID string, limit int) ([]model.Expense, error) {
	if err := validateString(coupleID, "coupleID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, couple_id, date, merchant, category, amount, description
		FROM expenses
		WHERE couple_id = ?
		ORDER BY date DESC`
	args := []any{coupleID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyDriverError("list expenses", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		var expense model.Expense
		var amount string
		err := rows.Scan(
			&expense.ID,
			&expense.CoupleID,
			&expense.Date,
			&expense.Merchant,
			&expense.Category,
			&amount,
			&expense.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expense amount %q: %w", amount, err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// UpdateExpenseCategory sets the category on a single ledger entry.
func (s *SQLiteStore) UpdateExpenseCategory(ctx context.Context, coupleID, id, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.updateExpenseCategoryTx(ctx, s.db, coupleID, id, category)
}

func (s *SQLiteStore) updateExpenseCategoryTx(ctx context.Context, q queryable, coupleID, id, category string) error {
	if err := validateString(coupleID, "coupleID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE expenses SET category = ? WHERE couple_id = ? AND id = ?
	`, category, coupleID, id)
	if err != nil {
		return classifyDriverError("update expense category", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// CountExpenses returns the number of ledger entries for a couple.
func (s *SQLiteStore) CountExpenses(ctx context.Context, coupleID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.countExpensesTx(ctx, s.db, coupleID)
}

func (s *SQLiteStore) countExpensesTx(ctx context.Context, q queryable, coupleID string) (int, error) {
	if err := validateString(coupleID, "coupleID"); err != nil {
		return 0, err
	}

	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM expenses WHERE couple_id = ?
	`, coupleID).Scan(&count)
	if err != nil {
		return 0, classifyDriverError("count expenses", err)
	}

	return count, nil
}
