package engine

import (
	"context"
	"fmt"

	"github.com/pairspend/pairspend/internal/model"
	"github.com/pairspend/pairspend/internal/service"
)

// RecategorizeStats summarizes a batch recategorization run.
type RecategorizeStats struct {
	Total          int
	Updated        int
	Unchanged      int
	BelowThreshold int
}

// Recategorize re-predicts the category of every ledger entry for a couple
// and persists confident changes. Each entry is scored against the rest of
// the ledger so its own stored category cannot vote for itself. The progress
// callback, if set, is invoked after each entry.
func (e *Engine) Recategorize(ctx context.Context, store service.Store, coupleID string, categories []model.Category, progress func(done, total int)) (RecategorizeStats, error) {
	var stats RecategorizeStats

	expenses, err := store.ListExpenses(ctx, coupleID, 0)
	if err != nil {
		return stats, fmt.Errorf("failed to load ledger: %w", err)
	}
	stats.Total = len(expenses)

	for i := range expenses {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		expense := &expenses[i]
		history := make([]model.Expense, 0, len(expenses)-1)
		for j := range expenses {
			if j != i {
				history = append(history, expenses[j])
			}
		}

		result := e.PredictCategory(ctx, PredictRequest{
			Merchant:    expense.Merchant,
			Amount:      expense.Amount,
			Description: expense.Description,
			History:     history,
			Categories:  categories,
		})

		switch {
		case result.BelowThreshold:
			stats.BelowThreshold++
		case result.Category == expense.Category:
			stats.Unchanged++
		default:
			if err := store.UpdateExpenseCategory(ctx, coupleID, expense.ID, result.Category); err != nil {
				return stats, fmt.Errorf("failed to update expense %s: %w", expense.ID, err)
			}
			expense.Category = result.Category
			stats.Updated++
		}

		if progress != nil {
			progress(i+1, stats.Total)
		}
	}

	return stats, nil
}
