// Package storage provides the data persistence layer for the pairspend application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pairspend/pairspend/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidAlias   = errors.New("invalid alias")
	ErrInvalidExpense = errors.New("invalid expense")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAlias validates an alias record before it is written.
func validateAlias(alias *model.MerchantAlias) error {
	if alias == nil {
		return fmt.Errorf("%w: alias", ErrNilParameter)
	}
	if strings.TrimSpace(alias.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAlias)
	}
	if strings.TrimSpace(alias.CoupleID) == "" {
		return fmt.Errorf("%w: missing couple ID", ErrInvalidAlias)
	}
	if strings.TrimSpace(alias.OCRMerchantNormalized) == "" {
		return fmt.Errorf("%w: missing normalized merchant", ErrInvalidAlias)
	}
	if strings.TrimSpace(alias.UserAliasNormalized) == "" {
		return fmt.Errorf("%w: missing normalized alias name", ErrInvalidAlias)
	}
	if alias.UsageCount < 1 {
		return fmt.Errorf("%w: usage count must be at least 1", ErrInvalidAlias)
	}
	return nil
}

// validateExpenses validates a slice of expenses.
func validateExpenses(expenses []model.Expense) error {
	if expenses == nil {
		return fmt.Errorf("%w: expenses", ErrNilParameter)
	}
	if len(expenses) == 0 {
		return fmt.Errorf("%w: expenses", ErrEmptySlice)
	}

	for i := range expenses {
		if err := validateExpense(&expenses[i]); err != nil {
			return fmt.Errorf("expense at index %d: %w", i, err)
		}
	}
	return nil
}

// validateExpense validates a single expense.
func validateExpense(expense *model.Expense) error {
	if expense == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if expense.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidExpense)
	}
	if expense.CoupleID == "" {
		return fmt.Errorf("%w: missing couple ID", ErrInvalidExpense)
	}
	if expense.Merchant == "" {
		return fmt.Errorf("%w: missing merchant", ErrInvalidExpense)
	}
	if expense.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidExpense)
	}
	return nil
}
