package model

import "github.com/shopspring/decimal"

// Category represents a spending category definition supplied by configuration.
// Keywords drive the description scorer; the optional amount range is a hint
// only, not a constraint on stored expenses.
type Category struct {
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	Key         string
	Description string
	Keywords    []string
}
