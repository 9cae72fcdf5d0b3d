package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one ledger entry for a couple. Merchant holds the resolved
// display name; Category is empty when no prediction cleared the confidence
// threshold and the user has not picked one yet.
type Expense struct {
	ID          string
	CoupleID    string
	Date        time.Time
	Merchant    string
	Category    string
	Amount      decimal.Decimal
	Description string
}
