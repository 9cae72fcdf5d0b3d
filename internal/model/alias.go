// Package model defines the core domain types shared across the application.
package model

import "time"

// MerchantAlias maps a raw OCR merchant string to a user-chosen display name
// for one couple. Normalized forms back the two uniqueness axes: a couple can
// alias an OCR string at most once, and cannot reuse a display name for two
// different merchants.
type MerchantAlias struct {
	ID                    string
	CoupleID              string
	OCRMerchant           string
	OCRMerchantNormalized string
	UserAlias             string
	UserAliasNormalized   string
	UsageCount            int
	CreatedAt             time.Time
	LastUsedAt            time.Time
	CreatedBy             string
}
