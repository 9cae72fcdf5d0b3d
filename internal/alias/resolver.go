package alias

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pairspend/pairspend/internal/common"
	"github.com/pairspend/pairspend/internal/model"
	"github.com/pairspend/pairspend/internal/service"
)

// maxAliasList caps ListAliases results.
const maxAliasList = 50

// Resolver maps raw OCR merchant strings to user-chosen display aliases.
// All mutation goes through store transactions so concurrent devices cannot
// create duplicate aliases or lose usage-count updates.
type Resolver struct {
	store service.Store
	retry service.RetryOptions
	now   func() time.Time
}

// NewResolver creates a resolver backed by the given store.
func NewResolver(store service.Store) *Resolver {
	return &Resolver{
		store: store,
		retry: service.RetryOptions{MaxAttempts: 3},
		now:   time.Now,
	}
}

// Resolve returns the display alias for an OCR merchant string, or the
// trimmed original when no alias exists. A hit increments the alias usage
// counter as a side effect. Resolution is advisory: if the store is
// unavailable the raw merchant is returned so categorization can proceed.
func (r *Resolver) Resolve(ctx context.Context, ocrMerchant, coupleID string) (string, error) {
	cleaned := CleanOCRMerchant(ocrMerchant)
	if cleaned == "" {
		return "", common.NewValidationError("ocrMerchant", "must not be blank")
	}
	if Normalize(coupleID) == "" {
		return "", common.NewValidationError("coupleId", "must not be blank")
	}

	normalized := Normalize(cleaned)

	var resolved string
	err := common.WithRetry(ctx, func() error {
		tx, err := r.store.BeginTx(ctx)
		if err != nil {
			return err
		}

		found, err := tx.GetAliasByMerchant(ctx, coupleID, normalized)
		if errors.Is(err, common.ErrNotFound) {
			_ = tx.Rollback()
			resolved = cleaned
			return nil
		}
		if err != nil {
			_ = tx.Rollback()
			return err
		}

		if err := tx.TouchAlias(ctx, coupleID, found.ID, r.now()); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}

		resolved = found.UserAlias
		return nil
	}, r.retry)

	if err != nil {
		// Read-path degradation: categorization proceeds on the raw string.
		common.LogWarn("Alias resolution degraded to raw merchant", common.Fields{
			"merchant":  cleaned,
			"couple_id": coupleID,
			"error":     err,
		})
		return cleaned, nil
	}

	return resolved, nil
}

// CreateAlias records a new OCR-merchant-to-alias mapping and returns its id.
// Both uniqueness axes are re-checked inside one store transaction; two
// devices racing to alias the same merchant end up with exactly one record
// and one ConflictError.
func (r *Resolver) CreateAlias(ctx context.Context, ocrMerchant, userAlias, coupleID, createdBy string) (string, error) {
	cleaned := CleanOCRMerchant(ocrMerchant)
	if cleaned == "" {
		return "", common.NewValidationError("ocrMerchant", "must not be blank")
	}
	trimmedAlias := strings.TrimSpace(userAlias)
	if trimmedAlias == "" {
		return "", common.NewValidationError("userAlias", "must not be blank")
	}
	if Normalize(coupleID) == "" {
		return "", common.NewValidationError("coupleId", "must not be blank")
	}

	now := r.now()
	record := &model.MerchantAlias{
		ID:                    uuid.NewString(),
		CoupleID:              coupleID,
		OCRMerchant:           cleaned,
		OCRMerchantNormalized: Normalize(cleaned),
		UserAlias:             trimmedAlias,
		UserAliasNormalized:   Normalize(trimmedAlias),
		UsageCount:            1,
		CreatedAt:             now,
		LastUsedAt:            now,
		CreatedBy:             createdBy,
	}

	err := common.WithRetry(ctx, func() error {
		tx, err := r.store.BeginTx(ctx)
		if err != nil {
			return err
		}

		if _, err := tx.GetAliasByMerchant(ctx, coupleID, record.OCRMerchantNormalized); err == nil {
			_ = tx.Rollback()
			return &common.ConflictError{Axis: common.ConflictAxisOCRMerchant, Value: cleaned}
		} else if !errors.Is(err, common.ErrNotFound) {
			_ = tx.Rollback()
			return err
		}

		if _, err := tx.GetAliasByName(ctx, coupleID, record.UserAliasNormalized); err == nil {
			_ = tx.Rollback()
			return &common.ConflictError{Axis: common.ConflictAxisUserAlias, Value: trimmedAlias}
		} else if !errors.Is(err, common.ErrNotFound) {
			_ = tx.Rollback()
			return err
		}

		if err := tx.CreateAlias(ctx, record); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	}, r.retry)

	if err != nil {
		return "", err
	}

	return record.ID, nil
}

// ListAliases returns a couple's aliases ordered by usage count descending,
// capped at 50 entries.
func (r *Resolver) ListAliases(ctx context.Context, coupleID string) ([]model.MerchantAlias, error) {
	if Normalize(coupleID) == "" {
		return nil, common.NewValidationError("coupleId", "must not be blank")
	}
	return r.store.ListAliases(ctx, coupleID, maxAliasList)
}

// DeleteAlias removes an alias. Historical expenses keep the display strings
// they were resolved to at insertion time; future lookups of the OCR string
// fall back to the raw merchant again.
func (r *Resolver) DeleteAlias(ctx context.Context, aliasID, coupleID string) error {
	if Normalize(aliasID) == "" {
		return common.NewValidationError("aliasId", "must not be blank")
	}
	if Normalize(coupleID) == "" {
		return common.NewValidationError("coupleId", "must not be blank")
	}
	return r.store.DeleteAlias(ctx, coupleID, aliasID)
}
