package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pairspend/pairspend/internal/common"
	"github.com/pairspend/pairspend/internal/model"
)

// queryable abstracts over *sql.DB and *sql.Tx.
type queryable interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const aliasColumns = `id, couple_id, ocr_merchant, ocr_merchant_normalized,
	user_alias, user_alias_normalized, usage_count, created_at, last_used_at, created_by`

// GetAliasByID retrieves an alias by its record id.
func (s *SQLiteStore) GetAliasByID(ctx context.Context, coupleID, id string) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getAliasTx(ctx, s.db, coupleID, "id", id)
}

// GetAliasByMerchant retrieves an alias by its normalized OCR merchant string.
func (s *SQLiteStore) GetAliasByMerchant(ctx context.Context, coupleID, ocrMerchantNormalized string) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ocrMerchantNormalized, "ocrMerchantNormalized"); err != nil {
		return nil, err
	}
	return s.getAliasTx(ctx, s.db, coupleID, "ocr_merchant_normalized", ocrMerchantNormalized)
}

// GetAliasByName retrieves an alias by its normalized display name.
func (s *SQLiteStore) GetAliasByName(ctx context.Context, coupleID, userAliasNormalized string) (*model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userAliasNormalized, "userAliasNormalized"); err != nil {
		return nil, err
	}
	return s.getAliasTx(ctx, s.db, coupleID, "user_alias_normalized", userAliasNormalized)
}

func (s *SQLiteStore) getAliasTx(ctx context.Context, q queryable, coupleID, column, value string) (*model.MerchantAlias, error) {
	if err := validateString(coupleID, "coupleID"); err != nil {
		return nil, err
	}

	// Column names come from fixed call sites only.
	switch column {
	case "id", "ocr_merchant_normalized", "user_alias_normalized":
	default:
		return nil, fmt.Errorf("unsupported alias lookup column: %s", column)
	}

	var alias model.MerchantAlias
	err := q.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM merchant_aliases
		WHERE couple_id = ? AND %s = ?
	`, aliasColumns, column), coupleID, value).Scan(
		&alias.ID,
		&alias.CoupleID,
		&alias.OCRMerchant,
		&alias.OCRMerchantNormalized,
		&alias.UserAlias,
		&alias.UserAliasNormalized,
		&alias.UsageCount,
		&alias.CreatedAt,
		&alias.LastUsedAt,
		&alias.CreatedBy,
	)

	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, classifyDriverError("get alias", err)
	}

	return &alias, nil
}

// CreateAlias inserts a new alias record.
func (s *SQLiteStore) CreateAlias(ctx context.Context, alias *model.MerchantAlias) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAlias(alias); err != nil {
		return err
	}
	return s.createAliasTx(ctx, s.db, alias)
}

func (s *SQLiteStore) createAliasTx(ctx context.Context, q queryable, alias *model.MerchantAlias) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO merchant_aliases (
			id, couple_id, ocr_merchant, ocr_merchant_normalized,
			user_alias, user_alias_normalized, usage_count, created_at, last_used_at, created_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		alias.ID,
		alias.CoupleID,
		alias.OCRMerchant,
		alias.OCRMerchantNormalized,
		alias.UserAlias,
		alias.UserAliasNormalized,
		alias.UsageCount,
		alias.CreatedAt,
		alias.LastUsedAt,
		alias.CreatedBy,
	)

	if err != nil {
		// The UNIQUE indexes are the last line of defense when two writers
		// race past the resolver's in-transaction checks. The violation
		// message names the offending columns.
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "user_alias_normalized") {
				return &common.ConflictError{
					Axis:  common.ConflictAxisUserAlias,
					Value: alias.UserAlias,
				}
			}
			return &common.ConflictError{
				Axis:  common.ConflictAxisOCRMerchant,
				Value: alias.OCRMerchant,
			}
		}
		return classifyDriverError("create alias", err)
	}

	return nil
}

// TouchAlias increments an alias usage counter and stamps the last use.
// The increment happens inside the UPDATE so concurrent touches never lose one.
func (s *SQLiteStore) TouchAlias(ctx context.Context, coupleID, id string, usedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.touchAliasTx(ctx, s.db, coupleID, id, usedAt)
}

func (s *SQLiteStore) touchAliasTx(ctx context.Context, q queryable, coupleID, id string, usedAt time.Time) error {
	if err := validateString(coupleID, "coupleID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		UPDATE merchant_aliases
		SET usage_count = usage_count + 1, last_used_at = ?
		WHERE couple_id = ? AND id = ?
	`, usedAt, coupleID, id)
	if err != nil {
		return classifyDriverError("touch alias", err)
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

// ListAliases retrieves aliases for a couple ordered by usage, most used first.
func (s *SQLiteStore) ListAliases(ctx context.Context, coupleID string, limit int) ([]model.MerchantAlias, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listAliasesTx(ctx, s.db, coupleID, limit)
}

func (s *SQLiteStore) listAliasesTx(ctx context.Context, q queryable, coupleID string, limit int) ([]model.MerchantAlias, error) {
	if err := validateString(coupleID, "coupleID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := q.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM merchant_aliases
		WHERE couple_id = ?
		ORDER BY usage_count DESC, user_alias_normalized ASC
		LIMIT ?
	`, aliasColumns), coupleID, limit)
	if err != nil {
		return nil, classifyDriverError("list aliases", err)
	}
	defer func() { _ = rows.Close() }()

	var aliases []model.MerchantAlias
	for rows.Next() {
		var alias model.MerchantAlias
		err := rows.Scan(
			&alias.ID,
			&alias.CoupleID,
			&alias.OCRMerchant,
			&alias.OCRMerchantNormalized,
			&alias.UserAlias,
			&alias.UserAliasNormalized,
			&alias.UsageCount,
			&alias.CreatedAt,
			&alias.LastUsedAt,
			&alias.CreatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases = append(aliases, alias)
	}

	return aliases, rows.Err()
}

// DeleteAlias removes an alias record.
func (s *SQLiteStore) DeleteAlias(ctx context.Context, coupleID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return s.deleteAliasTx(ctx, s.db, coupleID, id)
}

func (s *SQLiteStore) deleteAliasTx(ctx context.Context, q queryable, coupleID, id string) error {
	if err := validateString(coupleID, "coupleID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := q.ExecContext(ctx, `
		DELETE FROM merchant_aliases WHERE couple_id = ? AND id = ?
	`, coupleID, id)
	if err != nil {
		return classifyDriverError("delete alias", err)
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
