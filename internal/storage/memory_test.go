package storage

import (
	"context"
	"testing"
	"time"

	"github.com/pairspend/pairspend/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_TransactionStagesWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	alias := testAlias("c1", "STARBUCKS", "Coffee Run")

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateAlias(ctx, alias))
	require.NoError(t, tx.Rollback())

	// Rolled-back writes are invisible.
	_, err = store.GetAliasByID(ctx, "c1", alias.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.CreateAlias(ctx, alias))
	require.NoError(t, tx.TouchAlias(ctx, "c1", alias.ID, time.Now()))
	require.NoError(t, tx.Commit())

	got, err := store.GetAliasByID(ctx, "c1", alias.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsageCount)
}

func TestMemoryStore_ConflictAxes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateAlias(ctx, testAlias("c1", "STARBUCKS", "Coffee Run")))

	var conflictErr *common.ConflictError

	err := store.CreateAlias(ctx, testAlias("c1", "STARBUCKS", "Morning Fuel"))
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, common.ConflictAxisOCRMerchant, conflictErr.Axis)

	err = store.CreateAlias(ctx, testAlias("c1", "PEETS", "Coffee Run"))
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, common.ConflictAxisUserAlias, conflictErr.Axis)

	// Other couples are unaffected.
	require.NoError(t, store.CreateAlias(ctx, testAlias("c2", "STARBUCKS", "Coffee Run")))
}

func TestMemoryStore_FailWith(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.FailWith(assert.AnError)

	_, err := store.GetAliasByMerchant(ctx, "c1", "starbucks")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)

	_, err = store.BeginTx(ctx)
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)

	store.FailWith(nil)
	_, err = store.GetAliasByMerchant(ctx, "c1", "starbucks")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
