package alias

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pairspend/pairspend/internal/common"
	"github.com/pairspend/pairspend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*Resolver, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewResolver(store), store
}

func TestResolver_CreateAlias_Validation(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		ocrMerchant string
		userAlias   string
		coupleID    string
		wantField   string
	}{
		{name: "blank merchant", ocrMerchant: "  ", userAlias: "Coffee", coupleID: "c1", wantField: "ocrMerchant"},
		{name: "blank alias", ocrMerchant: "STARBUCKS #123", userAlias: "", coupleID: "c1", wantField: "userAlias"},
		{name: "blank couple", ocrMerchant: "STARBUCKS #123", userAlias: "Coffee", coupleID: " ", wantField: "coupleId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.CreateAlias(ctx, tt.ocrMerchant, tt.userAlias, tt.coupleID, "user-1")

			var validationErr *common.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestResolver_CreateAndResolve(t *testing.T) {
	resolver, store := newTestResolver(t)
	ctx := context.Background()

	id, err := resolver.CreateAlias(ctx, "STARBUCKS STORE 0457", "Coffee Run", "c1", "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// Any store-number variant of the same merchant resolves to the alias.
	for _, raw := range []string{"STARBUCKS STORE 0457", "STARBUCKS #0099", "starbucks"} {
		resolved, err := resolver.Resolve(ctx, raw, "c1")
		require.NoError(t, err)
		assert.Equal(t, "Coffee Run", resolved)
	}

	aliases, err := store.ListAliases(ctx, "c1", 0)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	// One from creation plus one per resolution.
	assert.Equal(t, 4, aliases[0].UsageCount)
	assert.Equal(t, "STARBUCKS", aliases[0].OCRMerchant)
	assert.Equal(t, "Coffee Run", aliases[0].UserAlias)
	assert.Equal(t, "user-1", aliases[0].CreatedBy)
}

func TestResolver_Resolve_UnknownMerchantFallsBackToCleaned(t *testing.T) {
	resolver, store := newTestResolver(t)
	ctx := context.Background()

	resolved, err := resolver.Resolve(ctx, "  WALMART #1234 ", "c1")
	require.NoError(t, err)
	assert.Equal(t, "WALMART", resolved)

	// Fallback resolution does not create an alias.
	aliases, err := store.ListAliases(ctx, "c1", 0)
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestResolver_Resolve_Validation(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	var validationErr *common.ValidationError

	_, err := resolver.Resolve(ctx, "   ", "c1")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "ocrMerchant", validationErr.Field)

	_, err = resolver.Resolve(ctx, "WALMART", "")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "coupleId", validationErr.Field)
}

func TestResolver_Resolve_DegradesWhenStoreUnavailable(t *testing.T) {
	resolver, store := newTestResolver(t)
	ctx := context.Background()

	_, err := resolver.CreateAlias(ctx, "STARBUCKS #1", "Coffee", "c1", "user-1")
	require.NoError(t, err)

	store.FailWith(assert.AnError)

	// Resolution degrades to the cleaned raw merchant instead of failing.
	resolved, err := resolver.Resolve(ctx, "STARBUCKS #1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "STARBUCKS", resolved)

	// Writes do not degrade.
	_, err = resolver.CreateAlias(ctx, "CHEVRON #2", "Gas", "c1", "user-1")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestResolver_CreateAlias_ConflictAxes(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	_, err := resolver.CreateAlias(ctx, "STARBUCKS #123", "Coffee", "c1", "user-1")
	require.NoError(t, err)

	var conflictErr *common.ConflictError

	// Same OCR merchant, different display name.
	_, err = resolver.CreateAlias(ctx, "STARBUCKS #999", "Morning Fuel", "c1", "user-2")
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, common.ConflictAxisOCRMerchant, conflictErr.Axis)

	// Different merchant, same display name modulo case.
	_, err = resolver.CreateAlias(ctx, "PEETS #4", "coffee", "c1", "user-2")
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, common.ConflictAxisUserAlias, conflictErr.Axis)

	// A different couple is free to use both.
	_, err = resolver.CreateAlias(ctx, "STARBUCKS #123", "Coffee", "c2", "user-3")
	assert.NoError(t, err)
}

func TestResolver_CreateAlias_ConcurrentDuplicates(t *testing.T) {
	resolver, store := newTestResolver(t)
	ctx := context.Background()

	const workers = 8
	results := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := resolver.CreateAlias(ctx, "STARBUCKS #123", "Coffee", "c1", "user-1")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			var conflictErr *common.ConflictError
			require.ErrorAs(t, err, &conflictErr)
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	aliases, err := store.ListAliases(ctx, "c1", 0)
	require.NoError(t, err)
	assert.Len(t, aliases, 1)
}

func TestResolver_DeleteAlias(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	id, err := resolver.CreateAlias(ctx, "STARBUCKS #123", "Coffee", "c1", "user-1")
	require.NoError(t, err)

	require.NoError(t, resolver.DeleteAlias(ctx, id, "c1"))

	// Future lookups fall back to the raw merchant again.
	resolved, err := resolver.Resolve(ctx, "STARBUCKS #123", "c1")
	require.NoError(t, err)
	assert.Equal(t, "STARBUCKS", resolved)

	assert.True(t, errors.Is(resolver.DeleteAlias(ctx, id, "c1"), common.ErrNotFound))
}

func TestResolver_ListAliases_OrderedByUsage(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	_, err := resolver.CreateAlias(ctx, "STARBUCKS #1", "Coffee", "c1", "user-1")
	require.NoError(t, err)
	_, err = resolver.CreateAlias(ctx, "CHEVRON #2", "Gas", "c1", "user-1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = resolver.Resolve(ctx, "CHEVRON #77", "c1")
		require.NoError(t, err)
	}

	aliases, err := resolver.ListAliases(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, aliases, 2)
	assert.Equal(t, "Gas", aliases[0].UserAlias)
	assert.Equal(t, 4, aliases[0].UsageCount)
	assert.Equal(t, "Coffee", aliases[1].UserAlias)
}

func TestResolver_TouchUpdatesLastUsedAt(t *testing.T) {
	store := storage.NewMemoryStore()
	resolver := NewResolver(store)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	used := created.Add(48 * time.Hour)

	resolver.now = func() time.Time { return created }
	_, err := resolver.CreateAlias(ctx, "STARBUCKS #1", "Coffee", "c1", "user-1")
	require.NoError(t, err)

	resolver.now = func() time.Time { return used }
	_, err = resolver.Resolve(ctx, "STARBUCKS #1", "c1")
	require.NoError(t, err)

	aliases, err := store.ListAliases(ctx, "c1", 0)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	assert.Equal(t, created, aliases[0].CreatedAt)
	assert.Equal(t, used, aliases[0].LastUsedAt)
}
