package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkProcessedFirstDeliveryWins(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()

	first, err := store.MarkProcessed(ctx, "mp-12345", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.MarkProcessed(ctx, "mp-12345", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	processed, err := store.IsProcessed(ctx, "mp-12345")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestExpiredEntryCanBeReprocessed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()

	_, err := store.MarkProcessed(ctx, "mp-1", -time.Second)
	require.NoError(t, err)

	processed, err := store.IsProcessed(ctx, "mp-1")
	require.NoError(t, err)
	assert.False(t, processed)

	again, err := store.MarkProcessed(ctx, "mp-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestReleasedEntryCanBeClaimedAgain(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()

	first, err := store.MarkProcessed(ctx, "mp-9", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	require.NoError(t, store.Release(ctx, "mp-9"))

	retry, err := store.MarkProcessed(ctx, "mp-9", time.Minute)
	require.NoError(t, err)
	assert.True(t, retry)
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIdempotencyStore()

	_, err := store.MarkProcessed(ctx, "live", time.Minute)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "dead", -time.Second)
	require.NoError(t, err)

	store.Prune()
	assert.Equal(t, 1, store.Size())
}
