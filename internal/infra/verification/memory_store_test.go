package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain/entity"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore() (*memoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	return newMemoryStore(clock.Now), clock
}

func TestMemoryStore_PromoteAndConsume(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	require.NoError(t, store.PutCode(ctx, "reader@example.com", "042917"))

	ok, err := store.Promote(ctx, "reader@example.com", "042917")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.ConsumeVerified(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	// Consumed records cannot authorize a second signup.
	ok, err = store.ConsumeVerified(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_WrongCode(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	require.NoError(t, store.PutCode(ctx, "reader@example.com", "042917"))

	ok, err := store.Promote(ctx, "reader@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	// The pending record survives a mismatched attempt.
	ok, err = store.Promote(ctx, "reader@example.com", "042917")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_PendingExpiry(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore()

	require.NoError(t, store.PutCode(ctx, "reader@example.com", "042917"))
	clock.Advance(entity.PendingCodeTTL + time.Second)

	ok, err := store.Promote(ctx, "reader@example.com", "042917")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_VerifiedExpiry(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore()

	require.NoError(t, store.PutCode(ctx, "reader@example.com", "042917"))

	ok, err := store.Promote(ctx, "reader@example.com", "042917")
	require.NoError(t, err)
	require.True(t, ok)

	clock.Advance(entity.VerifiedFlagTTL + time.Second)

	ok, err = store.ConsumeVerified(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_ResendOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	require.NoError(t, store.PutCode(ctx, "reader@example.com", "111111"))
	require.NoError(t, store.PutCode(ctx, "reader@example.com", "222222"))

	ok, err := store.Promote(ctx, "reader@example.com", "111111")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Promote(ctx, "reader@example.com", "222222")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_PromoteVerifiedRecordFails(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	require.NoError(t, store.PutCode(ctx, "reader@example.com", "042917"))

	ok, err := store.Promote(ctx, "reader@example.com", "042917")
	require.NoError(t, err)
	require.True(t, ok)

	// A verified record is no longer promotable.
	ok, err = store.Promote(ctx, "reader@example.com", "042917")
	require.NoError(t, err)
	assert.False(t, ok)
}
