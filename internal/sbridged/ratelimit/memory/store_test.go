package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showbridge/showbridge/internal/sbridged/ratelimit"
)

func TestStore_IncrementWithinLimit(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	key := ratelimit.LimitKey{Type: "ws_connect", RemoteIP: "10.0.0.1"}
	limit := ratelimit.Limit{Rate: 3, Period: time.Minute}

	for i := 1; i <= 3; i++ {
		count, err := store.Increment(ctx, key, limit)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	_, err := store.Increment(ctx, key, limit)
	assert.ErrorIs(t, err, ratelimit.ErrLimitExceeded)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	limit := ratelimit.Limit{Rate: 1, Period: time.Minute}

	_, err := store.Increment(ctx, ratelimit.LimitKey{Type: "ws_connect", RemoteIP: "10.0.0.1"}, limit)
	require.NoError(t, err)

	_, err = store.Increment(ctx, ratelimit.LimitKey{Type: "ws_connect", RemoteIP: "10.0.0.2"}, limit)
	assert.NoError(t, err, "a different remote IP has its own window")

	_, err = store.Increment(ctx, ratelimit.LimitKey{Type: "config_update", RemoteIP: "10.0.0.1"}, limit)
	assert.NoError(t, err, "a different limit type has its own window")
}

func TestStore_WindowExpires(t *testing.T) {
	store := NewStore()
	clock := time.Now()
	store.now = func() time.Time { return clock }

	ctx := context.Background()
	key := ratelimit.LimitKey{Type: "ws_connect", RemoteIP: "10.0.0.1"}
	limit := ratelimit.Limit{Rate: 1, Period: time.Minute}

	_, err := store.Increment(ctx, key, limit)
	require.NoError(t, err)
	_, err = store.Increment(ctx, key, limit)
	require.ErrorIs(t, err, ratelimit.ErrLimitExceeded)

	clock = clock.Add(2 * time.Minute)
	count, err := store.Increment(ctx, key, limit)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_Reset(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	key := ratelimit.LimitKey{Type: "ws_connect", RemoteIP: "10.0.0.1"}
	limit := ratelimit.Limit{Rate: 1, Period: time.Minute}

	_, err := store.Increment(ctx, key, limit)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, key))

	count, err := store.Increment(ctx, key, limit)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
