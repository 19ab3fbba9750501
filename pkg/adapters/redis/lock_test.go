package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/lectern/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_MutualExclusion(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	// 1. Acquire
	unlock, err := locker.Lock(ctx, "session-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:session-1"))

	// 2. Second acquirer times out while held
	short, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(short, "session-1", time.Minute)
	require.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// 3. Other keys are independent
	unlockOther, err := locker.Lock(ctx, "session-2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlockOther(ctx))

	// 4. Release and re-acquire
	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:session-1"))

	unlock, err = locker.Lock(ctx, "session-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	stale, err := locker.Lock(ctx, "k", time.Second)
	require.NoError(t, err)

	// lock expires and someone else takes it
	mr.FastForward(2 * time.Second)
	fresh, err := locker.Lock(ctx, "k", time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("test:lock:k"), "stale owner must not release the new lock")
	require.NoError(t, fresh(ctx))
}
