package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/pkg/adapters/redis"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingFactory(calls *atomic.Int32) session.Factory {
	return func(ctx context.Context, id string) (*lectern.Workbench, error) {
		calls.Add(1)
		time.Sleep(5 * time.Millisecond) // widen the race window
		return lectern.New(ctx, lectern.WithName(id))
	}
}

func TestManager_LazyCreation(t *testing.T) {
	var calls atomic.Int32
	mgr := session.NewManager(countingFactory(&calls))
	ctx := context.Background()

	// Launch several routines trying to init the same session
	var wg sync.WaitGroup
	benches := make([]*lectern.Workbench, 8)
	for i := range benches {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			wb, err := mgr.Get(ctx, "deck-1")
			assert.NoError(t, err)
			benches[i] = wb
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, wb := range benches {
		assert.Same(t, benches[0], wb)
	}
	assert.Equal(t, []string{"deck-1"}, mgr.List())

	found, err := mgr.Lookup("deck-1")
	require.NoError(t, err)
	assert.Same(t, benches[0], found)

	_, err = mgr.Lookup("unknown")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_SerializesWork(t *testing.T) {
	var calls atomic.Int32
	mgr := session.NewManager(countingFactory(&calls))
	ctx := context.Background()

	var inFlight, maxInFlight atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := mgr.Do(ctx, "shared", func(ctx context.Context, wb *lectern.Workbench) error {
				n := inFlight.Add(1)
				for {
					prev := maxInFlight.Load()
					if n <= prev || maxInFlight.CompareAndSwap(prev, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				inFlight.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestManager_FactoryError(t *testing.T) {
	boom := errors.New("boom")
	mgr := session.NewManager(func(context.Context, string) (*lectern.Workbench, error) {
		return nil, boom
	})

	err := mgr.Do(context.Background(), "s", func(context.Context, *lectern.Workbench) error {
		t.Fatal("fn must not run without a workbench")
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mgr.List())
}

func TestManager_Delete(t *testing.T) {
	var calls atomic.Int32
	mgr := session.NewManager(countingFactory(&calls))
	ctx := context.Background()

	_, err := mgr.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, mgr.Delete(ctx, "a"))
	require.NoError(t, mgr.Delete(ctx, "never-existed"))
	assert.Empty(t, mgr.List())

	// A deleted session starts over with a fresh workbench.
	_, err = mgr.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestManager_DistributedLock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	var calls atomic.Int32
	mgr := session.NewManager(countingFactory(&calls),
		session.WithLocker(redis.NewLocker(client, "lectern:")),
		session.WithLockTTL(time.Second),
	)

	err = mgr.Do(context.Background(), "remote", func(ctx context.Context, wb *lectern.Workbench) error {
		assert.True(t, mr.Exists("lectern:lock:remote"), "lock held while fn runs")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("lectern:lock:remote"), "lock released afterwards")
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string, time.Duration) (ports.UnlockFunc, error) {
	return nil, redis.ErrLockAcquire
}

func TestManager_LockFailure(t *testing.T) {
	var calls atomic.Int32
	mgr := session.NewManager(countingFactory(&calls), session.WithLocker(failingLocker{}))

	_, err := mgr.Get(context.Background(), "x")
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.Equal(t, int32(0), calls.Load())
}
