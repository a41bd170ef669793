package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
)

func TestMutex_Lock_Unlock(t *testing.T) {
	client, mr := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())

	ctx := context.Background()
	lock := factory.NewMutex("archive:rec-1", WithLockTTL(time.Second))

	require.NoError(t, lock.Lock(ctx))
	assert.True(t, mr.Exists("sds:lock:archive:rec-1"))

	ttl, err := lock.TTL(ctx)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, lock.Unlock(ctx))
	assert.False(t, mr.Exists("sds:lock:archive:rec-1"))
}

func TestMutex_Lock_Contention(t *testing.T) {
	client, _ := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())

	ctx := context.Background()
	lock1 := factory.NewMutex("archive:rec-1", WithRetryCount(1), WithRetryDelay(10*time.Millisecond))
	lock2 := factory.NewMutex("archive:rec-1", WithRetryCount(1), WithRetryDelay(10*time.Millisecond))

	require.NoError(t, lock1.Lock(ctx))
	assert.Equal(t, ErrLockNotAcquired, lock2.Lock(ctx))

	ok, err := lock2.TryLock(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock1.Unlock(ctx))
	assert.NoError(t, lock2.Lock(ctx))
}

func TestMutex_UnlockNotHeld(t *testing.T) {
	client, _ := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())

	lock := factory.NewMutex("archive:rec-2")
	assert.Equal(t, ErrLockNotHeld, lock.Unlock(context.Background()))
}

func TestMutex_Extend(t *testing.T) {
	client, mr := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())

	ctx := context.Background()
	lock := factory.NewMutex("archive:rec-3", WithLockTTL(time.Second))
	require.NoError(t, lock.Lock(ctx))

	ok, err := lock.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("sds:lock:archive:rec-3"))

	mr.FastForward(2 * time.Minute)
	ok, err = lock.Extend(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMutex_Watchdog_StopsOnUnlock(t *testing.T) {
	client, _ := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())

	ctx := context.Background()
	lock := factory.NewMutex("archive:rec-4", WithLockTTL(300*time.Millisecond), WithWatchdog(true))
	require.NoError(t, lock.Lock(ctx))
	time.Sleep(150 * time.Millisecond)
	assert.NoError(t, lock.Unlock(ctx))
}

func TestMutex_Lock_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t)
	factory := NewLockFactory(client, logging.NewNopLogger())

	holder := factory.NewMutex("archive:rec-5")
	require.NoError(t, holder.Lock(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	waiter := factory.NewMutex("archive:rec-5", WithRetryDelay(time.Second))
	assert.ErrorIs(t, waiter.Lock(ctx), context.Canceled)
}

//Personal.AI order the ending
