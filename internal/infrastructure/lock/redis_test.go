package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	l := NewRedisLocker(rdb, ttl)
	l.retry = 5 * time.Millisecond
	return l, mr
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	l, mr := newTestRedisLocker(t, time.Minute)

	unlock, err := l.Lock(context.Background(), "plan:execute:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:plan:execute:1"))
	assert.Equal(t, time.Minute, mr.TTL("lock:plan:execute:1"))

	unlock()
	assert.False(t, mr.Exists("lock:plan:execute:1"))
}

func TestRedisLocker_SecondCallerWaitsForRelease(t *testing.T) {
	l, _ := newTestRedisLocker(t, time.Minute)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "plan:execute:1")
	require.NoError(t, err)

	acquired := make(chan func(), 1)
	go func() {
		u, err := l.Lock(ctx, "plan:execute:1")
		if err != nil {
			t.Errorf("second lock: %v", err)
			close(acquired)
			return
		}
		acquired <- u
	}()

	select {
	case <-acquired:
		t.Fatal("second caller acquired a held lock")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case u, ok := <-acquired:
		require.True(t, ok)
		u()
	case <-time.After(2 * time.Second):
		t.Fatal("second caller never acquired the released lock")
	}
}

func TestRedisLocker_DistinctKeysDoNotBlock(t *testing.T) {
	l, _ := newTestRedisLocker(t, time.Minute)
	ctx := context.Background()

	a, err := l.Lock(ctx, "plan:execute:1")
	require.NoError(t, err)
	defer a()

	c, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	b, err := l.Lock(c, "plan:execute:2")
	require.NoError(t, err)
	b()
}

func TestRedisLocker_ContextCancelledWhileWaiting(t *testing.T) {
	l, _ := newTestRedisLocker(t, time.Minute)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "plan:execute:1")
	require.NoError(t, err)
	defer unlock()

	c, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = l.Lock(c, "plan:execute:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisLocker_ReleaseLeavesForeignToken(t *testing.T) {
	l, mr := newTestRedisLocker(t, time.Minute)

	unlock, err := l.Lock(context.Background(), "plan:execute:1")
	require.NoError(t, err)

	// the key expired and another replica took it over
	require.NoError(t, mr.Set("lock:plan:execute:1", "other-holder"))
	unlock()

	got, err := mr.Get("lock:plan:execute:1")
	require.NoError(t, err)
	assert.Equal(t, "other-holder", got)
}

func TestRedisLocker_ExpiredHolderIsReplaced(t *testing.T) {
	l, mr := newTestRedisLocker(t, time.Second)
	ctx := context.Background()

	stale, err := l.Lock(ctx, "plan:execute:1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	c, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	fresh, err := l.Lock(c, "plan:execute:1")
	require.NoError(t, err)

	// releasing the stale handle must not free the new holder's lock
	stale()
	assert.True(t, mr.Exists("lock:plan:execute:1"))
	fresh()
	assert.False(t, mr.Exists("lock:plan:execute:1"))
}

func TestRedisLocker_ServerDown(t *testing.T) {
	l, mr := newTestRedisLocker(t, time.Minute)
	mr.Close()

	c, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := l.Lock(c, "plan:execute:1")
	assert.Error(t, err)
}

func TestRedisLocker_NoClient(t *testing.T) {
	_, err := NewRedisLocker(nil, 0).Lock(context.Background(), "k")
	assert.Error(t, err)
}
