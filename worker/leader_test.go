package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLockKey = "trips:warmer:leader"

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func newTestElector(client *redis.Client) *LeaderElector {
	return NewLeaderElector(client, testLockKey, 30*time.Second, 10*time.Second, nil, nil)
}

func TestLeaderElector_Acquire(t *testing.T) {
	mr, client := setupTestRedis(t)
	le := newTestElector(client)
	ctx := context.Background()

	require.True(t, le.tryAcquireLock(ctx))
	val, err := mr.Get(testLockKey)
	require.NoError(t, err)
	assert.Equal(t, le.InstanceID(), val)
	assert.Equal(t, 30*time.Second, mr.TTL(testLockKey))

	other := newTestElector(client)
	assert.False(t, other.tryAcquireLock(ctx))
}

func TestLeaderElector_Renew(t *testing.T) {
	mr, client := setupTestRedis(t)
	le := newTestElector(client)
	ctx := context.Background()

	require.NoError(t, mr.Set(testLockKey, le.InstanceID()))
	assert.True(t, le.renewLock(ctx))
	assert.Greater(t, mr.TTL(testLockKey), time.Duration(0))

	require.NoError(t, mr.Set(testLockKey, "someone-else"))
	assert.False(t, le.renewLock(ctx))
}

func TestLeaderElector_ReleaseOnlyOwnLock(t *testing.T) {
	mr, client := setupTestRedis(t)
	le := newTestElector(client)
	ctx := context.Background()

	require.NoError(t, mr.Set(testLockKey, "someone-else"))
	le.releaseLock(ctx)
	val, err := mr.Get(testLockKey)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", val)

	require.NoError(t, mr.Set(testLockKey, le.InstanceID()))
	le.releaseLock(ctx)
	assert.False(t, mr.Exists(testLockKey))
}

func TestLeaderElector_Callbacks(t *testing.T) {
	mr, client := setupTestRedis(t)

	var became, lost atomic.Int32
	le := NewLeaderElector(client, testLockKey, 100*time.Millisecond, 30*time.Millisecond,
		func() { became.Add(1) },
		func() { lost.Add(1) },
	)
	le.Start()
	defer le.Stop()

	assert.Eventually(t, le.IsLeader, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), became.Load())

	require.NoError(t, mr.Set(testLockKey, "another-instance-took-over"))
	assert.Eventually(t, func() bool { return !le.IsLeader() }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), lost.Load())
}

func TestLeaderElector_StopReleases(t *testing.T) {
	mr, client := setupTestRedis(t)
	le := newTestElector(client)

	le.Start()
	require.Eventually(t, le.IsLeader, time.Second, 10*time.Millisecond)
	le.Stop()
	le.Stop()

	assert.False(t, le.IsLeader())
	assert.False(t, mr.Exists(testLockKey))
}

func TestLeaderElector_SingleLeader(t *testing.T) {
	_, client := setupTestRedis(t)

	var became1, became2 atomic.Bool
	le1 := NewLeaderElector(client, testLockKey, time.Second, 20*time.Millisecond, func() { became1.Store(true) }, nil)
	le2 := NewLeaderElector(client, testLockKey, time.Second, 20*time.Millisecond, func() { became2.Store(true) }, nil)

	le1.Start()
	require.Eventually(t, le1.IsLeader, time.Second, 10*time.Millisecond)
	le2.Start()
	time.Sleep(100 * time.Millisecond)

	assert.True(t, le1.IsLeader())
	assert.False(t, le2.IsLeader())
	assert.True(t, became1.Load())
	assert.False(t, became2.Load())

	le1.Stop()
	le2.Stop()
}
