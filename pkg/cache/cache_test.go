package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/weekend-trip-api/pkg/dates"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewRedisCache(client, "trips")
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "weekend:2026-01-05")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "weekend:2026-01-05", []byte(`{"start":"2026-01-09"}`), time.Minute))
	assert.True(t, mr.Exists("trips:weekend:2026-01-05"))

	got, err := c.Get(ctx, "weekend:2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, `{"start":"2026-01-09"}`, string(got))

	exists, err := c.Exists(ctx, "weekend:2026-01-05")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete(ctx, "weekend:2026-01-05"))
	exists, err = c.Exists(ctx, "weekend:2026-01-05")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCache_TTL(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_ClearOnlyTouchesPrefix(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, mr.Set("other:c", "3"))

	require.NoError(t, c.Clear(ctx))
	assert.False(t, mr.Exists("trips:a"))
	assert.False(t, mr.Exists("trips:b"))
	assert.True(t, mr.Exists("other:c"))
}

func TestRedisCache_ClearManyKeys(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < clearBatch*2+7; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("plan:%d", i), []byte("x"), 0))
	}
	require.NoError(t, mr.Set("other:keep", "1"))

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, []string{"other:keep"}, mr.Keys())
}

func TestCacheManager_Fetch(t *testing.T) {
	_, c := setupTestRedis(t)
	cm := NewCacheManager(c)
	ctx := context.Background()
	reference := dates.MustNew(2026, time.January, 5)
	key := WeekendKey(reference)

	calls := 0
	fill := func(dest *dates.WeekendWindow) func() error {
		return func() error {
			calls++
			*dest = dates.NextWeekendWindow(reference)
			return nil
		}
	}

	var first dates.WeekendWindow
	hit, err := cm.Fetch(ctx, key, time.Hour, &first, fill(&first))
	require.NoError(t, err)
	assert.False(t, hit)

	var second dates.WeekendWindow
	hit, err = cm.Fetch(ctx, key, time.Hour, &second, fill(&second))
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "2026-01-09", second.Start.String())
}

func TestCacheManager_FetchPropagatesFillError(t *testing.T) {
	_, c := setupTestRedis(t)
	cm := NewCacheManager(c)
	boom := errors.New("boom")

	var dest dates.WeekendWindow
	_, err := cm.Fetch(context.Background(), "k", time.Hour, &dest, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	exists, err := cm.Exists(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheManager_FetchSurvivesRedisOutage(t *testing.T) {
	mr, c := setupTestRedis(t)
	cm := NewCacheManager(c)
	mr.Close()

	var dest dates.WeekendWindow
	hit, err := cm.Fetch(context.Background(), "k", time.Hour, &dest, func() error {
		dest = dates.NextWeekendWindow(dates.MustNew(2026, time.January, 5))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "2026-01-11", dest.End.String())
}

func TestKeys(t *testing.T) {
	reference := dates.MustNew(2026, time.January, 5)
	assert.Equal(t, "weekend:2026-01-05", WeekendKey(reference))
	assert.Equal(t, "plan:2026-01-05:next-weekend,weekend", PlanKey(reference, []string{"next-weekend", "weekend"}))
}
