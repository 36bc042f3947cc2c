package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestPostgresChecker(t *testing.T) {
	up := (&PostgresChecker{DB: fakePinger{}, Name: "postgres"}).Check(context.Background())
	assert.Equal(t, StatusUp, up.Status)

	down := (&PostgresChecker{DB: fakePinger{err: errors.New("refused")}, Name: "postgres"}).Check(context.Background())
	assert.Equal(t, StatusDown, down.Status)
	assert.Equal(t, "refused", down.Details["error"])
}

func TestRedisChecker(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	checker := &RedisChecker{Client: client, Name: "redis"}
	check := checker.Check(context.Background())
	assert.Equal(t, StatusUp, check.Status)
	assert.Equal(t, "PONG", check.Details["ping_response"])

	mr.Close()
	assert.Equal(t, StatusDown, checker.Check(context.Background()).Status)
}

func TestWarmerChecker(t *testing.T) {
	disabled := (&WarmerChecker{Name: "warmer"}).Check(context.Background())
	assert.Equal(t, StatusUp, disabled.Status)

	failing := &WarmerChecker{Name: "warmer", State: func() WarmerState {
		return WarmerState{Leader: true, LastRun: time.Now(), LastErr: errors.New("redis down")}
	}}
	check := failing.Check(context.Background())
	assert.Equal(t, StatusDegraded, check.Status)
	assert.Equal(t, "true", check.Details["leader"])
}

func TestHealthChecker_Aggregates(t *testing.T) {
	h := NewHealthChecker("test")
	h.AddChecker(&PostgresChecker{DB: fakePinger{}, Name: "postgres"})
	h.AddChecker(&WarmerChecker{Name: "warmer", State: func() WarmerState {
		return WarmerState{LastErr: errors.New("boom")}
	}})

	report := h.CheckHealth(context.Background())
	assert.Equal(t, StatusDegraded, report.Status)
	assert.Len(t, report.Checks, 2)

	ready := h.CheckReadiness(context.Background())
	assert.Equal(t, StatusUp, ready.Status)
	assert.Len(t, ready.Checks, 1)

	h.AddChecker(&PostgresChecker{DB: fakePinger{err: errors.New("x")}, Name: "replica"})
	assert.Equal(t, StatusDown, h.CheckHealth(context.Background()).Status)
	assert.Equal(t, StatusDown, h.CheckReadiness(context.Background()).Status)

	assert.Equal(t, StatusUp, h.CheckLiveness(context.Background()).Status)
}
