package health

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a component
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Check represents a single health check
type Check struct {
	Name      string            `json:"name"`
	Status    Status            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

// HealthReport represents the overall health of the application
type HealthReport struct {
	Status    Status           `json:"status"`
	Version   string           `json:"version"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    time.Duration    `json:"uptime"`
}

// Checker defines the interface for health checks
type Checker interface {
	Check(ctx context.Context) Check
}

// Pinger is satisfied by the saved search store.
type Pinger interface {
	Ping(ctx context.Context) error
}

func timed(name, what string, fn func() (map[string]string, error)) Check {
	start := time.Now()
	details, err := fn()
	check := Check{
		Name:      name,
		Timestamp: start,
		Duration:  time.Since(start),
		Details:   map[string]string{"response_time": time.Since(start).String()},
	}
	for k, v := range details {
		check.Details[k] = v
	}
	if err != nil {
		check.Status = StatusDown
		check.Message = fmt.Sprintf("%s connection failed: %v", what, err)
		check.Details["error"] = err.Error()
		return check
	}
	check.Status = StatusUp
	check.Message = what + " connection successful"
	return check
}

// PostgresChecker checks PostgreSQL connectivity
type PostgresChecker struct {
	DB   Pinger
	Name string
}

func (c *PostgresChecker) Check(ctx context.Context) Check {
	return timed(c.Name, "Database", func() (map[string]string, error) {
		return nil, c.DB.Ping(ctx)
	})
}

// RedisChecker checks Redis connectivity
type RedisChecker struct {
	Client *redis.Client
	Name   string
}

func (c *RedisChecker) Check(ctx context.Context) Check {
	return timed(c.Name, "Redis", func() (map[string]string, error) {
		pong, err := c.Client.Ping(ctx).Result()
		if err != nil {
			return nil, err
		}
		return map[string]string{"ping_response": pong}, nil
	})
}

// WarmerState is reported by the cache warmer.
type WarmerState struct {
	Leader  bool
	LastRun time.Time
	LastErr error
}

// WarmerChecker reports the cache warmer. A failed warm run only degrades
// the service; dates are still computed on demand.
type WarmerChecker struct {
	State func() WarmerState
	Name  string
}

func (c *WarmerChecker) Check(ctx context.Context) Check {
	now := time.Now()
	check := Check{
		Name:      c.Name,
		Status:    StatusUp,
		Timestamp: now,
		Details:   make(map[string]string),
	}
	if c.State == nil {
		check.Message = "Cache warmer disabled"
		return check
	}

	st := c.State()
	check.Details["leader"] = fmt.Sprintf("%t", st.Leader)
	if !st.LastRun.IsZero() {
		check.Details["last_run"] = st.LastRun.UTC().Format(time.RFC3339)
	}
	switch {
	case st.LastErr != nil:
		check.Status = StatusDegraded
		check.Message = "Last warm run failed"
		check.Details["error"] = st.LastErr.Error()
	case !st.Leader:
		check.Message = "Standby, another instance holds the warmer lock"
	default:
		check.Message = "Cache warmer is operational"
	}
	check.Duration = time.Since(now)
	return check
}

// HealthChecker orchestrates multiple health checks
type HealthChecker struct {
	checkers  []Checker
	version   string
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		checkers:  make([]Checker, 0),
		version:   version,
		startTime: time.Now(),
	}
}

// AddChecker adds a health checker
func (h *HealthChecker) AddChecker(checker Checker) {
	h.checkers = append(h.checkers, checker)
}

func (h *HealthChecker) run(ctx context.Context, checkers []Checker) HealthReport {
	checks := make(map[string]Check, len(checkers))
	overall := StatusUp
	for _, checker := range checkers {
		check := checker.Check(ctx)
		checks[check.Name] = check
		switch {
		case check.Status == StatusDown:
			overall = StatusDown
		case check.Status == StatusDegraded && overall == StatusUp:
			overall = StatusDegraded
		}
	}
	return HealthReport{
		Status:    overall,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks:    checks,
		Uptime:    time.Since(h.startTime),
	}
}

// CheckHealth performs all health checks
func (h *HealthChecker) CheckHealth(ctx context.Context) HealthReport {
	return h.run(ctx, h.checkers)
}

// CheckReadiness only runs the storage checks
func (h *HealthChecker) CheckReadiness(ctx context.Context) HealthReport {
	var critical []Checker
	for _, checker := range h.checkers {
		switch checker.(type) {
		case *PostgresChecker, *RedisChecker:
			critical = append(critical, checker)
		}
	}
	return h.run(ctx, critical)
}

// CheckLiveness reports that the process is serving
func (h *HealthChecker) CheckLiveness(ctx context.Context) HealthReport {
	return HealthReport{
		Status:    StatusUp,
		Version:   h.version,
		Timestamp: time.Now(),
		Checks: map[string]Check{
			"application": {
				Name:      "application",
				Status:    StatusUp,
				Message:   "Application is running",
				Timestamp: time.Now(),
			},
		},
		Uptime: time.Since(h.startTime),
	}
}
