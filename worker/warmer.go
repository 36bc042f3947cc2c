package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gilby125/weekend-trip-api/pkg/health"
	"github.com/gilby125/weekend-trip-api/pkg/logger"
	"github.com/gilby125/weekend-trip-api/pkg/planner"
	"github.com/gilby125/weekend-trip-api/pkg/presets"
	"github.com/robfig/cron/v3"
)

// Cronner is the part of *cron.Cron the warmer needs.
type Cronner interface {
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
	Start()
	Stop() context.Context
}

// Leadership reports whether this instance may run the warmer.
type Leadership interface {
	IsLeader() bool
}

type alwaysLeader struct{}

func (alwaysLeader) IsLeader() bool { return true }

// WarmCombinations are the preset lists precomputed every day: each dated
// preset alone, then all of them as the presets page submits them.
var WarmCombinations = [][]presets.Key{
	{presets.Weekend},
	{presets.NextWeekend},
	{presets.NextWeek},
	{presets.Weekend, presets.NextWeekend, presets.NextWeek},
}

// Warmer precomputes today's weekend window and preset plans into the
// plan cache shortly after midnight in the calendar timezone.
type Warmer struct {
	planner  *planner.Planner
	cron     Cronner
	schedule string
	leader   Leadership
	timeout  time.Duration

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
	runs    int
}

// NewWarmer builds a warmer. A nil leader means this instance always warms.
func NewWarmer(p *planner.Planner, schedule string, leader Leadership) *Warmer {
	return NewWarmerWithCron(p, schedule, leader, cron.New(cron.WithLocation(p.Location())))
}

// NewWarmerWithCron is NewWarmer with an injected scheduler.
func NewWarmerWithCron(p *planner.Planner, schedule string, leader Leadership, c Cronner) *Warmer {
	if leader == nil {
		leader = alwaysLeader{}
	}
	return &Warmer{
		planner:  p,
		cron:     c,
		schedule: schedule,
		leader:   leader,
		timeout:  30 * time.Second,
	}
}

// Start registers the cron entry and starts the scheduler.
func (w *Warmer) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.tick); err != nil {
		return fmt.Errorf("invalid warmer schedule %q: %w", w.schedule, err)
	}
	w.cron.Start()
	logger.Info("Cache warmer scheduled", "schedule", w.schedule, "timezone", w.planner.Location().String())
	return nil
}

// Stop waits for a running warm to finish.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
}

func (w *Warmer) tick() {
	if !w.leader.IsLeader() {
		logger.Debug("Skipping cache warm, not the leader")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	_ = w.WarmOnce(ctx)
}

// WarmOnce fills the cache for today. Every combination is attempted even
// when one fails.
func (w *Warmer) WarmOnce(ctx context.Context) error {
	start := time.Now()
	reference := w.planner.Today()
	log := logger.WithField("reference", reference.String())

	err := w.planner.Prime(ctx, reference, WarmCombinations)

	w.mu.Lock()
	w.lastRun = start
	w.lastErr = err
	w.runs++
	w.mu.Unlock()

	if err != nil {
		log.Error(err, "Cache warm failed")
		return err
	}
	log.Info("Cache warmed", "combinations", len(WarmCombinations), "took_ms", time.Since(start).Milliseconds())
	return nil
}

// Runs returns how many warm runs have completed.
func (w *Warmer) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// State feeds the /health warmer check.
func (w *Warmer) State() health.WarmerState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return health.WarmerState{
		Leader:  w.leader.IsLeader(),
		LastRun: w.lastRun,
		LastErr: w.lastErr,
	}
}
