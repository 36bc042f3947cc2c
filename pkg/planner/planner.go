// Package planner resolves weekend windows and preset plans through the
// Redis plan cache. It is shared by the HTTP API, the cache warmer and the
// MCP server so that all of them read and write the same cache entries.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gilby125/weekend-trip-api/pkg/cache"
	"github.com/gilby125/weekend-trip-api/pkg/dates"
	"github.com/gilby125/weekend-trip-api/pkg/presets"
)

// ErrNoCache is returned by Prime when the planner has no cache.
var ErrNoCache = errors.New("planner has no cache")

// Planner is safe for concurrent use.
type Planner struct {
	cache *cache.CacheManager
	ttl   time.Duration
	loc   *time.Location
	now   func() time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithCache stores results in cm for ttl. Without it every call computes.
func WithCache(cm *cache.CacheManager, ttl time.Duration) Option {
	return func(p *Planner) {
		p.cache = cm
		p.ttl = ttl
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// New returns a Planner taking "today" in loc (UTC when nil).
func New(loc *time.Location, opts ...Option) *Planner {
	if loc == nil {
		loc = time.UTC
	}
	p := &Planner{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Today returns the current calendar date in the planner's timezone.
func (p *Planner) Today() dates.CalendarDate {
	return dates.Today(p.now, p.loc)
}

// Location returns the timezone "today" is taken from.
func (p *Planner) Location() *time.Location {
	return p.loc
}

// Reference parses raw, or returns Today when raw is empty.
func (p *Planner) Reference(raw string) (dates.CalendarDate, error) {
	if raw == "" {
		return p.Today(), nil
	}
	return dates.Parse(raw)
}

// Weekend returns the window for reference. cached reports a cache hit.
func (p *Planner) Weekend(ctx context.Context, reference dates.CalendarDate) (window dates.WeekendWindow, cached bool, err error) {
	fill := func() error {
		window = dates.NextWeekendWindow(reference)
		return nil
	}
	if p.cache == nil {
		return window, false, fill()
	}
	cached, err = p.cache.Fetch(ctx, cache.WeekendKey(reference), p.ttl, &window, fill)
	return window, cached, err
}

// Plan expands keys against reference. cached reports a cache hit.
func (p *Planner) Plan(ctx context.Context, reference dates.CalendarDate, keys []presets.Key) (plan presets.Plan, cached bool, err error) {
	canonical := presets.CanonicalKeys(keys)
	fill := func() error {
		var err error
		plan, err = presets.ExpandStrings(reference, canonical)
		return err
	}
	if p.cache == nil || len(canonical) == 0 {
		return plan, false, fill()
	}
	cached, err = p.cache.Fetch(ctx, cache.PlanKey(reference, canonical), p.ttl, &plan, fill)
	return plan, cached, err
}

// Prime computes the weekend window and the plan of every combination for
// reference and writes them to the cache. Unlike Weekend and Plan, cache
// write failures are returned, joined.
func (p *Planner) Prime(ctx context.Context, reference dates.CalendarDate, combinations [][]presets.Key) error {
	if p.cache == nil {
		return ErrNoCache
	}

	var errs []error
	window := dates.NextWeekendWindow(reference)
	if err := p.cache.SetJSON(ctx, cache.WeekendKey(reference), window, p.ttl); err != nil {
		errs = append(errs, fmt.Errorf("weekend: %w", err))
	}
	for _, keys := range combinations {
		canonical := presets.CanonicalKeys(keys)
		plan, err := presets.ExpandStrings(reference, canonical)
		if err == nil {
			err = p.cache.SetJSON(ctx, cache.PlanKey(reference, canonical), plan, p.ttl)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("plan %v: %w", canonical, err))
		}
	}
	return errors.Join(errs...)
}
