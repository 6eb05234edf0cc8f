// Package cache memoizes one computed snapshot of the counter data. A single
// process-wide store avoids recomputing the aggregation and re-calling the
// news provider on every request, while the day-rollover rule guarantees the
// "yesterday" cutoff advances after local midnight regardless of traffic.
package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nem-uma-a-menos/counter-api/internal/services/news"
	"github.com/nem-uma-a-menos/counter-api/internal/stats"
)

// State of the memoized snapshot.
type State int

const (
	StateEmpty State = iota
	StateFresh
	StateStale
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	}
	return "unknown"
}

// Data quality of a snapshot: "mixed" when real articles back the recent-case
// list, "statistical" when the numbers stand alone. "real" is reserved for a
// provider that returns confirmed records only.
const (
	QualityReal        = "real"
	QualityStatistical = "statistical"
	QualityMixed       = "mixed"
)

// FallbackDailyAverage is the conservative cases-per-day estimate used when a
// snapshot cannot be computed normally.
const FallbackDailyAverage = 1748

// DefaultWindow is the freshness window when none is configured.
const DefaultWindow = 30 * time.Minute

// SiteLaunch is the instant the public counter went live; the headline count
// accumulates from here.
var SiteLaunch = time.Date(2024, time.December, 9, 0, 0, 0, 0, stats.Zone)

// Snapshot is one complete, immutable response payload.
type Snapshot struct {
	Count             int           `json:"count"`
	CountSince2018    int           `json:"countSince2018"`
	DailyAverage      float64       `json:"dailyAverage"`
	LastUpdated       string        `json:"lastUpdated"`
	HistoricalContext stats.Context `json:"historicalContext"`
	RecentCases       []news.Case   `json:"recentCases"`
	DataQuality       string        `json:"dataQuality"`
}

// CaseProvider supplies recent incident records. A failure degrades the
// snapshot to statistics-only; it never propagates.
type CaseProvider interface {
	RecentCases(ctx context.Context) ([]news.Case, error)
}

// Store holds the memoized snapshot. The whole snapshot is replaced as one
// value under the lock, never mutated field by field, and concurrent misses
// are coalesced into a single recomputation.
type Store struct {
	engine   *stats.Engine
	provider CaseProvider
	window   time.Duration
	now      func() time.Time

	mu         sync.RWMutex
	snapshot   *Snapshot
	computedAt time.Time

	group singleflight.Group
}

// NewStore builds a store over the engine and an optional case provider. Zero
// window means DefaultWindow; nil clock means the system clock.
func NewStore(engine *stats.Engine, provider CaseProvider, window time.Duration, now func() time.Time) *Store {
	if window <= 0 {
		window = DefaultWindow
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		engine:   engine,
		provider: provider,
		window:   window,
		now:      now,
	}
}

// Window returns the freshness window.
func (s *Store) Window() time.Duration {
	return s.window
}

// State reports the snapshot lifecycle state. A snapshot is stale once its
// age reaches the window, or as soon as the calendar day (in the fixed zone)
// has rolled over since it was computed.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	if s.snapshot == nil {
		return StateEmpty
	}
	now := s.now()
	if now.Sub(s.computedAt) >= s.window {
		return StateStale
	}
	cy, cm, cd := s.computedAt.In(stats.Zone).Date()
	ny, nm, nd := now.In(stats.Zone).Date()
	if cy != ny || cm != nm || cd != nd {
		return StateStale
	}
	return StateFresh
}

// Get returns the current snapshot, recomputing it first if the store is
// empty or stale. Concurrent callers share one recomputation.
func (s *Store) Get(ctx context.Context) *Snapshot {
	s.mu.RLock()
	if s.stateLocked() == StateFresh {
		snap := s.snapshot
		s.mu.RUnlock()
		return snap
	}
	s.mu.RUnlock()

	v, _, _ := s.group.Do("snapshot", func() (interface{}, error) {
		// A flight that finished while we queued may have refreshed it.
		s.mu.RLock()
		if s.stateLocked() == StateFresh {
			snap := s.snapshot
			s.mu.RUnlock()
			return snap, nil
		}
		s.mu.RUnlock()

		snap := s.compute(ctx)
		s.mu.Lock()
		s.snapshot = snap
		s.computedAt = s.now()
		s.mu.Unlock()
		return snap, nil
	})
	return v.(*Snapshot)
}

// Invalidate discards the snapshot, forcing the next Get to recompute.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.computedAt = time.Time{}
	s.mu.Unlock()
}

// Refresh invalidates and synchronously recomputes.
func (s *Store) Refresh(ctx context.Context) *Snapshot {
	s.Invalidate()
	return s.Get(ctx)
}

func (s *Store) compute(ctx context.Context) *Snapshot {
	hc := s.engine.HistoricalContext()
	now := s.now().In(stats.Zone)

	snap := &Snapshot{
		Count:             countSinceLaunch(now, hc.AveragePerDay),
		CountSince2018:    hc.TotalSince2018,
		DailyAverage:      hc.AveragePerDay,
		LastUpdated:       now.Format(time.RFC3339),
		HistoricalContext: hc,
		RecentCases:       []news.Case{},
		DataQuality:       QualityStatistical,
	}

	if s.provider != nil {
		cases, err := s.provider.RecentCases(ctx)
		if err != nil {
			log.Printf("case provider unavailable, serving statistics only: %v", err)
		} else if len(cases) > 0 {
			if len(cases) > news.MaxCases {
				cases = cases[:news.MaxCases]
			}
			snap.RecentCases = cases
			snap.DataQuality = QualityMixed
		}
	}

	return snap
}

// Fallback builds a degraded snapshot from the conservative fixed average,
// for the error path. It never touches the provider.
func (s *Store) Fallback() *Snapshot {
	hc := s.engine.HistoricalContext()
	now := s.now().In(stats.Zone)
	return &Snapshot{
		Count:             countSinceLaunch(now, FallbackDailyAverage),
		CountSince2018:    hc.TotalSince2018,
		DailyAverage:      FallbackDailyAverage,
		LastUpdated:       now.Format(time.RFC3339),
		HistoricalContext: hc,
		RecentCases:       []news.Case{},
		DataQuality:       QualityStatistical,
	}
}

func countSinceLaunch(now time.Time, averagePerDay float64) int {
	days := now.Sub(SiteLaunch).Hours() / 24
	if days < 0 {
		return 0
	}
	return int(days * averagePerDay)
}
