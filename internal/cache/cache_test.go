package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nem-uma-a-menos/counter-api/internal/cache"
	"github.com/nem-uma-a-menos/counter-api/internal/dataset"
	"github.com/nem-uma-a-menos/counter-api/internal/services/news"
	"github.com/nem-uma-a-menos/counter-api/internal/stats"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

type stubProvider struct {
	cases []news.Case
	err   error
	delay time.Duration
	calls int32
}

func (p *stubProvider) RecentCases(ctx context.Context) ([]news.Case, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.cases, nil
}

func (p *stubProvider) callCount() int {
	return int(atomic.LoadInt32(&p.calls))
}

func someCases(n int) []news.Case {
	cases := make([]news.Case, n)
	for i := range cases {
		cases[i] = news.Case{
			Date:     fmt.Sprintf("2025-08-%02dT10:00:00Z", n-i),
			Location: "São Paulo, SP",
			Source:   "test",
			URL:      fmt.Sprintf("https://example.com/%d", i),
		}
	}
	return cases
}

func newTestStore(provider cache.CaseProvider, window time.Duration) (*cache.Store, *fakeClock) {
	clock := newFakeClock(time.Date(2025, time.August, 20, 10, 0, 0, 0, stats.Zone))
	engine := stats.NewEngine(dataset.Yearly, dataset.Monthly, clock.Now)
	return cache.NewStore(engine, provider, window, clock.Now), clock
}

func TestStoreLifecycle(t *testing.T) {
	t.Run("starts empty and becomes fresh after a get", func(t *testing.T) {
		provider := &stubProvider{cases: someCases(3)}
		store, _ := newTestStore(provider, 30*time.Minute)

		assert.Equal(t, cache.StateEmpty, store.State())

		snap := store.Get(context.Background())
		require.NotNil(t, snap)
		assert.Equal(t, cache.StateFresh, store.State())
		assert.Equal(t, 1, provider.callCount())
	})

	t.Run("serves the memoized snapshot within the window", func(t *testing.T) {
		provider := &stubProvider{cases: someCases(3)}
		store, clock := newTestStore(provider, 30*time.Minute)

		first := store.Get(context.Background())
		clock.Advance(29 * time.Minute)
		second := store.Get(context.Background())

		assert.Same(t, first, second)
		assert.Equal(t, 1, provider.callCount())
	})

	t.Run("recomputes once the window elapses", func(t *testing.T) {
		provider := &stubProvider{cases: someCases(3)}
		store, clock := newTestStore(provider, 30*time.Minute)

		store.Get(context.Background())
		clock.Advance(31 * time.Minute)

		assert.Equal(t, cache.StateStale, store.State())
		store.Get(context.Background())
		assert.Equal(t, 2, provider.callCount())
	})

	t.Run("day rollover forces staleness before the window elapses", func(t *testing.T) {
		provider := &stubProvider{cases: someCases(3)}
		clock := newFakeClock(time.Date(2025, time.August, 20, 23, 50, 0, 0, stats.Zone))
		engine := stats.NewEngine(dataset.Yearly, dataset.Monthly, clock.Now)
		store := cache.NewStore(engine, provider, 24*time.Hour, clock.Now)

		first := store.Get(context.Background())
		clock.Advance(20 * time.Minute) // crosses local midnight

		assert.Equal(t, cache.StateStale, store.State())

		second := store.Get(context.Background())
		assert.Equal(t, 2, provider.callCount())
		assert.Greater(t, second.HistoricalContext.DaysSince2018, first.HistoricalContext.DaysSince2018,
			"the cutoff must advance with the new day")
	})

	t.Run("invalidate resets to empty", func(t *testing.T) {
		store, _ := newTestStore(&stubProvider{}, 30*time.Minute)

		store.Get(context.Background())
		store.Invalidate()
		assert.Equal(t, cache.StateEmpty, store.State())
	})

	t.Run("refresh recomputes synchronously", func(t *testing.T) {
		provider := &stubProvider{cases: someCases(3)}
		store, _ := newTestStore(provider, 30*time.Minute)

		store.Get(context.Background())
		snap := store.Refresh(context.Background())

		require.NotNil(t, snap)
		assert.Equal(t, 2, provider.callCount())
		assert.Equal(t, cache.StateFresh, store.State())
	})
}

func TestSnapshotContents(t *testing.T) {
	t.Run("cross-field consistency", func(t *testing.T) {
		store, _ := newTestStore(&stubProvider{cases: someCases(3)}, 30*time.Minute)
		snap := store.Get(context.Background())

		assert.Equal(t, snap.HistoricalContext.TotalSince2018, snap.CountSince2018)
		assert.Equal(t, snap.HistoricalContext.AveragePerDay, snap.DailyAverage)
		assert.Greater(t, snap.Count, 0)
	})

	t.Run("enrichment marks quality mixed", func(t *testing.T) {
		store, _ := newTestStore(&stubProvider{cases: someCases(3)}, 30*time.Minute)
		snap := store.Get(context.Background())

		assert.Equal(t, cache.QualityMixed, snap.DataQuality)
		assert.Len(t, snap.RecentCases, 3)
	})

	t.Run("enrichment is bounded to twelve cases", func(t *testing.T) {
		store, _ := newTestStore(&stubProvider{cases: someCases(20)}, 30*time.Minute)
		snap := store.Get(context.Background())

		assert.Len(t, snap.RecentCases, news.MaxCases)
	})

	t.Run("provider failure degrades to statistics only", func(t *testing.T) {
		provider := &stubProvider{err: errors.New("upstream down")}
		store, _ := newTestStore(provider, 30*time.Minute)

		snap := store.Get(context.Background())

		require.NotNil(t, snap, "a provider failure must never fail the snapshot")
		assert.Equal(t, cache.QualityStatistical, snap.DataQuality)
		assert.NotNil(t, snap.RecentCases)
		assert.Len(t, snap.RecentCases, 0)
		assert.Greater(t, snap.CountSince2018, 0)
	})

	t.Run("no provider means statistics only", func(t *testing.T) {
		clock := newFakeClock(time.Date(2025, time.August, 20, 10, 0, 0, 0, stats.Zone))
		engine := stats.NewEngine(dataset.Yearly, dataset.Monthly, clock.Now)
		store := cache.NewStore(engine, nil, 30*time.Minute, clock.Now)

		snap := store.Get(context.Background())
		assert.Equal(t, cache.QualityStatistical, snap.DataQuality)
	})
}

func TestFallback(t *testing.T) {
	store, _ := newTestStore(&stubProvider{}, 30*time.Minute)
	snap := store.Fallback()

	assert.Equal(t, float64(cache.FallbackDailyAverage), snap.DailyAverage)
	assert.Equal(t, cache.QualityStatistical, snap.DataQuality)
	assert.Empty(t, snap.RecentCases)
	assert.Greater(t, snap.CountSince2018, 0)
}

func TestConcurrentGetsShareOneComputation(t *testing.T) {
	provider := &stubProvider{cases: someCases(3), delay: 50 * time.Millisecond}
	store, _ := newTestStore(provider, 30*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := store.Get(context.Background())
			assert.NotNil(t, snap)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, provider.callCount(), "concurrent misses must coalesce into one recomputation")
}
