// Package stats computes cumulative feminicide statistics from the historical
// tables. All calendar arithmetic uses a fixed UTC-03:00 offset (Brasília
// time; Brazil abolished DST in 2019) so day boundaries are stable.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nem-uma-a-menos/counter-api/internal/dataset"
)

// Zone is the fixed offset every date calculation is anchored to.
var Zone = time.FixedZone("-03", -3*60*60)

// EpochStart is the first instant covered by the dataset.
var EpochStart = time.Date(2018, time.January, 1, 0, 0, 0, 0, Zone)

// Context is the aggregation result served to clients.
type Context struct {
	TotalSince2018 int     `json:"totalSince2018"`
	AveragePerDay  float64 `json:"averagePerDay"`
	DaysSince2018  int     `json:"daysSince2018"`
	CutoffDate     string  `json:"cutoffDate"`
}

// Engine aggregates the yearly and monthly tables up to a cutoff date. The
// clock is injected so tests can pin the current moment.
type Engine struct {
	yearly  []dataset.YearlyRecord
	monthly []dataset.MonthlyRecord
	now     func() time.Time

	monthlyYears map[int]bool
}

// NewEngine builds an engine over the given tables. A nil clock means the
// system clock.
func NewEngine(yearly []dataset.YearlyRecord, monthly []dataset.MonthlyRecord, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	years := make(map[int]bool, 2)
	for _, m := range monthly {
		years[m.Year] = true
	}
	return &Engine{
		yearly:       yearly,
		monthly:      monthly,
		now:          now,
		monthlyYears: years,
	}
}

// CutoffDate returns yesterday at 23:59:59 in the fixed zone: the last day
// assumed to have complete data. time.Date normalizes day zero, so month and
// year rollovers (including leap Februaries) fall out of the arithmetic.
func (e *Engine) CutoffDate() time.Time {
	n := e.now().In(Zone)
	return time.Date(n.Year(), n.Month(), n.Day()-1, 23, 59, 59, 0, Zone)
}

// TotalSince sums all recorded cases from EpochStart up to the cutoff.
//
// Yearly records are skipped for any year that also has monthly records:
// monthly data supersedes the yearly figure, it never adds to it. A year
// covered only by a yearly record and containing the cutoff contributes
// proportionally to the days elapsed, as does the cutoff month itself in a
// monthly-granularity year.
func (e *Engine) TotalSince(cutoff time.Time) int {
	cutoff = cutoff.In(Zone)
	if cutoff.Before(EpochStart) {
		return 0
	}

	total := 0
	for _, y := range e.yearly {
		if e.monthlyYears[y.Year] {
			continue
		}
		switch {
		case y.Year < cutoff.Year():
			total += y.TotalCases
		case y.Year == cutoff.Year():
			total += y.TotalCases * cutoff.YearDay() / daysInYear(y.Year)
		}
	}

	for _, m := range e.monthly {
		if m.Year < cutoff.Year() {
			total += m.Cases
			continue
		}
		if m.Year > cutoff.Year() {
			continue
		}
		switch {
		case m.Month < int(cutoff.Month()):
			total += m.Cases
		case m.Month == int(cutoff.Month()):
			total += m.Cases * cutoff.Day() / daysInMonth(m.Year, time.Month(m.Month))
		}
	}

	return total
}

// DaysSince returns the whole days elapsed between EpochStart and the cutoff.
func (e *Engine) DaysSince(cutoff time.Time) int {
	d := cutoff.Sub(EpochStart)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// HistoricalContext composes the cutoff, total and daily average into the
// aggregation result. Within one calendar day (and the cache window) repeated
// calls yield identical totals and averages.
func (e *Engine) HistoricalContext() Context {
	cutoff := e.CutoffDate()
	total := e.TotalSince(cutoff)
	days := e.DaysSince(cutoff)

	avg := 0.0
	if days > 0 {
		avg = decimal.NewFromInt(int64(total)).
			Div(decimal.NewFromInt(int64(days))).
			Round(1).
			InexactFloat64()
	}

	return Context{
		TotalSince2018: total,
		AveragePerDay:  avg,
		DaysSince2018:  days,
		CutoffDate:     cutoff.Format(time.RFC3339),
	}
}

// daysInMonth uses day zero of the following month, which stays correct
// across year boundaries and leap years.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, Zone).Day()
}

func daysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, Zone).YearDay()
}
