package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nem-uma-a-menos/counter-api/internal/dataset"
)

// Outlook classifies a year-end projection.
type Outlook string

const (
	OutlookPessimistic Outlook = "pessimistic"
	OutlookOptimistic  Outlook = "optimistic"
	OutlookStable      Outlook = "stable"
)

// Trend direction over the yearly series.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// PeriodStatistics breaks the cumulative total down by data granularity.
type PeriodStatistics struct {
	TotalYearly    int                  `json:"totalYearly"`
	TotalMonthly   int                  `json:"totalMonthly"`
	GrandTotal     int                  `json:"grandTotal"`
	AveragePerYear int                  `json:"averagePerYear"`
	WorstYear      dataset.YearlyRecord `json:"worstYear"`
	BestYear       dataset.YearlyRecord `json:"bestYear"`
}

// Projection estimates the current year's final total.
type Projection struct {
	ProjectedTotal int     `json:"projectedTotal"`
	Outlook        Outlook `json:"outlook"`
}

// CurrentDailyAverage returns the published daily average for the current
// month, falling back to the latest monthly figure for the year and then to
// the most recent yearly figure.
func (e *Engine) CurrentDailyAverage() float64 {
	n := e.now().In(Zone)
	year, month := n.Year(), int(n.Month())

	var lastOfYear float64
	for _, m := range e.monthly {
		if m.Year != year {
			continue
		}
		if m.Month == month {
			return m.DailyAverage
		}
		lastOfYear = m.DailyAverage
	}
	if lastOfYear > 0 {
		return lastOfYear
	}
	if len(e.yearly) > 0 {
		return e.yearly[len(e.yearly)-1].DailyAverage
	}
	return 0
}

// PeriodStatistics sums the yearly table, the monthly table up to the current
// month, and identifies the best and worst years on record.
func (e *Engine) PeriodStatistics() PeriodStatistics {
	n := e.now().In(Zone)

	var s PeriodStatistics
	for _, y := range e.yearly {
		if e.monthlyYears[y.Year] {
			continue
		}
		s.TotalYearly += y.TotalCases
	}
	for _, m := range e.monthly {
		if m.Year < n.Year() || (m.Year == n.Year() && m.Month <= int(n.Month())) {
			s.TotalMonthly += m.Cases
		}
	}
	s.GrandTotal = s.TotalYearly + s.TotalMonthly

	if len(e.yearly) > 0 {
		s.WorstYear, s.BestYear = e.yearly[0], e.yearly[0]
		for _, y := range e.yearly[1:] {
			if y.TotalCases > s.WorstYear.TotalCases {
				s.WorstYear = y
			}
			if y.TotalCases < s.BestYear.TotalCases {
				s.BestYear = y
			}
		}
	}

	years := decimal.NewFromInt(int64(n.Year() - EpochStart.Year())).
		Add(decimal.NewFromInt(int64(n.Month())).Div(decimal.NewFromInt(12)))
	if years.IsPositive() {
		s.AveragePerYear = int(decimal.NewFromInt(int64(s.GrandTotal)).Div(years).IntPart())
	}
	return s
}

// ProjectYearEnd extrapolates the current year's total from the months
// recorded so far plus the current daily average over the remaining days.
func (e *Engine) ProjectYearEnd() Projection {
	n := e.now().In(Zone)

	recorded := 0
	for _, m := range e.monthly {
		if m.Year == n.Year() && m.Month <= int(n.Month()) {
			recorded += m.Cases
		}
	}

	endOfYear := time.Date(n.Year(), time.December, 31, 0, 0, 0, 0, Zone)
	remaining := int(endOfYear.Sub(n) / (24 * time.Hour))
	if remaining < 0 {
		remaining = 0
	}

	projected := recorded + int(e.CurrentDailyAverage()*float64(remaining))

	outlook := OutlookStable
	if projected > 4000 {
		outlook = OutlookPessimistic
	} else if projected < 3500 {
		outlook = OutlookOptimistic
	}
	return Projection{ProjectedTotal: projected, Outlook: outlook}
}

// CurrentTrend compares the three most recent consolidated years against the
// three earliest, with a 5% stability band.
func (e *Engine) CurrentTrend() Trend {
	if len(e.yearly) < 6 {
		return TrendStable
	}

	recent := e.yearly[len(e.yearly)-3:]
	older := e.yearly[:3]

	var recentSum, olderSum int
	for i := range recent {
		recentSum += recent[i].TotalCases
		olderSum += older[i].TotalCases
	}

	change := float64(recentSum-olderSum) / float64(olderSum)
	if change > 0.05 {
		return TrendIncreasing
	}
	if change < -0.05 {
		return TrendDecreasing
	}
	return TrendStable
}
