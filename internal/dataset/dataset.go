// Package dataset holds the compiled-in historical feminicide figures for
// Brazil. Yearly totals come from the Atlas da Violência (IPEA/FBSP) and the
// Anuário Brasileiro de Segurança Pública; monthly figures are projections
// based on state-level public security reports.
package dataset

import "fmt"

// YearlyRecord is a consolidated total for one calendar year.
type YearlyRecord struct {
	Year         int
	TotalCases   int
	DailyAverage float64
	Source       string
	Notes        string
}

// MonthlyRecord is the figure for one month of a year covered at monthly
// granularity. The final year may be partial.
type MonthlyRecord struct {
	Year         int
	Month        int
	Cases        int
	DailyAverage float64
	Source       string
}

// Yearly covers 2018-2023 with official consolidated totals.
var Yearly = []YearlyRecord{
	{Year: 2018, TotalCases: 4519, DailyAverage: 12.4, Source: "Atlas da Violência 2020 - IPEA/FBSP"},
	{Year: 2019, TotalCases: 3737, DailyAverage: 10.2, Source: "Atlas da Violência 2021 - IPEA/FBSP", Notes: "Redução significativa em relação ao ano anterior"},
	{Year: 2020, TotalCases: 3913, DailyAverage: 10.7, Source: "Atlas da Violência 2022 - IPEA/FBSP", Notes: "Aumento durante a pandemia COVID-19"},
	{Year: 2021, TotalCases: 3293, DailyAverage: 9.0, Source: "Atlas da Violência 2023 - IPEA/FBSP"},
	{Year: 2022, TotalCases: 3681, DailyAverage: 10.1, Source: "17º Anuário Brasileiro de Segurança Pública - FBSP"},
	{Year: 2023, TotalCases: 3903, DailyAverage: 10.7, Source: "Atlas da Violência 2024 - IPEA/FBSP", Notes: "Maior número desde 2018"},
}

// Monthly covers 2024 in full and 2025 up to November.
var Monthly = []MonthlyRecord{
	{Year: 2024, Month: 1, Cases: 337, DailyAverage: 10.9, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 2, Cases: 301, DailyAverage: 10.4, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 3, Cases: 325, DailyAverage: 10.5, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 4, Cases: 318, DailyAverage: 10.6, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 5, Cases: 342, DailyAverage: 11.0, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 6, Cases: 329, DailyAverage: 11.0, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 7, Cases: 355, DailyAverage: 11.5, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 8, Cases: 348, DailyAverage: 11.2, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 9, Cases: 333, DailyAverage: 11.1, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 10, Cases: 361, DailyAverage: 11.6, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 11, Cases: 345, DailyAverage: 11.5, Source: "Projeção baseada em SSPs estaduais"},
	{Year: 2024, Month: 12, Cases: 289, DailyAverage: 11.3, Source: "Projeção baseada em SSPs estaduais (parcial)"},
	{Year: 2025, Month: 1, Cases: 352, DailyAverage: 11.4, Source: "Projeção baseada em tendências históricas"},
	{Year: 2025, Month: 2, Cases: 315, DailyAverage: 11.2, Source: "Projeção baseada em tendências históricas"},
	{Year: 2025, Month: 3, Cases: 338, DailyAverage: 10.9, Source: "Projeção baseada em tendências históricas"},
	{Year: 2025, Month: 4, Cases: 324, DailyAverage: 10.8, Source: "Projeção baseada em tendências históricas"},
	{Year: 2025, Month: 5, Cases: 349, DailyAverage: 11.3, Source: "Projeção baseada em tendências históricas"},
	{Year: 2025, Month: 6, Cases: 335, DailyAverage: 11.2, Source: "Projeção baseada em tendências históricas"},
	{Year: 2025, Month: 7, Cases: 362, DailyAverage: 11.7, Source: "Projeção baseada em tendências históricas"},
	{Year: 2025, Month: 8, Cases: 351, DailyAverage: 11.3, Source: "Projeção baseada em tendências históricas"},
	{Year: 2025, Month: 9, Cases: 339, DailyAverage: 11.3, Source: "Projeção baseada em tendências históricas"},
	{Year: 2025, Month: 10, Cases: 367, DailyAverage: 11.8, Source: "Projeção baseada em tendências históricas"},
	{Year: 2025, Month: 11, Cases: 356, DailyAverage: 11.9, Source: "Projeção baseada em tendências históricas"},
}

// Validate checks the compiled-in tables. It is called once at startup and any
// failure is fatal: the data cannot change at runtime, so a malformed table is
// a build defect, not a recoverable condition.
func Validate() error {
	return validate(Yearly, Monthly)
}

func validate(yearly []YearlyRecord, monthly []MonthlyRecord) error {
	if len(yearly) == 0 && len(monthly) == 0 {
		return fmt.Errorf("dataset: no records")
	}

	prevYear := 0
	for _, y := range yearly {
		if y.TotalCases <= 0 {
			return fmt.Errorf("dataset: year %d has non-positive total %d", y.Year, y.TotalCases)
		}
		if prevYear != 0 && y.Year <= prevYear {
			return fmt.Errorf("dataset: yearly records out of order at year %d", y.Year)
		}
		prevYear = y.Year
	}

	// Months within a year must be contiguous starting at 1. Only the last
	// year in the table may stop short of December.
	prevYear, prevMonth := 0, 0
	for _, m := range monthly {
		if m.Month < 1 || m.Month > 12 {
			return fmt.Errorf("dataset: invalid month %d/%d", m.Month, m.Year)
		}
		if m.Cases <= 0 {
			return fmt.Errorf("dataset: %d/%d has non-positive count %d", m.Month, m.Year, m.Cases)
		}
		switch {
		case m.Year == prevYear:
			if m.Month != prevMonth+1 {
				return fmt.Errorf("dataset: gap in monthly records at %d/%d", m.Month, m.Year)
			}
		case m.Year > prevYear:
			if m.Month != 1 {
				return fmt.Errorf("dataset: year %d does not start at month 1", m.Year)
			}
		default:
			return fmt.Errorf("dataset: monthly records out of order at %d/%d", m.Month, m.Year)
		}
		prevYear, prevMonth = m.Year, m.Month
	}

	return nil
}
