package utils

import "math"

// -----------------------------------------------------------------------------

// Constants shared by the reconciliation and analysis code.
const (
	// MilkingsPerDay is used to turn a day count into a record count (morning + evening).
	MilkingsPerDay = 2

	// DaysPerWeek and DaysPerMonth define the rolling windows for weekly/monthly stats.
	DaysPerWeek  = 7
	DaysPerMonth = 30

	// MaxProductionDays bounds the ?days window accepted by production queries.
	MaxProductionDays = 365
)

// -----------------------------------------------------------------------------

// RecordsForDays returns how many milk-in records cover the given number of days.
func RecordsForDays(days int) int {
	if days <= 0 {
		return 0
	}
	if days > math.MaxInt/MilkingsPerDay {
		return math.MaxInt
	}
	return days * MilkingsPerDay
}
