package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"milk-admin/src/models"
	"milk-admin/src/utils"
)

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From models.Date
	To   models.Date
}

// Contains reports whether d falls inside the range, both ends included.
func (r DateRange) Contains(d models.Date) bool {
	return !d.Before(r.From) && !r.To.Before(d)
}

// Days lists every day of the range in ascending order.
func (r DateRange) Days() []models.Date {
	var out []models.Date
	for d := r.From; !r.To.Before(d); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// -----------------------------------------------------------------------------

// WeekWindow is the rolling 7 days ending on today.
func WeekWindow(today models.Date) DateRange {
	return DateRange{From: today.AddDays(-(utils.DaysPerWeek - 1)), To: today}
}

// MonthWindow is the rolling 30 days ending on today.
func MonthWindow(today models.Date) DateRange {
	return DateRange{From: today.AddDays(-(utils.DaysPerMonth - 1)), To: today}
}

// -----------------------------------------------------------------------------
// Filtering
// -----------------------------------------------------------------------------

func FilterMilkOut(entries []models.MMilkOutEntry, r DateRange) []models.MMilkOutEntry {
	out := make([]models.MMilkOutEntry, 0, len(entries))
	for _, e := range entries {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

func FilterSpoilage(entries []models.MMilkSpoiltEntry, r DateRange) []models.MMilkSpoiltEntry {
	out := make([]models.MMilkSpoiltEntry, 0, len(entries))
	for _, e := range entries {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

func FilterMilkIn(entries []models.MMilkInEntry, r DateRange) []models.MMilkInEntry {
	out := make([]models.MMilkInEntry, 0, len(entries))
	for _, e := range entries {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Daily buckets
// -----------------------------------------------------------------------------

// DailyTotal is the liters of one cow (or the whole herd) on one day.
type DailyTotal struct {
	Date   models.Date
	Liters decimal.Decimal
}

// DailyTotals groups milk-in entries by day, oldest first. Days without
// entries are absent.
func DailyTotals(entries []models.MMilkInEntry) []DailyTotal {
	byDay := make(map[string]*DailyTotal)
	for _, e := range entries {
		key := e.Date.String()
		if dt, ok := byDay[key]; ok {
			dt.Liters = dt.Liters.Add(e.Liters)
			continue
		}
		byDay[key] = &DailyTotal{Date: e.Date, Liters: e.Liters}
	}

	out := make([]DailyTotal, 0, len(byDay))
	for _, dt := range byDay {
		out = append(out, *dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
