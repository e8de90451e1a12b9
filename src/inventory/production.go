package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"milk-admin/src/models"
	"milk-admin/src/utils"
)

// -----------------------------------------------------------------------------

// CalculateCowAverageProduction averages the daily totals of one cow over its
// most recent days*MilkingsPerDay records. Days without records are not
// counted, so the result is the mean of the days that have data.
func CalculateCowAverageProduction(cowID int64, entries []models.MMilkInEntry, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}

	var cowEntries []models.MMilkInEntry
	for _, e := range entries {
		if e.CowID == cowID {
			cowEntries = append(cowEntries, e)
		}
	}
	if len(cowEntries) == 0 {
		return decimal.Zero
	}

	sort.SliceStable(cowEntries, func(i, j int) bool {
		return cowEntries[j].Date.Before(cowEntries[i].Date)
	})
	if limit := utils.RecordsForDays(days); len(cowEntries) > limit {
		cowEntries = cowEntries[:limit]
	}

	daily := make(map[string]decimal.Decimal)
	for _, e := range cowEntries {
		key := e.Date.String()
		daily[key] = daily[key].Add(e.Liters)
	}

	total := decimal.Zero
	for _, v := range daily {
		total = total.Add(v)
	}
	return total.Div(decimal.NewFromInt(int64(len(daily))))
}

// -----------------------------------------------------------------------------

// CalculateMemberDailyProduction sums the liters recorded on targetDate for
// the member's cows. Only cows present in activeCows and still active count.
func CalculateMemberDailyProduction(ownerID int64, entries []models.MMilkInEntry, activeCows []models.MCow, targetDate models.Date) decimal.Decimal {
	active := make(map[int64]struct{}, len(activeCows))
	for _, c := range activeCows {
		if c.ID != nil && c.IsActive {
			active[*c.ID] = struct{}{}
		}
	}

	total := decimal.Zero
	for _, e := range entries {
		if e.OwnerID != ownerID || !e.Date.Equal(targetDate) {
			continue
		}
		if _, ok := active[e.CowID]; !ok {
			continue
		}
		total = total.Add(e.Liters)
	}
	return total
}
