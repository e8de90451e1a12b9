package analysis

import (
	"github.com/shopspring/decimal"

	"milk-admin/src/analysis/core"
	"milk-admin/src/logger"
	"milk-admin/src/models"
)

// ProductionDropZScore flags a day whose yield sits this many standard
// deviations below the cow's mean.
const ProductionDropZScore = -2.0

type AnalysisFacade struct {
	Config *models.MConfig
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, log *logger.Logger) *AnalysisFacade {
	if log == nil {
		log = logger.NewLogger(cfg, "Analysis")
	}
	return &AnalysisFacade{
		Config: cfg,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

// Windows splits sales and spoilage fetched for the month into the
// pre-filtered collections the inventory's weekly/monthly recompute expects.
func (a *AnalysisFacade) Windows(today models.Date, out []models.MMilkOutEntry, spoilt []models.MMilkSpoiltEntry) (weeklyOut, monthlyOut []models.MMilkOutEntry, weeklySpoilt []models.MMilkSpoiltEntry) {
	week, month := WeekWindow(today), MonthWindow(today)

	weeklyOut = FilterMilkOut(out, week)
	monthlyOut = FilterMilkOut(out, month)
	weeklySpoilt = FilterSpoilage(spoilt, week)

	a.Logger.Debug("Windows ending %s: %d/%d sales (week/month), %d spoilage",
		today.String(), len(weeklyOut), len(monthlyOut), len(weeklySpoilt))
	return weeklyOut, monthlyOut, weeklySpoilt
}

// -----------------------------------------------------------------------------

// ProductionStats summarises one cow's daily yields over the entries given.
func (a *AnalysisFacade) ProductionStats(cowID int64, entries []models.MMilkInEntry) models.MProductionStats {
	stats := models.MProductionStats{CowID: cowID}

	var cowEntries []models.MMilkInEntry
	for _, e := range entries {
		if e.CowID == cowID {
			cowEntries = append(cowEntries, e)
		}
	}
	daily := DailyTotals(cowEntries)
	if len(daily) == 0 {
		return stats
	}

	liters := make([]decimal.Decimal, len(daily))
	for i, d := range daily {
		liters[i] = d.Liters
		if d.Liters.GreaterThan(stats.BestDayTotal) {
			stats.BestDay = d.Date
			stats.BestDayTotal = d.Liters
		}
	}

	_, std := core.CalculateMeanStd(core.ToFloats(liters))
	stats.Days = len(daily)
	stats.AverageDaily = core.SumDecimals(liters).Div(decimal.NewFromInt(int64(len(daily))))
	stats.StdDevDaily = std
	return stats
}

// -----------------------------------------------------------------------------

// ProductionDrops returns the days whose total is unusually low for the cow.
func (a *AnalysisFacade) ProductionDrops(cowID int64, entries []models.MMilkInEntry) []DailyTotal {
	var cowEntries []models.MMilkInEntry
	for _, e := range entries {
		if e.CowID == cowID {
			cowEntries = append(cowEntries, e)
		}
	}
	daily := DailyTotals(cowEntries)
	if len(daily) < 3 {
		return nil
	}

	values := make([]decimal.Decimal, len(daily))
	for i, d := range daily {
		values[i] = d.Liters
	}
	mean, std := core.CalculateMeanStd(core.ToFloats(values))

	var drops []DailyTotal
	for _, d := range daily {
		if core.CalculateZScore(d.Liters.InexactFloat64(), mean, std) <= ProductionDropZScore {
			drops = append(drops, d)
		}
	}
	if len(drops) > 0 {
		a.Logger.Info("Cow %d: %d low-production day(s)", cowID, len(drops))
	}
	return drops
}
