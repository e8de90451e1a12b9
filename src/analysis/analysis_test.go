package analysis

import (
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"milk-admin/src/logger"
	"milk-admin/src/models"
)

func day(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("Invalid date %s: %v", s, err)
	}
	return d
}

func newFacade() *AnalysisFacade {
	return NewAnalysisFacade(&models.MConfig{}, logger.NewLoggerTo(io.Discard, nil, "Analysis"))
}

func TestWindowsBounds(t *testing.T) {
	today := day(t, "2024-03-31")

	week := WeekWindow(today)
	if week.From.String() != "2024-03-25" || week.To.String() != "2024-03-31" {
		t.Errorf("Expected week 2024-03-25..2024-03-31, got %s..%s", week.From, week.To)
	}
	if n := len(week.Days()); n != 7 {
		t.Errorf("Expected 7 days in week, got %d", n)
	}

	month := MonthWindow(today)
	if month.From.String() != "2024-03-02" {
		t.Errorf("Expected month from 2024-03-02, got %s", month.From)
	}
	if n := len(month.Days()); n != 30 {
		t.Errorf("Expected 30 days in month, got %d", n)
	}
}

func TestWindowsSplit(t *testing.T) {
	a := newFacade()
	today := day(t, "2024-03-31")
	sales := []models.MMilkOutEntry{
		{QuantitySold: decimal.NewFromInt(1), Date: day(t, "2024-03-31")},
		{QuantitySold: decimal.NewFromInt(2), Date: day(t, "2024-03-25")},
		{QuantitySold: decimal.NewFromInt(3), Date: day(t, "2024-03-24")},
		{QuantitySold: decimal.NewFromInt(4), Date: day(t, "2024-03-02")},
		{QuantitySold: decimal.NewFromInt(5), Date: day(t, "2024-03-01")},
	}
	spoilt := []models.MMilkSpoiltEntry{
		{AmountSpoilt: decimal.NewFromInt(1), Date: day(t, "2024-03-30")},
		{AmountSpoilt: decimal.NewFromInt(1), Date: day(t, "2024-03-10")},
	}

	weekly, monthly, weeklySpoilt := a.Windows(today, sales, spoilt)

	if len(weekly) != 2 {
		t.Errorf("Expected 2 weekly sales, got %d", len(weekly))
	}
	if len(monthly) != 4 {
		t.Errorf("Expected 4 monthly sales, got %d", len(monthly))
	}
	if len(weeklySpoilt) != 1 {
		t.Errorf("Expected 1 weekly spoilage, got %d", len(weeklySpoilt))
	}
}

func TestProductionStats(t *testing.T) {
	a := newFacade()
	entries := []models.MMilkInEntry{
		{CowID: 1, Liters: decimal.NewFromInt(6), Date: day(t, "2024-03-01")},
		{CowID: 1, Liters: decimal.NewFromInt(4), Date: day(t, "2024-03-01")},
		{CowID: 1, Liters: decimal.NewFromInt(14), Date: day(t, "2024-03-02")},
		{CowID: 2, Liters: decimal.NewFromInt(50), Date: day(t, "2024-03-02")},
	}

	stats := a.ProductionStats(1, entries)

	if stats.Days != 2 {
		t.Errorf("Expected 2 days, got %d", stats.Days)
	}
	if !stats.AverageDaily.Equal(decimal.NewFromInt(12)) {
		t.Errorf("Expected average 12, got %s", stats.AverageDaily)
	}
	if stats.StdDevDaily != 2 {
		t.Errorf("Expected std 2, got %v", stats.StdDevDaily)
	}
	if stats.BestDay.String() != "2024-03-02" || !stats.BestDayTotal.Equal(decimal.NewFromInt(14)) {
		t.Errorf("Expected best day 2024-03-02 with 14, got %s with %s", stats.BestDay, stats.BestDayTotal)
	}

	if empty := a.ProductionStats(9, entries); empty.Days != 0 || !empty.AverageDaily.IsZero() {
		t.Errorf("Expected zero stats for unknown cow, got %+v", empty)
	}
}

func TestProductionDrops(t *testing.T) {
	a := newFacade()
	var entries []models.MMilkInEntry
	for _, d := range []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05",
		"2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09"} {
		entries = append(entries, models.MMilkInEntry{CowID: 1, Liters: decimal.NewFromInt(20), Date: day(t, d)})
	}
	entries = append(entries, models.MMilkInEntry{CowID: 1, Liters: decimal.NewFromInt(2), Date: day(t, "2024-03-10")})

	drops := a.ProductionDrops(1, entries)
	if len(drops) != 1 || drops[0].Date.String() != "2024-03-10" {
		t.Errorf("Expected a single drop on 2024-03-10, got %+v", drops)
	}
}
