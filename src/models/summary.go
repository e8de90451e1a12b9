package models

import "github.com/shopspring/decimal"

// MMilkInventory is the locally reconciled stock level. CurrentStock is never negative.
type MMilkInventory struct {
	CurrentStock decimal.Decimal `json:"currentStock"`
	LastUpdated  Date            `json:"lastUpdated"`
}

// MStockSummary is the server's liters view over day/week/month windows.
type MStockSummary struct {
	CurrentStock         decimal.Decimal `json:"currentStock"`
	DailyProduce         decimal.Decimal `json:"dailyProduce"`
	DailyTotalLitersSold decimal.Decimal `json:"dailyTotalLitersSold"`
	WeeklySold           decimal.Decimal `json:"weeklySold"`
	WeeklySpoilt         decimal.Decimal `json:"weeklySpoilt"`
	MonthlySold          decimal.Decimal `json:"monthlySold"`
}

// MEarningsSummary holds money accumulators.
type MEarningsSummary struct {
	TodayEarnings   decimal.Decimal `json:"todayEarnings"`
	WeeklyEarnings  decimal.Decimal `json:"weeklyEarnings"`
	MonthlyEarnings decimal.Decimal `json:"monthlyEarnings"`
}

// MMilkAnalytics is returned by /milk-analytics for one day.
type MMilkAnalytics struct {
	Date          Date                `json:"date"`
	TotalProduced decimal.Decimal     `json:"totalProduced"`
	TotalSold     decimal.Decimal     `json:"totalSold"`
	TotalSpoilt   decimal.Decimal     `json:"totalSpoilt"`
	Revenue       decimal.Decimal     `json:"revenue"`
	TopProducers  []MCowProductionRow `json:"topProducers,omitempty"`
}

// MCowProductionRow is one line of a production ranking.
type MCowProductionRow struct {
	CowID   int64           `json:"cowId"`
	CowName string          `json:"cowName"`
	Liters  decimal.Decimal `json:"liters"`
}

// MProductionStats summarises one cow's daily yields.
type MProductionStats struct {
	CowID        int64           `json:"cowId"`
	Days         int             `json:"days"`
	AverageDaily decimal.Decimal `json:"averageDaily"`
	StdDevDaily  float64         `json:"stdDevDaily"`
	BestDay      Date            `json:"bestDay"`
	BestDayTotal decimal.Decimal `json:"bestDayTotal"`
	LowDays      []Date          `json:"lowDays,omitempty"` // unusually low totals
}

// MAPIError is the error body the backend returns for 4xx/5xx responses.
type MAPIError struct {
	Error        string   `json:"error"`
	Message      string   `json:"message"`
	ErrorType    string   `json:"errorType,omitempty"`
	CowID        *int64   `json:"cowId,omitempty"`
	CowName      string   `json:"cowName,omitempty"`
	HealthStatus string   `json:"healthStatus,omitempty"`
	BlockedUntil string   `json:"blockedUntil,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
}
