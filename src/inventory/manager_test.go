package inventory

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"milk-admin/src/logger"
	"milk-admin/src/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestManager(t *testing.T) *InventoryManager {
	t.Helper()
	m := NewInventoryManager(logger.NewLoggerTo(io.Discard, nil, "InventoryManager"))
	m.SetClock(func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) })
	t.Cleanup(m.Close)
	return m
}

func initWithStock(m *InventoryManager, stock string) {
	m.InitializeWithServerData(
		models.MStockSummary{CurrentStock: dec(stock)},
		models.MEarningsSummary{},
	)
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("Expected %s=%s, got %s", name, want, got.String())
	}
}

// -----------------------------------------------------------------------------

func TestInitializeWithServerData(t *testing.T) {
	m := newTestManager(t)
	if m.IsInitialized() {
		t.Fatal("Expected manager to start uninitialized")
	}

	m.InitializeWithServerData(
		models.MStockSummary{CurrentStock: dec("120"), DailyProduce: dec("40"), WeeklySold: dec("300")},
		models.MEarningsSummary{TodayEarnings: dec("500"), MonthlyEarnings: dec("9000")},
	)

	if !m.IsInitialized() {
		t.Fatal("Expected manager to be initialized")
	}
	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "120")
	assertDecimal(t, "stock.currentStock", m.StockSummary().CurrentStock, "120")
	assertDecimal(t, "dailyProduce", m.StockSummary().DailyProduce, "40")
	assertDecimal(t, "weeklySold", m.StockSummary().WeeklySold, "300")
	assertDecimal(t, "monthlyEarnings", m.Earnings().MonthlyEarnings, "9000")
	if got := m.Inventory().LastUpdated.String(); got != "2024-03-10" {
		t.Errorf("Expected lastUpdated=2024-03-10, got %s", got)
	}
}

func TestMilkInAccumulatesOnTopOfSyncedStock(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "50")

	added := []string{"12.5", "8", "0.25", "30"}
	for _, l := range added {
		m.OnMilkInAdded(models.MMilkInEntry{CowID: 1, OwnerID: 1, Liters: dec(l), Date: day("2024-03-11")})
	}

	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "100.75")
	assertDecimal(t, "stock.currentStock", m.StockSummary().CurrentStock, "100.75")
	assertDecimal(t, "dailyProduce", m.StockSummary().DailyProduce, "50.75")
	if got := m.Inventory().LastUpdated.String(); got != "2024-03-11" {
		t.Errorf("Expected lastUpdated to follow the entry date, got %s", got)
	}
}

func TestMilkOutSoldScenario(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "100")

	m.OnMilkOutSold(models.MMilkOutEntry{CustomerID: 3, QuantitySold: dec("30"), PricePerLiter: dec("50")})

	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "70")
	assertDecimal(t, "dailyTotalLitersSold", m.StockSummary().DailyTotalLitersSold, "30")
	assertDecimal(t, "todayEarnings", m.Earnings().TodayEarnings, "1500")
}

func TestMilkSpoiledClampsAtZero(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "10")

	m.OnMilkSpoiled(models.MMilkSpoiltEntry{AmountSpoilt: dec("15")})

	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "0")
	assertDecimal(t, "weeklySpoilt", m.StockSummary().WeeklySpoilt, "15")
}

func TestDecrementsNeverGoNegative(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "5")

	m.OnMilkOutSold(models.MMilkOutEntry{QuantitySold: dec("3"), PricePerLiter: dec("1")})
	m.OnMilkOutSold(models.MMilkOutEntry{QuantitySold: dec("4"), PricePerLiter: dec("1")})
	m.OnMilkSpoiled(models.MMilkSpoiltEntry{AmountSpoilt: dec("100")})
	m.OnMilkOutSold(models.MMilkOutEntry{QuantitySold: dec("1"), PricePerLiter: dec("1")})

	if m.Inventory().CurrentStock.IsNegative() {
		t.Fatalf("Expected non-negative stock, got %s", m.Inventory().CurrentStock.String())
	}
	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "0")
	// Sales still book their full quantity and value.
	assertDecimal(t, "dailyTotalLitersSold", m.StockSummary().DailyTotalLitersSold, "8")
	assertDecimal(t, "todayEarnings", m.Earnings().TodayEarnings, "8")
}

func TestUpdateWithServerDataKeepsLocalStock(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "100")
	m.OnMilkOutSold(models.MMilkOutEntry{QuantitySold: dec("20"), PricePerLiter: dec("10")})

	m.UpdateWithServerData(
		models.MStockSummary{CurrentStock: dec("100"), WeeklySold: dec("400"), MonthlySold: dec("1500")},
		models.MEarningsSummary{WeeklyEarnings: dec("4000")},
	)

	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "80")
	assertDecimal(t, "stock.currentStock", m.StockSummary().CurrentStock, "80")
	assertDecimal(t, "weeklySold", m.StockSummary().WeeklySold, "400")
	assertDecimal(t, "monthlySold", m.StockSummary().MonthlySold, "1500")
	assertDecimal(t, "weeklyEarnings", m.Earnings().WeeklyEarnings, "4000")
}

func TestUpdateWithServerDataBeforeInitTakesServerStock(t *testing.T) {
	m := newTestManager(t)

	m.UpdateWithServerData(models.MStockSummary{CurrentStock: dec("42")}, models.MEarningsSummary{})

	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "42")
	if !m.IsInitialized() {
		t.Error("Expected first server update to mark the manager initialized")
	}
}

func TestUpdateWithServerDataSince(t *testing.T) {
	tests := []struct {
		name        string
		localDelta  bool
		wantAdopted bool
		wantStock   string
	}{
		{"no local delta adopts server stock", false, true, "95"},
		{"local delta keeps local stock", true, false, "110"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			initWithStock(m, "100")

			v := m.Version()
			if tt.localDelta {
				m.OnMilkInAdded(models.MMilkInEntry{CowID: 1, Liters: dec("10"), Date: day("2024-03-10")})
			}
			adopted := m.UpdateWithServerDataSince(v, models.MStockSummary{CurrentStock: dec("95")}, models.MEarningsSummary{})

			if adopted != tt.wantAdopted {
				t.Errorf("Expected adopted=%v, got %v", tt.wantAdopted, adopted)
			}
			assertDecimal(t, "currentStock", m.Inventory().CurrentStock, tt.wantStock)
		})
	}
}

func TestPendingMutationBlocksAdoption(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "100")

	m.BeginMutation()
	v := m.Version()
	// The backend already counts the 10 L whose delta has not landed yet.
	adopted := m.UpdateWithServerDataSince(v, models.MStockSummary{CurrentStock: dec("110")}, models.MEarningsSummary{})
	if adopted {
		t.Error("Expected server stock to be ignored while a write is pending")
	}
	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "100")

	m.OnMilkInAdded(models.MMilkInEntry{CowID: 1, Liters: dec("10"), Date: day("2024-03-10")})
	m.EndMutation()
	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "110")

	v = m.Version()
	if !m.UpdateWithServerDataSince(v, models.MStockSummary{CurrentStock: dec("108")}, models.MEarningsSummary{}) {
		t.Error("Expected a quiet refresh to adopt server stock again")
	}
	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "108")
}

func TestEndMutationWithoutBeginIsHarmless(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "100")
	m.EndMutation()

	m.BeginMutation()
	m.EndMutation()
	if !m.UpdateWithServerDataSince(m.Version(), models.MStockSummary{CurrentStock: dec("90")}, models.MEarningsSummary{}) {
		t.Error("Expected adoption once every write has ended")
	}
}

func TestVersionCountsLocalDeltasOnly(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "10")
	m.UpdateWithServerData(models.MStockSummary{}, models.MEarningsSummary{})
	m.ResetDailyStats()
	if v := m.Version(); v != 0 {
		t.Fatalf("Expected version 0 after server updates, got %d", v)
	}

	m.OnMilkInAdded(models.MMilkInEntry{Liters: dec("1")})
	m.OnMilkOutSold(models.MMilkOutEntry{QuantitySold: dec("1"), PricePerLiter: dec("1")})
	m.OnMilkSpoiled(models.MMilkSpoiltEntry{AmountSpoilt: dec("1")})
	if v := m.Version(); v != 3 {
		t.Errorf("Expected version 3, got %d", v)
	}
}

func TestResetDailyStatsOnlyTouchesDailyFields(t *testing.T) {
	m := newTestManager(t)
	m.InitializeWithServerData(
		models.MStockSummary{
			CurrentStock:         dec("60"),
			DailyProduce:         dec("25"),
			DailyTotalLitersSold: dec("15"),
			WeeklySold:           dec("140"),
			WeeklySpoilt:         dec("6"),
			MonthlySold:          dec("600"),
		},
		models.MEarningsSummary{TodayEarnings: dec("750"), WeeklyEarnings: dec("7000"), MonthlyEarnings: dec("30000")},
	)

	m.ResetDailyStats()

	s, e := m.StockSummary(), m.Earnings()
	assertDecimal(t, "dailyProduce", s.DailyProduce, "0")
	assertDecimal(t, "dailyTotalLitersSold", s.DailyTotalLitersSold, "0")
	assertDecimal(t, "todayEarnings", e.TodayEarnings, "0")

	assertDecimal(t, "currentStock", s.CurrentStock, "60")
	assertDecimal(t, "weeklySold", s.WeeklySold, "140")
	assertDecimal(t, "weeklySpoilt", s.WeeklySpoilt, "6")
	assertDecimal(t, "monthlySold", s.MonthlySold, "600")
	assertDecimal(t, "weeklyEarnings", e.WeeklyEarnings, "7000")
	assertDecimal(t, "monthlyEarnings", e.MonthlyEarnings, "30000")
}

func TestUpdateWeeklyMonthlyStats(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "10")

	weekly := []models.MMilkOutEntry{
		{QuantitySold: dec("10"), PricePerLiter: dec("50")},
		{QuantitySold: dec("5.5"), PricePerLiter: dec("60")},
	}
	monthly := append([]models.MMilkOutEntry{{QuantitySold: dec("20"), PricePerLiter: dec("45")}}, weekly...)
	spoilage := []models.MMilkSpoiltEntry{{AmountSpoilt: dec("2")}, {AmountSpoilt: dec("1.5")}}

	m.UpdateWeeklyMonthlyStats(weekly, monthly, spoilage)

	assertDecimal(t, "weeklySold", m.StockSummary().WeeklySold, "15.5")
	assertDecimal(t, "monthlySold", m.StockSummary().MonthlySold, "35.5")
	assertDecimal(t, "weeklySpoilt", m.StockSummary().WeeklySpoilt, "3.5")
	assertDecimal(t, "weeklyEarnings", m.Earnings().WeeklyEarnings, "830")
	assertDecimal(t, "monthlyEarnings", m.Earnings().MonthlyEarnings, "1730")
	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "10")
}

// -----------------------------------------------------------------------------

func TestSubscribeReceivesCurrentValueThenUpdatesInOrder(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "10")

	sub := m.SubscribeInventory()
	defer sub.Close()

	for i := 0; i < 3; i++ {
		m.OnMilkInAdded(models.MMilkInEntry{Liters: dec("1"), Date: day("2024-03-10")})
	}

	want := []string{"10", "11", "12", "13"}
	for _, w := range want {
		select {
		case inv := <-sub.C():
			assertDecimal(t, "currentStock", inv.CurrentStock, w)
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for stock %s", w)
		}
	}
}

func TestConcurrentDeltasAreSerialized(t *testing.T) {
	m := newTestManager(t)
	initWithStock(m, "1000")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.OnMilkInAdded(models.MMilkInEntry{Liters: dec("2")})
		}()
		go func() {
			defer wg.Done()
			m.OnMilkOutSold(models.MMilkOutEntry{QuantitySold: dec("1"), PricePerLiter: dec("10")})
		}()
	}
	wg.Wait()

	assertDecimal(t, "currentStock", m.Inventory().CurrentStock, "1050")
	assertDecimal(t, "stock.currentStock", m.StockSummary().CurrentStock, "1050")
	assertDecimal(t, "todayEarnings", m.Earnings().TodayEarnings, "500")
	if v := m.Version(); v != 100 {
		t.Errorf("Expected version 100, got %d", v)
	}
}
