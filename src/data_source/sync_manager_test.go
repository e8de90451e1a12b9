package datasource

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"milk-admin/src/client"
	"milk-admin/src/data_source/backend"
	"milk-admin/src/helpers"
	"milk-admin/src/inventory"
	"milk-admin/src/models"
	"milk-admin/src/network"
	"milk-admin/src/repository"
	"milk-admin/src/storage"
	"milk-admin/src/testhelpers"
)

type fakeSource struct {
	mu         sync.Mutex
	snap       models.MSnapshot
	windows    models.MWindowData
	err        error
	duringSnap func()
	calls      int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchSnapshot(ctx context.Context) (models.MSnapshot, error) {
	f.mu.Lock()
	f.calls++
	hook, snap, err := f.duringSnap, f.snap, f.err
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return snap, err
}

func (f *fakeSource) FetchWindows(ctx context.Context, today models.Date) (models.MWindowData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.windows, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("Invalid date %s: %v", s, err)
	}
	return d
}

func newTestSync(t *testing.T, src *fakeSource, now *time.Time) (*SyncManager, *inventory.InventoryManager) {
	t.Helper()
	cfg := &models.MConfig{Sync: models.MSyncConfig{IntervalSeconds: 60, Timezone: "UTC"}}
	inv := inventory.NewInventoryManager(testhelpers.Logger("InventoryManager"))
	t.Cleanup(inv.Close)
	m := NewSyncManager(cfg, src, inv, nil, nil, testhelpers.Logger("SyncManager"))
	m.SetClock(func() time.Time { return *now })
	return m, inv
}

// -----------------------------------------------------------------------------

func TestFirstRefreshInitializesAndComputesWindows(t *testing.T) {
	now := time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{
		snap: models.MSnapshot{
			Stock:    models.MStockSummary{CurrentStock: dec("80"), DailyProduce: dec("30")},
			Earnings: models.MEarningsSummary{TodayEarnings: dec("200")},
		},
		windows: models.MWindowData{
			MonthlyOut: []models.MMilkOutEntry{
				{QuantitySold: dec("10"), PricePerLiter: dec("50"), Date: day(t, "2024-03-30")},
				{QuantitySold: dec("20"), PricePerLiter: dec("40"), Date: day(t, "2024-03-10")},
			},
			WeeklySpoilage: []models.MMilkSpoiltEntry{{AmountSpoilt: dec("2"), Date: day(t, "2024-03-29")}},
		},
	}
	m, inv := newTestSync(t, src, &now)

	var seen []models.MSyncStatus
	m.OnStatus(func(st models.MSyncStatus) { seen = append(seen, st) })

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !inv.IsInitialized() || !inv.Inventory().CurrentStock.Equal(dec("80")) {
		t.Errorf("Expected initialized stock 80, got %s", inv.Inventory().CurrentStock)
	}
	s, e := inv.StockSummary(), inv.Earnings()
	if !s.WeeklySold.Equal(dec("10")) || !s.MonthlySold.Equal(dec("30")) || !s.WeeklySpoilt.Equal(dec("2")) {
		t.Errorf("Expected weekly 10 / monthly 30 / spoilt 2, got %s / %s / %s", s.WeeklySold, s.MonthlySold, s.WeeklySpoilt)
	}
	if !e.WeeklyEarnings.Equal(dec("500")) || !e.MonthlyEarnings.Equal(dec("1300")) {
		t.Errorf("Expected earnings 500 / 1300, got %s / %s", e.WeeklyEarnings, e.MonthlyEarnings)
	}
	if !e.TodayEarnings.Equal(dec("200")) {
		t.Errorf("Expected today earnings from server, got %s", e.TodayEarnings)
	}

	if len(seen) != 1 || seen[0].SyncCount != 1 || seen[0].LastSync != now.Unix() {
		t.Errorf("Expected one successful status callback, got %+v", seen)
	}
}

func TestRefreshKeepsLocalStockWhenDeltaRacesFetch(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{snap: models.MSnapshot{Stock: models.MStockSummary{CurrentStock: dec("100")}}}
	m, inv := newTestSync(t, src, &now)

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// A sale lands while the next fetch is in flight; the server value is stale.
	src.duringSnap = func() {
		inv.OnMilkOutSold(models.MMilkOutEntry{QuantitySold: dec("30"), PricePerLiter: dec("1")})
	}
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !inv.Inventory().CurrentStock.Equal(dec("70")) {
		t.Errorf("Expected local stock 70 kept, got %s", inv.Inventory().CurrentStock)
	}
	if m.Status().ServerAdopted {
		t.Error("Expected server stock not adopted")
	}

	// Quiet refresh: the server has caught up and is trusted again.
	src.duringSnap = nil
	src.snap.Stock.CurrentStock = dec("68")
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !inv.Inventory().CurrentStock.Equal(dec("68")) {
		t.Errorf("Expected server stock 68 adopted, got %s", inv.Inventory().CurrentStock)
	}
}

func TestRefreshFailureKeepsState(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{snap: models.MSnapshot{Stock: models.MStockSummary{CurrentStock: dec("50")}}}
	m, inv := newTestSync(t, src, &now)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	src.err = errors.New("connection refused")
	src.snap.Stock.CurrentStock = dec("1")
	if err := m.Refresh(context.Background()); err == nil {
		t.Fatal("Expected error")
	}

	if !inv.Inventory().CurrentStock.Equal(dec("50")) {
		t.Errorf("Expected stock 50 kept, got %s", inv.Inventory().CurrentStock)
	}
	st := m.Status()
	if st.FailureCount != 1 || st.LastError == "" || st.SyncCount != 1 {
		t.Errorf("Expected one failure recorded after one success, got %+v", st)
	}
}

func TestOfflineStartSeedsFromStoredSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{err: helpers.NewError(helpers.KindNetwork, "backend unreachable", nil)}
	m, inv := newTestSync(t, src, &now)

	cfg := &models.MConfig{Storage: models.MStorageConfig{DBType: "sqlite", DBPath: ":memory:", RetentionDays: 30}}
	db, err := storage.NewAsyncSQLiteDB(cfg, testhelpers.Logger("SQLiteDB"))
	if err != nil {
		t.Fatalf("Failed to create db: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	m.Database = db

	// Nothing stored yet: the inventory stays uninitialized.
	if err := m.Refresh(context.Background()); err == nil {
		t.Fatal("Expected error")
	}
	if inv.IsInitialized() {
		t.Fatal("Expected no seeding from an empty ledger")
	}

	yesterday := time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)
	stored := models.MSnapshot{
		Stock:    models.MStockSummary{CurrentStock: dec("75"), DailyProduce: dec("40"), WeeklySold: dec("120")},
		Earnings: models.MEarningsSummary{TodayEarnings: dec("900"), MonthlyEarnings: dec("15000")},
	}
	if err := db.SaveSummarySnapshot(context.Background(), stored, yesterday.Unix()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := m.Refresh(context.Background()); err == nil {
		t.Fatal("Expected error")
	}
	if !inv.IsInitialized() || !inv.Inventory().CurrentStock.Equal(dec("75")) {
		t.Errorf("Expected stock 75 seeded from the ledger, got %s", inv.Inventory().CurrentStock)
	}
	s, e := inv.StockSummary(), inv.Earnings()
	if !s.DailyProduce.IsZero() || !e.TodayEarnings.IsZero() {
		t.Errorf("Expected yesterday's daily fields dropped, got %s / %s", s.DailyProduce, e.TodayEarnings)
	}
	if !s.WeeklySold.Equal(dec("120")) || !e.MonthlyEarnings.Equal(dec("15000")) {
		t.Errorf("Expected weekly and monthly fields kept, got %s / %s", s.WeeklySold, e.MonthlyEarnings)
	}
	if st := m.Status(); st.SeededAt != yesterday.Unix() || st.SyncCount != 0 {
		t.Errorf("Expected seeded status without a sync, got %+v", st)
	}

	// Back online: the server snapshot replaces the seed.
	src.mu.Lock()
	src.err = nil
	src.snap = models.MSnapshot{Stock: models.MStockSummary{CurrentStock: dec("60")}}
	src.mu.Unlock()
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !inv.Inventory().CurrentStock.Equal(dec("60")) {
		t.Errorf("Expected server stock 60, got %s", inv.Inventory().CurrentStock)
	}
	if st := m.Status(); st.SeededAt != 0 || st.SyncCount != 1 {
		t.Errorf("Expected seed cleared after a sync, got %+v", st)
	}
}

func TestUnauthorizedStartDoesNotSeed(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{err: helpers.NewError(helpers.KindUnauthorized, "invalid api key", nil)}
	m, inv := newTestSync(t, src, &now)

	cfg := &models.MConfig{Storage: models.MStorageConfig{DBType: "sqlite", DBPath: ":memory:"}}
	db, err := storage.NewAsyncSQLiteDB(cfg, testhelpers.Logger("SQLiteDB"))
	if err != nil {
		t.Fatalf("Failed to create db: %v", err)
	}
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.SaveSummarySnapshot(context.Background(), models.MSnapshot{Stock: models.MStockSummary{CurrentStock: dec("75")}}, now.Unix()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	m.Database = db

	if err := m.Refresh(context.Background()); err == nil {
		t.Fatal("Expected error")
	}
	if inv.IsInitialized() {
		t.Error("Expected a configuration error to leave the inventory uninitialized")
	}
}

func TestDayBoundaryResetsDailyStats(t *testing.T) {
	now := time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC)
	src := &fakeSource{snap: models.MSnapshot{
		Stock:    models.MStockSummary{CurrentStock: dec("50"), DailyProduce: dec("40"), DailyTotalLitersSold: dec("10")},
		Earnings: models.MEarningsSummary{TodayEarnings: dec("500"), MonthlyEarnings: dec("9000")},
	}}
	m, inv := newTestSync(t, src, &now)
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Next day the backend is down: daily counters still roll over.
	now = now.Add(2 * time.Minute)
	src.err = errors.New("down")
	_ = m.Refresh(context.Background())

	s, e := inv.StockSummary(), inv.Earnings()
	if !s.DailyProduce.IsZero() || !s.DailyTotalLitersSold.IsZero() || !e.TodayEarnings.IsZero() {
		t.Errorf("Expected daily fields reset, got %s / %s / %s", s.DailyProduce, s.DailyTotalLitersSold, e.TodayEarnings)
	}
	if !inv.Inventory().CurrentStock.Equal(dec("50")) {
		t.Errorf("Expected stock untouched by reset, got %s", inv.Inventory().CurrentStock)
	}
	if m.Status().DailyResetDays != 1 {
		t.Errorf("Expected 1 daily reset, got %d", m.Status().DailyResetDays)
	}
}

func TestStartStop(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{snap: models.MSnapshot{Stock: models.MStockSummary{CurrentStock: dec("5")}}}
	m, inv := newTestSync(t, src, &now)

	done := make(chan struct{}, 1)
	m.OnStatus(func(models.MSyncStatus) {
		select {
		case done <- struct{}{}:
		default:
		}
	})

	var wg sync.WaitGroup
	if err := m.Start(context.Background(), &wg); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := m.Start(context.Background(), &wg); err == nil {
		t.Error("Expected error on double start")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for initial refresh")
	}
	if !inv.IsInitialized() {
		t.Error("Expected inventory initialized by the first refresh")
	}

	m.Stop()
	wg.Wait()
	if m.Status().Running {
		t.Error("Expected not running after stop")
	}
}

// -----------------------------------------------------------------------------

func TestRefreshAgainstBackend(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	cfg := fb.Config()
	cfg.Sync.Timezone = "UTC"
	fb.SetSummaries(
		models.MStockSummary{CurrentStock: dec("120")},
		models.MEarningsSummary{TodayEarnings: dec("300")},
	)
	fb.AddMilkOut(models.MMilkOutEntry{QuantitySold: dec("10"), PricePerLiter: dec("60"), Date: day(t, "2024-03-05")})
	fb.AddMilkOut(models.MMilkOutEntry{QuantitySold: dec("5"), PricePerLiter: dec("60"), Date: day(t, "2024-02-20")})
	fb.AddSpoilt(models.MMilkSpoiltEntry{AmountSpoilt: dec("3"), Date: day(t, "2024-03-01")})

	nm, err := network.NewAsyncNetworkManager(cfg, testhelpers.Logger("Network"))
	if err != nil {
		t.Fatalf("Failed to create network manager: %v", err)
	}
	mc, err := client.NewMilkClient(cfg, nm, testhelpers.Logger("MilkClient"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	src := backend.NewBackendSource(cfg, repository.NewRepositories(cfg, mc), testhelpers.Logger("BackendSource"))

	inv := inventory.NewInventoryManager(testhelpers.Logger("InventoryManager"))
	t.Cleanup(inv.Close)
	m := NewSyncManager(cfg, src, inv, nil, nil, testhelpers.Logger("SyncManager"))
	m.SetClock(func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) })

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	s := inv.StockSummary()
	if !inv.Inventory().CurrentStock.Equal(dec("120")) {
		t.Errorf("Expected stock 120, got %s", inv.Inventory().CurrentStock)
	}
	if !s.WeeklySold.Equal(dec("10")) || !s.MonthlySold.Equal(dec("15")) || !s.WeeklySpoilt.Equal(dec("3")) {
		t.Errorf("Expected 10 / 15 / 3, got %s / %s / %s", s.WeeklySold, s.MonthlySold, s.WeeklySpoilt)
	}
	if got := fb.Requests("GET", "/milk-out"); got != 30 {
		t.Errorf("Expected 30 per-day sales requests, got %d", got)
	}
}
