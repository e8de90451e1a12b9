// Package inventory holds the single in-memory source of truth for milk stock,
// stock aggregates and earnings. It merges authoritative server snapshots with
// optimistic local deltas so a UI never sees a local action regress before the
// next server round-trip.
package inventory

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"milk-admin/src/logger"
	"milk-admin/src/models"
	"milk-admin/src/utils"
)

// -----------------------------------------------------------------------------

// InventoryManager owns the three state cells. Every mutation holds mu for its
// whole read-modify-write, so concurrent callers (network completions and user
// actions) are serialized and the cells are updated together.
type InventoryManager struct {
	inventory *utils.Signal[models.MMilkInventory]
	stock     *utils.Signal[models.MStockSummary]
	earnings  *utils.Signal[models.MEarningsSummary]

	initialized bool
	version     uint64 // bumped by every local delta
	pending     int    // mutations sent to the backend whose delta has not landed
	now         func() time.Time
	Logger      *logger.Logger
	mu          sync.Mutex
}

// -----------------------------------------------------------------------------

func NewInventoryManager(log *logger.Logger) *InventoryManager {
	if log == nil {
		log = logger.NewLogger(nil, "InventoryManager")
	}
	return &InventoryManager{
		inventory: utils.NewSignal(models.MMilkInventory{}),
		stock:     utils.NewSignal(models.MStockSummary{}),
		earnings:  utils.NewSignal(models.MEarningsSummary{}),
		now:       time.Now,
		Logger:    log,
	}
}

// SetClock replaces the time source used to stamp server refreshes.
func (m *InventoryManager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// -----------------------------------------------------------------------------
// Observable state
// -----------------------------------------------------------------------------

func (m *InventoryManager) Inventory() models.MMilkInventory { return m.inventory.Get() }

func (m *InventoryManager) StockSummary() models.MStockSummary { return m.stock.Get() }

func (m *InventoryManager) Earnings() models.MEarningsSummary { return m.earnings.Get() }

func (m *InventoryManager) SubscribeInventory() *utils.Subscription[models.MMilkInventory] {
	return m.inventory.Subscribe()
}

func (m *InventoryManager) SubscribeStock() *utils.Subscription[models.MStockSummary] {
	return m.stock.Subscribe()
}

func (m *InventoryManager) SubscribeEarnings() *utils.Subscription[models.MEarningsSummary] {
	return m.earnings.Subscribe()
}

// IsInitialized reports whether a server snapshot has been applied.
func (m *InventoryManager) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// Version returns the local-delta counter. Read it before issuing a server
// fetch and pass it to UpdateWithServerDataSince.
func (m *InventoryManager) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

// BeginMutation marks a backend write as in flight. While any write is
// pending, UpdateWithServerDataSince keeps the local stock, because the
// server may already count a change whose local delta has not been applied.
// Every call must be paired with EndMutation.
func (m *InventoryManager) BeginMutation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending++
}

// EndMutation closes a BeginMutation, after the delta (if any) was applied.
func (m *InventoryManager) EndMutation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending > 0 {
		m.pending--
	}
}

// Close ends all subscriptions.
func (m *InventoryManager) Close() {
	m.inventory.Close()
	m.stock.Close()
	m.earnings.Close()
}

// -----------------------------------------------------------------------------
// Server snapshots
// -----------------------------------------------------------------------------

// InitializeWithServerData replaces all state with the snapshot.
func (m *InventoryManager) InitializeWithServerData(stock models.MStockSummary, earnings models.MEarningsSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.applySnapshot(stock, earnings, nonNegative(stock.CurrentStock))
	m.initialized = true
	m.Logger.Info("Initialized with server stock %s L", stock.CurrentStock.String())
}

// -----------------------------------------------------------------------------

// UpdateWithServerData replaces the aggregates. Once initialized, the locally
// held currentStock wins over the server's so an in-flight local change is not
// clobbered by a stale read.
func (m *InventoryManager) UpdateWithServerData(stock models.MStockSummary, earnings models.MEarningsSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := nonNegative(stock.CurrentStock)
	if m.initialized {
		current = m.inventory.Get().CurrentStock
	}
	m.applySnapshot(stock, earnings, current)
	m.initialized = true
}

// -----------------------------------------------------------------------------

// UpdateWithServerDataSince is the versioned refresh. since must be the value
// of Version() read before the fetch was issued. If no local delta happened
// in between and no write is pending, the snapshot already covers every local
// change and its stock is adopted; otherwise the local stock is kept as in
// UpdateWithServerData.
// It returns true when the server stock was adopted.
func (m *InventoryManager) UpdateWithServerDataSince(since uint64, stock models.MStockSummary, earnings models.MEarningsSummary) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	adopt := !m.initialized || (m.version == since && m.pending == 0)
	current := nonNegative(stock.CurrentStock)
	if !adopt {
		current = m.inventory.Get().CurrentStock
		m.Logger.Debug("Keeping local stock %s L over server %s L (%d local deltas since fetch, %d writes pending)",
			current.String(), stock.CurrentStock.String(), m.version-since, m.pending)
	}
	m.applySnapshot(stock, earnings, current)
	m.initialized = true
	return adopt
}

func (m *InventoryManager) applySnapshot(stock models.MStockSummary, earnings models.MEarningsSummary, current decimal.Decimal) {
	stock.CurrentStock = current
	m.inventory.Set(models.MMilkInventory{
		CurrentStock: current,
		LastUpdated:  models.NewDate(m.now()),
	})
	m.stock.Set(stock)
	m.earnings.Set(earnings)
}

// -----------------------------------------------------------------------------
// Local deltas
// -----------------------------------------------------------------------------

// OnMilkInAdded adds a recorded milking to stock and today's produce.
func (m *InventoryManager) OnMilkInAdded(entry models.MMilkInEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv := m.inventory.Get()
	inv.CurrentStock = inv.CurrentStock.Add(entry.Liters)
	inv.LastUpdated = entry.Date
	m.inventory.Set(inv)

	m.stock.Update(func(s models.MStockSummary) models.MStockSummary {
		s.CurrentStock = inv.CurrentStock
		s.DailyProduce = s.DailyProduce.Add(entry.Liters)
		return s
	})
	m.version++
}

// -----------------------------------------------------------------------------

// OnMilkOutSold removes sold liters (clamped at zero) and books the earnings.
// The caller validates quantity against available stock.
func (m *InventoryManager) OnMilkOutSold(entry models.MMilkOutEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.decrementStock(entry.QuantitySold)

	m.stock.Update(func(s models.MStockSummary) models.MStockSummary {
		s.CurrentStock = current
		s.DailyTotalLitersSold = s.DailyTotalLitersSold.Add(entry.QuantitySold)
		return s
	})
	m.earnings.Update(func(e models.MEarningsSummary) models.MEarningsSummary {
		e.TodayEarnings = e.TodayEarnings.Add(entry.Amount())
		return e
	})
	m.version++
}

// -----------------------------------------------------------------------------

// OnMilkSpoiled removes spoilt liters (clamped at zero).
func (m *InventoryManager) OnMilkSpoiled(entry models.MMilkSpoiltEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.decrementStock(entry.AmountSpoilt)

	m.stock.Update(func(s models.MStockSummary) models.MStockSummary {
		s.CurrentStock = current
		s.WeeklySpoilt = s.WeeklySpoilt.Add(entry.AmountSpoilt)
		return s
	})
	m.version++
}

func (m *InventoryManager) decrementStock(liters decimal.Decimal) decimal.Decimal {
	inv := m.inventory.Get()
	next := inv.CurrentStock.Sub(liters)
	if next.IsNegative() {
		m.Logger.Warning("Stock clamped at 0 (had %s L, removing %s L)", inv.CurrentStock.String(), liters.String())
		next = decimal.Zero
	}
	inv.CurrentStock = next
	m.inventory.Set(inv)
	return next
}

// -----------------------------------------------------------------------------
// Window maintenance
// -----------------------------------------------------------------------------

// ResetDailyStats zeroes today's produce, liters sold and earnings. Weekly and
// monthly fields are left untouched. Called on a day boundary by the caller.
func (m *InventoryManager) ResetDailyStats() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stock.Update(func(s models.MStockSummary) models.MStockSummary {
		s.DailyProduce = decimal.Zero
		s.DailyTotalLitersSold = decimal.Zero
		return s
	})
	m.earnings.Update(func(e models.MEarningsSummary) models.MEarningsSummary {
		e.TodayEarnings = decimal.Zero
		return e
	})
}

// -----------------------------------------------------------------------------

// UpdateWeeklyMonthlyStats recomputes the weekly/monthly fields from
// collections the caller has already filtered to the right date ranges.
func (m *InventoryManager) UpdateWeeklyMonthlyStats(weeklyOut, monthlyOut []models.MMilkOutEntry, weeklySpoilage []models.MMilkSpoiltEntry) {
	weeklySold, weeklyEarnings := sumSales(weeklyOut)
	monthlySold, monthlyEarnings := sumSales(monthlyOut)
	weeklySpoilt := decimal.Zero
	for _, e := range weeklySpoilage {
		weeklySpoilt = weeklySpoilt.Add(e.AmountSpoilt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stock.Update(func(s models.MStockSummary) models.MStockSummary {
		s.WeeklySold = weeklySold
		s.MonthlySold = monthlySold
		s.WeeklySpoilt = weeklySpoilt
		return s
	})
	m.earnings.Update(func(e models.MEarningsSummary) models.MEarningsSummary {
		e.WeeklyEarnings = weeklyEarnings
		e.MonthlyEarnings = monthlyEarnings
		return e
	})
}

func sumSales(entries []models.MMilkOutEntry) (liters, amount decimal.Decimal) {
	liters, amount = decimal.Zero, decimal.Zero
	for _, e := range entries {
		liters = liters.Add(e.QuantitySold)
		amount = amount.Add(e.Amount())
	}
	return liters, amount
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
