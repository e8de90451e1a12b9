package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"milk-admin/src/analysis"
	"milk-admin/src/helpers"
	"milk-admin/src/interfaces"
	"milk-admin/src/inventory"
	"milk-admin/src/logger"
	"milk-admin/src/models"
	"milk-admin/src/utils"
)

// SyncManager periodically reconciles the inventory against the backend.
type SyncManager struct {
	Config    *models.MConfig
	Source    interfaces.IDataSource
	Inventory *inventory.InventoryManager
	Analysis  *analysis.AnalysisFacade
	Database  interfaces.IDatabase // optional mirror
	Scheduler *utils.DayScheduler
	Errors    *helpers.ErrorHandler
	Logger    *logger.Logger

	onStatus []func(models.MSyncStatus)
	now      func() time.Time

	status     models.MSyncStatus
	statusMu   sync.RWMutex
	refreshMu  sync.Mutex // one refresh at a time
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  atomic.Bool
}

// -----------------------------------------------------------------------------

func NewSyncManager(
	cfg *models.MConfig,
	source interfaces.IDataSource,
	inv *inventory.InventoryManager,
	facade *analysis.AnalysisFacade,
	db interfaces.IDatabase,
	log *logger.Logger,
) *SyncManager {
	if log == nil {
		log = logger.NewLogger(cfg, "SyncManager")
	}
	loc := time.Local
	if cfg.Sync.Timezone != "" {
		if l, err := time.LoadLocation(cfg.Sync.Timezone); err == nil {
			loc = l
		}
	}
	if facade == nil {
		facade = analysis.NewAnalysisFacade(cfg, nil)
	}

	return &SyncManager{
		Config:    cfg,
		Source:    source,
		Inventory: inv,
		Analysis:  facade,
		Database:  db,
		Scheduler: utils.NewDayScheduler(loc, log),
		Errors:    helpers.NewErrorHandler(log),
		Logger:    log,
		now:       time.Now,
	}
}

// SetClock replaces the time source (tests).
func (m *SyncManager) SetClock(now func() time.Time) {
	m.now = now
}

// OnStatus registers a callback run after every refresh attempt.
func (m *SyncManager) OnStatus(fn func(models.MSyncStatus)) {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()
	m.onStatus = append(m.onStatus, fn)
}

// Status returns a copy of the current sync status.
func (m *SyncManager) Status() models.MSyncStatus {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	st := m.status
	st.Running = m.isRunning.Load()
	return st
}

// -----------------------------------------------------------------------------

// Refresh runs one reconciliation pass. Any failure leaves the previously
// applied state in place and is returned.
func (m *SyncManager) Refresh(ctx context.Context) error {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	now := m.now()
	today := models.NewDate(now.In(m.Scheduler.Location))

	if m.Scheduler.DayChanged(now) {
		m.Inventory.ResetDailyStats()
		m.statusMu.Lock()
		m.status.DailyResetDays++
		m.statusMu.Unlock()
		if m.Database != nil {
			if err := m.Database.CleanupOldData(); err != nil {
				m.Logger.Warning("Retention cleanup failed: %v", err)
			}
		}
	}

	// Read the version before the fetch so local deltas that land while the
	// request is in flight are detected.
	version := m.Inventory.Version()
	snap, err := m.Source.FetchSnapshot(ctx)
	if err != nil {
		m.seedFromLedger(ctx, today, err)
		return m.fail("snapshot", err)
	}

	adopted := true
	if !m.Inventory.IsInitialized() {
		m.Inventory.InitializeWithServerData(snap.Stock, snap.Earnings)
	} else {
		adopted = m.Inventory.UpdateWithServerDataSince(version, snap.Stock, snap.Earnings)
	}

	windows, err := m.Source.FetchWindows(ctx, today)
	if err != nil {
		return m.fail("windows", err)
	}
	weeklyOut, monthlyOut, weeklySpoilt := m.Analysis.Windows(today, windows.MonthlyOut, windows.WeeklySpoilage)
	windows.WeeklyOut = weeklyOut
	m.Inventory.UpdateWeeklyMonthlyStats(weeklyOut, monthlyOut, weeklySpoilt)

	m.mirror(ctx, snap, windows, now)

	m.statusMu.Lock()
	m.status.LastSync = now.Unix()
	m.status.LastError = ""
	m.status.SyncCount++
	m.status.ServerAdopted = adopted
	m.status.SeededAt = 0
	m.statusMu.Unlock()

	m.Logger.Debug("Sync ok: stock %s L (server adopted: %v)", m.Inventory.Inventory().CurrentStock.String(), adopted)
	m.notify()
	return nil
}

func (m *SyncManager) fail(stage string, err error) error {
	msg := m.Errors.Handle(err, "sync "+stage)

	m.statusMu.Lock()
	m.status.LastError = msg
	m.status.FailureCount++
	m.statusMu.Unlock()

	m.notify()
	return fmt.Errorf("sync %s: %w", stage, err)
}

func (m *SyncManager) notify() {
	st := m.Status()
	m.statusMu.RLock()
	callbacks := append([]func(models.MSyncStatus){}, m.onStatus...)
	m.statusMu.RUnlock()
	for _, fn := range callbacks {
		fn(st)
	}
}

// seedFromLedger initializes the inventory from the last stored snapshot when
// the backend cannot be reached before any sync succeeded. The next successful
// refresh replaces it.
func (m *SyncManager) seedFromLedger(ctx context.Context, today models.Date, cause error) {
	if m.Database == nil || m.Inventory.IsInitialized() {
		return
	}
	switch helpers.KindOf(cause) {
	case helpers.KindNetwork, helpers.KindTimeout, helpers.KindServer:
	default:
		return
	}

	snap, takenAt, err := m.Database.LatestSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			m.Logger.Warning("Failed to read stored snapshot: %v", err)
		}
		return
	}
	m.Inventory.InitializeWithServerData(snap.Stock, snap.Earnings)
	taken := time.Unix(takenAt, 0).In(m.Scheduler.Location)
	if !models.NewDate(taken).Equal(today) {
		m.Inventory.ResetDailyStats()
	}

	m.statusMu.Lock()
	m.status.SeededAt = takenAt
	m.statusMu.Unlock()
	m.Logger.Warning("Backend unreachable, seeded stock %s L from snapshot of %s",
		snap.Stock.CurrentStock.String(), taken.Format(time.RFC3339))
}

// mirror copies the fetched data into the local ledger. Storage errors are
// logged and do not fail the sync.
func (m *SyncManager) mirror(ctx context.Context, snap models.MSnapshot, w models.MWindowData, now time.Time) {
	if m.Database == nil {
		return
	}
	if err := m.Database.SaveSummarySnapshot(ctx, snap, now.Unix()); err != nil {
		m.Logger.Warning("Failed to store summary snapshot: %v", err)
	}
	if err := m.Database.SaveMilkOutEntries(ctx, w.MonthlyOut); err != nil {
		m.Logger.Warning("Failed to mirror sales: %v", err)
	}
	if err := m.Database.SaveMilkSpoiltEntries(ctx, w.WeeklySpoilage); err != nil {
		m.Logger.Warning("Failed to mirror spoilage: %v", err)
	}
	if err := m.Database.SaveMilkInEntries(ctx, w.MilkIn); err != nil {
		m.Logger.Warning("Failed to mirror milk-in: %v", err)
	}
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start runs one refresh immediately and then one per sync interval until
// ctx is cancelled or Stop is called.
func (m *SyncManager) Start(parentCtx context.Context, wg *sync.WaitGroup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning.Load() {
		return fmt.Errorf("sync manager is already running")
	}

	ctx, cancel := context.WithCancel(parentCtx)
	m.cancelFunc = cancel
	m.isRunning.Store(true)

	wg.Add(1)
	go m.runLoop(ctx, wg)
	m.Logger.Info("Started sync from %s every %ds", m.Source.Name(), m.Config.Sync.IntervalSeconds)
	return nil
}

// Stop signals the run loop to exit.
func (m *SyncManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning.Load() {
		return nil
	}
	if m.cancelFunc != nil {
		m.cancelFunc()
		m.cancelFunc = nil
	}
	m.isRunning.Store(false)
	m.Logger.Info("Sync manager stopped")
	return nil
}

func (m *SyncManager) runLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer m.isRunning.Store(false)

	interval := time.Duration(m.Config.Sync.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.refreshOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.refreshOnce(ctx)
		}
	}
}

func (m *SyncManager) refreshOnce(ctx context.Context) {
	timeout := time.Duration(m.Config.Sync.IntervalSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := m.Refresh(rctx); err != nil && ctx.Err() == nil {
		m.Logger.Warning("Refresh failed: %v", err)
	}
}
