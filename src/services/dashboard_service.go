package services

import (
	"context"

	"milk-admin/src/helpers"
	"milk-admin/src/interfaces"
	"milk-admin/src/inventory"
	"milk-admin/src/logger"
	"milk-admin/src/models"
)

type DashboardService struct {
	Summaries interfaces.ISummaryRepository
	Inventory *inventory.InventoryManager
	Logger    *logger.Logger

	// Status reports the sync loop; nil when sync is disabled.
	Status func() models.MSyncStatus

	clock clock
}

// Snapshot reads the reconciled state and the cow summary. A failed cow
// summary fetch is reported in SyncError and leaves CowSummary nil.
func (s *DashboardService) Snapshot(ctx context.Context) models.MDashboard {
	d := models.MDashboard{
		Inventory:   s.Inventory.Inventory(),
		Stock:       s.Inventory.StockSummary(),
		Earnings:    s.Inventory.Earnings(),
		Initialized: s.Inventory.IsInitialized(),
	}
	if s.Status != nil {
		st := s.Status()
		d.LastSync = st.LastSync
		d.SyncError = st.LastError
	}

	summary, err := s.Summaries.CowSummary(ctx)
	if err != nil {
		if d.SyncError == "" {
			d.SyncError = helpers.UserMessage(err)
		}
		return d
	}
	d.CowSummary = &summary
	return d
}

// Analytics returns the backend's analytics for date (today when unset).
func (s *DashboardService) Analytics(ctx context.Context, date models.Date) (models.MMilkAnalytics, error) {
	return s.Summaries.MilkAnalytics(ctx, s.clock.orToday(date))
}
