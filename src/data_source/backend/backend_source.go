package backend

import (
	"context"
	"fmt"
	"time"

	"milk-admin/src/analysis"
	"milk-admin/src/interfaces"
	"milk-admin/src/logger"
	"milk-admin/src/models"
	"milk-admin/src/repository"
)

// BackendSource reads summaries and per-day entry lists from the cooperative backend.
type BackendSource struct {
	Config    *models.MConfig
	Summaries interfaces.ISummaryRepository
	MilkIn    interfaces.IMilkInRepository
	MilkOut   interfaces.IMilkOutRepository
	Spoilage  interfaces.ISpoilageRepository
	Logger    *logger.Logger
}

// -----------------------------------------------------------------------------

func NewBackendSource(cfg *models.MConfig, repos *repository.Repositories, log *logger.Logger) *BackendSource {
	if log == nil {
		log = logger.NewLogger(cfg, "BackendSource")
	}
	return &BackendSource{
		Config:    cfg,
		Summaries: repos.Summaries,
		MilkIn:    repos.MilkIn,
		MilkOut:   repos.MilkOut,
		Spoilage:  repos.Spoilage,
		Logger:    log,
	}
}

// -----------------------------------------------------------------------------

func (s *BackendSource) Name() string {
	return "backend"
}

// -----------------------------------------------------------------------------

// FetchSnapshot reads both summaries. Either failing fails the snapshot so
// stock and earnings are always applied together.
func (s *BackendSource) FetchSnapshot(ctx context.Context) (models.MSnapshot, error) {
	stock, err := s.Summaries.StockSummary(ctx)
	if err != nil {
		return models.MSnapshot{}, err
	}
	earnings, err := s.Summaries.EarningsSummary(ctx)
	if err != nil {
		return models.MSnapshot{}, err
	}
	return models.MSnapshot{Stock: stock, Earnings: earnings}, nil
}

// -----------------------------------------------------------------------------

// FetchWindows lists sales for the month and spoilage and milk-in for the week
// ending on today. WeeklyOut is left for the caller to derive from MonthlyOut.
func (s *BackendSource) FetchWindows(ctx context.Context, today models.Date) (models.MWindowData, error) {
	start := time.Now()
	week := analysis.WeekWindow(today).Days()
	month := analysis.MonthWindow(today).Days()
	concurrency := s.Config.Sync.ConcurrentRequests

	monthlyOut, err := repository.ListDays(ctx, month, concurrency, s.MilkOut.ListByDate)
	if err != nil {
		return models.MWindowData{}, fmt.Errorf("monthly sales: %w", err)
	}
	spoilage, err := repository.ListDays(ctx, week, concurrency, s.Spoilage.ListByDate)
	if err != nil {
		return models.MWindowData{}, fmt.Errorf("weekly spoilage: %w", err)
	}
	milkIn, err := repository.ListDays(ctx, week, concurrency, s.MilkIn.ListByDate)
	if err != nil {
		return models.MWindowData{}, fmt.Errorf("weekly milk-in: %w", err)
	}

	s.Logger.Debug("Fetched windows ending %s: %d sales, %d spoilage, %d milk-in in %v",
		today.String(), len(monthlyOut), len(spoilage), len(milkIn), time.Since(start))

	return models.MWindowData{
		MonthlyOut:     monthlyOut,
		WeeklySpoilage: spoilage,
		MilkIn:         milkIn,
	}, nil
}

var _ interfaces.IDataSource = (*BackendSource)(nil)
