package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"milk-admin/src/analysis"
	"milk-admin/src/helpers"
	"milk-admin/src/interfaces"
	"milk-admin/src/inventory"
	"milk-admin/src/logger"
	"milk-admin/src/models"
	"milk-admin/src/utils"
)

// CowFilter narrows the cow list. Zero value lists every non-archived cow.
type CowFilter struct {
	Search          string
	HealthStatus    string
	OwnerID         int64
	IncludeArchived bool
}

type CowService struct {
	Repo     interfaces.ICowRepository
	MilkIn   interfaces.IMilkInRepository
	Analysis *analysis.AnalysisFacade
	Ledger   interfaces.IDatabase // optional offline fallback
	Logger   *logger.Logger

	clock clock
}

// -----------------------------------------------------------------------------

func (s *CowService) List(ctx context.Context, f CowFilter) ([]models.MCow, error) {
	cows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.MCow, 0, len(cows))
	for _, c := range cows {
		if c.IsArchived && !f.IncludeArchived {
			continue
		}
		if f.HealthStatus != "" && !strings.EqualFold(c.HealthStatus, f.HealthStatus) {
			continue
		}
		if f.OwnerID != 0 && (c.OwnerID == nil || *c.OwnerID != f.OwnerID) {
			continue
		}
		if !matches(f.Search, c.Name, c.EntryNumber, c.Breed, c.OwnerName) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *CowService) Get(ctx context.Context, id int64) (models.MCow, error) {
	return s.Repo.Get(ctx, id)
}

// -----------------------------------------------------------------------------

func (s *CowService) Create(ctx context.Context, cow models.MCow) (models.MCow, error) {
	if err := validateCow(&cow); err != nil {
		return models.MCow{}, err
	}
	cow.ID = nil
	cow.IsActive = true
	return s.Repo.Create(ctx, cow)
}

func (s *CowService) Update(ctx context.Context, id int64, cow models.MCow) (models.MCow, error) {
	if err := validateCow(&cow); err != nil {
		return models.MCow{}, err
	}
	cow.ID = &id
	return s.Repo.Update(ctx, id, cow)
}

func (s *CowService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

func validateCow(cow *models.MCow) error {
	cow.Name = strings.TrimSpace(cow.Name)
	if cow.Name == "" {
		return helpers.NewValidationError("Cow name is required")
	}
	if cow.HealthStatus == "" {
		cow.HealthStatus = models.HealthHealthy
	}
	if !models.ValidHealthStatus(cow.HealthStatus) {
		return helpers.NewValidationError("Unknown health status %q", cow.HealthStatus)
	}
	if cow.Age < 0 {
		return helpers.NewValidationError("Age cannot be negative")
	}
	if cow.BodyWeight.IsNegative() {
		return helpers.NewValidationError("Body weight cannot be negative")
	}
	return nil
}

// -----------------------------------------------------------------------------

// Archive retires a cow. The archive date defaults to today.
func (s *CowService) Archive(ctx context.Context, id int64, req models.MArchiveRequest) (models.MCow, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return models.MCow{}, helpers.NewValidationError("An archive reason is required")
	}
	req.ArchiveDate = s.clock.orToday(req.ArchiveDate)
	return s.Repo.Archive(ctx, id, req)
}

func (s *CowService) UpdateHealth(ctx context.Context, id int64, req models.MHealthUpdate) (models.MCow, error) {
	if !models.ValidHealthStatus(req.HealthStatus) {
		return models.MCow{}, helpers.NewValidationError("Unknown health status %q", req.HealthStatus)
	}
	if req.HealthStatus == models.HealthUnderTreatment && req.TreatmentUntil == nil {
		return models.MCow{}, helpers.NewValidationError("Treatment end date is required for UNDER_TREATMENT")
	}
	return s.Repo.UpdateHealth(ctx, id, req)
}

func (s *CowService) Eligibility(ctx context.Context, id int64) (models.MMilkCollectionEligibility, error) {
	return s.Repo.Eligibility(ctx, id)
}

// -----------------------------------------------------------------------------

// AverageProduction is the mean daily yield of the cow over its most recent
// days*MilkingsPerDay records, however old they are.
func (s *CowService) AverageProduction(ctx context.Context, id int64, days int) (decimal.Decimal, error) {
	if err := validDays(days); err != nil {
		return decimal.Zero, err
	}
	entries, err := s.cowEntries(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.CalculateCowAverageProduction(id, entries, days), nil
}

// ProductionStats adds spread and best day to the average, over the last
// days calendar days.
func (s *CowService) ProductionStats(ctx context.Context, id int64, days int) (models.MProductionStats, error) {
	if err := validDays(days); err != nil {
		return models.MProductionStats{}, err
	}
	entries, err := s.cowEntries(ctx, id)
	if err != nil {
		return models.MProductionStats{}, err
	}
	today := s.clock.today()
	entries = analysis.FilterMilkIn(entries, analysis.DateRange{From: today.AddDays(-(days - 1)), To: today})

	stats := s.Analysis.ProductionStats(id, entries)
	for _, d := range s.Analysis.ProductionDrops(id, entries) {
		stats.LowDays = append(stats.LowDays, d.Date)
	}
	return stats, nil
}

func validDays(days int) error {
	if days <= 0 || days > utils.MaxProductionDays {
		return helpers.NewValidationError("Days must be between 1 and %d", utils.MaxProductionDays)
	}
	return nil
}

// cowEntries lists every milk-in record of the cow with a single unfiltered
// call, falling back to the mirrored ledger when the backend is unreachable.
func (s *CowService) cowEntries(ctx context.Context, cowID int64) ([]models.MMilkInEntry, error) {
	all, err := s.MilkIn.ListByDate(ctx, models.Date{})
	if err == nil {
		entries := make([]models.MMilkInEntry, 0, len(all))
		for _, e := range all {
			if e.CowID == cowID {
				entries = append(entries, e)
			}
		}
		return entries, nil
	}
	if s.Ledger == nil {
		return nil, err
	}

	switch helpers.KindOf(err) {
	case helpers.KindNetwork, helpers.KindTimeout, helpers.KindServer:
	default:
		return nil, err
	}
	local, lerr := s.Ledger.LoadMilkInEntries(ctx, cowID)
	if lerr != nil {
		s.Logger.Warning("Ledger fallback for cow %d failed: %v", cowID, lerr)
		return nil, err
	}
	s.Logger.Info("Backend unavailable, using %d mirrored entries for cow %d", len(local), cowID)
	return local, nil
}
