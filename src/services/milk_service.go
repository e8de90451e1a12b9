package services

import (
	"context"

	"milk-admin/src/helpers"
	"milk-admin/src/interfaces"
	"milk-admin/src/inventory"
	"milk-admin/src/logger"
	"milk-admin/src/models"
)

// -----------------------------------------------------------------------------
// Milk-in
// -----------------------------------------------------------------------------

type MilkInService struct {
	Repo      interfaces.IMilkInRepository
	Inventory *inventory.InventoryManager
	Logger    *logger.Logger

	clock clock
}

func (s *MilkInService) ListByDate(ctx context.Context, date models.Date) ([]models.MMilkInEntry, error) {
	return s.Repo.ListByDate(ctx, s.clock.orToday(date))
}

// Add records a milking and, once the backend accepts it, adds it to stock.
// A blocked cow comes back as *helpers.MilkCollectionBlockedError.
func (s *MilkInService) Add(ctx context.Context, e models.MMilkInEntry) (models.MMilkInEntry, error) {
	if e.CowID <= 0 {
		return models.MMilkInEntry{}, helpers.NewValidationError("Select a cow")
	}
	if !e.Liters.IsPositive() {
		return models.MMilkInEntry{}, helpers.NewValidationError("Liters must be greater than 0")
	}
	switch e.MilkingType {
	case models.MilkingMorning, models.MilkingEvening:
	case "":
		e.MilkingType = models.MilkingMorning
	default:
		return models.MMilkInEntry{}, helpers.NewValidationError("Milking type must be MORNING or EVENING")
	}
	e.Date = s.clock.orToday(e.Date)
	e.ID = nil

	s.Inventory.BeginMutation()
	defer s.Inventory.EndMutation()

	created, err := s.Repo.Create(ctx, e)
	if err != nil {
		return models.MMilkInEntry{}, err
	}
	s.Inventory.OnMilkInAdded(created)
	s.Logger.Info("Milk-in %s L from cow %d (%s)", created.Liters.String(), created.CowID, created.MilkingType)
	return created, nil
}

// Delete removes the entry on the server. Stock follows on the next sync.
func (s *MilkInService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

// -----------------------------------------------------------------------------
// Milk-out
// -----------------------------------------------------------------------------

type MilkOutService struct {
	Repo      interfaces.IMilkOutRepository
	Inventory *inventory.InventoryManager
	Logger    *logger.Logger

	clock clock
}

func (s *MilkOutService) ListByDate(ctx context.Context, date models.Date) ([]models.MMilkOutEntry, error) {
	return s.Repo.ListByDate(ctx, s.clock.orToday(date))
}

// Sell validates the sale against the reconciled stock before sending it.
func (s *MilkOutService) Sell(ctx context.Context, e models.MMilkOutEntry) (models.MMilkOutEntry, error) {
	if e.CustomerID <= 0 {
		return models.MMilkOutEntry{}, helpers.NewValidationError("Select a customer")
	}
	if !e.QuantitySold.IsPositive() {
		return models.MMilkOutEntry{}, helpers.NewValidationError("Quantity must be greater than 0")
	}
	if !e.PricePerLiter.IsPositive() {
		return models.MMilkOutEntry{}, helpers.NewValidationError("Price per liter must be greater than 0")
	}
	if e.PaymentMode == "" {
		e.PaymentMode = models.PaymentCash
	}
	if !models.ValidPaymentMode(e.PaymentMode) {
		return models.MMilkOutEntry{}, helpers.NewValidationError("Unknown payment mode %q", e.PaymentMode)
	}
	if available := s.Inventory.Inventory().CurrentStock; e.QuantitySold.GreaterThan(available) {
		return models.MMilkOutEntry{}, helpers.NewValidationError("Insufficient stock: %s L available", available.String())
	}
	e.Date = s.clock.orToday(e.Date)
	e.ID = nil

	s.Inventory.BeginMutation()
	defer s.Inventory.EndMutation()

	created, err := s.Repo.Create(ctx, e)
	if err != nil {
		return models.MMilkOutEntry{}, err
	}
	s.Inventory.OnMilkOutSold(created)
	return created, nil
}

func (s *MilkOutService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

// -----------------------------------------------------------------------------
// Spoilage
// -----------------------------------------------------------------------------

type SpoilageService struct {
	Repo      interfaces.ISpoilageRepository
	Inventory *inventory.InventoryManager
	Logger    *logger.Logger

	clock clock
}

func (s *SpoilageService) ListByDate(ctx context.Context, date models.Date) ([]models.MMilkSpoiltEntry, error) {
	return s.Repo.ListByDate(ctx, s.clock.orToday(date))
}

func (s *SpoilageService) Record(ctx context.Context, e models.MMilkSpoiltEntry) (models.MMilkSpoiltEntry, error) {
	if !e.AmountSpoilt.IsPositive() {
		return models.MMilkSpoiltEntry{}, helpers.NewValidationError("Spoilt amount must be greater than 0")
	}
	if e.LossAmount.IsNegative() {
		return models.MMilkSpoiltEntry{}, helpers.NewValidationError("Loss amount cannot be negative")
	}
	e.Date = s.clock.orToday(e.Date)
	e.ID = nil

	s.Inventory.BeginMutation()
	defer s.Inventory.EndMutation()

	created, err := s.Repo.Create(ctx, e)
	if err != nil {
		return models.MMilkSpoiltEntry{}, err
	}
	s.Inventory.OnMilkSpoiled(created)
	s.Logger.Info("Recorded %s L spoilt (%s)", created.AmountSpoilt.String(), created.Cause)
	return created, nil
}

func (s *SpoilageService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
