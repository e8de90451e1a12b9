package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"milk-admin/src/helpers"
	"milk-admin/src/interfaces"
	"milk-admin/src/inventory"
	"milk-admin/src/logger"
	"milk-admin/src/models"
)

type MemberService struct {
	Repo   interfaces.IMemberRepository
	Cows   interfaces.ICowRepository
	MilkIn interfaces.IMilkInRepository
	Logger *logger.Logger

	clock clock
}

// -----------------------------------------------------------------------------

func (s *MemberService) List(ctx context.Context, search string) ([]models.MMember, error) {
	members, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.MMember, 0, len(members))
	for _, m := range members {
		if matches(search, m.Name, m.Phone, m.Email, m.Location) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemberService) Get(ctx context.Context, id int64) (models.MMember, error) {
	return s.Repo.Get(ctx, id)
}

func (s *MemberService) Create(ctx context.Context, m models.MMember) (models.MMember, error) {
	if err := validateContact(&m.Name, m.Phone, m.Email); err != nil {
		return models.MMember{}, err
	}
	m.ID = nil
	m.IsActive = true
	return s.Repo.Create(ctx, m)
}

func (s *MemberService) Update(ctx context.Context, id int64, m models.MMember) (models.MMember, error) {
	if err := validateContact(&m.Name, m.Phone, m.Email); err != nil {
		return models.MMember{}, err
	}
	m.ID = &id
	return s.Repo.Update(ctx, id, m)
}

func (s *MemberService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

// -----------------------------------------------------------------------------

// DailyProduction is the member's total liters on date (today when unset),
// counting only cows that are currently active.
func (s *MemberService) DailyProduction(ctx context.Context, id int64, date models.Date) (decimal.Decimal, error) {
	date = s.clock.orToday(date)

	cows, err := s.Cows.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	owned := make([]models.MCow, 0)
	for _, c := range cows {
		if c.OwnerID != nil && *c.OwnerID == id {
			owned = append(owned, c)
		}
	}

	entries, err := s.MilkIn.ListByDate(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.CalculateMemberDailyProduction(id, entries, owned, date), nil
}

// -----------------------------------------------------------------------------

type CustomerService struct {
	Repo   interfaces.ICustomerRepository
	Logger *logger.Logger
}

func (s *CustomerService) List(ctx context.Context, search string) ([]models.MCustomer, error) {
	customers, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.MCustomer, 0, len(customers))
	for _, c := range customers {
		if matches(search, c.Name, c.Phone, c.Email, c.Location) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CustomerService) Create(ctx context.Context, c models.MCustomer) (models.MCustomer, error) {
	if err := validateContact(&c.Name, c.Phone, c.Email); err != nil {
		return models.MCustomer{}, err
	}
	c.ID = nil
	return s.Repo.Create(ctx, c)
}

func (s *CustomerService) Update(ctx context.Context, id int64, c models.MCustomer) (models.MCustomer, error) {
	if err := validateContact(&c.Name, c.Phone, c.Email); err != nil {
		return models.MCustomer{}, err
	}
	c.ID = &id
	return s.Repo.Update(ctx, id, c)
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}

// -----------------------------------------------------------------------------

func validateContact(name *string, phone, email string) error {
	*name = strings.TrimSpace(*name)
	if *name == "" {
		return helpers.NewValidationError("Name is required")
	}
	if email != "" && !strings.Contains(email, "@") {
		return helpers.NewValidationError("Invalid email address %q", email)
	}
	for _, r := range phone {
		if !strings.ContainsRune("+0123456789 -", r) {
			return helpers.NewValidationError("Invalid phone number %q", phone)
		}
	}
	return nil
}
