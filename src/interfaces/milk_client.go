package interfaces

import (
	"context"

	"milk-admin/src/models"
)

// -----------------------------------------------------------------------------
// IMilkClient is one method per backend endpoint.
// -----------------------------------------------------------------------------

type IMilkClient interface {
	// Cows
	ListCows(ctx context.Context) ([]models.MCow, error)
	GetCow(ctx context.Context, id int64) (models.MCow, error)
	CreateCow(ctx context.Context, cow models.MCow) (models.MCow, error)
	UpdateCow(ctx context.Context, id int64, cow models.MCow) (models.MCow, error)
	DeleteCow(ctx context.Context, id int64) error
	ArchiveCow(ctx context.Context, id int64, req models.MArchiveRequest) (models.MCow, error)
	UpdateCowHealth(ctx context.Context, id int64, req models.MHealthUpdate) (models.MCow, error)
	GetCowEligibility(ctx context.Context, id int64) (models.MMilkCollectionEligibility, error)

	// Members
	ListMembers(ctx context.Context) ([]models.MMember, error)
	GetMember(ctx context.Context, id int64) (models.MMember, error)
	CreateMember(ctx context.Context, m models.MMember) (models.MMember, error)
	UpdateMember(ctx context.Context, id int64, m models.MMember) (models.MMember, error)
	DeleteMember(ctx context.Context, id int64) error

	// Customers
	ListCustomers(ctx context.Context) ([]models.MCustomer, error)
	CreateCustomer(ctx context.Context, c models.MCustomer) (models.MCustomer, error)
	UpdateCustomer(ctx context.Context, id int64, c models.MCustomer) (models.MCustomer, error)
	DeleteCustomer(ctx context.Context, id int64) error

	// Milk entries
	ListMilkIn(ctx context.Context, date models.Date) ([]models.MMilkInEntry, error)
	CreateMilkIn(ctx context.Context, e models.MMilkInEntry) (models.MMilkInEntry, error)
	DeleteMilkIn(ctx context.Context, id int64) error
	ListMilkOut(ctx context.Context, date models.Date) ([]models.MMilkOutEntry, error)
	CreateMilkOut(ctx context.Context, e models.MMilkOutEntry) (models.MMilkOutEntry, error)
	DeleteMilkOut(ctx context.Context, id int64) error
	ListMilkSpoilt(ctx context.Context, date models.Date) ([]models.MMilkSpoiltEntry, error)
	CreateMilkSpoilt(ctx context.Context, e models.MMilkSpoiltEntry) (models.MMilkSpoiltEntry, error)
	DeleteMilkSpoilt(ctx context.Context, id int64) error

	// Summaries
	GetStockSummary(ctx context.Context) (models.MStockSummary, error)
	GetEarningsSummary(ctx context.Context) (models.MEarningsSummary, error)
	GetCowSummary(ctx context.Context) (models.MCowSummary, error)
	GetMilkAnalytics(ctx context.Context, date models.Date) (models.MMilkAnalytics, error)
}
