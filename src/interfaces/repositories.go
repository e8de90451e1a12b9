package interfaces

import (
	"context"

	"milk-admin/src/models"
)

// -----------------------------------------------------------------------------
// Repository contracts consumed by the services. A nil error with an empty
// slice means the server really has no records.
// -----------------------------------------------------------------------------

type ICowRepository interface {
	List(ctx context.Context) ([]models.MCow, error)
	Get(ctx context.Context, id int64) (models.MCow, error)
	Create(ctx context.Context, cow models.MCow) (models.MCow, error)
	Update(ctx context.Context, id int64, cow models.MCow) (models.MCow, error)
	Delete(ctx context.Context, id int64) error
	Archive(ctx context.Context, id int64, req models.MArchiveRequest) (models.MCow, error)
	UpdateHealth(ctx context.Context, id int64, req models.MHealthUpdate) (models.MCow, error)
	Eligibility(ctx context.Context, id int64) (models.MMilkCollectionEligibility, error)
}

// -----------------------------------------------------------------------------

type IMemberRepository interface {
	List(ctx context.Context) ([]models.MMember, error)
	Get(ctx context.Context, id int64) (models.MMember, error)
	Create(ctx context.Context, m models.MMember) (models.MMember, error)
	Update(ctx context.Context, id int64, m models.MMember) (models.MMember, error)
	Delete(ctx context.Context, id int64) error
}

// -----------------------------------------------------------------------------

type ICustomerRepository interface {
	List(ctx context.Context) ([]models.MCustomer, error)
	Create(ctx context.Context, c models.MCustomer) (models.MCustomer, error)
	Update(ctx context.Context, id int64, c models.MCustomer) (models.MCustomer, error)
	Delete(ctx context.Context, id int64) error
}

// -----------------------------------------------------------------------------

type IMilkInRepository interface {
	ListByDate(ctx context.Context, date models.Date) ([]models.MMilkInEntry, error)
	Create(ctx context.Context, e models.MMilkInEntry) (models.MMilkInEntry, error)
	Delete(ctx context.Context, id int64) error
}

type IMilkOutRepository interface {
	ListByDate(ctx context.Context, date models.Date) ([]models.MMilkOutEntry, error)
	Create(ctx context.Context, e models.MMilkOutEntry) (models.MMilkOutEntry, error)
	Delete(ctx context.Context, id int64) error
}

type ISpoilageRepository interface {
	ListByDate(ctx context.Context, date models.Date) ([]models.MMilkSpoiltEntry, error)
	Create(ctx context.Context, e models.MMilkSpoiltEntry) (models.MMilkSpoiltEntry, error)
	Delete(ctx context.Context, id int64) error
}

// -----------------------------------------------------------------------------

type ISummaryRepository interface {
	StockSummary(ctx context.Context) (models.MStockSummary, error)
	EarningsSummary(ctx context.Context) (models.MEarningsSummary, error)
	CowSummary(ctx context.Context) (models.MCowSummary, error)
	MilkAnalytics(ctx context.Context, date models.Date) (models.MMilkAnalytics, error)
}
