package repository

import (
	"context"
	"fmt"

	"milk-admin/src/models"
)

type MilkInRepository struct{ base }

func (r *MilkInRepository) ListByDate(ctx context.Context, date models.Date) ([]models.MMilkInEntry, error) {
	entries, err := r.Client.ListMilkIn(ctx, date)
	if err != nil {
		return nil, r.fail("list milk-in for "+date.String(), err)
	}
	return nonNil(entries), nil
}

// Create returns a milk-collection-blocked failure as the
// *helpers.MilkCollectionBlockedError itself, unwrapped.
func (r *MilkInRepository) Create(ctx context.Context, e models.MMilkInEntry) (models.MMilkInEntry, error) {
	created, err := r.Client.CreateMilkIn(ctx, e)
	if err != nil {
		if blocked, ok := asBlocked(err); ok {
			r.Logger.Warning("Milk collection blocked for cow %d: %s", blocked.CowID, blocked.HealthStatus)
			return models.MMilkInEntry{}, blocked
		}
		return models.MMilkInEntry{}, r.fail(fmt.Sprintf("create milk-in for cow %d", e.CowID), err)
	}
	return created, nil
}

func (r *MilkInRepository) Delete(ctx context.Context, id int64) error {
	if err := r.Client.DeleteMilkIn(ctx, id); err != nil {
		return r.fail(fmt.Sprintf("delete milk-in %d", id), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

type MilkOutRepository struct{ base }

func (r *MilkOutRepository) ListByDate(ctx context.Context, date models.Date) ([]models.MMilkOutEntry, error) {
	entries, err := r.Client.ListMilkOut(ctx, date)
	if err != nil {
		return nil, r.fail("list milk-out for "+date.String(), err)
	}
	return nonNil(entries), nil
}

func (r *MilkOutRepository) Create(ctx context.Context, e models.MMilkOutEntry) (models.MMilkOutEntry, error) {
	created, err := r.Client.CreateMilkOut(ctx, e)
	if err != nil {
		return models.MMilkOutEntry{}, r.fail("create milk-out", err)
	}
	return created, nil
}

func (r *MilkOutRepository) Delete(ctx context.Context, id int64) error {
	if err := r.Client.DeleteMilkOut(ctx, id); err != nil {
		return r.fail(fmt.Sprintf("delete milk-out %d", id), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

type SpoilageRepository struct{ base }

func (r *SpoilageRepository) ListByDate(ctx context.Context, date models.Date) ([]models.MMilkSpoiltEntry, error) {
	entries, err := r.Client.ListMilkSpoilt(ctx, date)
	if err != nil {
		return nil, r.fail("list spoilage for "+date.String(), err)
	}
	return nonNil(entries), nil
}

func (r *SpoilageRepository) Create(ctx context.Context, e models.MMilkSpoiltEntry) (models.MMilkSpoiltEntry, error) {
	created, err := r.Client.CreateMilkSpoilt(ctx, e)
	if err != nil {
		return models.MMilkSpoiltEntry{}, r.fail("record spoilage", err)
	}
	return created, nil
}

func (r *SpoilageRepository) Delete(ctx context.Context, id int64) error {
	if err := r.Client.DeleteMilkSpoilt(ctx, id); err != nil {
		return r.fail(fmt.Sprintf("delete spoilage %d", id), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

type SummaryRepository struct{ base }

func (r *SummaryRepository) StockSummary(ctx context.Context) (models.MStockSummary, error) {
	s, err := r.Client.GetStockSummary(ctx)
	if err != nil {
		return models.MStockSummary{}, r.fail("stock summary", err)
	}
	return s, nil
}

func (r *SummaryRepository) EarningsSummary(ctx context.Context) (models.MEarningsSummary, error) {
	s, err := r.Client.GetEarningsSummary(ctx)
	if err != nil {
		return models.MEarningsSummary{}, r.fail("earnings summary", err)
	}
	return s, nil
}

func (r *SummaryRepository) CowSummary(ctx context.Context) (models.MCowSummary, error) {
	s, err := r.Client.GetCowSummary(ctx)
	if err != nil {
		return models.MCowSummary{}, r.fail("cow summary", err)
	}
	return s, nil
}

func (r *SummaryRepository) MilkAnalytics(ctx context.Context, date models.Date) (models.MMilkAnalytics, error) {
	a, err := r.Client.GetMilkAnalytics(ctx, date)
	if err != nil {
		return models.MMilkAnalytics{}, r.fail("milk analytics for "+date.String(), err)
	}
	return a, nil
}
