package repository

import (
	"context"
	"fmt"

	"milk-admin/src/models"
)

type CowRepository struct{ base }

func (r *CowRepository) List(ctx context.Context) ([]models.MCow, error) {
	cows, err := r.Client.ListCows(ctx)
	if err != nil {
		return nil, r.fail("list cows", err)
	}
	return nonNil(cows), nil
}

func (r *CowRepository) Get(ctx context.Context, id int64) (models.MCow, error) {
	cow, err := r.Client.GetCow(ctx, id)
	if err != nil {
		return models.MCow{}, r.fail(fmt.Sprintf("get cow %d", id), err)
	}
	return cow, nil
}

func (r *CowRepository) Create(ctx context.Context, cow models.MCow) (models.MCow, error) {
	created, err := r.Client.CreateCow(ctx, cow)
	if err != nil {
		return models.MCow{}, r.fail("create cow", err)
	}
	r.Logger.Info("Created cow %q (id %d)", created.Name, created.IDValue())
	return created, nil
}

func (r *CowRepository) Update(ctx context.Context, id int64, cow models.MCow) (models.MCow, error) {
	updated, err := r.Client.UpdateCow(ctx, id, cow)
	if err != nil {
		return models.MCow{}, r.fail(fmt.Sprintf("update cow %d", id), err)
	}
	return updated, nil
}

func (r *CowRepository) Delete(ctx context.Context, id int64) error {
	if err := r.Client.DeleteCow(ctx, id); err != nil {
		return r.fail(fmt.Sprintf("delete cow %d", id), err)
	}
	return nil
}

func (r *CowRepository) Archive(ctx context.Context, id int64, req models.MArchiveRequest) (models.MCow, error) {
	cow, err := r.Client.ArchiveCow(ctx, id, req)
	if err != nil {
		return models.MCow{}, r.fail(fmt.Sprintf("archive cow %d", id), err)
	}
	r.Logger.Info("Archived cow %d: %s", id, req.Reason)
	return cow, nil
}

func (r *CowRepository) UpdateHealth(ctx context.Context, id int64, req models.MHealthUpdate) (models.MCow, error) {
	cow, err := r.Client.UpdateCowHealth(ctx, id, req)
	if err != nil {
		return models.MCow{}, r.fail(fmt.Sprintf("update health of cow %d", id), err)
	}
	return cow, nil
}

func (r *CowRepository) Eligibility(ctx context.Context, id int64) (models.MMilkCollectionEligibility, error) {
	el, err := r.Client.GetCowEligibility(ctx, id)
	if err != nil {
		return models.MMilkCollectionEligibility{}, r.fail(fmt.Sprintf("eligibility of cow %d", id), err)
	}
	return el, nil
}
