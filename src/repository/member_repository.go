package repository

import (
	"context"
	"fmt"

	"milk-admin/src/models"
)

type MemberRepository struct{ base }

func (r *MemberRepository) List(ctx context.Context) ([]models.MMember, error) {
	members, err := r.Client.ListMembers(ctx)
	if err != nil {
		return nil, r.fail("list members", err)
	}
	return nonNil(members), nil
}

func (r *MemberRepository) Get(ctx context.Context, id int64) (models.MMember, error) {
	m, err := r.Client.GetMember(ctx, id)
	if err != nil {
		return models.MMember{}, r.fail(fmt.Sprintf("get member %d", id), err)
	}
	return m, nil
}

func (r *MemberRepository) Create(ctx context.Context, m models.MMember) (models.MMember, error) {
	created, err := r.Client.CreateMember(ctx, m)
	if err != nil {
		return models.MMember{}, r.fail("create member", err)
	}
	return created, nil
}

func (r *MemberRepository) Update(ctx context.Context, id int64, m models.MMember) (models.MMember, error) {
	updated, err := r.Client.UpdateMember(ctx, id, m)
	if err != nil {
		return models.MMember{}, r.fail(fmt.Sprintf("update member %d", id), err)
	}
	return updated, nil
}

func (r *MemberRepository) Delete(ctx context.Context, id int64) error {
	if err := r.Client.DeleteMember(ctx, id); err != nil {
		return r.fail(fmt.Sprintf("delete member %d", id), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

type CustomerRepository struct{ base }

func (r *CustomerRepository) List(ctx context.Context) ([]models.MCustomer, error) {
	customers, err := r.Client.ListCustomers(ctx)
	if err != nil {
		return nil, r.fail("list customers", err)
	}
	return nonNil(customers), nil
}

func (r *CustomerRepository) Create(ctx context.Context, c models.MCustomer) (models.MCustomer, error) {
	created, err := r.Client.CreateCustomer(ctx, c)
	if err != nil {
		return models.MCustomer{}, r.fail("create customer", err)
	}
	return created, nil
}

func (r *CustomerRepository) Update(ctx context.Context, id int64, c models.MCustomer) (models.MCustomer, error) {
	updated, err := r.Client.UpdateCustomer(ctx, id, c)
	if err != nil {
		return models.MCustomer{}, r.fail(fmt.Sprintf("update customer %d", id), err)
	}
	return updated, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	if err := r.Client.DeleteCustomer(ctx, id); err != nil {
		return r.fail(fmt.Sprintf("delete customer %d", id), err)
	}
	return nil
}
