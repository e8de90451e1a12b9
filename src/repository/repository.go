// Package repository adapts the backend client to the per-entity contracts the
// services consume. Failures are returned, not swallowed: a nil error with an
// empty slice means the server has no records.
package repository

import (
	"errors"
	"fmt"

	"milk-admin/src/helpers"
	"milk-admin/src/interfaces"
	"milk-admin/src/logger"
	"milk-admin/src/models"
)

// Repositories bundles one repository per entity over a shared client.
type Repositories struct {
	Cows      *CowRepository
	Members   *MemberRepository
	Customers *CustomerRepository
	MilkIn    *MilkInRepository
	MilkOut   *MilkOutRepository
	Spoilage  *SpoilageRepository
	Summaries *SummaryRepository
}

// -----------------------------------------------------------------------------

func NewRepositories(cfg *models.MConfig, client interfaces.IMilkClient) *Repositories {
	newBase := func(name string) base {
		return base{Client: client, Logger: logger.NewLogger(cfg, name)}
	}
	return &Repositories{
		Cows:      &CowRepository{newBase("CowRepository")},
		Members:   &MemberRepository{newBase("MemberRepository")},
		Customers: &CustomerRepository{newBase("CustomerRepository")},
		MilkIn:    &MilkInRepository{newBase("MilkInRepository")},
		MilkOut:   &MilkOutRepository{newBase("MilkOutRepository")},
		Spoilage:  &SpoilageRepository{newBase("SpoilageRepository")},
		Summaries: &SummaryRepository{newBase("SummaryRepository")},
	}
}

// -----------------------------------------------------------------------------

type base struct {
	Client interfaces.IMilkClient
	Logger *logger.Logger
}

// fail logs and wraps err with the operation name.
func (b base) fail(op string, err error) error {
	switch helpers.KindOf(err) {
	case helpers.KindNotFound, helpers.KindBadRequest, helpers.KindMilkCollectionBlocked:
		b.Logger.Warning("%s: %v", op, err)
	default:
		b.Logger.Error("%s failed: %v", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// asBlocked returns the milk-collection-blocked error itself so callers get
// its structured fields without unwrapping.
func asBlocked(err error) (*helpers.MilkCollectionBlockedError, bool) {
	var blocked *helpers.MilkCollectionBlockedError
	if errors.As(err, &blocked) {
		return blocked, true
	}
	return nil, false
}

var (
	_ interfaces.ICowRepository      = (*CowRepository)(nil)
	_ interfaces.IMemberRepository   = (*MemberRepository)(nil)
	_ interfaces.ICustomerRepository = (*CustomerRepository)(nil)
	_ interfaces.IMilkInRepository   = (*MilkInRepository)(nil)
	_ interfaces.IMilkOutRepository  = (*MilkOutRepository)(nil)
	_ interfaces.ISpoilageRepository = (*SpoilageRepository)(nil)
	_ interfaces.ISummaryRepository  = (*SummaryRepository)(nil)
)
