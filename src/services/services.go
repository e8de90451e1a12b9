// Package services is the view-model layer: input validation, list filtering,
// and applying successful mutations to the inventory manager.
package services

import (
	"strings"
	"time"

	"milk-admin/src/analysis"
	"milk-admin/src/interfaces"
	"milk-admin/src/inventory"
	"milk-admin/src/logger"
	"milk-admin/src/models"
	"milk-admin/src/repository"
)

// Services bundles every view-model over shared dependencies.
type Services struct {
	Cows      *CowService
	Members   *MemberService
	Customers *CustomerService
	MilkIn    *MilkInService
	MilkOut   *MilkOutService
	Spoilage  *SpoilageService
	Dashboard *DashboardService
}

// Deps are the collaborators shared by the services.
type Deps struct {
	Config    *models.MConfig
	Repos     *repository.Repositories
	Inventory *inventory.InventoryManager
	Analysis  *analysis.AnalysisFacade
	Ledger    interfaces.IDatabase
	Now       func() time.Time
}

// -----------------------------------------------------------------------------

func NewServices(d Deps) *Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Analysis == nil {
		d.Analysis = analysis.NewAnalysisFacade(d.Config, nil)
	}
	c := clock(d.Now)

	return &Services{
		Cows: &CowService{
			Repo:     d.Repos.Cows,
			MilkIn:   d.Repos.MilkIn,
			Analysis: d.Analysis,
			Ledger:   d.Ledger,
			Logger:   logger.NewLogger(d.Config, "CowService"),
			clock:    c,
		},
		Members: &MemberService{
			Repo:   d.Repos.Members,
			Cows:   d.Repos.Cows,
			MilkIn: d.Repos.MilkIn,
			Logger: logger.NewLogger(d.Config, "MemberService"),
			clock:  c,
		},
		Customers: &CustomerService{
			Repo:   d.Repos.Customers,
			Logger: logger.NewLogger(d.Config, "CustomerService"),
		},
		MilkIn: &MilkInService{
			Repo:      d.Repos.MilkIn,
			Inventory: d.Inventory,
			Logger:    logger.NewLogger(d.Config, "MilkInService"),
			clock:     c,
		},
		MilkOut: &MilkOutService{
			Repo:      d.Repos.MilkOut,
			Inventory: d.Inventory,
			Logger:    logger.NewLogger(d.Config, "MilkOutService"),
			clock:     c,
		},
		Spoilage: &SpoilageService{
			Repo:      d.Repos.Spoilage,
			Inventory: d.Inventory,
			Logger:    logger.NewLogger(d.Config, "SpoilageService"),
			clock:     c,
		},
		Dashboard: &DashboardService{
			Summaries: d.Repos.Summaries,
			Inventory: d.Inventory,
			Logger:    logger.NewLogger(d.Config, "DashboardService"),
			clock:     c,
		},
	}
}

// -----------------------------------------------------------------------------

type clock func() time.Time

func (c clock) today() models.Date {
	return models.NewDate(c())
}

// orToday returns d, or today when d is unset.
func (c clock) orToday(d models.Date) models.Date {
	if d.IsZero() {
		return c.today()
	}
	return d
}

func matches(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
