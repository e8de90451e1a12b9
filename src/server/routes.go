package server

import (
	"fmt"
	"net/http"
	"strconv"

	"milk-admin/src/models"
	"milk-admin/src/services"
	"milk-admin/src/utils"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Cows
// -----------------------------------------------------------------------------

func (s *FastAPIServer) listCows(c *gin.Context) {
	f := services.CowFilter{
		Search:       c.Query("search"),
		HealthStatus: c.Query("healthStatus"),
	}
	if v := c.Query("ownerId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			badRequest(c, "Invalid ownerId")
			return
		}
		f.OwnerID = id
	}
	f.IncludeArchived, _ = strconv.ParseBool(c.Query("includeArchived"))

	cows, err := s.Services.Cows.List(c.Request.Context(), f)
	respond(c, http.StatusOK, cows, err)
}

func (s *FastAPIServer) getCow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cow, err := s.Services.Cows.Get(c.Request.Context(), id)
	respond(c, http.StatusOK, cow, err)
}

func (s *FastAPIServer) createCow(c *gin.Context) {
	var cow models.MCow
	if !bindJSON(c, &cow) {
		return
	}
	created, err := s.Services.Cows.Create(c.Request.Context(), cow)
	respond(c, http.StatusCreated, created, err)
}

func (s *FastAPIServer) updateCow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var cow models.MCow
	if !bindJSON(c, &cow) {
		return
	}
	updated, err := s.Services.Cows.Update(c.Request.Context(), id, cow)
	respond(c, http.StatusOK, updated, err)
}

func (s *FastAPIServer) deleteCow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	respondNoContent(c, s.Services.Cows.Delete(c.Request.Context(), id))
}

func (s *FastAPIServer) archiveCow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.MArchiveRequest
	if !bindJSON(c, &req) {
		return
	}
	cow, err := s.Services.Cows.Archive(c.Request.Context(), id, req)
	respond(c, http.StatusOK, cow, err)
}

func (s *FastAPIServer) updateCowHealth(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.MHealthUpdate
	if !bindJSON(c, &req) {
		return
	}
	cow, err := s.Services.Cows.UpdateHealth(c.Request.Context(), id, req)
	respond(c, http.StatusOK, cow, err)
}

func (s *FastAPIServer) cowEligibility(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, err := s.Services.Cows.Eligibility(c.Request.Context(), id)
	respond(c, http.StatusOK, e, err)
}

// cowProduction returns the spread, best day and low days over ?days.
func (s *FastAPIServer) cowProduction(c *gin.Context) {
	id, days, ok := cowDays(c)
	if !ok {
		return
	}
	stats, err := s.Services.Cows.ProductionStats(c.Request.Context(), id, days)
	respond(c, http.StatusOK, stats, err)
}

func (s *FastAPIServer) cowAverage(c *gin.Context) {
	id, days, ok := cowDays(c)
	if !ok {
		return
	}
	avg, err := s.Services.Cows.AverageProduction(c.Request.Context(), id, days)
	respond(c, http.StatusOK, gin.H{"cowId": id, "days": days, "averageDaily": avg}, err)
}

// cowDays reads the cow id and ?days (default 7, at most MaxProductionDays).
func cowDays(c *gin.Context) (int64, int, bool) {
	id, ok := pathID(c)
	if !ok {
		return 0, 0, false
	}
	days := 7
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > utils.MaxProductionDays {
			badRequest(c, fmt.Sprintf("Days must be between 1 and %d", utils.MaxProductionDays))
			return 0, 0, false
		}
		days = n
	}
	return id, days, true
}

// -----------------------------------------------------------------------------
// Members and customers
// -----------------------------------------------------------------------------

func (s *FastAPIServer) listMembers(c *gin.Context) {
	members, err := s.Services.Members.List(c.Request.Context(), c.Query("search"))
	respond(c, http.StatusOK, members, err)
}

func (s *FastAPIServer) getMember(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := s.Services.Members.Get(c.Request.Context(), id)
	respond(c, http.StatusOK, m, err)
}

func (s *FastAPIServer) createMember(c *gin.Context) {
	var m models.MMember
	if !bindJSON(c, &m) {
		return
	}
	created, err := s.Services.Members.Create(c.Request.Context(), m)
	respond(c, http.StatusCreated, created, err)
}

func (s *FastAPIServer) updateMember(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var m models.MMember
	if !bindJSON(c, &m) {
		return
	}
	updated, err := s.Services.Members.Update(c.Request.Context(), id, m)
	respond(c, http.StatusOK, updated, err)
}

func (s *FastAPIServer) deleteMember(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	respondNoContent(c, s.Services.Members.Delete(c.Request.Context(), id))
}

func (s *FastAPIServer) memberProduction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	date, ok := queryDate(c)
	if !ok {
		return
	}
	liters, err := s.Services.Members.DailyProduction(c.Request.Context(), id, date)
	respond(c, http.StatusOK, gin.H{"memberId": id, "date": date, "liters": liters}, err)
}

func (s *FastAPIServer) listCustomers(c *gin.Context) {
	customers, err := s.Services.Customers.List(c.Request.Context(), c.Query("search"))
	respond(c, http.StatusOK, customers, err)
}

func (s *FastAPIServer) createCustomer(c *gin.Context) {
	var cust models.MCustomer
	if !bindJSON(c, &cust) {
		return
	}
	created, err := s.Services.Customers.Create(c.Request.Context(), cust)
	respond(c, http.StatusCreated, created, err)
}

func (s *FastAPIServer) updateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var cust models.MCustomer
	if !bindJSON(c, &cust) {
		return
	}
	updated, err := s.Services.Customers.Update(c.Request.Context(), id, cust)
	respond(c, http.StatusOK, updated, err)
}

func (s *FastAPIServer) deleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	respondNoContent(c, s.Services.Customers.Delete(c.Request.Context(), id))
}

// -----------------------------------------------------------------------------
// Milk ledger
// -----------------------------------------------------------------------------

func (s *FastAPIServer) listMilkIn(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	entries, err := s.Services.MilkIn.ListByDate(c.Request.Context(), date)
	respond(c, http.StatusOK, entries, err)
}

func (s *FastAPIServer) addMilkIn(c *gin.Context) {
	var e models.MMilkInEntry
	if !bindJSON(c, &e) {
		return
	}
	created, err := s.Services.MilkIn.Add(c.Request.Context(), e)
	respond(c, http.StatusCreated, created, err)
}

func (s *FastAPIServer) deleteMilkIn(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	respondNoContent(c, s.Services.MilkIn.Delete(c.Request.Context(), id))
}

func (s *FastAPIServer) listMilkOut(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	entries, err := s.Services.MilkOut.ListByDate(c.Request.Context(), date)
	respond(c, http.StatusOK, entries, err)
}

func (s *FastAPIServer) sellMilk(c *gin.Context) {
	var e models.MMilkOutEntry
	if !bindJSON(c, &e) {
		return
	}
	created, err := s.Services.MilkOut.Sell(c.Request.Context(), e)
	respond(c, http.StatusCreated, created, err)
}

func (s *FastAPIServer) deleteMilkOut(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	respondNoContent(c, s.Services.MilkOut.Delete(c.Request.Context(), id))
}

func (s *FastAPIServer) listSpoilage(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	entries, err := s.Services.Spoilage.ListByDate(c.Request.Context(), date)
	respond(c, http.StatusOK, entries, err)
}

func (s *FastAPIServer) recordSpoilage(c *gin.Context) {
	var e models.MMilkSpoiltEntry
	if !bindJSON(c, &e) {
		return
	}
	created, err := s.Services.Spoilage.Record(c.Request.Context(), e)
	respond(c, http.StatusCreated, created, err)
}

func (s *FastAPIServer) deleteSpoilage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	respondNoContent(c, s.Services.Spoilage.Delete(c.Request.Context(), id))
}
