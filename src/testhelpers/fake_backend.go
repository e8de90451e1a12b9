// Package testhelpers provides an in-memory dairy backend for package tests.
package testhelpers

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"milk-admin/src/logger"
	"milk-admin/src/models"
)

const TestAPIKey = "test-key"

// FakeBackend serves the cooperative REST API from memory. Stock and
// earnings follow the entries created through it.
type FakeBackend struct {
	Server *httptest.Server

	mu        sync.Mutex
	nextID    int64
	cows      map[int64]models.MCow
	members   map[int64]models.MMember
	customers map[int64]models.MCustomer
	milkIn    []models.MMilkInEntry
	milkOut   []models.MMilkOutEntry
	spoilt    []models.MMilkSpoiltEntry
	stock     models.MStockSummary
	earnings  models.MEarningsSummary
	requests  map[string]int
	failures  map[string]int
	before    map[string]func()
	garbled   bool
}

// -----------------------------------------------------------------------------

func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fb := &FakeBackend{
		nextID:    100,
		cows:      make(map[int64]models.MCow),
		members:   make(map[int64]models.MMember),
		customers: make(map[int64]models.MCustomer),
		requests:  make(map[string]int),
		failures:  make(map[string]int),
		before:    make(map[string]func()),
	}
	fb.Server = httptest.NewServer(fb.router())
	t.Cleanup(fb.Server.Close)
	return fb
}

// Config returns an application config pointing at the fake backend.
func (fb *FakeBackend) Config() *models.MConfig {
	return &models.MConfig{
		Name:     "milk-admin-test",
		Host:     "127.0.0.1",
		Port:     8080,
		LogLevel: "ERROR",
		Backend: models.MBackendConfig{
			BaseURL:         fb.Server.URL,
			APIKey:          TestAPIKey,
			APIKeyHeader:    "X-API-Key",
			RequestTimeout:  5,
			CacheTTLSeconds: 60,
			CacheSize:       64,
		},
		Storage: models.MStorageConfig{DBType: "none", RetentionDays: 90},
		Sync:    models.MSyncConfig{IntervalSeconds: 60, ConcurrentRequests: 4},
	}
}

// Logger returns a logger that discards output.
func Logger(name string) *logger.Logger {
	return logger.NewLoggerTo(io.Discard, nil, name)
}

// -----------------------------------------------------------------------------
// Fixtures and inspection
// -----------------------------------------------------------------------------

func (fb *FakeBackend) id() int64 {
	fb.nextID++
	return fb.nextID
}

func (fb *FakeBackend) AddCow(cow models.MCow) int64 {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.id()
	cow.ID = &id
	fb.cows[id] = cow
	return id
}

func (fb *FakeBackend) AddMember(m models.MMember) int64 {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.id()
	m.ID = &id
	fb.members[id] = m
	return id
}

func (fb *FakeBackend) AddCustomer(c models.MCustomer) int64 {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.id()
	c.ID = &id
	fb.customers[id] = c
	return id
}

// AddMilkIn stores an entry without touching stock.
func (fb *FakeBackend) AddMilkIn(e models.MMilkInEntry) int64 {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.id()
	e.ID = &id
	fb.milkIn = append(fb.milkIn, e)
	return id
}

// AddMilkOut stores an entry without touching stock.
func (fb *FakeBackend) AddMilkOut(e models.MMilkOutEntry) int64 {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.id()
	e.ID = &id
	fb.milkOut = append(fb.milkOut, e)
	return id
}

// AddSpoilt stores an entry without touching stock.
func (fb *FakeBackend) AddSpoilt(e models.MMilkSpoiltEntry) int64 {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	id := fb.id()
	e.ID = &id
	fb.spoilt = append(fb.spoilt, e)
	return id
}

func (fb *FakeBackend) SetSummaries(stock models.MStockSummary, earnings models.MEarningsSummary) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.stock = stock
	fb.earnings = earnings
}

func (fb *FakeBackend) Stock() models.MStockSummary {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.stock
}

// Fail makes every request matching "METHOD /path" answer with status until cleared with status 0.
func (fb *FakeBackend) Fail(method, path string, status int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(fb.failures, key)
		return
	}
	fb.failures[key] = status
}

// Before runs fn when "METHOD /path" arrives, ahead of its handler.
func (fb *FakeBackend) Before(method, path string, fn func()) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.before[method+" "+path] = fn
}

// GarbleCreates makes POST responses return a body that is not JSON.
func (fb *FakeBackend) GarbleCreates(on bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.garbled = on
}

// Requests returns how many times "METHOD /path" was called.
func (fb *FakeBackend) Requests(method, path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[method+" "+path]
}

// -----------------------------------------------------------------------------
// Router
// -----------------------------------------------------------------------------

func (fb *FakeBackend) router() *gin.Engine {
	r := gin.New()
	r.Use(fb.middleware())

	r.GET("/cows", fb.listCows)
	r.GET("/cows/:id", fb.getCow)
	r.POST("/cows", fb.createCow)
	r.PUT("/cows/:id", fb.updateCow)
	r.DELETE("/cows/:id", fb.deleteCow)
	r.POST("/cows/:id/archive", fb.archiveCow)
	r.PUT("/cows/:id/health", fb.cowHealth)
	r.GET("/cows/:id/eligibility", fb.cowEligibility)

	r.GET("/members", fb.listMembers)
	r.GET("/members/:id", fb.getMember)
	r.POST("/members", fb.createMember)
	r.PUT("/members/:id", fb.updateMember)
	r.DELETE("/members/:id", fb.deleteMember)

	r.GET("/customers", fb.listCustomers)
	r.POST("/customers", fb.createCustomer)
	r.PUT("/customers/:id", fb.updateCustomer)
	r.DELETE("/customers/:id", fb.deleteCustomer)

	r.GET("/milk-in", fb.listMilkIn)
	r.POST("/milk-in", fb.createMilkIn)
	r.DELETE("/milk-in/:id", fb.deleteEntry)
	r.GET("/milk-out", fb.listMilkOut)
	r.POST("/milk-out", fb.createMilkOut)
	r.DELETE("/milk-out/:id", fb.deleteEntry)
	r.GET("/milk-spoilt", fb.listSpoilt)
	r.POST("/milk-spoilt", fb.createSpoilt)
	r.DELETE("/milk-spoilt/:id", fb.deleteEntry)

	r.GET("/stock-summary", fb.stockSummary)
	r.GET("/earnings-summary", fb.earningsSummary)
	r.GET("/cow-summary", fb.cowSummary)
	r.GET("/milk-analytics", fb.milkAnalytics)
	return r
}

func (fb *FakeBackend) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.Request.URL.Path

		fb.mu.Lock()
		fb.requests[key]++
		status, failing := fb.failures[key]
		hook := fb.before[key]
		fb.mu.Unlock()

		if hook != nil {
			hook()
		}
		if c.GetHeader("X-API-Key") != TestAPIKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "invalid api key"})
			return
		}
		if failing {
			c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status), "message": "injected failure"})
			return
		}
		c.Next()
	}
}

func (fb *FakeBackend) respondCreated(c *gin.Context, v interface{}) {
	fb.mu.Lock()
	garbled := fb.garbled
	fb.mu.Unlock()
	if garbled {
		c.String(http.StatusCreated, "<html>created</html>")
		return
	}
	c.JSON(http.StatusCreated, v)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "invalid id"})
		return 0, false
	}
	return id, true
}

func notFound(c *gin.Context, what string, id int64) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": fmt.Sprintf("%s %d not found", what, id)})
}

func queryDate(c *gin.Context) (models.Date, bool) {
	s := c.Query("date")
	if s == "" {
		return models.Date{}, true
	}
	d, err := models.ParseDate(s)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return models.Date{}, false
	}
	return d, true
}

// -----------------------------------------------------------------------------
// Cows
// -----------------------------------------------------------------------------

func (fb *FakeBackend) listCows(c *gin.Context) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]models.MCow, 0, len(fb.cows))
	for _, cow := range fb.cows {
		out = append(out, cow)
	}
	c.JSON(http.StatusOK, out)
}

func (fb *FakeBackend) getCow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	cow, found := fb.cows[id]
	fb.mu.Unlock()
	if !found {
		notFound(c, "cow", id)
		return
	}
	c.JSON(http.StatusOK, cow)
}

func (fb *FakeBackend) createCow(c *gin.Context) {
	var cow models.MCow
	if err := c.ShouldBindJSON(&cow); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	if cow.ID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": "id must be null"})
		return
	}
	if cow.HealthStatus == "" {
		cow.HealthStatus = models.HealthHealthy
	}
	cow.IsActive = true
	fb.mu.Lock()
	id := fb.id()
	cow.ID = &id
	fb.cows[id] = cow
	fb.mu.Unlock()
	fb.respondCreated(c, cow)
}

func (fb *FakeBackend) updateCow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var cow models.MCow
	if err := c.ShouldBindJSON(&cow); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, found := fb.cows[id]; !found {
		notFound(c, "cow", id)
		return
	}
	cow.ID = &id
	fb.cows[id] = cow
	c.JSON(http.StatusOK, cow)
}

func (fb *FakeBackend) deleteCow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, found := fb.cows[id]; !found {
		notFound(c, "cow", id)
		return
	}
	delete(fb.cows, id)
	c.Status(http.StatusNoContent)
}

func (fb *FakeBackend) archiveCow(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.MArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	cow, found := fb.cows[id]
	if !found {
		notFound(c, "cow", id)
		return
	}
	cow.IsArchived = true
	cow.IsActive = false
	cow.ArchiveReason = req.Reason
	date := req.ArchiveDate
	cow.ArchiveDate = &date
	fb.cows[id] = cow
	c.JSON(http.StatusOK, cow)
}

func (fb *FakeBackend) cowHealth(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.MHealthUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	cow, found := fb.cows[id]
	if !found {
		notFound(c, "cow", id)
		return
	}
	cow.HealthStatus = req.HealthStatus
	cow.TreatmentUntil = req.TreatmentUntil
	fb.cows[id] = cow
	c.JSON(http.StatusOK, cow)
}

func (fb *FakeBackend) cowEligibility(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	cow, found := fb.cows[id]
	fb.mu.Unlock()
	if !found {
		notFound(c, "cow", id)
		return
	}
	el := models.MMilkCollectionEligibility{
		CowID:        id,
		CowName:      cow.Name,
		CanCollect:   blockedReason(cow) == "",
		HealthStatus: cow.HealthStatus,
		Reason:       blockedReason(cow),
	}
	c.JSON(http.StatusOK, el)
}

func blockedReason(cow models.MCow) string {
	switch cow.HealthStatus {
	case models.HealthSick, models.HealthUnderTreatment, models.HealthQuarantined:
		return "cow is " + strings.ToLower(strings.ReplaceAll(cow.HealthStatus, "_", " "))
	}
	return ""
}

// -----------------------------------------------------------------------------
// Members and customers
// -----------------------------------------------------------------------------

func (fb *FakeBackend) listMembers(c *gin.Context) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]models.MMember, 0, len(fb.members))
	for _, m := range fb.members {
		out = append(out, m)
	}
	c.JSON(http.StatusOK, out)
}

func (fb *FakeBackend) getMember(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	m, found := fb.members[id]
	fb.mu.Unlock()
	if !found {
		notFound(c, "member", id)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (fb *FakeBackend) createMember(c *gin.Context) {
	var m models.MMember
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	fb.mu.Lock()
	id := fb.id()
	m.ID = &id
	m.IsActive = true
	fb.members[id] = m
	fb.mu.Unlock()
	fb.respondCreated(c, m)
}

func (fb *FakeBackend) updateMember(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var m models.MMember
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, found := fb.members[id]; !found {
		notFound(c, "member", id)
		return
	}
	m.ID = &id
	fb.members[id] = m
	c.JSON(http.StatusOK, m)
}

func (fb *FakeBackend) deleteMember(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, found := fb.members[id]; !found {
		notFound(c, "member", id)
		return
	}
	delete(fb.members, id)
	c.Status(http.StatusNoContent)
}

func (fb *FakeBackend) listCustomers(c *gin.Context) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]models.MCustomer, 0, len(fb.customers))
	for _, cu := range fb.customers {
		out = append(out, cu)
	}
	c.JSON(http.StatusOK, out)
}

func (fb *FakeBackend) createCustomer(c *gin.Context) {
	var cu models.MCustomer
	if err := c.ShouldBindJSON(&cu); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	fb.mu.Lock()
	id := fb.id()
	cu.ID = &id
	fb.customers[id] = cu
	fb.mu.Unlock()
	fb.respondCreated(c, cu)
}

func (fb *FakeBackend) updateCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var cu models.MCustomer
	if err := c.ShouldBindJSON(&cu); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, found := fb.customers[id]; !found {
		notFound(c, "customer", id)
		return
	}
	cu.ID = &id
	fb.customers[id] = cu
	c.JSON(http.StatusOK, cu)
}

func (fb *FakeBackend) deleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, found := fb.customers[id]; !found {
		notFound(c, "customer", id)
		return
	}
	delete(fb.customers, id)
	c.Status(http.StatusNoContent)
}

// -----------------------------------------------------------------------------
// Milk entries
// -----------------------------------------------------------------------------

func (fb *FakeBackend) listMilkIn(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]models.MMilkInEntry, 0)
	for _, e := range fb.milkIn {
		if date.IsZero() || e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (fb *FakeBackend) createMilkIn(c *gin.Context) {
	var e models.MMilkInEntry
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	fb.mu.Lock()
	cow, found := fb.cows[e.CowID]
	if !found {
		fb.mu.Unlock()
		notFound(c, "cow", e.CowID)
		return
	}
	if reason := blockedReason(cow); reason != "" {
		fb.mu.Unlock()
		body := models.MAPIError{
			Error:        "Bad Request",
			Message:      "Milk collection blocked: " + reason,
			ErrorType:    "MILK_COLLECTION_BLOCKED",
			CowID:        cow.ID,
			CowName:      cow.Name,
			HealthStatus: cow.HealthStatus,
			Suggestions:  []string{"Record the milk as spoilt", "Update the cow's health status once treatment ends"},
		}
		if cow.TreatmentUntil != nil {
			body.BlockedUntil = cow.TreatmentUntil.String() + "T23:59:59"
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}
	id := fb.id()
	e.ID = &id
	e.CowName = cow.Name
	if cow.OwnerID != nil {
		e.OwnerID = *cow.OwnerID
	}
	fb.milkIn = append(fb.milkIn, e)
	fb.stock.CurrentStock = fb.stock.CurrentStock.Add(e.Liters)
	fb.stock.DailyProduce = fb.stock.DailyProduce.Add(e.Liters)
	fb.mu.Unlock()
	fb.respondCreated(c, e)
}

func (fb *FakeBackend) listMilkOut(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]models.MMilkOutEntry, 0)
	for _, e := range fb.milkOut {
		if date.IsZero() || e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (fb *FakeBackend) createMilkOut(c *gin.Context) {
	var e models.MMilkOutEntry
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	fb.mu.Lock()
	id := fb.id()
	e.ID = &id
	fb.milkOut = append(fb.milkOut, e)
	fb.stock.CurrentStock = clampSub(fb.stock.CurrentStock, e.QuantitySold)
	fb.stock.DailyTotalLitersSold = fb.stock.DailyTotalLitersSold.Add(e.QuantitySold)
	fb.earnings.TodayEarnings = fb.earnings.TodayEarnings.Add(e.Amount())
	fb.mu.Unlock()
	fb.respondCreated(c, e)
}

func (fb *FakeBackend) listSpoilt(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]models.MMilkSpoiltEntry, 0)
	for _, e := range fb.spoilt {
		if date.IsZero() || e.Date.Equal(date) {
			out = append(out, e)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (fb *FakeBackend) createSpoilt(c *gin.Context) {
	var e models.MMilkSpoiltEntry
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error()})
		return
	}
	fb.mu.Lock()
	id := fb.id()
	e.ID = &id
	fb.spoilt = append(fb.spoilt, e)
	fb.stock.CurrentStock = clampSub(fb.stock.CurrentStock, e.AmountSpoilt)
	fb.stock.WeeklySpoilt = fb.stock.WeeklySpoilt.Add(e.AmountSpoilt)
	fb.mu.Unlock()
	fb.respondCreated(c, e)
}

func (fb *FakeBackend) deleteEntry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()

	switch {
	case strings.HasPrefix(c.FullPath(), "/milk-in"):
		for i, e := range fb.milkIn {
			if e.ID != nil && *e.ID == id {
				fb.milkIn = append(fb.milkIn[:i], fb.milkIn[i+1:]...)
				c.Status(http.StatusNoContent)
				return
			}
		}
	case strings.HasPrefix(c.FullPath(), "/milk-out"):
		for i, e := range fb.milkOut {
			if e.ID != nil && *e.ID == id {
				fb.milkOut = append(fb.milkOut[:i], fb.milkOut[i+1:]...)
				c.Status(http.StatusNoContent)
				return
			}
		}
	default:
		for i, e := range fb.spoilt {
			if e.ID != nil && *e.ID == id {
				fb.spoilt = append(fb.spoilt[:i], fb.spoilt[i+1:]...)
				c.Status(http.StatusNoContent)
				return
			}
		}
	}
	notFound(c, "entry", id)
}

func clampSub(a, b decimal.Decimal) decimal.Decimal {
	r := a.Sub(b)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// -----------------------------------------------------------------------------
// Summaries
// -----------------------------------------------------------------------------

func (fb *FakeBackend) stockSummary(c *gin.Context) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	c.JSON(http.StatusOK, fb.stock)
}

func (fb *FakeBackend) earningsSummary(c *gin.Context) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	c.JSON(http.StatusOK, fb.earnings)
}

func (fb *FakeBackend) cowSummary(c *gin.Context) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var s models.MCowSummary
	for _, cow := range fb.cows {
		s.TotalCows++
		if cow.IsActive {
			s.ActiveCows++
		}
		if cow.IsArchived {
			s.ArchivedCows++
		}
		switch cow.HealthStatus {
		case models.HealthHealthy:
			s.HealthyCows++
		case models.HealthSick:
			s.SickCows++
		case models.HealthUnderTreatment:
			s.UnderTreatment++
		}
	}
	c.JSON(http.StatusOK, s)
}

func (fb *FakeBackend) milkAnalytics(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	a := models.MMilkAnalytics{Date: date}
	for _, e := range fb.milkIn {
		if e.Date.Equal(date) {
			a.TotalProduced = a.TotalProduced.Add(e.Liters)
		}
	}
	for _, e := range fb.milkOut {
		if e.Date.Equal(date) {
			a.TotalSold = a.TotalSold.Add(e.QuantitySold)
			a.Revenue = a.Revenue.Add(e.Amount())
		}
	}
	for _, e := range fb.spoilt {
		if e.Date.Equal(date) {
			a.TotalSpoilt = a.TotalSpoilt.Add(e.AmountSpoilt)
		}
	}
	c.JSON(http.StatusOK, a)
}
