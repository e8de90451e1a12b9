package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"milk-admin/src/helpers"
	"milk-admin/src/models"
	"milk-admin/src/network"
	"milk-admin/src/testhelpers"
)

func newTestClient(t *testing.T) (*MilkClient, *testhelpers.FakeBackend) {
	t.Helper()
	fb := testhelpers.NewFakeBackend(t)
	cfg := fb.Config()
	nm, err := network.NewAsyncNetworkManager(cfg, testhelpers.Logger("Network"))
	if err != nil {
		t.Fatalf("Failed to create network manager: %v", err)
	}
	c, err := NewMilkClient(cfg, nm, testhelpers.Logger("MilkClient"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c, fb
}

func TestGetCowUsesLookupCache(t *testing.T) {
	c, fb := newTestClient(t)
	id := fb.AddCow(models.MCow{Name: "Daisy", HealthStatus: models.HealthHealthy, IsActive: true})
	path := "/cows/" + itoa(id)

	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		cow, err := c.GetCow(context.Background(), id)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cow.Name != "Daisy" {
			t.Errorf("Expected Daisy, got %s", cow.Name)
		}
	}
	if got := fb.Requests(http.MethodGet, path); got != 1 {
		t.Errorf("Expected 1 backend call while cached, got %d", got)
	}

	now = now.Add(61 * time.Second)
	if _, err := c.GetCow(context.Background(), id); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := fb.Requests(http.MethodGet, path); got != 2 {
		t.Errorf("Expected refetch after expiry, got %d calls", got)
	}
}

func TestDisabledCacheAlwaysFetches(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	cfg := fb.Config()
	off := false
	cfg.Backend.CacheEnabled = &off
	nm, err := network.NewAsyncNetworkManager(cfg, testhelpers.Logger("Network"))
	if err != nil {
		t.Fatalf("Failed to create network manager: %v", err)
	}
	c, err := NewMilkClient(cfg, nm, testhelpers.Logger("MilkClient"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	id := fb.AddCow(models.MCow{Name: "Daisy", HealthStatus: models.HealthHealthy})

	for i := 0; i < 3; i++ {
		if _, err := c.GetCow(context.Background(), id); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if got := fb.Requests(http.MethodGet, "/cows/"+itoa(id)); got != 3 {
		t.Errorf("Expected 3 backend calls with the cache off, got %d", got)
	}
}

func TestUpdateCowInvalidatesCache(t *testing.T) {
	c, fb := newTestClient(t)
	id := fb.AddCow(models.MCow{Name: "Daisy", HealthStatus: models.HealthHealthy})

	if _, err := c.GetCow(context.Background(), id); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := c.UpdateCowHealth(context.Background(), id, models.MHealthUpdate{HealthStatus: models.HealthSick}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	cow, err := c.GetCow(context.Background(), id)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cow.HealthStatus != models.HealthSick {
		t.Errorf("Expected fresh health status SICK, got %s", cow.HealthStatus)
	}
}

func TestReadDuringUpdateDoesNotCacheOldRecord(t *testing.T) {
	c, fb := newTestClient(t)
	cowID := fb.AddCow(models.MCow{Name: "Daisy", HealthStatus: models.HealthHealthy})
	memberID := fb.AddMember(models.MMember{Name: "Wanjiru"})

	// A lookup arriving while the PUT is in flight still sees the old record.
	fb.Before(http.MethodPut, "/cows/"+itoa(cowID), func() {
		if _, err := c.GetCow(context.Background(), cowID); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})
	fb.Before(http.MethodPut, "/members/"+itoa(memberID), func() {
		if _, err := c.GetMember(context.Background(), memberID); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	if _, err := c.UpdateCow(context.Background(), cowID, models.MCow{Name: "Daisy II", HealthStatus: models.HealthHealthy}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := c.UpdateMember(context.Background(), memberID, models.MMember{Name: "Wanjiru K."}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cow, err := c.GetCow(context.Background(), cowID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cow.Name != "Daisy II" {
		t.Errorf("Expected cached cow Daisy II, got %s", cow.Name)
	}
	member, err := c.GetMember(context.Background(), memberID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if member.Name != "Wanjiru K." {
		t.Errorf("Expected cached member Wanjiru K., got %s", member.Name)
	}
	if n := fb.Requests(http.MethodGet, "/cows/"+itoa(cowID)); n != 1 {
		t.Errorf("Expected the updated cow to be served from cache, got %d GETs", n)
	}
}

func TestCreateMilkInSendsNullIDAndReturnsServerRecord(t *testing.T) {
	c, fb := newTestClient(t)
	owner := int64(7)
	cowID := fb.AddCow(models.MCow{Name: "Bella", HealthStatus: models.HealthHealthy, OwnerID: &owner})
	stale := int64(999)

	entry, err := c.CreateMilkIn(context.Background(), models.MMilkInEntry{
		ID:          &stale,
		CowID:       cowID,
		Liters:      decimal.RequireFromString("11.5"),
		Date:        mustDate(t, "2024-03-02"),
		MilkingType: models.MilkingMorning,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if entry.ID == nil || *entry.ID == stale {
		t.Errorf("Expected server-assigned id, got %v", entry.ID)
	}
	if entry.OwnerID != owner {
		t.Errorf("Expected owner %d, got %d", owner, entry.OwnerID)
	}
}

func TestCreateMilkInBlocked(t *testing.T) {
	c, fb := newTestClient(t)
	until, _ := models.ParseDate("2024-03-09")
	cowID := fb.AddCow(models.MCow{Name: "Rosie", HealthStatus: models.HealthUnderTreatment, TreatmentUntil: &until})

	_, err := c.CreateMilkIn(context.Background(), models.MMilkInEntry{CowID: cowID, Liters: decimal.NewFromInt(5)})

	var blocked *helpers.MilkCollectionBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("Expected MilkCollectionBlockedError, got %v", err)
	}
	if blocked.CowID != cowID || blocked.CowName != "Rosie" {
		t.Errorf("Expected cow %d Rosie, got %d %s", cowID, blocked.CowID, blocked.CowName)
	}
	if blocked.BlockedUntil == nil || blocked.BlockedUntil.Format(models.DateLayout) != "2024-03-09" {
		t.Errorf("Expected blockedUntil 2024-03-09, got %v", blocked.BlockedUntil)
	}
	if len(blocked.Suggestions) == 0 {
		t.Error("Expected suggestions")
	}
}

func TestCreateFallsBackToRequestOnUndecodableResponse(t *testing.T) {
	c, fb := newTestClient(t)
	fb.GarbleCreates(true)

	in := models.MCustomer{Name: "Hotel Savannah", Phone: "0700000000"}
	got, err := c.CreateCustomer(context.Background(), in)
	if err != nil {
		t.Fatalf("Expected fallback without error, got %v", err)
	}
	if got.Name != in.Name || got.ID != nil {
		t.Errorf("Expected request values with nil id, got %+v", got)
	}
}

func TestListMilkOutFiltersByDate(t *testing.T) {
	c, fb := newTestClient(t)
	fb.AddMilkOut(models.MMilkOutEntry{QuantitySold: decimal.NewFromInt(3), Date: mustDate(t, "2024-03-01")})
	fb.AddMilkOut(models.MMilkOutEntry{QuantitySold: decimal.NewFromInt(4), Date: mustDate(t, "2024-03-02")})

	entries, err := c.ListMilkOut(context.Background(), mustDate(t, "2024-03-02"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(entries) != 1 || !entries[0].QuantitySold.Equal(decimal.NewFromInt(4)) {
		t.Errorf("Expected the single 2024-03-02 sale, got %+v", entries)
	}
}

func TestNotFoundAndUnauthorized(t *testing.T) {
	c, fb := newTestClient(t)

	_, err := c.GetMember(context.Background(), 4242)
	if !helpers.IsKind(err, helpers.KindNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}

	fb.Fail(http.MethodGet, "/stock-summary", http.StatusUnauthorized)
	_, err = c.GetStockSummary(context.Background())
	if !helpers.IsKind(err, helpers.KindUnauthorized) {
		t.Errorf("Expected unauthorized, got %v", err)
	}
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("Invalid date %s: %v", s, err)
	}
	return d
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
