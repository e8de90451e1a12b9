// Package client maps every backend endpoint onto a typed method.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"milk-admin/src/helpers"
	"milk-admin/src/interfaces"
	"milk-admin/src/logger"
	"milk-admin/src/models"
	"milk-admin/src/utils"
)

// Resource paths.
const (
	PathCows            = "/cows"
	PathMembers         = "/members"
	PathCustomers       = "/customers"
	PathMilkIn          = "/milk-in"
	PathMilkOut         = "/milk-out"
	PathMilkSpoilt      = "/milk-spoilt"
	PathStockSummary    = "/stock-summary"
	PathEarningsSummary = "/earnings-summary"
	PathCowSummary      = "/cow-summary"
	PathMilkAnalytics   = "/milk-analytics"
)

type MilkClient struct {
	Network interfaces.INetworkManager
	Logger  *logger.Logger

	cows    *utils.TTLCache[int64, models.MCow]
	members *utils.TTLCache[int64, models.MMember]
}

// -----------------------------------------------------------------------------

func NewMilkClient(cfg *models.MConfig, network interfaces.INetworkManager, log *logger.Logger) (*MilkClient, error) {
	if log == nil {
		log = logger.NewLogger(cfg, "MilkClient")
	}

	var ttl time.Duration
	if cfg.Backend.CachingEnabled() {
		ttl = time.Duration(cfg.Backend.CacheTTLSeconds) * time.Second
	} else {
		log.Info("Lookup cache disabled")
	}
	size := cfg.Backend.CacheSize
	if size <= 0 {
		size = 256
	}

	cows, err := utils.NewTTLCache[int64, models.MCow](size, ttl)
	if err != nil {
		return nil, fmt.Errorf("cow cache: %w", err)
	}
	members, err := utils.NewTTLCache[int64, models.MMember](size, ttl)
	if err != nil {
		return nil, fmt.Errorf("member cache: %w", err)
	}

	return &MilkClient{
		Network: network,
		Logger:  log,
		cows:    cows,
		members: members,
	}, nil
}

// SetClock replaces the time source of the lookup caches.
func (c *MilkClient) SetClock(now func() time.Time) {
	c.cows.SetClock(now)
	c.members.SetClock(now)
}

// -----------------------------------------------------------------------------
// Transport helpers
// -----------------------------------------------------------------------------

func (c *MilkClient) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	data, err := c.Network.Do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func (c *MilkClient) send(ctx context.Context, method, path string, body, out interface{}) error {
	data, err := c.Network.Do(ctx, method, path, nil, body)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func (c *MilkClient) delete(ctx context.Context, path string) error {
	_, err := c.Network.Do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// create posts req and decodes the created record into out. If the backend
// accepted the record but the body cannot be decoded, out is left holding
// the request values and the decode failure is only logged.
func create[T any](c *MilkClient, ctx context.Context, path string, req T) (T, error) {
	data, err := c.Network.Do(ctx, http.MethodPost, path, nil, req)
	if err != nil {
		return req, err
	}
	var out T
	if err := decode(data, &out); err != nil {
		c.Logger.Warning("POST %s: using request values, response not decodable: %v", path, err)
		return req, nil
	}
	return out, nil
}

func decode(data []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if len(data) == 0 {
		return helpers.NewError(helpers.KindDecode, "empty response body", nil)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return helpers.NewError(helpers.KindDecode, "failed to decode response", err)
	}
	return nil
}

func dateParam(d models.Date) map[string]string {
	if d.IsZero() {
		return nil
	}
	return map[string]string{"date": d.String()}
}

func idPath(base string, id int64, sub ...string) string {
	p := fmt.Sprintf("%s/%d", base, id)
	for _, s := range sub {
		p += "/" + s
	}
	return p
}

// -----------------------------------------------------------------------------
// Cows
// -----------------------------------------------------------------------------

func (c *MilkClient) ListCows(ctx context.Context) ([]models.MCow, error) {
	var cows []models.MCow
	if err := c.get(ctx, PathCows, nil, &cows); err != nil {
		return nil, err
	}
	for _, cow := range cows {
		if cow.ID != nil {
			c.cows.Put(*cow.ID, cow)
		}
	}
	return cows, nil
}

// GetCow serves from the lookup cache while the entry is fresh.
func (c *MilkClient) GetCow(ctx context.Context, id int64) (models.MCow, error) {
	if cow, ok := c.cows.Get(id); ok {
		return cow, nil
	}
	var cow models.MCow
	if err := c.get(ctx, idPath(PathCows, id), nil, &cow); err != nil {
		return models.MCow{}, err
	}
	c.cows.Put(id, cow)
	return cow, nil
}

func (c *MilkClient) CreateCow(ctx context.Context, cow models.MCow) (models.MCow, error) {
	cow.ID = nil
	created, err := create(c, ctx, PathCows, cow)
	if err == nil && created.ID != nil {
		c.cows.Put(*created.ID, created)
	}
	return created, err
}

func (c *MilkClient) UpdateCow(ctx context.Context, id int64, cow models.MCow) (models.MCow, error) {
	return c.writeCow(ctx, http.MethodPut, idPath(PathCows, id), id, cow)
}

func (c *MilkClient) DeleteCow(ctx context.Context, id int64) error {
	err := c.delete(ctx, idPath(PathCows, id))
	c.cows.Invalidate(id)
	return err
}

func (c *MilkClient) ArchiveCow(ctx context.Context, id int64, req models.MArchiveRequest) (models.MCow, error) {
	return c.writeCow(ctx, http.MethodPost, idPath(PathCows, id, "archive"), id, req)
}

func (c *MilkClient) UpdateCowHealth(ctx context.Context, id int64, req models.MHealthUpdate) (models.MCow, error) {
	return c.writeCow(ctx, http.MethodPut, idPath(PathCows, id, "health"), id, req)
}

// writeCow refreshes the lookup cache only after the backend answered, so a
// GetCow racing the write cannot leave the old record cached.
func (c *MilkClient) writeCow(ctx context.Context, method, path string, id int64, body interface{}) (models.MCow, error) {
	var cow models.MCow
	if err := c.send(ctx, method, path, body, &cow); err != nil {
		c.cows.Invalidate(id)
		return models.MCow{}, err
	}
	if cow.ID != nil && *cow.ID == id {
		c.cows.Put(id, cow)
	} else {
		c.cows.Invalidate(id)
	}
	return cow, nil
}

func (c *MilkClient) GetCowEligibility(ctx context.Context, id int64) (models.MMilkCollectionEligibility, error) {
	var el models.MMilkCollectionEligibility
	if err := c.get(ctx, idPath(PathCows, id, "eligibility"), nil, &el); err != nil {
		return models.MMilkCollectionEligibility{}, err
	}
	return el, nil
}

// -----------------------------------------------------------------------------
// Members
// -----------------------------------------------------------------------------

func (c *MilkClient) ListMembers(ctx context.Context) ([]models.MMember, error) {
	var members []models.MMember
	if err := c.get(ctx, PathMembers, nil, &members); err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.ID != nil {
			c.members.Put(*m.ID, m)
		}
	}
	return members, nil
}

func (c *MilkClient) GetMember(ctx context.Context, id int64) (models.MMember, error) {
	if m, ok := c.members.Get(id); ok {
		return m, nil
	}
	var m models.MMember
	if err := c.get(ctx, idPath(PathMembers, id), nil, &m); err != nil {
		return models.MMember{}, err
	}
	c.members.Put(id, m)
	return m, nil
}

func (c *MilkClient) CreateMember(ctx context.Context, m models.MMember) (models.MMember, error) {
	m.ID = nil
	created, err := create(c, ctx, PathMembers, m)
	if err == nil && created.ID != nil {
		c.members.Put(*created.ID, created)
	}
	return created, err
}

func (c *MilkClient) UpdateMember(ctx context.Context, id int64, m models.MMember) (models.MMember, error) {
	var updated models.MMember
	if err := c.send(ctx, http.MethodPut, idPath(PathMembers, id), m, &updated); err != nil {
		c.members.Invalidate(id)
		return models.MMember{}, err
	}
	if updated.ID != nil && *updated.ID == id {
		c.members.Put(id, updated)
	} else {
		c.members.Invalidate(id)
	}
	return updated, nil
}

func (c *MilkClient) DeleteMember(ctx context.Context, id int64) error {
	err := c.delete(ctx, idPath(PathMembers, id))
	c.members.Invalidate(id)
	return err
}

// -----------------------------------------------------------------------------
// Customers
// -----------------------------------------------------------------------------

func (c *MilkClient) ListCustomers(ctx context.Context) ([]models.MCustomer, error) {
	var customers []models.MCustomer
	if err := c.get(ctx, PathCustomers, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *MilkClient) CreateCustomer(ctx context.Context, cu models.MCustomer) (models.MCustomer, error) {
	cu.ID = nil
	return create(c, ctx, PathCustomers, cu)
}

func (c *MilkClient) UpdateCustomer(ctx context.Context, id int64, cu models.MCustomer) (models.MCustomer, error) {
	var updated models.MCustomer
	if err := c.send(ctx, http.MethodPut, idPath(PathCustomers, id), cu, &updated); err != nil {
		return models.MCustomer{}, err
	}
	return updated, nil
}

func (c *MilkClient) DeleteCustomer(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath(PathCustomers, id))
}

// -----------------------------------------------------------------------------
// Milk entries
// -----------------------------------------------------------------------------

func (c *MilkClient) ListMilkIn(ctx context.Context, date models.Date) ([]models.MMilkInEntry, error) {
	var entries []models.MMilkInEntry
	if err := c.get(ctx, PathMilkIn, dateParam(date), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *MilkClient) CreateMilkIn(ctx context.Context, e models.MMilkInEntry) (models.MMilkInEntry, error) {
	e.ID = nil
	return create(c, ctx, PathMilkIn, e)
}

func (c *MilkClient) DeleteMilkIn(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath(PathMilkIn, id))
}

func (c *MilkClient) ListMilkOut(ctx context.Context, date models.Date) ([]models.MMilkOutEntry, error) {
	var entries []models.MMilkOutEntry
	if err := c.get(ctx, PathMilkOut, dateParam(date), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *MilkClient) CreateMilkOut(ctx context.Context, e models.MMilkOutEntry) (models.MMilkOutEntry, error) {
	e.ID = nil
	return create(c, ctx, PathMilkOut, e)
}

func (c *MilkClient) DeleteMilkOut(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath(PathMilkOut, id))
}

func (c *MilkClient) ListMilkSpoilt(ctx context.Context, date models.Date) ([]models.MMilkSpoiltEntry, error) {
	var entries []models.MMilkSpoiltEntry
	if err := c.get(ctx, PathMilkSpoilt, dateParam(date), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *MilkClient) CreateMilkSpoilt(ctx context.Context, e models.MMilkSpoiltEntry) (models.MMilkSpoiltEntry, error) {
	e.ID = nil
	return create(c, ctx, PathMilkSpoilt, e)
}

func (c *MilkClient) DeleteMilkSpoilt(ctx context.Context, id int64) error {
	return c.delete(ctx, idPath(PathMilkSpoilt, id))
}

// -----------------------------------------------------------------------------
// Summaries
// -----------------------------------------------------------------------------

func (c *MilkClient) GetStockSummary(ctx context.Context) (models.MStockSummary, error) {
	var s models.MStockSummary
	err := c.get(ctx, PathStockSummary, nil, &s)
	return s, err
}

func (c *MilkClient) GetEarningsSummary(ctx context.Context) (models.MEarningsSummary, error) {
	var s models.MEarningsSummary
	err := c.get(ctx, PathEarningsSummary, nil, &s)
	return s, err
}

func (c *MilkClient) GetCowSummary(ctx context.Context) (models.MCowSummary, error) {
	var s models.MCowSummary
	err := c.get(ctx, PathCowSummary, nil, &s)
	return s, err
}

func (c *MilkClient) GetMilkAnalytics(ctx context.Context, date models.Date) (models.MMilkAnalytics, error) {
	var a models.MMilkAnalytics
	err := c.get(ctx, PathMilkAnalytics, dateParam(date), &a)
	return a, err
}

var _ interfaces.IMilkClient = (*MilkClient)(nil)
