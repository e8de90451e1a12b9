package models

import "time"

// MMember is a cooperative member who owns cows.
type MMember struct {
	ID        *int64     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email,omitempty"`
	Location  string     `json:"location,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// IDValue returns the server id, or 0 when unassigned.
func (m MMember) IDValue() int64 {
	if m.ID == nil {
		return 0
	}
	return *m.ID
}

// MCustomer buys milk from the cooperative.
type MCustomer struct {
	ID        *int64     `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email,omitempty"`
	Location  string     `json:"location,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// IDValue returns the server id, or 0 when unassigned.
func (c MCustomer) IDValue() int64 {
	if c.ID == nil {
		return 0
	}
	return *c.ID
}
