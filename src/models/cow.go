package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend sends liters and amounts as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// HealthStatus values accepted by the backend.
const (
	HealthHealthy        = "HEALTHY"
	HealthSick           = "SICK"
	HealthUnderTreatment = "UNDER_TREATMENT"
	HealthQuarantined    = "QUARANTINED"
	HealthDeceased       = "DECEASED"
)

// ValidHealthStatus reports whether s is a known health status.
func ValidHealthStatus(s string) bool {
	switch s {
	case HealthHealthy, HealthSick, HealthUnderTreatment, HealthQuarantined, HealthDeceased:
		return true
	}
	return false
}

// MCow is a cow owned by a cooperative member. ID is nil until the server assigns one.
type MCow struct {
	ID             *int64          `json:"id"`
	EntryNumber    string          `json:"entryNumber,omitempty"`
	Name           string          `json:"name"`
	Breed          string          `json:"breed"`
	Age            int             `json:"age"`
	BodyWeight     decimal.Decimal `json:"bodyWeight"`
	HealthStatus   string          `json:"healthStatus"`
	OwnerID        *int64          `json:"ownerId"`
	OwnerName      string          `json:"ownerName,omitempty"`
	IsActive       bool            `json:"isActive"`
	IsArchived     bool            `json:"isArchived"`
	ArchiveReason  string          `json:"archiveReason,omitempty"`
	ArchiveDate    *Date           `json:"archiveDate,omitempty"`
	TreatmentUntil *Date           `json:"treatmentUntil,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// IDValue returns the server id, or 0 when unassigned.
func (c MCow) IDValue() int64 {
	if c.ID == nil {
		return 0
	}
	return *c.ID
}

// MCowSummary is returned by /cow-summary.
type MCowSummary struct {
	TotalCows      int `json:"totalCows"`
	ActiveCows     int `json:"activeCows"`
	HealthyCows    int `json:"healthyCows"`
	SickCows       int `json:"sickCows"`
	UnderTreatment int `json:"underTreatment"`
	ArchivedCows   int `json:"archivedCows"`
}

// MHealthUpdate is the body of PUT /cows/{id}/health.
type MHealthUpdate struct {
	HealthStatus   string `json:"healthStatus"`
	TreatmentUntil *Date  `json:"treatmentUntil,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// MArchiveRequest is the body of POST /cows/{id}/archive.
type MArchiveRequest struct {
	Reason      string `json:"reason"`
	ArchiveDate Date   `json:"archiveDate"`
}

// MMilkCollectionEligibility is returned by GET /cows/{id}/eligibility.
type MMilkCollectionEligibility struct {
	CowID        int64      `json:"cowId"`
	CowName      string     `json:"cowName,omitempty"`
	CanCollect   bool       `json:"canCollect"`
	HealthStatus string     `json:"healthStatus"`
	BlockedUntil *time.Time `json:"blockedUntil,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	Suggestions  []string   `json:"suggestions,omitempty"`
}
