package models

import "github.com/shopspring/decimal"

// Milking sessions.
const (
	MilkingMorning = "MORNING"
	MilkingEvening = "EVENING"
)

// Payment modes for milk sales.
const (
	PaymentCash   = "CASH"
	PaymentMpesa  = "MPESA"
	PaymentBank   = "BANK"
	PaymentCredit = "CREDIT"
)

// ValidPaymentMode reports whether s is a known payment mode.
func ValidPaymentMode(s string) bool {
	switch s {
	case PaymentCash, PaymentMpesa, PaymentBank, PaymentCredit:
		return true
	}
	return false
}

// MMilkInEntry is one milking of one cow.
type MMilkInEntry struct {
	ID          *int64          `json:"id"`
	CowID       int64           `json:"cowId"`
	CowName     string          `json:"cowName,omitempty"`
	OwnerID     int64           `json:"ownerId"`
	Liters      decimal.Decimal `json:"liters"`
	Date        Date            `json:"date"`
	MilkingType string          `json:"milkingType"`
	Notes       string          `json:"notes,omitempty"`
}

// MMilkOutEntry is one sale to a customer.
type MMilkOutEntry struct {
	ID            *int64          `json:"id"`
	CustomerID    int64           `json:"customerId"`
	CustomerName  string          `json:"customerName,omitempty"`
	QuantitySold  decimal.Decimal `json:"quantitySold"`
	PricePerLiter decimal.Decimal `json:"pricePerLiter"`
	PaymentMode   string          `json:"paymentMode"`
	Date          Date            `json:"date"`
	Notes         string          `json:"notes,omitempty"`
}

// Amount is the sale value, quantitySold * pricePerLiter.
func (e MMilkOutEntry) Amount() decimal.Decimal {
	return e.QuantitySold.Mul(e.PricePerLiter)
}

// MMilkSpoiltEntry records stock lost to spoilage.
type MMilkSpoiltEntry struct {
	ID           *int64          `json:"id"`
	AmountSpoilt decimal.Decimal `json:"amountSpoilt"`
	LossAmount   decimal.Decimal `json:"lossAmount"`
	Cause        string          `json:"cause,omitempty"`
	Date         Date            `json:"date"`
}
