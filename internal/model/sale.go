package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus is the persisted lifecycle state of a sale.
type SaleStatus string

const (
	SaleActive    SaleStatus = "active"
	SaleExpired   SaleStatus = "expired"
	SaleCancelled SaleStatus = "cancelled"
)

// DateLayout is the wire and storage format for sale dates.
const DateLayout = "2006-01-02"

// Sale links a client to one inventory profile for the duration of a plan.
// Sales are only ever created through SaleService so that the profile
// assignment is established in the same transaction as the insert.
type Sale struct {
	ID               int64           `json:"id"`
	ClientID         int64           `json:"client_id"`
	AgentID          int64           `json:"agent_id"`
	ProfileID        *int64          `json:"profile_id"`
	SalesAttributeID int64           `json:"sales_attribute_id"`
	Cost             decimal.Decimal `json:"cost"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	Status           SaleStatus      `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// EffectiveStatus derives the observable status at a point in time.
// An active sale whose end date has passed reads as expired; the persisted
// field stays authoritative for write-path guards.
func (s *Sale) EffectiveStatus(now time.Time) SaleStatus {
	if s.Status == SaleActive && s.EndDate.Before(truncateToDate(now)) {
		return SaleExpired
	}
	return s.Status
}

// Reactivatable reports whether the sale is in a state that allows reactivation
// with a fresh profile. Active sales (by persisted or derived status) are not.
func (s *Sale) Reactivatable(now time.Time) bool {
	eff := s.EffectiveStatus(now)
	return eff == SaleExpired || eff == SaleCancelled
}

// SaleSummary is the read-side projection returned by the expiry scanner.
type SaleSummary struct {
	SaleID      int64     `json:"sale_id"`
	ClientID    int64     `json:"client_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	AgentID     int64     `json:"agent_id"`
	ProductName string    `json:"product_name"`
	EndDate     time.Time `json:"end_date"`
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date normalizes a timestamp to its UTC calendar date.
func Date(t time.Time) time.Time {
	return truncateToDate(t)
}
