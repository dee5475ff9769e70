package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ownership describes how the business holds a product's upstream accounts.
type Ownership string

const (
	OwnershipRented Ownership = "rented"
	OwnershipOwned  Ownership = "owned"
)

// Client is a paying customer. Client CRUD lives outside the core; sales only
// need existence checks and contact details for outbound events.
type Client struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a sellable item with a cost basis. The cost is snapshotted into
// each sale at creation time so later price changes never touch history.
type Product struct {
	ID         int64           `json:"id"`
	SupplierID int64           `json:"supplier_id"`
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Ownership  Ownership       `json:"ownership"`
	Warranty   bool            `json:"warranty"`
	Cost       decimal.Decimal `json:"cost"`
	Renewable  bool            `json:"renewable"`
	ROITarget  decimal.Decimal `json:"roi_target"`
}

// SalesAttribute is a purchasable plan for a product: a duration, a seat
// capacity and a price. Treated as immutable once a sale references it.
type SalesAttribute struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	DurationDays int             `json:"duration_days"`
	Capacity     int             `json:"capacity"`
	Price        decimal.Decimal `json:"price"`
}
