package repository

import (
	"context"
	"time"

	"resellhub-api/internal/model"
)

// InventoryRepository is the source of truth for profile availability.
type InventoryRepository interface {
	// CreateAccountWithProfiles inserts the account and profileCount seats in
	// one transaction. Fills in the account ID.
	CreateAccountWithProfiles(ctx context.Context, account *model.InventoryAccount, profileCount int) error

	// GetAccount returns nil when the account does not exist.
	GetAccount(ctx context.Context, id int64) (*model.InventoryAccount, error)

	// DeleteAccount removes the account and its profiles in one transaction.
	// Returns ErrAccountInUse while any profile is assigned.
	DeleteAccount(ctx context.Context, id int64) error

	// GetProfile returns nil when the profile does not exist.
	GetProfile(ctx context.Context, id int64) (*model.InventoryProfile, error)

	// ListProfiles returns all profiles of an account ordered by id.
	ListProfiles(ctx context.Context, accountID int64) ([]model.InventoryProfile, error)

	// UpdateProfile applies the non-nil fields of the patch.
	UpdateProfile(ctx context.Context, id int64, patch model.ProfilePatch) (bool, error)

	// FindAvailableProfile picks one available profile across all accounts of
	// the product, lowest id first. Returns nil when sold out; that is not an
	// error condition.
	FindAvailableProfile(ctx context.Context, productID int64) (*model.InventoryProfile, error)

	// CountAvailableProfiles is used for low-stock checks; callers may
	// tolerate a stale count.
	CountAvailableProfiles(ctx context.Context, productID int64) (int, error)

	// ReserveProfile transitions available -> assigned with a single
	// conditional update. Returns false when the profile was not available at
	// the time of the attempt.
	ReserveProfile(ctx context.Context, id int64) (bool, error)

	// ReleaseProfile transitions assigned -> available. Idempotent.
	ReleaseProfile(ctx context.Context, id int64) error
}

// SaleRepository persists sales. Every method that touches both a sale and a
// profile runs as a single transaction: both commit or neither does.
type SaleRepository interface {
	// CreateSale reserves sale.ProfileID and inserts the sale row in one
	// transaction. Returns ErrProfileUnavailable when the reservation lost a
	// race; no partial state is left behind. Fills in the sale ID.
	CreateSale(ctx context.Context, sale *model.Sale) error

	// GetSale returns nil when the sale does not exist.
	GetSale(ctx context.Context, id int64) (*model.Sale, error)

	// RenewSale moves the end date and puts the sale back to active.
	RenewSale(ctx context.Context, id int64, newEndDate time.Time) (bool, error)

	// CancelSale marks the sale cancelled and releases its profile in one
	// transaction.
	CancelSale(ctx context.Context, id int64, profileID *int64) error

	// ReactivateSale reserves newProfileID, releases priorProfileID (when
	// non-nil and still assigned) and re-links the sale as active, all in one
	// transaction. Returns ErrProfileUnavailable when the new profile is taken.
	ReactivateSale(ctx context.Context, id int64, newProfileID int64, priorProfileID *int64) error

	// DeleteSale releases the profile (skipped when profileID is nil) and
	// removes the row in one transaction.
	DeleteSale(ctx context.Context, id int64, profileID *int64) error

	// FindExpiringOn returns active sales whose end date equals day exactly.
	FindExpiringOn(ctx context.Context, day time.Time) ([]model.SaleSummary, error)
}

// CatalogRepository provides the read-only lookups the allocator validates
// against, plus the inserts provisioning and fixtures need.
type CatalogRepository interface {
	GetClient(ctx context.Context, id int64) (*model.Client, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	GetSalesAttribute(ctx context.Context, id int64) (*model.SalesAttribute, error)

	CreateClient(ctx context.Context, client *model.Client) error
	CreateProduct(ctx context.Context, product *model.Product) error
	CreateSalesAttribute(ctx context.Context, attr *model.SalesAttribute) error
}

// UserRepository resolves back-office operators for session minting and
// notification fan-out.
type UserRepository interface {
	CreateUser(ctx context.Context, username, role string) (int64, error)
	// GetUserByUsername returns nil when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuditRepository records audit trail entries. Best-effort collaborator.
type AuditRepository interface {
	Record(ctx context.Context, entry *model.AuditEntry) error
}

// NotificationRepository creates internal notifications. Best-effort
// collaborator.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	CreateForRole(ctx context.Context, role, title, message, category string) error
}
