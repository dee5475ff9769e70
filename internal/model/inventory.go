package model

import "time"

// AccountStatus is the lifecycle state of a shared credential account.
type AccountStatus string

const (
	AccountAvailable   AccountStatus = "available"
	AccountMaintenance AccountStatus = "maintenance"
)

// ProfileStatus is the availability state of a seat within an account.
type ProfileStatus string

const (
	ProfileAvailable ProfileStatus = "available"
	ProfileAssigned  ProfileStatus = "assigned"
)

// InventoryAccount is a shared credential pool for one product. Accounts own
// their profiles; deleting an account cascades to its profiles and is only
// allowed while none of them is assigned.
type InventoryAccount struct {
	ID        int64         `json:"id"`
	ProductID int64         `json:"product_id"`
	Email     string        `json:"email"`
	Password  string        `json:"-"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// InventoryProfile is one allocatable seat within an account. A profile
// belongs to the same account for its whole lifetime.
type InventoryProfile struct {
	ID        int64         `json:"id"`
	AccountID int64         `json:"account_id"`
	Name      string        `json:"name"`
	Status    ProfileStatus `json:"status"`
}

// ProfilePatch carries the optional fields of a profile update. Nil fields
// are left untouched.
type ProfilePatch struct {
	Name   *string        `json:"name"`
	Status *ProfileStatus `json:"status"`
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Status == nil
}
