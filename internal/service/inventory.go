package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"resellhub-api/internal/model"
	"resellhub-api/internal/repository"
)

// Audit actions recorded by the inventory ledger.
const (
	ActionProvisionAccount = "PROVISION_ACCOUNT"
	ActionDeleteAccount    = "DELETE_ACCOUNT"
	ActionUpdateProfile    = "UPDATE_PROFILE"
)

// InventoryService manages the credential accounts and the seats they carry.
// Allocation itself lives in SaleService; this side only provisions, inspects
// and retires stock.
type InventoryService struct {
	inventory repository.InventoryRepository
	catalog   CatalogLookup
}

func NewInventoryService(inventory repository.InventoryRepository, catalog CatalogLookup) *InventoryService {
	return &InventoryService{inventory: inventory, catalog: catalog}
}

// ProvisionAccountInput carries a new credential account and how many seats
// to open on it.
type ProvisionAccountInput struct {
	ProductID    int64
	Email        string
	Password     string
	ProfileCount int
}

// AccountDetail is an account with its profiles, the shape the API returns.
type AccountDetail struct {
	Account  *model.InventoryAccount  `json:"account"`
	Profiles []model.InventoryProfile `json:"profiles"`
}

// AccountResult is a committed account plus the side effects to dispatch.
type AccountResult struct {
	Account *model.InventoryAccount
	Effects Effects
}

// ProvisionAccount creates a credential account and its seats in one
// transaction. Every seat starts available.
func (s *InventoryService) ProvisionAccount(ctx context.Context, in ProvisionAccountInput, actorID int64) (*AccountResult, error) {
	if in.ProfileCount <= 0 {
		return nil, fmt.Errorf("%w: profile count must be positive", ErrInvalidInput)
	}

	product, err := s.catalog.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	account := &model.InventoryAccount{
		ProductID: in.ProductID,
		Email:     in.Email,
		Password:  in.Password,
		Status:    model.AccountAvailable,
	}
	if err := s.inventory.CreateAccountWithProfiles(ctx, account, in.ProfileCount); err != nil {
		return nil, err
	}

	fx := Effects{
		Audits: []model.AuditEntry{{
			UserID:   actorID,
			Action:   ActionProvisionAccount,
			Entity:   "inventory_accounts",
			EntityID: account.ID,
			After:    repository.MarshalState(account),
		}},
	}
	return &AccountResult{Account: account, Effects: fx}, nil
}

// GetAccount returns the account and its profiles.
func (s *InventoryService) GetAccount(ctx context.Context, id int64) (*AccountDetail, error) {
	account, err := s.inventory.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	profiles, err := s.inventory.ListProfiles(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AccountDetail{Account: account, Profiles: profiles}, nil
}

// DeleteAccount removes an account and its profiles. Refused while any seat
// on it is still assigned to a sale.
func (s *InventoryService) DeleteAccount(ctx context.Context, id int64, actorID int64) (*Effects, error) {
	account, err := s.inventory.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	switch err := s.inventory.DeleteAccount(ctx, id); {
	case err == nil:
	case errors.Is(err, repository.ErrAccountInUse):
		return nil, ErrAccountInUse
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrAccountNotFound
	default:
		return nil, err
	}

	return &Effects{
		Audits: []model.AuditEntry{{
			UserID:   actorID,
			Action:   ActionDeleteAccount,
			Entity:   "inventory_accounts",
			EntityID: id,
			Before:   repository.MarshalState(account),
		}},
	}, nil
}

// PatchProfile renames a seat or forces its status. Status writes through
// this path are an operator override; the allocator never uses it.
func (s *InventoryService) PatchProfile(ctx context.Context, id int64, patch model.ProfilePatch, actorID int64) (*model.InventoryProfile, *Effects, error) {
	if patch.Empty() {
		return nil, nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if patch.Status != nil {
		switch *patch.Status {
		case model.ProfileAvailable, model.ProfileAssigned:
		default:
			return nil, nil, fmt.Errorf("%w: invalid profile status %q", ErrInvalidInput, *patch.Status)
		}
	}

	before, err := s.inventory.GetProfile(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if before == nil {
		return nil, nil, ErrProfileNotFound
	}

	ok, err := s.inventory.UpdateProfile(ctx, id, patch)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrProfileNotFound
	}

	after := *before
	if patch.Name != nil {
		after.Name = *patch.Name
	}
	if patch.Status != nil {
		after.Status = *patch.Status
	}

	fx := &Effects{
		Audits: []model.AuditEntry{{
			UserID:   actorID,
			Action:   ActionUpdateProfile,
			Entity:   "inventory_profiles",
			EntityID: id,
			Before:   repository.MarshalState(before),
			After:    repository.MarshalState(&after),
		}},
	}
	return &after, fx, nil
}

// AvailabilityFor reports how many seats a product has left.
func (s *InventoryService) AvailabilityFor(ctx context.Context, productID int64) (int, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, ErrProductNotFound
	}
	return s.inventory.CountAvailableProfiles(ctx, productID)
}
