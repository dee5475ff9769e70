package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resellhub-api/internal/model"
	"resellhub-api/internal/repository"
)

// Audit actions recorded by the sales core.
const (
	ActionCreateSale     = "CREATE_SALE"
	ActionRenewSale      = "RENEW_SALE"
	ActionExpelSale      = "EXPEL_SALE"
	ActionReactivateSale = "REACTIVATE_SALE"
	ActionDeleteSale     = "DELETE_SALE"
)

// SaleService is the only way sales come into existence and change state.
// It binds a client to one plan and one inventory profile, keeps the
// profile-assignment invariant across every transition, and reports the
// side effects each operation earned without performing them itself.
type SaleService struct {
	sales     repository.SaleRepository
	inventory repository.InventoryRepository
	catalog   CatalogLookup

	lowStockThreshold int
	now               func() time.Time
}

// NewSaleService creates the sales core. threshold <= 0 falls back to 3.
func NewSaleService(sales repository.SaleRepository, inventory repository.InventoryRepository, catalog CatalogLookup, threshold int) *SaleService {
	if threshold <= 0 {
		threshold = 3
	}
	return &SaleService{
		sales:             sales,
		inventory:         inventory,
		catalog:           catalog,
		lowStockThreshold: threshold,
		now:               time.Now,
	}
}

// CreateSaleInput carries the allocation request.
type CreateSaleInput struct {
	ClientID         int64
	SalesAttributeID int64
	AgentID          int64
	StartDate        time.Time
}

// SaleResult is a committed sale plus the side effects the caller should
// dispatch after the fact.
type SaleResult struct {
	Sale    *model.Sale
	Effects Effects
}

// CreateSale allocates one available profile of the plan's product to the
// client and inserts the sale, atomically. When the reservation loses a race
// it retries once with a fresh profile pick; a second loss reads as sold out.
func (s *SaleService) CreateSale(ctx context.Context, in CreateSaleInput) (*SaleResult, error) {
	client, err := s.catalog.GetClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	attr, err := s.catalog.GetSalesAttribute(ctx, in.SalesAttributeID)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, ErrPlanNotFound
	}

	product, err := s.catalog.GetProduct(ctx, attr.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	start := model.Date(in.StartDate)
	sale := &model.Sale{
		ClientID:         in.ClientID,
		AgentID:          in.AgentID,
		SalesAttributeID: attr.ID,
		Cost:             product.Cost, // snapshot: later price changes never touch this sale
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, attr.DurationDays),
	}

	// One bounded retry: losing the reservation race means another request
	// took the profile between our pick and our conditional update, so pick
	// again and try once more before declaring the product sold out.
	const maxAttempts = 2
	var created bool
	for attempt := 0; attempt < maxAttempts && !created; attempt++ {
		profile, err := s.inventory.FindAvailableProfile(ctx, attr.ProductID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, ErrOutOfStock
		}

		sale.ProfileID = &profile.ID
		switch err := s.sales.CreateSale(ctx, sale); {
		case err == nil:
			created = true
		case errors.Is(err, repository.ErrProfileUnavailable):
			continue
		default:
			return nil, err
		}
	}
	if !created {
		return nil, ErrOutOfStock
	}

	fx := Effects{
		Audits: []model.AuditEntry{{
			UserID:   in.AgentID,
			Action:   ActionCreateSale,
			Entity:   "sales",
			EntityID: sale.ID,
			After:    repository.MarshalState(sale),
		}},
		Events: []model.OutboundEvent{{
			Name: model.EventSaleCreated,
			Payload: map[string]any{
				"sale_id":      sale.ID,
				"client_id":    client.ID,
				"client_name":  client.FullName,
				"client_email": client.Email,
				"product_name": product.Name,
				"end_date":     sale.EndDate.Format(model.DateLayout),
			},
		}},
	}

	// Advisory only: a stale count here costs at worst an extra or missing
	// warning, never a double allocation.
	remaining, err := s.inventory.CountAvailableProfiles(ctx, attr.ProductID)
	if err == nil && remaining < s.lowStockThreshold {
		fx.RoleNotifications = append(fx.RoleNotifications, RoleNotification{
			Role:  "supervisor",
			Title: "Low Stock Warning",
			Message: fmt.Sprintf("Stock for product %q is running low. Only %d units left.",
				product.Name, remaining),
			Category: model.NotifySystem,
		})
	}

	return &SaleResult{Sale: sale, Effects: fx}, nil
}

// GetSale fetches one sale.
func (s *SaleService) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

// RenewSale extends the sale by one plan duration from its current end date,
// not from today, so renewing before expiry never shortens the term. The
// profile stays untouched.
func (s *SaleService) RenewSale(ctx context.Context, id int64, actorID int64) (*SaleResult, error) {
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}

	attr, err := s.catalog.GetSalesAttribute(ctx, sale.SalesAttributeID)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, ErrPlanNotFound
	}

	before := *sale
	newEnd := sale.EndDate.AddDate(0, 0, attr.DurationDays)

	ok, err := s.sales.RenewSale(ctx, id, newEnd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSaleNotFound
	}

	sale.EndDate = newEnd
	sale.Status = model.SaleActive

	fx := Effects{
		Audits: []model.AuditEntry{{
			UserID:   actorID,
			Action:   ActionRenewSale,
			Entity:   "sales",
			EntityID: sale.ID,
			Before:   repository.MarshalState(&before),
			After:    repository.MarshalState(sale),
		}},
		Events: []model.OutboundEvent{{
			Name: model.EventSaleRenewed,
			Payload: map[string]any{
				"sale_id":      sale.ID,
				"client_id":    sale.ClientID,
				"new_end_date": newEnd.Format(model.DateLayout),
			},
		}},
	}
	return &SaleResult{Sale: sale, Effects: fx}, nil
}

// ExpelSale cancels the sale and releases its seat in one transaction.
func (s *SaleService) ExpelSale(ctx context.Context, id int64, actorID int64) (*SaleResult, error) {
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}

	before := *sale
	if err := s.sales.CancelSale(ctx, id, sale.ProfileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	sale.Status = model.SaleCancelled

	fx := Effects{
		Audits: []model.AuditEntry{{
			UserID:   actorID,
			Action:   ActionExpelSale,
			Entity:   "sales",
			EntityID: sale.ID,
			Before:   repository.MarshalState(&before),
			After:    repository.MarshalState(sale),
		}},
		Events: []model.OutboundEvent{{
			Name: model.EventSaleCancelled,
			Payload: map[string]any{
				"sale_id":   sale.ID,
				"client_id": sale.ClientID,
			},
		}},
	}
	return &SaleResult{Sale: sale, Effects: fx}, nil
}

// ReactivateSale swaps a caller-chosen fresh profile into a lapsed sale.
// Active sales are rejected; the profile reservation uses the same
// conditional update as allocation, so a taken profile reads as out of stock.
// The prior profile, when still linked, is released in the same transaction
// so it cannot stay assigned to a sale that no longer occupies it.
func (s *SaleService) ReactivateSale(ctx context.Context, id int64, newProfileID int64, actorID int64) (*SaleResult, error) {
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	if !sale.Reactivatable(s.now()) {
		return nil, ErrInvalidTransition
	}

	before := *sale
	switch err := s.sales.ReactivateSale(ctx, id, newProfileID, sale.ProfileID); {
	case err == nil:
	case errors.Is(err, repository.ErrProfileUnavailable):
		return nil, ErrOutOfStock
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrSaleNotFound
	default:
		return nil, err
	}

	sale.ProfileID = &newProfileID
	sale.Status = model.SaleActive

	fx := Effects{
		Audits: []model.AuditEntry{{
			UserID:   actorID,
			Action:   ActionReactivateSale,
			Entity:   "sales",
			EntityID: sale.ID,
			Before:   repository.MarshalState(&before),
			After:    repository.MarshalState(sale),
		}},
	}
	return &SaleResult{Sale: sale, Effects: fx}, nil
}

// DeleteSale removes the sale and frees its seat in one transaction. A sale
// that lost its profile along the way is deleted without a release.
func (s *SaleService) DeleteSale(ctx context.Context, id int64, actorID int64) (*SaleResult, error) {
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}

	if err := s.sales.DeleteSale(ctx, id, sale.ProfileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}

	fx := Effects{
		Audits: []model.AuditEntry{{
			UserID:   actorID,
			Action:   ActionDeleteSale,
			Entity:   "sales",
			EntityID: sale.ID,
			Before:   repository.MarshalState(sale),
		}},
	}
	return &SaleResult{Sale: sale, Effects: fx}, nil
}
