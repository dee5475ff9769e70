package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"resellhub-api/internal/model"
	"resellhub-api/internal/repository"
)

// In-memory collaborators for service tests. They mirror the store's
// contracts (nil for missing rows, sentinel errors, conditional reservation)
// without a database.

type fakeCatalog struct {
	clients  map[int64]*model.Client
	products map[int64]*model.Product
	attrs    map[int64]*model.SalesAttribute
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		clients:  map[int64]*model.Client{},
		products: map[int64]*model.Product{},
		attrs:    map[int64]*model.SalesAttribute{},
	}
}

func (f *fakeCatalog) GetClient(_ context.Context, id int64) (*model.Client, error) {
	return f.clients[id], nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*model.Product, error) {
	return f.products[id], nil
}

func (f *fakeCatalog) GetSalesAttribute(_ context.Context, id int64) (*model.SalesAttribute, error) {
	return f.attrs[id], nil
}

type fakeProfile struct {
	model.InventoryProfile
	productID int64
}

type fakeInventory struct {
	profiles map[int64]*fakeProfile

	// reserveFailures forces the next N conditional reservations to lose,
	// simulating a concurrent winner.
	reserveFailures int
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{profiles: map[int64]*fakeProfile{}}
}

func (f *fakeInventory) addProfile(id, productID int64) {
	f.profiles[id] = &fakeProfile{
		InventoryProfile: model.InventoryProfile{ID: id, AccountID: 1, Name: "Profile", Status: model.ProfileAvailable},
		productID:        productID,
	}
}

func (f *fakeInventory) CreateAccountWithProfiles(context.Context, *model.InventoryAccount, int) error {
	panic("not used")
}

func (f *fakeInventory) GetAccount(context.Context, int64) (*model.InventoryAccount, error) {
	panic("not used")
}

func (f *fakeInventory) DeleteAccount(context.Context, int64) error {
	panic("not used")
}

func (f *fakeInventory) GetProfile(_ context.Context, id int64) (*model.InventoryProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := p.InventoryProfile
	return &cp, nil
}

func (f *fakeInventory) ListProfiles(context.Context, int64) ([]model.InventoryProfile, error) {
	panic("not used")
}

func (f *fakeInventory) UpdateProfile(_ context.Context, id int64, patch model.ProfilePatch) (bool, error) {
	p, ok := f.profiles[id]
	if !ok {
		return false, nil
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	return true, nil
}

func (f *fakeInventory) FindAvailableProfile(_ context.Context, productID int64) (*model.InventoryProfile, error) {
	var ids []int64
	for id, p := range f.profiles {
		if p.productID == productID && p.Status == model.ProfileAvailable {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	cp := f.profiles[ids[0]].InventoryProfile
	return &cp, nil
}

func (f *fakeInventory) CountAvailableProfiles(_ context.Context, productID int64) (int, error) {
	count := 0
	for _, p := range f.profiles {
		if p.productID == productID && p.Status == model.ProfileAvailable {
			count++
		}
	}
	return count, nil
}

func (f *fakeInventory) ReserveProfile(_ context.Context, id int64) (bool, error) {
	if f.reserveFailures > 0 {
		f.reserveFailures--
		return false, nil
	}
	p, ok := f.profiles[id]
	if !ok || p.Status != model.ProfileAvailable {
		return false, nil
	}
	p.Status = model.ProfileAssigned
	return true, nil
}

func (f *fakeInventory) ReleaseProfile(_ context.Context, id int64) error {
	if p, ok := f.profiles[id]; ok {
		p.Status = model.ProfileAvailable
	}
	return nil
}

type fakeSales struct {
	inventory *fakeInventory
	sales     map[int64]*model.Sale
	nextID    int64
}

func newFakeSales(inv *fakeInventory) *fakeSales {
	return &fakeSales{inventory: inv, sales: map[int64]*model.Sale{}, nextID: 1}
}

func (f *fakeSales) CreateSale(ctx context.Context, sale *model.Sale) error {
	ok, err := f.inventory.ReserveProfile(ctx, *sale.ProfileID)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrProfileUnavailable
	}
	sale.ID = f.nextID
	f.nextID++
	sale.Status = model.SaleActive
	cp := *sale
	f.sales[sale.ID] = &cp
	return nil
}

func (f *fakeSales) GetSale(_ context.Context, id int64) (*model.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSales) RenewSale(_ context.Context, id int64, newEndDate time.Time) (bool, error) {
	s, ok := f.sales[id]
	if !ok {
		return false, nil
	}
	s.EndDate = newEndDate
	s.Status = model.SaleActive
	return true, nil
}

func (f *fakeSales) CancelSale(ctx context.Context, id int64, profileID *int64) error {
	s, ok := f.sales[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.Status = model.SaleCancelled
	if profileID != nil {
		return f.inventory.ReleaseProfile(ctx, *profileID)
	}
	return nil
}

func (f *fakeSales) ReactivateSale(ctx context.Context, id int64, newProfileID int64, priorProfileID *int64) error {
	s, ok := f.sales[id]
	if !ok {
		return sql.ErrNoRows
	}
	reserved, err := f.inventory.ReserveProfile(ctx, newProfileID)
	if err != nil {
		return err
	}
	if !reserved {
		return repository.ErrProfileUnavailable
	}
	if priorProfileID != nil && *priorProfileID != newProfileID {
		if err := f.inventory.ReleaseProfile(ctx, *priorProfileID); err != nil {
			return err
		}
	}
	s.ProfileID = &newProfileID
	s.Status = model.SaleActive
	return nil
}

func (f *fakeSales) DeleteSale(ctx context.Context, id int64, profileID *int64) error {
	if _, ok := f.sales[id]; !ok {
		return sql.ErrNoRows
	}
	if profileID != nil {
		if err := f.inventory.ReleaseProfile(ctx, *profileID); err != nil {
			return err
		}
	}
	delete(f.sales, id)
	return nil
}

func (f *fakeSales) FindExpiringOn(_ context.Context, day time.Time) ([]model.SaleSummary, error) {
	var out []model.SaleSummary
	var ids []int64
	for id := range f.sales {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s := f.sales[id]
		if s.Status == model.SaleActive && s.EndDate.Equal(day) {
			out = append(out, model.SaleSummary{
				SaleID:   s.ID,
				ClientID: s.ClientID,
				AgentID:  s.AgentID,
				EndDate:  s.EndDate,
			})
		}
	}
	return out, nil
}

var (
	_ repository.InventoryRepository = (*fakeInventory)(nil)
	_ repository.SaleRepository      = (*fakeSales)(nil)
	_ CatalogLookup                  = (*fakeCatalog)(nil)
)
