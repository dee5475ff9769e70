package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"resellhub-api/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

type fixtures struct {
	client  *model.Client
	product *model.Product
	attr    *model.SalesAttribute
	account *model.InventoryAccount
}

// seed creates one client, one product with a 30-day plan, and one account
// with the given number of profiles.
func seed(t *testing.T, store *Store, profileCount int) fixtures {
	t.Helper()
	ctx := context.Background()

	client := &model.Client{FullName: "Ada Lovelace", Phone: "555-0100", Email: "ada@example.com"}
	require.NoError(t, store.CreateClient(ctx, client))

	product := &model.Product{
		SupplierID: 1,
		Type:       "streaming",
		Name:       "StreamMax Premium",
		Ownership:  model.OwnershipRented,
		Cost:       decimal.NewFromFloat(4.50),
		Renewable:  true,
		ROITarget:  decimal.NewFromFloat(9.00),
	}
	require.NoError(t, store.CreateProduct(ctx, product))

	attr := &model.SalesAttribute{
		ProductID:    product.ID,
		DurationDays: 30,
		Capacity:     profileCount,
		Price:        decimal.NewFromFloat(9.99),
	}
	require.NoError(t, store.CreateSalesAttribute(ctx, attr))

	account := &model.InventoryAccount{
		ProductID: product.ID,
		Email:     "pool@example.com",
		Password:  "hunter2",
	}
	require.NoError(t, store.CreateAccountWithProfiles(ctx, account, profileCount))

	return fixtures{client: client, product: product, attr: attr, account: account}
}

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newSale(fx fixtures, profileID int64, start, end string) *model.Sale {
	return &model.Sale{
		ClientID:         fx.client.ID,
		AgentID:          1,
		ProfileID:        &profileID,
		SalesAttributeID: fx.attr.ID,
		Cost:             fx.product.Cost,
		StartDate:        day(start),
		EndDate:          day(end),
	}
}

func TestProvisioning(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fx := seed(t, store, 4)

	t.Run("account created with all profiles available", func(t *testing.T) {
		account, err := store.GetAccount(ctx, fx.account.ID)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, model.AccountAvailable, account.Status)

		profiles, err := store.ListProfiles(ctx, fx.account.ID)
		require.NoError(t, err)
		require.Len(t, profiles, 4)
		for _, p := range profiles {
			assert.Equal(t, model.ProfileAvailable, p.Status)
		}
		assert.Equal(t, "Profile 1", profiles[0].Name)
		assert.Equal(t, "Profile 4", profiles[3].Name)
	})

	t.Run("count matches provisioned seats", func(t *testing.T) {
		count, err := store.CountAvailableProfiles(ctx, fx.product.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("missing account is nil", func(t *testing.T) {
		account, err := store.GetAccount(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, account)
	})
}

func TestReserveProfile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fx := seed(t, store, 2)

	profiles, err := store.ListProfiles(ctx, fx.account.ID)
	require.NoError(t, err)
	id := profiles[0].ID

	t.Run("first reservation wins", func(t *testing.T) {
		ok, err := store.ReserveProfile(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("second reservation of the same profile loses", func(t *testing.T) {
		ok, err := store.ReserveProfile(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("release is idempotent", func(t *testing.T) {
		require.NoError(t, store.ReleaseProfile(ctx, id))
		require.NoError(t, store.ReleaseProfile(ctx, id))

		p, err := store.GetProfile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.ProfileAvailable, p.Status)
	})
}

func TestCreateSale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fx := seed(t, store, 1)

	profile, err := store.FindAvailableProfile(ctx, fx.product.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)

	sale := newSale(fx, profile.ID, "2026-09-01", "2026-10-01")
	require.NoError(t, store.CreateSale(ctx, sale))
	require.NotZero(t, sale.ID)
	assert.Equal(t, model.SaleActive, sale.Status)

	t.Run("profile assigned after sale", func(t *testing.T) {
		p, err := store.GetProfile(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ProfileAssigned, p.Status)
	})

	t.Run("round trip preserves fields", func(t *testing.T) {
		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, fx.client.ID, got.ClientID)
		require.NotNil(t, got.ProfileID)
		assert.Equal(t, profile.ID, *got.ProfileID)
		assert.True(t, got.Cost.Equal(fx.product.Cost), "cost %s != %s", got.Cost, fx.product.Cost)
		assert.Equal(t, "2026-09-01", got.StartDate.Format(model.DateLayout))
		assert.Equal(t, "2026-10-01", got.EndDate.Format(model.DateLayout))
		assert.Equal(t, model.SaleActive, got.Status)
	})

	t.Run("second sale on the same profile fails atomically", func(t *testing.T) {
		dup := newSale(fx, profile.ID, "2026-09-01", "2026-10-01")
		err := store.CreateSale(ctx, dup)
		assert.ErrorIs(t, err, ErrProfileUnavailable)
		assert.Zero(t, dup.ID)

		// The losing attempt must leave no sale row behind.
		var count int
		require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM sales`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("product is sold out", func(t *testing.T) {
		p, err := store.FindAvailableProfile(ctx, fx.product.ID)
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestConcurrentAllocation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fx := seed(t, store, 1)

	profile, err := store.FindAvailableProfile(ctx, fx.product.ID)
	require.NoError(t, err)
	require.NotNil(t, profile)

	// All workers race for the single seat. Exactly one conditional update
	// may win regardless of interleaving.
	const workers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		losses int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sale := newSale(fx, profile.ID, "2026-09-01", "2026-10-01")
			err := store.CreateSale(ctx, sale)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case err == ErrProfileUnavailable:
				losses++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, losses)

	var count int
	require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM sales`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSaleLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fx := seed(t, store, 2)

	profile, err := store.FindAvailableProfile(ctx, fx.product.ID)
	require.NoError(t, err)
	sale := newSale(fx, profile.ID, "2026-09-01", "2026-10-01")
	require.NoError(t, store.CreateSale(ctx, sale))

	t.Run("renew moves end date and restores active", func(t *testing.T) {
		ok, err := store.RenewSale(ctx, sale.ID, day("2026-11-01"))
		require.NoError(t, err)
		require.True(t, ok)

		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, "2026-11-01", got.EndDate.Format(model.DateLayout))
		assert.Equal(t, model.SaleActive, got.Status)
	})

	t.Run("renew missing sale reports false", func(t *testing.T) {
		ok, err := store.RenewSale(ctx, 9999, day("2026-11-01"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("cancel releases the seat in the same transaction", func(t *testing.T) {
		require.NoError(t, store.CancelSale(ctx, sale.ID, sale.ProfileID))

		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SaleCancelled, got.Status)

		p, err := store.GetProfile(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ProfileAvailable, p.Status)
	})

	t.Run("cancel missing sale reports no rows", func(t *testing.T) {
		err := store.CancelSale(ctx, 9999, nil)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("reactivate onto a fresh profile", func(t *testing.T) {
		fresh, err := store.FindAvailableProfile(ctx, fx.product.ID)
		require.NoError(t, err)
		require.NotNil(t, fresh)

		require.NoError(t, store.ReactivateSale(ctx, sale.ID, fresh.ID, sale.ProfileID))

		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SaleActive, got.Status)
		require.NotNil(t, got.ProfileID)
		assert.Equal(t, fresh.ID, *got.ProfileID)

		p, err := store.GetProfile(ctx, fresh.ID)
		require.NoError(t, err)
		assert.Equal(t, model.ProfileAssigned, p.Status)
	})

	t.Run("reactivate onto a taken profile fails", func(t *testing.T) {
		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		taken := *got.ProfileID

		err = store.ReactivateSale(ctx, sale.ID, taken, nil)
		assert.ErrorIs(t, err, ErrProfileUnavailable)
	})

	t.Run("delete frees the seat and removes the row", func(t *testing.T) {
		got, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)

		require.NoError(t, store.DeleteSale(ctx, sale.ID, got.ProfileID))

		gone, err := store.GetSale(ctx, sale.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)

		p, err := store.GetProfile(ctx, *got.ProfileID)
		require.NoError(t, err)
		assert.Equal(t, model.ProfileAvailable, p.Status)
	})
}

func TestDeleteAccountGuard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fx := seed(t, store, 1)

	profile, err := store.FindAvailableProfile(ctx, fx.product.ID)
	require.NoError(t, err)
	sale := newSale(fx, profile.ID, "2026-09-01", "2026-10-01")
	require.NoError(t, store.CreateSale(ctx, sale))

	t.Run("refused while a seat is assigned", func(t *testing.T) {
		err := store.DeleteAccount(ctx, fx.account.ID)
		assert.ErrorIs(t, err, ErrAccountInUse)

		// Nothing was removed.
		account, err := store.GetAccount(ctx, fx.account.ID)
		require.NoError(t, err)
		assert.NotNil(t, account)
	})

	t.Run("allowed after the sale is expelled", func(t *testing.T) {
		require.NoError(t, store.CancelSale(ctx, sale.ID, sale.ProfileID))
		require.NoError(t, store.DeleteAccount(ctx, fx.account.ID))

		account, err := store.GetAccount(ctx, fx.account.ID)
		require.NoError(t, err)
		assert.Nil(t, account)

		profiles, err := store.ListProfiles(ctx, fx.account.ID)
		require.NoError(t, err)
		assert.Empty(t, profiles)
	})

	t.Run("missing account reports no rows", func(t *testing.T) {
		err := store.DeleteAccount(ctx, 9999)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUpdateProfile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fx := seed(t, store, 1)

	profiles, err := store.ListProfiles(ctx, fx.account.ID)
	require.NoError(t, err)
	id := profiles[0].ID

	t.Run("rename only", func(t *testing.T) {
		name := "Kids"
		ok, err := store.UpdateProfile(ctx, id, model.ProfilePatch{Name: &name})
		require.NoError(t, err)
		require.True(t, ok)

		p, err := store.GetProfile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Kids", p.Name)
		assert.Equal(t, model.ProfileAvailable, p.Status)
	})

	t.Run("status override", func(t *testing.T) {
		status := model.ProfileAssigned
		ok, err := store.UpdateProfile(ctx, id, model.ProfilePatch{Status: &status})
		require.NoError(t, err)
		require.True(t, ok)

		p, err := store.GetProfile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.ProfileAssigned, p.Status)
	})

	t.Run("missing profile reports false", func(t *testing.T) {
		name := "x"
		ok, err := store.UpdateProfile(ctx, 9999, model.ProfilePatch{Name: &name})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFindExpiringOn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fx := seed(t, store, 3)

	profiles, err := store.ListProfiles(ctx, fx.account.ID)
	require.NoError(t, err)

	onTarget := newSale(fx, profiles[0].ID, "2026-09-01", "2026-09-04")
	require.NoError(t, store.CreateSale(ctx, onTarget))

	later := newSale(fx, profiles[1].ID, "2026-09-01", "2026-09-05")
	require.NoError(t, store.CreateSale(ctx, later))

	cancelled := newSale(fx, profiles[2].ID, "2026-09-01", "2026-09-04")
	require.NoError(t, store.CreateSale(ctx, cancelled))
	require.NoError(t, store.CancelSale(ctx, cancelled.ID, cancelled.ProfileID))

	t.Run("exact day match, active only", func(t *testing.T) {
		found, err := store.FindExpiringOn(ctx, day("2026-09-04"))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, onTarget.ID, found[0].SaleID)
		assert.Equal(t, fx.client.FullName, found[0].ClientName)
		assert.Equal(t, fx.client.Email, found[0].ClientEmail)
		assert.Equal(t, fx.product.Name, found[0].ProductName)
		assert.Equal(t, "2026-09-04", found[0].EndDate.Format(model.DateLayout))
	})

	t.Run("renewal drops the sale from the scan", func(t *testing.T) {
		ok, err := store.RenewSale(ctx, onTarget.ID, day("2026-10-04"))
		require.NoError(t, err)
		require.True(t, ok)

		found, err := store.FindExpiringOn(ctx, day("2026-09-04"))
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestAuditAndNotifications(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	supervisor, err := store.CreateUser(ctx, "eve", "supervisor")
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, "sam", "seller")
	require.NoError(t, err)

	t.Run("record audit entry with snapshots", func(t *testing.T) {
		entry := &model.AuditEntry{
			UserID:   supervisor,
			Action:   "CREATE_SALE",
			Entity:   "sales",
			EntityID: 1,
			After:    []byte(`{"id":1}`),
		}
		require.NoError(t, store.Record(ctx, entry))
		assert.NotZero(t, entry.ID)
	})

	t.Run("role fan-out reaches only matching users", func(t *testing.T) {
		require.NoError(t, store.CreateForRole(ctx, "supervisor", "Low Stock Warning", "2 left", model.NotifySystem))

		var count int
		require.NoError(t, store.DB().QueryRow(
			`SELECT COUNT(*) FROM notifications WHERE user_id = ?`, supervisor).Scan(&count))
		assert.Equal(t, 1, count)

		require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM notifications`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("user lookup by name", func(t *testing.T) {
		user, err := store.GetUserByUsername(ctx, "eve")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, supervisor, user.ID)
		assert.Equal(t, "supervisor", user.Role)

		missing, err := store.GetUserByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}
