package service

import (
	"context"
	"testing"
	"time"

	"resellhub-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExpiryFixture(t *testing.T, windowDays int) (*fakeSales, *ExpiryService) {
	t.Helper()
	inventory := newFakeInventory()
	sales := newFakeSales(inventory)
	svc := NewExpiryService(sales, windowDays)
	svc.now = func() time.Time { return day("2026-09-01") }
	return sales, svc
}

func addSale(sales *fakeSales, agentID int64, end string, status model.SaleStatus) *model.Sale {
	id := sales.nextID
	sales.nextID++
	s := &model.Sale{
		ID:       id,
		ClientID: 1,
		AgentID:  agentID,
		EndDate:  day(end),
		Status:   status,
	}
	sales.sales[id] = s
	return s
}

func TestFindExpiringSoon(t *testing.T) {
	sales, svc := newExpiryFixture(t, 3)

	onTarget := addSale(sales, 7, "2026-09-04", model.SaleActive)
	addSale(sales, 7, "2026-09-05", model.SaleActive)   // one day late
	addSale(sales, 7, "2026-09-03", model.SaleActive)   // one day early
	addSale(sales, 7, "2026-09-04", model.SaleCancelled)

	found, err := svc.FindExpiringSoon(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, found, 1, "exact day match only, active only")
	assert.Equal(t, onTarget.ID, found[0].SaleID)

	t.Run("days override shifts the target day", func(t *testing.T) {
		found, err := svc.FindExpiringSoon(context.Background(), 4)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, day("2026-09-05"), found[0].EndDate)
	})
}

func TestRunExpiryWarnings(t *testing.T) {
	sales, svc := newExpiryFixture(t, 3)

	withAgent := addSale(sales, 7, "2026-09-04", model.SaleActive)
	orphan := addSale(sales, 0, "2026-09-04", model.SaleActive)

	report, fx, err := svc.RunExpiryWarnings(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "2026-09-04", report.Day.Format(model.DateLayout))
	assert.Equal(t, 2, report.Warnings)

	require.Len(t, fx.Events, 2)
	for _, ev := range fx.Events {
		assert.Equal(t, model.EventSaleExpiring, ev.Name)
	}
	assert.Equal(t, withAgent.ID, fx.Events[0].Payload["sale_id"])
	assert.Equal(t, orphan.ID, fx.Events[1].Payload["sale_id"])

	require.Len(t, fx.UserNotifications, 1, "no notification for a sale without an agent")
	assert.Equal(t, int64(7), fx.UserNotifications[0].UserID)

	t.Run("rerun repeats the same warnings", func(t *testing.T) {
		again, fx2, err := svc.RunExpiryWarnings(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, report.Warnings, again.Warnings)
		assert.Len(t, fx2.Events, 2)
	})

	t.Run("renewal drops the sale from the next run", func(t *testing.T) {
		_, err := sales.RenewSale(context.Background(), withAgent.ID, day("2026-10-04"))
		require.NoError(t, err)

		after, _, err := svc.RunExpiryWarnings(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, 1, after.Warnings)
	})
}

func TestExpiryWindowDefault(t *testing.T) {
	_, svc := newExpiryFixture(t, 0)
	assert.Equal(t, 3, svc.windowDays)
}
