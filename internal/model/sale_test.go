package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDay(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEffectiveStatus(t *testing.T) {
	tests := []struct {
		name   string
		status SaleStatus
		end    string
		now    string
		want   SaleStatus
	}{
		{"active before end", SaleActive, "2026-09-10", "2026-09-01", SaleActive},
		{"active on end date", SaleActive, "2026-09-10", "2026-09-10", SaleActive},
		{"active past end reads expired", SaleActive, "2026-09-10", "2026-09-11", SaleExpired},
		{"cancelled stays cancelled past end", SaleCancelled, "2026-09-10", "2026-09-11", SaleCancelled},
		{"expired stays expired", SaleExpired, "2026-09-10", "2026-09-01", SaleExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Sale{Status: tt.status, EndDate: mustDay(tt.end)}
			assert.Equal(t, tt.want, s.EffectiveStatus(mustDay(tt.now)))
		})
	}
}

func TestEffectiveStatusIgnoresTimeOfDay(t *testing.T) {
	s := &Sale{Status: SaleActive, EndDate: mustDay("2026-09-10")}
	lateOnEndDay := time.Date(2026, 9, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, SaleActive, s.EffectiveStatus(lateOnEndDay))
}

func TestReactivatable(t *testing.T) {
	now := mustDay("2026-09-01")

	active := &Sale{Status: SaleActive, EndDate: mustDay("2026-09-10")}
	assert.False(t, active.Reactivatable(now))

	cancelled := &Sale{Status: SaleCancelled, EndDate: mustDay("2026-09-10")}
	assert.True(t, cancelled.Reactivatable(now))

	// Persisted active, but the term already ran out.
	lapsed := &Sale{Status: SaleActive, EndDate: mustDay("2026-08-01")}
	assert.True(t, lapsed.Reactivatable(now))
}

func TestDateTruncation(t *testing.T) {
	ts := time.Date(2026, 9, 1, 15, 30, 45, 0, time.UTC)
	assert.Equal(t, "2026-09-01", Date(ts).Format(DateLayout))
	assert.True(t, Date(ts).Equal(mustDay("2026-09-01")))
}
