package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySummaryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewInMemorySummaryCache(time.Minute)
	c.now = func() time.Time { return now }

	tenantA, tenantB := uuid.New(), uuid.New()
	summary := &report.Summary{TenantID: tenantA.String(), Leads: 3}
	summary.Payments.Total = decimal.NewFromInt(100)

	t.Run("miss on empty cache", func(t *testing.T) {
		got, ok, err := c.Get(ctx, tenantA)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("hit after set, isolated per tenant", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, tenantA, summary))

		got, ok, err := c.Get(ctx, tenantA)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(3), got.Leads)
		assert.True(t, got.Payments.Total.Equal(decimal.NewFromInt(100)))

		_, ok, err = c.Get(ctx, tenantB)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("returned value is a copy", func(t *testing.T) {
		got, _, _ := c.Get(ctx, tenantA)
		got.Leads = 99
		again, _, _ := c.Get(ctx, tenantA)
		assert.Equal(t, int64(3), again.Leads)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		require.NoError(t, c.Invalidate(ctx, tenantA))
		_, ok, err := c.Get(ctx, tenantA)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, tenantA, summary))
		now = now.Add(time.Minute)
		_, ok, err := c.Get(ctx, tenantA)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})
}

func TestNewSummaryCache_FallsBackToMemory(t *testing.T) {
	c := NewSummaryCache(nil, 0, nil)
	mem, ok := c.(*InMemorySummaryCache)
	require.True(t, ok)
	assert.Equal(t, DefaultSummaryTTL, mem.ttl)
}
