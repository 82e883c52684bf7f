package report

import (
	"context"
	"testing"
	"time"

	appreservation "github.com/propcore/backend/internal/application/reservation"
	appsales "github.com/propcore/backend/internal/application/sales"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/cache"
	"github.com/propcore/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	fx := testutil.NewFixture(t)
	ctx := context.Background()
	tenant := fx.Tenant(t, "acme", "2", "3")
	seller := fx.Member(t, tenant, tenancy.RoleSeller)
	admin := fx.Member(t, tenant, tenancy.RoleAdmin)
	now := time.Now().UTC()

	fx.Lead(t, admin, "Ana")
	reservations := appreservation.NewService(fx.Scope)
	_, err := reservations.Create(ctx, seller, appreservation.CreateInput{UnitID: fx.Unit(t, admin, "R-1", "1").ID, TTLHours: intPtr(12)})
	require.NoError(t, err)

	salesSvc := appsales.NewService(fx.Scope)
	sale, err := salesSvc.CreateSale(ctx, seller, appsales.CreateSaleInput{UnitID: fx.Unit(t, admin, "S-1", "500000").ID, Price: decimal.NewFromInt(500000)})
	require.NoError(t, err)
	_, err = salesSvc.CreatePayment(ctx, seller, appsales.CreatePaymentInput{SaleID: sale.ID, Amount: decimal.NewFromInt(10000)})
	require.NoError(t, err)

	svc := NewService(fx.Scope, nil)
	svc.SetClock(func() time.Time { return now })
	sum, err := svc.Summary(ctx, seller, nil)
	require.NoError(t, err)

	assert.Equal(t, tenant.ID.String(), sum.TenantID)
	assert.Equal(t, int64(1), sum.Leads)
	assert.Equal(t, int64(1), sum.Reservations.Active)
	assert.Equal(t, int64(1), sum.Reservations.ExpiringIn24h)
	assert.Equal(t, int64(1), sum.Sales.Open)
	assert.Equal(t, int64(1), sum.Payments.Count)
	assert.True(t, sum.Payments.Total.Equal(decimal.NewFromInt(10000)))
	assert.True(t, sum.Ledger.PlatformFee.Equal(decimal.NewFromInt(200)))
	assert.True(t, sum.Ledger.NetToProject.Equal(decimal.NewFromInt(9500)))
	assert.True(t, sum.Ledger.Reconciles())
	assert.Equal(t, int64(1), sum.Commissions.Count)
	assert.True(t, sum.Condo.Outstanding.IsZero())
}

func TestSummary_Access(t *testing.T) {
	fx := testutil.NewFixture(t)
	ctx := context.Background()
	tenant := fx.Tenant(t, "acme", "2", "3")
	other := fx.Tenant(t, "other", "1", "1")
	fx.Lead(t, fx.Member(t, other, tenancy.RoleAdmin), "Theirs")
	svc := NewService(fx.Scope, nil)

	_, err := svc.Summary(ctx, fx.Member(t, tenant, tenancy.RoleClient), nil)
	assert.True(t, shared.IsForbidden(err))

	_, err = svc.Summary(ctx, fx.Member(t, tenant, tenancy.RoleAdmin), &other.ID)
	assert.True(t, shared.IsForbidden(err))

	sum, err := svc.Summary(ctx, fx.Member(t, tenant, tenancy.RoleRoot), &other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID.String(), sum.TenantID)
	assert.Equal(t, int64(1), sum.Leads)

	own, err := svc.Summary(ctx, fx.Member(t, tenant, tenancy.RoleRoot), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), own.Leads)
}

func TestSummary_CacheInvalidatedByMutation(t *testing.T) {
	fx := testutil.NewFixture(t)
	ctx := context.Background()
	tenant := fx.Tenant(t, "acme", "2", "3")
	admin := fx.Member(t, tenant, tenancy.RoleAdmin)

	summaries := cache.NewInMemorySummaryCache(time.Minute)
	svc := NewService(fx.Scope, summaries)
	reservations := appreservation.NewService(fx.Scope)
	reservations.SetCache(summaries)

	first, err := svc.Summary(ctx, admin, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.Reservations.Total)
	assert.Equal(t, 1, summaries.Len())

	// A direct write does not invalidate, so the cached figure is served.
	fx.Lead(t, admin, "Ana")
	cached, err := svc.Summary(ctx, admin, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cached.Leads)

	_, err = reservations.Create(ctx, admin, appreservation.CreateInput{UnitID: fx.Unit(t, admin, "U-1", "1").ID})
	require.NoError(t, err)
	fresh, err := svc.Summary(ctx, admin, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.Reservations.Total)
	assert.Equal(t, int64(1), fresh.Leads)
}

func intPtr(v int) *int { return &v }

