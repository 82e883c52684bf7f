package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/reservation"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/cache"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"github.com/propcore/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
)

type harness struct {
	fx      *testutil.Fixture
	svc     *Service
	tenant  *tenancy.Tenant
	admin   tenancy.Context
	advance func(time.Time)
	now     func() time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fx := testutil.NewFixture(t)
	tenant := fx.Tenant(t, "acme", "2", "3")
	now, advance := testutil.FixedClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))

	svc := NewService(fx.Scope)
	svc.SetClock(now)
	return &harness{fx: fx, svc: svc, tenant: tenant, admin: fx.Member(t, tenant, tenancy.RoleAdmin), advance: advance, now: now}
}

func (h *harness) auditActions(t *testing.T, tc tenancy.Context, action audit.Action) []audit.Entry {
	t.Helper()
	var entries []audit.Entry
	h.fx.Read(t, func(repos unitofwork.Repositories) error {
		var err error
		entries, err = repos.Audit().ListByAction(context.Background(), tc, action)
		return err
	})
	return entries
}

func intPtr(v int) *int { return &v }

func TestCreate_ReservesUnitWithTenantTTL(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	unit := h.fx.Unit(t, h.admin, "A-101", "200000")

	r, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: unit.ID})
	require.NoError(t, err)

	assert.Equal(t, reservation.StatusActive, r.Status)
	assert.Equal(t, h.now().Add(48*time.Hour), r.ExpiresAt)
	assert.Equal(t, h.admin.UserID, r.UserID)
	assert.Equal(t, inventory.UnitStatusReserved, h.fx.LoadUnit(t, h.admin, unit.ID).Status)

	entries := h.auditActions(t, h.admin, audit.ActionReservationCreated)
	require.Len(t, entries, 1)
	assert.Equal(t, r.ID, *entries[0].EntityID)
	assert.Contains(t, string(entries[0].Metadata), unit.ID.String())
}

func TestCreate_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	unit := h.fx.Unit(t, h.admin, "A-102", "100")

	for _, ttl := range []int{0, -1, reservation.MaxTTLHours + 1} {
		_, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: unit.ID, TTLHours: intPtr(ttl)})
		assert.ErrorIs(t, err, shared.ErrValidation, "ttl %d", ttl)
	}

	r, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: unit.ID, TTLHours: intPtr(reservation.MaxTTLHours)})
	require.NoError(t, err)
	assert.Equal(t, h.now().Add(reservation.MaxTTLHours*time.Hour), r.ExpiresAt)
}

func TestCreate_Errors(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	t.Run("missing tenant", func(t *testing.T) {
		_, err := h.svc.Create(ctx, tenancy.Context{}, CreateInput{UnitID: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrMissingTenant)
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: uuid.New()})
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("unit of another tenant is not found", func(t *testing.T) {
		other := h.fx.Tenant(t, "other", "1", "1")
		otherAdmin := h.fx.Member(t, other, tenancy.RoleAdmin)
		foreign := h.fx.Unit(t, otherAdmin, "X-1", "100")

		_, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: foreign.ID})
		assert.True(t, shared.IsNotFound(err))
		assert.Equal(t, inventory.UnitStatusAvailable, h.fx.LoadUnit(t, otherAdmin, foreign.ID).Status)
	})

	t.Run("lead of another tenant is not found", func(t *testing.T) {
		other := h.fx.Tenant(t, "other-lead", "1", "1")
		lead := h.fx.Lead(t, h.fx.Member(t, other, tenancy.RoleAdmin), "Jane")
		unit := h.fx.Unit(t, h.admin, "A-200", "100")

		_, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: unit.ID, LeadID: &lead.ID})
		assert.True(t, shared.IsNotFound(err))
		assert.Equal(t, inventory.UnitStatusAvailable, h.fx.LoadUnit(t, h.admin, unit.ID).Status)
	})

	t.Run("reserved unit is unavailable", func(t *testing.T) {
		unit := h.fx.Unit(t, h.admin, "A-300", "100")
		_, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: unit.ID})
		require.NoError(t, err)

		_, err = h.svc.Create(ctx, h.admin, CreateInput{UnitID: unit.ID})
		assert.True(t, shared.IsUnitUnavailable(err))

		var n int64
		h.fx.Read(t, func(repos unitofwork.Repositories) error {
			n, err = repos.Reservations().CountActiveForUnit(ctx, h.admin, unit.ID)
			return err
		})
		assert.Equal(t, int64(1), n)
	})
}

func TestExpire_ReleasesOnlyReservedUnits(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	lapsed := h.fx.Unit(t, h.admin, "B-1", "100")
	sold := h.fx.Unit(t, h.admin, "B-2", "100")
	fresh := h.fx.Unit(t, h.admin, "B-3", "100")

	r1, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: lapsed.ID, TTLHours: intPtr(1)})
	require.NoError(t, err)
	r2, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: sold.ID, TTLHours: intPtr(1)})
	require.NoError(t, err)
	r3, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: fresh.ID, TTLHours: intPtr(72)})
	require.NoError(t, err)

	// The sold unit moved on without its reservation being converted.
	h.fx.Read(t, func(repos unitofwork.Repositories) error {
		return repos.Units().SetStatus(ctx, h.admin, sold.ID, inventory.UnitStatusSold)
	})

	h.advance(h.now().Add(2 * time.Hour))
	res, err := h.svc.Expire(ctx, h.admin)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	assert.Equal(t, inventory.UnitStatusAvailable, h.fx.LoadUnit(t, h.admin, lapsed.ID).Status)
	assert.Equal(t, inventory.UnitStatusSold, h.fx.LoadUnit(t, h.admin, sold.ID).Status)
	assert.Equal(t, inventory.UnitStatusReserved, h.fx.LoadUnit(t, h.admin, fresh.ID).Status)

	h.fx.Read(t, func(repos unitofwork.Repositories) error {
		for id, want := range map[uuid.UUID]reservation.Status{
			r1.ID: reservation.StatusExpired,
			r2.ID: reservation.StatusExpired,
			r3.ID: reservation.StatusActive,
		} {
			r, err := repos.Reservations().FindByID(ctx, h.admin, id)
			require.NoError(t, err)
			assert.Equal(t, want, r.Status)
		}
		return nil
	})

	entries := h.auditActions(t, h.admin, audit.ActionReservationsExpired)
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{"count":2}`, string(entries[0].Metadata))
}

func TestExpire_IsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	unit := h.fx.Unit(t, h.admin, "C-1", "100")
	_, err := h.svc.Create(ctx, h.admin, CreateInput{UnitID: unit.ID, TTLHours: intPtr(1)})
	require.NoError(t, err)

	h.advance(h.now().Add(time.Hour))
	first, err := h.svc.Expire(ctx, h.admin)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count)

	second, err := h.svc.Expire(ctx, h.admin)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Count)

	assert.Len(t, h.auditActions(t, h.admin, audit.ActionReservationsExpired), 1)
	assert.Equal(t, inventory.UnitStatusAvailable, h.fx.LoadUnit(t, h.admin, unit.ID).Status)
}

func TestExpire_StaysInTenant(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	other := h.fx.Tenant(t, "other", "1", "1")
	otherAdmin := h.fx.Member(t, other, tenancy.RoleAdmin)

	foreign := h.fx.Unit(t, otherAdmin, "Z-1", "100")
	_, err := h.svc.Create(ctx, otherAdmin, CreateInput{UnitID: foreign.ID, TTLHours: intPtr(1)})
	require.NoError(t, err)

	h.advance(h.now().Add(2 * time.Hour))
	res, err := h.svc.Expire(ctx, h.admin)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, inventory.UnitStatusReserved, h.fx.LoadUnit(t, otherAdmin, foreign.ID).Status)
}

func TestCancel(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	client := h.fx.Member(t, h.tenant, tenancy.RoleClient)
	stranger := h.fx.Member(t, h.tenant, tenancy.RoleClient)

	unit := h.fx.Unit(t, h.admin, "D-1", "100")
	r, err := h.svc.Create(ctx, client, CreateInput{UnitID: unit.ID})
	require.NoError(t, err)

	t.Run("other client is forbidden", func(t *testing.T) {
		err := h.svc.Cancel(ctx, stranger, r.ID, "")
		assert.True(t, shared.IsForbidden(err))
	})

	t.Run("owner cancels", func(t *testing.T) {
		require.NoError(t, h.svc.Cancel(ctx, client, r.ID, "changed my mind"))
		assert.Equal(t, inventory.UnitStatusAvailable, h.fx.LoadUnit(t, h.admin, unit.ID).Status)

		entries := h.auditActions(t, h.admin, audit.ActionReservationCanceled)
		require.Len(t, entries, 1)
		assert.JSONEq(t, `{"reason":"changed my mind"}`, string(entries[0].Metadata))
	})

	t.Run("second cancel is invalid state", func(t *testing.T) {
		err := h.svc.Cancel(ctx, h.admin, r.ID, "")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		err := h.svc.Cancel(ctx, h.admin, uuid.New(), "")
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestList_ClientSeesOwnReservations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.fx.Member(t, h.tenant, tenancy.RoleClient)
	bob := h.fx.Member(t, h.tenant, tenancy.RoleClient)

	_, err := h.svc.Create(ctx, alice, CreateInput{UnitID: h.fx.Unit(t, h.admin, "E-1", "1").ID})
	require.NoError(t, err)
	_, err = h.svc.Create(ctx, bob, CreateInput{UnitID: h.fx.Unit(t, h.admin, "E-2", "1").ID})
	require.NoError(t, err)

	mine, err := h.svc.List(ctx, alice, reservation.Filter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].IsOwnedBy(alice.UserID))

	// A client cannot widen the filter to someone else.
	mine, err = h.svc.List(ctx, alice, reservation.Filter{UserID: bob.UserID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].IsOwnedBy(alice.UserID))

	all, err := h.svc.List(ctx, h.admin, reservation.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := reservation.StatusCanceled
	none, err := h.svc.List(ctx, h.admin, reservation.Filter{Status: &status})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreate_InvalidatesSummaryCacheAndRecordsMetrics(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	summaries := cache.NewInMemorySummaryCache(time.Minute)
	require.NoError(t, summaries.Set(ctx, h.tenant.ID, &reportSummaryStub))
	h.svc.SetCache(summaries)

	metrics, err := telemetry.NewCommerceMetrics(metric.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	h.svc.SetCommerceMetrics(metrics)

	_, err = h.svc.Create(ctx, h.admin, CreateInput{UnitID: h.fx.Unit(t, h.admin, "F-1", "1").ID})
	require.NoError(t, err)

	_, ok, err := summaries.Get(ctx, h.tenant.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

var reportSummaryStub = report.Summary{Leads: 1}
