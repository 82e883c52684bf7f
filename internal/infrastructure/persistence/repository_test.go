package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/reservation"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTenantRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormTenantRepository(db)

	tc := newTestTenant(t, db, "acme")

	got, err := repo.FindBySlug(ctx, " ACME ")
	require.NoError(t, err)
	assert.Equal(t, tc.TenantID, got.ID)
	assert.True(t, got.PlatformFeePct.Equal(valueobject.MustPercentage("2")))
	assert.Equal(t, 48, got.ReservationTTLHours)

	ids, err := repo.ListActiveIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tc.TenantID}, ids)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestGormMembershipRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tc := newTestTenant(t, db, "acme")
	repo := NewGormMembershipRepository(db)

	userID := uuid.New()
	for _, role := range []tenancy.Role{tenancy.RoleClient, tenancy.RoleSeller} {
		m, err := tenancy.NewMembership(tc.TenantID, userID, role)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, tc, m))
	}

	list, err := repo.ListActiveForUser(ctx, tc, userID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	ok, err := repo.HasActive(ctx, tc, userID)
	require.NoError(t, err)
	assert.True(t, ok)

	other := newTestTenant(t, db, "other")
	ok, err = repo.HasActive(ctx, other, userID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormUnitRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tc := newTestTenant(t, db, "acme")
	repo := NewGormUnitRepository(db)

	unit, err := inventory.NewUnit(tc.TenantID, "A-101", decimal.NewFromInt(100000))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tc, unit))

	t.Run("find and exists", func(t *testing.T) {
		got, err := repo.FindByID(ctx, tc, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, "A-101", got.Code)
		assert.Equal(t, inventory.UnitStatusAvailable, got.Status)

		exists, err := repo.ExistsByCode(ctx, tc, "A-101")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("conditional transition", func(t *testing.T) {
		changed, err := repo.TransitionStatus(ctx, tc, unit.ID, inventory.UnitStatusReserved, inventory.UnitStatusAvailable)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = repo.TransitionStatus(ctx, tc, unit.ID, inventory.UnitStatusReserved, inventory.UnitStatusAvailable)
		require.NoError(t, err)
		assert.False(t, changed, "second transition from AVAILABLE must not match")

		got, err := repo.FindByID(ctx, tc, unit.ID)
		require.NoError(t, err)
		assert.Equal(t, inventory.UnitStatusReserved, got.Status)
		assert.Equal(t, 2, got.Version)
	})

	t.Run("list filters by status and price", func(t *testing.T) {
		cheap, err := inventory.NewUnit(tc.TenantID, "B-201", decimal.NewFromInt(50000))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, tc, cheap))

		available := inventory.UnitStatusAvailable
		list, err := repo.List(ctx, tc, inventory.UnitFilter{Status: &available})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "B-201", list[0].Code)

		minPrice := decimal.NewFromInt(60000)
		list, err = repo.List(ctx, tc, inventory.UnitFilter{MinPrice: &minPrice})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "A-101", list[0].Code)
	})

	t.Run("list sorts by whitelisted column", func(t *testing.T) {
		list, err := repo.List(ctx, tc, inventory.UnitFilter{SortBy: "price", SortOrder: "desc"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "A-101", list[0].Code)

		list, err = repo.List(ctx, tc, inventory.UnitFilter{SortBy: "price; DROP TABLE units"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "B-201", list[0].Code, "unknown column falls back to status, code")
	})

	t.Run("other tenant cannot see the unit", func(t *testing.T) {
		other := newTestTenant(t, db, "other")
		_, err := repo.FindByID(ctx, other, unit.ID)
		assert.True(t, shared.IsNotFound(err))

		changed, err := repo.TransitionStatus(ctx, other, unit.ID, inventory.UnitStatusSold, inventory.UnitStatusReserved)
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("missing tenant is rejected", func(t *testing.T) {
		_, err := repo.FindByID(ctx, tenancy.Context{}, unit.ID)
		assert.ErrorIs(t, err, shared.ErrMissingTenant)
	})
}

func TestGormReservationRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tc := newTestTenant(t, db, "acme")
	repo := NewGormReservationRepository(db)
	now := time.Now().UTC()

	unitID := uuid.New()
	lapsed, err := reservation.New(tc.TenantID, unitID, tc.UserID, nil, 1, now.Add(-2*time.Hour), "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tc, lapsed))

	live, err := reservation.New(tc.TenantID, unitID, tc.UserID, nil, 24, now, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tc, live))

	expirable, err := repo.FindExpirable(ctx, tc, now)
	require.NoError(t, err)
	require.Len(t, expirable, 1)
	assert.Equal(t, lapsed.ID, expirable[0].ID)

	n, err := repo.CountActiveForUnit(ctx, tc, unitID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	changed, err := repo.TransitionStatus(ctx, tc, lapsed.ID, reservation.StatusExpired, reservation.StatusActive)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.TransitionStatus(ctx, tc, lapsed.ID, reservation.StatusExpired, reservation.StatusActive)
	require.NoError(t, err)
	assert.False(t, changed)

	rows, err := repo.MarkConverted(ctx, tc, live.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	status := reservation.StatusConverted
	list, err := repo.List(ctx, tc, reservation.Filter{Status: &status})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, live.ID, list[0].ID)
}

func TestGormLedgerRepository_AppendAndReconcile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tc := newTestTenant(t, db, "acme")
	repo := NewGormLedgerRepository(db)

	split, err := sales.ComputeSplit(decimal.NewFromInt(10000), valueobject.MustPercentage("2"), valueobject.MustPercentage("3"))
	require.NoError(t, err)
	saleID, paymentID := uuid.New(), uuid.New()
	require.NoError(t, repo.Append(ctx, tc, split.LedgerEntries(tc.TenantID, saleID, paymentID)))

	entries, err := repo.ListByPayment(ctx, tc, paymentID)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.True(t, sales.Reconciles(entries))

	bySale, err := repo.ListBySale(ctx, tc, saleID)
	require.NoError(t, err)
	assert.Len(t, bySale, 4)
}

func TestGormLedgerRepository_RejectsForeignRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tc := newTestTenant(t, db, "acme")
	repo := NewGormLedgerRepository(db)

	split, err := sales.ComputeSplit(decimal.NewFromInt(100), valueobject.MustPercentage("0"), valueobject.MustPercentage("0"))
	require.NoError(t, err)
	foreign := split.LedgerEntries(uuid.New(), uuid.New(), uuid.New())
	err = repo.Append(ctx, tc, foreign)
	assert.ErrorIs(t, err, shared.ErrCrossTenant)
}

func TestGormPaymentPlanRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tc := newTestTenant(t, db, "acme")
	repo := NewGormPaymentPlanRepository(db)

	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	plan, err := sales.NewPaymentPlan(tc.TenantID, uuid.New(), "", decimal.NewFromInt(100), 3, start)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tc, plan))

	got, err := repo.FindPlanByID(ctx, tc, plan.ID)
	require.NoError(t, err)
	require.Len(t, got.Installments, 3)
	assert.True(t, got.Installments[2].Amount.Equal(decimal.RequireFromString("33.34")))

	inst := got.Installments[0]
	require.NoError(t, inst.ApplyPayment(decimal.NewFromInt(10)))
	require.NoError(t, repo.SaveInstallment(ctx, tc, &inst))

	reloaded, err := repo.FindInstallment(ctx, tc, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, sales.InstallmentStatusPartial, reloaded.Status)
	assert.True(t, reloaded.PaidAmount.Equal(decimal.NewFromInt(10)))

	stale := got.Installments[0]
	require.NoError(t, stale.ApplyPayment(decimal.NewFromInt(5)))
	err = repo.SaveInstallment(ctx, tc, &stale)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	reloaded, err = repo.FindInstallment(ctx, tc, inst.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.PaidAmount.Equal(decimal.NewFromInt(10)))

	require.NoError(t, reloaded.ApplyPayment(decimal.NewFromInt(5)))
	require.NoError(t, repo.SaveInstallment(ctx, tc, reloaded))
}

func TestGormAssetRepository_AttachSkipsForeignAssets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tc := newTestTenant(t, db, "acme")
	other := newTestTenant(t, db, "other")
	repo := NewGormAssetRepository(db)

	mine, err := sales.NewAsset(tc.TenantID, sales.AssetTypeContract, "Contract", "s3://a")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tc, mine))
	theirs, err := sales.NewAsset(other.TenantID, sales.AssetTypeContract, "Contract", "s3://b")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other, theirs))

	saleID := uuid.New()
	n, err := repo.AttachToSale(ctx, tc, saleID, []uuid.UUID{mine.ID, theirs.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	attached, err := repo.ListBySale(ctx, tc, saleID)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, mine.ID, attached[0].ID)
}

func TestGormChargeRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tc := newTestTenant(t, db, "acme")
	plans := NewGormCondoPlanRepository(db)
	accounts := NewGormOwnerAccountRepository(db)
	charges := NewGormChargeRepository(db)

	plan, err := condo.NewPlan(tc.TenantID, "Tower A", decimal.NewFromInt(500), valueobject.MustPercentage("10"))
	require.NoError(t, err)
	require.NoError(t, plans.Create(ctx, tc, plan))

	unitID := uuid.New()
	account, err := condo.NewOwnerAccount(tc.TenantID, nil, &unitID, "Ana", "ana@example.com")
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, tc, account))
	unlinked, err := condo.NewOwnerAccount(tc.TenantID, nil, nil, "Bruno", "")
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, tc, unlinked))

	withUnit, err := accounts.ListWithUnit(ctx, tc)
	require.NoError(t, err)
	require.Len(t, withUnit, 1)

	period := condo.Period{Year: 2025, Month: 1}
	charge, err := condo.NewCharge(plan, account, period)
	require.NoError(t, err)
	require.NoError(t, charges.CreateBatch(ctx, tc, []condo.Charge{*charge}))

	existing, err := charges.ExistingAccountsForPeriod(ctx, tc, plan.ID, period)
	require.NoError(t, err)
	assert.True(t, existing[account.ID])

	t.Run("duplicate period violates the unique index", func(t *testing.T) {
		dup, err := condo.NewCharge(plan, account, period)
		require.NoError(t, err)
		assert.Error(t, charges.CreateBatch(ctx, tc, []condo.Charge{*dup}))
	})

	t.Run("payments load with the charge", func(t *testing.T) {
		paidAt := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
		p, err := condo.NewPayment(tc.TenantID, charge.ID, decimal.NewFromInt(200), "pix", "", paidAt)
		require.NoError(t, err)
		require.NoError(t, charges.CreatePayment(ctx, tc, p))
		require.NoError(t, charge.ApplyPayment(p.Amount, paidAt))
		require.NoError(t, charges.Save(ctx, tc, charge))

		got, err := charges.FindByID(ctx, tc, charge.ID)
		require.NoError(t, err)
		assert.Equal(t, condo.ChargeStatusPartial, got.Status)
		require.Len(t, got.Payments, 1)

		list, err := charges.ListByAccount(ctx, tc, account.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Len(t, list[0].Payments, 1)
	})

	t.Run("stale copy cannot overwrite a newer paid amount", func(t *testing.T) {
		paidAt := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
		first, err := charges.FindByID(ctx, tc, charge.ID)
		require.NoError(t, err)
		second, err := charges.FindByID(ctx, tc, charge.ID)
		require.NoError(t, err)

		require.NoError(t, first.ApplyPayment(decimal.NewFromInt(100), paidAt))
		require.NoError(t, charges.Save(ctx, tc, first))

		require.NoError(t, second.ApplyPayment(decimal.NewFromInt(100), paidAt))
		err = charges.Save(ctx, tc, second)
		assert.ErrorIs(t, err, shared.ErrInvalidState)

		got, err := charges.FindByID(ctx, tc, charge.ID)
		require.NoError(t, err)
		assert.True(t, got.PaidAmount.Equal(decimal.NewFromInt(300)), "paid=%s", got.PaidAmount)
		assert.Equal(t, first.Version, got.Version)
	})

	t.Run("overdue candidates", func(t *testing.T) {
		candidates, err := charges.ListOverdueCandidates(ctx, tc, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, candidates, 1)

		candidates, err = charges.ListOverdueCandidates(ctx, tc, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})
}

func TestGormAuditRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tc := newTestTenant(t, db, "acme")
	repo := NewGormAuditRepository(db)

	unitID := uuid.New()
	entry, err := audit.NewEntry(tc, audit.NewRecord("Unit", unitID, audit.UnitStatusUpdated{Status: "BLOCKED"}), time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, tc, entry))

	list, err := repo.ListByEntity(ctx, tc, "Unit", unitID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, audit.ActionUnitStatusUpdated, list[0].Action)
	assert.JSONEq(t, `{"status":"BLOCKED"}`, string(list[0].Metadata))

	other := newTestTenant(t, db, "other")
	assert.ErrorIs(t, repo.Append(ctx, other, entry), shared.ErrCrossTenant)

	byAction, err := repo.ListByAction(ctx, other, audit.ActionUnitStatusUpdated)
	require.NoError(t, err)
	assert.Empty(t, byAction)
}

func TestGormReportRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tc := newTestTenant(t, db, "acme")
	other := newTestTenant(t, db, "other")
	repo := NewGormReportRepository(db)

	split, err := sales.ComputeSplit(decimal.NewFromInt(10000), valueobject.MustPercentage("2"), valueobject.MustPercentage("3"))
	require.NoError(t, err)
	require.NoError(t, NewGormLedgerRepository(db).Append(ctx, tc, split.LedgerEntries(tc.TenantID, uuid.New(), uuid.New())))

	totals, err := repo.LedgerTotals(ctx, tc)
	require.NoError(t, err)
	assert.True(t, totals.PaymentReceived.Equal(decimal.NewFromInt(10000)))
	assert.True(t, totals.PlatformFee.Equal(decimal.NewFromInt(200)))
	assert.True(t, totals.SellerCommission.Equal(decimal.NewFromInt(300)))
	assert.True(t, totals.NetToProject.Equal(decimal.NewFromInt(9500)))
	assert.True(t, totals.Reconciles())

	empty, err := repo.LedgerTotals(ctx, other)
	require.NoError(t, err)
	assert.True(t, empty.PaymentReceived.IsZero())

	stats, err := repo.SaleStats(ctx, other)
	require.NoError(t, err)
	assert.Zero(t, stats.Open)
	assert.True(t, stats.ClosedVolume.IsZero())

	condoStats, err := repo.CondoStats(ctx, tc)
	require.NoError(t, err)
	assert.True(t, condoStats.Outstanding.IsZero())
}
