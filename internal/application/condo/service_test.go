package condo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june = condo.Period{Year: 2025, Month: 6}

type harness struct {
	fx      *testutil.Fixture
	svc     *Service
	tenant  *tenancy.Tenant
	admin   tenancy.Context
	advance func(time.Time)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fx := testutil.NewFixture(t)
	tenant := fx.Tenant(t, "towers", "2", "3")
	now, advance := testutil.FixedClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	svc := NewService(fx.Scope)
	svc.SetClock(now)
	return &harness{fx: fx, svc: svc, tenant: tenant, admin: fx.Member(t, tenant, tenancy.RoleAdmin), advance: advance}
}

func (h *harness) plan(t *testing.T, fee, lateFee string) *condo.Plan {
	t.Helper()
	p, err := h.svc.CreatePlan(context.Background(), h.admin, CreatePlanInput{
		Title:      "Tower A",
		MonthlyFee: decimal.RequireFromString(fee),
		LateFeePct: valueobject.MustPercentage(lateFee),
	})
	require.NoError(t, err)
	return p
}

// account creates an owner account for a fresh unit, owned by owner when given
func (h *harness) account(t *testing.T, code string, owner *tenancy.Context) *condo.OwnerAccount {
	t.Helper()
	unit := h.fx.Unit(t, h.admin, code, "100000")
	var userID *uuid.UUID
	if owner != nil {
		userID = owner.UserID
	}
	return h.fx.OwnerAccount(t, h.admin, userID, &unit.ID)
}

func TestGenerateAndPay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.plan(t, "350", "2")
	owner := h.fx.Member(t, h.tenant, tenancy.RoleClient)

	accounts := []*condo.OwnerAccount{
		h.account(t, "T-1", &owner),
		h.account(t, "T-2", nil),
		h.account(t, "T-3", nil),
	}
	// Accounts without a unit are not billed.
	h.fx.OwnerAccount(t, h.admin, nil, nil)

	res, err := h.svc.GenerateMonthlyCharges(ctx, h.admin, plan.ID, june)
	require.NoError(t, err)
	assert.Equal(t, GenerateResult{Count: 3}, res)

	st, err := h.svc.Statement(ctx, owner, accounts[0].ID)
	require.NoError(t, err)
	require.Len(t, st.Charges, 1)
	charge := st.Charges[0]
	assert.Equal(t, condo.ChargeStatusPending, charge.Status)
	assert.True(t, charge.Amount.Equal(decimal.NewFromInt(350)))
	assert.True(t, charge.LateFeeAmount.IsZero())
	assert.Equal(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), charge.DueDate.UTC())

	paid, err := h.svc.RegisterPayment(ctx, owner, charge.ID, RegisterPaymentInput{Amount: decimal.NewFromInt(350), Method: "pix"})
	require.NoError(t, err)
	assert.Equal(t, condo.ChargeStatusPaid, paid.Status)

	st, err = h.svc.Statement(ctx, h.admin, accounts[0].ID)
	require.NoError(t, err)
	assert.True(t, st.Outstanding.IsZero())
	require.Len(t, st.Charges[0].Payments, 1)
}

func TestGenerate_SkipsAlreadyBilledAccounts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.plan(t, "200", "0")
	h.account(t, "D-1", nil)

	first, err := h.svc.GenerateMonthlyCharges(ctx, h.admin, plan.ID, june)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count)

	h.account(t, "D-2", nil)
	second, err := h.svc.GenerateMonthlyCharges(ctx, h.admin, plan.ID, june)
	require.NoError(t, err)
	assert.Equal(t, GenerateResult{Count: 1, Skipped: 1}, second)

	h.fx.Read(t, func(repos unitofwork.Repositories) error {
		entries, err := repos.Audit().ListByAction(ctx, h.admin, audit.ActionCondoChargesGenerated)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		return nil
	})
}

func TestGenerate_Guards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.plan(t, "100", "1")

	_, err := h.svc.GenerateMonthlyCharges(ctx, h.admin, plan.ID, condo.Period{Year: 2019, Month: 5})
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = h.svc.GenerateMonthlyCharges(ctx, h.admin, plan.ID, condo.Period{Year: 2025, Month: 13})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = h.svc.GenerateMonthlyCharges(ctx, h.fx.Member(t, h.tenant, tenancy.RoleClient), plan.ID, june)
	assert.True(t, shared.IsForbidden(err))

	_, err = h.svc.GenerateMonthlyCharges(ctx, h.admin, uuid.New(), june)
	assert.True(t, shared.IsNotFound(err))

	other := h.fx.Tenant(t, "other", "1", "1")
	_, err = h.svc.GenerateMonthlyCharges(ctx, h.fx.Member(t, other, tenancy.RoleAdmin), plan.ID, june)
	assert.True(t, shared.IsNotFound(err))

	_, err = h.svc.CreatePlan(ctx, h.fx.Member(t, h.tenant, tenancy.RoleSeller), CreatePlanInput{Title: "x", MonthlyFee: decimal.NewFromInt(1)})
	assert.True(t, shared.IsForbidden(err))
}

func TestRegisterPayment_Ownership(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.plan(t, "300", "0")
	owner := h.fx.Member(t, h.tenant, tenancy.RoleClient)
	neighbour := h.fx.Member(t, h.tenant, tenancy.RoleClient)
	acct := h.account(t, "O-1", &owner)

	_, err := h.svc.GenerateMonthlyCharges(ctx, h.admin, plan.ID, june)
	require.NoError(t, err)
	st, err := h.svc.Statement(ctx, h.admin, acct.ID)
	require.NoError(t, err)
	chargeID := st.Charges[0].ID

	_, err = h.svc.RegisterPayment(ctx, neighbour, chargeID, RegisterPaymentInput{Amount: decimal.NewFromInt(10)})
	assert.True(t, shared.IsForbidden(err))

	_, err = h.svc.Statement(ctx, neighbour, acct.ID)
	assert.True(t, shared.IsForbidden(err))

	_, err = h.svc.RegisterPayment(ctx, owner, chargeID, RegisterPaymentInput{Amount: decimal.Zero})
	assert.ErrorIs(t, err, shared.ErrValidation)

	partial, err := h.svc.RegisterPayment(ctx, owner, chargeID, RegisterPaymentInput{Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, condo.ChargeStatusPartial, partial.Status)

	_, err = h.svc.RegisterPayment(ctx, h.admin, uuid.New(), RegisterPaymentInput{Amount: decimal.NewFromInt(1)})
	assert.True(t, shared.IsNotFound(err))
}

func TestMarkOverdue(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.plan(t, "400", "2.5")
	unpaid := h.account(t, "M-1", nil)
	settled := h.account(t, "M-2", nil)

	_, err := h.svc.GenerateMonthlyCharges(ctx, h.admin, plan.ID, june)
	require.NoError(t, err)

	st, err := h.svc.Statement(ctx, h.admin, settled.ID)
	require.NoError(t, err)
	_, err = h.svc.RegisterPayment(ctx, h.admin, st.Charges[0].ID, RegisterPaymentInput{Amount: decimal.NewFromInt(400)})
	require.NoError(t, err)

	// Nothing is due yet.
	res, err := h.svc.MarkOverdue(ctx, h.admin)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)

	h.advance(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	res, err = h.svc.MarkOverdue(ctx, h.admin)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)

	st, err = h.svc.Statement(ctx, h.admin, unpaid.ID)
	require.NoError(t, err)
	c := st.Charges[0]
	assert.Equal(t, condo.ChargeStatusOverdue, c.Status)
	assert.True(t, c.LateFeeAmount.Equal(decimal.NewFromInt(10)))
	assert.True(t, st.Outstanding.Equal(decimal.NewFromInt(410)))

	// A second sweep finds nothing new and does not audit.
	res, err = h.svc.MarkOverdue(ctx, h.admin)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	h.fx.Read(t, func(repos unitofwork.Repositories) error {
		entries, err := repos.Audit().ListByAction(ctx, h.admin, audit.ActionCondoChargesOverdue)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		return nil
	})

	// Paying the full amount plus the late fee settles it.
	paid, err := h.svc.RegisterPayment(ctx, h.admin, c.ID, RegisterPaymentInput{Amount: decimal.NewFromInt(410)})
	require.NoError(t, err)
	assert.Equal(t, condo.ChargeStatusPaid, paid.Status)
}

func TestStatement_OrdersNewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	plan := h.plan(t, "100", "0")
	acct := h.account(t, "N-1", nil)

	for _, m := range []int{4, 6, 5} {
		_, err := h.svc.GenerateMonthlyCharges(ctx, h.admin, plan.ID, condo.Period{Year: 2025, Month: m})
		require.NoError(t, err)
	}

	st, err := h.svc.Statement(ctx, h.admin, acct.ID)
	require.NoError(t, err)
	require.Len(t, st.Charges, 3)
	assert.Equal(t, 6, st.Charges[0].Period.Month)
	assert.Equal(t, 5, st.Charges[1].Period.Month)
	assert.Equal(t, 4, st.Charges[2].Period.Month)
	assert.True(t, st.TotalDue.Equal(decimal.NewFromInt(300)))
}
