package condo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriod(t *testing.T) {
	assert.ErrorIs(t, Period{Year: 2019, Month: 5}.Validate(), shared.ErrValidation)
	assert.ErrorIs(t, Period{Year: 2026, Month: 0}.Validate(), shared.ErrValidation)
	assert.ErrorIs(t, Period{Year: 2026, Month: 13}.Validate(), shared.ErrValidation)
	assert.NoError(t, Period{Year: 2026, Month: 12}.Validate())

	assert.Equal(t, time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC), Period{Year: 2026, Month: 2}.DueDate())
}

func TestDeriveChargeStatus(t *testing.T) {
	due := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	before := due.Add(-time.Hour)
	after := due.Add(time.Hour)
	total := decimal.NewFromInt(350)

	tests := []struct {
		name string
		paid decimal.Decimal
		now  time.Time
		want ChargeStatus
	}{
		{"paid in full", total, after, ChargeStatusPaid},
		{"overpaid", decimal.NewFromInt(400), before, ChargeStatusPaid},
		{"partial beats overdue", decimal.NewFromInt(1), after, ChargeStatusPartial},
		{"unpaid past due", decimal.Zero, after, ChargeStatusOverdue},
		{"unpaid before due", decimal.Zero, before, ChargeStatusPending},
		{"due date itself is not overdue", decimal.Zero, due, ChargeStatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveChargeStatus(tt.paid, total, due, tt.now))
		})
	}
}

func newTestCharge(t *testing.T) (*Plan, *Charge) {
	t.Helper()
	tenantID := uuid.New()
	plan, err := NewPlan(tenantID, "Condo Fee 2026", decimal.NewFromInt(350), valueobject.MustPercentage("5"))
	require.NoError(t, err)
	unitID := uuid.New()
	account, err := NewOwnerAccount(tenantID, nil, &unitID, "Client User", "client@example.com")
	require.NoError(t, err)
	charge, err := NewCharge(plan, account, Period{Year: 2026, Month: 1})
	require.NoError(t, err)
	return plan, charge
}

func TestCharge_ApplyPayment_IncludesLateFee(t *testing.T) {
	_, charge := newTestCharge(t)
	charge.LateFeeAmount = decimal.RequireFromString("17.5")

	require.NoError(t, charge.ApplyPayment(decimal.NewFromInt(350), charge.DueDate.Add(48*time.Hour)))
	assert.Equal(t, ChargeStatusPartial, charge.Status)

	require.NoError(t, charge.ApplyPayment(decimal.RequireFromString("17.5"), charge.DueDate.Add(48*time.Hour)))
	assert.Equal(t, ChargeStatusPaid, charge.Status)
	assert.True(t, charge.Outstanding().IsZero())
}

func TestCharge_MarkOverdue(t *testing.T) {
	plan, charge := newTestCharge(t)

	assert.False(t, charge.MarkOverdue(plan.LateFeePct, charge.DueDate), "not yet past due")

	assert.True(t, charge.MarkOverdue(plan.LateFeePct, charge.DueDate.Add(time.Minute)))
	assert.Equal(t, ChargeStatusOverdue, charge.Status)
	assert.True(t, charge.LateFeeAmount.Equal(decimal.RequireFromString("17.5")))

	assert.False(t, charge.MarkOverdue(plan.LateFeePct, charge.DueDate.Add(time.Hour)), "already overdue")
}

func TestMarkOverdue_RoundsLateFeeToCents(t *testing.T) {
	plan, err := NewPlan(uuid.New(), "Plan", decimal.RequireFromString("333.33"), valueobject.MustPercentage("2.5"))
	require.NoError(t, err)
	unitID := uuid.New()
	account, err := NewOwnerAccount(plan.TenantID, nil, &unitID, "Owner", "")
	require.NoError(t, err)
	charge, err := NewCharge(plan, account, Period{Year: 2026, Month: 3})
	require.NoError(t, err)

	require.True(t, charge.MarkOverdue(plan.LateFeePct, charge.DueDate.Add(time.Hour)))
	assert.True(t, charge.LateFeeAmount.Equal(decimal.RequireFromString("8.33")), "late fee %s", charge.LateFeeAmount)
}

func TestMoneyInputsAreWholeCents(t *testing.T) {
	_, err := NewPlan(uuid.New(), "Plan", decimal.RequireFromString("350.001"), valueobject.Percentage{})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewPayment(uuid.New(), uuid.New(), decimal.RequireFromString("0.005"), "pix", "", time.Now())
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestNewCharge_RequiresUnit(t *testing.T) {
	plan, err := NewPlan(uuid.New(), "Plan", decimal.NewFromInt(10), valueobject.Percentage{})
	require.NoError(t, err)
	account, err := NewOwnerAccount(plan.TenantID, nil, nil, "No Unit", "")
	require.NoError(t, err)

	_, err = NewCharge(plan, account, Period{Year: 2026, Month: 3})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestNewStatement(t *testing.T) {
	_, c1 := newTestCharge(t)
	_, c2 := newTestCharge(t)
	c2.PaidAmount = decimal.NewFromInt(350)

	st := NewStatement(OwnerAccount{}, []Charge{*c1, *c2})
	assert.True(t, st.TotalDue.Equal(decimal.NewFromInt(700)))
	assert.True(t, st.TotalPaid.Equal(decimal.NewFromInt(350)))
	assert.True(t, st.Outstanding.Equal(decimal.NewFromInt(350)))
}
