// Package condo models recurring condominium fee billing. It is independent
// of the sales pipeline but follows the same tenant and audit discipline.
package condo

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ChargeDueDay is the day of month every generated charge falls due
const ChargeDueDay = 10

// MinPeriodYear is the earliest billable year
const MinPeriodYear = 2020

// ChargeStatus is derived from paid amount and due date
type ChargeStatus string

const (
	ChargeStatusPending ChargeStatus = "PENDING"
	ChargeStatusPartial ChargeStatus = "PARTIAL"
	ChargeStatusPaid    ChargeStatus = "PAID"
	ChargeStatusOverdue ChargeStatus = "OVERDUE"
)

// Plan defines the monthly fee of a building
type Plan struct {
	shared.TenantAggregateRoot
	Title      string
	MonthlyFee decimal.Decimal
	LateFeePct valueobject.Percentage
	Active     bool
}

// NewPlan creates an active plan
func NewPlan(tenantID uuid.UUID, title string, monthlyFee decimal.Decimal, lateFeePct valueobject.Percentage) (*Plan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.Validation("plan title cannot be empty")
	}
	if !monthlyFee.IsPositive() {
		return nil, shared.Validation("monthly fee must be positive")
	}
	if !valueobject.FitsScale(monthlyFee, valueobject.MoneyScale) {
		return nil, shared.Validation("monthly fee %s has more than %d decimal places", monthlyFee, valueobject.MoneyScale)
	}
	return &Plan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		MonthlyFee:          monthlyFee,
		LateFeePct:          lateFeePct,
		Active:              true,
	}, nil
}

// OwnerAccount links a user to a unit for billing
type OwnerAccount struct {
	shared.TenantAggregateRoot
	UserID   *uuid.UUID
	UnitID   *uuid.UUID
	FullName string
	Email    string
}

// NewOwnerAccount creates an owner account
func NewOwnerAccount(tenantID uuid.UUID, userID, unitID *uuid.UUID, fullName, email string) (*OwnerAccount, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.Validation("owner name cannot be empty")
	}
	return &OwnerAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		UnitID:              unitID,
		FullName:            fullName,
		Email:               strings.TrimSpace(email),
	}, nil
}

// IsOwnedBy reports whether userID holds the account
func (a *OwnerAccount) IsOwnedBy(userID *uuid.UUID) bool {
	return a.UserID != nil && userID != nil && *a.UserID == *userID
}

// Period is a billing month
type Period struct {
	Year  int
	Month int
}

// Validate checks the period is billable
func (p Period) Validate() error {
	if p.Year < MinPeriodYear {
		return shared.Validation("year must be %d or later", MinPeriodYear)
	}
	if p.Month < 1 || p.Month > 12 {
		return shared.Validation("month must be between 1 and 12")
	}
	return nil
}

// DueDate is noon UTC on the due day of the period
func (p Period) DueDate() time.Time {
	return time.Date(p.Year, time.Month(p.Month), ChargeDueDay, 12, 0, 0, 0, time.UTC)
}

// Charge is one monthly fee owed by an owner account
type Charge struct {
	shared.TenantAggregateRoot
	PlanID         uuid.UUID
	UnitID         uuid.UUID
	OwnerAccountID uuid.UUID
	Period         Period
	DueDate        time.Time
	Amount         decimal.Decimal
	LateFeeAmount  decimal.Decimal
	PaidAmount     decimal.Decimal
	Status         ChargeStatus
	Payments       []Payment
}

// NewCharge creates a PENDING charge for an account's unit
func NewCharge(plan *Plan, account *OwnerAccount, period Period) (*Charge, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if account.UnitID == nil {
		return nil, shared.Validation("owner account %s has no unit", account.ID)
	}
	return &Charge{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(plan.TenantID),
		PlanID:              plan.ID,
		UnitID:              *account.UnitID,
		OwnerAccountID:      account.ID,
		Period:              period,
		DueDate:             period.DueDate(),
		Amount:              plan.MonthlyFee,
		LateFeeAmount:       decimal.Zero,
		PaidAmount:          decimal.Zero,
		Status:              ChargeStatusPending,
	}, nil
}

// TotalDue is the amount plus any late fee
func (c *Charge) TotalDue() decimal.Decimal {
	return c.Amount.Add(c.LateFeeAmount)
}

// Outstanding is what remains to be paid, never negative
func (c *Charge) Outstanding() decimal.Decimal {
	return valueobject.MaxDecimal(c.TotalDue().Sub(c.PaidAmount), decimal.Zero)
}

// DeriveChargeStatus computes a charge's status:
// PAID when fully covered, PARTIAL when something is paid, OVERDUE once the
// due date has passed, otherwise PENDING.
func DeriveChargeStatus(paid, totalDue decimal.Decimal, dueDate, now time.Time) ChargeStatus {
	switch {
	case paid.GreaterThanOrEqual(totalDue):
		return ChargeStatusPaid
	case paid.IsPositive():
		return ChargeStatusPartial
	case dueDate.Before(now):
		return ChargeStatusOverdue
	default:
		return ChargeStatusPending
	}
}

// ApplyPayment adds a payment and re-derives the status
func (c *Charge) ApplyPayment(amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return shared.Validation("payment amount must be greater than zero")
	}
	c.PaidAmount = c.PaidAmount.Add(amount)
	c.Status = DeriveChargeStatus(c.PaidAmount, c.TotalDue(), c.DueDate, now)
	c.IncrementVersion()
	return nil
}

// MarkOverdue flags an unpaid past-due charge and applies the plan's late
// fee once. It returns false when the charge is not overdue at now.
func (c *Charge) MarkOverdue(lateFeePct valueobject.Percentage, now time.Time) bool {
	if c.Status == ChargeStatusPaid || c.Status == ChargeStatusOverdue || !c.DueDate.Before(now) {
		return false
	}
	if c.LateFeeAmount.IsZero() {
		c.LateFeeAmount = lateFeePct.Of(c.Amount).RoundBank(valueobject.MoneyScale)
	}
	c.Status = ChargeStatusOverdue
	c.IncrementVersion()
	return true
}

// Payment is a receipt against a charge
type Payment struct {
	shared.TenantAggregateRoot
	ChargeID  uuid.UUID
	Amount    decimal.Decimal
	Method    string
	Reference string
	PaidAt    time.Time
}

// NewPayment creates a charge payment
func NewPayment(tenantID, chargeID uuid.UUID, amount decimal.Decimal, method, reference string, paidAt time.Time) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.Validation("payment amount must be greater than zero")
	}
	if !valueobject.FitsScale(amount, valueobject.MoneyScale) {
		return nil, shared.Validation("payment amount %s has more than %d decimal places", amount, valueobject.MoneyScale)
	}
	if len(method) > 64 {
		return nil, shared.Validation("payment method cannot exceed 64 characters")
	}
	if len(reference) > 120 {
		return nil, shared.Validation("payment reference cannot exceed 120 characters")
	}
	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ChargeID:            chargeID,
		Amount:              amount,
		Method:              strings.TrimSpace(method),
		Reference:           strings.TrimSpace(reference),
		PaidAt:              paidAt,
	}, nil
}

// Statement is an owner account's charges with their payments
type Statement struct {
	Account     OwnerAccount
	Charges     []Charge
	TotalDue    decimal.Decimal
	TotalPaid   decimal.Decimal
	Outstanding decimal.Decimal
}

// NewStatement totals charges, which must already be ordered
func NewStatement(account OwnerAccount, charges []Charge) Statement {
	st := Statement{Account: account, Charges: charges, TotalDue: decimal.Zero, TotalPaid: decimal.Zero}
	for i := range charges {
		st.TotalDue = st.TotalDue.Add(charges[i].TotalDue())
		st.TotalPaid = st.TotalPaid.Add(charges[i].PaidAmount)
	}
	st.Outstanding = valueobject.MaxDecimal(st.TotalDue.Sub(st.TotalPaid), decimal.Zero)
	return st
}
