package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MaxInstallments bounds a generated schedule
const MaxInstallments = 360

// InstallmentStatus is derived from paid vs owed
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING"
	InstallmentStatusPartial InstallmentStatus = "PARTIAL"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
)

// DeriveInstallmentStatus computes the status for a paid amount
func DeriveInstallmentStatus(paid, owed decimal.Decimal) InstallmentStatus {
	switch {
	case paid.GreaterThanOrEqual(owed):
		return InstallmentStatusPaid
	case paid.IsPositive():
		return InstallmentStatusPartial
	default:
		return InstallmentStatusPending
	}
}

// PaymentPlan is an amortization schedule for a sale
type PaymentPlan struct {
	shared.TenantAggregateRoot
	SaleID       uuid.UUID
	Title        string
	TotalAmount  decimal.Decimal
	StartDate    time.Time
	Installments []Installment
}

// Installment is one scheduled amount of a plan
type Installment struct {
	shared.TenantAggregateRoot
	PlanID     uuid.UUID
	DueDate    time.Time
	Amount     decimal.Decimal
	PaidAmount decimal.Decimal
	Status     InstallmentStatus
}

// NewPaymentPlan builds a plan of n monthly installments that sum exactly to total
func NewPaymentPlan(tenantID, saleID uuid.UUID, title string, total decimal.Decimal, n int, start time.Time) (*PaymentPlan, error) {
	if !total.IsPositive() {
		return nil, shared.Validation("plan total must be positive")
	}
	if n <= 0 || n > MaxInstallments {
		return nil, shared.Validation("installments must be between 1 and %d", MaxInstallments)
	}
	if title == "" {
		title = "Payment plan"
	}

	plan := &PaymentPlan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleID:              saleID,
		Title:               title,
		TotalAmount:         total,
		StartDate:           start,
	}
	for i, amount := range valueobject.SplitEvenly(total, n) {
		plan.Installments = append(plan.Installments, Installment{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
			PlanID:              plan.ID,
			DueDate:             start.AddDate(0, i, 0),
			Amount:              amount,
			PaidAmount:          decimal.Zero,
			Status:              InstallmentStatusPending,
		})
	}
	return plan, nil
}

// ApplyPayment adds amount to the paid total and re-derives the status.
// Only positive amounts are accepted, so PaidAmount never decreases.
func (i *Installment) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.Validation("installment payment must be positive")
	}
	i.PaidAmount = i.PaidAmount.Add(amount)
	i.Status = DeriveInstallmentStatus(i.PaidAmount, i.Amount)
	i.IncrementVersion()
	return nil
}
