package sales

import (
	"strings"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the state of a payment receipt
type PaymentStatus string

const (
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
)

// Payment is a single immutable money receipt against a sale
type Payment struct {
	shared.TenantAggregateRoot
	SaleID         uuid.UUID
	InstallmentID  *uuid.UUID
	RegisteredByID *uuid.UUID
	Amount         decimal.Decimal
	Method         string
	Reference      string
	Status         PaymentStatus
	Notes          string
}

// NewPaymentInput holds the receipt details
type NewPaymentInput struct {
	SaleID         uuid.UUID
	InstallmentID  *uuid.UUID
	RegisteredByID *uuid.UUID
	Amount         decimal.Decimal
	Method         string
	Reference      string
	Notes          string
}

// ValidatePaymentAmount checks a gross receipt amount. Receipts are whole
// cents.
func ValidatePaymentAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.Validation("payment amount must be greater than zero")
	}
	if !valueobject.FitsScale(amount, valueobject.MoneyScale) {
		return shared.Validation("payment amount %s has more than %d decimal places", amount, valueobject.MoneyScale)
	}
	return nil
}

// NewPayment creates a CONFIRMED payment
func NewPayment(tenantID uuid.UUID, in NewPaymentInput) (*Payment, error) {
	if err := ValidatePaymentAmount(in.Amount); err != nil {
		return nil, err
	}
	method := strings.TrimSpace(in.Method)
	if len(method) > 64 {
		return nil, shared.Validation("payment method cannot exceed 64 characters")
	}
	reference := strings.TrimSpace(in.Reference)
	if len(reference) > 120 {
		return nil, shared.Validation("payment reference cannot exceed 120 characters")
	}
	if len(in.Notes) > 2000 {
		return nil, shared.Validation("notes cannot exceed 2000 characters")
	}
	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleID:              in.SaleID,
		InstallmentID:       in.InstallmentID,
		RegisteredByID:      in.RegisteredByID,
		Amount:              in.Amount,
		Method:              method,
		Reference:           reference,
		Status:              PaymentStatusConfirmed,
		Notes:               in.Notes,
	}, nil
}
