// Package sales models committed unit sales and the money that flows
// through them: payment plans, payments, commissions and ledger postings.
package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusOpen     SaleStatus = "OPEN"
	SaleStatusClosed   SaleStatus = "CLOSED"
	SaleStatusCanceled SaleStatus = "CANCELED"
)

// IsValid checks if the status is a known value
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusOpen, SaleStatusClosed, SaleStatusCanceled:
		return true
	}
	return false
}

// Sale is a committed transaction for a unit
type Sale struct {
	shared.TenantAggregateRoot
	UnitID        uuid.UUID
	LeadID        *uuid.UUID
	ReservationID *uuid.UUID
	BuyerID       *uuid.UUID
	SellerID      *uuid.UUID
	Price         decimal.Decimal
	Status        SaleStatus
	ClosedAt      *time.Time
	Notes         string
}

// NewSaleInput holds the parties and terms of a new sale
type NewSaleInput struct {
	UnitID        uuid.UUID
	LeadID        *uuid.UUID
	ReservationID *uuid.UUID
	BuyerID       *uuid.UUID
	SellerID      *uuid.UUID
	Price         decimal.Decimal
	Notes         string
}

// NewSale creates an OPEN sale
func NewSale(tenantID uuid.UUID, in NewSaleInput) (*Sale, error) {
	if in.UnitID == uuid.Nil {
		return nil, shared.Validation("unit id is required")
	}
	if in.Price.IsNegative() {
		return nil, shared.Validation("sale price cannot be negative")
	}
	if len(in.Notes) > 2000 {
		return nil, shared.Validation("notes cannot exceed 2000 characters")
	}
	return &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UnitID:              in.UnitID,
		LeadID:              in.LeadID,
		ReservationID:       in.ReservationID,
		BuyerID:             in.BuyerID,
		SellerID:            in.SellerID,
		Price:               in.Price,
		Status:              SaleStatusOpen,
		Notes:               in.Notes,
	}, nil
}

// HasSeller reports whether a seller is attributed to the sale
func (s *Sale) HasSeller() bool {
	return s.SellerID != nil && *s.SellerID != uuid.Nil
}
