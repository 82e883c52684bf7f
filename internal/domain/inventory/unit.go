package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UnitStatus is the availability state of a sellable unit
type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "AVAILABLE"
	UnitStatusReserved  UnitStatus = "RESERVED"
	UnitStatusSold      UnitStatus = "SOLD"
	UnitStatusBlocked   UnitStatus = "BLOCKED"
)

// IsValid checks if the status is a known value
func (s UnitStatus) IsValid() bool {
	switch s {
	case UnitStatusAvailable, UnitStatusReserved, UnitStatusSold, UnitStatusBlocked:
		return true
	}
	return false
}

// String returns the string representation
func (s UnitStatus) String() string {
	return string(s)
}

// ParseUnitStatus parses a status name case-insensitively
func ParseUnitStatus(s string) (UnitStatus, error) {
	status := UnitStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.Validation("unknown unit status %q", s)
	}
	return status, nil
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next
// without an administrative override:
//
//	AVAILABLE -> RESERVED | SOLD | BLOCKED
//	RESERVED  -> AVAILABLE | SOLD
//	BLOCKED   -> AVAILABLE
//	SOLD      -> (terminal)
func (s UnitStatus) CanTransitionTo(next UnitStatus) bool {
	switch s {
	case UnitStatusAvailable:
		return next == UnitStatusReserved || next == UnitStatusSold || next == UnitStatusBlocked
	case UnitStatusReserved:
		return next == UnitStatusAvailable || next == UnitStatusSold
	case UnitStatusBlocked:
		return next == UnitStatusAvailable
	default:
		return false
	}
}

// Unit is a sellable real-estate inventory item
type Unit struct {
	shared.TenantAggregateRoot
	Code       string
	TypologyID *uuid.UUID
	Floor      *int
	View       string
	AreaM2     decimal.Decimal
	Price      decimal.Decimal
	Status     UnitStatus
}

// NewUnit creates an AVAILABLE unit
func NewUnit(tenantID uuid.UUID, code string, price decimal.Decimal) (*Unit, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.Validation("unit code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.Validation("unit code cannot exceed 50 characters")
	}
	if price.IsNegative() {
		return nil, shared.Validation("unit price cannot be negative")
	}
	return &Unit{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Price:               price,
		AreaM2:              decimal.Zero,
		Status:              UnitStatusAvailable,
	}, nil
}

// IsAvailable reports whether the unit can be reserved or sold
func (u *Unit) IsAvailable() bool {
	return u.Status == UnitStatusAvailable
}
