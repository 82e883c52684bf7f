package reservation

import (
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
)

// MaxTTLHours bounds a caller-supplied reservation TTL (one week)
const MaxTTLHours = 168

// Status is the lifecycle state of a reservation
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusExpired   Status = "EXPIRED"
	StatusCanceled  Status = "CANCELED"
	StatusConverted Status = "CONVERTED"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusCanceled, StatusConverted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusExpired || s == StatusCanceled || s == StatusConverted
}

// Reservation is a time-boxed hold on a unit
type Reservation struct {
	shared.TenantAggregateRoot
	UnitID    uuid.UUID
	UserID    *uuid.UUID
	LeadID    *uuid.UUID
	Status    Status
	ExpiresAt time.Time
	Notes     string
}

// ValidateTTL checks a caller-supplied TTL override
func ValidateTTL(hours int) error {
	if hours <= 0 || hours > MaxTTLHours {
		return shared.Validation("ttl hours must be between 1 and %d", MaxTTLHours)
	}
	return nil
}

// New creates an ACTIVE reservation expiring ttlHours after now
func New(tenantID, unitID uuid.UUID, userID, leadID *uuid.UUID, ttlHours int, now time.Time, notes string) (*Reservation, error) {
	if err := ValidateTTL(ttlHours); err != nil {
		return nil, err
	}
	if len(notes) > 2000 {
		return nil, shared.Validation("notes cannot exceed 2000 characters")
	}
	return &Reservation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UnitID:              unitID,
		UserID:              userID,
		LeadID:              leadID,
		Status:              StatusActive,
		ExpiresAt:           now.Add(time.Duration(ttlHours) * time.Hour),
		Notes:               notes,
	}, nil
}

// IsActive reports whether the reservation still holds its unit
func (r *Reservation) IsActive() bool {
	return r.Status == StatusActive
}

// IsExpiredAt reports whether an active reservation has lapsed at now
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return r.IsActive() && !r.ExpiresAt.After(now)
}

// IsOwnedBy reports whether userID holds the reservation
func (r *Reservation) IsOwnedBy(userID *uuid.UUID) bool {
	return r.UserID != nil && userID != nil && *r.UserID == *userID
}

// EnsureCancelable checks the reservation can be canceled
func (r *Reservation) EnsureCancelable() error {
	if !r.IsActive() {
		return shared.InvalidState("only active reservations can be canceled, reservation is %s", r.Status)
	}
	return nil
}
