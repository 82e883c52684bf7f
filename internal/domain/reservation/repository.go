package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/tenancy"
)

// Filter narrows a reservation listing
type Filter struct {
	Status *Status
	UserID *uuid.UUID
	UnitID *uuid.UUID
}

// Repository defines persistence for reservations. Every method is tenant scoped.
type Repository interface {
	// FindByID finds a reservation by ID within the tenant
	FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*Reservation, error)

	// List returns reservations ordered by creation time, newest first
	List(ctx context.Context, tc tenancy.Context, filter Filter) ([]Reservation, error)

	// FindExpirable returns ACTIVE reservations whose expiry is at or before now
	FindExpirable(ctx context.Context, tc tenancy.Context, now time.Time) ([]Reservation, error)

	// CountActiveForUnit counts ACTIVE reservations holding a unit
	CountActiveForUnit(ctx context.Context, tc tenancy.Context, unitID uuid.UUID) (int64, error)

	// Create inserts a reservation
	Create(ctx context.Context, tc tenancy.Context, r *Reservation) error

	// TransitionStatus sets status only when the current status is from
	TransitionStatus(ctx context.Context, tc tenancy.Context, id uuid.UUID, to, from Status) (bool, error)

	// MarkConverted sets CONVERTED by id regardless of prior status
	MarkConverted(ctx context.Context, tc tenancy.Context, id uuid.UUID) (int64, error)
}
