package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// UnitFilter narrows a unit listing. Nil fields do not filter.
type UnitFilter struct {
	Status     *UnitStatus
	TypologyID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Floor      *int
	View       string
	SortBy     string // column name; unknown values fall back to the default order
	SortOrder  string // ASC or DESC
}

// UnitRepository defines persistence for units. Every method is tenant scoped.
type UnitRepository interface {
	// FindByID finds a unit by ID within the context's tenant
	FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*Unit, error)

	// List returns units matching the filter, ordered by SortBy when set and
	// by status, then code otherwise
	List(ctx context.Context, tc tenancy.Context, filter UnitFilter) ([]Unit, error)

	// ExistsByCode reports whether a unit code is taken in the tenant
	ExistsByCode(ctx context.Context, tc tenancy.Context, code string) (bool, error)

	// Create inserts a new unit
	Create(ctx context.Context, tc tenancy.Context, unit *Unit) error

	// TransitionStatus sets the status only if the current status is one of
	// from, and returns whether a row changed. This is the optimistic lock
	// every reservation and sale transition relies on.
	TransitionStatus(ctx context.Context, tc tenancy.Context, id uuid.UUID, to UnitStatus, from ...UnitStatus) (bool, error)

	// SetStatus unconditionally sets the status (administrative override)
	SetStatus(ctx context.Context, tc tenancy.Context, id uuid.UUID, status UnitStatus) error
}
