package sales

import (
	"strings"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
)

// Lead is a prospective buyer referenced by reservations and sales
type Lead struct {
	shared.TenantAggregateRoot
	UserID   *uuid.UUID
	UnitID   *uuid.UUID
	FullName string
	Email    string
	Phone    string
	Status   string
	Source   string
}

// NewLead creates a lead in status NEW
func NewLead(tenantID uuid.UUID, fullName, email string) (*Lead, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.Validation("lead name cannot be empty")
	}
	return &Lead{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FullName:            fullName,
		Email:               strings.TrimSpace(email),
		Status:              "NEW",
	}, nil
}
