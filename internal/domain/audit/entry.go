// Package audit models the append-only action log. Each mutating core
// operation appends exactly one Entry inside its own transaction.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
)

// Entry is one immutable audit row
type Entry struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	UserID     *uuid.UUID
	Action     Action
	EntityType string
	EntityID   *uuid.UUID
	Metadata   json.RawMessage
	CreatedAt  time.Time
}

// Record is what callers hand to the sink
type Record struct {
	EntityType string
	EntityID   *uuid.UUID
	Metadata   Metadata
}

// NewRecord builds a record for an entity
func NewRecord(entityType string, entityID uuid.UUID, meta Metadata) Record {
	id := entityID
	return Record{EntityType: entityType, EntityID: &id, Metadata: meta}
}

// NewEntry validates a record against a tenant context and encodes its metadata
func NewEntry(tc tenancy.Context, rec Record, now time.Time) (*Entry, error) {
	if err := tenancy.AssertTenantContext(tc); err != nil {
		return nil, err
	}
	if rec.Metadata == nil {
		return nil, shared.Validation("audit record requires metadata")
	}
	action := rec.Metadata.Action()
	if strings.TrimSpace(string(action)) == "" {
		return nil, shared.Validation("audit action cannot be empty")
	}

	raw, err := json.Marshal(rec.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode audit metadata for %s: %w", action, err)
	}

	var userID *uuid.UUID
	if tc.HasUser() {
		u := *tc.UserID
		userID = &u
	}

	return &Entry{
		ID:         uuid.New(),
		TenantID:   tc.TenantID,
		UserID:     userID,
		Action:     action,
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Metadata:   raw,
		CreatedAt:  now,
	}, nil
}

// Repository appends and reads audit entries. There is no update or delete.
type Repository interface {
	Append(ctx context.Context, tc tenancy.Context, entry *Entry) error
	ListByEntity(ctx context.Context, tc tenancy.Context, entityType string, entityID uuid.UUID) ([]Entry, error)
	ListByAction(ctx context.Context, tc tenancy.Context, action Action) ([]Entry, error)
}
