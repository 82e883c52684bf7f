package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/audit"
)

// AuditLogModel is the persistence model for an audit entry. The metadata
// column holds the JSON encoding of the action's typed payload.
type AuditLogModel struct {
	ID         uuid.UUID    `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_audit_tenant_entity,priority:1;index:idx_audit_tenant_action,priority:1"`
	UserID     *uuid.UUID   `gorm:"type:uuid"`
	Action     audit.Action `gorm:"type:varchar(100);not null;index:idx_audit_tenant_action,priority:2"`
	EntityType string       `gorm:"type:varchar(50);index:idx_audit_tenant_entity,priority:2"`
	EntityID   *uuid.UUID   `gorm:"type:uuid;index:idx_audit_tenant_entity,priority:3"`
	Metadata   string       `gorm:"type:jsonb"`
	CreatedAt  time.Time    `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToDomain converts the persistence model to a domain Entry
func (m *AuditLogModel) ToDomain() *audit.Entry {
	var meta json.RawMessage
	if m.Metadata != "" {
		meta = json.RawMessage(m.Metadata)
	}
	return &audit.Entry{
		ID:         m.ID,
		TenantID:   m.TenantID,
		UserID:     m.UserID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Metadata:   meta,
		CreatedAt:  m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Entry
func (m *AuditLogModel) FromDomain(e *audit.Entry) {
	m.ID = e.ID
	m.TenantID = e.TenantID
	m.UserID = e.UserID
	m.Action = e.Action
	m.EntityType = e.EntityType
	m.EntityID = e.EntityID
	m.Metadata = string(e.Metadata)
	m.CreatedAt = e.CreatedAt
}

// All lists every model in migration order, for AutoMigrate in tests and tools
func All() []any {
	return []any{
		&TenantModel{},
		&MembershipModel{},
		&UnitModel{},
		&LeadModel{},
		&ReservationModel{},
		&SaleModel{},
		&PaymentPlanModel{},
		&InstallmentModel{},
		&PaymentModel{},
		&CommissionRuleModel{},
		&CommissionEntryModel{},
		&LedgerEntryModel{},
		&AssetModel{},
		&CondoPlanModel{},
		&OwnerAccountModel{},
		&CondoChargeModel{},
		&CondoPaymentModel{},
		&AuditLogModel{},
	}
}
