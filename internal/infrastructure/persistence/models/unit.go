package models

import (
	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// UnitModel is the persistence model for a sellable unit
type UnitModel struct {
	AggregateModel
	TenantID   uuid.UUID            `gorm:"type:uuid;not null;index;uniqueIndex:idx_unit_tenant_code,priority:1"`
	Code       string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_unit_tenant_code,priority:2"`
	TypologyID *uuid.UUID           `gorm:"type:uuid;index"`
	Floor      *int                 `gorm:"column:floor"`
	View       string               `gorm:"type:varchar(100)"`
	AreaM2     decimal.Decimal      `gorm:"column:area_m2;type:decimal(18,4);not null;default:0"`
	Price      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Status     inventory.UnitStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit
func (m *UnitModel) ToDomain() *inventory.Unit {
	return &inventory.Unit{
		TenantAggregateRoot: tenantRoot(m.AggregateModel, m.TenantID),
		Code:                m.Code,
		TypologyID:          m.TypologyID,
		Floor:               m.Floor,
		View:                m.View,
		AreaM2:              m.AreaM2,
		Price:               m.Price,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Unit
func (m *UnitModel) FromDomain(u *inventory.Unit) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.TenantID = u.TenantID
	m.Code = u.Code
	m.TypologyID = u.TypologyID
	m.Floor = u.Floor
	m.View = u.View
	m.AreaM2 = u.AreaM2
	m.Price = u.Price
	m.Status = u.Status
}
