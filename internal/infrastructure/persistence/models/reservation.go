package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/reservation"
)

// ReservationModel is the persistence model for a reservation
type ReservationModel struct {
	TenantAggregateModel
	UnitID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	UserID    *uuid.UUID         `gorm:"type:uuid;index"`
	LeadID    *uuid.UUID         `gorm:"type:uuid;index"`
	Status    reservation.Status `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	ExpiresAt time.Time          `gorm:"not null;index"`
	Notes     string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ReservationModel) TableName() string {
	return "reservations"
}

// ToDomain converts the persistence model to a domain Reservation
func (m *ReservationModel) ToDomain() *reservation.Reservation {
	return &reservation.Reservation{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		UnitID:              m.UnitID,
		UserID:              m.UserID,
		LeadID:              m.LeadID,
		Status:              m.Status,
		ExpiresAt:           m.ExpiresAt,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Reservation
func (m *ReservationModel) FromDomain(r *reservation.Reservation) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.UnitID = r.UnitID
	m.UserID = r.UserID
	m.LeadID = r.LeadID
	m.Status = r.Status
	m.ExpiresAt = r.ExpiresAt
	m.Notes = r.Notes
}
