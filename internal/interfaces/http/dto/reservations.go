package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/reservation"
	domain "github.com/propcore/backend/internal/domain/reservation"
)

// CreateReservationRequest is the body of POST /reservations
type CreateReservationRequest struct {
	UnitID   uuid.UUID  `json:"unit_id" binding:"required"`
	TTLHours *int       `json:"ttl_hours" binding:"omitempty,min=1,max=720"`
	UserID   *uuid.UUID `json:"user_id"`
	LeadID   *uuid.UUID `json:"lead_id"`
	Notes    string     `json:"notes" binding:"max=2000"`
}

// Input converts the request to a service input
func (r CreateReservationRequest) Input() reservation.CreateInput {
	return reservation.CreateInput{
		UnitID:   r.UnitID,
		TTLHours: r.TTLHours,
		UserID:   r.UserID,
		LeadID:   r.LeadID,
		Notes:    r.Notes,
	}
}

// ListReservationsQuery filters GET /reservations
type ListReservationsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE EXPIRED CANCELED CONVERTED"`
	UnitID string `form:"unit_id"`
}

// Filter parses the query into a repository filter
func (q ListReservationsQuery) Filter() (domain.Filter, error) {
	var f domain.Filter
	var err error
	if f.UnitID, err = optionalUUID("unit_id", q.UnitID); err != nil {
		return f, err
	}
	if q.Status != "" {
		s := domain.Status(q.Status)
		f.Status = &s
	}
	return f, nil
}

// CancelReservationRequest is the body of POST /reservations/:id/cancel
type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ReservationResponse is a reservation as returned by the API
type ReservationResponse struct {
	ID        uuid.UUID     `json:"id"`
	UnitID    uuid.UUID     `json:"unit_id"`
	UserID    *uuid.UUID    `json:"user_id,omitempty"`
	LeadID    *uuid.UUID    `json:"lead_id,omitempty"`
	Status    domain.Status `json:"status"`
	ExpiresAt time.Time     `json:"expires_at"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewReservationResponse converts a domain reservation
func NewReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:        r.ID,
		UnitID:    r.UnitID,
		UserID:    r.UserID,
		LeadID:    r.LeadID,
		Status:    r.Status,
		ExpiresAt: r.ExpiresAt,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
	}
}

// NewReservationList converts a reservation listing
func NewReservationList(rs []domain.Reservation) ListData[ReservationResponse] {
	out := make([]ReservationResponse, len(rs))
	for i := range rs {
		out[i] = NewReservationResponse(&rs[i])
	}
	return NewList(out)
}
