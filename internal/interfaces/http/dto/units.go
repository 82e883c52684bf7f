package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ListUnitsQuery filters GET /units
type ListUnitsQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=AVAILABLE RESERVED SOLD BLOCKED"`
	TypologyID string `form:"typology_id"`
	MinPrice   string `form:"min_price"`
	MaxPrice   string `form:"max_price"`
	Floor      string `form:"floor"`
	View       string `form:"view" binding:"max=100"`
	Sort       string `form:"sort" binding:"omitempty,oneof=code price area_m2 floor status created_at updated_at"`
	Order      string `form:"order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// Filter parses the query into a repository filter
func (q ListUnitsQuery) Filter() (inventory.UnitFilter, error) {
	f := inventory.UnitFilter{View: q.View, SortBy: q.Sort, SortOrder: q.Order}
	var err error
	if f.TypologyID, err = optionalUUID("typology_id", q.TypologyID); err != nil {
		return f, err
	}
	if f.MinPrice, err = optionalDecimal("min_price", q.MinPrice); err != nil {
		return f, err
	}
	if f.MaxPrice, err = optionalDecimal("max_price", q.MaxPrice); err != nil {
		return f, err
	}
	if f.Floor, err = optionalInt("floor", q.Floor); err != nil {
		return f, err
	}
	if q.Status != "" {
		s := inventory.UnitStatus(q.Status)
		f.Status = &s
	}
	return f, nil
}

// UpdateUnitStatusRequest is the body of PATCH /units/:id/status
type UpdateUnitStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=AVAILABLE RESERVED SOLD BLOCKED"`
	Reason string `json:"reason" binding:"max=500"`
}

// UnitResponse is a unit as returned by the API
type UnitResponse struct {
	ID         uuid.UUID            `json:"id"`
	Code       string               `json:"code"`
	TypologyID *uuid.UUID           `json:"typology_id,omitempty"`
	Floor      *int                 `json:"floor,omitempty"`
	View       string               `json:"view,omitempty"`
	AreaM2     decimal.Decimal      `json:"area_m2"`
	Price      decimal.Decimal      `json:"price"`
	Status     inventory.UnitStatus `json:"status"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// NewUnitResponse converts a domain unit
func NewUnitResponse(u *inventory.Unit) UnitResponse {
	return UnitResponse{
		ID:         u.ID,
		Code:       u.Code,
		TypologyID: u.TypologyID,
		Floor:      u.Floor,
		View:       u.View,
		AreaM2:     u.AreaM2,
		Price:      u.Price,
		Status:     u.Status,
		UpdatedAt:  u.UpdatedAt,
	}
}

// NewUnitList converts a unit listing
func NewUnitList(units []inventory.Unit) ListData[UnitResponse] {
	out := make([]UnitResponse, len(units))
	for i := range units {
		out[i] = NewUnitResponse(&units[i])
	}
	return NewList(out)
}
