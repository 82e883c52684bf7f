package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/propcore/backend/internal/application/reservation"
	"github.com/propcore/backend/internal/interfaces/http/dto"
)

// ReservationHandler serves the reservation endpoints
type ReservationHandler struct {
	BaseHandler
	reservations *reservation.Service
}

// NewReservationHandler creates a reservation handler
func NewReservationHandler(reservations *reservation.Service) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// Create handles POST /reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	var req dto.CreateReservationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	r, err := h.reservations.Create(c.Request.Context(), tc, req.Input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewReservationResponse(r))
}

// List handles GET /reservations
func (h *ReservationHandler) List(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	var q dto.ListReservationsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter, err := q.Filter()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	rs, err := h.reservations.List(c.Request.Context(), tc, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewReservationList(rs))
}

// Expire handles POST /reservations/expire
func (h *ReservationHandler) Expire(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	result, err := h.reservations.Expire(c.Request.Context(), tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Cancel handles POST /reservations/:id/cancel
func (h *ReservationHandler) Cancel(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CancelReservationRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	if err := h.reservations.Cancel(c.Request.Context(), tc, id, req.Reason); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
