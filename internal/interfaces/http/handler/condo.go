package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/propcore/backend/internal/application/condo"
	"github.com/propcore/backend/internal/interfaces/http/dto"
)

// CondoHandler serves the condominium fee endpoints
type CondoHandler struct {
	BaseHandler
	condo *condo.Service
}

// NewCondoHandler creates a condo handler
func NewCondoHandler(svc *condo.Service) *CondoHandler {
	return &CondoHandler{condo: svc}
}

// CreatePlan handles POST /condo/plans
func (h *CondoHandler) CreatePlan(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	var req dto.CreateCondoPlanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	plan, err := h.condo.CreatePlan(c.Request.Context(), tc, req.Input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewCondoPlanResponse(plan))
}

// GenerateCharges handles POST /condo/plans/:id/charges
func (h *CondoHandler) GenerateCharges(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	planID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.GenerateChargesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.condo.GenerateMonthlyCharges(c.Request.Context(), tc, planID, req.Period())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RegisterPayment handles POST /condo/charges/:id/payments
func (h *CondoHandler) RegisterPayment(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	chargeID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.RegisterCondoPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	charge, err := h.condo.RegisterPayment(c.Request.Context(), tc, chargeID, req.Input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewChargeResponse(charge))
}

// MarkOverdue handles POST /condo/charges/overdue
func (h *CondoHandler) MarkOverdue(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	result, err := h.condo.MarkOverdue(c.Request.Context(), tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Statement handles GET /condo/accounts/:id/statement
func (h *CondoHandler) Statement(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	accountID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	st, err := h.condo.Statement(c.Request.Context(), tc, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewStatementResponse(st))
}
