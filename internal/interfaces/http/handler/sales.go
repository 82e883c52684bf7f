package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/propcore/backend/internal/application/sales"
	"github.com/propcore/backend/internal/interfaces/http/dto"
)

// SaleHandler serves sales, payments and commission rules
type SaleHandler struct {
	BaseHandler
	sales *sales.Service
}

// NewSaleHandler creates a sale handler
func NewSaleHandler(svc *sales.Service) *SaleHandler {
	return &SaleHandler{sales: svc}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	var req dto.CreateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	sale, err := h.sales.CreateSale(c.Request.Context(), tc, req.Input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewSaleResponse(sale))
}

// Close handles POST /sales/:id/close
func (h *SaleHandler) Close(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CloseSaleRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.sales.CloseSale(c.Request.Context(), tc, id, req.ClosedAt)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AttachDocs handles POST /sales/:id/docs
func (h *SaleHandler) AttachDocs(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AttachDocsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.sales.AttachSaleDocs(c.Request.Context(), tc, id, req.AssetIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Ledger handles GET /sales/:id/ledger
func (h *SaleHandler) Ledger(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	entries, err := h.sales.GetSaleLedger(c.Request.Context(), tc, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewLedger(entries))
}

// CreatePaymentPlan handles POST /sales/:id/payment-plans
func (h *SaleHandler) CreatePaymentPlan(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CreatePaymentPlanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	plan, err := h.sales.CreatePaymentPlan(c.Request.Context(), tc, req.Input(id))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPaymentPlanResponse(plan))
}

// CreatePayment handles POST /payments
func (h *SaleHandler) CreatePayment(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.sales.CreatePayment(c.Request.Context(), tc, req.Input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPaymentResponse(result))
}

// CreateCommissionRule handles POST /commission-rules
func (h *SaleHandler) CreateCommissionRule(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	var req dto.CreateCommissionRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	in, err := req.Input()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	rule, err := h.sales.CreateCommissionRule(c.Request.Context(), tc, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewCommissionRuleResponse(rule))
}

// ListCommissionRules handles GET /commission-rules
func (h *SaleHandler) ListCommissionRules(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	rules, err := h.sales.ListCommissionRules(c.Request.Context(), tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewCommissionRuleList(rules))
}
