package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the unit endpoints
func (h *UnitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/units")
	g.GET("", h.List)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.POST("/import", h.Import)
}

// RegisterRoutes mounts the reservation endpoints
func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/reservations")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.POST("/expire", h.Expire)
	g.POST("/:id/cancel", h.Cancel)
}

// RegisterRoutes mounts sales, payments and commission rules
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/sales")
	g.POST("", h.Create)
	g.POST("/:id/close", h.Close)
	g.POST("/:id/docs", h.AttachDocs)
	g.GET("/:id/ledger", h.Ledger)
	g.POST("/:id/payment-plans", h.CreatePaymentPlan)

	rg.POST("/payments", h.CreatePayment)
	rg.POST("/commission-rules", h.CreateCommissionRule)
	rg.GET("/commission-rules", h.ListCommissionRules)
}

// RegisterRoutes mounts the condominium endpoints
func (h *CondoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/condo")
	g.POST("/plans", h.CreatePlan)
	g.POST("/plans/:id/charges", h.GenerateCharges)
	g.POST("/charges/overdue", h.MarkOverdue)
	g.POST("/charges/:id/payments", h.RegisterPayment)
	g.GET("/accounts/:id/statement", h.Statement)
}

// RegisterRoutes mounts the report endpoints
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/summary", h.Summary)
}

// RegisterRoutes mounts the privileged mode endpoints
func (h *SecurityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/security/privileged-mode", h.EnablePrivilegedMode)
	rg.DELETE("/security/privileged-mode", h.DisablePrivilegedMode)
}
