package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/condo"
	domain "github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CreateCondoPlanRequest is the body of POST /condo/plans
type CreateCondoPlanRequest struct {
	Title      string                 `json:"title" binding:"required,max=200"`
	MonthlyFee decimal.Decimal        `json:"monthly_fee"`
	LateFeePct valueobject.Percentage `json:"late_fee_pct"`
}

// Input converts the request to a service input
func (r CreateCondoPlanRequest) Input() condo.CreatePlanInput {
	return condo.CreatePlanInput{Title: r.Title, MonthlyFee: r.MonthlyFee, LateFeePct: r.LateFeePct}
}

// GenerateChargesRequest is the body of POST /condo/plans/:id/charges
type GenerateChargesRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// Period converts the request to a billing period
func (r GenerateChargesRequest) Period() domain.Period {
	return domain.Period{Year: r.Year, Month: r.Month}
}

// RegisterCondoPaymentRequest is the body of POST /condo/charges/:id/payments
type RegisterCondoPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"max=64"`
	Reference string          `json:"reference" binding:"max=120"`
}

// Input converts the request to a service input
func (r RegisterCondoPaymentRequest) Input() condo.RegisterPaymentInput {
	return condo.RegisterPaymentInput{Amount: r.Amount, Method: r.Method, Reference: r.Reference}
}

// CondoPlanResponse is a fee plan
type CondoPlanResponse struct {
	ID         uuid.UUID              `json:"id"`
	Title      string                 `json:"title"`
	MonthlyFee decimal.Decimal        `json:"monthly_fee"`
	LateFeePct valueobject.Percentage `json:"late_fee_pct"`
	Active     bool                   `json:"active"`
}

// NewCondoPlanResponse converts a domain plan
func NewCondoPlanResponse(p *domain.Plan) CondoPlanResponse {
	return CondoPlanResponse{
		ID:         p.ID,
		Title:      p.Title,
		MonthlyFee: p.MonthlyFee,
		LateFeePct: p.LateFeePct,
		Active:     p.Active,
	}
}

// CondoPaymentResponse is one receipt against a charge
type CondoPaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
	PaidAt    time.Time       `json:"paid_at"`
}

// ChargeResponse is a monthly charge
type ChargeResponse struct {
	ID             uuid.UUID              `json:"id"`
	PlanID         uuid.UUID              `json:"plan_id"`
	UnitID         uuid.UUID              `json:"unit_id"`
	OwnerAccountID uuid.UUID              `json:"owner_account_id"`
	Year           int                    `json:"year"`
	Month          int                    `json:"month"`
	DueDate        time.Time              `json:"due_date"`
	Amount         decimal.Decimal        `json:"amount"`
	LateFeeAmount  decimal.Decimal        `json:"late_fee_amount"`
	PaidAmount     decimal.Decimal        `json:"paid_amount"`
	Outstanding    decimal.Decimal        `json:"outstanding"`
	Status         domain.ChargeStatus    `json:"status"`
	Payments       []CondoPaymentResponse `json:"payments,omitempty"`
}

// NewChargeResponse converts a domain charge
func NewChargeResponse(c *domain.Charge) ChargeResponse {
	resp := ChargeResponse{
		ID:             c.ID,
		PlanID:         c.PlanID,
		UnitID:         c.UnitID,
		OwnerAccountID: c.OwnerAccountID,
		Year:           c.Period.Year,
		Month:          c.Period.Month,
		DueDate:        c.DueDate,
		Amount:         c.Amount,
		LateFeeAmount:  c.LateFeeAmount,
		PaidAmount:     c.PaidAmount,
		Outstanding:    c.Outstanding(),
		Status:         c.Status,
	}
	for _, p := range c.Payments {
		resp.Payments = append(resp.Payments, CondoPaymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			PaidAt:    p.PaidAt,
		})
	}
	return resp
}

// StatementResponse is an owner account statement
type StatementResponse struct {
	AccountID   uuid.UUID        `json:"account_id"`
	FullName    string           `json:"full_name"`
	UnitID      *uuid.UUID       `json:"unit_id,omitempty"`
	Charges     []ChargeResponse `json:"charges"`
	TotalDue    decimal.Decimal  `json:"total_due"`
	TotalPaid   decimal.Decimal  `json:"total_paid"`
	Outstanding decimal.Decimal  `json:"outstanding"`
}

// NewStatementResponse converts a domain statement
func NewStatementResponse(st *domain.Statement) StatementResponse {
	resp := StatementResponse{
		AccountID:   st.Account.ID,
		FullName:    st.Account.FullName,
		UnitID:      st.Account.UnitID,
		Charges:     make([]ChargeResponse, len(st.Charges)),
		TotalDue:    st.TotalDue,
		TotalPaid:   st.TotalPaid,
		Outstanding: st.Outstanding,
	}
	for i := range st.Charges {
		resp.Charges[i] = NewChargeResponse(&st.Charges[i])
	}
	return resp
}
