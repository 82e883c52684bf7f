package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/sales"
	domain "github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest is the body of POST /sales
type CreateSaleRequest struct {
	UnitID        uuid.UUID       `json:"unit_id" binding:"required"`
	LeadID        *uuid.UUID      `json:"lead_id"`
	ReservationID *uuid.UUID      `json:"reservation_id"`
	BuyerID       *uuid.UUID      `json:"buyer_id"`
	SellerID      *uuid.UUID      `json:"seller_id"`
	Price         decimal.Decimal `json:"price"`
	Notes         string          `json:"notes" binding:"max=2000"`
}

// Input converts the request to a service input
func (r CreateSaleRequest) Input() sales.CreateSaleInput {
	return sales.CreateSaleInput{
		UnitID:        r.UnitID,
		LeadID:        r.LeadID,
		ReservationID: r.ReservationID,
		BuyerID:       r.BuyerID,
		SellerID:      r.SellerID,
		Price:         r.Price,
		Notes:         r.Notes,
	}
}

// CloseSaleRequest is the optional body of POST /sales/:id/close
type CloseSaleRequest struct {
	ClosedAt *time.Time `json:"closed_at"`
}

// AttachDocsRequest is the body of POST /sales/:id/docs
type AttachDocsRequest struct {
	AssetIDs []uuid.UUID `json:"asset_ids" binding:"required,min=1,max=100"`
}

// CreatePaymentPlanRequest is the body of POST /sales/:id/payment-plans
type CreatePaymentPlanRequest struct {
	Title        string          `json:"title" binding:"required,max=200"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Installments int             `json:"installments" binding:"required,min=1,max=360"`
	StartDate    *time.Time      `json:"start_date"`
}

// Input converts the request to a service input for saleID
func (r CreatePaymentPlanRequest) Input(saleID uuid.UUID) sales.CreatePaymentPlanInput {
	in := sales.CreatePaymentPlanInput{
		SaleID:       saleID,
		Title:        r.Title,
		TotalAmount:  r.TotalAmount,
		Installments: r.Installments,
	}
	if r.StartDate != nil {
		in.StartDate = *r.StartDate
	}
	return in
}

// CreatePaymentRequest is the body of POST /payments
type CreatePaymentRequest struct {
	SaleID        uuid.UUID       `json:"sale_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	InstallmentID *uuid.UUID      `json:"installment_id"`
	Method        string          `json:"method" binding:"max=64"`
	Reference     string          `json:"reference" binding:"max=120"`
	Notes         string          `json:"notes" binding:"max=2000"`
}

// Input converts the request to a service input
func (r CreatePaymentRequest) Input() sales.CreatePaymentInput {
	return sales.CreatePaymentInput{
		SaleID:        r.SaleID,
		Amount:        r.Amount,
		InstallmentID: r.InstallmentID,
		Method:        r.Method,
		Reference:     r.Reference,
		Notes:         r.Notes,
	}
}

// CreateCommissionRuleRequest is the body of POST /commission-rules
type CreateCommissionRuleRequest struct {
	Role       string                 `json:"role" binding:"omitempty,max=16"`
	Percentage valueobject.Percentage `json:"percentage"`
	Active     *bool                  `json:"active"`
}

// Input converts the request to a service input. The role name is matched
// case-insensitively.
func (r CreateCommissionRuleRequest) Input() (sales.CreateCommissionRuleInput, error) {
	in := sales.CreateCommissionRuleInput{Percentage: r.Percentage, Active: r.Active}
	if r.Role != "" {
		role, err := tenancy.ParseRole(r.Role)
		if err != nil {
			return sales.CreateCommissionRuleInput{}, err
		}
		in.Role = &role
	}
	return in, nil
}

// SaleResponse is a sale as returned by the API
type SaleResponse struct {
	ID            uuid.UUID         `json:"id"`
	UnitID        uuid.UUID         `json:"unit_id"`
	LeadID        *uuid.UUID        `json:"lead_id,omitempty"`
	ReservationID *uuid.UUID        `json:"reservation_id,omitempty"`
	BuyerID       *uuid.UUID        `json:"buyer_id,omitempty"`
	SellerID      *uuid.UUID        `json:"seller_id,omitempty"`
	Price         decimal.Decimal   `json:"price"`
	Status        domain.SaleStatus `json:"status"`
	ClosedAt      *time.Time        `json:"closed_at,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewSaleResponse converts a domain sale
func NewSaleResponse(s *domain.Sale) SaleResponse {
	return SaleResponse{
		ID:            s.ID,
		UnitID:        s.UnitID,
		LeadID:        s.LeadID,
		ReservationID: s.ReservationID,
		BuyerID:       s.BuyerID,
		SellerID:      s.SellerID,
		Price:         s.Price,
		Status:        s.Status,
		ClosedAt:      s.ClosedAt,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
	}
}

// LedgerEntryResponse is one ledger posting
type LedgerEntryResponse struct {
	ID        uuid.UUID              `json:"id"`
	PaymentID uuid.UUID              `json:"payment_id"`
	Type      domain.LedgerEntryType `json:"type"`
	Amount    decimal.Decimal        `json:"amount"`
	Notes     string                 `json:"notes,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewLedger converts ledger entries
func NewLedger(entries []domain.LedgerEntry) ListData[LedgerEntryResponse] {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			ID:        e.ID,
			PaymentID: e.PaymentID,
			Type:      e.Type,
			Amount:    e.Amount,
			Notes:     e.Notes,
			CreatedAt: e.CreatedAt,
		}
	}
	return NewList(out)
}

// InstallmentResponse is one scheduled installment
type InstallmentResponse struct {
	ID         uuid.UUID                `json:"id"`
	DueDate    time.Time                `json:"due_date"`
	Amount     decimal.Decimal          `json:"amount"`
	PaidAmount decimal.Decimal          `json:"paid_amount"`
	Status     domain.InstallmentStatus `json:"status"`
}

func newInstallmentResponse(i *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:         i.ID,
		DueDate:    i.DueDate,
		Amount:     i.Amount,
		PaidAmount: i.PaidAmount,
		Status:     i.Status,
	}
}

// PaymentPlanResponse is a plan with its schedule
type PaymentPlanResponse struct {
	ID           uuid.UUID             `json:"id"`
	SaleID       uuid.UUID             `json:"sale_id"`
	Title        string                `json:"title"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	StartDate    time.Time             `json:"start_date"`
	Installments []InstallmentResponse `json:"installments"`
}

// NewPaymentPlanResponse converts a domain plan
func NewPaymentPlanResponse(p *domain.PaymentPlan) PaymentPlanResponse {
	resp := PaymentPlanResponse{
		ID:           p.ID,
		SaleID:       p.SaleID,
		Title:        p.Title,
		TotalAmount:  p.TotalAmount,
		StartDate:    p.StartDate,
		Installments: make([]InstallmentResponse, len(p.Installments)),
	}
	for i := range p.Installments {
		resp.Installments[i] = newInstallmentResponse(&p.Installments[i])
	}
	return resp
}

// CommissionResponse is a commission snapshot
type CommissionResponse struct {
	SellerID   uuid.UUID              `json:"seller_id"`
	RuleID     *uuid.UUID             `json:"rule_id,omitempty"`
	Percentage valueobject.Percentage `json:"percentage"`
	Amount     decimal.Decimal        `json:"amount"`
}

// PaymentResponse is a registered payment with its postings
type PaymentResponse struct {
	ID            uuid.UUID                     `json:"id"`
	SaleID        uuid.UUID                     `json:"sale_id"`
	InstallmentID *uuid.UUID                    `json:"installment_id,omitempty"`
	Amount        decimal.Decimal               `json:"amount"`
	Method        string                        `json:"method,omitempty"`
	Reference     string                        `json:"reference,omitempty"`
	Status        domain.PaymentStatus          `json:"status"`
	Installment   *InstallmentResponse          `json:"installment,omitempty"`
	Commission    *CommissionResponse           `json:"commission,omitempty"`
	Ledger        ListData[LedgerEntryResponse] `json:"ledger"`
}

// NewPaymentResponse converts a payment result
func NewPaymentResponse(r *sales.PaymentResult) PaymentResponse {
	p := r.Payment
	resp := PaymentResponse{
		ID:            p.ID,
		SaleID:        p.SaleID,
		InstallmentID: p.InstallmentID,
		Amount:        p.Amount,
		Method:        p.Method,
		Reference:     p.Reference,
		Status:        p.Status,
		Ledger:        NewLedger(r.Ledger),
	}
	if r.Installment != nil {
		inst := newInstallmentResponse(r.Installment)
		resp.Installment = &inst
	}
	if c := r.Commission; c != nil {
		resp.Commission = &CommissionResponse{
			SellerID:   c.SellerID,
			RuleID:     c.RuleID,
			Percentage: c.Percentage,
			Amount:     c.Amount,
		}
	}
	return resp
}

// CommissionRuleResponse is a commission rule
type CommissionRuleResponse struct {
	ID         uuid.UUID              `json:"id"`
	Role       *tenancy.Role          `json:"role,omitempty"`
	Percentage valueobject.Percentage `json:"percentage"`
	Active     bool                   `json:"active"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewCommissionRuleResponse converts a domain rule
func NewCommissionRuleResponse(r *domain.CommissionRule) CommissionRuleResponse {
	return CommissionRuleResponse{
		ID:         r.ID,
		Role:       r.Role,
		Percentage: r.Percentage,
		Active:     r.Active,
		CreatedAt:  r.CreatedAt,
	}
}

// NewCommissionRuleList converts a rule listing
func NewCommissionRuleList(rules []domain.CommissionRule) ListData[CommissionRuleResponse] {
	out := make([]CommissionRuleResponse, len(rules))
	for i := range rules {
		out[i] = NewCommissionRuleResponse(&rules[i])
	}
	return NewList(out)
}
