package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// LeadModel is the persistence model for a lead
type LeadModel struct {
	TenantAggregateModel
	UserID   *uuid.UUID `gorm:"type:uuid;index"`
	UnitID   *uuid.UUID `gorm:"type:uuid;index"`
	FullName string     `gorm:"type:varchar(200);not null"`
	Email    string     `gorm:"type:varchar(200)"`
	Phone    string     `gorm:"type:varchar(50)"`
	Status   string     `gorm:"type:varchar(20);not null;default:'NEW'"`
	Source   string     `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the persistence model to a domain Lead
func (m *LeadModel) ToDomain() *sales.Lead {
	return &sales.Lead{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		UserID:              m.UserID,
		UnitID:              m.UnitID,
		FullName:            m.FullName,
		Email:               m.Email,
		Phone:               m.Phone,
		Status:              m.Status,
		Source:              m.Source,
	}
}

// FromDomain populates the persistence model from a domain Lead
func (m *LeadModel) FromDomain(l *sales.Lead) {
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	m.UserID = l.UserID
	m.UnitID = l.UnitID
	m.FullName = l.FullName
	m.Email = l.Email
	m.Phone = l.Phone
	m.Status = l.Status
	m.Source = l.Source
}

// SaleModel is the persistence model for a sale
type SaleModel struct {
	TenantAggregateModel
	UnitID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	LeadID        *uuid.UUID       `gorm:"type:uuid;index"`
	ReservationID *uuid.UUID       `gorm:"type:uuid;index"`
	BuyerID       *uuid.UUID       `gorm:"type:uuid;index"`
	SellerID      *uuid.UUID       `gorm:"type:uuid;index"`
	Price         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Status        sales.SaleStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	ClosedAt      *time.Time
	Notes         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *sales.Sale {
	return &sales.Sale{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		UnitID:              m.UnitID,
		LeadID:              m.LeadID,
		ReservationID:       m.ReservationID,
		BuyerID:             m.BuyerID,
		SellerID:            m.SellerID,
		Price:               m.Price,
		Status:              m.Status,
		ClosedAt:            m.ClosedAt,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Sale
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.UnitID = s.UnitID
	m.LeadID = s.LeadID
	m.ReservationID = s.ReservationID
	m.BuyerID = s.BuyerID
	m.SellerID = s.SellerID
	m.Price = s.Price
	m.Status = s.Status
	m.ClosedAt = s.ClosedAt
	m.Notes = s.Notes
}

// PaymentPlanModel is the persistence model for a payment plan header
type PaymentPlanModel struct {
	TenantAggregateModel
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title       string          `gorm:"type:varchar(200);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StartDate   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentPlanModel) TableName() string {
	return "payment_plans"
}

// ToDomain converts the plan header to a domain PaymentPlan without installments
func (m *PaymentPlanModel) ToDomain() *sales.PaymentPlan {
	return &sales.PaymentPlan{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SaleID:              m.SaleID,
		Title:               m.Title,
		TotalAmount:         m.TotalAmount,
		StartDate:           m.StartDate,
	}
}

// FromDomain populates the plan header from a domain PaymentPlan
func (m *PaymentPlanModel) FromDomain(p *sales.PaymentPlan) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.SaleID = p.SaleID
	m.Title = p.Title
	m.TotalAmount = p.TotalAmount
	m.StartDate = p.StartDate
}

// InstallmentModel is the persistence model for one scheduled installment
type InstallmentModel struct {
	TenantAggregateModel
	PlanID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	DueDate    time.Time               `gorm:"not null"`
	Amount     decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	PaidAmount decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Status     sales.InstallmentStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment
func (m *InstallmentModel) ToDomain() *sales.Installment {
	return &sales.Installment{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		PlanID:              m.PlanID,
		DueDate:             m.DueDate,
		Amount:              m.Amount,
		PaidAmount:          m.PaidAmount,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Installment
func (m *InstallmentModel) FromDomain(i *sales.Installment) {
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	m.PlanID = i.PlanID
	m.DueDate = i.DueDate
	m.Amount = i.Amount
	m.PaidAmount = i.PaidAmount
	m.Status = i.Status
}

// PaymentModel is the persistence model for a sale payment. Rows are never updated.
type PaymentModel struct {
	TenantAggregateModel
	SaleID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	InstallmentID  *uuid.UUID          `gorm:"type:uuid;index"`
	RegisteredByID *uuid.UUID          `gorm:"type:uuid"`
	Amount         decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Method         string              `gorm:"type:varchar(64)"`
	Reference      string              `gorm:"type:varchar(120)"`
	Status         sales.PaymentStatus `gorm:"type:varchar(20);not null;default:'CONFIRMED'"`
	Notes          string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *sales.Payment {
	return &sales.Payment{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SaleID:              m.SaleID,
		InstallmentID:       m.InstallmentID,
		RegisteredByID:      m.RegisteredByID,
		Amount:              m.Amount,
		Method:              m.Method,
		Reference:           m.Reference,
		Status:              m.Status,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *sales.Payment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.SaleID = p.SaleID
	m.InstallmentID = p.InstallmentID
	m.RegisteredByID = p.RegisteredByID
	m.Amount = p.Amount
	m.Method = p.Method
	m.Reference = p.Reference
	m.Status = p.Status
	m.Notes = p.Notes
}

// CommissionRuleModel is the persistence model for a commission rule
type CommissionRuleModel struct {
	TenantAggregateModel
	Role       *string         `gorm:"type:varchar(20)"`
	Percentage decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Active     bool            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CommissionRuleModel) TableName() string {
	return "commission_rules"
}

// ToDomain converts the persistence model to a domain CommissionRule
func (m *CommissionRuleModel) ToDomain() (*sales.CommissionRule, error) {
	pct, err := valueobject.NewPercentage(m.Percentage)
	if err != nil {
		return nil, err
	}
	var role *tenancy.Role
	if m.Role != nil {
		r := tenancy.Role(*m.Role)
		role = &r
	}
	return &sales.CommissionRule{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Role:                role,
		Percentage:          pct,
		Active:              m.Active,
	}, nil
}

// FromDomain populates the persistence model from a domain CommissionRule
func (m *CommissionRuleModel) FromDomain(r *sales.CommissionRule) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	if r.Role != nil {
		s := r.Role.String()
		m.Role = &s
	}
	m.Percentage = r.Percentage.Decimal()
	m.Active = r.Active
}

// CommissionEntryModel is the persistence model for a commission snapshot
type CommissionEntryModel struct {
	TenantAggregateModel
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	RuleID     *uuid.UUID      `gorm:"type:uuid"`
	Percentage decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (CommissionEntryModel) TableName() string {
	return "commission_entries"
}

// FromDomain populates the persistence model from a domain CommissionEntry
func (m *CommissionEntryModel) FromDomain(e *sales.CommissionEntry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.SaleID = e.SaleID
	m.PaymentID = e.PaymentID
	m.SellerID = e.SellerID
	m.RuleID = e.RuleID
	m.Percentage = e.Percentage.Decimal()
	m.Amount = e.Amount
}

// LedgerEntryModel is the persistence model for a ledger posting. Rows are append-only.
type LedgerEntryModel struct {
	TenantAggregateModel
	SaleID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	PaymentID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Type      sales.LedgerEntryType `gorm:"type:varchar(30);not null;index"`
	Amount    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Notes     string                `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() *sales.LedgerEntry {
	return &sales.LedgerEntry{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SaleID:              m.SaleID,
		PaymentID:           m.PaymentID,
		Type:                m.Type,
		Amount:              m.Amount,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry
func (m *LedgerEntryModel) FromDomain(e *sales.LedgerEntry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.SaleID = e.SaleID
	m.PaymentID = e.PaymentID
	m.Type = e.Type
	m.Amount = e.Amount
	m.Notes = e.Notes
}

// AssetModel is the persistence model for a document ownership record
type AssetModel struct {
	TenantAggregateModel
	SaleID     *uuid.UUID      `gorm:"type:uuid;index"`
	Type       sales.AssetType `gorm:"type:varchar(20);not null"`
	Title      string          `gorm:"type:varchar(200)"`
	StorageKey string          `gorm:"type:varchar(500);not null"`
}

// TableName returns the table name for GORM
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the persistence model to a domain Asset
func (m *AssetModel) ToDomain() *sales.Asset {
	return &sales.Asset{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SaleID:              m.SaleID,
		Type:                m.Type,
		Title:               m.Title,
		StorageKey:          m.StorageKey,
	}
}

// FromDomain populates the persistence model from a domain Asset
func (m *AssetModel) FromDomain(a *sales.Asset) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.SaleID = a.SaleID
	m.Type = a.Type
	m.Title = a.Title
	m.StorageKey = a.StorageKey
}
