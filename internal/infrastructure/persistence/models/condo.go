package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CondoPlanModel is the persistence model for a condominium fee plan
type CondoPlanModel struct {
	TenantAggregateModel
	Title      string          `gorm:"type:varchar(200);not null"`
	MonthlyFee decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LateFeePct decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active     bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CondoPlanModel) TableName() string {
	return "condo_fee_plans"
}

// ToDomain converts the persistence model to a domain Plan
func (m *CondoPlanModel) ToDomain() (*condo.Plan, error) {
	lateFee, err := valueobject.NewPercentage(m.LateFeePct)
	if err != nil {
		return nil, err
	}
	return &condo.Plan{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Title:               m.Title,
		MonthlyFee:          m.MonthlyFee,
		LateFeePct:          lateFee,
		Active:              m.Active,
	}, nil
}

// FromDomain populates the persistence model from a domain Plan
func (m *CondoPlanModel) FromDomain(p *condo.Plan) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Title = p.Title
	m.MonthlyFee = p.MonthlyFee
	m.LateFeePct = p.LateFeePct.Decimal()
	m.Active = p.Active
}

// OwnerAccountModel is the persistence model for an owner account
type OwnerAccountModel struct {
	TenantAggregateModel
	UserID   *uuid.UUID `gorm:"type:uuid;index"`
	UnitID   *uuid.UUID `gorm:"type:uuid;index"`
	FullName string     `gorm:"type:varchar(200);not null"`
	Email    string     `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (OwnerAccountModel) TableName() string {
	return "owner_accounts"
}

// ToDomain converts the persistence model to a domain OwnerAccount
func (m *OwnerAccountModel) ToDomain() *condo.OwnerAccount {
	return &condo.OwnerAccount{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		UserID:              m.UserID,
		UnitID:              m.UnitID,
		FullName:            m.FullName,
		Email:               m.Email,
	}
}

// FromDomain populates the persistence model from a domain OwnerAccount
func (m *OwnerAccountModel) FromDomain(a *condo.OwnerAccount) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.UserID = a.UserID
	m.UnitID = a.UnitID
	m.FullName = a.FullName
	m.Email = a.Email
}

// CondoChargeModel is the persistence model for a monthly charge.
// One charge exists per plan, account and period.
type CondoChargeModel struct {
	AggregateModel
	TenantID       uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_condo_charge_period,priority:1"`
	PlanID         uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_condo_charge_period,priority:2"`
	OwnerAccountID uuid.UUID          `gorm:"type:uuid;not null;index;uniqueIndex:idx_condo_charge_period,priority:3"`
	PeriodYear     int                `gorm:"not null;uniqueIndex:idx_condo_charge_period,priority:4"`
	PeriodMonth    int                `gorm:"not null;uniqueIndex:idx_condo_charge_period,priority:5"`
	UnitID         uuid.UUID          `gorm:"type:uuid;not null;index"`
	DueDate        time.Time          `gorm:"not null;index"`
	Amount         decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	LateFeeAmount  decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount     decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Status         condo.ChargeStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
}

// TableName returns the table name for GORM
func (CondoChargeModel) TableName() string {
	return "condo_fee_charges"
}

// ToDomain converts the persistence model to a domain Charge without payments
func (m *CondoChargeModel) ToDomain() *condo.Charge {
	return &condo.Charge{
		TenantAggregateRoot: tenantRoot(m.AggregateModel, m.TenantID),
		PlanID:              m.PlanID,
		UnitID:              m.UnitID,
		OwnerAccountID:      m.OwnerAccountID,
		Period:              condo.Period{Year: m.PeriodYear, Month: m.PeriodMonth},
		DueDate:             m.DueDate,
		Amount:              m.Amount,
		LateFeeAmount:       m.LateFeeAmount,
		PaidAmount:          m.PaidAmount,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Charge
func (m *CondoChargeModel) FromDomain(c *condo.Charge) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.TenantID = c.TenantID
	m.PlanID = c.PlanID
	m.UnitID = c.UnitID
	m.OwnerAccountID = c.OwnerAccountID
	m.PeriodYear = c.Period.Year
	m.PeriodMonth = c.Period.Month
	m.DueDate = c.DueDate
	m.Amount = c.Amount
	m.LateFeeAmount = c.LateFeeAmount
	m.PaidAmount = c.PaidAmount
	m.Status = c.Status
}

// CondoPaymentModel is the persistence model for a charge payment
type CondoPaymentModel struct {
	TenantAggregateModel
	ChargeID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method    string          `gorm:"type:varchar(64)"`
	Reference string          `gorm:"type:varchar(120)"`
	PaidAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CondoPaymentModel) TableName() string {
	return "condo_fee_payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *CondoPaymentModel) ToDomain() *condo.Payment {
	return &condo.Payment{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		ChargeID:            m.ChargeID,
		Amount:              m.Amount,
		Method:              m.Method,
		Reference:           m.Reference,
		PaidAt:              m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *CondoPaymentModel) FromDomain(p *condo.Payment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.ChargeID = p.ChargeID
	m.Amount = p.Amount
	m.Method = p.Method
	m.Reference = p.Reference
	m.PaidAt = p.PaidAt
}
