package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Action names an audited operation
type Action string

const (
	ActionReservationCreated     Action = "reservation.created"
	ActionReservationsExpired    Action = "reservation.expired.batch"
	ActionReservationCanceled    Action = "reservation.canceled"
	ActionSaleCreated            Action = "sale.created"
	ActionSaleClosed             Action = "sale.closed"
	ActionSaleDocsAttached       Action = "sale.docs.attached"
	ActionPaymentPlanCreated     Action = "sale.payment_plan.created"
	ActionPaymentCreated         Action = "payment.created"
	ActionCommissionRuleCreated  Action = "root.commission_rule.created"
	ActionUnitStatusUpdated      Action = "inventory.unit.status.updated"
	ActionUnitsImported          Action = "inventory.units.imported"
	ActionCondoPlanCreated       Action = "condo.plan.created"
	ActionCondoChargesGenerated  Action = "condo.charges.generated"
	ActionCondoPaymentRegistered Action = "condo.payment.registered"
	ActionCondoChargesOverdue    Action = "condo.charges.overdue"
	ActionPrivilegedModeEnabled  Action = "security.privileged_mode.enabled"
)

// Metadata is the closed set of per-action payloads. Each variant fixes
// its action name, so an entry's action and metadata shape cannot disagree.
type Metadata interface {
	Action() Action
}

type ReservationCreated struct {
	UnitID    uuid.UUID `json:"unitId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (ReservationCreated) Action() Action { return ActionReservationCreated }

type ReservationsExpired struct {
	Count int `json:"count"`
}

func (ReservationsExpired) Action() Action { return ActionReservationsExpired }

type ReservationCanceled struct {
	Reason string `json:"reason,omitempty"`
}

func (ReservationCanceled) Action() Action { return ActionReservationCanceled }

type SaleCreated struct {
	UnitID uuid.UUID       `json:"unitId"`
	Price  decimal.Decimal `json:"price"`
}

func (SaleCreated) Action() Action { return ActionSaleCreated }

type SaleClosed struct {
	Rows int64 `json:"rows"`
}

func (SaleClosed) Action() Action { return ActionSaleClosed }

type SaleDocsAttached struct {
	AssetIDs []uuid.UUID `json:"assetIds"`
	Affected int64       `json:"affected"`
}

func (SaleDocsAttached) Action() Action { return ActionSaleDocsAttached }

type PaymentPlanCreated struct {
	SaleID       uuid.UUID       `json:"saleId"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Installments int             `json:"installments"`
}

func (PaymentPlanCreated) Action() Action { return ActionPaymentPlanCreated }

type PaymentCreated struct {
	SaleID      uuid.UUID       `json:"saleId"`
	Amount      decimal.Decimal `json:"amount"`
	LedgerCount int             `json:"ledgerCount"`
}

func (PaymentCreated) Action() Action { return ActionPaymentCreated }

type CommissionRuleCreated struct {
	Role       string          `json:"role,omitempty"`
	Percentage decimal.Decimal `json:"percentage"`
	Active     bool            `json:"active"`
}

func (CommissionRuleCreated) Action() Action { return ActionCommissionRuleCreated }

type UnitStatusUpdated struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (UnitStatusUpdated) Action() Action { return ActionUnitStatusUpdated }

type UnitsImported struct {
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

func (UnitsImported) Action() Action { return ActionUnitsImported }

type CondoPlanCreated struct {
	MonthlyFee decimal.Decimal `json:"monthlyFee"`
	LateFeePct decimal.Decimal `json:"lateFeePct"`
}

func (CondoPlanCreated) Action() Action { return ActionCondoPlanCreated }

type CondoChargesGenerated struct {
	PlanID  uuid.UUID `json:"planId"`
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Count   int       `json:"count"`
	Skipped int       `json:"skipped"`
}

func (CondoChargesGenerated) Action() Action { return ActionCondoChargesGenerated }

type CondoPaymentRegistered struct {
	ChargeID uuid.UUID       `json:"chargeId"`
	Amount   decimal.Decimal `json:"amount"`
}

func (CondoPaymentRegistered) Action() Action { return ActionCondoPaymentRegistered }

type CondoChargesOverdue struct {
	Count int `json:"count"`
}

func (CondoChargesOverdue) Action() Action { return ActionCondoChargesOverdue }

type PrivilegedModeEnabled struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

func (PrivilegedModeEnabled) Action() Action { return ActionPrivilegedModeEnabled }

// Custom carries free-form metadata for actions without a dedicated shape
type Custom struct {
	Name   Action         `json:"-"`
	Fields map[string]any `json:"fields,omitempty"`
}

func (c Custom) Action() Action { return c.Name }
