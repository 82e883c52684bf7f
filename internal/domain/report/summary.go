// Package report holds read models produced by the reporting aggregator.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// Summary is the tenant-wide commercial rollup
type Summary struct {
	TenantID     string           `json:"tenant_id"`
	GeneratedAt  time.Time        `json:"generated_at"`
	Leads        int64            `json:"leads"`
	Reservations ReservationStats `json:"reservations"`
	Sales        SaleStats        `json:"sales"`
	Payments     PaymentStats     `json:"payments"`
	Ledger       LedgerTotals     `json:"ledger"`
	Commissions  CommissionStats  `json:"commissions"`
	Condo        CondoStats       `json:"condo"`
}

// ReservationStats counts reservations
type ReservationStats struct {
	Total         int64 `json:"total"`
	Active        int64 `json:"active"`
	ExpiringIn24h int64 `json:"expiring_in_24h"` // ACTIVE and expiring within a day
}

// SaleStats counts sales by status
type SaleStats struct {
	Open         int64           `json:"open"`
	Closed       int64           `json:"closed"`
	Canceled     int64           `json:"canceled"`
	ClosedVolume decimal.Decimal `json:"closed_volume"` // Sum of CLOSED sale prices
}

// PaymentStats totals confirmed payments
type PaymentStats struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// LedgerTotals sums postings by type
type LedgerTotals struct {
	PaymentReceived  decimal.Decimal `json:"payment_received"`
	PlatformFee      decimal.Decimal `json:"platform_fee"`
	SellerCommission decimal.Decimal `json:"seller_commission"`
	NetToProject     decimal.Decimal `json:"net_to_project"`
}

// Reconciles reports whether received equals the sum of its parts
func (l LedgerTotals) Reconciles() bool {
	return l.PaymentReceived.Equal(l.PlatformFee.Add(l.SellerCommission).Add(l.NetToProject))
}

// CommissionStats totals commission entries
type CommissionStats struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// CondoStats totals condominium billing
type CondoStats struct {
	Charged      decimal.Decimal `json:"charged"`     // Sum of charge amounts plus late fees
	Paid         decimal.Decimal `json:"paid"`        // Sum of charge payments
	Outstanding  decimal.Decimal `json:"outstanding"` // max(0, Charged - Paid)
	OverdueCount int64           `json:"overdue_count"`
}

// Repository runs the aggregate queries behind a summary
type Repository interface {
	CountLeads(ctx context.Context, tc tenancy.Context) (int64, error)
	ReservationStats(ctx context.Context, tc tenancy.Context, now time.Time) (ReservationStats, error)
	SaleStats(ctx context.Context, tc tenancy.Context) (SaleStats, error)
	PaymentStats(ctx context.Context, tc tenancy.Context) (PaymentStats, error)
	LedgerTotals(ctx context.Context, tc tenancy.Context) (LedgerTotals, error)
	CommissionStats(ctx context.Context, tc tenancy.Context) (CommissionStats, error)
	CondoStats(ctx context.Context, tc tenancy.Context) (CondoStats, error)
}

// Cache holds computed summaries per tenant. It is never an authority: a
// miss or an error falls through to the database.
type Cache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*Summary, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, summary *Summary) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}
