package persistence

import (
	"context"
	"time"

	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/reservation"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with tenant-scoped aggregates
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// CountLeads counts the tenant's leads
func (r *GormReportRepository) CountLeads(ctx context.Context, tc tenancy.Context) (int64, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.LeadModel{}, nil)
	if err != nil {
		return 0, err
	}
	var n int64
	err = q.Count(&n).Error
	return n, err
}

// ReservationStats counts reservations, active ones and those expiring within 24h
func (r *GormReportRepository) ReservationStats(ctx context.Context, tc tenancy.Context, now time.Time) (report.ReservationStats, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.ReservationModel{}, nil)
	if err != nil {
		return report.ReservationStats{}, err
	}
	var row struct {
		Total    int64
		Active   int64
		Expiring int64
	}
	err = q.Select(`
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN status = ? AND expires_at > ? AND expires_at <= ? THEN 1 ELSE 0 END), 0) AS expiring
		`,
		reservation.StatusActive,
		reservation.StatusActive, now, now.Add(24*time.Hour),
	).Scan(&row).Error
	if err != nil {
		return report.ReservationStats{}, err
	}
	return report.ReservationStats{Total: row.Total, Active: row.Active, ExpiringIn24h: row.Expiring}, nil
}

// SaleStats counts sales per status and sums closed volume
func (r *GormReportRepository) SaleStats(ctx context.Context, tc tenancy.Context) (report.SaleStats, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.SaleModel{}, nil)
	if err != nil {
		return report.SaleStats{}, err
	}
	var row struct {
		Open         int64
		Closed       int64
		Canceled     int64
		ClosedVolume decimal.Decimal
	}
	err = q.Select(`
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS open,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS closed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS canceled,
			COALESCE(SUM(CASE WHEN status = ? THEN price ELSE 0 END), 0) AS closed_volume
		`,
		sales.SaleStatusOpen, sales.SaleStatusClosed, sales.SaleStatusCanceled, sales.SaleStatusClosed,
	).Scan(&row).Error
	if err != nil {
		return report.SaleStats{}, err
	}
	return report.SaleStats{
		Open:         row.Open,
		Closed:       row.Closed,
		Canceled:     row.Canceled,
		ClosedVolume: row.ClosedVolume,
	}, nil
}

// PaymentStats counts and sums sale payments
func (r *GormReportRepository) PaymentStats(ctx context.Context, tc tenancy.Context) (report.PaymentStats, error) {
	count, total, err := r.countAndSum(ctx, tc, &models.PaymentModel{}, "amount")
	return report.PaymentStats{Count: count, Total: total}, err
}

// CommissionStats counts and sums commission snapshots
func (r *GormReportRepository) CommissionStats(ctx context.Context, tc tenancy.Context) (report.CommissionStats, error) {
	count, total, err := r.countAndSum(ctx, tc, &models.CommissionEntryModel{}, "amount")
	return report.CommissionStats{Count: count, Total: total}, err
}

func (r *GormReportRepository) countAndSum(ctx context.Context, tc tenancy.Context, model any, column string) (int64, decimal.Decimal, error) {
	q, err := scopedModel(ctx, r.db, tc, model, nil)
	if err != nil {
		return 0, decimal.Zero, err
	}
	var row struct {
		Count int64
		Total decimal.Decimal
	}
	if err := q.Select("COUNT(*) AS count, COALESCE(SUM(" + column + "), 0) AS total").Scan(&row).Error; err != nil {
		return 0, decimal.Zero, err
	}
	return row.Count, row.Total, nil
}

// LedgerTotals sums postings per entry type
func (r *GormReportRepository) LedgerTotals(ctx context.Context, tc tenancy.Context) (report.LedgerTotals, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.LedgerEntryModel{}, nil)
	if err != nil {
		return report.LedgerTotals{}, err
	}
	var rows []struct {
		Type  sales.LedgerEntryType
		Total decimal.Decimal
	}
	if err := q.Select("type, COALESCE(SUM(amount), 0) AS total").Group("type").Scan(&rows).Error; err != nil {
		return report.LedgerTotals{}, err
	}
	totals := report.LedgerTotals{
		PaymentReceived:  decimal.Zero,
		PlatformFee:      decimal.Zero,
		SellerCommission: decimal.Zero,
		NetToProject:     decimal.Zero,
	}
	for _, row := range rows {
		switch row.Type {
		case sales.LedgerPaymentReceived:
			totals.PaymentReceived = row.Total
		case sales.LedgerPlatformFee:
			totals.PlatformFee = row.Total
		case sales.LedgerSellerCommission:
			totals.SellerCommission = row.Total
		case sales.LedgerNetToProject:
			totals.NetToProject = row.Total
		}
	}
	return totals, nil
}

// CondoStats sums charged and paid condominium fees and counts overdue charges
func (r *GormReportRepository) CondoStats(ctx context.Context, tc tenancy.Context) (report.CondoStats, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.CondoChargeModel{}, nil)
	if err != nil {
		return report.CondoStats{}, err
	}
	var charges struct {
		Charged decimal.Decimal
		Overdue int64
	}
	err = q.Select(`
			COALESCE(SUM(amount + late_fee_amount), 0) AS charged,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS overdue
		`, condo.ChargeStatusOverdue).Scan(&charges).Error
	if err != nil {
		return report.CondoStats{}, err
	}

	_, paid, err := r.countAndSum(ctx, tc, &models.CondoPaymentModel{}, "amount")
	if err != nil {
		return report.CondoStats{}, err
	}
	return report.CondoStats{
		Charged:      charges.Charged,
		Paid:         paid,
		Outstanding:  valueobject.MaxDecimal(charges.Charged.Sub(paid), decimal.Zero),
		OverdueCount: charges.Overdue,
	}, nil
}

var _ report.Repository = (*GormReportRepository)(nil)
