package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/reservation"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReservationRepository implements reservation.Repository using GORM
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindByID finds a reservation by ID within the tenant
func (r *GormReservationRepository) FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*reservation.Reservation, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	var model models.ReservationModel
	if err := q.First(&model).Error; err != nil {
		return nil, notFound(err, "Reservation")
	}
	return model.ToDomain(), nil
}

// List returns reservations ordered newest first
func (r *GormReservationRepository) List(ctx context.Context, tc tenancy.Context, filter reservation.Filter) ([]reservation.Reservation, error) {
	eq := tenancy.Filter{}
	if filter.Status != nil {
		eq["status"] = *filter.Status
	}
	if filter.UserID != nil {
		eq["user_id"] = *filter.UserID
	}
	if filter.UnitID != nil {
		eq["unit_id"] = *filter.UnitID
	}
	q, err := scoped(ctx, r.db, tc, eq)
	if err != nil {
		return nil, err
	}
	return r.find(q.Order("created_at DESC"))
}

// FindExpirable returns ACTIVE reservations whose expiry is at or before now
func (r *GormReservationRepository) FindExpirable(ctx context.Context, tc tenancy.Context, now time.Time) ([]reservation.Reservation, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"status": reservation.StatusActive})
	if err != nil {
		return nil, err
	}
	return r.find(q.Where("expires_at <= ?", now).Order("expires_at ASC"))
}

func (r *GormReservationRepository) find(q *gorm.DB) ([]reservation.Reservation, error) {
	var rows []models.ReservationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]reservation.Reservation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountActiveForUnit counts ACTIVE reservations holding a unit
func (r *GormReservationRepository) CountActiveForUnit(ctx context.Context, tc tenancy.Context, unitID uuid.UUID) (int64, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.ReservationModel{}, tenancy.Filter{
		"unit_id": unitID,
		"status":  reservation.StatusActive,
	})
	if err != nil {
		return 0, err
	}
	var n int64
	err = q.Count(&n).Error
	return n, err
}

// Create inserts a reservation
func (r *GormReservationRepository) Create(ctx context.Context, tc tenancy.Context, res *reservation.Reservation) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.ReservationModel{}
	model.FromDomain(res)
	return q.Create(model).Error
}

// TransitionStatus sets status only when the current status is from
func (r *GormReservationRepository) TransitionStatus(ctx context.Context, tc tenancy.Context, id uuid.UUID, to, from reservation.Status) (bool, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.ReservationModel{}, tenancy.Filter{"id": id, "status": from})
	if err != nil {
		return false, err
	}
	res := q.Updates(map[string]any{"status": to, "version": gorm.Expr("version + 1")})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkConverted sets CONVERTED regardless of prior status
func (r *GormReservationRepository) MarkConverted(ctx context.Context, tc tenancy.Context, id uuid.UUID) (int64, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.ReservationModel{}, tenancy.Filter{"id": id})
	if err != nil {
		return 0, err
	}
	res := q.Updates(map[string]any{"status": reservation.StatusConverted, "version": gorm.Expr("version + 1")})
	return res.RowsAffected, res.Error
}

var _ reservation.Repository = (*GormReservationRepository)(nil)
