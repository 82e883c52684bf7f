package scheduler

import (
	"context"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/condo"
	"github.com/propcore/backend/internal/application/reservation"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/tenancy"
)

// ScopeTenantLister lists active tenants through a unit of work
type ScopeTenantLister struct {
	Scope unitofwork.Scope
}

// ListActiveIDs implements TenantLister
func (l ScopeTenantLister) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := l.Scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		ids, err = repos.Tenants().ListActiveIDs(ctx)
		return err
	})
	return ids, err
}

// ExpireReservationsJob expires lapsed reservations
func ExpireReservationsJob(spec string, svc *reservation.Service) Job {
	return Job{
		Name: JobExpireReservations,
		Spec: spec,
		Sweep: func(ctx context.Context, tc tenancy.Context) (int, error) {
			res, err := svc.Expire(ctx, tc)
			return res.Count, err
		},
	}
}

// MarkOverdueJob flags past-due condominium charges
func MarkOverdueJob(spec string, svc *condo.Service) Job {
	return Job{
		Name: JobMarkOverdue,
		Spec: spec,
		Sweep: func(ctx context.Context, tc tenancy.Context) (int, error) {
			res, err := svc.MarkOverdue(ctx, tc)
			return res.Count, err
		},
	}
}
