// Package scheduler runs the periodic tenant sweeps: reservation expiry and
// condominium overdue marking. Each sweep visits active tenants one after
// the other, one transaction per tenant.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job names
const (
	JobExpireReservations = "expire_reservations"
	JobMarkOverdue        = "mark_overdue"
)

// TenantLister lists the tenants a sweep visits
type TenantLister interface {
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Sweep processes one tenant and returns how many records it changed
type Sweep func(ctx context.Context, tc tenancy.Context) (int, error)

// Job is a named sweep on a cron spec
type Job struct {
	Name  string
	Spec  string
	Sweep Sweep
}

// RunResult summarises one pass of a job over all tenants
type RunResult struct {
	Job      string
	Tenants  int
	Affected int
	Failed   int
	Duration time.Duration
}

// SystemContext is the context sweeps act under: no user, admin role
func SystemContext(tenantID uuid.UUID) tenancy.Context {
	return tenancy.NewContext(tenantID, nil, tenancy.RoleAdmin)
}

// Scheduler runs jobs on their cron specs
type Scheduler struct {
	cfg     config.SchedulerConfig
	tenants TenantLister
	logger  *zap.Logger
	jobs    map[string]Job
	order   []string

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New creates a scheduler. Register jobs before Start.
func New(cfg config.SchedulerConfig, tenants TenantLister, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cfg:     cfg,
		tenants: tenants,
		logger:  logger.Named("scheduler"),
		jobs:    make(map[string]Job),
	}
}

// Register adds a job. The cron expression is validated immediately.
func (s *Scheduler) Register(job Job) error {
	if _, err := cron.ParseStandard(job.Spec); err != nil {
		return fmt.Errorf("%w: job %s spec %q: %v", ErrInvalidConfig, job.Name, job.Spec, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[job.Name]; !dup {
		s.order = append(s.order, job.Name)
	}
	s.jobs[job.Name] = job
	return nil
}

// Jobs returns the registered job names in registration order
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Start schedules every registered job. Overlapping runs of the same job
// are skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	log := cronLogger{s.logger.Sugar()}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)
	for _, name := range s.order {
		job := s.jobs[name]
		if _, err := c.AddFunc(job.Spec, func() {
			s.wg.Add(1)
			defer s.wg.Done()
			if _, err := s.Run(ctx, job.Name); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("scheduled job failed", zap.String("job", job.Name), zap.Error(err))
			}
		}); err != nil {
			cancel()
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	c.Start()
	s.cron = c
	s.cancel = cancel
	s.running = true
	s.logger.Info("scheduler started", zap.Strings("jobs", s.order))
	return nil
}

// Stop halts scheduling and waits for running jobs, or until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	c, cancel := s.cron, s.cancel
	s.mu.Unlock()

	stopped := c.Stop()
	cancel()

	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes one pass of the named job over every active tenant. A tenant
// that fails is logged and counted; the pass moves on to the next.
func (s *Scheduler) Run(ctx context.Context, name string) (RunResult, error) {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return RunResult{}, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	started := time.Now()
	result := RunResult{Job: name}
	ids, err := s.tenants.ListActiveIDs(ctx)
	if err != nil {
		return result, fmt.Errorf("list tenants: %w", err)
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if i > 0 && s.cfg.TenantPause > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(s.cfg.TenantPause):
			}
		}

		n, err := s.runTenant(ctx, job, id)
		result.Tenants++
		if err != nil {
			result.Failed++
			s.logger.Warn("sweep failed for tenant",
				zap.String("job", name),
				zap.String("tenant_id", id.String()),
				zap.Error(err))
			continue
		}
		result.Affected += n
	}

	result.Duration = time.Since(started)
	s.logger.Info("sweep finished",
		zap.String("job", name),
		zap.Int("tenants", result.Tenants),
		zap.Int("affected", result.Affected),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration))
	return result, nil
}

func (s *Scheduler) runTenant(ctx context.Context, job Job, tenantID uuid.UUID) (int, error) {
	if s.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.JobTimeout)
		defer cancel()
	}
	return job.Sweep(ctx, SystemContext(tenantID))
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
