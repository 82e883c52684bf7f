// Package bootstrap wires configuration, storage, caches and application
// services into the graph shared by the server and the ops CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/propcore/backend/internal/application/access"
	"github.com/propcore/backend/internal/application/condo"
	"github.com/propcore/backend/internal/application/inventory"
	"github.com/propcore/backend/internal/application/report"
	"github.com/propcore/backend/internal/application/reservation"
	"github.com/propcore/backend/internal/application/sales"
	domainreport "github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/infrastructure/auth"
	"github.com/propcore/backend/internal/infrastructure/cache"
	"github.com/propcore/backend/internal/infrastructure/config"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/infrastructure/persistence"
	"github.com/propcore/backend/internal/infrastructure/scheduler"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Telemetry *telemetry.Providers
	DB        *persistence.Database
	Scope     *persistence.GormTransactionScope
	Redis     *redis.Client
	Cache     domainreport.Cache
	Tokens    *auth.PrivilegedTokenService

	Access       *access.Service
	Inventory    *inventory.Service
	Reservations *reservation.Service
	Sales        *sales.Service
	Condo        *condo.Service
	Reports      *report.Service
}

// NewLogger builds the base zap logger from the log section
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// New connects everything. On error the parts already opened are closed.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (app *App, err error) {
	app = &App{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			_ = app.Close(context.Background())
			app = nil
		}
	}()

	app.Telemetry, err = telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		ExportLogs:        cfg.Telemetry.ExportLogs,
		Profiling: telemetry.ProfilerConfig{
			Enabled:           cfg.Telemetry.Profiling.Enabled,
			ServerAddress:     cfg.Telemetry.Profiling.ServerAddress,
			BasicAuthUser:     cfg.Telemetry.Profiling.BasicAuthUser,
			BasicAuthPassword: cfg.Telemetry.Profiling.BasicAuthPassword,
			ProfileTypes:      cfg.Telemetry.Profiling.ProfileTypes,
			SpanProfiles:      cfg.Telemetry.Profiling.SpanProfiles,
		},
	}, log)
	if err != nil {
		return app, fmt.Errorf("setup telemetry: %w", err)
	}
	if cfg.Telemetry.ExportLogs {
		app.Logger = app.Telemetry.BridgeLogger(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
	}

	app.DB, err = persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger: app.Logger,
		Tracing: telemetry.DBTracingConfig{
			Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		},
	})
	if err != nil {
		return app, err
	}
	if cfg.Database.Driver == config.DriverSQLite {
		if err := app.DB.AutoMigrate(); err != nil {
			return app, err
		}
	}
	app.Scope = persistence.NewGormTransactionScope(app.DB.DB)

	if cfg.Redis.Enabled() {
		app.Redis, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			app.Logger.Warn("redis unavailable, falling back to in-process cache", zap.Error(err))
			app.Redis, err = nil, nil
		}
	}
	app.Cache = cache.NewSummaryCache(app.Redis, cfg.Reports.CacheTTL, app.Logger)

	var tokens access.TokenService
	if cfg.Security.PrivilegedSecret != "" {
		app.Tokens, err = auth.NewPrivilegedTokenService(cfg.Security)
		if err != nil {
			return app, err
		}
		if app.Redis != nil {
			app.Tokens.SetRevocationList(auth.NewRedisRevocationList(app.Redis))
		} else {
			app.Tokens.SetRevocationList(auth.NewInMemoryRevocationList())
		}
		tokens = app.Tokens
	} else {
		app.Logger.Warn("security.privileged_secret is empty, privileged mode disabled")
	}

	metrics, err := telemetry.NewCommerceMetrics(telemetry.DefaultMeter())
	if err != nil {
		return app, fmt.Errorf("create commerce metrics: %w", err)
	}

	app.Access = access.NewService(app.Scope, tokens)
	app.Access.SetCache(app.Cache)

	app.Inventory = inventory.NewService(app.Scope)
	app.Inventory.SetCache(app.Cache)

	app.Reservations = reservation.NewService(app.Scope)
	app.Reservations.SetCache(app.Cache)
	app.Reservations.SetCommerceMetrics(metrics)

	app.Sales = sales.NewService(app.Scope)
	app.Sales.SetCache(app.Cache)
	app.Sales.SetCommerceMetrics(metrics)

	app.Condo = condo.NewService(app.Scope)
	app.Condo.SetCache(app.Cache)
	app.Condo.SetCommerceMetrics(metrics)

	app.Reports = report.NewService(app.Scope, app.Cache)
	return app, nil
}

// Scheduler builds the sweep scheduler with both jobs registered
func (a *App) Scheduler() (*scheduler.Scheduler, error) {
	s := scheduler.New(a.Config.Scheduler, scheduler.ScopeTenantLister{Scope: a.Scope}, a.Logger)
	if err := s.Register(scheduler.ExpireReservationsJob(a.Config.Scheduler.ExpireSpec, a.Reservations)); err != nil {
		return nil, err
	}
	if err := s.Register(scheduler.MarkOverdueJob(a.Config.Scheduler.OverdueSpec, a.Condo)); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases every connection, in reverse order of opening
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Telemetry != nil {
		errs = append(errs, a.Telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
