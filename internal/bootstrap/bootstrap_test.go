package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/propcore/backend/internal/infrastructure/config"
	"github.com/propcore/backend/internal/infrastructure/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "propcore", Env: "test", Port: "0"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"},
		Security: config.SecurityConfig{PrivilegedSecret: "bootstrap-test-secret", PrivilegedTTL: 15 * time.Minute},
		Scheduler: config.SchedulerConfig{
			ExpireSpec:  "*/5 * * * *",
			OverdueSpec: "0 3 * * *",
			JobTimeout:  time.Minute,
		},
		Reports: config.ReportsConfig{CacheTTL: time.Minute},
	}
}

func TestNew_WiresServicesWithoutRedis(t *testing.T) {
	app, err := New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	assert.Nil(t, app.Redis)
	assert.NotNil(t, app.Cache)
	assert.NotNil(t, app.Tokens)
	assert.NotNil(t, app.Access)
	assert.NotNil(t, app.Reports)
	assert.NoError(t, app.DB.Ping())

	s, err := app.Scheduler()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{scheduler.JobExpireReservations, scheduler.JobMarkOverdue}, s.Jobs())
}

func TestNew_PrivilegedModeOptional(t *testing.T) {
	cfg := testConfig()
	cfg.Security.PrivilegedSecret = ""

	app, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	assert.Nil(t, app.Tokens)
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	cfg := testConfig()
	cfg.Scheduler.ExpireSpec = "every now and then"

	app, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	_, err = app.Scheduler()
	assert.Error(t, err)
}
