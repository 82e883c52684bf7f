//go:build integration

package migration

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/propcore/backend/internal/application/reservation"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/testutil"
	"github.com/propcore/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("propcore_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestMigrator_UpDownUp(t *testing.T) {
	dsn := startPostgres(t)
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()

	m, err := New(db, migrations.FS, zaptest.NewLogger(t))
	require.NoError(t, err)

	st, err := m.Status()
	require.NoError(t, err)
	assert.False(t, st.Applied)

	require.NoError(t, m.Up())
	require.NoError(t, m.Up())
	st, err = m.Status()
	require.NoError(t, err)
	assert.Equal(t, uint(1), st.Version)
	assert.False(t, st.Dirty)

	require.NoError(t, m.Down())
	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM information_schema.tables WHERE table_name = 'units'`).Scan(&n))
	assert.Zero(t, n)

	require.NoError(t, m.Up())
}

// Concurrent reservations of one unit against the real schema: exactly one
// wins, the rest see UNIT_UNAVAILABLE.
func TestMigratedSchema_ConcurrentReservations(t *testing.T) {
	dsn := startPostgres(t)
	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	m, err := New(sqlDB, migrations.FS, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	fx := testutil.FixtureFor(db)
	tenant := fx.Tenant(t, "race", "2", "3")
	admin := fx.Member(t, tenant, tenancy.RoleAdmin)
	unit := fx.Unit(t, admin, "R-1", "100000")
	svc := reservation.NewService(fx.Scope)

	const workers = 10
	clients := make([]tenancy.Context, workers)
	for i := range clients {
		clients[i] = fx.Member(t, tenant, tenancy.RoleClient)
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		won, lost  int
		unexpected []error
	)
	for _, client := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), client, reservation.CreateInput{UnitID: unit.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case shared.IsUnitUnavailable(err):
				lost++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, won)
	assert.Equal(t, workers-1, lost)
	assert.Equal(t, inventory.UnitStatusReserved, fx.LoadUnit(t, admin, unit.ID).Status)
}
