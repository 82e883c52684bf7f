package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/config"
	"github.com/propcore/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, Options{})
	require.NoError(t, err)
	require.NoError(t, database.DB.AutoMigrate(models.All()...))
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

func newTestTenant(t *testing.T, db *gorm.DB, slug string) tenancy.Context {
	t.Helper()
	tn, err := tenancy.NewTenant("Tenant "+slug, slug, valueobject.MustPercentage("2"), valueobject.MustPercentage("3"), 48)
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db).Save(context.Background(), tn))
	uid := uuid.New()
	return tenancy.NewContext(tn.ID, &uid, tenancy.RoleAdmin)
}
