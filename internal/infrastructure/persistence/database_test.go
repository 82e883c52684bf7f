package persistence

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/propcore/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return &Database{DB: db}, mock
}

func TestNewDatabase_SQLiteMemory(t *testing.T) {
	database, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, Options{})
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.AutoMigrate())
	assert.True(t, database.DB.Migrator().HasTable("units"))
	assert.True(t, database.DB.Migrator().HasTable("ledger_entries"))

	stats, err := database.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections, "in-memory sqlite is pinned to one connection")
	assert.NoError(t, database.Ping())
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "mysql"}, Options{})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		mock.ExpectPing()
		assert.NoError(t, database.Ping())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection lost", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		assert.ErrorContains(t, database.Ping(), "connection refused")
	})
}

func TestDatabase_Close(t *testing.T) {
	database, mock := newMockDatabase(t)
	mock.ExpectClose()
	assert.NoError(t, database.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
