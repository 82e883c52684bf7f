// Package migration applies the SQL schema with golang-migrate. Migrations
// are read from an fs.FS, normally the embedded migrations package.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator runs schema migrations against a postgres database
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// Status is the schema version as recorded by golang-migrate
type Status struct {
	Version uint
	Dirty   bool
	Applied bool
}

// New creates a migrator reading *.sql files from the root of source
func New(db *sql.DB, source fs.FS, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	src, err := iofs.New(source, ".")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	m.Log = migrateLogger{logger.Sugar()}
	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration. No pending migration is not an error.
func (x *Migrator) Up() error {
	if err := ignoreNoChange(x.m.Up()); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return x.logStatus("schema up to date")
}

// Down rolls back every migration
func (x *Migrator) Down() error {
	if err := ignoreNoChange(x.m.Down()); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	x.logger.Info("schema rolled back")
	return nil
}

// Steps applies n migrations, rolling back when n is negative
func (x *Migrator) Steps(n int) error {
	if err := ignoreNoChange(x.m.Steps(n)); err != nil {
		return fmt.Errorf("migrate %d steps: %w", n, err)
	}
	return x.logStatus("migration steps applied")
}

// GoTo migrates up or down to version
func (x *Migrator) GoTo(version uint) error {
	if err := ignoreNoChange(x.m.Migrate(version)); err != nil {
		return fmt.Errorf("migrate to %d: %w", version, err)
	}
	return x.logStatus("migrated to version")
}

// Status reports the current version. A fresh database has Applied false.
func (x *Migrator) Status() (Status, error) {
	v, dirty, err := x.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read schema version: %w", err)
	}
	return Status{Version: v, Dirty: dirty, Applied: true}, nil
}

// Force records version without running anything, to recover a dirty schema
func (x *Migrator) Force(version int) error {
	x.logger.Warn("forcing schema version", zap.Int("version", version))
	if err := x.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and the database driver
func (x *Migrator) Close() error {
	srcErr, dbErr := x.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (x *Migrator) logStatus(msg string) error {
	st, err := x.Status()
	if err != nil {
		return err
	}
	x.logger.Info(msg, zap.Uint("version", st.Version), zap.Bool("dirty", st.Dirty))
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// migrateLogger adapts zap to migrate.Logger
type migrateLogger struct {
	l *zap.SugaredLogger
}

func (g migrateLogger) Printf(format string, v ...any) {
	g.l.Debugf(format, v...)
}

func (g migrateLogger) Verbose() bool {
	return false
}
