package database

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// MigrationRunner applies schema migrations to the database
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	logger         *logrus.Logger
}

// NewMigrationRunner creates a new migration runner
func NewMigrationRunner(db *sql.DB, migrationsPath string, logger *logrus.Logger) *MigrationRunner {
	if logger == nil {
		logger = logrus.New()
	}
	return &MigrationRunner{
		db:             db,
		migrationsPath: migrationsPath,
		logger:         logger,
	}
}

func (m *MigrationRunner) initMigrate() (*migrate.Migrate, error) {
	driver, err := sqlite3.WithInstance(m.db, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite3 driver: %w", err)
	}

	instance, err := migrate.NewWithDatabaseInstance(
		"file://"+m.migrationsPath,
		"sqlite3",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return instance, nil
}

// Up executes all pending migrations
func (m *MigrationRunner) Up() error {
	instance, err := m.initMigrate()
	if err != nil {
		return err
	}
	defer instance.Close()

	m.logger.Info("Running database migrations...")

	if err := instance.Up(); err != nil {
		if err == migrate.ErrNoChange {
			m.logger.Info("No pending migrations")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := instance.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("Migrations applied")

	return nil
}

// Down rolls back the most recent migration
func (m *MigrationRunner) Down() error {
	instance, err := m.initMigrate()
	if err != nil {
		return err
	}
	defer instance.Close()

	m.logger.Warn("Rolling back last migration...")

	if err := instance.Steps(-1); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	return nil
}

// Version reports the current schema version
func (m *MigrationRunner) Version() (uint, bool, error) {
	instance, err := m.initMigrate()
	if err != nil {
		return 0, false, err
	}
	defer instance.Close()

	version, dirty, err := instance.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	return version, dirty, err
}
