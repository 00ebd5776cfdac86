package database

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// ConnectionConfig holds database connection configuration
type ConnectionConfig struct {
	DatabasePath    string
	MigrationsPath  string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Logger          *logrus.Logger
}

// DefaultConnectionConfig returns a default configuration
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		DatabasePath:    "./data/catalog.db",
		MigrationsPath:  "./migrations",
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		Logger:          logrus.New(),
	}
}

// Connect opens the database, runs pending migrations and returns a session
// pool configured from the given settings.
func Connect(config *ConnectionConfig) (*Pool, error) {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	dbPath, err := filepath.Abs(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute database path: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	if config.MigrationsPath != "" {
		migrationsPath, err := filepath.Abs(config.MigrationsPath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to get absolute migrations path: %w", err)
		}

		runner := NewMigrationRunner(db, migrationsPath, config.Logger)
		if err := runner.Up(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	config.Logger.WithField("db_path", dbPath).Info("Database connection established")
	return NewPool(db, config.Logger), nil
}
