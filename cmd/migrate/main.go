package main

import (
	"database/sql"
	"flag"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"product-catalog-api/internal/database"
)

func main() {
	var (
		dbPath         = flag.String("db", "./data/catalog.db", "Database file path")
		migrationsPath = flag.String("migrations", "./migrations", "Migrations directory path")
		action         = flag.String("action", "up", "Migration action: up, down, version")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	absDBPath, err := filepath.Abs(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute database path")
	}

	absMigrationsPath, err := filepath.Abs(*migrationsPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute migrations path")
	}

	logger.WithFields(logrus.Fields{
		"db_path":         absDBPath,
		"migrations_path": absMigrationsPath,
		"action":          *action,
	}).Info("Starting migration tool")

	db, err := sql.Open("sqlite3", absDBPath+"?_foreign_keys=on")
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()

	runner := database.NewMigrationRunner(db, absMigrationsPath, logger)

	switch *action {
	case "up":
		if err := runner.Up(); err != nil {
			logger.WithError(err).Fatal("Migration failed")
		}
	case "down":
		if err := runner.Down(); err != nil {
			logger.WithError(err).Fatal("Rollback failed")
		}
	case "version":
		version, dirty, err := runner.Version()
		if err != nil {
			logger.WithError(err).Fatal("Failed to read version")
		}
		logger.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("Current schema version")
	default:
		logger.Fatalf("Unknown action: %s", *action)
	}
}
