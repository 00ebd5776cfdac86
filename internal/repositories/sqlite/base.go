package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"product-catalog-api/internal/database"
	"product-catalog-api/internal/repositories"
)

// BaseRepository provides statement execution and query logging shared by all
// SQLite repositories. Statements run on the Querier supplied at construction,
// which is either the request's checked-out session or the shared pool.
type BaseRepository struct {
	q      database.Querier
	table  string
	logger *logrus.Logger
}

// NewBaseRepository creates a new base repository bound to a session
func NewBaseRepository(q database.Querier, table string, logger *logrus.Logger) *BaseRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &BaseRepository{
		q:      q,
		table:  table,
		logger: logger,
	}
}

// logQuery logs a query with its execution time
func (r *BaseRepository) logQuery(operation string, query string, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeExec executes a non-query statement and logs the result
func (r *BaseRepository) executeExec(ctx context.Context, operation, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.q.ExecContext(ctx, query, args...)
	r.logQuery(operation, query, time.Since(start), err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.table, "", err)
	}

	return result, nil
}

// executeQueryRow executes a single-row query and logs the result
func (r *BaseRepository) executeQueryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.q.QueryRowContext(ctx, query, args...)
	r.logQuery(operation, query, time.Since(start), nil)

	return row
}

// checkRowsAffected checks that the statement touched at least one row
func (r *BaseRepository) checkRowsAffected(result sql.Result, operation, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewRepositoryError(operation, r.table, id, err)
	}

	if rowsAffected == 0 {
		return repositories.NotFoundError(r.table, id)
	}

	return nil
}

// validateID validates that an ID is not empty
func (r *BaseRepository) validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return repositories.NewRepositoryError("validate", r.table, id, repositories.ErrInvalidID)
	}
	return nil
}
