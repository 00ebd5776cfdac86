package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Querier is the subset of database operations repositories execute against.
// Both *sql.DB and *sql.Conn satisfy it, so a repository can be bound either
// to the shared pool or to a single checked-out session.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Session is a single live connection checked out of the pool, exclusively
// owned by one request. Whoever acquires a session is the one who closes it,
// exactly once.
type Session struct {
	conn   *sql.Conn
	logger *logrus.Logger
	closed bool
}

// Conn returns the underlying connection for statement execution
func (s *Session) Conn() Querier {
	return s.conn
}

// Close returns the connection to the pool. Closing an already-closed session
// is a no-op so that release logic stays safe on every exit path.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.conn.Close(); err != nil {
		s.logger.WithError(err).Warn("Failed to release database session")
		return err
	}

	s.logger.Debug("Database session released")
	return nil
}

// Pool wraps the process-wide *sql.DB and hands out request-scoped sessions.
// The pool itself is initialized once per process and is read-only after that.
type Pool struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewPool creates a session pool over an established database handle
func NewPool(db *sql.DB, logger *logrus.Logger) *Pool {
	if logger == nil {
		logger = logrus.New()
	}
	return &Pool{db: db, logger: logger}
}

// DB returns the underlying database handle
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Acquire checks a dedicated connection out of the pool
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		p.logger.WithError(err).Error("Failed to acquire database session")
		return nil, fmt.Errorf("failed to acquire database session: %w", err)
	}

	p.logger.Debug("Database session acquired")
	return &Session{conn: conn, logger: p.logger}, nil
}

// Close closes the underlying database handle
func (p *Pool) Close() error {
	return p.db.Close()
}

type sessionContextKey struct{}

// WithSession attaches a session to the request-scoped context
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFrom extracts the session injected by the request pipeline, if any
func SessionFrom(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*Session)
	return sess, ok
}

// SessionOrAcquire returns the session already attached to the context, or
// checks out a private one when none was injected. The returned flag reports
// ownership: callers must close the session if and only if owned is true.
func (p *Pool) SessionOrAcquire(ctx context.Context) (sess *Session, owned bool, err error) {
	if sess, ok := SessionFrom(ctx); ok {
		return sess, false, nil
	}

	sess, err = p.Acquire(ctx)
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}
