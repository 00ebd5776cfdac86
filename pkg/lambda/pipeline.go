package lambda

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"product-catalog-api/internal/database"
	"product-catalog-api/internal/observability"
)

// Chain applies middleware to a handler. The first middleware is the
// outermost stage.
func Chain(handler HandlerFunc, middleware ...Middleware) HandlerFunc {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}

// StandardPipeline assembles the per-invocation stages in their fixed order:
// recovery, observability, header normalization, session scoping. Later
// stages never run when session acquisition fails.
func StandardPipeline(pool *database.Pool, logger *logrus.Logger, metrics *observability.Metrics) []Middleware {
	return []Middleware{
		WithRecovery(logger),
		WithObservability(logger, metrics),
		WithHeaderNormalization(),
		WithSession(pool, logger),
	}
}

// WithRecovery converts panics and unmapped handler errors into a generic 500
// response. Internal messages are logged but never exposed to the caller.
func WithRecovery(logger *logrus.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (resp *Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.WithField("panic", r).Error("Handler panicked")
					resp = Error(http.StatusInternalServerError, CodeInternal, nil)
					err = nil
				}
			}()

			resp, err = next(ctx, req)
			if err != nil {
				logger.WithError(err).Error("Unhandled handler error")
				return Error(http.StatusInternalServerError, CodeInternal, nil), nil
			}

			return resp, nil
		}
	}
}

// WithObservability wraps the request in a span and emits one structured log
// line per request. Emission never affects the response.
func WithObservability(logger *logrus.Logger, metrics *observability.Metrics) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (*Response, error) {
			span := observability.StartSpan("handler", logger)
			defer span.End()

			resp, err := next(ctx, req)

			fields := logrus.Fields{
				"method": req.Method,
				"path":   req.Path,
			}
			if actor := req.QueryParams["userId"]; actor != "" {
				fields["actor"] = actor
			}

			status := 0
			if resp != nil {
				status = resp.StatusCode
				fields["status_code"] = status
			}

			switch {
			case err != nil || status >= 500:
				logger.WithFields(fields).Error("Request failed")
				countOutcome(metrics, "RequestFailed")
			case status >= 400:
				logger.WithFields(fields).Warn("Request rejected")
				countOutcome(metrics, "RequestRejected")
			default:
				logger.WithFields(fields).Info("Request completed")
				countOutcome(metrics, "RequestCompleted")
			}

			return resp, err
		}
	}
}

func countOutcome(metrics *observability.Metrics, name string) {
	if metrics != nil {
		metrics.Count(name)
	}
}

// WithHeaderNormalization lower-cases header names so later stages can look
// them up case-insensitively.
func WithHeaderNormalization() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if len(req.Headers) > 0 {
				normalized := make(map[string]string, len(req.Headers))
				for name, value := range req.Headers {
					normalized[strings.ToLower(name)] = value
				}
				req.Headers = normalized
			}
			return next(ctx, req)
		}
	}
}

// WithSession checks a database session out of the pool, attaches it to the
// request context and releases it on every exit path exactly once. A release
// failure is logged, never re-thrown. When acquisition fails the request is
// aborted with a 500-class response and no later stage runs.
func WithSession(pool *database.Pool, logger *logrus.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *Request) (*Response, error) {
			sess, err := pool.Acquire(ctx)
			if err != nil {
				return Error(http.StatusInternalServerError, CodeDBConnection, nil), nil
			}

			defer func() {
				if closeErr := sess.Close(); closeErr != nil {
					logger.WithError(closeErr).Error("Failed to release database session")
				}
			}()

			return next(database.WithSession(ctx, sess), req)
		}
	}
}
