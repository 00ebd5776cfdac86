package observability

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a structured JSON logger tagged with the service name.
// Log level comes from LOG_LEVEL and defaults to info.
func NewLogger(serviceName string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	logger.AddHook(serviceHook{name: serviceName})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

// serviceHook stamps every log entry with the service name
type serviceHook struct {
	name string
}

func (h serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceHook) Fire(entry *logrus.Entry) error {
	entry.Data["service"] = h.name
	return nil
}

// Metrics emits named counters as structured log events. Emission is a side
// channel: it never influences control flow or the response contract.
type Metrics struct {
	namespace string
	logger    *logrus.Logger
}

// NewMetrics creates a metrics emitter for the given namespace
func NewMetrics(namespace string, logger *logrus.Logger) *Metrics {
	if logger == nil {
		logger = logrus.New()
	}
	return &Metrics{namespace: namespace, logger: logger}
}

// Count increments a named counter by one
func (m *Metrics) Count(name string) {
	m.CountN(name, 1)
}

// CountN increments a named counter by n
func (m *Metrics) CountN(name string, n int) {
	m.logger.WithFields(logrus.Fields{
		"metric_namespace": m.namespace,
		"metric_name":      name,
		"metric_value":     n,
		"metric_unit":      "Count",
	}).Info("metric")
}

// Span measures the duration of an operation. End is safe to call once from a
// defer on any exit path.
type Span struct {
	name   string
	start  time.Time
	logger *logrus.Logger
}

// StartSpan begins a span for the named operation
func StartSpan(name string, logger *logrus.Logger) *Span {
	if logger == nil {
		logger = logrus.New()
	}
	logger.WithField("span", name).Debug("Span started")
	return &Span{name: name, start: time.Now(), logger: logger}
}

// End closes the span and logs its duration
func (s *Span) End() {
	s.logger.WithFields(logrus.Fields{
		"span":        s.name,
		"duration_ms": float64(time.Since(s.start).Nanoseconds()) / 1e6,
	}).Debug("Span ended")
}
