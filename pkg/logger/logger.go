// Package logger is the logging facade shared by the client library and
// diaryctl. It is imported as `log` and writes through logrus' standard logger,
// which pkg/bootstrap configures once.
package logger

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

type (
	Fields = log.Fields
	Entry  = log.Entry
	Logger = log.Logger
	Level  = log.Level
)

func StandardLogger() *Logger { return log.StandardLogger() }

// NewEntry returns an empty entry on l.
func NewEntry(l *Logger) *Entry { return log.NewEntry(l) }

func WithField(key string, value any) *Entry { return log.WithField(key, value) }
func WithFields(fields Fields) *Entry        { return log.WithFields(fields) }
func WithError(err error) *Entry             { return log.WithError(err) }

// WithTrace binds ctx and adds "trace_id" and "span_id" when ctx carries a
// valid span.
func WithTrace(ctx context.Context) *Entry {
	if ctx == nil {
		return log.NewEntry(log.StandardLogger())
	}
	e := log.WithContext(ctx)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		e = e.WithFields(log.Fields{
			"trace_id": sc.TraceID().String(),
			"span_id":  sc.SpanID().String(),
		})
	}
	return e
}

// Component tags entries with the emitting package, e.g. "api" or "report".
func Component(name string) *Entry {
	return log.WithField("component", name)
}
