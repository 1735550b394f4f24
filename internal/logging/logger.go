package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Field represents a structured logging key/value pair. Fields are passed to
// the Logger methods to attach context (stage name, duration, run id) to a
// log event without committing to a particular backend's API.
type Field struct {
	// Key is the field name.
	Key string
	// Value is the field value; supported types are applied natively by the
	// backend, everything else falls back to a generic representation.
	Value any
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64 field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64 field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Dur creates a duration field.
func Dur(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err creates an error field under the conventional "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Logger is the minimal logging contract required by the assembler. It keeps
// the orchestration code independent of the concrete backend; production code
// uses the zerolog adapter below, tests typically capture output in a buffer.
type Logger interface {
	// Debug logs a message at debug level with optional structured fields.
	Debug(msg string, fields ...Field)
	// Info logs a message at info level with optional structured fields.
	Info(msg string, fields ...Field)
	// Error logs a message at error level, attaching the given error and
	// optional structured fields.
	Error(msg string, err error, fields ...Field)
}

// ZerologAdapter implements Logger on top of a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger creates a Logger writing JSON events to w, tagged with the given
// component name.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologAdapter{logger: zl}
}

// NewDefaultLogger creates a Logger writing to stderr, tagged "surround".
func NewDefaultLogger() *ZerologAdapter {
	return NewLogger(os.Stderr, "surround")
}

// Debug logs a message at debug level.
func (a *ZerologAdapter) Debug(msg string, fields ...Field) {
	a.log(a.logger.Debug(), fields).Msg(msg)
}

// Info logs a message at info level.
func (a *ZerologAdapter) Info(msg string, fields ...Field) {
	a.log(a.logger.Info(), fields).Msg(msg)
}

// Error logs a message at error level with the supplied error attached.
func (a *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	a.log(a.logger.Error().Err(err), fields).Msg(msg)
}

// log applies structured fields to a zerolog event, dispatching on the value
// type so that common types keep their native JSON representation.
func (a *ZerologAdapter) log(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case int64:
			event = event.Int64(f.Key, v)
		case uint64:
			event = event.Uint64(f.Key, v)
		case float64:
			event = event.Float64(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		case time.Duration:
			event = event.Dur(f.Key, v)
		case error:
			event = event.AnErr(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}

// NopLogger is a Logger that discards everything. Used when callers opt out
// of logging entirely.
type NopLogger struct{}

// Debug discards the event.
func (NopLogger) Debug(string, ...Field) {}

// Info discards the event.
func (NopLogger) Info(string, ...Field) {}

// Error discards the event.
func (NopLogger) Error(string, error, ...Field) {}
