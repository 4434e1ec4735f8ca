// Package logger provides the zerolog-based structured logger shared by
// all services. Production emits JSON to stdout; development gets a
// human-readable console writer and debug level.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger so call sites depend on this package
// rather than on zerolog directly.
type Logger struct {
	zerolog.Logger
}

// New builds a logger tagged with the service name. The environment
// selects output format and minimum level.
func New(serviceName, environment string) *Logger {
	level := zerolog.InfoLevel
	base := zerolog.New(os.Stdout)

	if environment == "development" {
		level = zerolog.DebugLevel
		base = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	zl := base.Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &Logger{Logger: zl}
}

// WithComponent tags every entry with a component name, for loggers
// handed to subsystems like the low stock scanner or a consumer.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With().Str("component", component).Logger()}
}

// WithRequestID attaches the request ID for per-request loggers.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With().Str("request_id", requestID).Logger()}
}
