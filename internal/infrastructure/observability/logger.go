package observability

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/embedpay/intentconfirm/internal/infrastructure/config"
)

const SessionIDKey = "session_id"

type Logger struct {
	*zerolog.Logger
}

// NewLogger creates a new structured logger based on configuration
func NewLogger(cfg *config.ObservabilityConfig) *Logger {
	var output io.Writer = os.Stdout

	// Configure zerolog
	logLevel := parseLogLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(logLevel)

	// Format output
	if cfg.LogFormat == "text" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	logger := zerolog.New(output).
		Level(logLevel).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: &logger}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	logger := zerolog.Nop()
	return &Logger{Logger: &logger}
}

// WithSessionID returns a new logger with the confirmation session ID attached
func (l *Logger) WithSessionID(sessionID string) *Logger {
	logger := l.With().Str(SessionIDKey, sessionID).Logger()
	return &Logger{Logger: &logger}
}

// WithIntentID returns a new logger with the intent ID attached
func (l *Logger) WithIntentID(intentID string) *Logger {
	logger := l.With().Str("intent_id", intentID).Logger()
	return &Logger{Logger: &logger}
}

// WithStep returns a new logger with the dispatched step name attached
func (l *Logger) WithStep(step string) *Logger {
	logger := l.With().Str("step", step).Logger()
	return &Logger{Logger: &logger}
}

// WithError returns a new logger with error attached
func (l *Logger) WithError(err error) *Logger {
	logger := l.With().Err(err).Logger()
	return &Logger{Logger: &logger}
}

// parseLogLevel converts string to zerolog level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// GetGlobalLogger returns the global logger
func GetGlobalLogger() *Logger {
	logger := log.Logger
	return &Logger{Logger: &logger}
}
