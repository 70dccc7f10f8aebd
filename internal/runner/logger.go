package runner

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging for apply operations.
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a new Logger instance that writes to a file.
// If logPath is empty, logging is disabled.
// If development is true, uses development config with readable output.
// Otherwise uses production config with JSON output.
func NewLogger(logPath string, development bool) (*Logger, error) {
	if logPath == "" {
		// No logging
		return &Logger{zap: zap.NewNop()}, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	var encoderConfig zapcore.EncoderConfig
	if development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logFile),
		zapcore.InfoLevel,
	)

	return &Logger{zap: zap.New(core)}, nil
}

// Close syncs the logger (should be called on shutdown).
func (l *Logger) Close() error {
	return l.zap.Sync()
}

// PlanBuilt logs the result of parsing and locating one markup input.
func (l *Logger) PlanBuilt(path string, blocks, hunks int, fuzzy bool, duration time.Duration) {
	l.zap.Info("plan built",
		zap.String("path", path),
		zap.Int("blocks", blocks),
		zap.Int("hunks", hunks),
		zap.Bool("fuzzy", fuzzy),
		zap.Duration("duration", duration),
	)
}

// SessionResolved logs the outcome of a finished apply session.
func (l *Logger) SessionResolved(sessionID, path string, committed, rejected int) {
	l.zap.Info("session resolved",
		zap.String("session", sessionID),
		zap.String("path", path),
		zap.Int("committed", committed),
		zap.Int("rejected", rejected),
	)
}

// StreamUpdate logs a streaming update's verdict.
func (l *Logger) StreamUpdate(seq int, deferred bool, stable, unstable int) {
	l.zap.Debug("stream update",
		zap.Int("seq", seq),
		zap.Bool("deferred", deferred),
		zap.Int("stable", stable),
		zap.Int("unstable", unstable),
	)
}

// Error logs an error.
func (l *Logger) Error(msg string, err error) {
	l.zap.Error(msg, zap.Error(err))
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}
