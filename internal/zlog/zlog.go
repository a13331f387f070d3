// Package zlog wraps zap for the server's structured logging, matching
// Caddy's own approach of a JSON core tee'd across a console writer and a
// rotated file writer (see logging.go's buildCore/CustomLog machinery).
// The five levels mirror original_source/include/utils.h's LOG_LEVEL enum.
package zlog

import (
	"io"
	"os"

	"github.com/DeRuina/timberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger exposes the five log levels from the original LOG_LEVEL enum,
// mapped onto zap's levels. CRIT maps to DPanic rather than Fatal: the
// original's LOG_CRIT is always followed by abort(), but a library should
// let its caller decide whether a critical log is fatal.
type Logger struct {
	z *zap.Logger
}

// Options configures New.
type Options struct {
	// FilePath, if non-empty, adds a rotated file sink alongside stderr.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds a Logger writing JSON-encoded entries to stderr and,
// optionally, to a timberjack-rotated file.
func New(opts Options) *Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	cores := []zapcore.Core{
		// stderr is unbuffered; wrapping it hides its Sync, since fsync on a
		// pipe or terminal fails with EINVAL.
		zapcore.NewCore(encoder, zapcore.AddSync(struct{ io.Writer }{os.Stderr}), zapcore.DebugLevel),
	}

	if opts.FilePath != "" {
		rotator := &timberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), zapcore.DebugLevel))
	}

	return &Logger{z: zap.New(zapcore.NewTee(cores...))}
}

// Crit logs a LOG_CRIT-equivalent message: a failure the original C server
// would abort() on.
func (l *Logger) Crit(msg string, fields ...zap.Field) { l.z.DPanic(msg, fields...) }

// Error logs a LOG_ERROR-equivalent, recoverable error.
func (l *Logger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }

// Warn logs a LOG_WARN-equivalent notification.
func (l *Logger) Warn(msg string, fields ...zap.Field) { l.z.Warn(msg, fields...) }

// Info logs a LOG_INFO-equivalent status message.
func (l *Logger) Info(msg string, fields ...zap.Field) { l.z.Info(msg, fields...) }

// Debug logs a LOG_DEBUG-equivalent diagnostic message.
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error { return l.z.Sync() }

// AccessLogEntry is the structured record emitted once per fully-served
// request, carrying the fields a request/response cycle accumulates.
type AccessLogEntry struct {
	ConnectionID string
	RemoteAddr   string
	Method       string
	Path         string
	Status       int
	BodyBytes    int
	Duration     float64
}

// Access logs one AccessLogEntry at Info level.
func (l *Logger) Access(e AccessLogEntry) {
	l.z.Info("request",
		zap.String("conn_id", e.ConnectionID),
		zap.String("remote_addr", e.RemoteAddr),
		zap.String("method", e.Method),
		zap.String("path", e.Path),
		zap.Int("status", e.Status),
		zap.Int("body_bytes", e.BodyBytes),
		zap.Float64("duration_seconds", e.Duration),
	)
}
