// Package logging provides the structured logger the docking pipeline and
// CLI use for progress and diagnostic output.
//
// Grounded on
// _examples/turtacn-KeyIP-Intelligence/internal/infrastructure/monitoring/logging/logger.go:
// the same Field/typed-constructor and Logger-interface shape, backed by
// go.uber.org/zap, shrunk to the handful of fields this engine actually
// emits (ligand name, energy, iteration counts, durations) instead of the
// teacher's full HTTP/request-tracing field set.
package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a single structured log attribute.
type Field = zap.Field

// String, Int, Float64, Duration and Err build Fields the same way the
// teacher's logger.go does, re-exported from zap so call sites never
// import zap directly.
func String(key, value string) Field           { return zap.String(key, value) }
func Int(key string, value int) Field          { return zap.Int(key, value) }
func Float64(key string, value float64) Field  { return zap.Float64(key, value) }
func Duration(key string, value time.Duration) Field { return zap.Duration(key, value) }
func Err(err error) Field                      { return zap.Error(err) }

// Logger is the subset of structured-logging operations the docking
// pipeline needs.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

type zapLogger struct {
	z *zap.Logger
}

// Config controls the logger's verbosity and output format.
type Config struct {
	Level    string // debug, info, warn, error
	JSON     bool   // false: human-readable console encoding
	Path     string // "" or "stdout" writes to stdout
}

// New builds a Logger from cfg, matching the teacher's NewLogger/
// NewLoggerFromCore split between configuration parsing and zapcore
// assembly.
func New(cfg Config) (Logger, error) {
	level := parseLevel(cfg.Level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.JSON {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	path := cfg.Path
	if path == "" {
		path = "stdout"
	}
	sink, _, err := zap.Open(path)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, sink, level)
	return &zapLogger{z: zap.New(core)}, nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, fields...) }
func (l *zapLogger) With(fields ...Field) Logger       { return &zapLogger{z: l.z.With(fields...)} }
func (l *zapLogger) Sync() error                       { return l.z.Sync() }

// Nop returns a Logger that discards everything, used in tests.
func Nop() Logger { return &zapLogger{z: zap.NewNop()} }
