// Package logging builds the zap loggers used by batch jobs and the CLI.
package logging

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// Modes accepted by New.
const (
	ModeDevelopment = "dev"
	ModeProduction  = "prod"
)

// New builds a logger writing to w. Mode "prod"/"production" writes JSON
// lines; anything else writes development console lines. verbose enables
// debug output, otherwise only warnings and errors are written.
func New(mode string, w io.Writer, verbose bool) *Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	var enc zapcore.Encoder
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = ""
		enc = zapcore.NewJSONEncoder(cfg)
	default:
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return FromZap(zap.New(core))
}

// Nop discards everything.
func Nop() *Logger {
	return FromZap(zap.NewNop())
}

// FromZap wraps an existing zap logger.
func FromZap(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.SugaredLogger.Debugw(msg, keysAndValues...)
}
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.SugaredLogger.Infow(msg, keysAndValues...)
}
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.SugaredLogger.Warnw(msg, keysAndValues...)
}
func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)
}
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}
