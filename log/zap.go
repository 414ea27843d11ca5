package log

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Field = zap.Field

var Logger = zap.NewNop()

var (
	String   = zap.String
	Int      = zap.Int
	Ints     = zap.Ints
	Int64    = zap.Int64
	Duration = zap.Duration
)

func ErrorField(err error) Field {
	return zap.Error(err)
}

// Init configures the package logger. format is either "text" or "json",
// level any zap level name (debug, info, warn, error).
func Init(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	var cfg zap.Config
	switch strings.ToLower(format) {
	case "json":
		cfg = zap.NewProductionConfig()
	case "", "text":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return errors.Errorf("invalid log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

func Sync() {
	_ = Logger.Sync()
}

func Debug(msg string, fields ...Field) {
	Logger.Debug(msg, fields...)
}

func Info(msg string, fields ...Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...Field) {
	Logger.Warn(msg, fields...)
}

func Error(msg string, fields ...Field) {
	Logger.Error(msg, fields...)
}
