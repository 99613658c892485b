package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It starts as a no-op so packages can log
// before Init runs (tests, CLI helpers).
var Log = zap.NewNop().Sugar()

// Init builds the global logger. encoding is "json" or "console".
func Init(level, encoding string) error {
	lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		lvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	if encoding != "console" {
		encoding = "json"
	}

	config := zap.Config{
		Encoding:         encoding,
		Level:            lvl,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}

	zapLogger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	Log = zapLogger.Sugar()
	return nil
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

func Infof(template string, args ...any) {
	Log.Infof(template, args...)
}

func Infow(msg string, keysAndValues ...any) {
	Log.Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...any) {
	Log.Warnf(template, args...)
}

func Errorf(template string, args ...any) {
	Log.Errorf(template, args...)
}

func Debugf(template string, args ...any) {
	Log.Debugf(template, args...)
}
