// Package logging builds the zap.Logger used by the example binaries and,
// optionally, by the client itself. It is not part of the core request and
// subscription engine, which accept a *zap.Logger directly and default to
// a no-op logger when none is given.
package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures where and how verbosely the example binaries log.
type Options struct {
	Stdout     bool
	Level      string // "debug", "info", "warn", "error"
	Filename   string // when set, logs also rotate into this file
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

func levelFor(s string) zapcore.Level {
	switch s {
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

// New builds a zap.Logger writing to stdout, a rotated file, or both.
func New(opt Options) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000Z"))
	}
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	level := levelFor(opt.Level)

	var syncers []zapcore.WriteSyncer
	if opt.Stdout || opt.Filename == "" {
		syncers = append(syncers, zapcore.AddSync(os.Stdout))
	}
	if opt.Filename != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opt.Filename,
			MaxSize:    opt.MaxSizeMB,
			MaxAge:     opt.MaxAgeDays,
			MaxBackups: opt.MaxBackups,
		}))
	}
	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(syncers...), level)
	return zap.New(core), nil
}
