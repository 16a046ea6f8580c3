// Package logger provides the shared structured logger for the exporter.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global *zap.Logger = zap.NewNop()
	once   sync.Once
)

// Init builds the global logger. Console encoding by default; level falls
// back to info when unparseable.
func Init(level string, development bool) error {
	var err error
	once.Do(func() {
		lvl, perr := zapcore.ParseLevel(level)
		if perr != nil {
			lvl = zapcore.InfoLevel
		}
		cfg := zap.NewProductionConfig()
		if development {
			cfg = zap.NewDevelopmentConfig()
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		global, err = cfg.Build()
	})
	return err
}

// L returns the global logger
func L() *zap.Logger {
	return global
}

// Named returns a named child of the global logger
func Named(name string) *zap.Logger {
	return global.Named(name)
}
