package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger instance
var Logger *zap.Logger

var fallbackOnce sync.Once
var fallback *zap.Logger

// Init initializes the global logger for the given environment.
// "production" logs JSON at info level; anything else logs colored console output at debug.
func Init(env string) error {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := config.Build()
	if err != nil {
		return err
	}
	Logger = built.With(zap.String("service", "recall"))

	return nil
}

// Sync flushes any buffered log entries
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Get returns the global logger, or a no-op logger when Init was never called
// (tests and the CLI run without one).
func Get() *zap.Logger {
	if Logger == nil {
		fallbackOnce.Do(func() {
			fallback = zap.NewNop()
		})
		return fallback
	}
	return Logger
}

// Named returns the global logger scoped to a component name
func Named(component string) *zap.Logger {
	return Get().With(zap.String("component", component))
}
