// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init initializes the global logger for the given environment.
// "production" uses a JSON encoder, "test" discards everything, and any
// other value uses the human-readable development encoder. Only the first
// call, including an implicit one from Get, takes effect.
func Init(env string) {
	once.Do(func() {
		sugar = build(env)
	})
}

func build(env string) *zap.SugaredLogger {
	var base *zap.Logger
	var err error

	switch env {
	case "production":
		base, err = zap.NewProduction()
	case "test":
		base = zap.NewNop()
	default:
		base, err = zap.NewDevelopment()
	}

	if err != nil {
		base = zap.NewNop()
	}

	return base.Sugar().Named("spendchat")
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	Init("development")
	return sugar
}

// For returns a child logger tagged with a component name.
func For(component string) *zap.SugaredLogger {
	return Get().With("component", component)
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	_ = Get().Sync()
}
