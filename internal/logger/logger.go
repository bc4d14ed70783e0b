// Package logger wraps zap construction behind a small holder so callers
// can create the logger first and configure its level afterwards.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Logger holds the shared zap logger. Log is a no-op until Init succeeds,
// so early failures can still be reported through it.
type Logger struct {
	Log *zap.Logger
}

// New returns a logger holder with a no-op zap logger.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds the production logger at the given level ("Debug", "Info",
// "Warn", "Error"), replacing the no-op one.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	log, err := cfg.Build()
	if err != nil {
		return err
	}
	l.Log = log
	return nil
}
