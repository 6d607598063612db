package stagecore

import (
	"context"
	"log/slog"
)

// nopHandler is a slog.Handler that discards all log records. Enabled
// returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// logger is the active package logger. Not synchronized; stagecore is
// single-threaded.
var logger = newNopLogger()

// SetLogger configures the logger used for recoverable warnings such as
// unknown layer groups or queries against destroyed drawables. By default
// stagecore produces no log output. Pass nil to restore silence.
//
//	stagecore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	logger = l
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return logger
}
