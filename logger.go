// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package shdc

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by shdc and handed to the cross
// compiler and the generator. By default shdc produces no log output.
// Pass nil to restore the silent default.
//
// Log levels used by shdc:
//   - [slog.LevelDebug]: pipeline phases, snippet lowering, output sizes
//   - [slog.LevelInfo]: written output files
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
