package bitmaptext

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/bitmaptext/bmfont"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for bitmaptext and its sub-packages.
// By default nothing is logged. Pass nil to restore silent behavior.
//
// Log levels used:
//   - [slog.LevelDebug]: layout pass statistics, buffer reuse, GPU buffer growth
//   - [slog.LevelInfo]: atlas builds, pipeline creation
//   - [slog.LevelWarn]: non-fatal issues (font size fallback, resource release errors)
//
// Example:
//
//	bitmaptext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	bmfont.SetLogger(l)
}

// Logger returns the current logger. Sub-packages (gpu/, internal/gpu/)
// call this to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
