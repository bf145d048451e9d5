//go:build !nogpu

package gpu

import (
	"log/slog"

	"github.com/gogpu/bitmaptext"
)

// slogger returns the current package logger.
// All logging in internal/gpu goes through this function so that
// bitmaptext.SetLogger configures it too.
func slogger() *slog.Logger { return bitmaptext.Logger() }
