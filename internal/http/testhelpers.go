package httpx

import (
	"io"
	"log/slog"
)

// discardLogger returns a logger whose output goes nowhere, for tests that
// only care about handler behavior.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
