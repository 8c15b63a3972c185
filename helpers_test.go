package pdfbake

import (
	"io"
	"log/slog"
	"testing"
)

// testLogger returns a logger that swallows output. Tests asserting on
// log content build their own with NewLogger and a buffer.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
