package pdfbake

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// LevelTrace sits below slog.LevelDebug and carries full settings dumps
// of every configuration level as it is constructed.
const LevelTrace = slog.LevelDebug - 4

// NewLogger builds the logger used by the CLI and, unless overridden,
// by the Baker. Precedence: trace > verbose > quiet > info.
func NewLogger(w io.Writer, quiet, verbose, trace bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case trace:
		level = LevelTrace
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	})
	return slog.New(handler)
}

// logSection logs a message framed as a main section header, matching
// the run log's visual structure.
func logSection(logger *slog.Logger, level slog.Level, msg string, args ...any) {
	logger.Log(context.Background(), level, fmt.Sprintf("──── %s ────", msg), args...)
}

// logSubsection logs a message framed as a subsection header.
func logSubsection(logger *slog.Logger, level slog.Level, msg string, args ...any) {
	logger.Log(context.Background(), level, fmt.Sprintf("  ── %s ──", msg), args...)
}

// Truncate shortens a string to at most maxChars bytes with an
// ellipsis, cutting on a rune boundary so the preview stays valid
// UTF-8. Used for log previews of potentially large rendered values.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimRight(s[:cut], " ") + "..."
}
