package testsupport

import (
	"log/slog"
	"testing"
)

// LogWriter forwards log lines to t.Logf so they only show up for failing or
// verbose test runs.
type LogWriter struct {
	t testing.TB
}

func (w *LogWriter) Write(p []byte) (int, error) {
	line := p
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	w.t.Logf("%s", line)
	return len(p), nil
}

// NewLogger returns a debug level slog logger writing through t.
func NewLogger(t testing.TB) *slog.Logger {
	t.Helper()

	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(&LogWriter{t: t}, opts))
}
