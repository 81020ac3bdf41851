package test

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
)

// NewLogger returns a logger that writes to the test's log output.
func NewLogger(t TestingT) *slog.Logger {
	t.Helper()

	w := &logWriter{t: t}
	t.Cleanup(w.close)

	return slog.New(
		slog.NewTextHandler(
			w,
			&slog.HandlerOptions{
				Level: slog.LevelDebug,
				ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
					if len(groups) == 0 && a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			},
		),
	)
}

// logWriter is an io.Writer that writes each line to a test's log.
//
// Writes after the test has completed are discarded, as logging after the
// test ends causes a panic.
type logWriter struct {
	m      sync.Mutex
	t      TestingT
	closed bool
}

func (w *logWriter) Write(data []byte) (int, error) {
	w.m.Lock()
	defer w.m.Unlock()

	if !w.closed {
		w.t.Log(strings.TrimSuffix(string(bytes.TrimSpace(data)), "\n"))
	}

	return len(data), nil
}

func (w *logWriter) close() {
	w.m.Lock()
	w.closed = true
	w.m.Unlock()
}
