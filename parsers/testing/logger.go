package testing

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
)

// LogBuffer collects log output. It is safe for concurrent use, since loaders
// log from several goroutines.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewTestLogger returns a debug-level text logger writing into the returned buffer.
func NewTestLogger(t *testing.T) (*slog.Logger, *LogBuffer) {
	t.Helper()

	buf := &LogBuffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return slog.New(handler), buf
}
