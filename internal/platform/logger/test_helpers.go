package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
)

// LogBuffer collects the JSON lines written by a logger from NewTestLogger.
// It is safe for concurrent writers such as worker goroutines.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Entries decodes every logged line. A line that is not a JSON object fails t.
func (b *LogBuffer) Entries(t testing.TB) []map[string]any {
	t.Helper()

	var entries []map[string]any
	scanner := bufio.NewScanner(bytes.NewBufferString(b.String()))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("malformed log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

// Find returns the first entry logged with message msg, or nil.
func (b *LogBuffer) Find(t testing.TB, msg string) map[string]any {
	t.Helper()
	for _, entry := range b.Entries(t) {
		if entry[slog.MessageKey] == msg {
			return entry
		}
	}
	return nil
}

// NewTestLogger returns a debug level JSON logger writing to a LogBuffer.
func NewTestLogger(t testing.TB) (*LogBuffer, *slog.Logger) {
	t.Helper()
	buf := &LogBuffer{}
	return buf, slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
