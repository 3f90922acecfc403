package log

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRingHandlerKeepsRecent(t *testing.T) {
	var buf bytes.Buffer
	h := NewRingHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(h).With("component", "test")

	for i := 0; i < maxRecords+5; i++ {
		logger.Info(fmt.Sprintf("msg %d", i))
	}
	logs := h.Logs()
	if len(logs) != maxRecords {
		t.Fatalf("Logs() len = %d, want %d", len(logs), maxRecords)
	}
	if logs[0].Message != "msg 5" {
		t.Errorf("oldest record = %q, want %q", logs[0].Message, "msg 5")
	}
	if !bytes.Contains(buf.Bytes(), []byte("component=test")) {
		t.Errorf("wrapped handler lost attrs: %s", buf.String())
	}
}

func TestRingHandlerForwards(t *testing.T) {
	h := NewRingHandler(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ch := make(chan tea.Msg, 1)
	h.SetOutput(ch)
	logger := slog.New(h)

	logger.Info("first")
	logger.Info("dropped, channel full")

	msg := <-ch
	if got := slog.Record(msg.(LogMsg)).Message; got != "first" {
		t.Errorf("forwarded %q, want %q", got, "first")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"nope":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRingHandlerMutesWrappedWhileForwarding(t *testing.T) {
	var buf bytes.Buffer
	h := NewRingHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(h)

	h.SetOutput(make(chan tea.Msg, 4))
	logger.Info("to the ui")
	if buf.Len() != 0 {
		t.Errorf("wrapped handler wrote while forwarding: %s", buf.String())
	}

	h.SetOutput(nil)
	logger.Info("to the writer")
	if !bytes.Contains(buf.Bytes(), []byte("to the writer")) {
		t.Errorf("wrapped handler missing record: %s", buf.String())
	}
	if got := len(h.Logs()); got != 2 {
		t.Errorf("Logs() len = %d, want 2", got)
	}
}
