package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// maxRecords is how many recent records a RingHandler retains.
const maxRecords = 20

type ring struct {
	mu   sync.Mutex
	ch   chan<- tea.Msg
	logs []slog.Record
}

// RingHandler is a slog.Handler that keeps the most recent records in memory
// and forwards each one to a tea.Program when an output is set. While an
// output is set the wrapped handler is bypassed so it does not draw over the
// program's screen.
type RingHandler struct {
	slog.Handler
	ring *ring
}

// NewRingHandler wraps handler.
func NewRingHandler(handler slog.Handler) *RingHandler {
	return &RingHandler{Handler: handler, ring: &ring{}}
}

// Handle stores the record and passes it to the wrapped handler.
func (h *RingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.ring.mu.Lock()
	h.ring.logs = append(h.ring.logs, r.Clone())
	if len(h.ring.logs) > maxRecords {
		h.ring.logs = h.ring.logs[1:]
	}
	ch := h.ring.ch
	h.ring.mu.Unlock()

	if ch != nil {
		// Drop rather than block logging on a busy UI.
		select {
		case ch <- LogMsg(r):
		default:
		}
		return nil
	}
	return h.Handler.Handle(ctx, r)
}

func (h *RingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RingHandler{Handler: h.Handler.WithAttrs(attrs), ring: h.ring}
}

func (h *RingHandler) WithGroup(name string) slog.Handler {
	return &RingHandler{Handler: h.Handler.WithGroup(name), ring: h.ring}
}

// Logs returns the stored log records, oldest first.
func (h *RingHandler) Logs() []slog.Record {
	h.ring.mu.Lock()
	defer h.ring.mu.Unlock()
	return append([]slog.Record(nil), h.ring.logs...)
}

// SetOutput sets the channel records are forwarded to. nil disables forwarding.
func (h *RingHandler) SetOutput(ch chan<- tea.Msg) {
	h.ring.mu.Lock()
	defer h.ring.mu.Unlock()
	h.ring.ch = ch
}

// LogMsg is a tea.Msg that represents a log message.
type LogMsg slog.Record

// ParseLevel maps a configured level name to a slog.Level. Unknown names
// map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

var (
	defaultHandler *RingHandler
	level          = new(slog.LevelVar)
)

// Init installs a text logger writing to w as the default logger and
// returns it.
func Init(w io.Writer, lvl string) *slog.Logger {
	level.Set(ParseLevel(lvl))
	defaultHandler = NewRingHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	logger := slog.New(defaultHandler)
	slog.SetDefault(logger)
	return logger
}

// SetLevel changes the level of the default logger.
func SetLevel(lvl string) {
	level.Set(ParseLevel(lvl))
}

// SetOutput sets the output channel for the default logger.
func SetOutput(ch chan<- tea.Msg) {
	if defaultHandler != nil {
		defaultHandler.SetOutput(ch)
	}
}

// Logs returns the stored log records from the default logger.
func Logs() []slog.Record {
	if defaultHandler == nil {
		return nil
	}
	return defaultHandler.Logs()
}
