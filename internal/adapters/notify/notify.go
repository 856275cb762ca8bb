// Package notify delivers user-facing notifications about module outcomes.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level of a notification.
type Level string

// Level constants
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a message meant for the person at the workstation.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Operation string    `json:"operation,omitempty"`
	At        time.Time `json:"at"`
}

// Notifier delivers notifications. Implementations must not block for long.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// New fills in ID and At.
func New(level Level, operation, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Operation: operation,
		At:        time.Now(),
	}
}

// LogNotifier writes notifications to slog.
type LogNotifier struct{}

// Notify logs n at a level matching its severity.
func (LogNotifier) Notify(ctx context.Context, n Notification) {
	lvl := slog.LevelInfo
	switch n.Level {
	case LevelWarning:
		lvl = slog.LevelWarn
	case LevelError:
		lvl = slog.LevelError
	}
	slog.Log(ctx, lvl, "notification", "level", string(n.Level), "operation", n.Operation, "message", n.Message)
}

// DefaultFeedSize is the default capacity of a Feed.
const DefaultFeedSize = 50

// Feed keeps the most recent notifications for panels to poll.
type Feed struct {
	mu    sync.Mutex
	items []Notification
	size  int
	pos   int
	full  bool
}

// NewFeed creates a feed holding up to size notifications.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{items: make([]Notification, size), size: size}
}

// Notify stores n, overwriting the oldest entry when full.
func (f *Feed) Notify(_ context.Context, n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[f.pos] = n
	f.pos = (f.pos + 1) % f.size
	if f.pos == 0 {
		f.full = true
	}
}

// Recent returns up to limit notifications, newest first.
func (f *Feed) Recent(limit int) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.pos
	if f.full {
		n = f.size
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.pos - i + f.size) % f.size
		out = append(out, f.items[idx])
	}
	return out
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

// Notify calls every notifier in order.
func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(ctx, n)
		}
	}
}
