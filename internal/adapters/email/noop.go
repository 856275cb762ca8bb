package email

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NoopSender records messages instead of delivering them. It backs
// development setups without a provider key and the escalation tests.
type NoopSender struct {
	mu       sync.Mutex
	messages []Message
}

// NewNoopSender returns an empty NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs and records msg.
func (s *NoopSender) Send(_ context.Context, msg Message) (Receipt, error) {
	if len(msg.To) == 0 {
		return Receipt{}, ErrNoRecipients
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	slog.Info("email_event", "event", "email_skipped", "provider", "noop", "alert", msg.AlertID, "recipients", len(msg.To))
	return Receipt{MessageID: "noop-" + uuid.NewString(), SentAt: time.Now()}, nil
}

// Sent returns a copy of the recorded messages, oldest first.
func (s *NoopSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}
