// Package email delivers alert escalation messages.
package email

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("email: no recipients")

// Message is one escalation e-mail.
type Message struct {
	To      []string
	From    string // empty uses the sender's default
	Subject string
	HTML    string
	Text    string // plain-text fallback

	// AlertID and Level tag the message so deliveries can be traced back to the alert.
	AlertID string
	Level   string
}

// Receipt is what the provider reports for an accepted message.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
