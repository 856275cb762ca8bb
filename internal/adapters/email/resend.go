package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender builds a sender for apiKey with from as the default sender address.
// PRE: apiKey is a valid Resend API key
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

// Send submits msg to Resend.
// POST: on success the Receipt carries Resend's message id
func (s *ResendSender) Send(ctx context.Context, msg Message) (Receipt, error) {
	if len(msg.To) == 0 {
		return Receipt{}, ErrNoRecipients
	}
	from := msg.From
	if from == "" {
		from = s.from
	}

	resp, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		Tags:    tags(msg),
	})
	if err != nil {
		slog.Error("email_event", "event", "email_failed", "provider", "resend", "alert", msg.AlertID, "error", err)
		return Receipt{}, fmt.Errorf("resend: %w", err)
	}

	slog.Info("email_event", "event", "email_sent", "provider", "resend", "alert", msg.AlertID, "message_id", resp.Id)
	return Receipt{MessageID: resp.Id, SentAt: time.Now()}, nil
}

func tags(msg Message) []resend.Tag {
	var out []resend.Tag
	if msg.AlertID != "" {
		out = append(out, resend.Tag{Name: "alert_id", Value: msg.AlertID})
	}
	if msg.Level != "" {
		out = append(out, resend.Tag{Name: "level", Value: msg.Level})
	}
	return out
}
