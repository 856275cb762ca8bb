package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"ergosanitas/internal/adapters/email"
	"ergosanitas/internal/adapters/report"
	"ergosanitas/internal/domain/alert"
)

// EscalateAlertDeps holds dependencies for EscalateAlert.
type EscalateAlertDeps struct {
	Sender     email.Sender
	From       string
	Recipients []string
}

// ExecuteEscalateAlert e-mails the escalation list about a grave alert.
// PRE: a is a freshly set alert
// POST: sent is false (and no e-mail goes out) for non-grave alerts or an empty list
func ExecuteEscalateAlert(ctx context.Context, a alert.Alert, deps EscalateAlertDeps) (sent bool, err error) {
	if a.Level != alert.LevelGrave || len(deps.Recipients) == 0 || deps.Sender == nil {
		return false, nil
	}
	body := report.AlertMarkdown(a)
	msg := email.Message{
		To:      deps.Recipients,
		From:    deps.From,
		Subject: fmt.Sprintf("[%s] Alerta grave en %s", a.Priority, a.Location),
		HTML:    report.HTML(body),
		Text:    body,
		AlertID: a.ID,
		Level:   string(a.Level),
	}
	res, err := deps.Sender.Send(ctx, msg)
	if err != nil {
		return false, fmt.Errorf("escalate alert %s: %w", a.ID, err)
	}
	slog.Info("alert_event", "event", "alert_escalated", "id", a.ID, "message_id", res.MessageID, "recipients", len(deps.Recipients))
	return true, nil
}
