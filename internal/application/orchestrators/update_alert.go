package orchestrators

import (
	"context"
	"log/slog"

	"ergosanitas/internal/application/events"
	"ergosanitas/internal/domain/alert"
	"ergosanitas/internal/domain/apperr"
)

// ExecuteUpdateAlert merges a partial update into the current alert.
// PRE: an unexpired alert exists
// POST: only the fields set in upd changed, UpdatedAt refreshed; alertChanged{update} published
func ExecuteUpdateAlert(ctx context.Context, upd alert.Update, deps SetAlertDeps) (alert.Alert, error) {
	current, err := ExecuteSweepExpiredAlert(ctx, deps)
	if err != nil {
		return alert.Alert{}, err
	}
	if current == nil {
		return alert.Alert{}, apperr.NotFound("alert", "")
	}

	a := *current
	upd.Apply(&a, deps.Now.now())
	if err := deps.AlertStore.Save(ctx, a); err != nil {
		return alert.Alert{}, err
	}

	slog.Info("alert_event", "event", "alert_updated", "id", a.ID)
	publishAlert(deps.Events, events.AlertChanged{Type: events.AlertUpdate, Alert: &a})
	return a, nil
}
