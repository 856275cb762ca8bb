package orchestrators

import (
	"context"
	"log/slog"

	"ergosanitas/internal/application/events"
	"ergosanitas/internal/domain/alert"
)

// ExecuteClearAlert removes the current alert.
// POST: no alert stored; alertChanged{clear} published carrying the removed alert (nil if none)
func ExecuteClearAlert(ctx context.Context, deps SetAlertDeps) (*alert.Alert, error) {
	previous, found, err := deps.AlertStore.Get(ctx)
	if err != nil {
		// the document may be unreadable; removing it still clears the alert
		slog.Warn("alert_event", "event", "clear_unreadable", "error", err)
	}
	if err := deps.AlertStore.Clear(ctx); err != nil {
		return nil, err
	}

	var prev *alert.Alert
	if found {
		prev = &previous
		slog.Info("alert_event", "event", "alert_cleared", "id", previous.ID)
	}
	publishAlert(deps.Events, events.AlertChanged{Type: events.AlertClear, Alert: prev})
	return prev, nil
}

// ExecuteSweepExpiredAlert returns the current alert, clearing it first if it
// is older than alert.MaxAge.
// POST: returns nil when no alert remains
func ExecuteSweepExpiredAlert(ctx context.Context, deps SetAlertDeps) (*alert.Alert, error) {
	a, found, err := deps.AlertStore.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if a.Expired(deps.Now.now()) {
		slog.Info("alert_event", "event", "alert_expired", "id", a.ID, "created_at", a.CreatedAt)
		if _, err := ExecuteClearAlert(ctx, deps); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &a, nil
}
