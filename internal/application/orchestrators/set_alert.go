package orchestrators

import (
	"context"
	"log/slog"

	"ergosanitas/internal/application/events"
	"ergosanitas/internal/domain/alert"
)

// SetAlertDeps holds dependencies for the alert orchestrators.
type SetAlertDeps struct {
	AlertStore AlertStore
	Events     *events.Broadcaster
	Now        Clock
}

// ExecuteSetAlert activates a new alert, replacing any current one.
// PRE: draft carries level, location, type and timestamp
// POST: alert persisted with status active; alertChanged{set} published
// INVARIANT: at most one alert is stored
func ExecuteSetAlert(ctx context.Context, draft alert.Draft, deps SetAlertDeps) (alert.Alert, error) {
	if err := draft.Validate(); err != nil {
		return alert.Alert{}, err
	}
	now := deps.Now.now()
	a := alert.New(draft, newID(incidentIDPrefix, now), now)

	if err := deps.AlertStore.Save(ctx, a); err != nil {
		return alert.Alert{}, err
	}

	slog.Info("alert_event", "event", "alert_set", "id", a.ID, "level", string(a.Level), "location", a.Location)
	publishAlert(deps.Events, events.AlertChanged{Type: events.AlertSet, Alert: &a})
	return a, nil
}
