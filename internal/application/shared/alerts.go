package shared

import (
	"context"
	"fmt"
	"time"

	"ergosanitas/internal/application/events"
	"ergosanitas/internal/application/orchestrators"
	"ergosanitas/internal/application/projections"
	"ergosanitas/internal/domain/alert"
	"ergosanitas/internal/domain/brigadista"
)

func (m *Module) alertDeps() orchestrators.SetAlertDeps {
	return orchestrators.SetAlertDeps{AlertStore: m.alerts, Events: m.events, Now: m.clock()}
}

// SetAlert validates and stores a new alert, replacing any current one.
func (m *Module) SetAlert(ctx context.Context, d alert.Draft) (alert.Alert, error) {
	a, err := orchestrators.ExecuteSetAlert(ctx, d, m.alertDeps())
	if err != nil {
		return alert.Alert{}, m.fail(ctx, "setAlert", err)
	}
	m.metrics.AlertActivated(string(a.Level))
	return a, nil
}

// GetAlert returns the current alert, or nil. An alert older than
// alert.MaxAge is cleared as a side effect and reported as nil.
func (m *Module) GetAlert(ctx context.Context) *alert.Alert {
	a, err := orchestrators.ExecuteSweepExpiredAlert(ctx, m.alertDeps())
	if err != nil {
		m.degrade(ctx, "getAlert", err)
		return nil
	}
	return a
}

// UpdateAlert merges u into the current alert.
func (m *Module) UpdateAlert(ctx context.Context, u alert.Update) (alert.Alert, error) {
	a, err := orchestrators.ExecuteUpdateAlert(ctx, u, m.alertDeps())
	if err != nil {
		return alert.Alert{}, m.fail(ctx, "updateAlert", err)
	}
	return a, nil
}

// ClearAlert removes the current alert. Clearing when none exists is not an error.
func (m *Module) ClearAlert(ctx context.Context) error {
	prev, err := orchestrators.ExecuteClearAlert(ctx, m.alertDeps())
	if err != nil {
		return m.fail(ctx, "clearAlert", err)
	}
	if prev != nil {
		m.metrics.AlertCleared()
	}
	return nil
}

// OnAlert subscribes fn to alert changes.
func (m *Module) OnAlert(fn func(events.AlertChanged)) *events.Subscription {
	return m.events.Alert.Subscribe(fn)
}

// SetStatus overwrites the brigade availability.
func (m *Module) SetStatus(ctx context.Context, s brigadista.Availability, info brigadista.Info) (brigadista.Status, error) {
	st, err := orchestrators.ExecuteSetStatus(ctx, orchestrators.SetStatusInput{Status: s, Info: info}, orchestrators.SetStatusDeps{
		StatusStore: m.status,
		Events:      m.events,
		Now:         m.clock(),
	})
	if err != nil {
		return brigadista.Status{}, m.fail(ctx, "setBrigadistaStatus", err)
	}
	return st, nil
}

// GetStatus returns the brigade status, defaulting to available.
func (m *Module) GetStatus(ctx context.Context) brigadista.Status {
	st, err := projections.QueryGetStatus(ctx, projections.GetStatusDeps{StatusStore: m.status, Now: m.projClock()})
	if err != nil {
		m.degrade(ctx, "getBrigadistaStatus", err)
	}
	return st
}

// OnStatus subscribes fn to status changes.
func (m *Module) OnStatus(fn func(brigadista.Status)) *events.Subscription {
	return m.events.Status.Subscribe(fn)
}

// FormatElapsed renders the time since start as "MM:SS". Minutes are not
// wrapped into hours.
func (m *Module) FormatElapsed(start time.Time) string {
	return FormatElapsed(start, m.now())
}

// FormatElapsed renders now-start as zero-padded "MM:SS".
// POST: negative spans render as "00:00"
func FormatElapsed(start, now time.Time) string {
	d := now.Sub(start)
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
