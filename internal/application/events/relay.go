package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"ergosanitas/internal/adapters/storage/document"
	"ergosanitas/internal/domain/alert"
)

// RelayAlertChanges republishes alert writes made by other views as
// AlertChanged events with Remote set. It blocks until ctx is done.
func RelayAlertChanges(ctx context.Context, w document.Watcher, b *Broadcaster) error {
	return w.Watch(ctx, func(c document.Change) {
		if c.Key != document.KeyCurrentAlert {
			return
		}
		ev, ok := alertChangeFrom(c)
		if !ok {
			return
		}
		slog.Debug("alert_event", "event", "remote_change", "type", string(ev.Type), "origin", c.Origin)
		b.Alert.Publish(ev)
	})
}

func alertChangeFrom(c document.Change) (AlertChanged, bool) {
	if c.Removed || c.Value == "" {
		return AlertChanged{Type: AlertClear, Remote: true}, true
	}
	var a alert.Alert
	if err := json.Unmarshal([]byte(c.Value), &a); err != nil {
		slog.Warn("alert_event", "event", "remote_change_unreadable", "origin", c.Origin, "error", err)
		return AlertChanged{}, false
	}
	return AlertChanged{Type: AlertSet, Alert: &a, Remote: true}, true
}
