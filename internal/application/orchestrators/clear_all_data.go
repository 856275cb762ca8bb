package orchestrators

import (
	"context"
	"log/slog"

	"ergosanitas/internal/adapters/storage/document"
	"ergosanitas/internal/application/events"
)

// ClearAllDataDeps holds dependencies for ClearAllData.
type ClearAllDataDeps struct {
	Documents document.Store
	Events    *events.Broadcaster
}

// ExecuteClearAllData removes every key the module owns.
// POST: all keys absent; alertChanged{clear} published; the next user read reseeds defaults
func ExecuteClearAllData(ctx context.Context, deps ClearAllDataDeps) error {
	for _, k := range document.Keys() {
		if err := document.Delete(ctx, deps.Documents, k.Key); err != nil {
			return err
		}
	}
	slog.Warn("storage_event", "event", "all_data_cleared", "keys", len(document.Keys()))
	publishAlert(deps.Events, events.AlertChanged{Type: events.AlertClear})
	return nil
}
