package shared

import (
	"context"

	"ergosanitas/internal/adapters/notify"
	"ergosanitas/internal/application/orchestrators"
	"ergosanitas/internal/application/projections"
)

// ClearedMessage is shown once every key has been removed.
const ClearedMessage = "Todos los datos han sido limpiados"

func (m *Module) usageDeps() projections.GetStorageUsageDeps {
	return projections.GetStorageUsageDeps{Documents: m.docs, Quota: m.quota}
}

// StorageUsage reports bytes held per key. Zero on failure.
func (m *Module) StorageUsage(ctx context.Context) projections.StorageUsage {
	u, err := projections.QueryStorageUsage(ctx, m.usageDeps())
	if err != nil {
		m.degrade(ctx, "getStorageUsage", err)
	}
	return u
}

// SystemInfo reports the module's constants and current usage.
func (m *Module) SystemInfo(ctx context.Context) projections.SystemInfo {
	info, err := projections.QuerySystemInfo(ctx, m.usageDeps())
	if err != nil {
		m.degrade(ctx, "getSystemInfo", err)
	}
	return info
}

// ClearAllData removes every key the module owns. Panels must reload
// afterwards; the success notification says so.
func (m *Module) ClearAllData(ctx context.Context) error {
	if err := orchestrators.ExecuteClearAllData(ctx, orchestrators.ClearAllDataDeps{Documents: m.docs, Events: m.events}); err != nil {
		return m.fail(ctx, "clearAllData", err)
	}
	m.notifier.Notify(ctx, notify.New(notify.LevelSuccess, "clearAllData", ClearedMessage))
	return nil
}

// SweepAndRefresh clears an expired alert and recomputes statistics. Run
// periodically by the scheduler.
func (m *Module) SweepAndRefresh(ctx context.Context) error {
	if _, err := orchestrators.ExecuteSweepExpiredAlert(ctx, m.alertDeps()); err != nil {
		return m.fail(ctx, "sweepExpiredAlert", err)
	}
	if _, err := m.UpdateStatistics(ctx); err != nil {
		return err
	}
	return nil
}
