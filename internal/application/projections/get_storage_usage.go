package projections

import (
	"context"
	"fmt"

	"ergosanitas/internal/adapters/hostinfo"
	"ergosanitas/internal/adapters/storage/document"
	"ergosanitas/internal/domain/alert"
	"ergosanitas/internal/domain/brigadista"
	"ergosanitas/internal/domain/user"
)

// Version is reported by the system info projection.
const Version = "1.0.0"

// StorageUsage reports the bytes held under each module key.
type StorageUsage struct {
	Total     int                 `json:"total"`
	Breakdown map[string]int      `json:"breakdown"`
	Formatted string              `json:"formatted"`
	Quota     *hostinfo.DiskQuota `json:"quota,omitempty"`
}

// GetStorageUsageDeps holds dependencies for the storage diagnostics.
type GetStorageUsageDeps struct {
	Documents DocumentReader
	Quota     hostinfo.Probe // optional: nil skips the quota probe
}

// QueryStorageUsage sums the stored value sizes per semantic key name.
// POST: on error returns the zero usage ("0 KB") with the error
func QueryStorageUsage(ctx context.Context, deps GetStorageUsageDeps) (StorageUsage, error) {
	usage := StorageUsage{Breakdown: map[string]int{}}
	for _, k := range document.Keys() {
		v, found, err := deps.Documents.Read(ctx, k.Key)
		if err != nil {
			return StorageUsage{Breakdown: map[string]int{}, Formatted: "0 KB"}, err
		}
		if !found {
			continue
		}
		usage.Breakdown[k.Name] = len(v)
		usage.Total += len(v)
	}
	usage.Formatted = fmt.Sprintf("%.2f KB", float64(usage.Total)/1024)

	if deps.Quota != nil {
		if q, err := deps.Quota.Quota(ctx); err == nil {
			usage.Quota = &q
		}
	}
	return usage, nil
}

// SystemInfo describes the module for diagnostics.
type SystemInfo struct {
	Version          string                    `json:"version"`
	StorageKeys      []document.Named          `json:"storageKeys"`
	ValidStatuses    []brigadista.Availability `json:"validStatuses"`
	ValidAlertLevels []alert.Level             `json:"validAlertLevels"`
	ValidRoles       []string                  `json:"validRoles"`
	StorageUsage     StorageUsage              `json:"storageUsage"`
}

// QuerySystemInfo returns the module's constants together with current usage.
func QuerySystemInfo(ctx context.Context, deps GetStorageUsageDeps) (SystemInfo, error) {
	usage, err := QueryStorageUsage(ctx, deps)
	return SystemInfo{
		Version:          Version,
		StorageKeys:      document.Keys(),
		ValidStatuses:    append([]brigadista.Availability(nil), brigadista.ValidStatuses...),
		ValidAlertLevels: append([]alert.Level(nil), alert.ValidLevels...),
		ValidRoles:       append([]string(nil), user.ValidRoles...),
		StorageUsage:     usage,
	}, err
}
