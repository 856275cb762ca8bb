// Package hostinfo probes the host for the storage diagnostics.
package hostinfo

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
)

// DiskQuota describes the filesystem holding the document store.
type DiskQuota struct {
	Path        string  `json:"path"`
	TotalBytes  uint64  `json:"totalBytes"`
	FreeBytes   uint64  `json:"freeBytes"`
	UsedPercent float64 `json:"usedPercent"`
}

// Probe reports the quota available to the store.
type Probe interface {
	Quota(ctx context.Context) (DiskQuota, error)
}

// DiskProbe reads filesystem usage for Path.
type DiskProbe struct {
	Path string
}

// NewDiskProbe creates a probe for the filesystem containing path.
func NewDiskProbe(path string) *DiskProbe {
	if path == "" {
		path = "."
	}
	return &DiskProbe{Path: path}
}

// Quota returns total and free bytes for the probe's filesystem.
func (p *DiskProbe) Quota(ctx context.Context) (DiskQuota, error) {
	u, err := disk.UsageWithContext(ctx, p.Path)
	if err != nil {
		return DiskQuota{}, fmt.Errorf("disk usage %s: %w", p.Path, err)
	}
	return DiskQuota{
		Path:        u.Path,
		TotalBytes:  u.Total,
		FreeBytes:   u.Free,
		UsedPercent: u.UsedPercent,
	}, nil
}

// StaticProbe returns a fixed quota. Used by the in-memory backend and tests.
type StaticProbe struct {
	Value DiskQuota
	Err   error
}

// Quota returns the configured value.
func (p StaticProbe) Quota(context.Context) (DiskQuota, error) {
	return p.Value, p.Err
}
