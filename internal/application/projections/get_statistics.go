package projections

import (
	"context"

	"ergosanitas/internal/domain/statistics"
)

// GetStatisticsDeps holds dependencies for the statistics projection.
type GetStatisticsDeps struct {
	StatisticsStore StatisticsReader
}

// QueryGetStatistics returns the cached aggregate as last computed.
// POST: found is false when nothing is cached; the caller decides whether to recompute
func QueryGetStatistics(ctx context.Context, deps GetStatisticsDeps) (stats statistics.Statistics, found bool, err error) {
	return deps.StatisticsStore.Get(ctx)
}
