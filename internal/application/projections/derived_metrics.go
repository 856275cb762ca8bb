package projections

import (
	"context"

	storeIncident "ergosanitas/internal/adapters/storage/incident"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
)

// MetricsDeps holds dependencies for the derived metrics.
type MetricsDeps struct {
	IncidentStore IncidentReader
	Now           Clock
}

// QueryDaysSinceLastIncident returns whole days since the newest incident of severity.
// POST: statistics.NoIncidentDays when none; statistics.FallbackDays with the error on failure
func QueryDaysSinceLastIncident(ctx context.Context, severity incident.Severity, deps MetricsDeps) (int, error) {
	history, err := deps.IncidentStore.List(ctx, storeIncident.ListFilter{})
	if err != nil {
		return statistics.FallbackDays, err
	}
	return statistics.DaysSinceLastIncident(severity, history, deps.Now.now()), nil
}

// QueryMonthlyTrend returns the month-over-month change in incident count.
// POST: statistics.FallbackTrend with the error on failure
func QueryMonthlyTrend(ctx context.Context, deps MetricsDeps) (int, error) {
	history, err := deps.IncidentStore.List(ctx, storeIncident.ListFilter{})
	if err != nil {
		return statistics.FallbackTrend, err
	}
	return statistics.MonthlyTrend(history, deps.Now.now()), nil
}

// QueryAverageResponseTime returns mean minutes to completion.
// POST: ok is false when no incident is completed or the history is unreadable
func QueryAverageResponseTime(ctx context.Context, deps MetricsDeps) (minutes int, ok bool, err error) {
	history, err := deps.IncidentStore.List(ctx, storeIncident.ListFilter{})
	if err != nil {
		return 0, false, err
	}
	minutes, ok = statistics.AverageResponseTime(history)
	return minutes, ok, nil
}
