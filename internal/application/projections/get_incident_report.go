package projections

import (
	"context"

	"ergosanitas/internal/adapters/report"
	storeIncident "ergosanitas/internal/adapters/storage/incident"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
)

// GetIncidentReportQuery limits how many incidents are listed.
type GetIncidentReportQuery struct {
	Limit int
}

// DefaultReportLimit is used when the query carries no limit.
const DefaultReportLimit = 20

// GetIncidentReportDeps holds dependencies for the incident report.
type GetIncidentReportDeps struct {
	IncidentStore   IncidentReader
	StatisticsStore StatisticsReader
	Now             Clock
}

// QueryIncidentReport renders the league report as Markdown.
func QueryIncidentReport(ctx context.Context, query GetIncidentReportQuery, deps GetIncidentReportDeps) (string, error) {
	now := deps.Now.now()
	history, err := deps.IncidentStore.List(ctx, storeIncident.ListFilter{})
	if err != nil {
		return "", err
	}
	stats, found, err := deps.StatisticsStore.Get(ctx)
	if err != nil {
		return "", err
	}
	if !found {
		stats = statistics.Compute(history, now)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultReportLimit
	}
	listed := history
	if len(listed) > limit {
		listed = listed[:limit]
	}

	return report.IncidentMarkdown(report.Summary{
		GeneratedAt:   now,
		History:       listed,
		Stats:         stats,
		SafetyScore:   statistics.SafetyScore(&stats),
		MonthlyTrend:  statistics.MonthlyTrend(history, now),
		DaysSinceLast: statistics.DaysSinceLastIncident(incident.SeverityGrave, history, now),
	}), nil
}
