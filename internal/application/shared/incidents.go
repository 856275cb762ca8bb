package shared

import (
	"context"

	"ergosanitas/internal/application/events"
	"ergosanitas/internal/application/orchestrators"
	"ergosanitas/internal/application/projections"
	"ergosanitas/internal/domain/club"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
)

func (m *Module) incidentDeps() orchestrators.AddIncidentDeps {
	return orchestrators.AddIncidentDeps{
		IncidentStore:   m.incidents,
		StatisticsStore: m.statistics,
		Events:          m.events,
		Now:             m.clock(),
	}
}

// AddIncident records an incident and refreshes the cached statistics.
func (m *Module) AddIncident(ctx context.Context, d incident.Draft) (incident.Incident, error) {
	inc, err := orchestrators.ExecuteAddIncident(ctx, d, m.incidentDeps())
	if err != nil {
		return incident.Incident{}, m.fail(ctx, "addIncident", err)
	}
	m.metrics.IncidentAdded(string(inc.Severity))
	return inc, nil
}

// GetIncidentHistory returns the newest-first history. Never nil.
func (m *Module) GetIncidentHistory(ctx context.Context) []incident.Incident {
	return m.ListIncidents(ctx, projections.GetIncidentHistoryQuery{})
}

// ListIncidents returns a filtered page of the history. Never nil.
func (m *Module) ListIncidents(ctx context.Context, q projections.GetIncidentHistoryQuery) []incident.Incident {
	history, err := projections.QueryGetIncidentHistory(ctx, q, projections.GetIncidentHistoryDeps{IncidentStore: m.incidents})
	if err != nil {
		m.degrade(ctx, "getIncidentHistory", err)
	}
	return history
}

// OnIncident subscribes fn to new incidents.
func (m *Module) OnIncident(fn func(incident.Incident)) *events.Subscription {
	return m.events.Incident.Subscribe(fn)
}

// UpdateStatistics recomputes and stores the aggregate.
func (m *Module) UpdateStatistics(ctx context.Context) (statistics.Statistics, error) {
	s, err := orchestrators.ExecuteUpdateStatistics(ctx, m.incidentDeps())
	if err != nil {
		return statistics.Statistics{}, m.fail(ctx, "updateStatistics", err)
	}
	m.metrics.ObserveSafetyScore(statistics.SafetyScore(&s))
	return s, nil
}

// GetStatistics returns the cached aggregate, computing it when none is
// cached. Returns nil when storage is unreadable.
func (m *Module) GetStatistics(ctx context.Context) *statistics.Statistics {
	s, found, err := projections.QueryGetStatistics(ctx, projections.GetStatisticsDeps{StatisticsStore: m.statistics})
	if err != nil {
		m.degrade(ctx, "getStatistics", err)
		return nil
	}
	if found {
		return &s
	}
	s, err = orchestrators.ExecuteUpdateStatistics(ctx, m.incidentDeps())
	if err != nil {
		m.degrade(ctx, "getStatistics", err)
		return nil
	}
	return &s
}

// OnStatistics subscribes fn to statistics refreshes.
func (m *Module) OnStatistics(fn func(statistics.Statistics)) *events.Subscription {
	return m.events.Statistics.Subscribe(fn)
}

func (m *Module) metricsDeps() projections.MetricsDeps {
	return projections.MetricsDeps{IncidentStore: m.incidents, Now: m.projClock()}
}

// DaysSinceLastIncident returns days since the newest incident of severity,
// statistics.NoIncidentDays when none, statistics.FallbackDays on failure.
func (m *Module) DaysSinceLastIncident(ctx context.Context, severity incident.Severity) int {
	if severity == "" {
		severity = incident.SeverityGrave
	}
	days, err := projections.QueryDaysSinceLastIncident(ctx, severity, m.metricsDeps())
	if err != nil {
		m.degrade(ctx, "getDaysSinceLastIncident", err)
	}
	return days
}

// MonthlyTrend returns the month-over-month percent change, 0 on failure.
func (m *Module) MonthlyTrend(ctx context.Context) int {
	trend, err := projections.QueryMonthlyTrend(ctx, m.metricsDeps())
	if err != nil {
		m.degrade(ctx, "getMonthlyTrend", err)
	}
	return trend
}

// SafetyScore scores the cached statistics, 100 with no statistics and
// statistics.FallbackSafetyScore on failure.
func (m *Module) SafetyScore(ctx context.Context) int {
	s, _, err := projections.QueryGetStatistics(ctx, projections.GetStatisticsDeps{StatisticsStore: m.statistics})
	if err != nil {
		m.degrade(ctx, "getSafetyScore", err)
		return statistics.FallbackSafetyScore
	}
	score := statistics.SafetyScore(&s)
	m.metrics.ObserveSafetyScore(score)
	return score
}

// Dashboard builds the home panel overview.
func (m *Module) Dashboard(ctx context.Context) projections.DashboardResult {
	d, err := projections.QueryGetDashboard(ctx, projections.GetDashboardDeps{
		AlertStore:      m.alerts,
		StatusStore:     m.status,
		IncidentStore:   m.incidents,
		StatisticsStore: m.statistics,
		ClubStore:       m.clubs,
		Now:             m.projClock(),
	})
	if err != nil {
		m.degrade(ctx, "getDashboard", err)
	}
	return d
}

// IncidentReport renders the league report as Markdown.
func (m *Module) IncidentReport(ctx context.Context, limit int) (string, error) {
	md, err := projections.QueryIncidentReport(ctx, projections.GetIncidentReportQuery{Limit: limit}, projections.GetIncidentReportDeps{
		IncidentStore:   m.incidents,
		StatisticsStore: m.statistics,
		Now:             m.projClock(),
	})
	if err != nil {
		return "", m.fail(ctx, "incidentReport", err)
	}
	return md, nil
}

// SetClubData replaces the league roster.
func (m *Module) SetClubData(ctx context.Context, d club.Data) (club.Data, error) {
	out, err := orchestrators.ExecuteSetClubData(ctx, d, orchestrators.SetClubDataDeps{
		ClubStore: m.clubs,
		Events:    m.events,
		Now:       m.clock(),
	})
	if err != nil {
		return club.Data{}, m.fail(ctx, "setClubData", err)
	}
	return out, nil
}

// GetClubData returns the roster, the four default clubs when none is
// stored, or an empty roster when storage is unreadable.
func (m *Module) GetClubData(ctx context.Context) club.Data {
	d, err := projections.QueryGetClubData(ctx, projections.GetClubDataDeps{ClubStore: m.clubs})
	if err != nil {
		m.degrade(ctx, "getClubData", err)
	}
	return d
}

// OnClubData subscribes fn to roster changes.
func (m *Module) OnClubData(fn func(club.Data)) *events.Subscription {
	return m.events.ClubData.Subscribe(fn)
}
