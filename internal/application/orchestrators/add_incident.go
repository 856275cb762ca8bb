package orchestrators

import (
	"context"
	"log/slog"

	"ergosanitas/internal/application/events"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
)

// AddIncidentDeps holds dependencies for AddIncident and UpdateStatistics.
type AddIncidentDeps struct {
	IncidentStore   IncidentHistory
	StatisticsStore StatisticsStore
	Events          *events.Broadcaster
	Now             Clock
}

// ExecuteAddIncident records an incident at the head of the history.
// PRE: draft passes Validate
// POST: history is newest first and at most incident.MaxHistory long;
// statistics recomputed; statisticsUpdated then incidentAdded published
func ExecuteAddIncident(ctx context.Context, draft incident.Draft, deps AddIncidentDeps) (incident.Incident, error) {
	if err := draft.Validate(); err != nil {
		return incident.Incident{}, err
	}
	history, err := deps.IncidentStore.All(ctx)
	if err != nil {
		return incident.Incident{}, err
	}

	now := deps.Now.now()
	inc := incident.New(draft, newID(incidentIDPrefix, now), now)
	history = incident.Prepend(history, inc)
	if err := deps.IncidentStore.Replace(ctx, history); err != nil {
		return incident.Incident{}, err
	}
	slog.Info("incident_event", "event", "incident_added", "id", inc.ID, "severity", string(inc.Severity), "history_len", len(history))

	if _, err := recomputeStatistics(ctx, history, deps); err != nil {
		// the incident is stored; the cache is rebuilt on the next refresh
		slog.Warn("incident_event", "event", "statistics_refresh_failed", "id", inc.ID, "error", err)
	}

	if deps.Events != nil {
		deps.Events.Incident.Publish(inc)
	}
	return inc, nil
}

// ExecuteUpdateStatistics recomputes the aggregate from the full history.
// POST: cached statistics replaced; statisticsUpdated published
func ExecuteUpdateStatistics(ctx context.Context, deps AddIncidentDeps) (statistics.Statistics, error) {
	history, err := deps.IncidentStore.All(ctx)
	if err != nil {
		return statistics.Statistics{}, err
	}
	return recomputeStatistics(ctx, history, deps)
}

func recomputeStatistics(ctx context.Context, history []incident.Incident, deps AddIncidentDeps) (statistics.Statistics, error) {
	s := statistics.Compute(history, deps.Now.now())
	if err := deps.StatisticsStore.Save(ctx, s); err != nil {
		return statistics.Statistics{}, err
	}
	slog.Debug("statistics_event", "event", "statistics_updated", "total", s.Total)
	if deps.Events != nil {
		deps.Events.Statistics.Publish(s)
	}
	return s, nil
}
