package projections

import (
	"context"

	storeIncident "ergosanitas/internal/adapters/storage/incident"
	"ergosanitas/internal/domain/incident"
)

// GetIncidentHistoryQuery carries optional filters. The zero value returns everything.
type GetIncidentHistoryQuery struct {
	Severity incident.Severity
	Limit    int
	Offset   int
}

// GetIncidentHistoryDeps holds dependencies for the history projection.
type GetIncidentHistoryDeps struct {
	IncidentStore IncidentReader
}

// QueryGetIncidentHistory returns incidents newest first.
// POST: never nil; empty on error
func QueryGetIncidentHistory(ctx context.Context, query GetIncidentHistoryQuery, deps GetIncidentHistoryDeps) ([]incident.Incident, error) {
	history, err := deps.IncidentStore.List(ctx, storeIncident.ListFilter{
		Severity: query.Severity,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return []incident.Incident{}, err
	}
	return history, nil
}
