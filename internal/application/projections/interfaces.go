package projections

import (
	"context"
	"time"

	storeIncident "ergosanitas/internal/adapters/storage/incident"
	"ergosanitas/internal/domain/alert"
	"ergosanitas/internal/domain/brigadista"
	"ergosanitas/internal/domain/club"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
	"ergosanitas/internal/domain/user"
)

// Clock returns the current time. A nil Clock means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// AlertReader reads the current alert.
type AlertReader interface {
	Get(ctx context.Context) (alert.Alert, bool, error)
}

// StatusReader reads the brigade status.
type StatusReader interface {
	Get(ctx context.Context) (brigadista.Status, bool, error)
}

// IncidentReader lists the incident history.
type IncidentReader interface {
	List(ctx context.Context, filter storeIncident.ListFilter) ([]incident.Incident, error)
}

// StatisticsReader reads the cached aggregate.
type StatisticsReader interface {
	Get(ctx context.Context) (statistics.Statistics, bool, error)
}

// ClubReader reads the league roster.
type ClubReader interface {
	Get(ctx context.Context) (club.Data, bool, error)
}

// SessionReader reads the signed-in user.
type SessionReader interface {
	Get(ctx context.Context) (user.Session, bool, error)
}

// DocumentReader reads raw documents.
type DocumentReader interface {
	Read(ctx context.Context, key string) (string, bool, error)
}
