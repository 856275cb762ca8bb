package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ergosanitas/internal/application/events"
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

// ID prefixes
const (
	incidentIDPrefix = "INC"
	userIDPrefix     = "USER"
)

// newID builds "<prefix>_<unix ms>_<9 random chars>".
func newID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), suffix)
}

// AlertStore persists the current alert.
type AlertStore interface {
	Get(ctx context.Context) (alert.Alert, bool, error)
	Save(ctx context.Context, a alert.Alert) error
	Clear(ctx context.Context) error
}

// StatusStore persists the brigade status.
type StatusStore interface {
	Save(ctx context.Context, s brigadista.Status) error
}

// IncidentHistory is read and rewritten as a whole.
type IncidentHistory interface {
	All(ctx context.Context) ([]incident.Incident, error)
	Replace(ctx context.Context, history []incident.Incident) error
}

// StatisticsStore persists the cached aggregate.
type StatisticsStore interface {
	Save(ctx context.Context, s statistics.Statistics) error
}

// ClubStore persists the league roster.
type ClubStore interface {
	Save(ctx context.Context, d club.Data) error
}

// UserStore persists the user list.
type UserStore interface {
	List(ctx context.Context) ([]user.User, bool, error)
	Replace(ctx context.Context, users []user.User) error
}

// SessionStore persists the signed-in user.
type SessionStore interface {
	Save(ctx context.Context, s user.Session) error
	Clear(ctx context.Context) error
}

func publishAlert(b *events.Broadcaster, ev events.AlertChanged) {
	if b != nil {
		b.Alert.Publish(ev)
	}
}
