package orchestrators

import (
	"context"
	"errors"
	"time"

	storeAlert "ergosanitas/internal/adapters/storage/alert"
	storeBrigadista "ergosanitas/internal/adapters/storage/brigadista"
	storeClub "ergosanitas/internal/adapters/storage/club"
	"ergosanitas/internal/adapters/storage/document"
	storeIncident "ergosanitas/internal/adapters/storage/incident"
	storeSession "ergosanitas/internal/adapters/storage/session"
	storeStatistics "ergosanitas/internal/adapters/storage/statistics"
	storeUser "ergosanitas/internal/adapters/storage/user"
	"ergosanitas/internal/application/events"
)

// --- test fixtures ---

type fixture struct {
	docs   *document.MemoryStore
	events *events.Broadcaster
	now    time.Time

	alerts     *storeAlert.DocumentStore
	status     *storeBrigadista.DocumentStore
	incidents  *storeIncident.DocumentStore
	statistics *storeStatistics.DocumentStore
	clubs      *storeClub.DocumentStore
	users      *storeUser.DocumentStore
	sessions   *storeSession.DocumentStore
}

func newFixture() *fixture {
	docs := document.NewMemoryStore()
	return &fixture{
		docs:       docs,
		events:     events.NewBroadcaster(),
		now:        time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC),
		alerts:     storeAlert.NewDocumentStore(docs),
		status:     storeBrigadista.NewDocumentStore(docs),
		incidents:  storeIncident.NewDocumentStore(docs),
		statistics: storeStatistics.NewDocumentStore(docs),
		clubs:      storeClub.NewDocumentStore(docs),
		users:      storeUser.NewDocumentStore(docs),
		sessions:   storeSession.NewDocumentStore(docs),
	}
}

func (f *fixture) clock() Clock { return func() time.Time { return f.now } }

func (f *fixture) alertDeps() SetAlertDeps {
	return SetAlertDeps{AlertStore: f.alerts, Events: f.events, Now: f.clock()}
}

func (f *fixture) incidentDeps() AddIncidentDeps {
	return AddIncidentDeps{IncidentStore: f.incidents, StatisticsStore: f.statistics, Events: f.events, Now: f.clock()}
}

func (f *fixture) userDeps() UserDeps {
	return UserDeps{UserStore: f.users, SessionStore: f.sessions, Now: f.clock()}
}

// --- failing document store ---

var errDiskFull = errors.New("quota exceeded")

type failingDocs struct {
	failReads  bool
	failWrites bool
}

// Read fails when failReads is set; otherwise reports every key absent.
func (s failingDocs) Read(_ context.Context, _ string) (string, bool, error) {
	if s.failReads {
		return "", false, errDiskFull
	}
	return "", false, nil
}

// Write fails when failWrites is set.
func (s failingDocs) Write(_ context.Context, _, _ string) error {
	if s.failWrites {
		return errDiskFull
	}
	return nil
}

// Remove fails when failWrites is set.
func (s failingDocs) Remove(_ context.Context, _ string) error {
	if s.failWrites {
		return errDiskFull
	}
	return nil
}
