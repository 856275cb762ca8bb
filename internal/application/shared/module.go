// Package shared is the single entry point the panels use to read and change
// the coordination state. Mutations report failures as errors; reads degrade
// to safe defaults and never fail.
package shared

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ergosanitas/internal/adapters/hostinfo"
	"ergosanitas/internal/adapters/metrics"
	"ergosanitas/internal/adapters/notify"
	storeAlert "ergosanitas/internal/adapters/storage/alert"
	storeBrigadista "ergosanitas/internal/adapters/storage/brigadista"
	storeClub "ergosanitas/internal/adapters/storage/club"
	"ergosanitas/internal/adapters/storage/document"
	storeIncident "ergosanitas/internal/adapters/storage/incident"
	storeSession "ergosanitas/internal/adapters/storage/session"
	storeStatistics "ergosanitas/internal/adapters/storage/statistics"
	storeUser "ergosanitas/internal/adapters/storage/user"
	"ergosanitas/internal/application/events"
	"ergosanitas/internal/application/orchestrators"
	"ergosanitas/internal/application/projections"
	"ergosanitas/internal/domain/apperr"
)

// StorageErrorMessage is shown when a document cannot be read or written.
const StorageErrorMessage = "Error de almacenamiento local. Algunos datos pueden no sincronizarse correctamente."

// Deps holds what a Module is built from. Only Documents is required.
type Deps struct {
	Documents     document.Store
	Watcher       document.Watcher    // optional: nil disables cross-view relay
	Events        *events.Broadcaster // optional: created with a metrics failure hook
	Notifier      notify.Notifier     // optional: defaults to notify.LogNotifier
	Metrics       *metrics.Metrics    // optional
	Quota         hostinfo.Probe      // optional: nil omits the disk quota
	HashPasswords bool
	Now           func() time.Time // optional: defaults to time.Now
}

// Module owns the repositories and the event broadcaster for one view.
type Module struct {
	docs          document.Store
	watcher       document.Watcher
	events        *events.Broadcaster
	notifier      notify.Notifier
	metrics       *metrics.Metrics
	quota         hostinfo.Probe
	hashPasswords bool
	now           func() time.Time

	alerts     *storeAlert.DocumentStore
	status     *storeBrigadista.DocumentStore
	incidents  *storeIncident.DocumentStore
	statistics *storeStatistics.DocumentStore
	clubs      *storeClub.DocumentStore
	users      *storeUser.DocumentStore
	sessions   *storeSession.DocumentStore
}

// New builds a Module over deps.Documents.
// PRE: deps.Documents != nil
func New(deps Deps) *Module {
	m := &Module{
		docs:          deps.Documents,
		watcher:       deps.Watcher,
		events:        deps.Events,
		notifier:      deps.Notifier,
		metrics:       deps.Metrics,
		quota:         deps.Quota,
		hashPasswords: deps.HashPasswords,
		now:           deps.Now,

		alerts:     storeAlert.NewDocumentStore(deps.Documents),
		status:     storeBrigadista.NewDocumentStore(deps.Documents),
		incidents:  storeIncident.NewDocumentStore(deps.Documents),
		statistics: storeStatistics.NewDocumentStore(deps.Documents),
		clubs:      storeClub.NewDocumentStore(deps.Documents),
		users:      storeUser.NewDocumentStore(deps.Documents),
		sessions:   storeSession.NewDocumentStore(deps.Documents),
	}
	if m.events == nil {
		m.events = events.NewBroadcaster(events.WithFailureHook(m.metrics.ListenerFailed))
	}
	if m.notifier == nil {
		m.notifier = notify.LogNotifier{}
	}
	if m.watcher == nil {
		m.watcher = document.NoopWatcher{}
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Events exposes the broadcaster for adapters that fan out every topic.
func (m *Module) Events() *events.Broadcaster { return m.events }

// Documents exposes the raw store backing this view.
func (m *Module) Documents() document.Store { return m.docs }

// WatchStorage relays alert writes made by other views until ctx is done.
func (m *Module) WatchStorage(ctx context.Context) error {
	err := events.RelayAlertChanges(ctx, m.watcher, m.events)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("storage_event", "event", "relay_stopped", "error", err)
		return err
	}
	return nil
}

// Notify forwards n to the configured notifier.
func (m *Module) Notify(ctx context.Context, n notify.Notification) {
	m.notifier.Notify(ctx, n)
}

func (m *Module) clock() orchestrators.Clock { return orchestrators.Clock(m.now) }

func (m *Module) projClock() projections.Clock { return projections.Clock(m.now) }

// fail logs, notifies and counts a failed mutation, then returns err unchanged.
func (m *Module) fail(ctx context.Context, op string, err error) error {
	kind := apperr.Kind(err)
	slog.Error("module_event", "event", "operation_failed", "operation", op, "kind", kind, "error", err)
	m.metrics.OperationFailed(op, kind)
	m.notifier.Notify(ctx, notify.New(notify.LevelError, op, userMessage(err)))
	return err
}

// degrade logs, notifies and counts a failed read. The caller returns its fallback.
func (m *Module) degrade(ctx context.Context, op string, err error) {
	kind := apperr.Kind(err)
	slog.Warn("module_event", "event", "read_degraded", "operation", op, "kind", kind, "error", err)
	m.metrics.OperationFailed(op, kind)
	m.notifier.Notify(ctx, notify.New(notify.LevelError, op, StorageErrorMessage))
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, apperr.ErrStorageUnavailable):
		return StorageErrorMessage
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return "Credenciales inválidas"
	case errors.Is(err, apperr.ErrDuplicateUsername):
		return "El nombre de usuario ya existe"
	default:
		return err.Error()
	}
}
