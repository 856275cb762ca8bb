package orchestrators

import (
	"context"
	"log/slog"

	"ergosanitas/internal/application/events"
	"ergosanitas/internal/domain/brigadista"
)

// SetStatusDeps holds dependencies for SetStatus.
type SetStatusDeps struct {
	StatusStore StatusStore
	Events      *events.Broadcaster
	Now         Clock
}

// SetStatusInput carries input for the orchestrator.
type SetStatusInput struct {
	Status brigadista.Availability
	Info   brigadista.Info
}

// ExecuteSetStatus overwrites the brigade availability.
// PRE: Status is available, busy or emergency
// POST: status persisted; statusChanged published
func ExecuteSetStatus(ctx context.Context, input SetStatusInput, deps SetStatusDeps) (brigadista.Status, error) {
	if err := brigadista.Validate(input.Status); err != nil {
		return brigadista.Status{}, err
	}
	s := brigadista.New(input.Status, input.Info, deps.Now.now())
	if err := deps.StatusStore.Save(ctx, s); err != nil {
		return brigadista.Status{}, err
	}

	slog.Info("status_event", "event", "status_changed", "status", string(s.Status))
	if deps.Events != nil {
		deps.Events.Status.Publish(s)
	}
	return s, nil
}
