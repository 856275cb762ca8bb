package orchestrators

import (
	"context"
	"log/slog"

	"ergosanitas/internal/application/events"
	"ergosanitas/internal/domain/club"
)

// SetClubDataDeps holds dependencies for SetClubData.
type SetClubDataDeps struct {
	ClubStore ClubStore
	Events    *events.Broadcaster
	Now       Clock
}

// ExecuteSetClubData replaces the league roster.
// POST: roster persisted with UpdatedAt == now; clubDataChanged published
func ExecuteSetClubData(ctx context.Context, data club.Data, deps SetClubDataDeps) (club.Data, error) {
	if data.Clubs == nil {
		data.Clubs = []club.Club{}
	}
	data.UpdatedAt = deps.Now.now()
	if err := deps.ClubStore.Save(ctx, data); err != nil {
		return club.Data{}, err
	}

	slog.Info("club_event", "event", "club_data_changed", "clubs", len(data.Clubs))
	if deps.Events != nil {
		deps.Events.ClubData.Publish(data)
	}
	return data, nil
}
