package projections

import (
	"context"

	"ergosanitas/internal/domain/club"
)

// GetClubDataDeps holds dependencies for the roster projection.
type GetClubDataDeps struct {
	ClubStore ClubReader
}

// QueryGetClubData returns the stored roster, the four default clubs when none
// is stored, or an empty roster when the store fails.
func QueryGetClubData(ctx context.Context, deps GetClubDataDeps) (club.Data, error) {
	d, found, err := deps.ClubStore.Get(ctx)
	if err != nil {
		return club.Empty(), err
	}
	if !found {
		return club.Default(), nil
	}
	return d, nil
}
