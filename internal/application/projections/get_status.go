package projections

import (
	"context"

	"ergosanitas/internal/domain/brigadista"
)

// GetStatusDeps holds dependencies for the status projection.
type GetStatusDeps struct {
	StatusStore StatusReader
	Now         Clock
}

// QueryGetStatus returns the brigade status, or available when none was set.
// POST: on error the default status is returned alongside it
func QueryGetStatus(ctx context.Context, deps GetStatusDeps) (brigadista.Status, error) {
	s, found, err := deps.StatusStore.Get(ctx)
	if err != nil || !found {
		return brigadista.Default(deps.Now.now()), err
	}
	return s, nil
}
