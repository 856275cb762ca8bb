package projections

import (
	"context"

	"ergosanitas/internal/domain/user"
)

// GetCurrentUserDeps holds dependencies for the session projection.
type GetCurrentUserDeps struct {
	SessionStore SessionReader
}

// QueryGetCurrentUser returns the signed-in user, or nil.
func QueryGetCurrentUser(ctx context.Context, deps GetCurrentUserDeps) (*user.Session, error) {
	s, found, err := deps.SessionStore.Get(ctx)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}
