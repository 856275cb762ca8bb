package orchestrators

import (
	"context"
	"log/slog"

	"ergosanitas/internal/domain/user"
)

// UserDeps holds dependencies for the user orchestrators.
type UserDeps struct {
	UserStore     UserStore
	SessionStore  SessionStore
	HashPasswords bool
	Now           Clock
}

// ExecuteSeedDefaultUsers returns the user list, seeding the four role
// accounts when no list has ever been stored.
// POST: a list is stored; an existing list (even empty) is never reseeded
// INVARIANT: idempotent
func ExecuteSeedDefaultUsers(ctx context.Context, deps UserDeps) ([]user.User, error) {
	users, found, err := deps.UserStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if found {
		return users, nil
	}

	users = user.Defaults(deps.Now.now())
	if deps.HashPasswords {
		for i := range users {
			hash, err := user.HashPassword(users[i].Password)
			if err != nil {
				return nil, err
			}
			users[i].Password = hash
		}
	}
	if err := deps.UserStore.Replace(ctx, users); err != nil {
		return nil, err
	}
	slog.Info("seed_event", "event", "default_users_seeded", "count", len(users))
	return users, nil
}
