package orchestrators

import (
	"context"
	"log/slog"

	storeUser "ergosanitas/internal/adapters/storage/user"
	"ergosanitas/internal/domain/apperr"
	"ergosanitas/internal/domain/user"
)

// ExecuteUpdateUser merges a partial update into one account.
// PRE: id exists
// POST: only the fields set in upd changed, UpdatedAt refreshed
// INVARIANT: usernames stay unique
func ExecuteUpdateUser(ctx context.Context, id string, upd user.Update, deps UserDeps) (user.User, error) {
	if err := upd.Validate(); err != nil {
		return user.User{}, err
	}
	users, err := ExecuteSeedDefaultUsers(ctx, deps)
	if err != nil {
		return user.User{}, err
	}
	idx := storeUser.IndexOf(users, id)
	if idx < 0 {
		return user.User{}, apperr.NotFound("user", id)
	}
	if upd.Username != nil {
		if other, taken := storeUser.FindByUsername(users, *upd.Username); taken && other.ID != id {
			return user.User{}, apperr.ErrDuplicateUsername
		}
	}
	if upd.Password != nil && deps.HashPasswords {
		hash, err := user.HashPassword(*upd.Password)
		if err != nil {
			return user.User{}, err
		}
		upd.Password = &hash
	}

	upd.Apply(&users[idx], deps.Now.now())
	if err := deps.UserStore.Replace(ctx, users); err != nil {
		return user.User{}, err
	}

	slog.Info("user_event", "event", "user_updated", "id", id)
	return users[idx], nil
}

// ExecuteDeleteUser removes one account.
// PRE: id exists
// POST: no user with id remains
func ExecuteDeleteUser(ctx context.Context, id string, deps UserDeps) error {
	users, err := ExecuteSeedDefaultUsers(ctx, deps)
	if err != nil {
		return err
	}
	idx := storeUser.IndexOf(users, id)
	if idx < 0 {
		return apperr.NotFound("user", id)
	}
	remaining := append(users[:idx:idx], users[idx+1:]...)
	if err := deps.UserStore.Replace(ctx, remaining); err != nil {
		return err
	}

	slog.Info("user_event", "event", "user_deleted", "id", id)
	return nil
}
