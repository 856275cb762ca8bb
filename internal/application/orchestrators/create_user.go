package orchestrators

import (
	"context"
	"log/slog"

	storeUser "ergosanitas/internal/adapters/storage/user"
	"ergosanitas/internal/domain/apperr"
	"ergosanitas/internal/domain/user"
)

// ExecuteCreateUser adds an account.
// PRE: draft has username, password, role and name; role is known
// POST: user stored active with a USER_ id
// INVARIANT: usernames are unique (exact match)
func ExecuteCreateUser(ctx context.Context, draft user.Draft, deps UserDeps) (user.User, error) {
	if err := draft.Validate(); err != nil {
		return user.User{}, err
	}
	users, err := ExecuteSeedDefaultUsers(ctx, deps)
	if err != nil {
		return user.User{}, err
	}
	if _, taken := storeUser.FindByUsername(users, draft.Username); taken {
		slog.Info("user_event", "event", "create_rejected", "username", draft.Username, "reason", "duplicate")
		return user.User{}, apperr.ErrDuplicateUsername
	}

	if deps.HashPasswords {
		hash, err := user.HashPassword(draft.Password)
		if err != nil {
			return user.User{}, err
		}
		draft.Password = hash
	}

	now := deps.Now.now()
	u := user.New(draft, newID(userIDPrefix, now), now)
	if err := deps.UserStore.Replace(ctx, append(users, u)); err != nil {
		return user.User{}, err
	}

	slog.Info("user_event", "event", "user_created", "id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}
