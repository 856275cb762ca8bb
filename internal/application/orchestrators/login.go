package orchestrators

import (
	"context"
	"log/slog"

	"ergosanitas/internal/domain/apperr"
	"ergosanitas/internal/domain/user"
)

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// ExecuteLogin checks credentials against active accounts and stores the session.
// POST: on success the session singleton holds the user without password
// INVARIANT: every failure is apperr.ErrInvalidCredentials, whatever the cause
func ExecuteLogin(ctx context.Context, input LoginInput, deps UserDeps) (user.Session, error) {
	if input.Username == "" || input.Password == "" {
		return user.Session{}, apperr.ErrInvalidCredentials
	}
	users, err := ExecuteSeedDefaultUsers(ctx, deps)
	if err != nil {
		return user.Session{}, err
	}

	for i := range users {
		u := &users[i]
		if u.Username != input.Username || !u.Active {
			continue
		}
		if !u.CheckPassword(input.Password) {
			break
		}
		s := user.NewSession(*u, deps.Now.now())
		if err := deps.SessionStore.Save(ctx, s); err != nil {
			return user.Session{}, err
		}
		slog.Info("auth_event", "event", "login_success", "username", u.Username, "role", u.Role)
		return s, nil
	}

	slog.Info("auth_event", "event", "login_failed", "username", input.Username)
	return user.Session{}, apperr.ErrInvalidCredentials
}

// ExecuteLogout clears the session.
// POST: no session stored
func ExecuteLogout(ctx context.Context, deps UserDeps) error {
	if err := deps.SessionStore.Clear(ctx); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "logout")
	return nil
}
