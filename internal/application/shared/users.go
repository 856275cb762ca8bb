package shared

import (
	"context"

	"ergosanitas/internal/application/orchestrators"
	"ergosanitas/internal/application/projections"
	"ergosanitas/internal/domain/user"
)

func (m *Module) userDeps() orchestrators.UserDeps {
	return orchestrators.UserDeps{
		UserStore:     m.users,
		SessionStore:  m.sessions,
		HashPasswords: m.hashPasswords,
		Now:           m.clock(),
	}
}

// CreateUser adds an account with a unique username.
func (m *Module) CreateUser(ctx context.Context, d user.Draft) (user.User, error) {
	u, err := orchestrators.ExecuteCreateUser(ctx, d, m.userDeps())
	if err != nil {
		return user.User{}, m.fail(ctx, "createUser", err)
	}
	m.metrics.UserCreated()
	return u, nil
}

// GetUsers returns every account, seeding the defaults on first use.
// Returns an empty list when storage is unreadable.
func (m *Module) GetUsers(ctx context.Context) []user.User {
	users, err := orchestrators.ExecuteSeedDefaultUsers(ctx, m.userDeps())
	if err != nil {
		m.degrade(ctx, "getUsers", err)
		return []user.User{}
	}
	return users
}

// UpdateUser applies u to the account with id.
func (m *Module) UpdateUser(ctx context.Context, id string, u user.Update) (user.User, error) {
	out, err := orchestrators.ExecuteUpdateUser(ctx, id, u, m.userDeps())
	if err != nil {
		return user.User{}, m.fail(ctx, "updateUser", err)
	}
	return out, nil
}

// DeleteUser removes the account with id.
func (m *Module) DeleteUser(ctx context.Context, id string) error {
	if err := orchestrators.ExecuteDeleteUser(ctx, id, m.userDeps()); err != nil {
		return m.fail(ctx, "deleteUser", err)
	}
	return nil
}

// Login checks credentials and stores the session.
func (m *Module) Login(ctx context.Context, username, password string) (user.Session, error) {
	s, err := orchestrators.ExecuteLogin(ctx, orchestrators.LoginInput{Username: username, Password: password}, m.userDeps())
	m.metrics.Login(err == nil)
	if err != nil {
		return user.Session{}, m.fail(ctx, "login", err)
	}
	return s, nil
}

// Logout clears the session.
func (m *Module) Logout(ctx context.Context) error {
	if err := orchestrators.ExecuteLogout(ctx, m.userDeps()); err != nil {
		return m.fail(ctx, "logout", err)
	}
	return nil
}

// GetCurrentUser returns the signed-in user, or nil.
func (m *Module) GetCurrentUser(ctx context.Context) *user.Session {
	s, err := projections.QueryGetCurrentUser(ctx, projections.GetCurrentUserDeps{SessionStore: m.sessions})
	if err != nil {
		m.degrade(ctx, "getCurrentUser", err)
		return nil
	}
	return s
}
