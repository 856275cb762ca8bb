package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ergosanitas/internal/adapters/storage/document"
	storeUser "ergosanitas/internal/adapters/storage/user"
	"ergosanitas/internal/domain/apperr"
	"ergosanitas/internal/domain/user"
)

// TestSeedDefaultUsers_Idempotent verifies the four accounts are seeded once.
func TestSeedDefaultUsers_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	users, err := ExecuteSeedDefaultUsers(ctx, f.userDeps())
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("expected 4 users, got %d", len(users))
	}
	again, err := ExecuteSeedDefaultUsers(ctx, f.userDeps())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(again) != 4 {
		t.Errorf("expected 4 users after second call, got %d", len(again))
	}
}

func TestSeedDefaultUsers_EmptyListIsNotReseeded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if err := f.users.Replace(ctx, []user.User{}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	users, err := ExecuteSeedDefaultUsers(ctx, f.userDeps())
	if err != nil || len(users) != 0 {
		t.Errorf("users = %v, err = %v; want empty list kept", users, err)
	}
}

func TestCreateUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	d := user.Draft{Username: "paramedico", Password: "clave", Role: user.RoleBrigada, Name: "Paula"}

	u, err := ExecuteCreateUser(ctx, d, f.userDeps())
	if err != nil {
		t.Fatalf("ExecuteCreateUser: %v", err)
	}
	if !strings.HasPrefix(u.ID, "USER_") || !u.Active {
		t.Errorf("user = %+v", u)
	}
	users, _, _ := f.users.List(ctx)
	if len(users) != 5 {
		t.Errorf("expected defaults + 1 = 5 users, got %d", len(users))
	}

	_, err = ExecuteCreateUser(ctx, d, f.userDeps())
	if !errors.Is(err, apperr.ErrDuplicateUsername) {
		t.Errorf("duplicate create err = %v, want ErrDuplicateUsername", err)
	}
	users, _, _ = f.users.List(ctx)
	if len(users) != 5 {
		t.Errorf("duplicate must not be stored, got %d users", len(users))
	}

	_, err = ExecuteCreateUser(ctx, user.Draft{Username: "x", Password: "y", Role: "coach", Name: "z"}, f.userDeps())
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad role err = %v, want ErrValidation", err)
	}
}

func TestCreateUser_HashesWhenEnabled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	deps := f.userDeps()
	deps.HashPasswords = true

	u, err := ExecuteCreateUser(ctx, user.Draft{Username: "ana", Password: "secreta", Role: user.RoleLiga, Name: "Ana"}, deps)
	if err != nil {
		t.Fatalf("ExecuteCreateUser: %v", err)
	}
	if !user.IsHashed(u.Password) {
		t.Errorf("password stored in plaintext: %q", u.Password)
	}
	if _, err := ExecuteLogin(ctx, LoginInput{Username: "ana", Password: "secreta"}, deps); err != nil {
		t.Errorf("login with hashed password: %v", err)
	}
}

func TestUpdateAndDeleteUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	name := "Coordinadora de Liga"
	u, err := ExecuteUpdateUser(ctx, "liga_default", user.Update{Name: &name}, f.userDeps())
	if err != nil {
		t.Fatalf("ExecuteUpdateUser: %v", err)
	}
	if u.Name != name || u.Username != "liga" {
		t.Errorf("user = %+v", u)
	}

	taken := "admin"
	if _, err := ExecuteUpdateUser(ctx, "liga_default", user.Update{Username: &taken}, f.userDeps()); !errors.Is(err, apperr.ErrDuplicateUsername) {
		t.Errorf("rename to taken username err = %v", err)
	}
	if _, err := ExecuteUpdateUser(ctx, "nobody", user.Update{Name: &name}, f.userDeps()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update missing err = %v, want ErrNotFound", err)
	}

	if err := ExecuteDeleteUser(ctx, "liga_default", f.userDeps()); err != nil {
		t.Fatalf("ExecuteDeleteUser: %v", err)
	}
	users, _, _ := f.users.List(ctx)
	if storeUser.IndexOf(users, "liga_default") >= 0 || len(users) != 3 {
		t.Errorf("users after delete = %+v", users)
	}
	if err := ExecuteDeleteUser(ctx, "liga_default", f.userDeps()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

// TestLogin_FailuresAreIndistinguishable checks wrong username and wrong password fail identically.
func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, errUser := ExecuteLogin(ctx, LoginInput{Username: "nadie", Password: "admin123"}, f.userDeps())
	_, errPass := ExecuteLogin(ctx, LoginInput{Username: "admin", Password: "wrong"}, f.userDeps())
	if !errors.Is(errUser, apperr.ErrInvalidCredentials) || !errors.Is(errPass, apperr.ErrInvalidCredentials) {
		t.Fatalf("errors = %v / %v, want ErrInvalidCredentials", errUser, errPass)
	}
	if errUser.Error() != errPass.Error() {
		t.Errorf("messages differ: %q vs %q", errUser, errPass)
	}
	if _, found, _ := f.sessions.Get(ctx); found {
		t.Error("failed login must not store a session")
	}
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inactive := false
	if _, err := ExecuteUpdateUser(ctx, "brigada_default", user.Update{Active: &inactive}, f.userDeps()); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, err := ExecuteLogin(ctx, LoginInput{Username: "brigada", Password: "brigada123"}, f.userDeps())
	if !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginLogout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	s, err := ExecuteLogin(ctx, LoginInput{Username: "enfermeria", Password: "enfermeria123"}, f.userDeps())
	if err != nil {
		t.Fatalf("ExecuteLogin: %v", err)
	}
	if s.Role != user.RoleEnfermeria || !s.LoginAt.Equal(f.now) {
		t.Errorf("session = %+v", s)
	}
	raw, _, _ := f.docs.Read(ctx, document.KeyCurrentUser)
	if strings.Contains(raw, "enfermeria123") {
		t.Error("session document must not contain the password")
	}

	if err := ExecuteLogout(ctx, f.userDeps()); err != nil {
		t.Fatalf("ExecuteLogout: %v", err)
	}
	if _, found, _ := f.sessions.Get(ctx); found {
		t.Error("session should be cleared")
	}
}
