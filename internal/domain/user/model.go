package user

import (
	"crypto/subtle"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ergosanitas/internal/domain/apperr"
)

// Role constants
const (
	RoleAdmin      = "admin"
	RoleBrigada    = "brigada"
	RoleEnfermeria = "enfermeria"
	RoleLiga       = "liga"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleBrigada, RoleEnfermeria, RoleLiga}

// bcryptCost matches the cost used when hashing is enabled.
const bcryptCost = 12

// User is a workstation account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft is the caller-supplied part of a new user.
type Draft struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

// Validate checks that every field is present and the role is known.
// PRE: Draft is populated
// POST: Returns *apperr.ValidationError on the first failing field, nil otherwise
func (d Draft) Validate() error {
	if d.Username == "" {
		return apperr.Required("user", "username")
	}
	if d.Password == "" {
		return apperr.Required("user", "password")
	}
	if d.Role == "" {
		return apperr.Required("user", "role")
	}
	if d.Name == "" {
		return apperr.Required("user", "name")
	}
	if !IsValidRole(d.Role) {
		return apperr.Invalid("user", "role", "must be one of admin, brigada, enfermeria, liga")
	}
	return nil
}

// New enriches a validated draft.
// POST: Active is true, CreatedAt == UpdatedAt == now
func New(d Draft, id string, now time.Time) User {
	return User{
		ID:        id,
		Username:  d.Username,
		Password:  d.Password,
		Role:      d.Role,
		Name:      d.Name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CheckPassword compares plaintext against the stored password, which may be
// plaintext or a bcrypt hash.
// INVARIANT: User fields are not mutated
func (u *User) CheckPassword(plaintext string) bool {
	if IsHashed(u.Password) {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(plaintext)) == 1
}

// HashPassword returns a bcrypt hash of plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsHashed reports whether p looks like a bcrypt hash.
func IsHashed(p string) bool {
	return strings.HasPrefix(p, "$2a$") || strings.HasPrefix(p, "$2b$") || strings.HasPrefix(p, "$2y$")
}

// Redacted returns a copy without the password, for listings.
func (u User) Redacted() User {
	u.Password = ""
	return u
}

// Update is an explicit partial update. Nil fields are left untouched.
type Update struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	Name     *string `json:"name,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Validate rejects updates that would blank a field or set an unknown role.
func (u Update) Validate() error {
	if u.Username != nil && *u.Username == "" {
		return apperr.Required("user", "username")
	}
	if u.Password != nil && *u.Password == "" {
		return apperr.Required("user", "password")
	}
	if u.Name != nil && *u.Name == "" {
		return apperr.Required("user", "name")
	}
	if u.Role != nil && !IsValidRole(*u.Role) {
		return apperr.Invalid("user", "role", "must be one of admin, brigada, enfermeria, liga")
	}
	return nil
}

// Apply merges u into usr and stamps UpdatedAt.
// PRE: u.Validate() == nil
// POST: only non-nil fields changed, UpdatedAt == now
func (u Update) Apply(usr *User, now time.Time) {
	if u.Username != nil {
		usr.Username = *u.Username
	}
	if u.Password != nil {
		usr.Password = *u.Password
	}
	if u.Role != nil {
		usr.Role = *u.Role
	}
	if u.Name != nil {
		usr.Name = *u.Name
	}
	if u.Active != nil {
		usr.Active = *u.Active
	}
	usr.UpdatedAt = now
}

// Defaults returns the four role accounts seeded into an empty workstation.
func Defaults(now time.Time) []User {
	seed := []struct{ id, username, password, role, name string }{
		{"admin_default", "admin", "admin123", RoleAdmin, "Administrador del Sistema"},
		{"brigada_default", "brigada", "brigada123", RoleBrigada, "Samuel Toro Fuentes"},
		{"enfermeria_default", "enfermeria", "enfermeria123", RoleEnfermeria, "María Jiménez"},
		{"liga_default", "liga", "liga123", RoleLiga, "Coordinador de Liga"},
	}
	users := make([]User, 0, len(seed))
	for _, s := range seed {
		users = append(users, User{
			ID:        s.id,
			Username:  s.username,
			Password:  s.password,
			Role:      s.role,
			Name:      s.name,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return users
}

// IsValidRole reports whether role is known.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
