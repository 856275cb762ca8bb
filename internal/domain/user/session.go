package user

import (
	"slices"
	"time"
)

// Session is the signed-in user of a workstation. It never carries a password.
type Session struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	Name     string    `json:"name"`
	LoginAt  time.Time `json:"loginAt"`
}

// NewSession starts a session for u.
func NewSession(u User, now time.Time) Session {
	return Session{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		Name:     u.Name,
		LoginAt:  now,
	}
}

// HasRole reports whether the session has exactly role.
func (s *Session) HasRole(role string) bool {
	return s != nil && s.Role == role
}

// HasAnyRole reports whether the session has one of roles.
func (s *Session) HasAnyRole(roles ...string) bool {
	return s != nil && slices.Contains(roles, s.Role)
}

// Panel names of the coordination UI.
const (
	PanelDashboard  = "dashboard"
	PanelBrigada    = "brigada"
	PanelEnfermeria = "enfermeria"
	PanelLiga       = "liga"
	PanelAdmin      = "admin"
)

// PanelRoles lists the roles allowed into each panel.
var PanelRoles = map[string][]string{
	PanelDashboard:  {RoleAdmin, RoleBrigada, RoleEnfermeria, RoleLiga},
	PanelBrigada:    {RoleAdmin, RoleBrigada},
	PanelEnfermeria: {RoleAdmin, RoleEnfermeria},
	PanelLiga:       {RoleAdmin, RoleLiga},
	PanelAdmin:      {RoleAdmin},
}

// CanAccess reports whether the session may open panel.
func (s *Session) CanAccess(panel string) bool {
	return s.HasAnyRole(PanelRoles[panel]...)
}
