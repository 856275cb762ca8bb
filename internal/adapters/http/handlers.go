package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ergosanitas/internal/adapters/http/middleware"
	"ergosanitas/internal/domain/alert"
	"ergosanitas/internal/domain/apperr"
	"ergosanitas/internal/domain/brigadista"
	"ergosanitas/internal/domain/user"
)

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("http_event", "event", "encode_failed", "error", err)
	}
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports a Module error. Internal details stay in the log.
func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	msg := err.Error()
	switch code {
	case http.StatusInternalServerError:
		slog.Error("internal_error", "error", err.Error())
		msg = "internal server error"
	case http.StatusServiceUnavailable:
		msg = "storage unavailable"
	}
	writeJSON(w, code, map[string]string{"error": msg, "kind": apperr.Kind(err)})
}

// requireRoles checks the session for one of roles and returns it.
// Returns false if the request should not proceed.
func requireRoles(w http.ResponseWriter, r *http.Request, roles ...string) (user.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return user.Session{}, false
	}
	if !sess.HasAnyRole(roles...) {
		slog.Warn("auth_denied", "path", r.URL.Path, "username", sess.Username, "role", sess.Role, "required", roles)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return user.Session{}, false
	}
	return sess, true
}

// requirePanel checks the session against the roles of panel.
func requirePanel(w http.ResponseWriter, r *http.Request, panel string) (user.Session, bool) {
	return requireRoles(w, r, user.PanelRoles[panel]...)
}

// handleLogin handles POST /api/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	sess, err := s.mod.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := s.sessions.Create(sess)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, s.secure)
	writeJSON(w, http.StatusOK, sess)
}

// handleLogout handles POST /api/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie(middleware.CookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	// The workstation user is cleared only by the one who holds it.
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		if cur := s.mod.GetCurrentUser(r.Context()); cur != nil && cur.Username == sess.Username {
			if err := s.mod.Logout(r.Context()); err != nil {
				writeError(w, err)
				return
			}
		}
	}
	middleware.ClearSessionCookie(w, s.secure)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession handles GET /api/session
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	panels := make([]string, 0, len(user.PanelRoles))
	for _, p := range []string{user.PanelDashboard, user.PanelBrigada, user.PanelEnfermeria, user.PanelLiga, user.PanelAdmin} {
		if sess.CanAccess(p) {
			panels = append(panels, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": sess, "panels": panels})
}

// handleAlert handles GET/POST/PATCH/DELETE for /api/alert
func (s *Server) handleAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		if _, ok := requirePanel(w, r, user.PanelDashboard); !ok {
			return
		}
		a := s.mod.GetAlert(ctx)
		if a == nil {
			writeJSON(w, http.StatusOK, map[string]any{"alert": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"alert": a, "elapsed": s.mod.FormatElapsed(a.Timestamp)})

	case http.MethodPost:
		sess, ok := requirePanel(w, r, user.PanelBrigada)
		if !ok {
			return
		}
		var draft alert.Draft
		if err := strictDecode(r, &draft); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if draft.Timestamp.IsZero() {
			draft.Timestamp = s.now()
		}
		if draft.ActivatedBy == "" {
			draft.ActivatedBy = sess.Name
		}
		a, err := s.mod.SetAlert(ctx, draft)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)

	case http.MethodPatch:
		if _, ok := requireRoles(w, r, user.RoleAdmin, user.RoleBrigada, user.RoleEnfermeria); !ok {
			return
		}
		var upd alert.Update
		if err := strictDecode(r, &upd); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		a, err := s.mod.UpdateAlert(ctx, upd)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)

	case http.MethodDelete:
		if _, ok := requireRoles(w, r, user.RoleAdmin, user.RoleBrigada, user.RoleEnfermeria); !ok {
			return
		}
		if err := s.mod.ClearAlert(ctx); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleStatus handles GET/POST for /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		if _, ok := requirePanel(w, r, user.PanelDashboard); !ok {
			return
		}
		st := s.mod.GetStatus(ctx)
		writeJSON(w, http.StatusOK, map[string]any{"status": st, "label": brigadista.Label(st.Status)})

	case http.MethodPost:
		sess, ok := requirePanel(w, r, user.PanelBrigada)
		if !ok {
			return
		}
		var input struct {
			Status brigadista.Availability `json:"status"`
			brigadista.Info
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if input.Name == "" {
			input.Name = sess.Name
		}
		if input.Role == "" {
			input.Role = sess.Role
		}
		st, err := s.mod.SetStatus(ctx, input.Status, input.Info)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}
