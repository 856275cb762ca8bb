package web

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ergosanitas/internal/adapters/http/perf"
	"ergosanitas/internal/adapters/notify"
	"ergosanitas/internal/domain/user"
)

// redact strips passwords before users leave the server.
func redact(users []user.User) []user.User {
	out := make([]user.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Redacted())
	}
	return out
}

// handleUsers handles GET/POST for /api/users
// PRE: User must be authenticated as admin
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := requirePanel(w, r, user.PanelAdmin); !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, redact(s.mod.GetUsers(ctx)))

	case http.MethodPost:
		var draft user.Draft
		if err := strictDecode(r, &draft); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		u, err := s.mod.CreateUser(ctx, draft)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, u.Redacted())

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleUser handles PATCH/DELETE for /api/users/{id}
// PRE: User must be authenticated as admin
// POST: browser sessions of a deleted or deactivated user are revoked
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin, ok := requirePanel(w, r, user.PanelAdmin)
	if !ok {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var upd user.Update
		if err := strictDecode(r, &upd); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		before := s.findUser(r, id)
		u, err := s.mod.UpdateUser(ctx, id, upd)
		if err != nil {
			writeError(w, err)
			return
		}
		if before != nil && (!u.Active || u.Username != before.Username || u.Role != before.Role) {
			n := s.sessions.DeleteUser(before.Username)
			slog.Info("auth_event", "event", "sessions_revoked", "username", before.Username, "count", n, "by", admin.Username)
		}
		writeJSON(w, http.StatusOK, u.Redacted())

	case http.MethodDelete:
		before := s.findUser(r, id)
		if err := s.mod.DeleteUser(ctx, id); err != nil {
			writeError(w, err)
			return
		}
		if before != nil {
			n := s.sessions.DeleteUser(before.Username)
			slog.Info("auth_event", "event", "sessions_revoked", "username", before.Username, "count", n, "by", admin.Username)
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) findUser(r *http.Request, id string) *user.User {
	for _, u := range s.mod.GetUsers(r.Context()) {
		if u.ID == id {
			return &u
		}
	}
	return nil
}

// handleSystem handles GET /api/system
func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requirePanel(w, r, user.PanelAdmin); !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.mod.SystemInfo(r.Context()))
}

// handleData handles DELETE /api/data (wipe every stored document)
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	admin, ok := requirePanel(w, r, user.PanelAdmin)
	if !ok {
		return
	}
	if err := s.mod.ClearAllData(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	slog.Warn("admin_event", "event", "data_cleared", "by", admin.Username)
	writeJSON(w, http.StatusOK, map[string]any{"cleared": true, "reload": true})
}

// handleAdminPerf handles GET /api/admin/perf?minutes=N
func (s *Server) handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requirePanel(w, r, user.PanelAdmin); !ok {
		return
	}
	if s.perf == nil {
		writeJSON(w, http.StatusOK, perf.Snapshot{})
		return
	}
	minutes, err := intParam(r, "minutes", 15)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	since := s.now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, s.perf.Snapshot(since, 10))
}

// handleNotifications handles GET /api/notifications?limit=N
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if s.feed == nil {
		writeJSON(w, http.StatusOK, []notify.Notification{})
		return
	}
	writeJSON(w, http.StatusOK, s.feed.Recent(limit))
}
