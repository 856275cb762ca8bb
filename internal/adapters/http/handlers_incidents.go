package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"ergosanitas/internal/adapters/report"
	"ergosanitas/internal/application/projections"
	"ergosanitas/internal/domain/club"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/user"
)

// MaxPageSize caps ?limit on list endpoints.
const MaxPageSize = incident.MaxHistory

var reportPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>Reporte de incidentes</title></head>
<body>
{{.}}
</body>
</html>
`))

// intParam reads a non-negative integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

// handleIncidents handles GET/POST for /api/incidents
func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		if _, ok := requirePanel(w, r, user.PanelDashboard); !ok {
			return
		}
		limit, err := intParam(r, "limit", 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		offset, err := intParam(r, "offset", 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		severity := incident.Severity(r.URL.Query().Get("severity"))
		if severity != "" && !incident.IsValidSeverity(severity) {
			http.Error(w, "unknown severity", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, s.mod.ListIncidents(ctx, projections.GetIncidentHistoryQuery{
			Severity: severity,
			Limit:    min(limit, MaxPageSize),
			Offset:   offset,
		}))

	case http.MethodPost:
		sess, ok := requireRoles(w, r, user.RoleAdmin, user.RoleBrigada, user.RoleEnfermeria)
		if !ok {
			return
		}
		var draft incident.Draft
		if err := strictDecode(r, &draft); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if draft.CompletedBy == "" {
			draft.CompletedBy = sess.Name
		}
		inc, err := s.mod.AddIncident(ctx, draft)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, inc)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleStatistics handles GET (cached) and POST (recompute) for /api/statistics
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		if _, ok := requirePanel(w, r, user.PanelDashboard); !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"statistics":  s.mod.GetStatistics(ctx),
			"safetyScore": s.mod.SafetyScore(ctx),
			"monthTrend":  s.mod.MonthlyTrend(ctx),
		})

	case http.MethodPost:
		if _, ok := requireRoles(w, r, user.RoleAdmin, user.RoleLiga); !ok {
			return
		}
		st, err := s.mod.UpdateStatistics(ctx)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleDashboard handles GET /api/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requirePanel(w, r, user.PanelDashboard); !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.mod.Dashboard(r.Context()))
}

// handleClubs handles GET/PUT for /api/clubs
func (s *Server) handleClubs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		if _, ok := requirePanel(w, r, user.PanelDashboard); !ok {
			return
		}
		writeJSON(w, http.StatusOK, s.mod.GetClubData(ctx))

	case http.MethodPut:
		if _, ok := requirePanel(w, r, user.PanelLiga); !ok {
			return
		}
		var data club.Data
		if err := strictDecode(r, &data); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		saved, err := s.mod.SetClubData(ctx, data)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, saved)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleIncidentReport handles GET /reports/incidents (HTML, or Markdown with ?format=md)
func (s *Server) handleIncidentReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireRoles(w, r, user.RoleAdmin, user.RoleLiga, user.RoleEnfermeria); !ok {
		return
	}
	limit, err := intParam(r, "limit", projections.DefaultReportLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	md, err := s.mod.IncidentReport(r.Context(), min(limit, MaxPageSize))
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	reportPage.Execute(w, template.HTML(report.HTML(md)))
}
