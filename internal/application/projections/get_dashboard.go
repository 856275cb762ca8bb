package projections

import (
	"context"
	"errors"
	"fmt"

	storeIncident "ergosanitas/internal/adapters/storage/incident"
	"ergosanitas/internal/domain/brigadista"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
)

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	AlertStore      AlertReader
	StatusStore     StatusReader
	IncidentStore   IncidentReader
	StatisticsStore StatisticsReader
	ClubStore       ClubReader
	Now             Clock
}

// DashboardResult carries the system overview shown on the home panel.
type DashboardResult struct {
	DaysWithoutIncidents int    `json:"daysWithoutIncidents"`
	TotalIncidents       int    `json:"totalIncidents"`
	ActiveAlerts         int    `json:"activeAlerts"`
	ActiveClubs          int    `json:"activeClubs"`
	AlertsActivated      int    `json:"alertsActivated"`
	ResponseTime         string `json:"responseTime"`
	IncidentsRegistered  int    `json:"incidentsRegistered"`
	NurseStatus          string `json:"nurseStatus"`
	MonthlyTrend         string `json:"monthlyTrend"`
	SafetyScore          int    `json:"safetyScore"`
}

// QueryGetDashboard builds the overview from every shared document.
// Each section degrades to its fallback independently; the joined error
// reports every section that failed.
// POST: an expired alert counts as no active alert; statistics are computed
// in memory when none are cached
func QueryGetDashboard(ctx context.Context, deps GetDashboardDeps) (DashboardResult, error) {
	now := deps.Now.now()
	var errs []error

	result := DashboardResult{
		DaysWithoutIncidents: statistics.FallbackDays,
		ResponseTime:         "--",
		NurseStatus:          brigadista.Label(brigadista.Available),
		MonthlyTrend:         formatTrend(statistics.FallbackTrend),
		SafetyScore:          statistics.FallbackSafetyScore,
	}

	history, err := deps.IncidentStore.List(ctx, storeIncident.ListFilter{})
	if err != nil {
		errs = append(errs, fmt.Errorf("incident history: %w", err))
	} else {
		result.IncidentsRegistered = len(history)
		result.DaysWithoutIncidents = statistics.DaysSinceLastIncident(incident.SeverityGrave, history, now)
		result.MonthlyTrend = formatTrend(statistics.MonthlyTrend(history, now))
		if minutes, ok := statistics.AverageResponseTime(history); ok {
			result.ResponseTime = fmt.Sprintf("%dmin", minutes)
		}
	}

	stats, found, err := deps.StatisticsStore.Get(ctx)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("statistics: %w", err))
	case !found && history != nil:
		stats = statistics.Compute(history, now)
		found = true
	}
	if found {
		result.TotalIncidents = stats.Total
		result.AlertsActivated = stats.ByLevel.Leve + stats.ByLevel.Moderada + stats.ByLevel.Grave
		result.SafetyScore = statistics.SafetyScore(&stats)
	}

	a, found, err := deps.AlertStore.Get(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("alert: %w", err))
	} else if found && !a.Expired(now) {
		result.ActiveAlerts = 1
	}

	clubs, err := QueryGetClubData(ctx, GetClubDataDeps{ClubStore: deps.ClubStore})
	if err != nil {
		errs = append(errs, fmt.Errorf("club data: %w", err))
	} else {
		result.ActiveClubs = clubs.TotalClubs
	}

	status, err := QueryGetStatus(ctx, GetStatusDeps{StatusStore: deps.StatusStore, Now: deps.Now})
	if err != nil {
		errs = append(errs, fmt.Errorf("brigade status: %w", err))
	}
	result.NurseStatus = brigadista.Label(status.Status)

	return result, errors.Join(errs...)
}

func formatTrend(pct int) string {
	if pct > 0 {
		return fmt.Sprintf("+%d%%", pct)
	}
	return fmt.Sprintf("%d%%", pct)
}
