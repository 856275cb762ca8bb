package projections

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ergosanitas/internal/adapters/hostinfo"
	storeAlert "ergosanitas/internal/adapters/storage/alert"
	storeBrigadista "ergosanitas/internal/adapters/storage/brigadista"
	storeClub "ergosanitas/internal/adapters/storage/club"
	"ergosanitas/internal/adapters/storage/document"
	storeIncident "ergosanitas/internal/adapters/storage/incident"
	storeSession "ergosanitas/internal/adapters/storage/session"
	storeStatistics "ergosanitas/internal/adapters/storage/statistics"
	"ergosanitas/internal/domain/alert"
	"ergosanitas/internal/domain/brigadista"
	"ergosanitas/internal/domain/club"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
	"ergosanitas/internal/domain/user"
)

var testNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock { return func() time.Time { return testNow } }

type stores struct {
	docs       *document.MemoryStore
	alerts     *storeAlert.DocumentStore
	status     *storeBrigadista.DocumentStore
	incidents  *storeIncident.DocumentStore
	statistics *storeStatistics.DocumentStore
	clubs      *storeClub.DocumentStore
	sessions   *storeSession.DocumentStore
}

func newStores() stores {
	docs := document.NewMemoryStore()
	return stores{
		docs:       docs,
		alerts:     storeAlert.NewDocumentStore(docs),
		status:     storeBrigadista.NewDocumentStore(docs),
		incidents:  storeIncident.NewDocumentStore(docs),
		statistics: storeStatistics.NewDocumentStore(docs),
		clubs:      storeClub.NewDocumentStore(docs),
		sessions:   storeSession.NewDocumentStore(docs),
	}
}

func (s stores) dashboardDeps() GetDashboardDeps {
	return GetDashboardDeps{
		AlertStore:      s.alerts,
		StatusStore:     s.status,
		IncidentStore:   s.incidents,
		StatisticsStore: s.statistics,
		ClubStore:       s.clubs,
		Now:             fixedClock(),
	}
}

func inc(id string, sev incident.Severity, created time.Time) incident.Incident {
	return incident.Incident{ID: id, Severity: sev, CreatedAt: created, Status: incident.StatusPending}
}

// --- failing reader ---

var errUnavailable = errors.New("storage unavailable")

type brokenDocs struct{}

// Read always fails.
func (brokenDocs) Read(context.Context, string) (string, bool, error) {
	return "", false, errUnavailable
}

// Write always fails.
func (brokenDocs) Write(context.Context, string, string) error { return errUnavailable }

// Remove always fails.
func (brokenDocs) Remove(context.Context, string) error { return errUnavailable }

func TestQueryGetStatus_DefaultsToAvailable(t *testing.T) {
	s := newStores()

	got, err := QueryGetStatus(context.Background(), GetStatusDeps{StatusStore: s.status, Now: fixedClock()})
	if err != nil {
		t.Fatalf("QueryGetStatus: %v", err)
	}
	if got.Status != brigadista.Available || !got.Timestamp.Equal(testNow) {
		t.Errorf("status = %+v, want available at now", got)
	}
}

func TestQueryGetStatus_ReturnsStored(t *testing.T) {
	s := newStores()
	want := brigadista.New(brigadista.Busy, brigadista.Info{Name: "Ana"}, testNow.Add(-time.Hour))
	if err := s.status.Save(context.Background(), want); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := QueryGetStatus(context.Background(), GetStatusDeps{StatusStore: s.status, Now: fixedClock()})
	if err != nil {
		t.Fatalf("QueryGetStatus: %v", err)
	}
	if got.Status != brigadista.Busy || got.Name != "Ana" {
		t.Errorf("status = %+v, want busy by Ana", got)
	}
}

func TestQueryGetIncidentHistory_FiltersAndPages(t *testing.T) {
	s := newStores()
	history := []incident.Incident{
		inc("c", incident.SeverityGrave, testNow),
		inc("b", incident.SeverityLeve, testNow.Add(-time.Hour)),
		inc("a", incident.SeverityGrave, testNow.Add(-2*time.Hour)),
	}
	if err := s.incidents.Replace(context.Background(), history); err != nil {
		t.Fatalf("seed: %v", err)
	}
	deps := GetIncidentHistoryDeps{IncidentStore: s.incidents}

	all, err := QueryGetIncidentHistory(context.Background(), GetIncidentHistoryQuery{}, deps)
	if err != nil || len(all) != 3 || all[0].ID != "c" {
		t.Fatalf("all = %+v, %v", all, err)
	}

	grave, _ := QueryGetIncidentHistory(context.Background(), GetIncidentHistoryQuery{Severity: incident.SeverityGrave, Offset: 1}, deps)
	if len(grave) != 1 || grave[0].ID != "a" {
		t.Errorf("grave page = %+v, want [a]", grave)
	}
}

func TestQueryGetIncidentHistory_EmptyOnFailure(t *testing.T) {
	deps := GetIncidentHistoryDeps{IncidentStore: storeIncident.NewDocumentStore(brokenDocs{})}

	got, err := QueryGetIncidentHistory(context.Background(), GetIncidentHistoryQuery{}, deps)
	if err == nil {
		t.Fatal("expected error")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("history = %#v, want empty non-nil", got)
	}
}

func TestQueryGetClubData(t *testing.T) {
	s := newStores()

	got, err := QueryGetClubData(context.Background(), GetClubDataDeps{ClubStore: s.clubs})
	if err != nil {
		t.Fatalf("QueryGetClubData: %v", err)
	}
	if got.TotalClubs != 4 || len(got.Clubs) != 4 {
		t.Errorf("default roster = %+v, want 4 clubs", got)
	}

	broken, err := QueryGetClubData(context.Background(), GetClubDataDeps{ClubStore: storeClub.NewDocumentStore(brokenDocs{})})
	if err == nil {
		t.Fatal("expected error from broken store")
	}
	if broken.TotalClubs != 0 || len(broken.Clubs) != 0 {
		t.Errorf("fallback roster = %+v, want empty", broken)
	}
}

func TestQueryGetCurrentUser(t *testing.T) {
	s := newStores()
	deps := GetCurrentUserDeps{SessionStore: s.sessions}

	got, err := QueryGetCurrentUser(context.Background(), deps)
	if err != nil || got != nil {
		t.Fatalf("signed out = %+v, %v; want nil", got, err)
	}

	u := user.User{ID: "admin_default", Username: "admin", Role: user.RoleAdmin, Name: "Administrador"}
	if err := s.sessions.Save(context.Background(), user.NewSession(u, testNow)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err = QueryGetCurrentUser(context.Background(), deps)
	if err != nil || got == nil || got.Username != "admin" {
		t.Errorf("signed in = %+v, %v", got, err)
	}
}

func TestDerivedMetrics_FallbacksOnFailure(t *testing.T) {
	deps := MetricsDeps{IncidentStore: storeIncident.NewDocumentStore(brokenDocs{}), Now: fixedClock()}

	days, err := QueryDaysSinceLastIncident(context.Background(), incident.SeverityGrave, deps)
	if err == nil || days != statistics.FallbackDays {
		t.Errorf("days = %d, %v; want fallback with error", days, err)
	}
	trend, err := QueryMonthlyTrend(context.Background(), deps)
	if err == nil || trend != statistics.FallbackTrend {
		t.Errorf("trend = %d, %v; want fallback with error", trend, err)
	}
	if _, ok, err := QueryAverageResponseTime(context.Background(), deps); err == nil || ok {
		t.Errorf("average ok = %v, %v; want not ok with error", ok, err)
	}
}

func TestQueryDaysSinceLastIncident(t *testing.T) {
	s := newStores()
	deps := MetricsDeps{IncidentStore: s.incidents, Now: fixedClock()}

	days, err := QueryDaysSinceLastIncident(context.Background(), incident.SeverityGrave, deps)
	if err != nil || days != statistics.NoIncidentDays {
		t.Fatalf("empty history = %d, %v; want 999", days, err)
	}

	history := []incident.Incident{inc("x", incident.SeverityGrave, testNow.Add(-50*time.Hour))}
	if err := s.incidents.Replace(context.Background(), history); err != nil {
		t.Fatalf("seed: %v", err)
	}
	days, _ = QueryDaysSinceLastIncident(context.Background(), incident.SeverityGrave, deps)
	if days != 3 {
		t.Errorf("days = %d, want 3", days)
	}
}

func TestQueryGetDashboard_Empty(t *testing.T) {
	s := newStores()

	got, err := QueryGetDashboard(context.Background(), s.dashboardDeps())
	if err != nil {
		t.Fatalf("QueryGetDashboard: %v", err)
	}
	want := DashboardResult{
		DaysWithoutIncidents: statistics.NoIncidentDays,
		ActiveClubs:          4,
		ResponseTime:         "--",
		NurseStatus:          "Disponible",
		MonthlyTrend:         "0%",
		SafetyScore:          100,
	}
	if got != want {
		t.Errorf("dashboard = %+v\nwant        %+v", got, want)
	}
}

func TestQueryGetDashboard_Populated(t *testing.T) {
	s := newStores()
	ctx := context.Background()

	completed := testNow.Add(-47 * time.Hour)
	done := inc("b", incident.SeverityModerada, testNow.Add(-48*time.Hour))
	done.Status = incident.StatusCompleted
	done.CompletedAt = &completed
	history := []incident.Incident{
		inc("c", incident.SeverityGrave, testNow.Add(-24*time.Hour)),
		done,
	}
	if err := s.incidents.Replace(ctx, history); err != nil {
		t.Fatalf("seed history: %v", err)
	}
	if err := s.status.Save(ctx, brigadista.New(brigadista.Emergency, brigadista.Info{}, testNow)); err != nil {
		t.Fatalf("seed status: %v", err)
	}
	a := alert.New(alert.Draft{Level: alert.LevelLeve, Location: "Cancha 1", Type: "Caída", Timestamp: testNow}, "INC_1", testNow)
	if err := s.alerts.Save(ctx, a); err != nil {
		t.Fatalf("seed alert: %v", err)
	}

	got, err := QueryGetDashboard(ctx, s.dashboardDeps())
	if err != nil {
		t.Fatalf("QueryGetDashboard: %v", err)
	}
	if got.ActiveAlerts != 1 {
		t.Errorf("ActiveAlerts = %d, want 1", got.ActiveAlerts)
	}
	if got.TotalIncidents != 2 || got.IncidentsRegistered != 2 || got.AlertsActivated != 2 {
		t.Errorf("counts = %+v, want 2 each", got)
	}
	if got.DaysWithoutIncidents != 1 {
		t.Errorf("DaysWithoutIncidents = %d, want 1", got.DaysWithoutIncidents)
	}
	if got.ResponseTime != "60min" {
		t.Errorf("ResponseTime = %q, want 60min", got.ResponseTime)
	}
	if got.NurseStatus != "Emergencia" {
		t.Errorf("NurseStatus = %q, want Emergencia", got.NurseStatus)
	}
	// grave 3 + moderada 2 = 5, doubled = 10
	if got.SafetyScore != 90 {
		t.Errorf("SafetyScore = %d, want 90", got.SafetyScore)
	}
}

func TestQueryGetDashboard_ExpiredAlertIsInactive(t *testing.T) {
	s := newStores()
	old := testNow.Add(-25 * time.Hour)
	a := alert.New(alert.Draft{Level: alert.LevelGrave, Location: "Cancha 3", Type: "Lesión", Timestamp: old}, "INC_old", old)
	if err := s.alerts.Save(context.Background(), a); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := QueryGetDashboard(context.Background(), s.dashboardDeps())
	if err != nil {
		t.Fatalf("QueryGetDashboard: %v", err)
	}
	if got.ActiveAlerts != 0 {
		t.Errorf("ActiveAlerts = %d, want 0 for expired alert", got.ActiveAlerts)
	}
	if _, found, _ := s.alerts.Get(context.Background()); !found {
		t.Error("projection must not remove the expired alert")
	}
}

func TestQueryGetDashboard_DegradesOnFailure(t *testing.T) {
	docs := brokenDocs{}
	deps := GetDashboardDeps{
		AlertStore:      storeAlert.NewDocumentStore(docs),
		StatusStore:     storeBrigadista.NewDocumentStore(docs),
		IncidentStore:   storeIncident.NewDocumentStore(docs),
		StatisticsStore: storeStatistics.NewDocumentStore(docs),
		ClubStore:       storeClub.NewDocumentStore(docs),
		Now:             fixedClock(),
	}

	got, err := QueryGetDashboard(context.Background(), deps)
	if err == nil {
		t.Fatal("expected joined error")
	}
	if got.SafetyScore != statistics.FallbackSafetyScore || got.DaysWithoutIncidents != statistics.FallbackDays {
		t.Errorf("fallbacks = %+v", got)
	}
	if got.MonthlyTrend != "0%" || got.ResponseTime != "--" || got.NurseStatus != "Disponible" {
		t.Errorf("fallback labels = %+v", got)
	}
}

func TestFormatTrend(t *testing.T) {
	tests := map[int]string{15: "+15%", 0: "0%", -20: "-20%"}
	for in, want := range tests {
		if got := formatTrend(in); got != want {
			t.Errorf("formatTrend(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestQueryStorageUsage(t *testing.T) {
	s := newStores()
	ctx := context.Background()
	if err := s.docs.Write(ctx, document.KeyCurrentAlert, strings.Repeat("x", 1024)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.docs.Write(ctx, document.KeyUsers, strings.Repeat("y", 512)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	quota := hostinfo.StaticProbe{Value: hostinfo.DiskQuota{TotalBytes: 10, FreeBytes: 5}}

	got, err := QueryStorageUsage(ctx, GetStorageUsageDeps{Documents: s.docs, Quota: quota})
	if err != nil {
		t.Fatalf("QueryStorageUsage: %v", err)
	}
	if got.Total != 1536 || got.Formatted != "1.50 KB" {
		t.Errorf("usage = %d %q, want 1536 1.50 KB", got.Total, got.Formatted)
	}
	if got.Breakdown["CURRENT_ALERT"] != 1024 || got.Breakdown["USERS"] != 512 || len(got.Breakdown) != 2 {
		t.Errorf("breakdown = %v", got.Breakdown)
	}
	if got.Quota == nil || got.Quota.FreeBytes != 5 {
		t.Errorf("quota = %+v, want probe value", got.Quota)
	}
}

func TestQueryStorageUsage_ZeroOnFailure(t *testing.T) {
	got, err := QueryStorageUsage(context.Background(), GetStorageUsageDeps{Documents: brokenDocs{}})
	if err == nil {
		t.Fatal("expected error")
	}
	if got.Total != 0 || got.Formatted != "0 KB" || got.Breakdown == nil {
		t.Errorf("usage = %+v, want zero", got)
	}
}

func TestQuerySystemInfo(t *testing.T) {
	s := newStores()

	got, err := QuerySystemInfo(context.Background(), GetStorageUsageDeps{Documents: s.docs})
	if err != nil {
		t.Fatalf("QuerySystemInfo: %v", err)
	}
	if got.Version != Version || len(got.StorageKeys) != 7 {
		t.Errorf("info = %+v", got)
	}
	if len(got.ValidStatuses) != 3 || len(got.ValidAlertLevels) != 3 || len(got.ValidRoles) != 4 {
		t.Errorf("enums = %v %v %v", got.ValidStatuses, got.ValidAlertLevels, got.ValidRoles)
	}
	if got.StorageUsage.Formatted != "0.00 KB" {
		t.Errorf("empty usage = %q", got.StorageUsage.Formatted)
	}
}

func TestQueryIncidentReport(t *testing.T) {
	s := newStores()
	history := []incident.Incident{inc("a", incident.SeverityGrave, testNow.Add(-time.Hour))}
	history[0].AthleteName = "Laura Pérez"
	history[0].AthleteClub = club.Default().Clubs[0].Name
	if err := s.incidents.Replace(context.Background(), history); err != nil {
		t.Fatalf("seed: %v", err)
	}

	md, err := QueryIncidentReport(context.Background(), GetIncidentReportQuery{}, GetIncidentReportDeps{
		IncidentStore:   s.incidents,
		StatisticsStore: s.statistics,
		Now:             fixedClock(),
	})
	if err != nil {
		t.Fatalf("QueryIncidentReport: %v", err)
	}
	for _, want := range []string{"Total de incidentes: **1**", "Laura Pérez", "| 0 | 0 | 1 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}
