package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"ergosanitas/internal/application/events"
	"ergosanitas/internal/domain/apperr"
	"ergosanitas/internal/domain/brigadista"
	"ergosanitas/internal/domain/club"
	"ergosanitas/internal/domain/incident"
	"ergosanitas/internal/domain/statistics"
)

// TestAddIncident_CapsHistoryAt100 adds 105 incidents and checks the newest 100 remain.
func TestAddIncident_CapsHistoryAt100(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	var ids []string
	for i := 0; i < 105; i++ {
		f.now = f.now.Add(time.Minute)
		inc, err := ExecuteAddIncident(ctx, incident.Draft{Severity: incident.SeverityLeve}, f.incidentDeps())
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		ids = append(ids, inc.ID)
	}

	history, err := f.incidents.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(history) != incident.MaxHistory {
		t.Fatalf("len = %d, want %d", len(history), incident.MaxHistory)
	}
	if history[0].ID != ids[104] {
		t.Errorf("head = %s, want newest %s", history[0].ID, ids[104])
	}
	if history[99].ID != ids[5] {
		t.Errorf("tail = %s, want %s", history[99].ID, ids[5])
	}

	stats, found, _ := f.statistics.Get(ctx)
	if !found || stats.Total != incident.MaxHistory {
		t.Errorf("statistics total = %d (found=%v), want %d", stats.Total, found, incident.MaxHistory)
	}
}

func TestAddIncident_PublishesStatisticsThenIncident(t *testing.T) {
	f := newFixture()
	var order []string
	f.events.Statistics.Subscribe(func(statistics.Statistics) { order = append(order, events.TopicStatisticsUpdated) })
	f.events.Incident.Subscribe(func(incident.Incident) { order = append(order, events.TopicIncidentAdded) })

	inc, err := ExecuteAddIncident(context.Background(), incident.Draft{AthleteName: "Tomás"}, f.incidentDeps())
	if err != nil {
		t.Fatalf("ExecuteAddIncident: %v", err)
	}
	if inc.Status != incident.StatusPending {
		t.Errorf("Status = %q, want pending", inc.Status)
	}
	if len(order) != 2 || order[0] != events.TopicStatisticsUpdated || order[1] != events.TopicIncidentAdded {
		t.Errorf("order = %v", order)
	}
}

func TestAddIncident_RejectsUnknownSeverity(t *testing.T) {
	f := newFixture()
	_, err := ExecuteAddIncident(context.Background(), incident.Draft{Severity: "mortal"}, f.incidentDeps())
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestUpdateStatistics_RecomputesFromHistory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	history := []incident.Incident{
		{ID: "b", Severity: incident.SeverityGrave, SportType: "rugby", CreatedAt: f.now},
		{ID: "a", Severity: incident.SeverityModerada, CreatedAt: f.now.AddDate(0, -1, 0)},
	}
	if err := f.incidents.Replace(ctx, history); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	s, err := ExecuteUpdateStatistics(ctx, f.incidentDeps())
	if err != nil {
		t.Fatalf("ExecuteUpdateStatistics: %v", err)
	}
	if s.Total != 2 || s.ByLevel.Grave != 1 || s.ByLevel.Moderada != 1 || s.BySport["rugby"] != 1 {
		t.Errorf("stats = %+v", s)
	}
	if !s.LastUpdated.Equal(f.now) {
		t.Errorf("LastUpdated = %v, want %v", s.LastUpdated, f.now)
	}
}

func TestSetStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	deps := SetStatusDeps{StatusStore: f.status, Events: f.events, Now: f.clock()}

	var got []brigadista.Status
	f.events.Status.Subscribe(func(s brigadista.Status) { got = append(got, s) })

	if _, err := ExecuteSetStatus(ctx, SetStatusInput{Status: "asleep"}, deps); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	s, err := ExecuteSetStatus(ctx, SetStatusInput{Status: brigadista.Emergency, Info: brigadista.Info{Location: "Cancha 4"}}, deps)
	if err != nil {
		t.Fatalf("ExecuteSetStatus: %v", err)
	}
	if s.Location != "Cancha 4" || !s.Timestamp.Equal(f.now) {
		t.Errorf("status = %+v", s)
	}
	if len(got) != 1 || got[0].Status != brigadista.Emergency {
		t.Errorf("events = %+v", got)
	}
}

func TestSetClubData_StampsUpdatedAt(t *testing.T) {
	f := newFixture()
	deps := SetClubDataDeps{ClubStore: f.clubs, Events: f.events, Now: f.clock()}
	published := 0
	f.events.ClubData.Subscribe(func(club.Data) { published++ })

	got, err := ExecuteSetClubData(context.Background(), club.Data{TotalClubs: 0}, deps)
	if err != nil {
		t.Fatalf("ExecuteSetClubData: %v", err)
	}
	if !got.UpdatedAt.Equal(f.now) || got.Clubs == nil {
		t.Errorf("data = %+v", got)
	}
	if published != 1 {
		t.Errorf("published = %d, want 1", published)
	}
}
