package perf

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func req(path string, status int, ms float64, at time.Time) Entry {
	return Entry{Kind: KindRequest, Path: path, StatusCode: status, DurationMs: ms, Timestamp: at}
}

func query(op string, ms float64, failed bool, at time.Time) Entry {
	return Entry{Kind: KindQuery, Path: op, Err: failed, DurationMs: ms, Timestamp: at}
}

func TestSnapshot_GroupsRoutesAndQueries(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	c.Record(req("GET /api/alert", 200, 10, now))
	c.Record(req("GET /api/alert", 200, 30, now))
	c.Record(req("POST /api/incidents", 201, 5, now))
	c.Record(query("SELECT document", 2, false, now))

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	assert.Equal(t, int64(4), snap.TotalRequests)
	assert.Equal(t, 3, snap.Requests)
	assert.Equal(t, 1, snap.Queries)

	require.Len(t, snap.SlowestPaths, 2)
	alert := snap.SlowestPaths[0]
	assert.Equal(t, "GET /api/alert", alert.Path)
	assert.Equal(t, 2, alert.Count)
	assert.InDelta(t, 20, alert.AvgMs, 0.001)
	assert.InDelta(t, 30, alert.MaxMs, 0.001)

	require.Len(t, snap.SlowestQueries, 1)
	assert.Equal(t, "SELECT document", snap.SlowestQueries[0].Path)
}

func TestSnapshot_TopNAndTieOrder(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	c.Record(req("GET /b", 200, 5, now))
	c.Record(req("GET /a", 200, 5, now))
	c.Record(req("GET /slow", 200, 50, now))

	snap := c.Snapshot(time.Time{}, 2)
	require.Len(t, snap.SlowestPaths, 2)
	assert.Equal(t, "GET /slow", snap.SlowestPaths[0].Path)
	assert.Equal(t, "GET /a", snap.SlowestPaths[1].Path, "equal averages sort by path")
}

func TestRing_OverwritesOldest(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()
	for i := range 5 {
		c.Record(req("GET /api/status", 200, float64(i), now))
	}

	assert.Equal(t, int64(5), c.TotalRecorded())
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	require.Len(t, snap.SlowestPaths, 1)
	assert.Equal(t, 3, snap.SlowestPaths[0].Count)
	assert.InDelta(t, 3, snap.SlowestPaths[0].AvgMs, 0.001, "entries 2, 3 and 4 survive")
}

func TestNewCollector_DefaultSize(t *testing.T) {
	assert.Len(t, NewCollector(0).ring, DefaultRingSize)
	assert.Len(t, NewCollector(-1).ring, DefaultRingSize)
}

func TestSnapshot_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(req("GET /api/dashboard", 200, float64(i), now))
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	assert.InDelta(t, 50.5, snap.RequestP50Ms, 0.01)
	assert.InDelta(t, 95.05, snap.RequestP95Ms, 0.01)
	assert.InDelta(t, 99.01, snap.RequestP99Ms, 0.01)
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 50, 0},
		{"single", []float64{7}, 99, 7},
		{"exact rank", []float64{1, 2, 3}, 50, 2},
		{"interpolated", []float64{10, 20}, 50, 15},
		{"max", []float64{1, 2, 3, 4}, 100, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percentile(tt.sorted, tt.p), 0.0001)
		})
	}
}

func TestSnapshot_Window(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	c.Record(req("GET /api/statistics", 200, 100, now.Add(-2*time.Hour)))
	c.Record(req("GET /api/alert", 200, 10, now))

	snap := c.Snapshot(now.Add(-time.Hour), 10)
	require.Len(t, snap.SlowestPaths, 1)
	assert.Equal(t, "GET /api/alert", snap.SlowestPaths[0].Path)
	assert.Equal(t, 1, snap.Requests)
}

func TestSnapshot_Errors(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	c.Record(req("POST /api/alert", 503, 2, now))
	c.Record(req("POST /api/alert", 201, 2, now))
	c.Record(req("GET /api/alert", 404, 1, now))
	c.Record(req("GET /api/alert", 200, 1, now))
	c.Record(query("INSERT document_change", 1, true, now))

	snap := c.Snapshot(now.Add(-time.Minute), 5)
	stats := map[string]PathStat{}
	for _, s := range snap.SlowestPaths {
		stats[s.Path] = s
	}
	assert.Equal(t, 1, stats["POST /api/alert"].Errors)
	assert.Equal(t, 0, stats["GET /api/alert"].Errors, "4xx is not a server error")
	assert.InDelta(t, 0.25, snap.ErrorRate, 0.0001)

	require.Len(t, snap.SlowestQueries, 1)
	assert.Equal(t, 1, snap.SlowestQueries[0].Errors)
}

func TestEntryKind_String(t *testing.T) {
	assert.Equal(t, "request", KindRequest.String())
	assert.Equal(t, "query", KindQuery.String())
}

func TestRecord_Concurrent(t *testing.T) {
	c := NewCollector(1000)
	now := time.Now()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				c.Record(req("GET /api/events", 200, float64(i), now))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1000), c.TotalRecorded())
	assert.Equal(t, 1000, c.Snapshot(time.Time{}, 1).Requests)
}

func BenchmarkRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := req("GET /api/alert", 200, 1.5, time.Now())
	b.ReportAllocs()
	for b.Loop() {
		c.Record(e)
	}
}

func BenchmarkSnapshot(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	now := time.Now()
	for i := range DefaultRingSize {
		c.Record(req("GET /api/dashboard", 200, float64(i%100), now))
	}
	since := now.Add(-time.Hour)
	b.ReportAllocs()
	for b.Loop() {
		c.Snapshot(since, 10)
	}
}
