// Package perf keeps a bounded in-memory history of request and query
// timings for the admin performance view.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the number of entries kept when no size is given.
const DefaultRingSize = 10000

// EntryKind separates panel requests from storage queries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// String names the kind for logs.
func (k EntryKind) String() string {
	if k == KindQuery {
		return "query"
	}
	return "request"
}

// Entry is one timed request or query.
type Entry struct {
	Kind       EntryKind
	Path       string // "METHOD /path" or the SQL operation
	StatusCode int    // HTTP status (0 for queries)
	Err        bool   // query failed
	DurationMs float64
	Timestamp  time.Time
}

func (e Entry) failed() bool {
	return e.Err || e.StatusCode >= 500
}

// Collector is a fixed-size ring of entries; the oldest entry is
// overwritten once the ring is full. Aggregation happens in Snapshot.
type Collector struct {
	mu    sync.Mutex
	ring  []Entry
	next  int
	total atomic.Int64
}

// NewCollector returns a collector holding at most size entries.
// A non-positive size means DefaultRingSize.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when the ring is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.ring[c.next] = e
	c.next = (c.next + 1) % len(c.ring)
	c.mu.Unlock()
	c.total.Add(1)
}

// TotalRecorded is the number of entries recorded since creation,
// including those already overwritten.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// Snapshot aggregates the entries recorded at or after Since.
type Snapshot struct {
	Since          time.Time  `json:"since"`
	TotalRequests  int64      `json:"totalRecorded"`
	Requests       int        `json:"requests"`
	Queries        int        `json:"queries"`
	ErrorRate      float64    `json:"errorRate"` // failed requests / requests in the window
	RequestP50Ms   float64    `json:"requestP50Ms"`
	RequestP95Ms   float64    `json:"requestP95Ms"`
	RequestP99Ms   float64    `json:"requestP99Ms"`
	SlowestPaths   []PathStat `json:"slowestPaths"`
	SlowestQueries []PathStat `json:"slowestQueries"`
}

// PathStat aggregates one route or SQL operation.
type PathStat struct {
	Path    string  `json:"path"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	Count   int     `json:"count"`
	Errors  int     `json:"errors"`
	TotalMs float64 `json:"totalMs"`
}

func (s *PathStat) add(e Entry) {
	s.Count++
	s.TotalMs += e.DurationMs
	s.MaxMs = max(s.MaxMs, e.DurationMs)
	if e.failed() {
		s.Errors++
	}
}

// Snapshot aggregates the window starting at since and keeps the topN
// slowest routes and operations by average duration.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	entries := slices.Clone(c.ring)
	c.mu.Unlock()

	snap := Snapshot{Since: since, TotalRequests: c.TotalRecorded()}
	routes := map[string]*PathStat{}
	queries := map[string]*PathStat{}
	var durations []float64
	failed := 0

	for _, e := range entries {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		group := routes
		if e.Kind == KindQuery {
			group = queries
			snap.Queries++
		} else {
			durations = append(durations, e.DurationMs)
			snap.Requests++
			if e.failed() {
				failed++
			}
		}
		st := group[e.Path]
		if st == nil {
			st = &PathStat{Path: e.Path}
			group[e.Path] = st
		}
		st.add(e)
	}

	snap.SlowestPaths = slowest(routes, topN)
	snap.SlowestQueries = slowest(queries, topN)
	if len(durations) > 0 {
		slices.Sort(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
		snap.ErrorRate = float64(failed) / float64(len(durations))
	}
	return snap
}

// percentile interpolates linearly between the two nearest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo, hi := int(math.Floor(rank)), int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// slowest orders by average duration, descending, ties by path.
func slowest(group map[string]*PathStat, n int) []PathStat {
	out := make([]PathStat, 0, len(group))
	for _, st := range group {
		st.AvgMs = st.TotalMs / float64(st.Count)
		out = append(out, *st)
	}
	slices.SortFunc(out, func(a, b PathStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
