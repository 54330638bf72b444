// Package perf keeps recent request, query and chart timings for /debug/perf.
package perf

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is how many timings a collector keeps.
const DefaultRingSize = 10000

// EntryKind distinguishes what was timed.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
	KindRender // chart rendering
)

// Entry is one timing.
type Entry struct {
	Kind       EntryKind
	Path       string // "METHOD /route", query head, or chart name
	StatusCode int    // HTTP status, 0 for queries and renders
	DurationMs float64
	Timestamp  time.Time
}

// Collector holds the most recent timings in a ring. Writers overwrite the
// oldest slot; aggregation happens in Snapshot.
type Collector struct {
	mu    sync.Mutex
	ring  []Entry
	next  int
	total atomic.Int64
}

// NewCollector returns a collector keeping size timings.
// PRE: size > 0, otherwise DefaultRingSize is used
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Entry, size)}
}

// Record stores e, replacing the oldest timing once the ring is full.
// A nil Collector ignores it.
func (c *Collector) Record(e Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.ring[c.next] = e
	c.next = (c.next + 1) % len(c.ring)
	c.mu.Unlock()
	c.total.Add(1)
}

// Time records the time elapsed since start.
func (c *Collector) Time(kind EntryKind, path string, start time.Time) {
	c.Record(Entry{
		Kind:       kind,
		Path:       path,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  start,
	})
}

// TotalRecorded counts every timing ever recorded, including overwritten ones.
func (c *Collector) TotalRecorded() int64 {
	return c.total.Load()
}

// since copies the retained timings at or after t.
func (c *Collector) since(t time.Time) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, 0, len(c.ring))
	for _, e := range c.ring {
		if !e.Timestamp.IsZero() && !e.Timestamp.Before(t) {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot is the /debug/perf payload.
type Snapshot struct {
	TotalRecorded  int64          `json:"total_recorded"`
	RequestP50Ms   float64        `json:"request_p50_ms"`
	RequestP95Ms   float64        `json:"request_p95_ms"`
	RequestP99Ms   float64        `json:"request_p99_ms"`
	StatusClasses  map[string]int `json:"status_classes"` // "2xx" -> count
	SlowestPaths   []PathStat     `json:"slowest_paths"`
	SlowestQueries []PathStat     `json:"slowest_queries"`
	SlowestRenders []PathStat     `json:"slowest_renders"`
}

// PathStat aggregates the timings of one route, query or chart.
type PathStat struct {
	Path    string  `json:"path"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	Count   int     `json:"count"`
	TotalMs float64 `json:"total_ms"`
}

// Snapshot aggregates the timings recorded at or after since.
// PRE: topN > 0
// POST: Each Slowest list holds at most topN entries, slowest average first
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	entries := c.since(since)

	groups := [...]map[string]*PathStat{{}, {}, {}}
	var requests []float64
	snap := Snapshot{TotalRecorded: c.TotalRecorded(), StatusClasses: map[string]int{}}

	for _, e := range entries {
		if int(e.Kind) >= len(groups) {
			continue
		}
		if e.Kind == KindRequest {
			requests = append(requests, e.DurationMs)
			if e.StatusCode > 0 {
				snap.StatusClasses[strconv.Itoa(e.StatusCode/100)+"xx"]++
			}
		}
		s := groups[e.Kind][e.Path]
		if s == nil {
			s = &PathStat{Path: e.Path}
			groups[e.Kind][e.Path] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		s.MaxMs = max(s.MaxMs, e.DurationMs)
	}

	snap.SlowestPaths = slowest(groups[KindRequest], topN)
	snap.SlowestQueries = slowest(groups[KindQuery], topN)
	snap.SlowestRenders = slowest(groups[KindRender], topN)

	if len(requests) > 0 {
		slices.Sort(requests)
		snap.RequestP50Ms = percentile(requests, 50)
		snap.RequestP95Ms = percentile(requests, 95)
		snap.RequestP99Ms = percentile(requests, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo, hi := int(math.Floor(rank)), int(math.Ceil(rank))
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// slowest orders stats by average duration, ties by path.
func slowest(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	slices.SortFunc(list, func(a, b PathStat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	return list[:min(n, len(list))]
}
