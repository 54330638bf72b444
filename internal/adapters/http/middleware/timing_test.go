package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"balancehealth/internal/adapters/http/perf"
)

func okHandler(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

// TestTiming_RecordsEntry tests that a request entry is recorded with method and path.
func TestTiming_RecordsEntry(t *testing.T) {
	collector := perf.NewCollector(1)
	handler := Timing(collector, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/create_activity", nil))

	if collector.TotalRecorded() != 1 {
		t.Fatalf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "POST /create_activity" {
		t.Errorf("SlowestPaths = %+v", snap.SlowestPaths)
	}
	if snap.SlowestPaths[0].AvgMs < 0 {
		t.Errorf("AvgMs = %v, want >= 0", snap.SlowestPaths[0].AvgMs)
	}
}

// TestTiming_GroupsByRoute tests that a route resolver collapses dynamic paths.
func TestTiming_GroupsByRoute(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/charts/{key...}", okHandler)
	collector := perf.NewCollector(10)
	handler := Timing(collector, 0, func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		return pattern
	})(mux)

	for _, path := range []string{"/charts/a/1.png", "/charts/b/2.png", "/nowhere"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	counts := map[string]int{}
	for _, s := range snap.SlowestPaths {
		counts[s.Path] = s.Count
	}
	if counts["GET /charts/{key...}"] != 2 || counts["GET /nowhere"] != 1 || len(counts) != 2 {
		t.Errorf("grouped paths = %v", counts)
	}
}

// TestTiming_SkipsStatic tests that static assets are not timed.
func TestTiming_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0, nil)(http.HandlerFunc(okHandler))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/static/style.css", nil))

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0", collector.TotalRecorded())
	}
}

// TestTiming_NilCollector tests that the middleware works without a collector.
func TestTiming_NilCollector(t *testing.T) {
	handler := Timing(nil, 50, nil)(http.HandlerFunc(okHandler))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/view_patients", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTiming_RequestID tests that each request gets its own ID in context.
func TestTiming_RequestID(t *testing.T) {
	var seen []string
	handler := Timing(nil, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, RequestID(r.Context()))
	}))
	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/view_activity_progress", nil))
	}
	if len(seen) != 2 || seen[0] == "" || seen[0] == seen[1] {
		t.Errorf("request IDs = %v, want two distinct non-empty IDs", seen)
	}
	if RequestID(httptest.NewRequest("GET", "/", nil).Context()) != "" {
		t.Error("expected empty request ID outside Timing")
	}
}

// TestTiming_HandlerPanic tests that timing still records when the handler panics.
func TestTiming_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/view_patients", nil))
}

// TestTiming_PoolNoStateLeak tests that pooled writers do not leak status codes.
func TestTiming_PoolNoStateLeak(t *testing.T) {
	collector := perf.NewCollector(100)
	fail := Timing(collector, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	fail.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/fail", nil))

	ok := Timing(collector, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rr := httptest.NewRecorder()
	ok.ServeHTTP(rr, httptest.NewRequest("GET", "/ok", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// BenchmarkTiming measures per-request overhead.
func BenchmarkTiming(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector, 0, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/view_patients", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
