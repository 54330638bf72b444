package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"balancehealth/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

const requestIDContextKey contextKey = "request_id"

// RequestID returns the identifier Timing attached to the request context.
// Outside a timed request it returns "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// ContextWithRequestID returns a context carrying id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// statusWriterPool reduces allocations on the hot path.
var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

// RouteFunc names the route that will serve r, e.g. "/charts/{key...}".
type RouteFunc func(r *http.Request) string

// Timing assigns each request an ID and records its duration.
// /static/ is not timed. Requests at or above slowMs log at WARN, others at DEBUG.
// route groups timings by pattern instead of raw path; nil uses the path.
func Timing(collector *perf.Collector, slowMs int, route RouteFunc) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := float64(slowMs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			label := r.URL.Path
			if route != nil {
				if p := route(r); p != "" {
					label = p
				}
			}
			start := time.Now()
			reqID := uuid.NewString()
			r = r.WithContext(ContextWithRequestID(r.Context(), reqID))

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter, sw.status = w, http.StatusOK
			defer func() {
				ms := float64(time.Since(start).Microseconds()) / 1000.0
				event, level := "served", slog.LevelDebug
				if ms >= threshold {
					event, level = "slow", slog.LevelWarn
				}
				slog.Log(r.Context(), level, "request_event",
					"event", event,
					"request_id", reqID,
					"method", r.Method,
					"path", r.URL.Path,
					"route", label,
					"status", sw.status,
					"duration_ms", ms,
				)
				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Path:       r.Method + " " + label,
					StatusCode: sw.status,
					DurationMs: ms,
					Timestamp:  start,
				})
				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
