package web

import (
	"errors"
	"log/slog"
	"net/http"

	"balancehealth/internal/adapters/artifact"
	"balancehealth/internal/adapters/http/middleware"
	"balancehealth/internal/application/report"
)

// chartJob renders one named chart.
type chartJob struct {
	name   string
	render func() ([]byte, error)
}

// publishCharts renders each chart and stores it under this session and request.
// It returns chart name to URL; charts without data or that fail are left out.
func publishCharts(r *http.Request, jobs ...chartJob) map[string]string {
	sess := currentSession(r)
	reqID := middleware.RequestID(r.Context())
	if reqID == "" {
		reqID = generateID()
	}

	urls := make(map[string]string, len(jobs))
	for _, job := range jobs {
		png, err := job.render()
		if errors.Is(err, report.ErrNoData) {
			continue
		}
		if err != nil {
			slog.Error("report_event", "event", "chart_failed", "chart", job.name, "error", err)
			continue
		}
		key := artifact.Key(sess.ID, reqID, job.name)
		if err := artifacts.Put(r.Context(), key, png); err != nil {
			slog.Error("report_event", "event", "chart_store_failed", "chart", job.name, "error", err)
			continue
		}
		urls[job.name] = "/charts/" + key
	}
	return urls
}

// handleChart serves a chart artifact to the session that produced it
func handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	key := r.PathValue("key")
	owner, err := artifact.Owner(key)
	if err != nil || owner != currentSession(r).ID {
		http.NotFound(w, r)
		return
	}
	png, err := artifacts.Get(r.Context(), key)
	if errors.Is(err, artifact.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(png)
}
