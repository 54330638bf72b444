package web

import (
	"errors"
	"net/http"
	"strings"

	"balancehealth/internal/adapters/chart"
	"balancehealth/internal/adapters/http/middleware"
	"balancehealth/internal/application/orchestrators"
	"balancehealth/internal/application/projections"
	"balancehealth/internal/application/report"
	"balancehealth/internal/domain/activity"
)

const (
	noticeCommentAdded = "Comment added."
	noticeUnknown      = "Unknown activity."
)

// viewOption is one entry of the progress view selector.
type viewOption struct {
	Key   string
	Title string
}

var progressViews = []viewOption{
	{report.ViewLast, report.ViewTitle(report.ViewLast)},
	{report.ViewLastWeek, report.ViewTitle(report.ViewLastWeek)},
	{report.ViewLastMonth, report.ViewTitle(report.ViewLastMonth)},
	{report.ViewAll, report.ViewTitle(report.ViewAll)},
}

// commentBody returns the first non-empty comment field of the form.
func commentBody(r *http.Request) string {
	for _, field := range []string{"comment_made", "comment"} {
		if v := strings.TrimSpace(r.FormValue(field)); v != "" {
			return v
		}
	}
	return ""
}

func addComment(r *http.Request, sess middleware.Session, thread, body string) error {
	_, err := orchestrators.ExecuteAddComment(r.Context(), orchestrators.AddCommentInput{
		PatientEmail: sess.PatientEmail,
		Activity:     thread,
		Body:         body,
		AuthorID:     sess.StaffID,
	}, orchestrators.AddCommentDeps{
		PatientStore:  stores.PatientStore,
		ActivityStore: stores.ActivityStore,
		CommentStore:  stores.CommentStore,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	return err
}

// commentRejected redirects when a comment names a patient outside the
// session's list or an unknown thread. Other errors are left to the page.
func commentRejected(w http.ResponseWriter, r *http.Request, err error) bool {
	if patientMissing(w, r, err) {
		return true
	}
	if errors.Is(err, activity.ErrUnknown) {
		flasher.Add(w, r, middleware.FlashError, noticeUnknown)
		http.Redirect(w, r, "/view_activity_progress", http.StatusSeeOther)
		return true
	}
	return false
}

// handleActivityProgress shows the selected patient's overall progress.
// POST with a comment adds it to the general thread and shows the last session;
// otherwise POST "results" selects the view.
func handleActivityProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	sess, ok := selectedPatient(w, r)
	if !ok {
		return
	}

	data := map[string]any{"Charts": map[string]string{}, "Views": progressViews}
	view := report.ViewLast
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		if body := commentBody(r); body != "" {
			err := addComment(r, sess, activity.GeneralComments, body)
			switch {
			case commentRejected(w, r, err):
				return
			case err != nil:
				data["Error"] = notice("add_comment", err)
			default:
				data["Success"] = noticeCommentAdded
			}
		} else if v := r.FormValue("results"); v != "" {
			view = v
		}
	}

	result, err := projections.QueryGetActivityProgress(r.Context(), projections.GetActivityProgressQuery{
		StaffID:      sess.StaffID,
		PatientEmail: sess.PatientEmail,
		View:         view,
		Today:        report.Day(timeNow()),
	}, projections.GetActivityProgressDeps{
		PatientStore: stores.PatientStore,
		ScoreStore:   stores.ScoreStore,
		CommentStore: stores.CommentStore,
	})
	if patientMissing(w, r, err) {
		return
	}
	if err != nil {
		if !isStorageFailure(err) {
			internalError(w, err)
			return
		}
		data["Error"] = notice("activity_progress", err)
	}

	if result.HasData() {
		data["Charts"] = publishCharts(r,
			chartJob{chart.NameDailyCounts, func() ([]byte, error) { return charts.DailyCountsPNG(result.DailyCounts) }},
			chartJob{chart.NameCompletion, func() ([]byte, error) { return charts.CompletionPNG(result.Breakdown) }},
			chartJob{chart.NameSunburst, func() ([]byte, error) { return charts.SunburstPNG("Activities by date", result.Hierarchy) }},
		)
	}
	data["Result"] = result
	renderTemplate(w, r, "view_activity_progress.html", data)
}

// handleSelectedActivity drills into one activity; POST adds a comment to its thread
func handleSelectedActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	sess, ok := selectedPatient(w, r)
	if !ok {
		return
	}
	name := r.PathValue("activity")

	data := map[string]any{"Charts": map[string]string{}, "Overall": projections.OverallLabel}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		// The general thread has its own page; it is not an activity here.
		if name == activity.GeneralComments {
			commentRejected(w, r, activity.ErrUnknown)
			return
		}
		err := addComment(r, sess, name, commentBody(r))
		switch {
		case commentRejected(w, r, err):
			return
		case err != nil:
			data["Error"] = notice("add_comment", err)
		default:
			data["Success"] = noticeCommentAdded
		}
	}

	result, err := projections.QueryGetSelectedActivity(r.Context(), projections.GetSelectedActivityQuery{
		StaffID:      sess.StaffID,
		PatientEmail: sess.PatientEmail,
		Activity:     name,
		Today:        report.Day(timeNow()),
	}, projections.GetSelectedActivityDeps{
		PatientStore:  stores.PatientStore,
		ActivityStore: stores.ActivityStore,
		ScoreStore:    stores.ScoreStore,
		CommentStore:  stores.CommentStore,
	})
	if patientMissing(w, r, err) {
		return
	}
	if errors.Is(err, projections.ErrUnknownActivity) {
		commentRejected(w, r, err)
		return
	}
	if err != nil {
		if !isStorageFailure(err) {
			internalError(w, err)
			return
		}
		data["Error"] = notice("selected_activity", err)
	}

	if result.HasData() {
		data["Charts"] = publishCharts(r,
			chartJob{chart.NameSunburst, func() ([]byte, error) { return charts.SunburstPNG("Most recent attempts", result.Recent) }},
			chartJob{chart.NameTrend, func() ([]byte, error) { return charts.TrendPNG("Overall Average Score", result.Trend) }},
			chartJob{chart.NameSignals, func() ([]byte, error) { return charts.SignalGridPNG(result.Signals) }},
		)
	}
	data["Result"] = result
	renderTemplate(w, r, "view_selected_activity.html", data)
}
