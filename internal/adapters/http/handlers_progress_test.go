package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"balancehealth/internal/application/orchestrators"
	"balancehealth/internal/application/projections"
	"balancehealth/internal/application/report"
	"balancehealth/internal/domain/activity"
	"balancehealth/internal/domain/score"
)

var chartURL = regexp.MustCompile(`/charts/[^"]+\.png`)

func entry(label, date string, completed bool) score.Entry {
	return score.Entry{
		ActivityName: label,
		DateSet:      date,
		MaxValue:     1.5,
		MinValue:     0.25,
		AvgValue:     0.75,
		Completed:    completed,
		AccData:      []float64{0.1, 0.4, 0.2, 0.3},
	}
}

// progressApp has a logged-in session with Pat selected and two tandem attempts, one completed.
func progressApp(t *testing.T) (*testApp, func() *httptest.ResponseRecorder) {
	t.Helper()
	a := newTestApp(t)
	a.addPatient(t, testPatientEmail)
	sess := a.selectPatient(t, a.login(t), testPatientEmail)
	a.addScores(t, testPatientEmail,
		entry(activity.LabelTandem, "2026-02-27", false),
		entry(activity.LabelTandem, "2026-03-01", true),
	)
	get := func() *httptest.ResponseRecorder {
		return call(handleActivityProgress, httptest.NewRequest(http.MethodGet, "/view_activity_progress", nil), sess)
	}
	return a, get
}

// TestActivityProgress tests percentages, the default view and published charts.
func TestActivityProgress(t *testing.T) {
	_, get := progressApp(t)
	rr := get()
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}
	assertContains(t, rr, "Completion rates", "50.00%", "no data", "Last session", "2026-03-01")
	if n := len(chartURL.FindAllString(rr.Body.String(), -1)); n == 0 {
		t.Error("no chart images published")
	}
}

// TestActivityProgress_Views tests that "results" selects the rows shown.
func TestActivityProgress_Views(t *testing.T) {
	a := newTestApp(t)
	a.addPatient(t, testPatientEmail)
	sess := a.selectPatient(t, a.login(t), testPatientEmail)
	a.addScores(t, testPatientEmail,
		entry(activity.LabelInstep, "2026-01-10", true),
		entry(activity.LabelInstep, "2026-02-25", true),
		entry(activity.LabelInstep, "2026-03-01", false),
	)

	tests := []struct {
		view    string
		title   string
		present []string
		absent  []string
	}{
		{report.ViewLast, "Last session", []string{"2026-03-01"}, []string{"2026-02-25", "2026-01-10"}},
		{report.ViewLastWeek, "Last week", []string{"2026-03-01", "2026-02-25"}, []string{"2026-01-10"}},
		{report.ViewLastMonth, "Last month", []string{"2026-03-01", "2026-02-25"}, []string{"2026-01-10"}},
		{report.ViewAll, "All results", []string{"2026-03-01", "2026-02-25", "2026-01-10"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			rr := call(handleActivityProgress, formRequest("/view_activity_progress", url.Values{"results": {tt.view}}), sess)
			assertContains(t, rr, "<h2>"+tt.title+"</h2>")
			assertContains(t, rr, tt.present...)
			for _, s := range tt.absent {
				if regexp.MustCompile(`<td>` + s + `</td>`).MatchString(rr.Body.String()) {
					t.Errorf("row dated %s shown in %s", s, tt.view)
				}
			}
		})
	}
}

// TestActivityProgress_Comment tests that a posted comment joins the general thread.
func TestActivityProgress_Comment(t *testing.T) {
	a, get := progressApp(t)
	sess := a.selectPatient(t, a.login(t), testPatientEmail)

	rr := call(handleActivityProgress, formRequest("/view_activity_progress", url.Values{"comment_made": {"Good week"}}), sess)
	assertContains(t, rr, noticeCommentAdded, "Good week", "Last session")

	comments, err := a.stores.CommentStore.ListByPatientActivity(context.Background(), testPatientEmail, activity.GeneralComments)
	if err != nil || len(comments) != 1 {
		t.Fatalf("comments = %v, err = %v", comments, err)
	}
	assertContains(t, get(), "Good week")
}

// TestActivityProgress_NoData tests the notice and the absence of charts for a new patient.
func TestActivityProgress_NoData(t *testing.T) {
	a := newTestApp(t)
	a.addPatient(t, testPatientEmail)
	sess := a.selectPatient(t, a.login(t), testPatientEmail)

	rr := call(handleActivityProgress, httptest.NewRequest(http.MethodGet, "/view_activity_progress", nil), sess)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	assertContains(t, rr, projections.NoResultsNotice, "No results for this period.")
	if chartURL.MatchString(rr.Body.String()) {
		t.Error("charts published without data")
	}
}

// TestActivityProgress_NoPatient tests the redirect when no patient is selected.
func TestActivityProgress_NoPatient(t *testing.T) {
	a := newTestApp(t)
	rr := call(handleActivityProgress, httptest.NewRequest(http.MethodGet, "/view_activity_progress", nil), a.login(t))
	assertRedirect(t, rr, "/view_patients")
}

func selectedRequest(method, name string, values url.Values) *http.Request {
	var req *http.Request
	if values != nil {
		req = formRequest("/view_selected_activity/"+url.PathEscape(name), values)
	} else {
		req = httptest.NewRequest(method, "/view_selected_activity/"+url.PathEscape(name), nil)
	}
	req.SetPathValue("activity", name)
	return req
}

// TestSelectedActivity tests the drill-down page and its comment thread.
func TestSelectedActivity(t *testing.T) {
	a, _ := progressApp(t)
	sess := a.selectPatient(t, a.login(t), testPatientEmail)

	rr := call(handleSelectedActivity, selectedRequest(http.MethodGet, activity.LabelTandem, nil), sess)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}
	assertContains(t, rr, "Tandem Stance: Pat Kaur", "Completed 1 of 2 attempts (50.00%)", projections.OverallLabel)
	if !chartURL.MatchString(rr.Body.String()) {
		t.Error("no chart images published")
	}

	rr = call(handleSelectedActivity, selectedRequest(http.MethodPost, activity.LabelTandem, url.Values{"comment": {"Hold for longer"}}), sess)
	assertContains(t, rr, noticeCommentAdded, "Hold for longer")

	general, _ := a.stores.CommentStore.ListByPatientActivity(context.Background(), testPatientEmail, activity.GeneralComments)
	if len(general) != 0 {
		t.Errorf("activity comment landed in the general thread: %v", general)
	}
}

// TestSelectedActivity_NoRows tests a catalog activity the patient never attempted.
func TestSelectedActivity_NoRows(t *testing.T) {
	a, _ := progressApp(t)
	sess := a.selectPatient(t, a.login(t), testPatientEmail)
	rr := call(handleSelectedActivity, selectedRequest(http.MethodGet, activity.LabelOneFoot, nil), sess)
	assertContains(t, rr, projections.NoResultsNotice)
}

// TestSelectedActivity_Unknown tests the redirect for a name outside the catalog.
func TestSelectedActivity_Unknown(t *testing.T) {
	a, _ := progressApp(t)
	sess := a.selectPatient(t, a.login(t), testPatientEmail)
	rr := call(handleSelectedActivity, selectedRequest(http.MethodGet, "Juggling", nil), sess)
	assertRedirect(t, rr, "/view_activity_progress")
	if f := flashesAfter(rr); len(f) != 1 || f[0].Message != noticeUnknown {
		t.Errorf("flashes = %+v", f)
	}
}

// TestComments_OtherStaffPatient tests that staff cannot comment on a patient outside their list.
func TestComments_OtherStaffPatient(t *testing.T) {
	a, _ := progressApp(t)
	eve, err := orchestrators.ExecuteRegisterStaff(context.Background(), orchestrators.RegisterStaffInput{
		FirstName: "Eve", LastName: "Moss", Email: "eve@clinic.org",
		Password: testStaffPassword, ConfirmPassword: testStaffPassword,
	}, orchestrators.RegisterStaffDeps{StaffStore: a.stores.StaffStore, GenerateID: generateID, Now: timeNow})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	sess, err := sessions.Create(eve.ID, eve.Email, eve.FullName())
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	sess = a.selectPatient(t, sess, testPatientEmail)

	rr := call(handleActivityProgress, formRequest("/view_activity_progress", url.Values{"comment_made": {"not mine"}}), sess)
	assertRedirect(t, rr, "/view_patients")
	rr = call(handleSelectedActivity, selectedRequest(http.MethodPost, activity.LabelTandem, url.Values{"comment": {"not mine"}}), sess)
	assertRedirect(t, rr, "/view_patients")

	for _, thread := range []string{activity.GeneralComments, activity.LabelTandem} {
		comments, err := a.stores.CommentStore.ListByPatientActivity(context.Background(), testPatientEmail, thread)
		if err != nil || len(comments) != 0 {
			t.Errorf("%s: comments = %v, err = %v", thread, comments, err)
		}
	}
}

// TestSelectedActivity_UnknownComment tests that a comment on an unknown activity is not stored.
func TestSelectedActivity_UnknownComment(t *testing.T) {
	a, _ := progressApp(t)
	sess := a.selectPatient(t, a.login(t), testPatientEmail)

	rr := call(handleSelectedActivity, selectedRequest(http.MethodPost, "Bogus", url.Values{"comment": {"orphan"}}), sess)
	assertRedirect(t, rr, "/view_activity_progress")
	if f := flashesAfter(rr); len(f) != 1 || f[0].Message != noticeUnknown {
		t.Errorf("flashes = %+v", f)
	}
	comments, err := a.stores.CommentStore.ListByPatientActivity(context.Background(), testPatientEmail, "Bogus")
	if err != nil || len(comments) != 0 {
		t.Errorf("comments = %v, err = %v", comments, err)
	}

	rr = call(handleSelectedActivity, selectedRequest(http.MethodPost, activity.GeneralComments, url.Values{"comment": {"wrong page"}}), sess)
	assertRedirect(t, rr, "/view_activity_progress")
	general, _ := a.stores.CommentStore.ListByPatientActivity(context.Background(), testPatientEmail, activity.GeneralComments)
	if len(general) != 0 {
		t.Errorf("general thread = %v, want empty", general)
	}
}

// TestChart_Ownership tests that a chart is served only to the session that produced it.
func TestChart_Ownership(t *testing.T) {
	a, _ := progressApp(t)
	owner := a.selectPatient(t, a.login(t), testPatientEmail)
	page := call(handleActivityProgress, httptest.NewRequest(http.MethodGet, "/view_activity_progress", nil), owner)
	link := chartURL.FindString(page.Body.String())
	if link == "" {
		t.Fatal("no chart published")
	}
	key := link[len("/charts/"):]

	fetch := func(sessToken string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, link, nil)
		req.SetPathValue("key", key)
		sess, _ := sessions.Get(sessToken)
		return call(handleChart, req, sess)
	}

	rr := fetch(owner.Token)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("owner fetch: status = %d, type = %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if rr := fetch(a.login(t).Token); rr.Code != http.StatusNotFound {
		t.Errorf("other session status = %d, want 404", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/charts/x", nil)
	req.SetPathValue("key", "../etc/passwd")
	if rr := call(handleChart, req, owner); rr.Code != http.StatusNotFound {
		t.Errorf("invalid key status = %d, want 404", rr.Code)
	}
}
