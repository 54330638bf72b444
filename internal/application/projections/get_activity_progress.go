package projections

import (
	"context"
	"log/slog"
	"time"

	"balancehealth/internal/application/report"
	domainActivity "balancehealth/internal/domain/activity"
	domainComment "balancehealth/internal/domain/comment"
	domainPatient "balancehealth/internal/domain/patient"
	domainScore "balancehealth/internal/domain/score"
)

// NoResultsNotice is shown when a patient has no score rows.
const NoResultsNotice = "No activity results recorded for this patient."

// GetActivityProgressQuery carries query parameters.
type GetActivityProgressQuery struct {
	StaffID      string
	PatientEmail string
	View         string
	Today        time.Time
}

// GetActivityProgressResult carries the overall progress of a patient.
// Rows is the selected view; the aggregates cover every row.
type GetActivityProgressResult struct {
	Patient      domainPatient.Patient
	View         string
	ViewTitle    string
	Rows         []domainScore.Row
	Total        int
	Percentages  []report.KindPercentage
	DailyCounts  []report.DayCount
	Breakdown    []report.CompletionCount
	Hierarchy    []report.Node
	Unrecognized []report.Unrecognized
	Comments     []domainComment.Comment
	Notice       string
}

// HasData reports whether any score rows exist for the patient.
func (r GetActivityProgressResult) HasData() bool {
	return r.Total > 0
}

// GetActivityProgressDeps holds dependencies for GetActivityProgress.
type GetActivityProgressDeps struct {
	PatientStore PatientStore
	ScoreStore   ScoreStore
	CommentStore CommentStore
}

// QueryGetActivityProgress flattens the patient's score documents and aggregates them.
// PRE: StaffID owns the patient; otherwise the store's not-found error is returned
// POST: With no rows, Notice is NoResultsNotice and every aggregate is empty
func QueryGetActivityProgress(ctx context.Context, query GetActivityProgressQuery, deps GetActivityProgressDeps) (GetActivityProgressResult, error) {
	p, err := deps.PatientStore.Get(ctx, query.StaffID, query.PatientEmail)
	if err != nil {
		return GetActivityProgressResult{}, err
	}
	result := GetActivityProgressResult{
		Patient:   p,
		View:      query.View,
		ViewTitle: report.ViewTitle(query.View),
		Rows:      []domainScore.Row{},
		Comments:  []domainComment.Comment{},
	}

	comments, err := deps.CommentStore.ListByPatientActivity(ctx, p.Email, domainActivity.GeneralComments)
	if err != nil {
		return result, err
	}
	result.Comments = comments

	docs, err := deps.ScoreStore.ListByPatient(ctx, p.Email)
	if err != nil {
		return result, err
	}
	flat := report.Flatten(docs)
	result.Unrecognized = flat.Unrecognized
	result.Total = len(flat.Rows)
	if result.Total == 0 {
		result.Notice = NoResultsNotice
		return result, nil
	}

	result.Rows = report.Select(query.View, flat.Rows, query.Today)
	result.Percentages = report.Percentages(flat.Rows)
	result.Breakdown = report.CompletionBreakdown(flat.Rows)
	result.Hierarchy = report.Hierarchy(flat.Rows)
	if counts, err := report.DailyCounts(flat.Rows, query.Today); err == nil {
		result.DailyCounts = counts
	}

	slog.Debug("report_event", "event", "progress_built", "patient", p.Email, "rows", result.Total,
		"selected", len(result.Rows), "view", query.View, "unrecognized", len(flat.Unrecognized))
	return result, nil
}
