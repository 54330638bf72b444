package projections

import (
	"context"
	"time"

	"github.com/samber/lo"

	"balancehealth/internal/application/report"
	domainActivity "balancehealth/internal/domain/activity"
	domainComment "balancehealth/internal/domain/comment"
	domainPatient "balancehealth/internal/domain/patient"
	domainScore "balancehealth/internal/domain/score"
)

// OverallLabel is the menu entry leading back to the overall progress page.
const OverallLabel = "Overall"

// ErrUnknownActivity is returned for an activity that is neither known nor in the catalog.
var ErrUnknownActivity = domainActivity.ErrUnknown

// GetSelectedActivityQuery carries query parameters.
type GetSelectedActivityQuery struct {
	StaffID      string
	PatientEmail string
	Activity     string
	Today        time.Time
}

// GetSelectedActivityResult carries the drill-down view of one activity.
type GetSelectedActivityResult struct {
	Patient         domainPatient.Patient
	Activity        string
	Kind            domainActivity.Kind
	OtherActivities []string
	Rows            []domainScore.Row
	Percentage      report.KindPercentage
	Recent          []report.Node
	Trend           []report.TrendPoint
	Signals         []report.Signal
	Comments        []domainComment.Comment
	Notice          string
}

// HasData reports whether the activity has any rows.
func (r GetSelectedActivityResult) HasData() bool {
	return len(r.Rows) > 0
}

// GetSelectedActivityDeps holds dependencies for GetSelectedActivity.
type GetSelectedActivityDeps struct {
	PatientStore  PatientStore
	ActivityStore ActivityStore
	ScoreStore    ScoreStore
	CommentStore  CommentStore
}

// QueryGetSelectedActivity builds the per-activity view: recent-attempt hierarchy,
// avg/max trend, raw signals and the activity's comment thread.
// PRE: StaffID owns the patient; Activity is a known label or a catalog name
// POST: OtherActivities lists the catalog without Activity, followed by OverallLabel
func QueryGetSelectedActivity(ctx context.Context, query GetSelectedActivityQuery, deps GetSelectedActivityDeps) (GetSelectedActivityResult, error) {
	p, err := deps.PatientStore.Get(ctx, query.StaffID, query.PatientEmail)
	if err != nil {
		return GetSelectedActivityResult{}, err
	}

	catalog, err := deps.ActivityStore.List(ctx)
	if err != nil {
		return GetSelectedActivityResult{}, err
	}
	names := lo.Map(catalog, func(a domainActivity.Activity, _ int) string { return a.Name })
	kind := domainActivity.ParseLabel(query.Activity)
	if !kind.Known() && !lo.Contains(names, query.Activity) {
		return GetSelectedActivityResult{}, ErrUnknownActivity
	}

	result := GetSelectedActivityResult{
		Patient:  p,
		Activity: query.Activity,
		Kind:     kind,
		OtherActivities: append(
			lo.Without(names, query.Activity),
			OverallLabel,
		),
		Rows:     []domainScore.Row{},
		Comments: []domainComment.Comment{},
	}

	if result.Comments, err = deps.CommentStore.ListByPatientActivity(ctx, p.Email, query.Activity); err != nil {
		return result, err
	}

	docs, err := deps.ScoreStore.ListByPatient(ctx, p.Email)
	if err != nil {
		return result, err
	}
	rows := report.Flatten(docs).Rows

	result.Rows = report.ForActivity(rows, query.Activity)
	if len(result.Rows) == 0 {
		result.Notice = NoResultsNotice
		return result, nil
	}

	if kind.Known() {
		for _, kp := range report.Percentages(rows) {
			if kp.Kind == kind {
				result.Percentage = kp
			}
		}
	}
	recent := result.Rows
	if len(recent) > report.SignalLimit {
		recent = recent[:report.SignalLimit]
	}
	result.Recent = report.Hierarchy(recent)
	result.Trend = report.AverageTrend(rows, query.Activity)
	result.Signals = report.SignalSeries(rows, query.Activity, report.SignalLimit)
	return result, nil
}
