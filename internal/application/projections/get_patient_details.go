package projections

import (
	"context"

	domainActivity "balancehealth/internal/domain/activity"
	domainComment "balancehealth/internal/domain/comment"
	domainPatient "balancehealth/internal/domain/patient"
)

// GetPatientDetailsQuery carries query parameters.
// Thread is the comment thread label; empty selects the general thread.
type GetPatientDetailsQuery struct {
	StaffID      string
	PatientEmail string
	Thread       string
}

// GetPatientDetailsResult carries the query result.
type GetPatientDetailsResult struct {
	Patient     domainPatient.Patient
	Catalog     []domainActivity.Activity
	Assignments []domainActivity.Assignment
	Thread      string
	Comments    []domainComment.Comment
}

// GetPatientDetailsDeps holds dependencies for GetPatientDetails.
type GetPatientDetailsDeps struct {
	PatientStore  PatientStore
	ActivityStore ActivityStore
	CommentStore  CommentStore
}

// QueryGetPatientDetails loads a patient with the catalog, its assignments and one comment thread.
// PRE: StaffID owns the patient; otherwise the store's not-found error is returned
// POST: Comments are newest first; slices are non-nil
func QueryGetPatientDetails(ctx context.Context, query GetPatientDetailsQuery, deps GetPatientDetailsDeps) (GetPatientDetailsResult, error) {
	p, err := deps.PatientStore.Get(ctx, query.StaffID, query.PatientEmail)
	if err != nil {
		return GetPatientDetailsResult{}, err
	}

	thread := query.Thread
	if thread == "" {
		thread = domainActivity.GeneralComments
	}
	result := GetPatientDetailsResult{
		Patient:     p,
		Thread:      thread,
		Catalog:     []domainActivity.Activity{},
		Assignments: []domainActivity.Assignment{},
		Comments:    []domainComment.Comment{},
	}

	if result.Catalog, err = deps.ActivityStore.List(ctx); err != nil {
		return result, err
	}
	if result.Assignments, err = deps.ActivityStore.ListAssignments(ctx, p.Email); err != nil {
		return result, err
	}
	if result.Comments, err = deps.CommentStore.ListByPatientActivity(ctx, p.Email, thread); err != nil {
		return result, err
	}
	return result, nil
}
