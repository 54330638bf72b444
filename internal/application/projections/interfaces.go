package projections

import (
	"context"

	domainActivity "balancehealth/internal/domain/activity"
	domainComment "balancehealth/internal/domain/comment"
	domainPatient "balancehealth/internal/domain/patient"
	domainScore "balancehealth/internal/domain/score"
)

// PatientStore interface for patient queries.
type PatientStore interface {
	Get(ctx context.Context, staffID, email string) (domainPatient.Patient, error)
	ListByStaff(ctx context.Context, staffID string) ([]domainPatient.Patient, error)
}

// ActivityStore interface for catalog and assignment queries.
type ActivityStore interface {
	List(ctx context.Context) ([]domainActivity.Activity, error)
	ListAssignments(ctx context.Context, patientEmail string) ([]domainActivity.Assignment, error)
}

// ScoreStore interface for score document queries.
type ScoreStore interface {
	ListByPatient(ctx context.Context, patientEmail string) ([]domainScore.Document, error)
}

// CommentStore interface for comment thread queries.
type CommentStore interface {
	ListByPatientActivity(ctx context.Context, patientEmail, activity string) ([]domainComment.Comment, error)
}
