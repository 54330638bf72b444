package comment

import (
	"context"

	domain "balancehealth/internal/domain/comment"
)

// Store persists comment threads keyed by (patient email, activity).
type Store interface {
	Save(ctx context.Context, value domain.Comment) error
	ListByPatientActivity(ctx context.Context, patientEmail, activity string) ([]domain.Comment, error)
}
