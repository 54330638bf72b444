package score

import (
	"context"

	domain "balancehealth/internal/domain/score"
)

// Store persists per-patient score documents.
type Store interface {
	Save(ctx context.Context, value domain.Document) error
	ListByPatient(ctx context.Context, patientEmail string) ([]domain.Document, error)
}
