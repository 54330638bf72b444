package patient

import (
	"context"

	domain "balancehealth/internal/domain/patient"
)

// Store persists patients scoped by their owning staff member.
type Store interface {
	Get(ctx context.Context, staffID, email string) (domain.Patient, error)
	Save(ctx context.Context, value domain.Patient) error
	ListByStaff(ctx context.Context, staffID string) ([]domain.Patient, error)
}
