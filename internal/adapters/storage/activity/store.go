package activity

import (
	"context"
	"errors"

	domain "balancehealth/internal/domain/activity"
)

// ErrExists reports a catalog insert for a name that is already taken.
var ErrExists = errors.New("activity already exists")

// Store persists the activity catalog and per-patient assignments.
type Store interface {
	GetByName(ctx context.Context, name string) (domain.Activity, error)
	Create(ctx context.Context, value domain.Activity) error
	List(ctx context.Context) ([]domain.Activity, error)
	SaveAssignment(ctx context.Context, value domain.Assignment) error
	ListAssignments(ctx context.Context, patientEmail string) ([]domain.Assignment, error)
}
