package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"balancehealth/internal/domain/activity"
)

// ActivityStoreForCreate defines the store interface needed by CreateActivity.
type ActivityStoreForCreate interface {
	Create(ctx context.Context, a activity.Activity) error
}

// CreateActivityInput carries the activity form.
type CreateActivityInput struct {
	Name        string
	Description string
	TimeLimit   int
}

// CreateActivityDeps holds dependencies for CreateActivity.
type CreateActivityDeps struct {
	ActivityStore ActivityStoreForCreate
}

// ExecuteCreateActivity adds an activity to the global catalog.
// PRE: TimeLimit is in seconds
// POST: Activity persisted; a duplicate name returns the store's ErrExists
func ExecuteCreateActivity(ctx context.Context, input CreateActivityInput, deps CreateActivityDeps) (activity.Activity, error) {
	a := activity.Activity{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		TimeLimit:   input.TimeLimit,
	}
	if err := a.Validate(); err != nil {
		return activity.Activity{}, err
	}
	if err := deps.ActivityStore.Create(ctx, a); err != nil {
		return activity.Activity{}, err
	}
	slog.Info("activity_event", "event", "activity_created", "name", a.Name, "kind", a.Kind().String())
	return a, nil
}
