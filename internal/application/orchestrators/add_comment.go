package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"balancehealth/internal/domain/activity"
	"balancehealth/internal/domain/comment"
	"balancehealth/internal/domain/patient"
)

// CommentStoreForAdd defines the store interface needed by AddComment.
type CommentStoreForAdd interface {
	Save(ctx context.Context, c comment.Comment) error
}

// PatientStoreForComment resolves a patient within one staff member's list.
type PatientStoreForComment interface {
	Get(ctx context.Context, staffID, email string) (patient.Patient, error)
}

// ActivityCatalog lists the activities comments may be filed under.
type ActivityCatalog interface {
	List(ctx context.Context) ([]activity.Activity, error)
}

// AddCommentInput carries a comment on one patient's activity thread.
type AddCommentInput struct {
	PatientEmail string
	Activity     string
	Body         string
	AuthorID     string // staff member who must own the patient
}

// AddCommentDeps holds dependencies for AddComment.
type AddCommentDeps struct {
	PatientStore  PatientStoreForComment
	ActivityStore ActivityCatalog
	CommentStore  CommentStoreForAdd
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteAddComment records a comment dated today.
// PRE: AuthorID owns the patient; Activity is a comment thread (activity.HasThread)
// POST: Comment persisted with Date = Now() as YYYY-MM-DD; nothing is written when a PRE fails
func ExecuteAddComment(ctx context.Context, input AddCommentInput, deps AddCommentDeps) (comment.Comment, error) {
	email := strings.ToLower(strings.TrimSpace(input.PatientEmail))
	if _, err := deps.PatientStore.Get(ctx, input.AuthorID, email); err != nil {
		return comment.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	catalog, err := deps.ActivityStore.List(ctx)
	if err != nil {
		return comment.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	if !activity.HasThread(input.Activity, catalog) {
		return comment.Comment{}, activity.ErrUnknown
	}

	now := deps.Now()
	c := comment.Comment{
		ID:           deps.GenerateID(),
		PatientEmail: email,
		Activity:     input.Activity,
		Date:         now.Format(comment.DateLayout),
		Body:         strings.TrimSpace(input.Body),
		AuthorID:     input.AuthorID,
		CreatedAt:    now,
	}
	if err := c.Validate(); err != nil {
		return comment.Comment{}, err
	}
	if err := deps.CommentStore.Save(ctx, c); err != nil {
		return comment.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	slog.Info("comment_event", "event", "comment_added", "patient", c.PatientEmail, "activity", c.Activity, "author", c.AuthorID)
	return c, nil
}
