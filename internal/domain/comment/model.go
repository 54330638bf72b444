package comment

import (
	"errors"
	"strings"
	"time"
)

// MaxBodyLength bounds a comment body (markdown source).
const MaxBodyLength = 5000

// DateLayout is the calendar-day layout of Date.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrEmptyPatient  = errors.New("comment requires a patient email")
	ErrEmptyActivity = errors.New("comment requires an activity")
	ErrEmptyBody     = errors.New("comment cannot be empty")
	ErrBodyTooLong   = errors.New("comment cannot exceed 5000 characters")
	ErrEmptyAuthor   = errors.New("comment requires an author")
)

// Comment is a staff annotation on one patient's activity thread.
// Threads are keyed by (PatientEmail, Activity) and read newest Date first.
type Comment struct {
	ID           string
	PatientEmail string
	Activity     string
	Date         string
	Body         string
	AuthorID     string
	CreatedAt    time.Time
}

// Validate checks if the Comment has valid data.
// PRE: Comment struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Comment) Validate() error {
	if strings.TrimSpace(c.PatientEmail) == "" {
		return ErrEmptyPatient
	}
	if strings.TrimSpace(c.Activity) == "" {
		return ErrEmptyActivity
	}
	if strings.TrimSpace(c.Body) == "" {
		return ErrEmptyBody
	}
	if len(c.Body) > MaxBodyLength {
		return ErrBodyTooLong
	}
	if c.AuthorID == "" {
		return ErrEmptyAuthor
	}
	return nil
}
