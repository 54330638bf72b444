package comment_test

import (
	"errors"
	"strings"
	"testing"

	"balancehealth/internal/domain/comment"
)

// TestComment_Validate tests validation of Comment.
func TestComment_Validate(t *testing.T) {
	base := comment.Comment{
		PatientEmail: "a@b.com",
		Activity:     "General comments",
		Date:         "2024-02-01",
		Body:         "Steadier than last week.",
		AuthorID:     "staff-1",
	}
	tests := []struct {
		name    string
		mutate  func(c *comment.Comment)
		wantErr error
	}{
		{name: "valid", mutate: func(c *comment.Comment) {}},
		{name: "no patient", mutate: func(c *comment.Comment) { c.PatientEmail = "" }, wantErr: comment.ErrEmptyPatient},
		{name: "no activity", mutate: func(c *comment.Comment) { c.Activity = " " }, wantErr: comment.ErrEmptyActivity},
		{name: "blank body", mutate: func(c *comment.Comment) { c.Body = "\n\t" }, wantErr: comment.ErrEmptyBody},
		{name: "long body", mutate: func(c *comment.Comment) { c.Body = strings.Repeat("a", comment.MaxBodyLength+1) }, wantErr: comment.ErrBodyTooLong},
		{name: "no author", mutate: func(c *comment.Comment) { c.AuthorID = "" }, wantErr: comment.ErrEmptyAuthor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
