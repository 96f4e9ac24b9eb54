package models

import (
	"fmt"
	"strings"
	"time"
)

// PostRequest is the body of POST /posts and PUT /posts/{id}.
type PostRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
	Author  string `json:"author" validate:"required"`
	Status  Status `json:"status" validate:"required"`
}

// Validate checks required fields first, then the status restriction.
func (r *PostRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !r.Status.IsInitial() {
		return NewInvalidStatusError(string(r.Status), InitialStatuses)
	}
	return nil
}

// ReviewRequest is the body of POST /reviews.
type ReviewRequest struct {
	PostID     int64  `json:"postId" validate:"required,gt=0"`
	Reason     string `json:"reason"`
	Author     string `json:"author" validate:"required"`
	PostAuthor string `json:"postAuthor" validate:"required"`
	Status     Status `json:"status" validate:"required"`
}

func (r *ReviewRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !r.Status.IsReviewDecision() {
		return NewInvalidStatusError(string(r.Status), ReviewDecisions)
	}
	return nil
}

// CommentRequest is the body of POST /comments and PATCH /comments/{id}.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
	PostID  int64  `json:"postId" validate:"required,gt=0"`
	Author  string `json:"author" validate:"required"`
}

func (r *CommentRequest) Validate() error {
	return validateStruct(r)
}

// ValidateUpdate only checks the content, the one field a patch may change.
func (r *CommentRequest) ValidateUpdate() error {
	if err := validate.Var(r.Content, "required,max=2000"); err != nil {
		return NewValidationError("content", "is required and must be at most 2000 characters")
	}
	return nil
}

// NotificationRequest is the body of POST /posts/notification.
type NotificationRequest struct {
	Message    string `json:"message" validate:"required"`
	Author     string `json:"author"`
	PostAuthor string `json:"postAuthor" validate:"required"`
}

func (r *NotificationRequest) Validate() error {
	return validateStruct(r)
}

// ReviewMessage is the reviewQueue payload.
type ReviewMessage struct {
	PostID int64  `json:"postId"`
	Status Status `json:"status"`
}

// ReviewOutcome is a review decision as received by the post service.
// A zero Version means the sender did not version the decision.
type ReviewOutcome struct {
	ReviewMessage
	Version int64
}

// DateTimeLayout is the ISO local date-time accepted by the post filter.
const DateTimeLayout = "2006-01-02T15:04:05"

// ParseDateTime accepts either DateTimeLayout or RFC 3339.
func ParseDateTime(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation(DateTimeLayout, raw, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, NewValidationError("date", fmt.Sprintf("%q is not a date-time", raw))
	}
	return t, nil
}

// PostFilter selects posts for GET /posts. Zero fields match everything.
type PostFilter struct {
	Content  string
	Author   string
	FromDate *time.Time
	ToDate   *time.Time
	Status   Status
}

// Matches reports whether p satisfies every set criterion.
func (f PostFilter) Matches(p *Post) bool {
	if f.Content != "" && !strings.Contains(strings.ToLower(p.Content), strings.ToLower(f.Content)) {
		return false
	}
	if f.Author != "" && p.Author != f.Author {
		return false
	}
	if f.FromDate != nil && p.CreationDate.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && p.CreationDate.After(*f.ToDate) {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return true
}
