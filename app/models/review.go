package models

import (
	"fmt"
	"time"
)

// NewReview builds the first review for a post.
func NewReview(req *ReviewRequest) *Review {
	review := &Review{PostID: req.PostID}
	review.Overwrite(req)
	return review
}

// BeforeCreate sets up any necessary fields before creation
func (r *Review) BeforeCreate() {
	if r.CreationDate.IsZero() {
		r.CreationDate = time.Now()
	}
}

// Overwrite replaces the decision fields in place. ID, PostID and CreationDate are kept.
func (r *Review) Overwrite(req *ReviewRequest) {
	r.Reason = req.Reason
	r.Author = req.Author
	r.PostAuthor = req.PostAuthor
	r.Status = req.Status
}

// Message is what the review publishes to the post service.
func (r *Review) Message() ReviewMessage {
	return ReviewMessage{PostID: r.PostID, Status: r.Status}
}

// Notification is the message the post author receives about this review.
func (r *Review) Notification() NotificationRequest {
	text := fmt.Sprintf("Je post (%d) is geweigerd", r.PostID)
	if r.Status == StatusAccepted {
		text = fmt.Sprintf("Je post (%d) is geaccepteerd", r.PostID)
	}
	return NotificationRequest{
		Message:    text,
		Author:     r.Author,
		PostAuthor: r.PostAuthor,
	}
}
