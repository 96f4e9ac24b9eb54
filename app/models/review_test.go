package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewRequestValidation(t *testing.T) {
	valid := ReviewRequest{PostID: 1, Author: "editor", PostAuthor: "writer", Status: StatusAccepted}

	t.Run("valid request", func(t *testing.T) {
		req := valid
		assert.NoError(t, req.Validate())
	})

	t.Run("reason is optional", func(t *testing.T) {
		req := valid
		req.Reason = ""
		assert.NoError(t, req.Validate())
	})

	t.Run("missing post id", func(t *testing.T) {
		req := valid
		req.PostID = 0
		assert.True(t, IsValidationError(req.Validate()))
	})

	t.Run("missing post author", func(t *testing.T) {
		req := valid
		req.PostAuthor = ""
		assert.True(t, IsValidationError(req.Validate()))
	})

	t.Run("draft is not a decision", func(t *testing.T) {
		req := valid
		req.Status = StatusDraft
		assert.True(t, IsInvalidStatus(req.Validate()))
	})
}

func TestReviewOverwriteKeepsIdentity(t *testing.T) {
	review := NewReview(&ReviewRequest{PostID: 7, Reason: "good", Author: "ed", PostAuthor: "wr", Status: StatusAccepted})
	review.ID = 3
	review.BeforeCreate()
	created := review.CreationDate

	review.Overwrite(&ReviewRequest{PostID: 99, Reason: "bad", Author: "ed2", PostAuthor: "wr", Status: StatusRejected})

	assert.Equal(t, int64(3), review.ID)
	assert.Equal(t, int64(7), review.PostID)
	assert.Equal(t, created, review.CreationDate)
	assert.Equal(t, "bad", review.Reason)
	assert.Equal(t, "ed2", review.Author)
	assert.Equal(t, StatusRejected, review.Status)
}

func TestReviewNotification(t *testing.T) {
	review := &Review{PostID: 12, Author: "ed", PostAuthor: "wr", Status: StatusAccepted}
	n := review.Notification()
	assert.Equal(t, "Je post (12) is geaccepteerd", n.Message)
	assert.Equal(t, "ed", n.Author)
	assert.Equal(t, "wr", n.PostAuthor)

	review.Status = StatusRejected
	assert.Equal(t, "Je post (12) is geweigerd", review.Notification().Message)
}
