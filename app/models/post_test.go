package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostRequestValidation(t *testing.T) {
	tests := []struct {
		name        string
		req         PostRequest
		wantErr     bool
		wantInvalid bool
	}{
		{
			name:    "draft post",
			req:     PostRequest{Title: "T", Content: "C", Author: "A", Status: StatusDraft},
			wantErr: false,
		},
		{
			name:    "submitted post",
			req:     PostRequest{Title: "T", Content: "C", Author: "A", Status: StatusSubmitted},
			wantErr: false,
		},
		{
			name:        "published post",
			req:         PostRequest{Title: "T", Content: "C", Author: "A", Status: StatusPublished},
			wantErr:     true,
			wantInvalid: true,
		},
		{
			name:        "rejected post",
			req:         PostRequest{Title: "T", Content: "C", Author: "A", Status: StatusRejected},
			wantErr:     true,
			wantInvalid: true,
		},
		{
			name:    "missing title",
			req:     PostRequest{Content: "C", Author: "A", Status: StatusDraft},
			wantErr: true,
		},
		{
			name:    "missing content",
			req:     PostRequest{Title: "T", Author: "A", Status: StatusDraft},
			wantErr: true,
		},
		{
			name:    "missing author",
			req:     PostRequest{Title: "T", Content: "C", Status: StatusDraft},
			wantErr: true,
		},
		{
			name:    "missing status",
			req:     PostRequest{Title: "T", Content: "C", Author: "A"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			if tt.wantInvalid {
				assert.True(t, IsInvalidStatus(err))
			} else {
				assert.True(t, IsValidationError(err))
			}
		})
	}
}

func TestPostRequestValidationReportsJSONField(t *testing.T) {
	req := PostRequest{Content: "C", Author: "A", Status: StatusDraft}

	err := req.Validate()

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "title", valErr.Field)
}

func TestPostBeforeCreate(t *testing.T) {
	post := &Post{Title: "Test Post"}

	assert.True(t, post.CreationDate.IsZero())
	post.BeforeCreate()
	assert.False(t, post.CreationDate.IsZero())
}

func TestPostApplyReviewDecision(t *testing.T) {
	t.Run("accepted publishes", func(t *testing.T) {
		post := &Post{Status: StatusSubmitted}
		assert.NoError(t, post.ApplyReviewDecision(StatusAccepted))
		assert.Equal(t, StatusPublished, post.Status)
	})

	t.Run("rejected rejects", func(t *testing.T) {
		post := &Post{Status: StatusSubmitted}
		assert.NoError(t, post.ApplyReviewDecision(StatusRejected))
		assert.Equal(t, StatusRejected, post.Status)
	})

	t.Run("published post can be overwritten", func(t *testing.T) {
		post := &Post{Status: StatusPublished}
		assert.NoError(t, post.ApplyReviewDecision(StatusRejected))
		assert.Equal(t, StatusRejected, post.Status)
	})

	t.Run("other decisions are refused", func(t *testing.T) {
		post := &Post{Status: StatusDraft}
		err := post.ApplyReviewDecision(StatusDraft)
		assert.True(t, IsInvalidStatus(err))
		assert.Equal(t, StatusDraft, post.Status)
	})
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("PUBLISHED")
	assert.NoError(t, err)
	assert.Equal(t, StatusPublished, s)

	_, err = ParseStatus("published")
	assert.True(t, IsInvalidStatus(err))
}

func TestPostFilterMatches(t *testing.T) {
	now := time.Now()
	post := &Post{
		Content:      "Breaking News about Go",
		Author:       "alice",
		Status:       StatusPublished,
		CreationDate: now,
	}
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name   string
		filter PostFilter
		want   bool
	}{
		{"empty filter", PostFilter{}, true},
		{"content substring ignores case", PostFilter{Content: "breaking news"}, true},
		{"content mismatch", PostFilter{Content: "sports"}, false},
		{"author match", PostFilter{Author: "alice"}, true},
		{"author mismatch", PostFilter{Author: "bob"}, false},
		{"inside date range", PostFilter{FromDate: &before, ToDate: &after}, true},
		{"before range", PostFilter{FromDate: &after}, false},
		{"after range", PostFilter{ToDate: &before}, false},
		{"status match", PostFilter{Status: StatusPublished}, true},
		{"status mismatch", PostFilter{Status: StatusDraft}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(post))
		})
	}
}

func TestParseDateTime(t *testing.T) {
	local, err := ParseDateTime("2024-05-01T10:30:00")
	assert.NoError(t, err)
	assert.Equal(t, 10, local.Hour())

	zoned, err := ParseDateTime("2024-05-01T10:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, zoned.Location())

	_, err = ParseDateTime("yesterday")
	assert.True(t, IsValidationError(err))
}
