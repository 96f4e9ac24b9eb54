package models

import (
	"time"
)

// NewPost builds a post from a validated request.
func NewPost(req *PostRequest) *Post {
	post := &Post{}
	post.Apply(req)
	return post
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreationDate.IsZero() {
		p.CreationDate = time.Now()
	}
}

// Apply copies the editable fields of req onto the post.
func (p *Post) Apply(req *PostRequest) {
	p.Title = req.Title
	p.Content = req.Content
	p.Author = req.Author
	p.Status = req.Status
}

// ApplyReviewDecision moves the post to the state a review decision leads to.
func (p *Post) ApplyReviewDecision(decision Status) error {
	next, err := decision.PublicationOutcome()
	if err != nil {
		return err
	}
	p.Status = next
	return nil
}
