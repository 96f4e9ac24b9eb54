package services

import (
	"errors"
	"fmt"

	"newsroom/app/models"
	"newsroom/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	comments repositories.CommentRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repositories.CommentRepository) *CommentService {
	return &CommentService{comments: comments}
}

// Create creates a new comment. Comments are not checked against the post service.
func (s *CommentService) Create(req *models.CommentRequest) (*models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	comment := models.NewComment(req)
	if err := s.comments.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListByPost retrieves all comments for a post
func (s *CommentService) ListByPost(postID int64) ([]*models.Comment, error) {
	comments, err := s.comments.ListByPost(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// UpdateContent replaces the text of an existing comment
func (s *CommentService) UpdateContent(id int64, req *models.CommentRequest) (*models.Comment, error) {
	if err := req.ValidateUpdate(); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("comment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %d: %w", id, err)
	}

	comment.Content = req.Content
	if err := s.comments.Update(comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, models.NewNotFoundError("comment", id)
		}
		return nil, fmt.Errorf("failed to update comment %d: %w", id, err)
	}
	return comment, nil
}

// Delete deletes a comment
func (s *CommentService) Delete(id int64) error {
	err := s.comments.Delete(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NewNotFoundError("comment", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return nil
}
