package services

import (
	"errors"
	"fmt"

	"newsroom/app/events"
	"newsroom/app/models"
	"newsroom/app/repositories"

	"github.com/sirupsen/logrus"
)

// PostService handles business logic for news posts
type PostService struct {
	posts  repositories.PostRepository
	outbox events.Stager
	guard  EventGuard
	log    *logrus.Entry
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, outbox events.Stager, guard EventGuard, log *logrus.Entry) *PostService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PostService{
		posts:  posts,
		outbox: outbox,
		guard:  guard,
		log:    log.WithField("component", "post-service"),
	}
}

// Create validates the request and stores the post together with its post.created event
func (s *PostService) Create(req *models.PostRequest) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post := models.NewPost(req)
	post.BeforeCreate()

	err := s.posts.Create(post, repositories.Lazy(func() repositories.TxHook {
		return s.outbox.Stage(events.KindPostCreated, post.ID, events.PostCreatedVersion, post.ID)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.outbox.Notify()

	s.log.WithField("post_id", post.ID).Info("post created")
	return post, nil
}

// Get retrieves a post by ID
func (s *PostService) Get(id int64) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("post", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return post, nil
}

// Update replaces the editable fields of an existing post; the creation date is kept
func (s *PostService) Update(id int64, req *models.PostRequest) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	post.Apply(req)

	if err := s.save(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post and announces it so reviews can no longer target it
func (s *PostService) Delete(id int64) error {
	err := s.posts.Delete(id, s.outbox.Stage(events.KindPostDeleted, id, events.PostDeletedVersion, id))
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NewNotFoundError("post", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	s.outbox.Notify()

	s.log.WithField("post_id", id).Info("post deleted")
	return nil
}

// ListByStatus returns every post currently in status
func (s *PostService) ListByStatus(status models.Status) ([]*models.Post, error) {
	posts, err := s.posts.ListByStatus(status)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpdateStatus sets any known status, bypassing the review workflow
func (s *PostService) UpdateStatus(id int64, status models.Status) (*models.Post, error) {
	if _, err := models.ParseStatus(string(status)); err != nil {
		return nil, err
	}

	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	post.Status = status

	if err := s.save(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Filter returns the posts matching every set criterion, ordered by ID
func (s *PostService) Filter(filter models.PostFilter) ([]*models.Post, error) {
	posts, err := s.posts.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	matched := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if filter.Matches(post) {
			matched = append(matched, post)
		}
	}
	return matched, nil
}

// ApplyReviewOutcome publishes or rejects a post according to a review decision.
// A versioned outcome that is not newer than the last applied one returns
// events.ErrStaleEvent and changes nothing.
func (s *PostService) ApplyReviewOutcome(outcome models.ReviewOutcome) (*models.Post, error) {
	post, err := s.Get(outcome.PostID)
	if err != nil {
		return nil, err
	}
	if err := post.ApplyReviewDecision(outcome.Status); err != nil {
		return nil, err
	}

	err = s.posts.Update(post, s.guard.Guard(events.KindReviewOutcome, outcome.PostID, outcome.Version))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("post", outcome.PostID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply review outcome to post %d: %w", outcome.PostID, err)
	}

	s.log.WithFields(logrus.Fields{
		"post_id": post.ID,
		"status":  post.Status,
		"version": outcome.Version,
	}).Info("review outcome applied")
	return post, nil
}

func (s *PostService) save(post *models.Post) error {
	err := s.posts.Update(post)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NewNotFoundError("post", post.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}
	return nil
}
