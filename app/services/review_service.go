package services

import (
	"context"
	"errors"
	"fmt"

	"newsroom/app/authz"
	"newsroom/app/events"
	"newsroom/app/models"
	"newsroom/app/repositories"

	"github.com/sirupsen/logrus"
)

// ReviewService records editorial decisions and hands them to the outbox
type ReviewService struct {
	reviews repositories.ReviewRepository
	known   repositories.KnownPostRepository
	posts   PostLookup
	outbox  events.Stager
	guard   EventGuard
	log     *logrus.Entry
}

func NewReviewService(
	reviews repositories.ReviewRepository,
	known repositories.KnownPostRepository,
	posts PostLookup,
	outbox events.Stager,
	guard EventGuard,
	log *logrus.Entry,
) *ReviewService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ReviewService{
		reviews: reviews,
		known:   known,
		posts:   posts,
		outbox:  outbox,
		guard:   guard,
		log:     log.WithField("component", "review-service"),
	}
}

// MakeReview validates the decision, checks the post exists and upserts the
// post's review. The outcome and the author notification are staged in the same
// transaction.
func (s *ReviewService) MakeReview(ctx context.Context, req *models.ReviewRequest, role authz.Role) (*models.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensurePostExists(ctx, req.PostID, role); err != nil {
		return nil, err
	}

	review, err := s.reviews.Upsert(req, s.stageOutcome, s.stageNotification)
	if err != nil {
		return nil, fmt.Errorf("failed to save review for post %d: %w", req.PostID, err)
	}
	s.outbox.Notify()

	s.log.WithFields(logrus.Fields{
		"post_id": review.PostID,
		"status":  review.Status,
		"version": review.Version,
	}).Info("review saved")
	return review, nil
}

func (s *ReviewService) stageOutcome(review *models.Review) repositories.TxHook {
	return s.outbox.Stage(events.KindReviewOutcome, review.PostID, review.Version, review.Message())
}

func (s *ReviewService) stageNotification(review *models.Review) repositories.TxHook {
	return s.outbox.Stage(events.KindReviewNotification, review.PostID, review.Version, review.Notification())
}

func (s *ReviewService) ensurePostExists(ctx context.Context, postID int64, role authz.Role) error {
	known, err := s.known.Contains(postID)
	if err != nil {
		return fmt.Errorf("failed to check known posts: %w", err)
	}
	if known {
		return nil
	}

	if _, err := s.posts.GetPost(ctx, postID, role); err != nil {
		if models.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to look up post %d: %w", postID, err)
	}
	return nil
}

// GetReview returns the review of a post
func (s *ReviewService) GetReview(postID int64) (*models.Review, error) {
	review, err := s.reviews.GetByPostID(postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("review", postID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review for post %d: %w", postID, err)
	}
	return review, nil
}

// TrackPost updates the known-post read model from a post lifecycle event.
// Returns events.ErrStaleEvent for an event that was superseded.
func (s *ReviewService) TrackPost(kind string, postID int64) error {
	var err error
	switch kind {
	case events.KindPostCreated:
		err = s.known.Add(postID, s.guard.Guard(events.PostLifecycleStream, postID, events.PostCreatedVersion))
	case events.KindPostDeleted:
		err = s.known.Remove(postID, s.guard.Guard(events.PostLifecycleStream, postID, events.PostDeletedVersion))
		if err == nil {
			s.posts.Forget(postID)
		}
	default:
		return fmt.Errorf("unknown post event %q", kind)
	}
	if err != nil {
		return fmt.Errorf("failed to track %s for post %d: %w", kind, postID, err)
	}
	return nil
}
