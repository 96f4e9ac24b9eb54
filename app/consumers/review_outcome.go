package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"newsroom/app/events"
	"newsroom/app/models"
	"newsroom/app/queue"

	"github.com/sirupsen/logrus"
)

type OutcomeApplier interface {
	ApplyReviewOutcome(outcome models.ReviewOutcome) (*models.Post, error)
}

// ReviewOutcomeConsumer applies review decisions from reviewQueue to posts
type ReviewOutcomeConsumer struct {
	posts OutcomeApplier
	log   *logrus.Entry
}

func NewReviewOutcomeConsumer(posts OutcomeApplier, log *logrus.Entry) *ReviewOutcomeConsumer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ReviewOutcomeConsumer{
		posts: posts,
		log:   log.WithField("component", "review-outcome-consumer"),
	}
}

// Run blocks until ctx is done
func (c *ReviewOutcomeConsumer) Run(ctx context.Context, broker queue.Broker) error {
	return broker.Consume(ctx, queue.ReviewQueue, c.Handle)
}

// Handle applies one message. Stale deliveries are acknowledged without effect.
func (c *ReviewOutcomeConsumer) Handle(ctx context.Context, msg queue.Message) error {
	if kind := msg.Header(queue.HeaderEventKind); kind != "" && kind != events.KindReviewOutcome {
		return fmt.Errorf("unexpected event kind %q on %s", kind, queue.ReviewQueue)
	}

	var outcome models.ReviewOutcome
	if err := json.Unmarshal(msg.Body, &outcome.ReviewMessage); err != nil {
		return fmt.Errorf("malformed review outcome: %w", err)
	}
	version, err := parseVersion(msg.Header(queue.HeaderEventVersion))
	if err != nil {
		return err
	}
	outcome.Version = version

	log := c.log.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"post_id":    outcome.PostID,
		"version":    outcome.Version,
	})

	if _, err := c.posts.ApplyReviewOutcome(outcome); err != nil {
		if errors.Is(err, events.ErrStaleEvent) {
			log.Debug("skipping stale review outcome")
			return nil
		}
		return err
	}
	log.WithField("status", outcome.Status).Info("review outcome consumed")
	return nil
}

func parseVersion(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 0 {
		return 0, fmt.Errorf("malformed event version %q", raw)
	}
	return version, nil
}
