package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"newsroom/app/events"
	"newsroom/app/queue"

	"github.com/sirupsen/logrus"
)

type PostTracker interface {
	TrackPost(kind string, postID int64) error
}

// PostEventConsumer keeps the review service's known-post set in step with postQueue
type PostEventConsumer struct {
	tracker PostTracker
	log     *logrus.Entry
}

func NewPostEventConsumer(tracker PostTracker, log *logrus.Entry) *PostEventConsumer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PostEventConsumer{
		tracker: tracker,
		log:     log.WithField("component", "post-event-consumer"),
	}
}

func (c *PostEventConsumer) Run(ctx context.Context, broker queue.Broker) error {
	return broker.Consume(ctx, queue.PostQueue, c.Handle)
}

// Handle treats a message without a kind header as post.created
func (c *PostEventConsumer) Handle(ctx context.Context, msg queue.Message) error {
	kind := msg.Header(queue.HeaderEventKind)
	if kind == "" {
		kind = events.KindPostCreated
	}

	var postID int64
	if err := json.Unmarshal(msg.Body, &postID); err != nil || postID <= 0 {
		return fmt.Errorf("malformed post id %q", msg.Body)
	}

	log := c.log.WithFields(logrus.Fields{
		"message_id": msg.ID,
		"kind":       kind,
		"post_id":    postID,
	})
	if err := c.tracker.TrackPost(kind, postID); err != nil {
		if errors.Is(err, events.ErrStaleEvent) {
			log.Debug("skipping stale post event")
			return nil
		}
		return err
	}
	log.Info("post event consumed")
	return nil
}
