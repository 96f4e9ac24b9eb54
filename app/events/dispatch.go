package events

import (
	"context"
	"strconv"

	"newsroom/app/queue"

	"github.com/sirupsen/logrus"
)

// PublishTo forwards events to a broker queue. The dedup key becomes the
// message id; kind and version travel as headers.
func PublishTo(broker queue.Broker, queueName string) Dispatcher {
	return func(ctx context.Context, event *Event) error {
		return broker.Publish(ctx, queue.Message{
			ID:    event.DedupKey,
			Queue: queueName,
			Body:  event.Payload,
			Headers: map[string]string{
				queue.HeaderEventKind:    event.Kind,
				queue.HeaderEventVersion: strconv.FormatInt(event.Version, 10),
			},
		})
	}
}

// Discard acknowledges events without sending them anywhere. A service running
// without a broker uses it for the queues nobody consumes.
func Discard(log *logrus.Entry) Dispatcher {
	return func(ctx context.Context, event *Event) error {
		log.WithFields(logrus.Fields{
			"kind":         event.Kind,
			"aggregate_id": event.AggregateID,
		}).Debug("no broker, event discarded")
		return nil
	}
}
