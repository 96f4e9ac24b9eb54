package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"newsroom/app/queue"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayFlushDispatchesInOrder(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutbox(store.DB())
	relay := NewRelay(outbox, time.Second, 0, nil)

	var got []int64
	relay.Register(KindReviewOutcome, func(ctx context.Context, event *Event) error {
		got = append(got, event.AggregateID)
		return nil
	})

	for _, id := range []int64{5, 3, 8} {
		require.NoError(t, store.DB().Update(outbox.Stage(KindReviewOutcome, id, 1, id)))
	}

	delivered, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, delivered)
	assert.Equal(t, []int64{5, 3, 8}, got)

	pending, err := outbox.Pending(0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRelayKeepsFailedEvents(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutbox(store.DB())
	relay := NewRelay(outbox, time.Second, 0, nil)

	failing := true
	relay.Register(KindReviewNotification, func(ctx context.Context, event *Event) error {
		if failing {
			return errors.New("post service down")
		}
		return nil
	})
	relay.Register(KindReviewOutcome, func(ctx context.Context, event *Event) error { return nil })

	require.NoError(t, store.DB().Update(outbox.Stage(KindReviewNotification, 1, 1, "n")))
	require.NoError(t, store.DB().Update(outbox.Stage(KindReviewOutcome, 1, 1, "o")))
	require.NoError(t, store.DB().Update(outbox.Stage("unknown.kind", 1, 1, "x")))

	delivered, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered, "a failing event does not block the ones after it")

	pending, err := outbox.Pending(0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, KindReviewNotification, pending[0].Kind)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Contains(t, pending[1].LastError, "no dispatcher")

	failing = false
	delivered, err = relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, delivered, "failed events wait for their retry time")

	relay.now = func() time.Time { return time.Now().Add(2 * time.Second) }
	delivered, err = relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
}

func TestRelayReachesEventsBehindAFullBatchOfFailures(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutbox(store.DB())
	relay := NewRelay(outbox, time.Second, 0, nil)

	notificationCalls := 0
	relay.Register(KindReviewNotification, func(ctx context.Context, event *Event) error {
		notificationCalls++
		return errors.New("422 from post service")
	})
	var outcomes []int64
	relay.Register(KindReviewOutcome, func(ctx context.Context, event *Event) error {
		outcomes = append(outcomes, event.AggregateID)
		return nil
	})

	failing := relayBatchSize + 50
	for i := 1; i <= failing; i++ {
		require.NoError(t, store.DB().Update(outbox.Stage(KindReviewNotification, int64(i), 1, "n")))
	}
	require.NoError(t, store.DB().Update(outbox.Stage(KindReviewOutcome, 999, 1, "o")))

	delivered, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	assert.Equal(t, []int64{999}, outcomes)
	assert.Equal(t, failing, notificationCalls)

	// Backed off: a second pass does not hammer the failing dispatcher.
	_, err = relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, failing, notificationCalls)

	pending, err := outbox.Pending(0)
	require.NoError(t, err)
	assert.Len(t, pending, failing)
}

func TestRelayRetryDelayGrows(t *testing.T) {
	relay := NewRelay(NewOutbox(newTestStore(t).DB()), time.Second, 0, nil)

	assert.Equal(t, time.Second, relay.retryDelay(1))
	assert.Equal(t, 2*time.Second, relay.retryDelay(2))
	assert.Equal(t, 8*time.Second, relay.retryDelay(4))
	assert.Equal(t, maxRetryDelay, relay.retryDelay(50))
}

func TestRelayRunPublishesToBroker(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutbox(store.DB())
	broker := queue.NewMemoryBroker(nil)
	relay := NewRelay(outbox, time.Hour, 100, nil)
	relay.Register(KindReviewOutcome, PublishTo(broker, queue.ReviewQueue))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relay.Run(ctx)

	payload := map[string]interface{}{"postId": 12, "status": "ACCEPTED"}
	require.NoError(t, store.DB().Update(outbox.Stage(KindReviewOutcome, 12, 3, payload)))
	outbox.Notify()

	var mutex sync.Mutex
	var received []queue.Message
	go broker.Consume(ctx, queue.ReviewQueue, func(ctx context.Context, msg queue.Message) error {
		mutex.Lock()
		defer mutex.Unlock()
		received = append(received, msg)
		return nil
	})

	assert.Eventually(t, func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		return len(received) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mutex.Lock()
	msg := received[0]
	mutex.Unlock()
	assert.Equal(t, DedupKey(KindReviewOutcome, 12, 3), msg.ID)
	assert.Equal(t, KindReviewOutcome, msg.Header(queue.HeaderEventKind))
	assert.Equal(t, "3", msg.Header(queue.HeaderEventVersion))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "ACCEPTED", body["status"])
}

func TestRelayDiscardAcknowledges(t *testing.T) {
	store := newTestStore(t)
	outbox := NewOutbox(store.DB())
	relay := NewRelay(outbox, time.Second, 0, nil)
	relay.Register(KindPostCreated, Discard(logrus.NewEntry(logrus.New())))

	require.NoError(t, store.DB().Update(outbox.Stage(KindPostCreated, 1, PostCreatedVersion, 1)))

	delivered, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	pending, err := outbox.Pending(0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
