package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBrokerDeliversInOrder(t *testing.T) {
	broker := NewMemoryBroker(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, body := range []string{"1", "2", "3"} {
		require.NoError(t, broker.Publish(ctx, Message{
			ID:      "m" + body,
			Queue:   PostQueue,
			Body:    []byte(body),
			Headers: map[string]string{HeaderEventKind: "post.created"},
		}))
	}

	var mutex sync.Mutex
	var got []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		broker.Consume(ctx, PostQueue, func(ctx context.Context, msg Message) error {
			mutex.Lock()
			defer mutex.Unlock()
			assert.Equal(t, "post.created", msg.Header(HeaderEventKind))
			got = append(got, string(msg.Body))
			return nil
		})
	}()

	assert.Eventually(t, func() bool {
		mutex.Lock()
		defer mutex.Unlock()
		return len(got) == 3
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"1", "2", "3"}, got)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}

func TestMemoryBrokerHandlerErrorDoesNotStopConsumer(t *testing.T) {
	broker := NewMemoryBroker(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, broker.Publish(ctx, Message{Queue: ReviewQueue, Body: []byte("bad")}))
	require.NoError(t, broker.Publish(ctx, Message{Queue: ReviewQueue, Body: []byte("good")}))

	seen := make(chan string, 2)
	go broker.Consume(ctx, ReviewQueue, func(ctx context.Context, msg Message) error {
		seen <- string(msg.Body)
		if string(msg.Body) == "bad" {
			return errors.New("malformed")
		}
		return nil
	})

	assert.Equal(t, "bad", <-seen)
	assert.Equal(t, "good", <-seen)
}

func TestMemoryBrokerClosed(t *testing.T) {
	broker := NewMemoryBroker(nil)
	require.NoError(t, broker.Close())
	err := broker.Publish(context.Background(), Message{Queue: PostQueue})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryBrokerFullQueue(t *testing.T) {
	broker := NewMemoryBroker(nil)
	for i := 0; i < memoryQueueDepth; i++ {
		require.NoError(t, broker.Publish(context.Background(), Message{Queue: PostQueue}))
	}
	err := broker.Publish(context.Background(), Message{Queue: PostQueue})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestMessageHeader(t *testing.T) {
	assert.Equal(t, "", Message{}.Header(HeaderEventVersion))
	msg := Message{Headers: map[string]string{HeaderEventVersion: "3"}}
	assert.Equal(t, "3", msg.Header(HeaderEventVersion))
}
