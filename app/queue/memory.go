package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

const memoryQueueDepth = 1024

// MemoryBroker delivers messages through buffered channels inside one process.
// It backs single-process deployments and tests.
type MemoryBroker struct {
	mutex  sync.Mutex
	queues map[string]chan Message
	closed bool
	log    *logrus.Entry
}

func NewMemoryBroker(log *logrus.Entry) *MemoryBroker {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &MemoryBroker{
		queues: make(map[string]chan Message),
		log:    log.WithField("broker", "memory"),
	}
}

func (b *MemoryBroker) queue(name string) (chan Message, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	ch, ok := b.queues[name]
	if !ok {
		ch = make(chan Message, memoryQueueDepth)
		b.queues[name] = ch
	}
	return ch, nil
}

func (b *MemoryBroker) Publish(ctx context.Context, msg Message) error {
	ch, err := b.queue(msg.Queue)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case ch <- msg:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrQueueFull, msg.Queue)
	}
}

func (b *MemoryBroker) Consume(ctx context.Context, queue string, handler Handler) error {
	ch, err := b.queue(queue)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-ch:
			if err := handler(ctx, msg); err != nil {
				b.log.WithError(err).WithFields(logrus.Fields{
					"queue":      queue,
					"message_id": msg.ID,
				}).Warn("dropping message")
			}
		}
	}
}

// Close stops accepting publishes. Consumers exit when their context is cancelled.
func (b *MemoryBroker) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.closed = true
	return nil
}
