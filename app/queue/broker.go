package queue

import (
	"context"
	"errors"
)

const (
	PostQueue   = "postQueue"
	ReviewQueue = "reviewQueue"

	HeaderEventKind    = "x-event-kind"
	HeaderEventVersion = "x-event-version"
)

// ErrClosed is returned when publishing on a broker that has been closed
var ErrClosed = errors.New("broker closed")

// ErrQueueFull is returned by the in-memory broker when nobody drains a queue
var ErrQueueFull = errors.New("queue full")

// Message is a single queue delivery. ID is used by brokers as the message id so
// consumers can recognise redeliveries.
type Message struct {
	ID      string
	Queue   string
	Body    []byte
	Headers map[string]string
}

// Header returns the named header, or "" when absent
func (m Message) Header(name string) string {
	if m.Headers == nil {
		return ""
	}
	return m.Headers[name]
}

// Handler processes one message. A returned error drops the message without requeue.
type Handler func(ctx context.Context, msg Message) error

// Broker is implemented by the AMQP and in-memory brokers
type Broker interface {
	Publish(ctx context.Context, msg Message) error
	// Consume blocks, delivering messages from queue one at a time until ctx is done.
	Consume(ctx context.Context, queue string, handler Handler) error
	Close() error
}
