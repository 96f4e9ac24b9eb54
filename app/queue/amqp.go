package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const defaultReconnectDelay = 5 * time.Second

// AMQPBroker publishes with confirms over a single shared channel and opens a
// dedicated connection per consumer, reconnecting when it drops.
type AMQPBroker struct {
	url            string
	log            *logrus.Entry
	reconnectDelay time.Duration

	mutex    sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	declared map[string]bool
	closed   bool
}

// DialAMQP connects the publishing side eagerly so a bad URL fails at startup
func DialAMQP(url string, log *logrus.Entry) (*AMQPBroker, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	b := &AMQPBroker{
		url:            url,
		log:            log.WithField("broker", "amqp"),
		reconnectDelay: defaultReconnectDelay,
		declared:       make(map[string]bool),
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	if err := b.connectPublisher(); err != nil {
		return nil, err
	}
	return b, nil
}

// connectPublisher must be called with the mutex held
func (b *AMQPBroker) connectPublisher() error {
	if b.conn != nil && !b.conn.IsClosed() && b.channel != nil && !b.channel.IsClosed() {
		return nil
	}
	if b.conn == nil || b.conn.IsClosed() {
		conn, err := amqp.Dial(b.url)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		b.conn = conn
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}
	b.channel = ch
	b.declared = make(map[string]bool)
	return nil
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}
	return nil
}

// Publish returns once the broker has confirmed the message
func (b *AMQPBroker) Publish(ctx context.Context, msg Message) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.closed {
		return ErrClosed
	}
	if err := b.connectPublisher(); err != nil {
		return err
	}
	if !b.declared[msg.Queue] {
		if err := declareQueue(b.channel, msg.Queue); err != nil {
			return err
		}
		b.declared[msg.Queue] = true
	}

	confirmation, err := b.channel.PublishWithDeferredConfirmWithContext(ctx, "", msg.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    time.Now(),
		Headers:      toTable(msg.Headers),
		Body:         msg.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", msg.Queue, err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("waiting for confirm on %s: %w", msg.Queue, err)
	}
	if !acked {
		return fmt.Errorf("broker nacked message %s on %s", msg.ID, msg.Queue)
	}
	return nil
}

// Consume keeps a consumer attached to queue until ctx is done, retrying the
// connection every reconnect delay.
func (b *AMQPBroker) Consume(ctx context.Context, queue string, handler Handler) error {
	log := b.log.WithField("queue", queue)
	for {
		err := b.consumeOnce(ctx, queue, handler)
		if ctx.Err() != nil {
			return nil
		}
		log.WithError(err).Warnf("consumer disconnected, retrying in %s", b.reconnectDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(b.reconnectDelay):
		}
	}
}

func (b *AMQPBroker) consumeOnce(ctx context.Context, queue string, handler Handler) error {
	conn, err := amqp.Dial(b.url)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, queue); err != nil {
		return err
	}
	// one unacknowledged delivery at a time keeps consumption sequential
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", queue, err)
	}
	b.log.WithField("queue", queue).Info("consumer attached")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			b.handle(ctx, queue, d, handler)
		}
	}
}

func (b *AMQPBroker) handle(ctx context.Context, queue string, d amqp.Delivery, handler Handler) {
	msg := Message{
		ID:      d.MessageId,
		Queue:   queue,
		Body:    d.Body,
		Headers: fromTable(d.Headers),
	}
	log := b.log.WithFields(logrus.Fields{"queue": queue, "message_id": msg.ID})

	if err := handler(ctx, msg); err != nil {
		log.WithError(err).Warn("rejecting message")
		if err := d.Nack(false, false); err != nil {
			log.WithError(err).Error("nack failed")
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.WithError(err).Error("ack failed")
	}
}

func (b *AMQPBroker) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.closed = true
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil && !b.conn.IsClosed() {
		return b.conn.Close()
	}
	return nil
}

func toTable(headers map[string]string) amqp.Table {
	if len(headers) == 0 {
		return nil
	}
	table := make(amqp.Table, len(headers))
	for k, v := range headers {
		table[k] = v
	}
	return table
}

func fromTable(table amqp.Table) map[string]string {
	headers := make(map[string]string, len(table))
	for k, v := range table {
		switch val := v.(type) {
		case string:
			headers[k] = val
		case []byte:
			headers[k] = string(val)
		default:
			headers[k] = fmt.Sprint(val)
		}
	}
	return headers
}
