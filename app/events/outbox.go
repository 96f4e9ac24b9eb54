package events

import (
	"encoding/json"
	"fmt"
	"time"

	"newsroom/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

const (
	OutboxKeyPrefix = "outbox:"
	OutboxSeqKey    = "seq:outbox"
)

// Stager is what services need from the outbox
type Stager interface {
	// Stage returns a hook that appends the event inside the caller's transaction.
	Stage(kind string, aggregateID, version int64, payload interface{}) repositories.TxHook
	// Notify wakes the relay after a transaction with staged events has committed.
	Notify()
}

// Outbox is a FIFO of events stored in the same badger database as the entities
type Outbox struct {
	db   *badger.DB
	wake chan struct{}
}

func NewOutbox(db *badger.DB) *Outbox {
	return &Outbox{
		db:   db,
		wake: make(chan struct{}, 1),
	}
}

func (o *Outbox) Stage(kind string, aggregateID, version int64, payload interface{}) repositories.TxHook {
	return func(txn *badger.Txn) error {
		event, err := NewEvent(kind, aggregateID, version, payload)
		if err != nil {
			return err
		}
		seq, err := repositories.NextID(txn, OutboxSeqKey)
		if err != nil {
			return err
		}
		event.Seq = seq
		return putEvent(txn, event)
	}
}

func (o *Outbox) Notify() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// Wake fires after Notify; one pending signal is kept at most
func (o *Outbox) Wake() <-chan struct{} {
	return o.wake
}

// Pending returns up to limit events, oldest first. limit <= 0 means all.
func (o *Outbox) Pending(limit int) ([]*Event, error) {
	return o.PendingAfter(0, limit)
}

// PendingAfter returns up to limit events with a sequence number above afterSeq
func (o *Outbox) PendingAfter(afterSeq int64, limit int) ([]*Event, error) {
	var pending []*Event
	err := o.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(OutboxKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(repositories.EntityKey(OutboxKeyPrefix, afterSeq+1)); it.ValidForPrefix(opts.Prefix); it.Next() {
			var event Event
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			}); err != nil {
				return fmt.Errorf("failed to decode outbox entry %s: %w", it.Item().Key(), err)
			}
			pending = append(pending, &event)
			if limit > 0 && len(pending) >= limit {
				break
			}
		}
		return nil
	})
	return pending, err
}

// Ack removes a dispatched event
func (o *Outbox) Ack(seq int64) error {
	return repositories.Update(o.db, func(txn *badger.Txn) error {
		return txn.Delete(repositories.EntityKey(OutboxKeyPrefix, seq))
	})
}

// MarkFailed records a failed dispatch. The event stays queued and is not due
// again before retryAt.
func (o *Outbox) MarkFailed(seq int64, cause error, retryAt time.Time) error {
	return repositories.Update(o.db, func(txn *badger.Txn) error {
		key := repositories.EntityKey(OutboxKeyPrefix, seq)
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		var event Event
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &event)
		}); err != nil {
			return err
		}
		event.Attempts++
		event.LastError = cause.Error()
		event.NextAttemptAt = retryAt
		return putEvent(txn, &event)
	})
}

func putEvent(txn *badger.Txn, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return txn.Set(repositories.EntityKey(OutboxKeyPrefix, event.Seq), data)
}
