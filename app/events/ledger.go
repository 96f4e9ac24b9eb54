package events

import (
	"encoding/binary"
	"errors"
	"fmt"

	"newsroom/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

const InboxKeyPrefix = "inbox:"

// ErrStaleEvent aborts a transaction whose event was already applied or superseded
var ErrStaleEvent = errors.New("stale event")

// Ledger remembers the last applied version per (kind, aggregate) so consumers
// can drop redeliveries and out-of-order messages.
type Ledger struct {
	db *badger.DB
}

func NewLedger(db *badger.DB) *Ledger {
	return &Ledger{db: db}
}

func inboxKey(kind string, aggregateID int64) []byte {
	return repositories.EntityKey(InboxKeyPrefix+kind+":", aggregateID)
}

// Guard returns a hook that records version or fails with ErrStaleEvent when
// version is not newer than what was applied. Version 0 always passes and is
// not recorded.
func (l *Ledger) Guard(kind string, aggregateID, version int64) repositories.TxHook {
	return func(txn *badger.Txn) error {
		if version == 0 {
			return nil
		}
		applied, err := lastApplied(txn, kind, aggregateID)
		if err != nil {
			return err
		}
		if version <= applied {
			return fmt.Errorf("%s for %d at version %d (applied %d): %w", kind, aggregateID, version, applied, ErrStaleEvent)
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(version))
		return txn.Set(inboxKey(kind, aggregateID), buf)
	}
}

// LastApplied reports the recorded version, 0 when nothing was applied
func (l *Ledger) LastApplied(kind string, aggregateID int64) (int64, error) {
	var version int64
	err := l.db.View(func(txn *badger.Txn) error {
		var err error
		version, err = lastApplied(txn, kind, aggregateID)
		return err
	})
	return version, err
}

func lastApplied(txn *badger.Txn, kind string, aggregateID int64) (int64, error) {
	item, err := txn.Get(inboxKey(kind, aggregateID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var version int64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt inbox entry for %s %d", kind, aggregateID)
		}
		version = int64(binary.BigEndian.Uint64(val))
		return nil
	})
	return version, err
}
