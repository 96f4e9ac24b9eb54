package repositories

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// BadgerKnownPostRepository records the post IDs announced on the post queue
type BadgerKnownPostRepository struct {
	db *badger.DB
}

func NewBadgerKnownPostRepository(db *badger.DB) *BadgerKnownPostRepository {
	return &BadgerKnownPostRepository{db: db}
}

// Add is idempotent
func (r *BadgerKnownPostRepository) Add(postID int64, hooks ...TxHook) error {
	return Update(r.db, func(txn *badger.Txn) error {
		if err := runHooks(txn, hooks); err != nil {
			return err
		}
		return txn.Set(EntityKey(KnownPostKeyPrefix, postID), []byte{1})
	})
}

// Remove is idempotent
func (r *BadgerKnownPostRepository) Remove(postID int64, hooks ...TxHook) error {
	return Update(r.db, func(txn *badger.Txn) error {
		if err := runHooks(txn, hooks); err != nil {
			return err
		}
		return txn.Delete(EntityKey(KnownPostKeyPrefix, postID))
	})
}

func (r *BadgerKnownPostRepository) Contains(postID int64) (bool, error) {
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(EntityKey(KnownPostKeyPrefix, postID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}
