package repositories

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"newsroom/app/models"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix         = "post:"
	ReviewKeyPrefix       = "review:"
	ReviewByPostKeyPrefix = "review_post:"
	CommentKeyPrefix      = "comment:"
	NotificationKeyPrefix = "notification:"
	KnownPostKeyPrefix    = "known_post:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey         = "seq:post"
	ReviewSeqKey       = "seq:review"
	CommentSeqKey      = "seq:comment"
	NotificationSeqKey = "seq:notification"
)

// ErrNotFound is returned by every repository for a missing record
var ErrNotFound = models.ErrNotFound

// TxHook runs inside the transaction that writes an entity, after the entity has been
// written and its ID assigned. An error aborts the whole transaction.
type TxHook func(txn *badger.Txn) error

// Lazy defers building a hook until the transaction runs it, so the hook can use
// fields such as the ID that the repository assigns first.
func Lazy(build func() TxHook) TxHook {
	return func(txn *badger.Txn) error {
		return build()(txn)
	}
}

// ReviewTxHook builds a hook from the review as it is about to be committed
type ReviewTxHook func(review *models.Review) TxHook

func runHooks(txn *badger.Txn, hooks []TxHook) error {
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook(txn); err != nil {
			return err
		}
	}
	return nil
}

// maxTxnAttempts bounds Update's retries; each lost round means another writer committed
const maxTxnAttempts = 100

// Update runs fn in a read-write transaction and retries it when badger reports a
// conflict with a transaction that committed first. fn may run more than once and
// must rebuild its state from txn every time.
func Update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 1; attempt <= maxTxnAttempts; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		time.Sleep(time.Duration(rand.Intn(attempt)+1) * 50 * time.Microsecond)
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxTxnAttempts, err)
}

// NextID gets the next available ID for a given sequence key
func NextID(txn *badger.Txn, seqKey string) (int64, error) {
	var id uint64
	item, err := txn.Get([]byte(seqKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt sequence %s", seqKey)
			}
			id = binary.BigEndian.Uint64(val)
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, id)
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return int64(id), nil
}

// EntityKey zero-pads the id so keys iterate in id order
func EntityKey(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

func putEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// mustExist returns ErrNotFound unless key is present
func mustExist(txn *badger.Txn, key []byte) error {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// scanPrefix decodes every value under prefix, keeping those accepted by keep
func scanPrefix[T any](txn *badger.Txn, prefix string, keep func(*T) bool) ([]*T, error) {
	var out []*T
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		entity := new(T)
		err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, entity)
		})
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(entity) {
			out = append(out, entity)
		}
	}
	return out, nil
}
