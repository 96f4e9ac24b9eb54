package repositories

import (
	"encoding/binary"
	"errors"
	"fmt"

	"newsroom/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerReviewRepository keeps at most one review per post. The review_post: index
// maps a post ID to the review ID that belongs to it.
type BadgerReviewRepository struct {
	db *badger.DB
}

func NewBadgerReviewRepository(db *badger.DB) *BadgerReviewRepository {
	return &BadgerReviewRepository{db: db}
}

// Upsert overwrites the post's review in place, or creates it when the post has none.
// Version starts at 1 and increases with every write.
func (r *BadgerReviewRepository) Upsert(req *models.ReviewRequest, hooks ...ReviewTxHook) (*models.Review, error) {
	var review *models.Review
	err := Update(r.db, func(txn *badger.Txn) error {
		existing, err := reviewForPost(txn, req.PostID)
		switch {
		case errors.Is(err, ErrNotFound):
			review = models.NewReview(req)
			review.BeforeCreate()
			id, err := NextID(txn, ReviewSeqKey)
			if err != nil {
				return err
			}
			review.ID = id
			idBytes := make([]byte, 8)
			binary.BigEndian.PutUint64(idBytes, uint64(id))
			if err := txn.Set(EntityKey(ReviewByPostKeyPrefix, req.PostID), idBytes); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			review = existing
			review.Overwrite(req)
		}

		review.Version++
		if err := putEntity(txn, EntityKey(ReviewKeyPrefix, review.ID), review); err != nil {
			return err
		}
		for _, build := range hooks {
			if err := runHooks(txn, []TxHook{build(review)}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// GetByPostID returns the review of a post
func (r *BadgerReviewRepository) GetByPostID(postID int64) (*models.Review, error) {
	var review *models.Review
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		review, err = reviewForPost(txn, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func reviewForPost(txn *badger.Txn, postID int64) (*models.Review, error) {
	item, err := txn.Get(EntityKey(ReviewByPostKeyPrefix, postID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var reviewID int64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt review index for post %d", postID)
		}
		reviewID = int64(binary.BigEndian.Uint64(val))
		return nil
	})
	if err != nil {
		return nil, err
	}

	var review models.Review
	if err := getEntity(txn, EntityKey(ReviewKeyPrefix, reviewID), &review); err != nil {
		return nil, err
	}
	return &review, nil
}
