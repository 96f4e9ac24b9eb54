package repositories

import (
	"newsroom/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	return Update(r.db, func(txn *badger.Txn) error {
		id, err := NextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id
		return putEntity(txn, EntityKey(CommentKeyPrefix, comment.ID), comment)
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, EntityKey(CommentKeyPrefix, id), &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post in creation order
func (r *BadgerCommentRepository) ListByPost(postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		comments, err = scanPrefix(txn, CommentKeyPrefix, func(c *models.Comment) bool {
			return c.PostID == postID
		})
		return err
	})
	return comments, err
}

// Update updates an existing comment
func (r *BadgerCommentRepository) Update(comment *models.Comment) error {
	return Update(r.db, func(txn *badger.Txn) error {
		key := EntityKey(CommentKeyPrefix, comment.ID)
		if err := mustExist(txn, key); err != nil {
			return err
		}
		return putEntity(txn, key, comment)
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id int64) error {
	return Update(r.db, func(txn *badger.Txn) error {
		key := EntityKey(CommentKeyPrefix, id)
		if err := mustExist(txn, key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}
