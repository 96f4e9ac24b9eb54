package repositories

import (
	"newsroom/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create assigns the next post ID and stores the post
func (r *BadgerPostRepository) Create(post *models.Post, hooks ...TxHook) error {
	return Update(r.db, func(txn *badger.Txn) error {
		id, err := NextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		if err := putEntity(txn, EntityKey(PostKeyPrefix, post.ID), post); err != nil {
			return err
		}
		return runHooks(txn, hooks)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, EntityKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns every post ordered by ID
func (r *BadgerPostRepository) List() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		posts, err = scanPrefix[models.Post](txn, PostKeyPrefix, nil)
		return err
	})
	return posts, err
}

// ListByStatus returns the posts currently in status
func (r *BadgerPostRepository) ListByStatus(status models.Status) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		posts, err = scanPrefix(txn, PostKeyPrefix, func(p *models.Post) bool {
			return p.Status == status
		})
		return err
	})
	return posts, err
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post, hooks ...TxHook) error {
	return Update(r.db, func(txn *badger.Txn) error {
		key := EntityKey(PostKeyPrefix, post.ID)
		if err := mustExist(txn, key); err != nil {
			return err
		}
		if err := putEntity(txn, key, post); err != nil {
			return err
		}
		return runHooks(txn, hooks)
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(id int64, hooks ...TxHook) error {
	return Update(r.db, func(txn *badger.Txn) error {
		key := EntityKey(PostKeyPrefix, id)
		if err := mustExist(txn, key); err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return runHooks(txn, hooks)
	})
}
