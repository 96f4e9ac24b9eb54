package repositories

import (
	"newsroom/app/models"

	"github.com/dgraph-io/badger/v4"
)

type BadgerNotificationRepository struct {
	db *badger.DB
}

func NewBadgerNotificationRepository(db *badger.DB) *BadgerNotificationRepository {
	return &BadgerNotificationRepository{db: db}
}

func (r *BadgerNotificationRepository) Create(notification *models.Notification) error {
	return Update(r.db, func(txn *badger.Txn) error {
		id, err := NextID(txn, NotificationSeqKey)
		if err != nil {
			return err
		}
		notification.ID = id
		return putEntity(txn, EntityKey(NotificationKeyPrefix, notification.ID), notification)
	})
}

// ListByPostAuthor returns the notifications addressed to postAuthor, oldest first
func (r *BadgerNotificationRepository) ListByPostAuthor(postAuthor string) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		notifications, err = scanPrefix(txn, NotificationKeyPrefix, func(n *models.Notification) bool {
			return n.PostAuthor == postAuthor
		})
		return err
	})
	return notifications, err
}
