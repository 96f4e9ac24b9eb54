package repositories

import "newsroom/app/models"

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post, hooks ...TxHook) error
	GetByID(id int64) (*models.Post, error)
	List() ([]*models.Post, error)
	ListByStatus(status models.Status) ([]*models.Post, error)
	Update(post *models.Post, hooks ...TxHook) error
	Delete(id int64, hooks ...TxHook) error
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Upsert overwrites the review for req.PostID or creates it, bumping its version.
	Upsert(req *models.ReviewRequest, hooks ...ReviewTxHook) (*models.Review, error)
	GetByPostID(postID int64) (*models.Review, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int64) (*models.Comment, error)
	ListByPost(postID int64) ([]*models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id int64) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByPostAuthor(postAuthor string) ([]*models.Notification, error)
}

// KnownPostRepository is the review service's local view of which posts exist
type KnownPostRepository interface {
	Add(postID int64, hooks ...TxHook) error
	Remove(postID int64, hooks ...TxHook) error
	Contains(postID int64) (bool, error)
}
