package mock

import (
	"sort"
	"sync"

	"newsroom/app/models"
	"newsroom/app/repositories"
)

// Hooks run with a nil transaction. Services under test only need to observe
// that they were invoked and whether they failed.
func runHooks(hooks []repositories.TxHook) error {
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook(nil); err != nil {
			return err
		}
	}
	return nil
}

type PostRepository struct {
	posts  map[int64]*models.Post
	nextID int64
	mutex  sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int64]*models.Post),
		nextID: 1,
	}
}

func (m *PostRepository) Create(post *models.Post, hooks ...repositories.TxHook) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	if err := runHooks(hooks); err != nil {
		post.ID = 0
		return err
	}
	m.nextID++
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) GetByID(id int64) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *PostRepository) List() ([]*models.Post, error) {
	return m.filter(func(*models.Post) bool { return true }), nil
}

func (m *PostRepository) ListByStatus(status models.Status) ([]*models.Post, error) {
	return m.filter(func(p *models.Post) bool { return p.Status == status }), nil
}

func (m *PostRepository) filter(keep func(*models.Post) bool) []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var posts []*models.Post
	for _, post := range m.posts {
		if keep(post) {
			copied := *post
			posts = append(posts, &copied)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts
}

func (m *PostRepository) Update(post *models.Post, hooks ...repositories.TxHook) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	if err := runHooks(hooks); err != nil {
		return err
	}
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) Delete(id int64, hooks ...repositories.TxHook) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	if err := runHooks(hooks); err != nil {
		return err
	}
	delete(m.posts, id)
	return nil
}

type ReviewRepository struct {
	reviews map[int64]*models.Review
	nextID  int64
	mutex   sync.Mutex
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		reviews: make(map[int64]*models.Review),
		nextID:  1,
	}
}

func (m *ReviewRepository) Upsert(req *models.ReviewRequest, hooks ...repositories.ReviewTxHook) (*models.Review, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var review models.Review
	if existing, ok := m.reviews[req.PostID]; ok {
		review = *existing
		review.Overwrite(req)
	} else {
		review = *models.NewReview(req)
		review.BeforeCreate()
		review.ID = m.nextID
	}
	review.Version++

	for _, build := range hooks {
		if err := runHooks([]repositories.TxHook{build(&review)}); err != nil {
			return nil, err
		}
	}
	if review.ID == m.nextID {
		m.nextID++
	}
	m.reviews[req.PostID] = &review
	copied := review
	return &copied, nil
}

func (m *ReviewRepository) GetByPostID(postID int64) (*models.Review, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	review, ok := m.reviews[postID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *review
	return &copied, nil
}

type CommentRepository struct {
	comments map[int64]*models.Comment
	nextID   int64
	mutex    sync.RWMutex
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[int64]*models.Comment),
		nextID:   1,
	}
}

func (m *CommentRepository) Create(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = m.nextID
	m.nextID++
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) GetByID(id int64) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (m *CommentRepository) ListByPost(postID int64) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var comments []*models.Comment
	for _, comment := range m.comments {
		if comment.PostID == postID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *CommentRepository) Update(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[comment.ID]; !exists {
		return repositories.ErrNotFound
	}
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) Delete(id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

type NotificationRepository struct {
	notifications []*models.Notification
	mutex         sync.Mutex
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (m *NotificationRepository) Create(notification *models.Notification) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	notification.ID = int64(len(m.notifications) + 1)
	stored := *notification
	m.notifications = append(m.notifications, &stored)
	return nil
}

func (m *NotificationRepository) ListByPostAuthor(postAuthor string) ([]*models.Notification, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var out []*models.Notification
	for _, n := range m.notifications {
		if n.PostAuthor == postAuthor {
			copied := *n
			out = append(out, &copied)
		}
	}
	return out, nil
}

type KnownPostRepository struct {
	ids   map[int64]bool
	mutex sync.Mutex
}

func NewKnownPostRepository(ids ...int64) *KnownPostRepository {
	m := &KnownPostRepository{ids: make(map[int64]bool)}
	for _, id := range ids {
		m.ids[id] = true
	}
	return m
}

func (m *KnownPostRepository) Add(postID int64, hooks ...repositories.TxHook) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := runHooks(hooks); err != nil {
		return err
	}
	m.ids[postID] = true
	return nil
}

func (m *KnownPostRepository) Remove(postID int64, hooks ...repositories.TxHook) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := runHooks(hooks); err != nil {
		return err
	}
	delete(m.ids, postID)
	return nil
}

func (m *KnownPostRepository) Contains(postID int64) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.ids[postID], nil
}
