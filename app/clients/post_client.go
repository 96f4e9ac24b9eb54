package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"newsroom/app/authz"
	"newsroom/app/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
)

// ErrPostServiceUnavailable covers every failure to get an answer from the post service
var ErrPostServiceUnavailable = errors.New("post service unavailable")

// PostClient talks to the post service. Successful lookups are cached; misses are not,
// so a post created moments later is found on the next call.
type PostClient struct {
	baseURL string
	http    *http.Client
	cache   *expirable.LRU[int64, models.PostResponse]
	log     *logrus.Entry
}

func NewPostClient(baseURL string, timeout time.Duration, cacheSize int, cacheTTL time.Duration, log *logrus.Entry) *PostClient {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PostClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   expirable.NewLRU[int64, models.PostResponse](cacheSize, nil, cacheTTL),
		log:     log.WithField("component", "post-client"),
	}
}

// GetPost fetches a post on behalf of a caller with the given role. A 404 becomes
// a models.NotFoundError.
func (c *PostClient) GetPost(ctx context.Context, id int64, role authz.Role) (*models.PostResponse, error) {
	if post, ok := c.cache.Get(id); ok {
		return &post, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/posts/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(authz.RoleHeader, string(role))
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPostServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, models.NewNotFoundError("post", id)
	default:
		return nil, fmt.Errorf("%w: GET /posts/%d returned %d", ErrPostServiceUnavailable, id, resp.StatusCode)
	}

	var post models.PostResponse
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("%w: bad post body: %v", ErrPostServiceUnavailable, err)
	}
	c.cache.Add(id, post)
	return &post, nil
}

// Forget drops a cached post, used when the post is deleted
func (c *PostClient) Forget(id int64) {
	c.cache.Remove(id)
}

// SendNotification delivers a notification to the post service
func (c *PostClient) SendNotification(ctx context.Context, notification models.NotificationRequest) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts/notification", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostServiceUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: POST /posts/notification returned %d", ErrPostServiceUnavailable, resp.StatusCode)
	}
	c.log.WithField("post_author", notification.PostAuthor).Debug("notification delivered")
	return nil
}
