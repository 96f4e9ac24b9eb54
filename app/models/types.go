package models

import "time"

// Post is a news article owned by the post service.
type Post struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	Status       Status    `json:"status"`
	CreationDate time.Time `json:"creationDate"`
}

// Review is an editor's decision on a post. There is at most one per post.
type Review struct {
	ID           int64     `json:"id"`
	PostID       int64     `json:"postId"`
	Reason       string    `json:"reason"`
	Author       string    `json:"author"`
	PostAuthor   string    `json:"postAuthor"`
	Status       Status    `json:"status"`
	CreationDate time.Time `json:"creationDate"`
	Version      int64     `json:"version"`
}

// Comment is a reader or editor remark on a post.
type Comment struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	PostID  int64  `json:"postId"`
	Author  string `json:"author"`
}

// Notification tells a post author about a review decision.
type Notification struct {
	ID           int64     `json:"id"`
	Message      string    `json:"message"`
	Author       string    `json:"author"`
	PostAuthor   string    `json:"postAuthor"`
	CreationDate time.Time `json:"creationDate"`
}
