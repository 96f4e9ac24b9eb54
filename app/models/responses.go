package models

import "time"

type PostResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	Status       Status    `json:"status"`
	CreationDate time.Time `json:"creationDate"`
}

func NewPostResponse(p *Post) PostResponse {
	return PostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Author:       p.Author,
		Status:       p.Status,
		CreationDate: p.CreationDate,
	}
}

func NewPostResponses(posts []*Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostResponse(p))
	}
	return out
}

type ReviewResponse struct {
	PostID     int64  `json:"postId"`
	Reason     string `json:"reason"`
	PostAuthor string `json:"postAuthor"`
	Author     string `json:"author"`
	Status     Status `json:"status"`
}

func NewReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		PostID:     r.PostID,
		Reason:     r.Reason,
		PostAuthor: r.PostAuthor,
		Author:     r.Author,
		Status:     r.Status,
	}
}

type CommentResponse struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	PostID  int64  `json:"postId"`
	Author  string `json:"author"`
}

func NewCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Content: c.Content,
		PostID:  c.PostID,
		Author:  c.Author,
	}
}

func NewCommentResponses(comments []*Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewCommentResponse(c))
	}
	return out
}

type NotificationResponse struct {
	Message    string `json:"message"`
	Author     string `json:"author"`
	PostAuthor string `json:"postAuthor"`
}

func NewNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		Message:    n.Message,
		Author:     n.Author,
		PostAuthor: n.PostAuthor,
	}
}

func NewNotificationResponses(notifications []*Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NewNotificationResponse(n))
	}
	return out
}
