package models

import "time"

// NewNotification builds a notification from a validated request.
func NewNotification(req *NotificationRequest) *Notification {
	return &Notification{
		Message:    req.Message,
		Author:     req.Author,
		PostAuthor: req.PostAuthor,
	}
}

// BeforeCreate sets up any necessary fields before creation
func (n *Notification) BeforeCreate() {
	if n.CreationDate.IsZero() {
		n.CreationDate = time.Now()
	}
}
