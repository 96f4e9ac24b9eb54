package services

import (
	"fmt"

	"newsroom/app/models"
	"newsroom/app/repositories"
)

// NotificationService stores the messages reviewers leave for post authors
type NotificationService struct {
	notifications repositories.NotificationRepository
}

func NewNotificationService(notifications repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) Create(req *models.NotificationRequest) (*models.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	notification := models.NewNotification(req)
	notification.BeforeCreate()
	if err := s.notifications.Create(notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// ListForAuthor returns the notifications addressed to a post author
func (s *NotificationService) ListForAuthor(postAuthor string) ([]*models.Notification, error) {
	notifications, err := s.notifications.ListByPostAuthor(postAuthor)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
