package service

import (
	"context"
	"errors"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// NotificationRepositoryInterface defines the repository interface
type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*model.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
	ClearByUser(ctx context.Context, userID string) error
}

// NotificationService handles per-user notification feeds
type NotificationService struct {
	repo NotificationRepositoryInterface
}

// NotificationServiceConfig holds notification service dependencies
type NotificationServiceConfig struct {
	NotificationRepo NotificationRepositoryInterface
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg NotificationServiceConfig) *NotificationService {
	return &NotificationService{repo: cfg.NotificationRepo}
}

// Publish appends a notification to a user's feed
func (s *NotificationService) Publish(ctx context.Context, userID, eventID, message string) error {
	n := &model.Notification{
		UserID:  userID,
		EventID: eventID,
		Message: message,
	}
	return s.repo.Create(ctx, n)
}

// List returns the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string) ([]*model.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	err := s.repo.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

// UnreadCount returns the number of unread notifications for the user
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// Clear deletes the user's entire feed
func (s *NotificationService) Clear(ctx context.Context, userID string) error {
	return s.repo.ClearByUser(ctx, userID)
}
