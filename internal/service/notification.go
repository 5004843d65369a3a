package service

import (
	"context"

	"cinegram/internal/model"
	"cinegram/internal/repository"
)

// NotificationService handles in-app activity notifications. Rows are
// written by the worker pool from queued activity events and read here.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// CreateNotification persists a notification for a user.
// Satisfies the worker's NotificationCreator interface.
func (s *NotificationService) CreateNotification(ctx context.Context, userID, actorID int64, notifType string, targetKind model.TargetKind, targetID int64) error {
	return s.notifRepo.Create(ctx, userID, actorID, notifType, targetKind, targetID)
}

// GetNotifications returns the user's recent notifications and unread count.
func (s *NotificationService) GetNotifications(ctx context.Context, userID int64, limit int) (*model.NotificationListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	notifications, unread, err := s.notifRepo.List(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkAllAsRead marks all notifications for a user as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}
