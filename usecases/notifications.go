package usecases

import (
	"context"
	"fmt"
	"log"
	"strings"

	"security-monitor/entities"
	"security-monitor/live"
	"security-monitor/repositories"
)

type NotificationUseCase struct {
	repo repositories.NotificationRepository
}

func NewNotificationUseCase(repo repositories.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// Create stores an unread notification dated now. Priority defaults to normal.
func (uc *NotificationUseCase) Create(ctx context.Context, clientID uint, message string, typ entities.NotificationType, priority entities.Priority) (*entities.Notification, error) {
	if strings.TrimSpace(message) == "" {
		return nil, validationError("message is required")
	}
	if priority == "" {
		priority = entities.PriorityNormal
	}
	n := &entities.Notification{
		ClientID: clientID,
		Message:  message,
		Type:     typ,
		Priority: priority,
		Status:   entities.StatusUnread,
	}
	if _, err := uc.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (uc *NotificationUseCase) MarkAsRead(ctx context.Context, id uint) error {
	return uc.repo.MarkAsRead(ctx, id)
}

func (uc *NotificationUseCase) MarkAllAsReadForClient(ctx context.Context, clientID uint) error {
	return uc.repo.MarkAllAsReadForClient(ctx, clientID)
}

// ListForClient never fails; storage errors are logged and yield an empty list.
func (uc *NotificationUseCase) ListForClient(ctx context.Context, clientID uint) []entities.Notification {
	ns, err := uc.repo.GetByClientID(ctx, clientID)
	if err != nil {
		log.Printf("Error loading notifications for client %d: %v", clientID, err)
		return []entities.Notification{}
	}
	return ns
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, clientID uint) (int64, error) {
	return uc.repo.CountUnread(ctx, clientID)
}

// Owns reports whether the notification belongs to the client.
func (uc *NotificationUseCase) Owns(ctx context.Context, clientID, notificationID uint) (bool, error) {
	n, err := uc.repo.GetByID(ctx, notificationID)
	if err != nil {
		return false, err
	}
	return n.ClientID == clientID, nil
}

func (uc *NotificationUseCase) WatchForClient(ctx context.Context, clientID uint) *live.Subscription[[]entities.Notification] {
	return uc.repo.WatchByClientID(ctx, clientID)
}

func (uc *NotificationUseCase) WatchUnreadCount(ctx context.Context, clientID uint) *live.Subscription[int64] {
	return uc.repo.WatchUnreadCount(ctx, clientID)
}
