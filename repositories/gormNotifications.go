package repositories

import (
	"context"
	"time"

	"security-monitor/db"
	"security-monitor/entities"
	"security-monitor/live"
)

const newestFirst = "notification_date DESC, notification_id DESC"

type notificationGormRepository struct {
	store
}

func NewNotificationGormRepository(database db.Database, hub *live.Hub) NotificationRepository {
	return &notificationGormRepository{store: newStore(database, hub)}
}

func (r *notificationGormRepository) GetAll(ctx context.Context) ([]entities.Notification, error) {
	ns := make([]entities.Notification, 0)
	err := r.read(ctx).Order(newestFirst).Find(&ns).Error
	return ns, err
}

func (r *notificationGormRepository) WatchAll(ctx context.Context) *live.Subscription[[]entities.Notification] {
	return live.Watch(ctx, r.hub, r.GetAll, live.Notifications)
}

func (r *notificationGormRepository) GetByID(ctx context.Context, id uint) (*entities.Notification, error) {
	var n entities.Notification
	if err := r.read(ctx).Where("notification_id = ?", id).First(&n).Error; err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

func (r *notificationGormRepository) GetByClientID(ctx context.Context, clientID uint) ([]entities.Notification, error) {
	ns := make([]entities.Notification, 0)
	err := r.read(ctx).Where("client_id = ?", clientID).Order(newestFirst).Find(&ns).Error
	return ns, err
}

func (r *notificationGormRepository) WatchByClientID(ctx context.Context, clientID uint) *live.Subscription[[]entities.Notification] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]entities.Notification, error) {
		return r.GetByClientID(ctx, clientID)
	}, live.Notifications)
}

func (r *notificationGormRepository) GetUnread(ctx context.Context) ([]entities.Notification, error) {
	ns := make([]entities.Notification, 0)
	err := r.read(ctx).Where("is_read = ?", false).Order(newestFirst).Find(&ns).Error
	return ns, err
}

func (r *notificationGormRepository) WatchUnread(ctx context.Context) *live.Subscription[[]entities.Notification] {
	return live.Watch(ctx, r.hub, r.GetUnread, live.Notifications)
}

func (r *notificationGormRepository) CountUnread(ctx context.Context, clientID uint) (int64, error) {
	var count int64
	err := r.read(ctx).Model(&entities.Notification{}).
		Where("client_id = ? AND is_read = ?", clientID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationGormRepository) WatchUnreadCount(ctx context.Context, clientID uint) *live.Subscription[int64] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) (int64, error) {
		return r.CountUnread(ctx, clientID)
	}, live.Notifications)
}

func (r *notificationGormRepository) Create(ctx context.Context, n *entities.Notification) (uint, error) {
	if err := r.changed(r.write(ctx).Create(n).Error, live.Notifications); err != nil {
		return 0, err
	}
	return n.ID, nil
}

// CreateBatch inserts the notifications in chunks of insertBatchSize within
// one transaction.
func (r *notificationGormRepository) CreateBatch(ctx context.Context, ns []entities.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.changed(r.write(ctx).CreateInBatches(&ns, insertBatchSize).Error, live.Notifications)
}

func (r *notificationGormRepository) Update(ctx context.Context, n *entities.Notification) error {
	return r.changed(r.replace(ctx, n, n.ID), live.Notifications)
}

func (r *notificationGormRepository) Delete(ctx context.Context, id uint) error {
	err := r.write(ctx).Where("notification_id = ?", id).Delete(&entities.Notification{}).Error
	return r.changed(err, live.Notifications)
}

// MarkAsRead is idempotent and a no-op for unknown ids.
func (r *notificationGormRepository) MarkAsRead(ctx context.Context, id uint) error {
	err := r.write(ctx).Model(&entities.Notification{}).
		Where("notification_id = ?", id).
		UpdateColumns(markRead()).Error
	return r.changed(err, live.Notifications)
}

func (r *notificationGormRepository) MarkAllAsReadForClient(ctx context.Context, clientID uint) error {
	err := r.write(ctx).Model(&entities.Notification{}).
		Where("client_id = ?", clientID).
		UpdateColumns(markRead()).Error
	return r.changed(err, live.Notifications)
}

func markRead() map[string]interface{} {
	return map[string]interface{}{
		"is_read":    true,
		"status":     entities.StatusRead,
		"updated_at": time.Now(),
	}
}
