package repositories

import (
	"context"
	"time"

	"security-monitor/db"
	"security-monitor/entities"
	"security-monitor/live"
)

type auditLogGormRepository struct {
	store
}

func NewAuditLogGormRepository(database db.Database, hub *live.Hub) AuditLogRepository {
	return &auditLogGormRepository{store: newStore(database, hub)}
}

func (r *auditLogGormRepository) GetAll(ctx context.Context) ([]entities.AuditLog, error) {
	logs := make([]entities.AuditLog, 0)
	err := r.read(ctx).Order("action_date DESC, log_id DESC").Find(&logs).Error
	return logs, err
}

func (r *auditLogGormRepository) WatchAll(ctx context.Context) *live.Subscription[[]entities.AuditLog] {
	return live.Watch(ctx, r.hub, r.GetAll, live.AuditLogs)
}

func (r *auditLogGormRepository) GetByID(ctx context.Context, id uint) (*entities.AuditLog, error) {
	var entry entities.AuditLog
	if err := r.read(ctx).Where("log_id = ?", id).First(&entry).Error; err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (r *auditLogGormRepository) GetByUserID(ctx context.Context, userID uint) ([]entities.AuditLog, error) {
	logs := make([]entities.AuditLog, 0)
	err := r.read(ctx).Where("user_id = ?", userID).Order("action_date DESC, log_id DESC").Find(&logs).Error
	return logs, err
}

func (r *auditLogGormRepository) GetByAction(ctx context.Context, action string) ([]entities.AuditLog, error) {
	logs := make([]entities.AuditLog, 0)
	err := r.read(ctx).Where("action = ?", action).Order("action_date DESC, log_id DESC").Find(&logs).Error
	return logs, err
}

func (r *auditLogGormRepository) Create(ctx context.Context, entry *entities.AuditLog) (uint, error) {
	if err := r.changed(r.write(ctx).Create(entry).Error, live.AuditLogs); err != nil {
		return 0, err
	}
	return entry.ID, nil
}

func (r *auditLogGormRepository) CreateBatch(ctx context.Context, entries []entities.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return r.changed(r.write(ctx).CreateInBatches(&entries, insertBatchSize).Error, live.AuditLogs)
}

func (r *auditLogGormRepository) Delete(ctx context.Context, id uint) error {
	err := r.write(ctx).Where("log_id = ?", id).Delete(&entities.AuditLog{}).Error
	return r.changed(err, live.AuditLogs)
}

// DeleteOlderThan prunes entries dated before cutoff and reports how many went.
func (r *auditLogGormRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.write(ctx).Where("action_date < ?", cutoff).Delete(&entities.AuditLog{})
	if err := r.changed(res.Error, live.AuditLogs); err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}
