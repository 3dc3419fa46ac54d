package repositories

import (
	"context"
	"time"

	"security-monitor/db"
	"security-monitor/entities"
	"security-monitor/live"
)

type userGormRepository struct {
	store
}

func NewUserGormRepository(database db.Database, hub *live.Hub) UserRepository {
	return &userGormRepository{store: newStore(database, hub)}
}

func (r *userGormRepository) GetAll(ctx context.Context) ([]entities.User, error) {
	users := make([]entities.User, 0)
	err := r.read(ctx).Order("user_id").Find(&users).Error
	return users, err
}

func (r *userGormRepository) WatchAll(ctx context.Context) *live.Subscription[[]entities.User] {
	return live.Watch(ctx, r.hub, r.GetAll, live.Users)
}

func (r *userGormRepository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.read(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userGormRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.read(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userGormRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.read(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userGormRepository) GetByCredentials(ctx context.Context, username, passwordHash string) (*entities.User, error) {
	var user entities.User
	err := r.read(ctx).
		Where("username = ? AND password_hash = ?", username, passwordHash).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *userGormRepository) Create(ctx context.Context, user *entities.User) (uint, error) {
	if err := r.changed(r.write(ctx).Create(user).Error, live.Users); err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (r *userGormRepository) Update(ctx context.Context, user *entities.User) error {
	return r.changed(r.replace(ctx, user, user.ID), live.Users)
}

// Delete removes the user together with its audit trail.
func (r *userGormRepository) Delete(ctx context.Context, id uint) error {
	err := r.write(ctx).Where("user_id = ?", id).Delete(&entities.User{}).Error
	return r.changed(err, live.Users, live.AuditLogs)
}

func (r *userGormRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	err := r.write(ctx).Model(&entities.User{}).Where("user_id = ?", id).
		UpdateColumn("last_login", at).Error
	return r.changed(err, live.Users)
}

func (r *userGormRepository) UpdateEmail(ctx context.Context, id uint, email string) error {
	err := r.write(ctx).Model(&entities.User{}).Where("user_id = ?", id).
		UpdateColumns(map[string]interface{}{"email": email, "updated_at": time.Now()}).Error
	return r.changed(err, live.Users)
}

func (r *userGormRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	err := r.write(ctx).Model(&entities.User{}).Where("user_id = ?", id).
		UpdateColumns(map[string]interface{}{"password_hash": passwordHash, "updated_at": time.Now()}).Error
	return r.changed(err, live.Users)
}

func (r *userGormRepository) UpdateClientID(ctx context.Context, id uint, clientID *uint) error {
	err := r.write(ctx).Model(&entities.User{}).Where("user_id = ?", id).
		UpdateColumns(map[string]interface{}{"client_id": clientID, "updated_at": time.Now()}).Error
	return r.changed(err, live.Users)
}
