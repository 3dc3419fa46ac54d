package repositories

import (
	"context"
	"strings"

	"security-monitor/db"
	"security-monitor/entities"
	"security-monitor/live"
)

type clientGormRepository struct {
	store
}

func NewClientGormRepository(database db.Database, hub *live.Hub) ClientRepository {
	return &clientGormRepository{store: newStore(database, hub)}
}

func (r *clientGormRepository) GetAll(ctx context.Context) ([]entities.Client, error) {
	clients := make([]entities.Client, 0)
	err := r.read(ctx).Order("client_id").Find(&clients).Error
	return clients, err
}

func (r *clientGormRepository) WatchAll(ctx context.Context) *live.Subscription[[]entities.Client] {
	return live.Watch(ctx, r.hub, r.GetAll, live.Clients)
}

func (r *clientGormRepository) GetByID(ctx context.Context, id uint) (*entities.Client, error) {
	var client entities.Client
	if err := r.read(ctx).Where("client_id = ?", id).First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (r *clientGormRepository) GetByEmail(ctx context.Context, email string) (*entities.Client, error) {
	var client entities.Client
	if err := r.read(ctx).Where("email = ?", email).First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

// Search matches query as a substring of first name, last name or email.
// An empty query returns every client.
func (r *clientGormRepository) Search(ctx context.Context, query string) ([]entities.Client, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.GetAll(ctx)
	}
	like := "%" + query + "%"
	clients := make([]entities.Client, 0)
	err := r.read(ctx).
		Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like).
		Order("client_id").
		Find(&clients).Error
	return clients, err
}

func (r *clientGormRepository) WatchSearch(ctx context.Context, query string) *live.Subscription[[]entities.Client] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]entities.Client, error) {
		return r.Search(ctx, query)
	}, live.Clients)
}

func (r *clientGormRepository) Create(ctx context.Context, client *entities.Client) (uint, error) {
	if err := r.changed(r.write(ctx).Create(client).Error, live.Clients); err != nil {
		return 0, err
	}
	return client.ID, nil
}

func (r *clientGormRepository) Update(ctx context.Context, client *entities.Client) error {
	return r.changed(r.replace(ctx, client, client.ID), live.Clients)
}

// Delete removes the client; the store cascades to its houses and notifications.
func (r *clientGormRepository) Delete(ctx context.Context, id uint) error {
	err := r.write(ctx).Where("client_id = ?", id).Delete(&entities.Client{}).Error
	return r.changed(err, live.Clients, live.Houses, live.Notifications)
}
