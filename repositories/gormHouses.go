package repositories

import (
	"context"

	"security-monitor/db"
	"security-monitor/entities"
	"security-monitor/live"
)

type houseGormRepository struct {
	store
}

func NewHouseGormRepository(database db.Database, hub *live.Hub) HouseRepository {
	return &houseGormRepository{store: newStore(database, hub)}
}

func (r *houseGormRepository) GetAll(ctx context.Context) ([]entities.House, error) {
	houses := make([]entities.House, 0)
	err := r.read(ctx).Order("house_id").Find(&houses).Error
	return houses, err
}

func (r *houseGormRepository) WatchAll(ctx context.Context) *live.Subscription[[]entities.House] {
	return live.Watch(ctx, r.hub, r.GetAll, live.Houses)
}

func (r *houseGormRepository) GetByID(ctx context.Context, id uint) (*entities.House, error) {
	var house entities.House
	if err := r.read(ctx).Where("house_id = ?", id).First(&house).Error; err != nil {
		return nil, notFound(err)
	}
	return &house, nil
}

func (r *houseGormRepository) GetByClientID(ctx context.Context, clientID uint) ([]entities.House, error) {
	houses := make([]entities.House, 0)
	err := r.read(ctx).Where("client_id = ?", clientID).Order("house_id").Find(&houses).Error
	return houses, err
}

func (r *houseGormRepository) WatchByClientID(ctx context.Context, clientID uint) *live.Subscription[[]entities.House] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]entities.House, error) {
		return r.GetByClientID(ctx, clientID)
	}, live.Houses)
}

func (r *houseGormRepository) GetByStatus(ctx context.Context, status entities.HouseStatus) ([]entities.House, error) {
	houses := make([]entities.House, 0)
	err := r.read(ctx).Where("status = ?", status).Order("house_id").Find(&houses).Error
	return houses, err
}

func (r *houseGormRepository) WatchByStatus(ctx context.Context, status entities.HouseStatus) *live.Subscription[[]entities.House] {
	return live.Watch(ctx, r.hub, func(ctx context.Context) ([]entities.House, error) {
		return r.GetByStatus(ctx, status)
	}, live.Houses)
}

func (r *houseGormRepository) Create(ctx context.Context, house *entities.House) (uint, error) {
	if err := r.changed(r.write(ctx).Create(house).Error, live.Houses); err != nil {
		return 0, err
	}
	return house.ID, nil
}

func (r *houseGormRepository) Update(ctx context.Context, house *entities.House) error {
	return r.changed(r.replace(ctx, house, house.ID), live.Houses)
}

func (r *houseGormRepository) Delete(ctx context.Context, id uint) error {
	err := r.write(ctx).Where("house_id = ?", id).Delete(&entities.House{}).Error
	return r.changed(err, live.Houses)
}
