package repositories

import (
	"context"
	"errors"

	"security-monitor/db"
	"security-monitor/live"

	"gorm.io/gorm"
)

// insertBatchSize keeps multi-row inserts well under SQLite's bind variable
// limit.
const insertBatchSize = 500

// store is shared by the gorm repositories. Reads honour ctx cancellation;
// writes run to completion once dispatched and publish their tables after
// the statement succeeds.
type store struct {
	db  db.Database
	hub *live.Hub
}

func newStore(database db.Database, hub *live.Hub) store {
	if hub == nil {
		hub = live.NewHub()
	}
	return store{db: database, hub: hub}
}

func (s store) read(ctx context.Context) *gorm.DB {
	return s.db.GetDB().WithContext(ctx)
}

func (s store) write(ctx context.Context) *gorm.DB {
	return s.db.GetDB().WithContext(context.WithoutCancel(ctx))
}

func (s store) changed(err error, tables ...live.Table) error {
	if err != nil {
		return err
	}
	s.hub.Publish(tables...)
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// replace overwrites every column of an existing row except created_at.
// Unlike gorm's Save it never inserts.
func (s store) replace(ctx context.Context, model interface{}, id uint) error {
	if id == 0 {
		return ErrNotFound
	}
	res := s.write(ctx).Model(model).Select("*").Omit("created_at").Updates(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
