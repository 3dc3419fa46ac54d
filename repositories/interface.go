package repositories

import (
	"context"
	"errors"
	"time"

	"security-monitor/entities"
	"security-monitor/live"
)

// ErrNotFound is returned by single-row lookups and full-record updates
// when no row matches.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	GetAll(ctx context.Context) ([]entities.User, error)
	WatchAll(ctx context.Context) *live.Subscription[[]entities.User]
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByCredentials(ctx context.Context, username, passwordHash string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) (uint, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uint) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdateEmail(ctx context.Context, id uint, email string) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	UpdateClientID(ctx context.Context, id uint, clientID *uint) error
}

type ClientRepository interface {
	GetAll(ctx context.Context) ([]entities.Client, error)
	WatchAll(ctx context.Context) *live.Subscription[[]entities.Client]
	GetByID(ctx context.Context, id uint) (*entities.Client, error)
	GetByEmail(ctx context.Context, email string) (*entities.Client, error)
	Search(ctx context.Context, query string) ([]entities.Client, error)
	WatchSearch(ctx context.Context, query string) *live.Subscription[[]entities.Client]
	Create(ctx context.Context, client *entities.Client) (uint, error)
	Update(ctx context.Context, client *entities.Client) error
	Delete(ctx context.Context, id uint) error
}

type HouseRepository interface {
	GetAll(ctx context.Context) ([]entities.House, error)
	WatchAll(ctx context.Context) *live.Subscription[[]entities.House]
	GetByID(ctx context.Context, id uint) (*entities.House, error)
	GetByClientID(ctx context.Context, clientID uint) ([]entities.House, error)
	WatchByClientID(ctx context.Context, clientID uint) *live.Subscription[[]entities.House]
	GetByStatus(ctx context.Context, status entities.HouseStatus) ([]entities.House, error)
	WatchByStatus(ctx context.Context, status entities.HouseStatus) *live.Subscription[[]entities.House]
	Create(ctx context.Context, house *entities.House) (uint, error)
	Update(ctx context.Context, house *entities.House) error
	Delete(ctx context.Context, id uint) error
}

// NotificationRepository lists are ordered newest first.
type NotificationRepository interface {
	GetAll(ctx context.Context) ([]entities.Notification, error)
	WatchAll(ctx context.Context) *live.Subscription[[]entities.Notification]
	GetByID(ctx context.Context, id uint) (*entities.Notification, error)
	GetByClientID(ctx context.Context, clientID uint) ([]entities.Notification, error)
	WatchByClientID(ctx context.Context, clientID uint) *live.Subscription[[]entities.Notification]
	GetUnread(ctx context.Context) ([]entities.Notification, error)
	WatchUnread(ctx context.Context) *live.Subscription[[]entities.Notification]
	CountUnread(ctx context.Context, clientID uint) (int64, error)
	WatchUnreadCount(ctx context.Context, clientID uint) *live.Subscription[int64]
	Create(ctx context.Context, n *entities.Notification) (uint, error)
	CreateBatch(ctx context.Context, ns []entities.Notification) error
	Update(ctx context.Context, n *entities.Notification) error
	Delete(ctx context.Context, id uint) error
	MarkAsRead(ctx context.Context, id uint) error
	MarkAllAsReadForClient(ctx context.Context, clientID uint) error
}

// AuditLogRepository is append-only: entries are never updated.
type AuditLogRepository interface {
	GetAll(ctx context.Context) ([]entities.AuditLog, error)
	WatchAll(ctx context.Context) *live.Subscription[[]entities.AuditLog]
	GetByID(ctx context.Context, id uint) (*entities.AuditLog, error)
	GetByUserID(ctx context.Context, userID uint) ([]entities.AuditLog, error)
	GetByAction(ctx context.Context, action string) ([]entities.AuditLog, error)
	Create(ctx context.Context, entry *entities.AuditLog) (uint, error)
	CreateBatch(ctx context.Context, entries []entities.AuditLog) error
	Delete(ctx context.Context, id uint) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
