package seed

import (
	"context"
	"testing"
	"time"

	"security-monitor/auth"
	"security-monitor/db"
	"security-monitor/entities"
	"security-monitor/live"
	"security-monitor/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repos struct {
	users         repositories.UserRepository
	clients       repositories.ClientRepository
	notifications repositories.NotificationRepository
}

func setup(t *testing.T) (*Initializer, repos) {
	t.Helper()
	database, err := db.OpenSQLite(db.MemoryDSN(t.Name()), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	hub := live.NewHub()
	r := repos{
		users:         repositories.NewUserGormRepository(database, hub),
		clients:       repositories.NewClientGormRepository(database, hub),
		notifications: repositories.NewNotificationGormRepository(database, hub),
	}
	return NewInitializer(r.users, r.clients, r.notifications, auth.SHA256Hasher{}), r
}

func TestRunIsIdempotent(t *testing.T) {
	seeder, r := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, seeder.Run(ctx))
	}

	users, err := r.users.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	seen := map[string]int{}
	for _, u := range users {
		seen[u.Username]++
	}
	assert.Equal(t, map[string]int{"OsmarG": 1, "DiogoS": 1, "admin": 1}, seen)

	ns, err := r.notifications.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, ns, 10+10+8)
}

func TestRunSeedsAccountsWithCompanionClients(t *testing.T) {
	seeder, r := setup(t)
	ctx := context.Background()
	require.NoError(t, seeder.Run(ctx))

	admin, err := r.users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleAdmin, admin.Role)
	assert.Equal(t, "admin@security.com", admin.Email)
	assert.Equal(t, auth.HashPassword("admin123"), admin.PasswordHash)
	require.NotNil(t, admin.ClientID)

	client, err := r.clients.GetByID(ctx, *admin.ClientID)
	require.NoError(t, err)
	assert.Equal(t, "admin@security.com", client.Email)

	ns, err := r.notifications.GetByClientID(ctx, *admin.ClientID)
	require.NoError(t, err)
	require.Len(t, ns, 8)
	assert.Equal(t, "Novo utilizador registado no sistema", ns[0].Message)
	for _, n := range ns {
		assert.False(t, n.IsRead)
	}

	osmar, err := r.users.GetByUsername(ctx, "OsmarG")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleManager, osmar.Role)
}

func TestRunSkipsExistingUsername(t *testing.T) {
	seeder, r := setup(t)
	ctx := context.Background()
	_, err := r.users.Create(ctx, &entities.User{Username: "admin", PasswordHash: "custom", Email: "root@x.com", Role: entities.RoleAdmin})
	require.NoError(t, err)

	require.NoError(t, seeder.Run(ctx))

	admin, err := r.users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "custom", admin.PasswordHash)
	assert.Nil(t, admin.ClientID)

	ns, err := r.notifications.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, ns, 20)
}

func TestNotificationsForStaggersDates(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ns := NotificationsFor("OSMARG", 7, now)
	require.Len(t, ns, 10)

	assert.Equal(t, now, ns[0].NotificationDate)
	assert.Equal(t, now.Add(-1*time.Hour), ns[1].NotificationDate)
	assert.Equal(t, now.Add(-3*time.Hour), ns[2].NotificationDate)
	assert.Equal(t, now.Add(-6*time.Hour), ns[3].NotificationDate)
	assert.Equal(t, uint(7), ns[9].ClientID)

	generic := NotificationsFor("someone", 1, now)
	require.Len(t, generic, 6)
	assert.Equal(t, "Bem-vindo ao sistema de segurança", generic[0].Message)
}

func TestEnsureNotifications(t *testing.T) {
	seeder, r := setup(t)
	ctx := context.Background()
	user := &entities.User{Username: "maria", PasswordHash: "h", Email: "maria@x.com"}
	_, err := r.users.Create(ctx, user)
	require.NoError(t, err)

	n, err := seeder.EnsureNotifications(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	require.NotNil(t, user.ClientID)

	stored, err := r.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ClientID)
	assert.Equal(t, *user.ClientID, *stored.ClientID)

	n, err = seeder.EnsureNotifications(ctx, stored)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEnsureNotificationsKeepsConcurrentChanges(t *testing.T) {
	seeder, r := setup(t)
	ctx := context.Background()
	user := &entities.User{Username: "maria", PasswordHash: "h", Email: "maria@x.com"}
	_, err := r.users.Create(ctx, user)
	require.NoError(t, err)

	stale, err := r.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, r.users.UpdatePassword(ctx, user.ID, "h2"))
	require.NoError(t, r.users.UpdateEmail(ctx, user.ID, "maria@new.com"))

	_, err = seeder.EnsureNotifications(ctx, stale)
	require.NoError(t, err)

	stored, err := r.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", stored.PasswordHash)
	assert.Equal(t, "maria@new.com", stored.Email)
	require.NotNil(t, stored.ClientID)
	assert.Equal(t, *stale.ClientID, *stored.ClientID)
}
