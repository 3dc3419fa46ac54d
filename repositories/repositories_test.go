package repositories

import (
	"context"
	"testing"
	"time"

	"security-monitor/db"
	"security-monitor/entities"
	"security-monitor/live"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	hub           *live.Hub
	users         UserRepository
	clients       ClientRepository
	houses        HouseRepository
	notifications NotificationRepository
	audit         AuditLogRepository
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	database, err := db.OpenSQLite(db.MemoryDSN(t.Name()), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	hub := live.NewHub()
	return testRepos{
		hub:           hub,
		users:         NewUserGormRepository(database, hub),
		clients:       NewClientGormRepository(database, hub),
		houses:        NewHouseGormRepository(database, hub),
		notifications: NewNotificationGormRepository(database, hub),
		audit:         NewAuditLogGormRepository(database, hub),
	}
}

func createClient(t *testing.T, r testRepos, email string) uint {
	t.Helper()
	id, err := r.clients.Create(context.Background(), &entities.Client{FirstName: "Ana", LastName: "Silva", Email: email})
	require.NoError(t, err)
	return id
}

func TestUserInsertAndLookup(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	id, err := r.users.Create(ctx, &entities.User{Username: "X", PasswordHash: "h", Email: "x@x.com"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	u, err := r.users.GetByUsername(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "h", u.PasswordHash)
	assert.Equal(t, entities.RoleUser, u.Role)
	assert.Equal(t, entities.UserActive, u.Status)
	assert.Nil(t, u.LastLogin)

	_, err = r.users.GetByCredentials(ctx, "X", "h")
	assert.NoError(t, err)
	_, err = r.users.GetByCredentials(ctx, "X", "wrong")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.users.Create(ctx, &entities.User{Username: "X", PasswordHash: "h2", Email: "y@x.com"})
	assert.Error(t, err, "username is unique")
}

func TestUserTargetedUpdates(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	id, err := r.users.Create(ctx, &entities.User{Username: "u", PasswordHash: "h", Email: "u@x.com"})
	require.NoError(t, err)

	at := time.Now().Add(-time.Minute).Truncate(time.Second)
	require.NoError(t, r.users.UpdateLastLogin(ctx, id, at))
	require.NoError(t, r.users.UpdateEmail(ctx, id, "new@x.com"))
	require.NoError(t, r.users.UpdatePassword(ctx, id, "h2"))
	clientID := createClient(t, r, "c@x.com")
	require.NoError(t, r.users.UpdateClientID(ctx, id, &clientID))

	u, err := r.users.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
	assert.True(t, at.Equal(*u.LastLogin))
	assert.Equal(t, "new@x.com", u.Email)
	assert.Equal(t, "h2", u.PasswordHash)
	require.NotNil(t, u.ClientID)
	assert.Equal(t, clientID, *u.ClientID)

	byEmail, err := r.users.GetByEmail(ctx, "new@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
}

func TestUpdateReplacesExistingRowOnly(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	clientID := createClient(t, r, "ana@x.com")

	c, err := r.clients.GetByID(ctx, clientID)
	require.NoError(t, err)
	c.City = "Lisboa"
	require.NoError(t, r.clients.Update(ctx, c))

	c, err = r.clients.GetByID(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, "Lisboa", c.City)

	err = r.clients.Update(ctx, &entities.Client{ID: 999, FirstName: "a", LastName: "b", Email: "z@x.com"})
	assert.ErrorIs(t, err, ErrNotFound)
	all, err := r.clients.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestClientSearch(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	createClient(t, r, "ana@x.com")
	_, err := r.clients.Create(ctx, &entities.Client{FirstName: "Rui", LastName: "Costa", Email: "rui@y.org"})
	require.NoError(t, err)

	got, err := r.clients.Search(ctx, "cost")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rui", got[0].FirstName)

	got, err = r.clients.Search(ctx, "x.com")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = r.clients.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestClientEmailUnique(t *testing.T) {
	r := setupRepos(t)
	createClient(t, r, "ana@x.com")
	_, err := r.clients.Create(context.Background(), &entities.Client{FirstName: "B", LastName: "C", Email: "ana@x.com"})
	assert.Error(t, err)
}

func TestDeleteClientCascades(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	clientID := createClient(t, r, "ana@x.com")
	otherID := createClient(t, r, "other@x.com")

	_, err := r.houses.Create(ctx, &entities.House{ClientID: clientID, HouseType: entities.DefaultHouseType, ValueCents: 25_000_000})
	require.NoError(t, err)
	_, err = r.houses.Create(ctx, &entities.House{ClientID: otherID, HouseType: entities.DefaultHouseType})
	require.NoError(t, err)
	require.NoError(t, r.notifications.CreateBatch(ctx, []entities.Notification{
		{ClientID: clientID, Message: "a", Type: entities.TypeSystem},
		{ClientID: clientID, Message: "b", Type: entities.TypeMovement},
		{ClientID: otherID, Message: "c", Type: entities.TypeSystem},
	}))

	require.NoError(t, r.clients.Delete(ctx, clientID))

	houses, err := r.houses.GetByClientID(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, houses)
	ns, err := r.notifications.GetByClientID(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, ns)

	houses, err = r.houses.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, houses, 1)
	ns, err = r.notifications.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, ns, 1)
}

func TestDeleteUserCascadesAuditLogs(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	id, err := r.users.Create(ctx, &entities.User{Username: "u", PasswordHash: "h", Email: "u@x.com"})
	require.NoError(t, err)
	_, err = r.audit.Create(ctx, &entities.AuditLog{UserID: id, Action: "login", EntityType: "user"})
	require.NoError(t, err)

	require.NoError(t, r.users.Delete(ctx, id))
	logs, err := r.audit.GetByUserID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestHouseLookups(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	clientID := createClient(t, r, "ana@x.com")

	id, err := r.houses.Create(ctx, &entities.House{ClientID: clientID, HouseType: "Apartamento"})
	require.NoError(t, err)
	h, err := r.houses.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.HouseActive, h.Status)

	h.Status = entities.HouseMaintenance
	require.NoError(t, r.houses.Update(ctx, h))
	got, err := r.houses.GetByStatus(ctx, entities.HouseMaintenance)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, r.houses.Delete(ctx, id))
	_, err = r.houses.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.houses.Create(ctx, &entities.House{ClientID: 12345, HouseType: "x"})
	assert.Error(t, err, "house requires an existing client")
}

func TestNotificationsOrderedNewestFirst(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	clientID := createClient(t, r, "ana@x.com")
	now := time.Now()

	require.NoError(t, r.notifications.CreateBatch(ctx, []entities.Notification{
		{ClientID: clientID, Message: "old", Type: entities.TypeSystem, NotificationDate: now.Add(-2 * time.Hour)},
		{ClientID: clientID, Message: "new", Type: entities.TypeSystem, NotificationDate: now},
		{ClientID: clientID, Message: "mid", Type: entities.TypeSystem, NotificationDate: now.Add(-time.Hour)},
	}))

	ns, err := r.notifications.GetByClientID(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, ns, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{ns[0].Message, ns[1].Message, ns[2].Message})
	assert.Equal(t, entities.PriorityNormal, ns[0].Priority)
	assert.Equal(t, entities.StatusUnread, ns[0].Status)
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	clientID := createClient(t, r, "ana@x.com")
	id, err := r.notifications.Create(ctx, &entities.Notification{ClientID: clientID, Message: "m", Type: entities.TypeBattery})
	require.NoError(t, err)

	count, err := r.notifications.CountUnread(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	for i := 0; i < 2; i++ {
		require.NoError(t, r.notifications.MarkAsRead(ctx, id))
		n, err := r.notifications.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, n.IsRead)
		assert.Equal(t, entities.StatusRead, n.Status)
	}
	count, err = r.notifications.CountUnread(ctx, clientID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.NoError(t, r.notifications.MarkAsRead(ctx, 9999))
}

func TestMarkAllAsReadForClient(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	a := createClient(t, r, "a@x.com")
	b := createClient(t, r, "b@x.com")
	require.NoError(t, r.notifications.CreateBatch(ctx, []entities.Notification{
		{ClientID: a, Message: "1", Type: entities.TypeSystem},
		{ClientID: a, Message: "2", Type: entities.TypeSystem},
		{ClientID: b, Message: "3", Type: entities.TypeSystem},
	}))

	require.NoError(t, r.notifications.MarkAllAsReadForClient(ctx, a))

	unread, err := r.notifications.GetUnread(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, b, unread[0].ClientID)
}

func TestNotificationUpdateKeepsReadFlagConsistent(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	clientID := createClient(t, r, "ana@x.com")
	id, err := r.notifications.Create(ctx, &entities.Notification{ClientID: clientID, Message: "m", Type: entities.TypeAccess})
	require.NoError(t, err)

	n, err := r.notifications.GetByID(ctx, id)
	require.NoError(t, err)
	n.Status = entities.StatusArchived
	n.IsRead = true
	require.NoError(t, r.notifications.Update(ctx, n))

	n, err = r.notifications.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusArchived, n.Status)
	assert.False(t, n.IsRead)
}

func TestAuditLogQueriesAndPrune(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	uid, err := r.users.Create(ctx, &entities.User{Username: "u", PasswordHash: "h", Email: "u@x.com"})
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, r.audit.CreateBatch(ctx, []entities.AuditLog{
		{UserID: uid, Action: "login", EntityType: "user", ActionDate: now.Add(-100 * 24 * time.Hour)},
		{UserID: uid, Action: "login", EntityType: "user", ActionDate: now, Status: entities.AuditFailed},
		{UserID: uid, Action: "change_email", EntityType: "user", ActionDate: now},
	}))

	logins, err := r.audit.GetByAction(ctx, "login")
	require.NoError(t, err)
	require.Len(t, logins, 2)
	assert.Equal(t, entities.AuditFailed, logins[0].Status)

	removed, err := r.audit.DeleteOlderThan(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	all, err := r.audit.GetByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAuditCreateBatchLargerThanOneStatement(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	uid, err := r.users.Create(ctx, &entities.User{Username: "u", PasswordHash: "h", Email: "u@x.com"})
	require.NoError(t, err)

	entries := make([]entities.AuditLog, 5000)
	for i := range entries {
		entries[i] = entities.AuditLog{UserID: uid, Action: "login", EntityType: "user"}
	}
	require.NoError(t, r.audit.CreateBatch(ctx, entries))

	all, err := r.audit.GetByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, all, 5000)
}

func nextSnapshot[T any](t *testing.T, sub *live.Subscription[T]) live.Snapshot[T] {
	t.Helper()
	select {
	case snap, ok := <-sub.Updates():
		require.True(t, ok)
		require.NoError(t, snap.Err)
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return live.Snapshot[T]{}
}

func TestWatchRedeliversAfterWrites(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	clientID := createClient(t, r, "ana@x.com")

	list := r.notifications.WatchByClientID(ctx, clientID)
	defer list.Close()
	count := r.notifications.WatchUnreadCount(ctx, clientID)
	defer count.Close()

	assert.Empty(t, nextSnapshot(t, list).Data)
	assert.Zero(t, nextSnapshot(t, count).Data)

	id, err := r.notifications.Create(ctx, &entities.Notification{ClientID: clientID, Message: "m", Type: entities.TypeMovement})
	require.NoError(t, err)
	assert.Len(t, nextSnapshot(t, list).Data, 1)
	assert.Equal(t, int64(1), nextSnapshot(t, count).Data)

	require.NoError(t, r.notifications.MarkAsRead(ctx, id))
	assert.True(t, nextSnapshot(t, list).Data[0].IsRead)
	assert.Zero(t, nextSnapshot(t, count).Data)

	// cascade delete reaches notification watchers
	require.NoError(t, r.clients.Delete(ctx, clientID))
	assert.Empty(t, nextSnapshot(t, list).Data)
}

func TestWatchSearchFollowsClientChanges(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	sub := r.clients.WatchSearch(ctx, "silva")
	defer sub.Close()
	assert.Empty(t, nextSnapshot(t, sub).Data)

	createClient(t, r, "ana@x.com")
	assert.Len(t, nextSnapshot(t, sub).Data, 1)
}
