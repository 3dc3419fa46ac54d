package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"security-monitor/db"
	"security-monitor/entities"
	"security-monitor/live"
	"security-monitor/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (repositories.UserRepository, repositories.AuditLogRepository) {
	t.Helper()
	database, err := db.OpenSQLite(db.MemoryDSN(t.Name()), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	hub := live.NewHub()
	return repositories.NewUserGormRepository(database, hub), repositories.NewAuditLogGormRepository(database, hub)
}

func TestFlushWritesBufferedEntries(t *testing.T) {
	users, audit := setup(t)
	ctx := context.Background()
	uid, err := users.Create(ctx, &entities.User{Username: "u", PasswordHash: "h", Email: "u@x.com"})
	require.NoError(t, err)

	ap := NewAuditProcessor(audit, time.Hour, 0)
	ap.Record(entities.AuditLog{UserID: uid, Action: "login", EntityType: "user"})
	ap.Record(entities.AuditLog{UserID: uid, Action: "logout", EntityType: "user"})

	assert.Equal(t, 2, ap.Flush(ctx))
	assert.Equal(t, 0, ap.Flush(ctx))

	logs, err := audit.GetByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestFlushRequeuesOnFailure(t *testing.T) {
	_, audit := setup(t)
	ap := NewAuditProcessor(audit, time.Hour, 0)

	// unknown user violates the foreign key
	ap.Record(entities.AuditLog{UserID: 42, Action: "login", EntityType: "user"})
	assert.Equal(t, 0, ap.Flush(context.Background()))
	assert.Equal(t, 1, ap.GetBufferStats()["pending"])
}

func TestFlushDrainsLargeBacklog(t *testing.T) {
	users, audit := setup(t)
	ctx := context.Background()
	uid, err := users.Create(ctx, &entities.User{Username: "u", PasswordHash: "h", Email: "u@x.com"})
	require.NoError(t, err)

	ap := NewAuditProcessor(audit, time.Hour, 0)
	for i := 0; i < 5000; i++ {
		ap.Record(entities.AuditLog{UserID: uid, Action: "login", EntityType: "user"})
	}

	assert.Equal(t, 5000, ap.Flush(ctx))
	assert.Equal(t, 0, ap.GetBufferStats()["pending"])

	logs, err := audit.GetByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, logs, 5000)
}

func TestFlushSkipsEntryThatCannotBeStored(t *testing.T) {
	users, audit := setup(t)
	ctx := context.Background()
	uid, err := users.Create(ctx, &entities.User{Username: "u", PasswordHash: "h", Email: "u@x.com"})
	require.NoError(t, err)

	ap := NewAuditProcessor(audit, time.Hour, 0)
	for i := 0; i < 1200; i++ {
		ap.Record(entities.AuditLog{UserID: uid, Action: "login", EntityType: "user"})
	}
	// deleted user, rejected by the foreign key
	ap.Record(entities.AuditLog{UserID: 42, Action: "login", EntityType: "user"})

	assert.Equal(t, 1200, ap.Flush(ctx))
	assert.Equal(t, 0, ap.GetBufferStats()["pending"])

	logs, err := audit.GetByUserID(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, logs, 1200)
}

func TestStartFlushesOnShutdown(t *testing.T) {
	users, audit := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	uid, err := users.Create(ctx, &entities.User{Username: "u", PasswordHash: "h", Email: "u@x.com"})
	require.NoError(t, err)

	ap := NewAuditProcessor(audit, time.Hour, 24*time.Hour)
	ap.Start(ctx)
	ap.Record(entities.AuditLog{UserID: uid, Action: "login", EntityType: "user"})
	cancel()
	ap.Wait()

	logs, err := audit.GetByUserID(context.Background(), uid)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestPruneRemovesExpiredEntries(t *testing.T) {
	users, audit := setup(t)
	ctx := context.Background()
	uid, err := users.Create(ctx, &entities.User{Username: "u", PasswordHash: "h", Email: "u@x.com"})
	require.NoError(t, err)
	require.NoError(t, audit.CreateBatch(ctx, []entities.AuditLog{
		{UserID: uid, Action: "login", EntityType: "user", ActionDate: time.Now().Add(-48 * time.Hour)},
		{UserID: uid, Action: "login", EntityType: "user"},
	}))

	ap := NewAuditProcessor(audit, time.Hour, 24*time.Hour)
	assert.Equal(t, int64(1), ap.Prune(ctx))
	assert.Equal(t, int64(0), NewAuditProcessor(audit, time.Hour, 0).Prune(ctx))
}

type brokenAudit struct {
	repositories.AuditLogRepository
}

func (brokenAudit) DeleteOlderThan(context.Context, time.Time) (int64, error) {
	return 0, errors.New("locked")
}

func TestPruneLogsErrors(t *testing.T) {
	ap := NewAuditProcessor(brokenAudit{}, time.Hour, time.Hour)
	assert.Zero(t, ap.Prune(context.Background()))
}
