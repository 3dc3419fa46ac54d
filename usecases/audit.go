package usecases

import (
	"context"
	"log"

	"security-monitor/entities"
	"security-monitor/live"
	"security-monitor/repositories"
)

const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionRegisterUser   = "register_user"
	ActionRegisterClient = "register_client"
	ActionDeleteClient   = "delete_client"
	ActionChangeEmail    = "change_email"
	ActionChangePassword = "change_password"
)

// AuditSink accepts audit entries without waiting for storage.
type AuditSink interface {
	Record(entry entities.AuditLog)
}

type AuditUseCase struct {
	repo repositories.AuditLogRepository
}

func NewAuditUseCase(repo repositories.AuditLogRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// ListForUser returns the user's trail, newest first. Storage errors yield
// an empty list.
func (uc *AuditUseCase) ListForUser(ctx context.Context, userID uint) []entities.AuditLog {
	logs, err := uc.repo.GetByUserID(ctx, userID)
	if err != nil {
		log.Printf("Error loading audit trail for user %d: %v", userID, err)
		return []entities.AuditLog{}
	}
	return logs
}

func (uc *AuditUseCase) WatchAll(ctx context.Context) *live.Subscription[[]entities.AuditLog] {
	return uc.repo.WatchAll(ctx)
}

type clientIPKey struct{}

// WithClientIP tags ctx with the caller address recorded in audit entries.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return "local"
}

func record(ctx context.Context, sink AuditSink, userID uint, action, entityType, status, details string) {
	if sink == nil || userID == 0 {
		return
	}
	entry := entities.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		Status:     status,
		IPAddress:  clientIP(ctx),
	}
	if details != "" {
		entry.Details = &details
	}
	sink.Record(entry)
}
