package server

import (
	"fmt"

	"security-monitor/auth"
	"security-monitor/confs"
	"security-monitor/db"
	"security-monitor/live"
	"security-monitor/repositories"
	"security-monitor/seed"
	"security-monitor/services"
	"security-monitor/usecases"
)

// Services is the wired application core shared by the HTTP server and the
// console.
type Services struct {
	Hub *live.Hub

	Users         repositories.UserRepository
	Clients       repositories.ClientRepository
	Houses        repositories.HouseRepository
	Notifications repositories.NotificationRepository
	AuditLogs     repositories.AuditLogRepository

	Auth           *usecases.AuthUseCase
	ClientUseCase  *usecases.ClientUseCase
	NotificationUC *usecases.NotificationUseCase
	Audit          *usecases.AuditUseCase
	AuditProcessor *services.AuditProcessor
	Seeder         *seed.Initializer
	Tokens         *auth.TokenIssuer
}

func NewServices(cfg *confs.Config, database db.Database) (*Services, error) {
	hasher, err := auth.NewHasher(cfg.PasswordHasher)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	hub := live.NewHub()
	s := &Services{
		Hub:           hub,
		Users:         repositories.NewUserGormRepository(database, hub),
		Clients:       repositories.NewClientGormRepository(database, hub),
		Houses:        repositories.NewHouseGormRepository(database, hub),
		Notifications: repositories.NewNotificationGormRepository(database, hub),
		AuditLogs:     repositories.NewAuditLogGormRepository(database, hub),
		Tokens:        auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
	}

	s.AuditProcessor = services.NewAuditProcessor(s.AuditLogs, cfg.AuditFlushInterval, cfg.AuditRetention)
	s.Auth = usecases.NewAuthUseCase(s.Users, hasher, s.AuditProcessor)
	s.ClientUseCase = usecases.NewClientUseCase(s.Clients, s.Houses, s.Notifications, s.AuditProcessor)
	s.NotificationUC = usecases.NewNotificationUseCase(s.Notifications)
	s.Audit = usecases.NewAuditUseCase(s.AuditLogs)
	s.Seeder = seed.NewInitializer(s.Users, s.Clients, s.Notifications, hasher)
	return s, nil
}
