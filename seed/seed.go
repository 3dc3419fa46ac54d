package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"security-monitor/auth"
	"security-monitor/entities"
	"security-monitor/repositories"
)

type Account struct {
	Username string
	Password string
	Email    string
	Role     entities.Role
}

var DefaultAccounts = []Account{
	{Username: "OsmarG", Password: "osmar123", Email: "osmar@security.com", Role: entities.RoleManager},
	{Username: "DiogoS", Password: "diogo123", Email: "diogo@security.com", Role: entities.RoleManager},
	{Username: "admin", Password: "admin123", Email: "admin@security.com", Role: entities.RoleAdmin},
}

// Initializer populates a fresh store with the demo accounts and their
// notifications. The existence checks are not atomic with the inserts, so
// concurrent runs against one store may duplicate notifications.
type Initializer struct {
	users         repositories.UserRepository
	clients       repositories.ClientRepository
	notifications repositories.NotificationRepository
	hasher        auth.Hasher

	Accounts []Account
	Now      func() time.Time
}

func NewInitializer(users repositories.UserRepository, clients repositories.ClientRepository, notifications repositories.NotificationRepository, hasher auth.Hasher) *Initializer {
	if hasher == nil {
		hasher = auth.SHA256Hasher{}
	}
	return &Initializer{
		users:         users,
		clients:       clients,
		notifications: notifications,
		hasher:        hasher,
		Accounts:      DefaultAccounts,
		Now:           time.Now,
	}
}

// Run creates every missing account. Accounts whose username already exists
// are left untouched. A failing account does not stop the others.
func (in *Initializer) Run(ctx context.Context) error {
	var errs []error
	for _, acc := range in.Accounts {
		created, err := in.ensureAccount(ctx, acc)
		if err != nil {
			log.Printf("Error seeding account %s: %v", acc.Username, err)
			errs = append(errs, fmt.Errorf("seed %s: %w", acc.Username, err))
			continue
		}
		if created {
			log.Printf("Seeded account %s", acc.Username)
		}
	}
	return errors.Join(errs...)
}

func (in *Initializer) ensureAccount(ctx context.Context, acc Account) (bool, error) {
	if _, err := in.users.GetByUsername(ctx, acc.Username); err == nil {
		return false, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}

	client, err := in.companionClient(ctx, acc.Username, acc.Email)
	if err != nil {
		return false, err
	}

	hash, err := in.hasher.Hash(acc.Password)
	if err != nil {
		return false, err
	}
	user := &entities.User{
		Username:     acc.Username,
		PasswordHash: hash,
		Email:        acc.Email,
		Role:         acc.Role,
		Status:       entities.UserActive,
		ClientID:     &client.ID,
	}
	if _, err := in.users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}

	if err := in.notifications.CreateBatch(ctx, NotificationsFor(acc.Username, client.ID, in.Now())); err != nil {
		return true, fmt.Errorf("insert notifications: %w", err)
	}
	return true, nil
}

// companionClient returns the client that holds a user's notifications,
// creating it from the username and email when none exists.
func (in *Initializer) companionClient(ctx context.Context, username, email string) (*entities.Client, error) {
	client, err := in.clients.GetByEmail(ctx, email)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	client = &entities.Client{FirstName: username, Email: email}
	if _, err := in.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("insert companion client: %w", err)
	}
	return client, nil
}

// EnsureNotifications seeds the user's notification set when their client
// has none yet, linking a companion client first if needed. It returns how
// many notifications were inserted.
func (in *Initializer) EnsureNotifications(ctx context.Context, user *entities.User) (int, error) {
	if user.ClientID == nil {
		client, err := in.companionClient(ctx, user.Username, user.Email)
		if err != nil {
			return 0, err
		}
		if err := in.users.UpdateClientID(ctx, user.ID, &client.ID); err != nil {
			return 0, fmt.Errorf("link client: %w", err)
		}
		user.ClientID = &client.ID
	}

	existing, err := in.notifications.GetByClientID(ctx, *user.ClientID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	ns := NotificationsFor(user.Username, *user.ClientID, in.Now())
	if err := in.notifications.CreateBatch(ctx, ns); err != nil {
		return 0, fmt.Errorf("insert notifications: %w", err)
	}
	return len(ns), nil
}
