package usecases

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"security-monitor/auth"
	"security-monitor/entities"
	"security-monitor/repositories"
)

type AuthUseCase struct {
	users  repositories.UserRepository
	hasher auth.Hasher
	audit  AuditSink
	now    func() time.Time
}

func NewAuthUseCase(users repositories.UserRepository, hasher auth.Hasher, audit AuditSink) *AuthUseCase {
	if hasher == nil {
		hasher = auth.SHA256Hasher{}
	}
	return &AuthUseCase{users: users, hasher: hasher, audit: audit, now: time.Now}
}

// Authenticate returns the user whose username and password both match.
// Unknown usernames and wrong passwords are reported alike.
func (uc *AuthUseCase) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	if username == "" || password == "" {
		return nil, validationError("please fill in all fields")
	}

	user, err := uc.lookup(ctx, username, password)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Error authenticating %q: %v", username, err)
		}
		uc.recordFailure(ctx, username)
		return nil, ErrInvalidCredentials
	}

	at := uc.now()
	if err := uc.users.UpdateLastLogin(ctx, user.ID, at); err != nil {
		log.Printf("Error updating last login for user %d: %v", user.ID, err)
	} else {
		user.LastLogin = &at
	}
	record(ctx, uc.audit, user.ID, ActionLogin, "user", entities.AuditSuccess, "")
	return user, nil
}

func (uc *AuthUseCase) lookup(ctx context.Context, username, password string) (*entities.User, error) {
	if uc.hasher.Deterministic() {
		hash, err := uc.hasher.Hash(password)
		if err != nil {
			return nil, err
		}
		return uc.users.GetByCredentials(ctx, username, hash)
	}

	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !uc.hasher.Verify(user.PasswordHash, password) {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (uc *AuthUseCase) recordFailure(ctx context.Context, username string) {
	if uc.audit == nil {
		return
	}
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return
	}
	record(ctx, uc.audit, user.ID, ActionLogin, "user", entities.AuditFailed, "")
}

func (uc *AuthUseCase) Logout(ctx context.Context, userID uint) {
	record(ctx, uc.audit, userID, ActionLogout, "user", entities.AuditSuccess, "")
}

type RegisterUserInput struct {
	Username string
	Password string
	Email    string
	Role     entities.Role
	ClientID *uint
}

func (uc *AuthUseCase) Register(ctx context.Context, in RegisterUserInput) (*entities.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case in.Username == "":
		return nil, validationError("username is required")
	case in.Password == "":
		return nil, validationError("password is required")
	case in.Email == "":
		return nil, validationError("email is required")
	}

	if _, err := uc.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &entities.User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		Role:         in.Role,
		ClientID:     in.ClientID,
	}
	if _, err := uc.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	record(ctx, uc.audit, user.ID, ActionRegisterUser, "user", entities.AuditSuccess, "")
	return user, nil
}

func (uc *AuthUseCase) GetUser(ctx context.Context, id uint) (*entities.User, error) {
	return uc.users.GetByID(ctx, id)
}

func (uc *AuthUseCase) UpdateEmail(ctx context.Context, userID uint, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return validationError("email is required")
	}
	if err := uc.users.UpdateEmail(ctx, userID, email); err != nil {
		record(ctx, uc.audit, userID, ActionChangeEmail, "user", entities.AuditError, err.Error())
		return fmt.Errorf("update email: %w", err)
	}
	record(ctx, uc.audit, userID, ActionChangeEmail, "user", entities.AuditSuccess, "")
	return nil
}

// UpdatePassword stores the hash of the new plaintext password.
func (uc *AuthUseCase) UpdatePassword(ctx context.Context, userID uint, password string) error {
	if password == "" {
		return validationError("password is required")
	}
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := uc.users.UpdatePassword(ctx, userID, hash); err != nil {
		record(ctx, uc.audit, userID, ActionChangePassword, "user", entities.AuditError, err.Error())
		return fmt.Errorf("update password: %w", err)
	}
	record(ctx, uc.audit, userID, ActionChangePassword, "user", entities.AuditSuccess, "")
	return nil
}

type ChangePasswordInput struct {
	Current string
	New     string
	Confirm string
}

// ChangePassword checks the form, then the current password, then stores
// the new one.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	switch {
	case in.Current == "" || in.New == "" || in.Confirm == "":
		return validationError("please fill in all fields")
	case in.New != in.Confirm:
		return validationError("passwords do not match")
	case in.New == in.Current:
		return validationError("new password must differ from the current one")
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return ErrInvalidCredentials
	}
	if !uc.hasher.Verify(user.PasswordHash, in.Current) {
		record(ctx, uc.audit, userID, ActionChangePassword, "user", entities.AuditFailed, "current password mismatch")
		return ErrInvalidCredentials
	}
	return uc.UpdatePassword(ctx, userID, in.New)
}

type ChangeEmailInput struct {
	Email   string
	Confirm string
}

func (uc *AuthUseCase) ChangeEmail(ctx context.Context, userID uint, in ChangeEmailInput) error {
	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		return validationError("email is required")
	case !strings.Contains(email, "@"):
		return validationError("invalid email address")
	case in.Confirm != "" && strings.TrimSpace(in.Confirm) != email:
		return validationError("emails do not match")
	}
	return uc.UpdateEmail(ctx, userID, email)
}
