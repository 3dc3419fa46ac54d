package entities

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

// User is a login account. ClientID is a soft link without a foreign key.
type User struct {
	ID             uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username       string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash   string     `gorm:"not null" json:"-"`
	Email          string     `gorm:"type:varchar(255);not null" json:"email"`
	Role           Role       `gorm:"type:varchar(16);not null;default:user" json:"role"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	Status         UserStatus `gorm:"type:varchar(16);not null;default:active" json:"status"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
	ClientID       *uint      `gorm:"index" json:"client_id,omitempty"`

	AuditLogs []AuditLog `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = UserActive
	}
	return nil
}
