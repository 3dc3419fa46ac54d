package entities

import (
	"time"

	"gorm.io/gorm"
)

const (
	AuditSuccess = "success"
	AuditFailed  = "failed"
	AuditError   = "error"
)

// AuditLog is an append-only trail entry. Deleting the user removes its entries.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey;column:log_id" json:"log_id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Action     string    `gorm:"type:varchar(64);index;not null" json:"action"`
	ActionDate time.Time `gorm:"index" json:"action_date"`
	IPAddress  string    `gorm:"type:varchar(64)" json:"ip_address"`
	Status     string    `gorm:"type:varchar(16);not null" json:"status"`
	EntityType string    `gorm:"type:varchar(32);not null" json:"entity_type"`
	Details    *string   `gorm:"type:text" json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ActionDate.IsZero() {
		a.ActionDate = time.Now()
	}
	if a.Status == "" {
		a.Status = AuditSuccess
	}
	return nil
}
