package entities

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	TypeMovement    NotificationType = "movement"
	TypeSystem      NotificationType = "system"
	TypeBattery     NotificationType = "battery"
	TypeAccess      NotificationType = "access"
	TypeMaintenance NotificationType = "maintenance"
	TypeSecurity    NotificationType = "security"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type NotificationStatus string

const (
	StatusUnread   NotificationStatus = "unread"
	StatusRead     NotificationStatus = "read"
	StatusArchived NotificationStatus = "archived"
)

// Notification belongs to a client. IsRead is true exactly when Status is "read".
type Notification struct {
	ID               uint               `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	ClientID         uint               `gorm:"index;not null" json:"client_id"`
	Message          string             `gorm:"type:text;not null" json:"message"`
	NotificationDate time.Time          `gorm:"index" json:"notification_date"`
	Type             NotificationType   `gorm:"type:varchar(16);not null" json:"type"`
	Priority         Priority           `gorm:"type:varchar(16);not null;default:normal" json:"priority"`
	Status           NotificationStatus `gorm:"type:varchar(16);not null;default:unread" json:"status"`
	IsRead           bool               `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.NotificationDate.IsZero() {
		n.NotificationDate = time.Now()
	}
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}
	return nil
}

// BeforeSave keeps IsRead and Status consistent on full-record writes.
func (n *Notification) BeforeSave(tx *gorm.DB) (err error) {
	switch {
	case n.Status == "":
		if n.IsRead {
			n.Status = StatusRead
		} else {
			n.Status = StatusUnread
		}
	case n.Status == StatusRead:
		n.IsRead = true
	default:
		n.IsRead = false
	}
	return nil
}

// Severity buckets a notification type for display.
type Severity string

const (
	SeverityAlert   Severity = "alert"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func (n *Notification) Title() string {
	switch NotificationType(strings.ToLower(string(n.Type))) {
	case TypeMovement:
		return "Movimento Detectado"
	case TypeSystem:
		return "Sistema"
	case TypeBattery:
		return "Bateria"
	case TypeAccess:
		return "Acesso"
	case TypeMaintenance:
		return "Manutenção"
	case TypeSecurity:
		return "Segurança"
	default:
		return "Notificação"
	}
}

func (n *Notification) Severity() Severity {
	switch NotificationType(strings.ToLower(string(n.Type))) {
	case TypeMovement, TypeAccess, TypeSecurity:
		return SeverityAlert
	case TypeBattery, TypeMaintenance:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
