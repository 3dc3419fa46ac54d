package entities

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Client is an end customer of the security service. Deleting a client
// removes its houses and notifications.
type Client struct {
	ID               uint      `gorm:"primaryKey;column:client_id" json:"client_id"`
	FirstName        string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName         string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PhoneNumber      string    `gorm:"type:varchar(32)" json:"phone_number"`
	Address          string    `json:"address"`
	City             string    `gorm:"type:varchar(100)" json:"city"`
	State            string    `gorm:"type:varchar(100)" json:"state"`
	ZipCode          string    `gorm:"type:varchar(16)" json:"zip_code"`
	RegistrationDate time.Time `json:"registration_date"`

	Houses        []House        `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.RegistrationDate.IsZero() {
		c.RegistrationDate = time.Now()
	}
	return nil
}

func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
