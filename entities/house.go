package entities

import "fmt"

type HouseStatus string

const (
	HouseActive      HouseStatus = "active"
	HouseInactive    HouseStatus = "inactive"
	HouseMaintenance HouseStatus = "maintenance"
)

// DefaultHouseType is assigned to the house created on client registration.
const DefaultHouseType = "Residencial"

type House struct {
	ID         uint        `gorm:"primaryKey;column:house_id" json:"house_id"`
	ClientID   uint        `gorm:"index;not null" json:"client_id"`
	HouseType  string      `gorm:"type:varchar(64);not null" json:"house_type"`
	Address    string      `json:"address"`
	City       string      `gorm:"type:varchar(100)" json:"city"`
	State      string      `gorm:"type:varchar(100)" json:"state"`
	ZipCode    string      `gorm:"type:varchar(16)" json:"zip_code"`
	ValueCents int64       `gorm:"not null;default:0" json:"value_cents"`
	Status     HouseStatus `gorm:"type:varchar(16);not null;default:active" json:"status"`
}

// FormattedValue renders the estimated value with two decimals, e.g. "250000.00".
func (h *House) FormattedValue() string {
	sign := ""
	v := h.ValueCents
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
