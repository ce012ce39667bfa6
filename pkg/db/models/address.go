package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is an immutable snapshot taken at checkout time.
type Address struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Line1      string    `gorm:"column:line1;not null"`
	Line2      *string   `gorm:"column:line2"`
	City       string    `gorm:"column:city;not null"`
	Region     string    `gorm:"column:region;not null"`
	PostalCode string    `gorm:"column:postal_code;not null"`
	CountryISO string    `gorm:"column:country_iso;not null"`
	Phone      *string   `gorm:"column:phone"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
