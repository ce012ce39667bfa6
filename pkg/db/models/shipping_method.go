package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingMethod is a storefront-selectable delivery option.
type ShippingMethod struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Carrier       *string   `gorm:"column:carrier"`
	BaseCostCents int       `gorm:"column:base_cost_cents;not null;default:0"`
	Active        bool      `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
