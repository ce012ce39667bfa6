package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is the purchasable unit. Weight is in kilograms and feeds the
// shipping cost calculator.
type Variant struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	SKU        string          `gorm:"column:sku;uniqueIndex;not null"`
	PriceCents int             `gorm:"column:price_cents;not null"`
	WeightKG   decimal.Decimal `gorm:"column:weight_kg;type:numeric(10,3);not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
