package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate applies within one zone. Amount is the fractional rate, e.g.
// 0.20 for 20 percent. Included rates are baked into listed prices.
type TaxRate struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	ZoneID          uuid.UUID       `gorm:"column:zone_id;type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(8,5);not null"`
	IncludedInPrice bool            `gorm:"column:included_in_price;not null;default:false"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Zone *Zone `gorm:"foreignKey:ZoneID"`
}
