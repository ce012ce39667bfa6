package models

import (
	"time"

	"github.com/google/uuid"
)

// StockItem is the current on-hand count for a variant at one location.
// The count is only ever changed together with an appended StockMovement.
type StockItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StockLocationID uuid.UUID `gorm:"column:stock_location_id;type:uuid;not null;uniqueIndex:idx_stock_items_location_variant"`
	VariantID       uuid.UUID `gorm:"column:variant_id;type:uuid;not null;uniqueIndex:idx_stock_items_location_variant"`
	CountOnHand     int       `gorm:"column:count_on_hand;not null;default:0"`
	Backorderable   bool      `gorm:"column:backorderable;not null;default:false"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Variant *Variant `gorm:"foreignKey:VariantID"`
}
