package models

import (
	"time"

	"github.com/google/uuid"
)

// LineItem captures the unit price at the moment the variant entered the
// cart. Later price changes on the variant never touch it.
type LineItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	VariantID  uuid.UUID `gorm:"column:variant_id;type:uuid;not null;index"`
	Quantity   int       `gorm:"column:quantity;not null"`
	PriceCents int       `gorm:"column:price_cents;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Variant *Variant `gorm:"foreignKey:VariantID"`
}

// TotalCents is the extended line amount.
func (li LineItem) TotalCents() int {
	return li.PriceCents * li.Quantity
}
