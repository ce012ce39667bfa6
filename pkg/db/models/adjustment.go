package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/enums"
)

// Adjustment is a signed amount attached to an order, line item, or
// shipment by the promotion or tax engine. Included-in-price tax rows are
// informational and stay out of adjustment_total.
type Adjustment struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID              `gorm:"column:order_id;type:uuid;not null;index"`
	AdjustableType  enums.AdjustableType   `gorm:"column:adjustable_type;not null"`
	AdjustableID    uuid.UUID              `gorm:"column:adjustable_id;type:uuid;not null"`
	SourceType      enums.AdjustmentSource `gorm:"column:source_type;not null;index"`
	SourceID        uuid.UUID              `gorm:"column:source_id;type:uuid;not null;index"`
	AmountCents     int                    `gorm:"column:amount_cents;not null"`
	Label           string                 `gorm:"column:label;not null"`
	Eligible        bool                   `gorm:"column:eligible;not null;default:true"`
	IncludedInPrice bool                   `gorm:"column:included_in_price;not null;default:false"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
