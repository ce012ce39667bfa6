package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/enums"
)

// Shipment is the fulfillment side of an order.
type Shipment struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Number           string              `gorm:"column:number;uniqueIndex;not null"`
	State            enums.ShipmentState `gorm:"column:state;not null;default:'pending'"`
	StockLocationID  uuid.UUID           `gorm:"column:stock_location_id;type:uuid;not null"`
	ShippingMethodID *uuid.UUID          `gorm:"column:shipping_method_id;type:uuid"`
	CostCents        int                 `gorm:"column:cost_cents;not null;default:0"`
	TrackingNumber   *string             `gorm:"column:tracking_number"`
	ShippedAt        *time.Time          `gorm:"column:shipped_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	ShippingMethod *ShippingMethod `gorm:"foreignKey:ShippingMethodID"`
}
