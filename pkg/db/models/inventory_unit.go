package models

import (
	"time"

	"github.com/google/uuid"
)

// Inventory unit states. Units are created on_hand at settlement.
const (
	InventoryUnitOnHand   = "on_hand"
	InventoryUnitShipped  = "shipped"
	InventoryUnitReturned = "returned"
)

// InventoryUnit is one physical unit committed to a settled order, one row
// per purchased quantity.
type InventoryUnit struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	VariantID  uuid.UUID  `gorm:"column:variant_id;type:uuid;not null;index"`
	ShipmentID *uuid.UUID `gorm:"column:shipment_id;type:uuid"`
	State      string     `gorm:"column:state;not null;default:'on_hand'"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
