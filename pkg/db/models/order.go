package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/enums"
)

// Order is the aggregate root for the whole checkout funnel. Totals are
// integer minor units and must satisfy
// total = item_total + shipment_total + adjustment_total.
type Order struct {
	ID     uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number string           `gorm:"column:number;uniqueIndex;not null"`
	State  enums.OrderState `gorm:"column:state;not null;default:'cart'"`

	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	GuestToken *string    `gorm:"column:guest_token;index"`
	Email      *string    `gorm:"column:email"`

	Currency string `gorm:"column:currency;not null;default:'usd'"`

	ItemTotalCents       int `gorm:"column:item_total_cents;not null;default:0"`
	ItemCount            int `gorm:"column:item_count;not null;default:0"`
	AdjustmentTotalCents int `gorm:"column:adjustment_total_cents;not null;default:0"`
	PromoTotalCents      int `gorm:"column:promo_total_cents;not null;default:0"`
	TaxTotalCents        int `gorm:"column:tax_total_cents;not null;default:0"`
	ShipmentTotalCents   int `gorm:"column:shipment_total_cents;not null;default:0"`
	TotalCents           int `gorm:"column:total_cents;not null;default:0"`

	PaymentState  enums.PaymentState   `gorm:"column:payment_state;not null;default:'balance_due'"`
	ShipmentState *enums.ShipmentState `gorm:"column:shipment_state"`

	ShipAddressID *uuid.UUID `gorm:"column:ship_address_id;type:uuid"`
	BillAddressID *uuid.UUID `gorm:"column:bill_address_id;type:uuid"`

	CompletedAt *time.Time `gorm:"column:completed_at"`
	CanceledAt  *time.Time `gorm:"column:canceled_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	LineItems   []LineItem   `gorm:"foreignKey:OrderID"`
	Adjustments []Adjustment `gorm:"foreignKey:OrderID"`
	Shipments   []Shipment   `gorm:"foreignKey:OrderID"`
	ShipAddress *Address     `gorm:"foreignKey:ShipAddressID"`
	BillAddress *Address     `gorm:"foreignKey:BillAddressID"`
}
