package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/enums"
)

// PaymentIntent tracks one external-gateway payment handle for an order.
// GatewayRef is the processor's intent or session id; ClientSecret carries
// the client secret (direct intents) or the hosted checkout URL (sessions).
// AmountCents snapshots the order total the handle was opened for, so a
// drifted total forces a new remote resource instead of reusing a stale one.
type PaymentIntent struct {
	ID           uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID                 `gorm:"column:order_id;type:uuid;not null;index"`
	GatewayRef   string                    `gorm:"column:gateway_ref;uniqueIndex;not null"`
	ClientSecret *string                   `gorm:"column:client_secret"`
	AmountCents  int                       `gorm:"column:amount_cents;not null"`
	Status       enums.PaymentIntentStatus `gorm:"column:status;not null;default:'requires_payment_method'"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
