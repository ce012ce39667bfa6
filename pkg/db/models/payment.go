package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/enums"
)

// Payment records one settled (or failed) processor charge. TransactionID
// is the processor's id and carries the idempotency constraint: a second
// settlement attempt for the same transaction inserts nothing.
type Payment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	AmountCents   int                 `gorm:"column:amount_cents;not null"`
	Status        enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	Source        string              `gorm:"column:source;not null;default:'stripe'"`
	TransactionID string              `gorm:"column:transaction_id;uniqueIndex;not null"`
	FailureReason *string             `gorm:"column:failure_reason"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
