package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/enums"
)

// StockMovement is one append-only ledger row. Rows are never updated or
// deleted; the stock item count is the running sum of its movements.
type StockMovement struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StockItemID uuid.UUID            `gorm:"column:stock_item_id;type:uuid;not null;index"`
	Quantity    int                  `gorm:"column:quantity;not null"`
	Action      enums.MovementAction `gorm:"column:action;not null"`
	Reference   *string              `gorm:"column:reference"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}
