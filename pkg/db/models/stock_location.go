package models

import (
	"time"

	"github.com/google/uuid"
)

// StockLocation is a warehouse holding stock items.
type StockLocation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Default   bool      `gorm:"column:is_default;not null;default:false"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
