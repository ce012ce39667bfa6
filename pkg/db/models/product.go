package models

import (
	"time"

	"github.com/google/uuid"
)

// Product groups sellable variants.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Slug        string    `gorm:"column:slug;uniqueIndex;not null"`
	Description *string   `gorm:"column:description"`
	Available   bool      `gorm:"column:available;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Variants []Variant `gorm:"foreignKey:ProductID"`
}
