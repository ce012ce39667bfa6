package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebreyes/storefront-backend/pkg/enums"
)

// Promotion is a coupon with eligibility rules and discount actions.
// Usage is derived from adjustments, not stored here.
type Promotion struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string     `gorm:"column:code;uniqueIndex;not null"`
	Name        string     `gorm:"column:name;not null"`
	Description *string    `gorm:"column:description"`
	UsageLimit  *int       `gorm:"column:usage_limit"`
	StartsAt    *time.Time `gorm:"column:starts_at"`
	ExpiresAt   *time.Time `gorm:"column:expires_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Rules   []PromotionRule   `gorm:"foreignKey:PromotionID"`
	Actions []PromotionAction `gorm:"foreignKey:PromotionID"`
}

// PromotionRule is one eligibility predicate; all rules must pass.
type PromotionRule struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PromotionID    uuid.UUID               `gorm:"column:promotion_id;type:uuid;not null;index"`
	Kind           enums.PromotionRuleKind `gorm:"column:kind;not null"`
	ThresholdCents *int                    `gorm:"column:threshold_cents"`
	Operator       *enums.RuleOperator     `gorm:"column:operator"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// PromotionAction emits adjustments when the rules pass.
type PromotionAction struct {
	ID          uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PromotionID uuid.UUID                 `gorm:"column:promotion_id;type:uuid;not null;index"`
	Calculator  enums.PromotionCalculator `gorm:"column:calculator;not null"`
	AmountCents *int                      `gorm:"column:amount_cents"`
	Percent     *decimal.Decimal          `gorm:"column:percent;type:numeric(5,2)"`
	CreatedAt   time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
