package promotions

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

// Repository exposes promotion persistence plus the derived usage queries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.Promotion, error)
	UsageCount(ctx context.Context, promotionID uuid.UUID) (int, error)
	OrderHasPromotion(ctx context.Context, orderID, promotionID uuid.UUID) (bool, error)
	CompletedOrderCount(ctx context.Context, userID uuid.UUID) (int, error)
	CreateAdjustments(ctx context.Context, adjustments []*models.Adjustment) error
	Create(ctx context.Context, promotion *models.Promotion) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds the default gorm-backed repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &gormRepository{db: tx}
}

func (r *gormRepository) FindByCode(ctx context.Context, code string) (*models.Promotion, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var promotion models.Promotion
	err := r.db.WithContext(ctx).
		Preload("Rules").
		Preload("Actions").
		Where("UPPER(code) = ?", normalized).
		First(&promotion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find promotion")
	}
	return &promotion, nil
}

// UsageCount derives usage from adjustments rather than a stored counter,
// so voided orders that lost their adjustments free the slot again.
func (r *gormRepository) UsageCount(ctx context.Context, promotionID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Adjustment{}).
		Where("source_type = ? AND source_id = ?", enums.AdjustmentSourcePromotion, promotionID).
		Distinct("order_id").
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count promotion usage")
	}
	return int(count), nil
}

func (r *gormRepository) OrderHasPromotion(ctx context.Context, orderID, promotionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Adjustment{}).
		Where("order_id = ? AND source_type = ? AND source_id = ?",
			orderID, enums.AdjustmentSourcePromotion, promotionID).
		Count(&count).Error
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check promotion on order")
	}
	return count > 0, nil
}

func (r *gormRepository) CompletedOrderCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND state = ?", userID, enums.OrderStateComplete).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count completed orders")
	}
	return int(count), nil
}

func (r *gormRepository) CreateAdjustments(ctx context.Context, adjustments []*models.Adjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(adjustments).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion adjustments")
	}
	return nil
}

func (r *gormRepository) Create(ctx context.Context, promotion *models.Promotion) error {
	if err := r.db.WithContext(ctx).Create(promotion).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}
	return nil
}
