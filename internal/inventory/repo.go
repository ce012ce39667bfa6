package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

// Repository exposes stock item and movement persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindDefaultLocation(ctx context.Context) (*models.StockLocation, error)
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error)
	ItemsByVariant(ctx context.Context, variantID uuid.UUID) ([]models.StockItem, error)
	ListItems(ctx context.Context, variantID *uuid.UUID) ([]models.StockItem, error)
	AdjustCount(ctx context.Context, itemID uuid.UUID, delta int, enforceFloor bool) (bool, error)
	CreateMovement(ctx context.Context, movement *models.StockMovement) error
	AvailableQuantity(ctx context.Context, variantID uuid.UUID) (int, error)
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

func (r *gormRepository) FindDefaultLocation(ctx context.Context) (*models.StockLocation, error) {
	var location models.StockLocation
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("is_default DESC, created_at ASC").
		First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active stock location")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find default stock location")
	}
	return &location, nil
}

func (r *gormRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find stock item")
	}
	return &item, nil
}

func (r *gormRepository) ItemsByVariant(ctx context.Context, variantID uuid.UUID) ([]models.StockItem, error) {
	var items []models.StockItem
	err := r.db.WithContext(ctx).
		Preload("Variant.Product").
		Joins("JOIN stock_locations ON stock_locations.id = stock_items.stock_location_id").
		Where("stock_items.variant_id = ? AND stock_locations.active = ?", variantID, true).
		Order("stock_locations.is_default DESC, stock_items.created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock items for variant")
	}
	return items, nil
}

func (r *gormRepository) ListItems(ctx context.Context, variantID *uuid.UUID) ([]models.StockItem, error) {
	query := r.db.WithContext(ctx).Model(&models.StockItem{})
	if variantID != nil {
		query = query.Where("variant_id = ?", *variantID)
	}
	var items []models.StockItem
	if err := query.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock items")
	}
	return items, nil
}

// AdjustCount applies the delta with an in-database guard so concurrent
// movements cannot interleave between read and write. A false return means
// the floor guard rejected the change.
func (r *gormRepository) AdjustCount(ctx context.Context, itemID uuid.UUID, delta int, enforceFloor bool) (bool, error) {
	query := "UPDATE stock_items SET count_on_hand = count_on_hand + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	args := []any{delta, itemID}
	if enforceFloor {
		query += " AND count_on_hand + ? >= 0"
		args = append(args, delta)
	}

	res := r.db.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "adjust stock count")
	}
	return res.RowsAffected > 0, nil
}

func (r *gormRepository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock movement")
	}
	return nil
}

func (r *gormRepository) AvailableQuantity(ctx context.Context, variantID uuid.UUID) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Select("SUM(count_on_hand)").
		Where("variant_id = ?", variantID).
		Scan(&total).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum stock for variant")
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
