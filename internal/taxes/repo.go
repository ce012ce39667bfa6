package taxes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

// Repository resolves applicable rates and swaps an order's tax adjustments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRatesForAddress(ctx context.Context, address *models.Address) ([]models.TaxRate, error)
	DeleteTaxAdjustments(ctx context.Context, orderID uuid.UUID) error
	CreateAdjustments(ctx context.Context, adjustments []*models.Adjustment) error
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

// FindRatesForAddress matches the ship address against zone members. A
// member with no region covers the whole country.
func (r *gormRepository) FindRatesForAddress(ctx context.Context, address *models.Address) ([]models.TaxRate, error) {
	if address == nil {
		return nil, nil
	}

	var rates []models.TaxRate
	err := r.db.WithContext(ctx).
		Joins("JOIN zone_members ON zone_members.zone_id = tax_rates.zone_id").
		Where("zone_members.country_iso = ?", address.CountryISO).
		Where("zone_members.region IS NULL OR zone_members.region = '' OR zone_members.region = ?", address.Region).
		Find(&rates).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find tax rates for address")
	}
	return rates, nil
}

func (r *gormRepository) DeleteTaxAdjustments(ctx context.Context, orderID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND source_type = ?", orderID, enums.AdjustmentSourceTaxRate).
		Delete(&models.Adjustment{}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete tax adjustments")
	}
	return nil
}

func (r *gormRepository) CreateAdjustments(ctx context.Context, adjustments []*models.Adjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(adjustments).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tax adjustments")
	}
	return nil
}
