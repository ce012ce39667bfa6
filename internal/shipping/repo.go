package shipping

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

// Repository reads shipping methods.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActiveMethods(ctx context.Context) ([]models.ShippingMethod, error)
	FindMethodByID(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error)
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

func (r *gormRepository) ListActiveMethods(ctx context.Context) ([]models.ShippingMethod, error) {
	var methods []models.ShippingMethod
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("base_cost_cents ASC").
		Find(&methods).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shipping methods")
	}
	return methods, nil
}

func (r *gormRepository) FindMethodByID(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipping method not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find shipping method")
	}
	return &method, nil
}
