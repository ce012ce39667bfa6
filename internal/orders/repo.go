package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/identity"
	"github.com/calebreyes/storefront-backend/pkg/pagination"
)

// ListQuery narrows the admin order listing. Nil fields match everything.
type ListQuery struct {
	State         *enums.OrderState
	PaymentState  *enums.PaymentState
	ShipmentState *enums.ShipmentState
	Email         *string
	Number        *string
}

// Repository is the order aggregate's persistence surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) error
	Save(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
	FindOpenForActor(ctx context.Context, actor identity.Actor) (*models.Order, error)
	List(ctx context.Context, query ListQuery, limit int, cursor *pagination.Cursor) ([]models.Order, error)

	FindVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error)
	CreateLineItem(ctx context.Context, item *models.LineItem) error
	SaveLineItem(ctx context.Context, item *models.LineItem) error
	DeleteLineItem(ctx context.Context, item *models.LineItem) error

	CreateAddress(ctx context.Context, address *models.Address) error
	CreateShipment(ctx context.Context, shipment *models.Shipment) error
	SaveShipment(ctx context.Context, shipment *models.Shipment) error
	DeleteShipmentsForOrder(ctx context.Context, orderID uuid.UUID) error
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

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_items.created_at ASC")
		}).
		Preload("LineItems.Variant").
		Preload("LineItems.Variant.Product").
		Preload("Adjustments").
		Preload("Shipments").
		Preload("Shipments.ShippingMethod").
		Preload("ShipAddress").
		Preload("BillAddress")
}

func (r *gormRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return nil
}

func (r *gormRepository) Save(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).
		Omit("LineItems", "Adjustments", "Shipments", "ShipAddress", "BillAddress").
		Save(order).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order")
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := withAssociations(r.db.WithContext(ctx)).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	return &order, nil
}

func (r *gormRepository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := withAssociations(r.db.WithContext(ctx)).Where("number = ?", number).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order by number")
	}
	return &order, nil
}

// FindOpenForActor returns the actor's in-progress order, anywhere in the
// funnel before complete, or nil when none exists.
func (r *gormRepository) FindOpenForActor(ctx context.Context, actor identity.Actor) (*models.Order, error) {
	openStates := []enums.OrderState{
		enums.OrderStateCart,
		enums.OrderStateAddress,
		enums.OrderStateDelivery,
		enums.OrderStatePayment,
		enums.OrderStateConfirm,
	}
	scope := r.db.WithContext(ctx).Where("state IN ?", openStates)
	switch {
	case actor.UserID != nil:
		scope = scope.Where("user_id = ?", *actor.UserID)
	case actor.GuestToken != "":
		scope = scope.Where("guest_token = ?", actor.GuestToken)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "anonymous carts require a guest token")
	}

	var order models.Order
	err := withAssociations(scope).Order("created_at DESC").First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find cart")
	}
	return &order, nil
}

func (r *gormRepository) List(ctx context.Context, query ListQuery, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	scope := r.db.WithContext(ctx).Model(&models.Order{})

	if query.State != nil {
		scope = scope.Where("state = ?", *query.State)
	}
	if query.PaymentState != nil {
		scope = scope.Where("payment_state = ?", *query.PaymentState)
	}
	if query.ShipmentState != nil {
		scope = scope.Where("shipment_state = ?", *query.ShipmentState)
	}
	if query.Email != nil {
		scope = scope.Where("email = ?", *query.Email)
	}
	if query.Number != nil {
		scope = scope.Where("number = ?", *query.Number)
	}
	if cursor != nil {
		scope = scope.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var out []models.Order
	err := scope.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return out, nil
}

func (r *gormRepository) FindVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	var variant models.Variant
	err := r.db.WithContext(ctx).Preload("Product").Where("id = ?", id).First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find variant")
	}
	return &variant, nil
}

func (r *gormRepository) CreateLineItem(ctx context.Context, item *models.LineItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create line item")
	}
	return nil
}

func (r *gormRepository) SaveLineItem(ctx context.Context, item *models.LineItem) error {
	if err := r.db.WithContext(ctx).Omit("Variant").Save(item).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save line item")
	}
	return nil
}

func (r *gormRepository) DeleteLineItem(ctx context.Context, item *models.LineItem) error {
	if err := r.db.WithContext(ctx).Delete(item).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line item")
	}
	return nil
}

func (r *gormRepository) CreateAddress(ctx context.Context, address *models.Address) error {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return nil
}

func (r *gormRepository) CreateShipment(ctx context.Context, shipment *models.Shipment) error {
	if err := r.db.WithContext(ctx).Create(shipment).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipment")
	}
	return nil
}

func (r *gormRepository) SaveShipment(ctx context.Context, shipment *models.Shipment) error {
	if err := r.db.WithContext(ctx).Omit("ShippingMethod").Save(shipment).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save shipment")
	}
	return nil
}

func (r *gormRepository) DeleteShipmentsForOrder(ctx context.Context, orderID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.Shipment{}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete shipments")
	}
	return nil
}
