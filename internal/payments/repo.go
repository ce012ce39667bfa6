package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

// Repository persists settled payments, gateway intent handles and the
// per-unit inventory rows written at settlement.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	InsertIgnoreDuplicate(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindOpenIntentForOrder(ctx context.Context, orderID uuid.UUID) (*models.PaymentIntent, error)
	FindIntentByGatewayRef(ctx context.Context, gatewayRef string) (*models.PaymentIntent, error)
	SaveIntent(ctx context.Context, intent *models.PaymentIntent) error
	InsertInventoryUnits(ctx context.Context, units []models.InventoryUnit) error
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

// FindByTransactionID returns the payment for a processor transaction, or
// nil when none exists.
func (r *gormRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find payment")
	}
	return &payment, nil
}

// InsertIgnoreDuplicate inserts the payment unless its transaction id is
// already recorded, in which case the existing row wins.
func (r *gormRepository) InsertIgnoreDuplicate(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(payment).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert payment")
	}

	existing, err := r.FindByTransactionID(ctx, payment.TransactionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment vanished after insert")
	}
	return existing, nil
}

// FindOpenIntentForOrder returns the order's non-terminal intent, or nil
// when none is open. At most one exists per order.
func (r *gormRepository) FindOpenIntentForOrder(ctx context.Context, orderID uuid.UUID) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status IN ?", orderID, []enums.PaymentIntentStatus{
			enums.PaymentIntentRequiresPaymentMethod,
			enums.PaymentIntentCheckoutSession,
		}).
		Order("created_at DESC").
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find open intent")
	}
	return &intent, nil
}

func (r *gormRepository) FindIntentByGatewayRef(ctx context.Context, gatewayRef string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := r.db.WithContext(ctx).Where("gateway_ref = ?", gatewayRef).First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no payment intent for gateway reference")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find intent by gateway reference")
	}
	return &intent, nil
}

func (r *gormRepository) SaveIntent(ctx context.Context, intent *models.PaymentIntent) error {
	if err := r.db.WithContext(ctx).Save(intent).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save payment intent")
	}
	return nil
}

func (r *gormRepository) InsertInventoryUnits(ctx context.Context, units []models.InventoryUnit) error {
	if len(units) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&units).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert inventory units")
	}
	return nil
}
