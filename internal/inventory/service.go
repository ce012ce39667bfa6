package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/identity"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// MoveStockParams describes one ledger entry.
type MoveStockParams struct {
	StockItemID uuid.UUID
	Quantity    int
	Action      enums.MovementAction
	Reference   *string
}

// Service is the stock ledger. Counts only ever change together with an
// appended movement, inside one transaction.
type Service interface {
	MoveStock(ctx context.Context, actor identity.Actor, params MoveStockParams) (*models.StockMovement, error)
	Availability(ctx context.Context, variantID uuid.UUID) (int, error)
	ListStock(ctx context.Context, actor identity.Actor, variantID *uuid.UUID) ([]models.StockItem, error)
	SellForOrder(tx *gorm.DB, variantID uuid.UUID, quantity int, reference string) error
}

// ServiceParams wires the service dependencies.
type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
}

type service struct {
	repo     Repository
	txRunner txRunner
}

// NewService validates dependencies and builds the ledger service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: params.Repo, txRunner: params.TransactionRunner}, nil
}

func (s *service) MoveStock(ctx context.Context, actor identity.Actor, params MoveStockParams) (*models.StockMovement, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "stock movements are operator-only")
	}
	if params.Quantity == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-zero")
	}
	if !params.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown movement action %q", params.Action))
	}

	var movement *models.StockMovement
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItemByID(ctx, params.StockItemID)
		if err != nil {
			return err
		}

		ok, err := repo.AdjustCount(ctx, item.ID, params.Quantity, !item.Backorderable)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "movement would take stock below zero").
				WithDetails(map[string]any{
					"stock_item_id": item.ID,
					"count_on_hand": item.CountOnHand,
					"requested":     params.Quantity,
				})
		}

		movement = &models.StockMovement{
			StockItemID: item.ID,
			Quantity:    params.Quantity,
			Action:      params.Action,
			Reference:   params.Reference,
		}
		return repo.CreateMovement(ctx, movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *service) Availability(ctx context.Context, variantID uuid.UUID) (int, error) {
	return s.repo.AvailableQuantity(ctx, variantID)
}

func (s *service) ListStock(ctx context.Context, actor identity.Actor, variantID *uuid.UUID) ([]models.StockItem, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "stock listing is operator-only")
	}
	return s.repo.ListItems(ctx, variantID)
}

// SellForOrder drains the sold quantity across the variant's stock items,
// default location first, inside the caller's settlement transaction.
func (s *service) SellForOrder(tx *gorm.DB, variantID uuid.UUID, quantity int, reference string) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sold quantity must be positive")
	}

	ctx := context.Background()
	if tx != nil && tx.Statement != nil && tx.Statement.Context != nil {
		ctx = tx.Statement.Context
	}
	repo := s.repo.WithTx(tx)

	items, err := repo.ItemsByVariant(ctx, variantID)
	if err != nil {
		return err
	}

	remaining := quantity
	for i := range items {
		if remaining == 0 {
			break
		}
		item := items[i]

		take := remaining
		if !item.Backorderable && take > item.CountOnHand {
			take = item.CountOnHand
		}
		if take <= 0 {
			continue
		}

		ok, err := repo.AdjustCount(ctx, item.ID, -take, !item.Backorderable)
		if err != nil {
			return err
		}
		if !ok {
			// Lost a race to another settlement; let the floor stand.
			continue
		}

		ref := reference
		if err := repo.CreateMovement(ctx, &models.StockMovement{
			StockItemID: item.ID,
			Quantity:    -take,
			Action:      enums.MovementActionSold,
			Reference:   &ref,
		}); err != nil {
			return err
		}
		remaining -= take
	}

	if remaining > 0 {
		details := map[string]any{
			"variant_id": variantID,
			"requested":  quantity,
			"short_by":   remaining,
		}
		available := 0
		for i := range items {
			available += items[i].CountOnHand
		}
		details["available"] = available
		for i := range items {
			if v := items[i].Variant; v != nil {
				details["sku"] = v.SKU
				if v.Product != nil {
					details["product"] = v.Product.Name
				}
				break
			}
		}
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "variant sold out during settlement").
			WithDetails(details)
	}
	return nil
}
