package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/identity"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubRepo struct {
	items     map[uuid.UUID]*models.StockItem
	movements []models.StockMovement
}

func newStubRepo(items ...*models.StockItem) *stubRepo {
	repo := &stubRepo{items: map[uuid.UUID]*models.StockItem{}}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *stubRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepo) FindDefaultLocation(ctx context.Context) (*models.StockLocation, error) {
	return &models.StockLocation{ID: uuid.New(), Default: true, Active: true}, nil
}

func (r *stubRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*models.StockItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
	}
	copied := *item
	return &copied, nil
}

func (r *stubRepo) ItemsByVariant(ctx context.Context, variantID uuid.UUID) ([]models.StockItem, error) {
	var out []models.StockItem
	for _, item := range r.items {
		if item.VariantID == variantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *stubRepo) ListItems(ctx context.Context, variantID *uuid.UUID) ([]models.StockItem, error) {
	var out []models.StockItem
	for _, item := range r.items {
		if variantID == nil || item.VariantID == *variantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *stubRepo) AdjustCount(ctx context.Context, itemID uuid.UUID, delta int, enforceFloor bool) (bool, error) {
	item, ok := r.items[itemID]
	if !ok {
		return false, nil
	}
	if enforceFloor && item.CountOnHand+delta < 0 {
		return false, nil
	}
	item.CountOnHand += delta
	return true, nil
}

func (r *stubRepo) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	movement.ID = uuid.New()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *stubRepo) AvailableQuantity(ctx context.Context, variantID uuid.UUID) (int, error) {
	total := 0
	for _, item := range r.items {
		if item.VariantID == variantID {
			total += item.CountOnHand
		}
	}
	return total, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, TransactionRunner: stubTxRunner{}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestMoveStockAppendsMovementAndUpdatesCount(t *testing.T) {
	t.Parallel()

	item := &models.StockItem{ID: uuid.New(), VariantID: uuid.New(), CountOnHand: 5}
	repo := newStubRepo(item)
	svc := newTestService(t, repo)

	movement, err := svc.MoveStock(context.Background(), identity.Admin(uuid.New()), MoveStockParams{
		StockItemID: item.ID,
		Quantity:    10,
		Action:      enums.MovementActionReceived,
	})
	if err != nil {
		t.Fatalf("MoveStock: %v", err)
	}
	if movement.Quantity != 10 || movement.Action != enums.MovementActionReceived {
		t.Fatalf("unexpected movement %+v", movement)
	}
	if item.CountOnHand != 15 {
		t.Fatalf("count_on_hand = %d, want 15", item.CountOnHand)
	}
	if len(repo.movements) != 1 {
		t.Fatalf("movements recorded = %d, want 1", len(repo.movements))
	}
}

func TestMoveStockEnforcesFloorForNonBackorderable(t *testing.T) {
	t.Parallel()

	item := &models.StockItem{ID: uuid.New(), VariantID: uuid.New(), CountOnHand: 3}
	repo := newStubRepo(item)
	svc := newTestService(t, repo)

	_, err := svc.MoveStock(context.Background(), identity.Admin(uuid.New()), MoveStockParams{
		StockItemID: item.ID,
		Quantity:    -4,
		Action:      enums.MovementActionAdjustment,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}
	if item.CountOnHand != 3 {
		t.Fatalf("count changed despite rejection: %d", item.CountOnHand)
	}
	if len(repo.movements) != 0 {
		t.Fatal("no movement may be recorded for a rejected adjustment")
	}
}

func TestMoveStockAllowsNegativeForBackorderable(t *testing.T) {
	t.Parallel()

	item := &models.StockItem{ID: uuid.New(), VariantID: uuid.New(), CountOnHand: 1, Backorderable: true}
	repo := newStubRepo(item)
	svc := newTestService(t, repo)

	if _, err := svc.MoveStock(context.Background(), identity.Admin(uuid.New()), MoveStockParams{
		StockItemID: item.ID,
		Quantity:    -5,
		Action:      enums.MovementActionSold,
	}); err != nil {
		t.Fatalf("MoveStock: %v", err)
	}
	if item.CountOnHand != -4 {
		t.Fatalf("count_on_hand = %d, want -4", item.CountOnHand)
	}
}

func TestMoveStockRejectsNonAdminAndZeroQuantity(t *testing.T) {
	t.Parallel()

	item := &models.StockItem{ID: uuid.New(), VariantID: uuid.New(), CountOnHand: 1}
	svc := newTestService(t, newStubRepo(item))

	_, err := svc.MoveStock(context.Background(), identity.Guest("tok"), MoveStockParams{
		StockItemID: item.ID,
		Quantity:    1,
		Action:      enums.MovementActionReceived,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}

	_, err = svc.MoveStock(context.Background(), identity.Admin(uuid.New()), MoveStockParams{
		StockItemID: item.ID,
		Quantity:    0,
		Action:      enums.MovementActionReceived,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSellForOrderDrainsAcrossItems(t *testing.T) {
	t.Parallel()

	variantID := uuid.New()
	a := &models.StockItem{ID: uuid.New(), VariantID: variantID, CountOnHand: 2}
	b := &models.StockItem{ID: uuid.New(), VariantID: variantID, CountOnHand: 3}
	repo := newStubRepo(a, b)
	svc := newTestService(t, repo)

	if err := svc.SellForOrder(nil, variantID, 4, "R0000000001"); err != nil {
		t.Fatalf("SellForOrder: %v", err)
	}
	if a.CountOnHand+b.CountOnHand != 1 {
		t.Fatalf("total remaining = %d, want 1", a.CountOnHand+b.CountOnHand)
	}
	sold := 0
	for _, m := range repo.movements {
		if m.Action != enums.MovementActionSold {
			t.Fatalf("unexpected action %s", m.Action)
		}
		sold += -m.Quantity
	}
	if sold != 4 {
		t.Fatalf("sold movements total = %d, want 4", sold)
	}
}

func TestSellForOrderShortStockFails(t *testing.T) {
	t.Parallel()

	variantID := uuid.New()
	item := &models.StockItem{
		ID:          uuid.New(),
		VariantID:   variantID,
		CountOnHand: 1,
		Variant: &models.Variant{
			ID:      variantID,
			SKU:     "MUG-BLUE",
			Product: &models.Product{Name: "Harbor Mug"},
		},
	}
	svc := newTestService(t, newStubRepo(item))

	err := svc.SellForOrder(nil, variantID, 2, "R0000000002")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}

	// The failure names the product so the support team can act on it.
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("details = %v, want a map", typed.Details())
	}
	if details["sku"] != "MUG-BLUE" || details["product"] != "Harbor Mug" {
		t.Fatalf("details missing product context: %v", details)
	}
	if details["requested"] != 2 || details["available"] != 1 {
		t.Fatalf("details missing counts: %v", details)
	}
	if details["variant_id"] != variantID {
		t.Fatalf("details missing variant: %v", details)
	}
}
