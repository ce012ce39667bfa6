package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/identity"
)

type stubRepo struct {
	promotion       *models.Promotion
	usage           int
	orderHasPromo   bool
	completedOrders int
	created         []*models.Adjustment
}

func (r *stubRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepo) FindByCode(ctx context.Context, code string) (*models.Promotion, error) {
	if r.promotion == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon code not found")
	}
	return r.promotion, nil
}

func (r *stubRepo) UsageCount(ctx context.Context, promotionID uuid.UUID) (int, error) {
	return r.usage, nil
}

func (r *stubRepo) OrderHasPromotion(ctx context.Context, orderID, promotionID uuid.UUID) (bool, error) {
	return r.orderHasPromo, nil
}

func (r *stubRepo) CompletedOrderCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.completedOrders, nil
}

func (r *stubRepo) CreateAdjustments(ctx context.Context, adjustments []*models.Adjustment) error {
	r.created = append(r.created, adjustments...)
	return nil
}

func (r *stubRepo) Create(ctx context.Context, promotion *models.Promotion) error {
	r.promotion = promotion
	return nil
}

func intPtr(v int) *int { return &v }

func opPtr(op enums.RuleOperator) *enums.RuleOperator { return &op }

func percentPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func flatPromotion(code string, amountCents int, rules ...models.PromotionRule) *models.Promotion {
	return &models.Promotion{
		ID:    uuid.New(),
		Code:  code,
		Name:  code,
		Rules: rules,
		Actions: []models.PromotionAction{
			{Calculator: enums.PromotionCalculatorFlatRate, AmountCents: intPtr(amountCents)},
		},
	}
}

func newTestEngine(t *testing.T, repo Repository) *Engine {
	t.Helper()
	engine, err := NewEngine(repo)
	require.NoError(t, err)
	return engine
}

func TestApplyFlatRateEmitsNegativeAdjustment(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{promotion: flatPromotion("SAVE5", 500,
		models.PromotionRule{Kind: enums.PromotionRuleItemTotal, ThresholdCents: intPtr(2000)},
	)}
	engine := newTestEngine(t, repo)

	order := &models.Order{ID: uuid.New(), ItemTotalCents: 2500}
	adjustments, err := engine.Apply(context.Background(), nil, order, "save5", identity.Guest("tok"))
	require.NoError(t, err)
	require.Len(t, adjustments, 1)

	adj := adjustments[0]
	assert.Equal(t, -500, adj.AmountCents)
	assert.Equal(t, "Promotion (SAVE5)", adj.Label)
	assert.Equal(t, enums.AdjustmentSourcePromotion, adj.SourceType)
	assert.Equal(t, enums.AdjustableTypeOrder, adj.AdjustableType)
	assert.Len(t, repo.created, 1)
}

func TestApplyItemTotalOperators(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		operator  *enums.RuleOperator
		itemTotal int
		eligible  bool
	}{
		{"gte at threshold", opPtr(enums.RuleOperatorGTE), 2000, true},
		{"gte below threshold", opPtr(enums.RuleOperatorGTE), 1999, false},
		{"gt at threshold", opPtr(enums.RuleOperatorGT), 2000, false},
		{"gt above threshold", opPtr(enums.RuleOperatorGT), 2001, true},
		{"default operator is gte", nil, 2000, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := &stubRepo{promotion: flatPromotion("SAVE5", 500, models.PromotionRule{
				Kind:           enums.PromotionRuleItemTotal,
				ThresholdCents: intPtr(2000),
				Operator:       tc.operator,
			})}
			engine := newTestEngine(t, repo)

			order := &models.Order{ID: uuid.New(), ItemTotalCents: tc.itemTotal}
			_, err := engine.Apply(context.Background(), nil, order, "SAVE5", identity.Guest("tok"))
			if tc.eligible {
				assert.NoError(t, err)
			} else {
				typed := pkgerrors.As(err)
				require.NotNil(t, typed)
				assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			}
		})
	}
}

func TestApplyFirstOrderRule(t *testing.T) {
	t.Parallel()

	promo := func() *models.Promotion {
		return flatPromotion("WELCOME", 500, models.PromotionRule{Kind: enums.PromotionRuleFirstOrder})
	}
	order := func() *models.Order {
		return &models.Order{ID: uuid.New(), ItemTotalCents: 3000}
	}

	t.Run("guest never passes", func(t *testing.T) {
		t.Parallel()
		engine := newTestEngine(t, &stubRepo{promotion: promo()})
		_, err := engine.Apply(context.Background(), nil, order(), "WELCOME", identity.Guest("tok"))
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("user with no completed orders passes", func(t *testing.T) {
		t.Parallel()
		engine := newTestEngine(t, &stubRepo{promotion: promo(), completedOrders: 0})
		_, err := engine.Apply(context.Background(), nil, order(), "WELCOME", identity.User(uuid.New()))
		assert.NoError(t, err)
	})

	t.Run("user with a completed order fails", func(t *testing.T) {
		t.Parallel()
		engine := newTestEngine(t, &stubRepo{promotion: promo(), completedOrders: 1})
		_, err := engine.Apply(context.Background(), nil, order(), "WELCOME", identity.User(uuid.New()))
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})
}

func TestApplyUnknownRuleKindIsHardError(t *testing.T) {
	t.Parallel()

	promo := flatPromotion("MYSTERY", 500, models.PromotionRule{Kind: enums.PromotionRuleKind("buy_one_get_one")})
	engine := newTestEngine(t, &stubRepo{promotion: promo})

	_, err := engine.Apply(context.Background(), nil, &models.Order{ID: uuid.New(), ItemTotalCents: 9999}, "MYSTERY", identity.User(uuid.New()))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnsupportedConfig, typed.Code())
}

func TestApplyUnknownCalculatorIsHardError(t *testing.T) {
	t.Parallel()

	promo := &models.Promotion{
		ID:   uuid.New(),
		Code: "ODD",
		Actions: []models.PromotionAction{
			{Calculator: enums.PromotionCalculator("tiered")},
		},
	}
	engine := newTestEngine(t, &stubRepo{promotion: promo})

	_, err := engine.Apply(context.Background(), nil, &models.Order{ID: uuid.New(), ItemTotalCents: 1000}, "ODD", identity.Guest("tok"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnsupportedConfig, typed.Code())
}

func TestApplyMissingThresholdIsHardError(t *testing.T) {
	t.Parallel()

	promo := flatPromotion("BROKEN", 500, models.PromotionRule{Kind: enums.PromotionRuleItemTotal})
	engine := newTestEngine(t, &stubRepo{promotion: promo})

	_, err := engine.Apply(context.Background(), nil, &models.Order{ID: uuid.New(), ItemTotalCents: 1000}, "BROKEN", identity.Guest("tok"))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnsupportedConfig, typed.Code())
}

func TestApplyUsageLimitAndDuplicate(t *testing.T) {
	t.Parallel()

	t.Run("usage limit reached", func(t *testing.T) {
		t.Parallel()
		promo := flatPromotion("LIMITED", 500)
		limit := 10
		promo.UsageLimit = &limit
		engine := newTestEngine(t, &stubRepo{promotion: promo, usage: 10})

		_, err := engine.Apply(context.Background(), nil, &models.Order{ID: uuid.New(), ItemTotalCents: 1000}, "LIMITED", identity.Guest("tok"))
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	})

	t.Run("already applied to this order", func(t *testing.T) {
		t.Parallel()
		engine := newTestEngine(t, &stubRepo{promotion: flatPromotion("SAVE5", 500), orderHasPromo: true})

		_, err := engine.Apply(context.Background(), nil, &models.Order{ID: uuid.New(), ItemTotalCents: 1000}, "SAVE5", identity.Guest("tok"))
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	})
}

func TestApplyActiveWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	t.Run("not started", func(t *testing.T) {
		t.Parallel()
		promo := flatPromotion("SOON", 500)
		promo.StartsAt = &future
		engine := newTestEngine(t, &stubRepo{promotion: promo})
		engine.now = func() time.Time { return now }

		_, err := engine.Apply(context.Background(), nil, &models.Order{ID: uuid.New(), ItemTotalCents: 1000}, "SOON", identity.Guest("tok"))
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		promo := flatPromotion("GONE", 500)
		promo.ExpiresAt = &past
		engine := newTestEngine(t, &stubRepo{promotion: promo})
		engine.now = func() time.Time { return now }

		_, err := engine.Apply(context.Background(), nil, &models.Order{ID: uuid.New(), ItemTotalCents: 1000}, "GONE", identity.Guest("tok"))
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	})
}

func TestDiscountAmountPercentTruncatesTowardZero(t *testing.T) {
	t.Parallel()

	cases := []struct {
		percent   string
		itemTotal int
		want      int
	}{
		{"10", 2000, 200},
		{"10", 1005, 100}, // 100.5 truncates down
		{"15", 1990, 298}, // 298.5 truncates down
		{"15", 999, 149},  // 149.85 truncates down
		{"100", 1234, 1234},
	}

	for _, tc := range cases {
		action := models.PromotionAction{
			Calculator: enums.PromotionCalculatorPercentOff,
			Percent:    percentPtr(tc.percent),
		}
		got, err := discountAmount(action, tc.itemTotal)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s%% of %d", tc.percent, tc.itemTotal)
	}
}

func TestDiscountAmountFlatRateClampsToItemTotal(t *testing.T) {
	t.Parallel()

	action := models.PromotionAction{
		Calculator:  enums.PromotionCalculatorFlatRate,
		AmountCents: intPtr(5000),
	}
	got, err := discountAmount(action, 1200)
	require.NoError(t, err)
	assert.Equal(t, 1200, got)
}

func TestCreatePromotionValidation(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	admin := identity.Admin(uuid.New())
	valid := CreatePromotionParams{
		Code: " save5 ",
		Name: "Five off",
		Rules: []RuleParams{
			{Kind: "item_total", ThresholdCents: intPtr(2000)},
		},
		Actions: []ActionParams{
			{Calculator: "flat_rate", AmountCents: intPtr(500)},
		},
	}

	created, err := svc.CreatePromotion(context.Background(), admin, valid)
	require.NoError(t, err)
	assert.Equal(t, "SAVE5", created.Code)
	require.Len(t, created.Rules, 1)
	require.Len(t, created.Actions, 1)

	_, err = svc.CreatePromotion(context.Background(), identity.User(uuid.New()), valid)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	bad := valid
	bad.Rules = []RuleParams{{Kind: "buy_one_get_one"}}
	_, err = svc.CreatePromotion(context.Background(), admin, bad)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnsupportedConfig, typed.Code())

	bad = valid
	bad.Actions = nil
	_, err = svc.CreatePromotion(context.Background(), admin, bad)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
