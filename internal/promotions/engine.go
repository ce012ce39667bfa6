package promotions

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/identity"
)

// Engine evaluates coupon eligibility and emits the discount adjustments.
// All rules must pass; an unrecognized rule or calculator kind is a hard
// configuration error, never a silent pass.
type Engine struct {
	repo Repository
	now  func() time.Time
}

// NewEngine validates dependencies and builds the engine.
func NewEngine(repo Repository) (*Engine, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "promotions repo required")
	}
	return &Engine{repo: repo, now: time.Now}, nil
}

// Apply resolves the code, checks every gate, and persists the resulting
// adjustments inside the caller's transaction. The caller recalculates the
// order afterwards.
func (e *Engine) Apply(ctx context.Context, tx *gorm.DB, order *models.Order, code string, actor identity.Actor) ([]*models.Adjustment, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order is required")
	}

	repo := e.repo.WithTx(tx)

	promotion, err := repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := e.checkWindow(promotion); err != nil {
		return nil, err
	}

	applied, err := repo.OrderHasPromotion(ctx, order.ID, promotion.ID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon already applied to this order")
	}

	if promotion.UsageLimit != nil {
		usage, err := repo.UsageCount(ctx, promotion.ID)
		if err != nil {
			return nil, err
		}
		if usage >= *promotion.UsageLimit {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon usage limit reached")
		}
	}

	for _, rule := range promotion.Rules {
		ok, err := e.evaluateRule(ctx, repo, rule, order, actor)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is not eligible for this coupon").
				WithDetails(map[string]any{"rule": string(rule.Kind)})
		}
	}

	adjustments, err := buildAdjustments(promotion, order)
	if err != nil {
		return nil, err
	}
	if len(adjustments) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnsupportedConfig, "promotion has no actions")
	}

	if err := repo.CreateAdjustments(ctx, adjustments); err != nil {
		return nil, err
	}
	return adjustments, nil
}

func (e *Engine) checkWindow(promotion *models.Promotion) error {
	now := e.now()
	if promotion.StartsAt != nil && now.Before(*promotion.StartsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon is not active yet")
	}
	if promotion.ExpiresAt != nil && now.After(*promotion.ExpiresAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon has expired")
	}
	return nil
}

func (e *Engine) evaluateRule(ctx context.Context, repo Repository, rule models.PromotionRule, order *models.Order, actor identity.Actor) (bool, error) {
	switch rule.Kind {
	case enums.PromotionRuleItemTotal:
		if rule.ThresholdCents == nil {
			return false, pkgerrors.New(pkgerrors.CodeUnsupportedConfig, "item_total rule is missing its threshold")
		}
		op := enums.RuleOperatorGTE
		if rule.Operator != nil {
			op = *rule.Operator
		}
		switch op {
		case enums.RuleOperatorGTE:
			return order.ItemTotalCents >= *rule.ThresholdCents, nil
		case enums.RuleOperatorGT:
			return order.ItemTotalCents > *rule.ThresholdCents, nil
		default:
			return false, pkgerrors.New(pkgerrors.CodeUnsupportedConfig,
				fmt.Sprintf("unknown item_total operator %q", op))
		}

	case enums.PromotionRuleFirstOrder:
		// Guests never pass: an anonymous cart cannot be tied to a
		// purchase history, so the discount would be unverifiable.
		if !actor.IsRegistered() {
			return false, nil
		}
		prior, err := repo.CompletedOrderCount(ctx, *actor.UserID)
		if err != nil {
			return false, err
		}
		return prior == 0, nil

	default:
		return false, pkgerrors.New(pkgerrors.CodeUnsupportedConfig,
			fmt.Sprintf("unknown promotion rule kind %q", rule.Kind))
	}
}

func buildAdjustments(promotion *models.Promotion, order *models.Order) ([]*models.Adjustment, error) {
	label := fmt.Sprintf("Promotion (%s)", promotion.Code)

	var adjustments []*models.Adjustment
	for _, action := range promotion.Actions {
		amount, err := discountAmount(action, order.ItemTotalCents)
		if err != nil {
			return nil, err
		}
		if amount == 0 {
			continue
		}
		adjustments = append(adjustments, &models.Adjustment{
			OrderID:        order.ID,
			AdjustableType: enums.AdjustableTypeOrder,
			AdjustableID:   order.ID,
			SourceType:     enums.AdjustmentSourcePromotion,
			SourceID:       promotion.ID,
			AmountCents:    -amount,
			Label:          label,
			Eligible:       true,
		})
	}
	return adjustments, nil
}

// discountAmount returns the positive discount in minor units, clamped so
// a flat rate can never push the item total negative.
func discountAmount(action models.PromotionAction, itemTotalCents int) (int, error) {
	switch action.Calculator {
	case enums.PromotionCalculatorFlatRate:
		if action.AmountCents == nil {
			return 0, pkgerrors.New(pkgerrors.CodeUnsupportedConfig, "flat_rate action is missing its amount")
		}
		amount := *action.AmountCents
		if amount > itemTotalCents {
			amount = itemTotalCents
		}
		if amount < 0 {
			return 0, pkgerrors.New(pkgerrors.CodeUnsupportedConfig, "flat_rate amount must be non-negative")
		}
		return amount, nil

	case enums.PromotionCalculatorPercentOff:
		if action.Percent == nil {
			return 0, pkgerrors.New(pkgerrors.CodeUnsupportedConfig, "percent_off action is missing its percent")
		}
		percent := *action.Percent
		if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
			return 0, pkgerrors.New(pkgerrors.CodeUnsupportedConfig, "percent_off must be between 0 and 100")
		}
		// item_total * percent / 100, truncated toward zero. The fraction
		// is never rounded up so a discount cannot exceed the exact rate.
		amount := decimal.NewFromInt(int64(itemTotalCents)).
			Mul(percent).
			Div(decimal.NewFromInt(100))
		return int(amount.IntPart()), nil

	default:
		return 0, pkgerrors.New(pkgerrors.CodeUnsupportedConfig,
			fmt.Sprintf("unknown promotion calculator %q", action.Calculator))
	}
}
