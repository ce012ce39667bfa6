package promotions

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/identity"
)

// RuleParams describes one rule in a create request.
type RuleParams struct {
	Kind           string
	ThresholdCents *int
	Operator       *string
}

// ActionParams describes one action in a create request.
type ActionParams struct {
	Calculator  string
	AmountCents *int
	Percent     *decimal.Decimal
}

// CreatePromotionParams is the operator-facing create payload.
type CreatePromotionParams struct {
	Code        string
	Name        string
	Description *string
	UsageLimit  *int
	StartsAt    *time.Time
	ExpiresAt   *time.Time
	Rules       []RuleParams
	Actions     []ActionParams
}

// Service covers operator management of promotions. Storefront coupon
// application goes through Engine.
type Service interface {
	CreatePromotion(ctx context.Context, actor identity.Actor, params CreatePromotionParams) (*models.Promotion, error)
}

type service struct {
	repo Repository
}

// NewService validates dependencies and builds the service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "promotions repo required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreatePromotion(ctx context.Context, actor identity.Actor, params CreatePromotionParams) (*models.Promotion, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "promotion management is operator-only")
	}

	code := strings.ToUpper(strings.TrimSpace(params.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(params.Actions) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one action is required")
	}
	if params.UsageLimit != nil && *params.UsageLimit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be positive")
	}
	if params.StartsAt != nil && params.ExpiresAt != nil && params.ExpiresAt.Before(*params.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expires_at must be after starts_at")
	}

	promotion := &models.Promotion{
		Code:        code,
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		UsageLimit:  params.UsageLimit,
		StartsAt:    params.StartsAt,
		ExpiresAt:   params.ExpiresAt,
	}

	for _, rule := range params.Rules {
		kind, err := enums.ParsePromotionRuleKind(rule.Kind)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnsupportedConfig, err, "unknown rule kind")
		}
		var operator *enums.RuleOperator
		if rule.Operator != nil {
			op := enums.RuleOperator(*rule.Operator)
			if !op.IsValid() {
				return nil, pkgerrors.New(pkgerrors.CodeUnsupportedConfig, "unknown rule operator")
			}
			operator = &op
		}
		if kind == enums.PromotionRuleItemTotal && rule.ThresholdCents == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item_total rule requires a threshold")
		}
		promotion.Rules = append(promotion.Rules, models.PromotionRule{
			Kind:           kind,
			ThresholdCents: rule.ThresholdCents,
			Operator:       operator,
		})
	}

	for _, action := range params.Actions {
		calculator, err := enums.ParsePromotionCalculator(action.Calculator)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnsupportedConfig, err, "unknown calculator")
		}
		switch calculator {
		case enums.PromotionCalculatorFlatRate:
			if action.AmountCents == nil || *action.AmountCents <= 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "flat_rate action requires a positive amount")
			}
		case enums.PromotionCalculatorPercentOff:
			if action.Percent == nil || action.Percent.IsNegative() ||
				action.Percent.GreaterThan(decimal.NewFromInt(100)) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "percent_off action requires a percent between 0 and 100")
			}
		}
		promotion.Actions = append(promotion.Actions, models.PromotionAction{
			Calculator:  calculator,
			AmountCents: action.AmountCents,
			Percent:     action.Percent,
		})
	}

	if err := s.repo.Create(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}
