package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calebreyes/storefront-backend/api/middleware"
	"github.com/calebreyes/storefront-backend/api/responses"
	"github.com/calebreyes/storefront-backend/api/validators"
	promotionsvc "github.com/calebreyes/storefront-backend/internal/promotions"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

type promotionRulePayload struct {
	Kind           string  `json:"kind" validate:"required"`
	ThresholdCents *int    `json:"threshold_cents,omitempty"`
	Operator       *string `json:"operator,omitempty"`
}

type promotionActionPayload struct {
	Calculator  string           `json:"calculator" validate:"required"`
	AmountCents *int             `json:"amount_cents,omitempty"`
	Percent     *decimal.Decimal `json:"percent,omitempty"`
}

type createPromotionRequest struct {
	Code        string                   `json:"code" validate:"required,max=50"`
	Name        string                   `json:"name" validate:"required,max=100"`
	Description *string                  `json:"description,omitempty"`
	UsageLimit  *int                     `json:"usage_limit,omitempty" validate:"omitempty,min=1"`
	StartsAt    *time.Time               `json:"starts_at,omitempty"`
	ExpiresAt   *time.Time               `json:"expires_at,omitempty"`
	Rules       []promotionRulePayload   `json:"rules" validate:"dive"`
	Actions     []promotionActionPayload `json:"actions" validate:"required,min=1,dive"`
}

type promotionResponse struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	UsageLimit *int       `json:"usage_limit,omitempty"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AdminPromotionCreate registers a promotion with its rules and
// actions. Unknown rule kinds and calculators are rejected outright.
func AdminPromotionCreate(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		var payload createPromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := promotionsvc.CreatePromotionParams{
			Code:        payload.Code,
			Name:        payload.Name,
			Description: payload.Description,
			UsageLimit:  payload.UsageLimit,
			StartsAt:    payload.StartsAt,
			ExpiresAt:   payload.ExpiresAt,
			Rules:       make([]promotionsvc.RuleParams, 0, len(payload.Rules)),
			Actions:     make([]promotionsvc.ActionParams, 0, len(payload.Actions)),
		}
		for _, rule := range payload.Rules {
			params.Rules = append(params.Rules, promotionsvc.RuleParams{
				Kind:           rule.Kind,
				ThresholdCents: rule.ThresholdCents,
				Operator:       rule.Operator,
			})
		}
		for _, action := range payload.Actions {
			params.Actions = append(params.Actions, promotionsvc.ActionParams{
				Calculator:  action.Calculator,
				AmountCents: action.AmountCents,
				Percent:     action.Percent,
			})
		}

		actor := middleware.ActorFromContext(r.Context())
		promotion, err := svc.CreatePromotion(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, promotionResponse{
			ID:         promotion.ID,
			Code:       promotion.Code,
			Name:       promotion.Name,
			UsageLimit: promotion.UsageLimit,
			StartsAt:   promotion.StartsAt,
			ExpiresAt:  promotion.ExpiresAt,
			CreatedAt:  promotion.CreatedAt,
		})
	}
}
