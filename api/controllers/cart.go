package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/api/middleware"
	"github.com/calebreyes/storefront-backend/api/responses"
	"github.com/calebreyes/storefront-backend/api/validators"
	ordersvc "github.com/calebreyes/storefront-backend/internal/orders"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

// CartFetch returns the caller's active cart, creating one when none
// exists yet.
func CartFetch(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.GetOrCreateCart(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type addItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CartAddItem adds a variant to the cart, merging quantities when the
// variant is already present.
func CartAddItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.AddToCart(r.Context(), actor, payload.VariantID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type updateItemRequest struct {
	// Pointer so an explicit zero survives decoding; zero removes the line.
	Quantity *int `json:"quantity" validate:"required,min=0,max=999"`
}

// CartUpdateItem changes a line item's quantity. A quantity of zero
// removes the line.
func CartUpdateItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		lineItemID, err := uuid.Parse(chi.URLParam(r, "lineItemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line item id"))
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.UpdateLineItem(r.Context(), actor, lineItemID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// CartRemoveItem deletes a line item from the cart.
func CartRemoveItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		lineItemID, err := uuid.Parse(chi.URLParam(r, "lineItemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line item id"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.RemoveLineItem(r.Context(), actor, lineItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// CartApplyCoupon applies a promotion code to the cart.
func CartApplyCoupon(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.ApplyCoupon(r.Context(), actor, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
