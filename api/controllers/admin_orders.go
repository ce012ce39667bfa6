package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/api/middleware"
	"github.com/calebreyes/storefront-backend/api/responses"
	"github.com/calebreyes/storefront-backend/api/validators"
	ordersvc "github.com/calebreyes/storefront-backend/internal/orders"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

type orderListResponse struct {
	Items      []orderResponse `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// AdminOrderList pages through orders with optional state and identity
// filters.
func AdminOrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		query, page, err := validators.ParseOrderListQuery(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		items, nextCursor, err := svc.AdminList(r.Context(), actor, query, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := orderListResponse{
			Items:      make([]orderResponse, 0, len(items)),
			NextCursor: nextCursor,
		}
		for i := range items {
			out.Items = append(out.Items, newOrderResponse(&items[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type updateOrderStateRequest struct {
	State string `json:"state" validate:"required"`
}

// AdminOrderUpdateState forces an order into a target state, subject to
// the transition rules.
func AdminOrderUpdateState(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload updateOrderStateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseOrderState(payload.State)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target state"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.AdminUpdateState(r.Context(), actor, orderID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type shipOrderRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required"`
}

// AdminOrderShip marks a ready shipment as shipped with its tracking
// number.
func AdminOrderShip(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload shipOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.AdminShip(r.Context(), actor, orderID, payload.TrackingNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
