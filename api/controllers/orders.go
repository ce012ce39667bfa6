package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calebreyes/storefront-backend/api/middleware"
	"github.com/calebreyes/storefront-backend/api/responses"
	ordersvc "github.com/calebreyes/storefront-backend/internal/orders"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

// OrderDetail returns an order by number, scoped to its owner. Strangers
// get a not-found rather than a forbidden, so order numbers stay
// unprobeable.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		number := chi.URLParam(r, "number")
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.GetOrder(r.Context(), actor, number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
