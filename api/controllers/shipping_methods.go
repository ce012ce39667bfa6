package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/api/responses"
	shippingsvc "github.com/calebreyes/storefront-backend/internal/shipping"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

type shippingMethodResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Carrier       *string   `json:"carrier,omitempty"`
	BaseCostCents int       `json:"base_cost_cents"`
}

// ShippingMethodList returns the active shipping methods, cheapest
// first.
func ShippingMethodList(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		methods, err := svc.ListMethods(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]shippingMethodResponse, 0, len(methods))
		for _, method := range methods {
			out = append(out, shippingMethodResponse{
				ID:            method.ID,
				Name:          method.Name,
				Carrier:       method.Carrier,
				BaseCostCents: method.BaseCostCents,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
