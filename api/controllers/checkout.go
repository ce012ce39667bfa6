package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/api/middleware"
	"github.com/calebreyes/storefront-backend/api/responses"
	"github.com/calebreyes/storefront-backend/api/validators"
	ordersvc "github.com/calebreyes/storefront-backend/internal/orders"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

type addressPayload struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Line1      string  `json:"line1" validate:"required,max=255"`
	Line2      *string `json:"line2,omitempty" validate:"omitempty,max=255"`
	City       string  `json:"city" validate:"required,max=100"`
	Region     string  `json:"region" validate:"required,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,max=20"`
	CountryISO string  `json:"country_iso" validate:"required,len=2"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

func (p addressPayload) toParams() ordersvc.AddressParams {
	return ordersvc.AddressParams{
		Name:       p.Name,
		Line1:      p.Line1,
		Line2:      p.Line2,
		City:       p.City,
		Region:     p.Region,
		PostalCode: p.PostalCode,
		CountryISO: p.CountryISO,
		Phone:      p.Phone,
	}
}

type setAddressRequest struct {
	Email       string          `json:"email" validate:"required,email"`
	ShipAddress addressPayload  `json:"ship_address" validate:"required"`
	BillAddress *addressPayload `json:"bill_address,omitempty"`
}

// CheckoutSetAddress stores the checkout addresses and advances the
// order to delivery.
func CheckoutSetAddress(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload setAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := ordersvc.SetAddressParams{
			Email: payload.Email,
			Ship:  payload.ShipAddress.toParams(),
		}
		if payload.BillAddress != nil {
			bill := payload.BillAddress.toParams()
			params.Bill = &bill
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.SetAddress(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type setShippingMethodRequest struct {
	ShippingMethodID uuid.UUID `json:"shipping_method_id" validate:"required"`
}

// CheckoutSetShippingMethod prices the shipment with the chosen method
// and advances the order to payment.
func CheckoutSetShippingMethod(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload setShippingMethodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.SetShippingMethod(r.Context(), actor, payload.ShippingMethodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
