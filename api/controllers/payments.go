package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/api/middleware"
	"github.com/calebreyes/storefront-backend/api/responses"
	"github.com/calebreyes/storefront-backend/api/validators"
	paymentsvc "github.com/calebreyes/storefront-backend/internal/payments"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

type paymentIntentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

type paymentIntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	AmountCents  int64  `json:"amount_cents"`
	Status       string `json:"status"`
}

// PaymentIntentCreate opens (or reuses) the Stripe payment intent for
// the order.
func PaymentIntentCreate(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload paymentIntentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		intent, err := svc.CreatePaymentIntent(r.Context(), actor, payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, paymentIntentResponse{
			IntentID:     intent.ID,
			ClientSecret: intent.ClientSecret,
			AmountCents:  intent.Amount,
			Status:       string(intent.Status),
		})
	}
}

type checkoutSessionRequest struct {
	OrderID    uuid.UUID `json:"order_id" validate:"required"`
	SuccessURL string    `json:"success_url,omitempty" validate:"omitempty,url"`
	CancelURL  string    `json:"cancel_url,omitempty" validate:"omitempty,url"`
}

type checkoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url,omitempty"`
}

// CheckoutSessionCreate opens a Stripe-hosted checkout session for the
// order.
func CheckoutSessionCreate(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload checkoutSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		session, err := svc.CreateCheckoutSession(r.Context(), actor, payload.OrderID, payload.SuccessURL, payload.CancelURL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutSessionResponse{
			SessionID: session.ID,
			URL:       session.URL,
		})
	}
}

type completePaymentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

// PaymentComplete settles the order against its succeeded payment
// intent. Safe to retry.
func PaymentComplete(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload completePaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		order, err := svc.CompletePayment(r.Context(), actor, payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
