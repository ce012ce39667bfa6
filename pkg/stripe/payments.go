package stripe

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"
)

// IntentParams carries everything needed to open a payment intent.
type IntentParams struct {
	AmountCents    int64
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

// SessionLineItem mirrors one cart line for hosted checkout.
type SessionLineItem struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
}

// SessionParams carries everything needed to open a hosted checkout session.
type SessionParams struct {
	ClientReferenceID string
	CustomerEmail     string
	Currency          string
	SuccessURL        string
	CancelURL         string
	IdempotencyKey    string
	Metadata          map[string]string
	LineItems         []SessionLineItem
}

// CreatePaymentIntent opens an intent with automatic payment methods.
func (c *Client) CreatePaymentIntent(ctx context.Context, params IntentParams) (*stripe.PaymentIntent, error) {
	if c == nil || c.api == nil {
		return nil, fmt.Errorf("stripe client is not initialized")
	}

	create := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(params.AmountCents),
		Currency: stripe.String(params.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range params.Metadata {
		create.AddMetadata(k, v)
	}
	if params.IdempotencyKey != "" {
		create.IdempotencyKey = stripe.String(params.IdempotencyKey)
	}

	return c.api.V1PaymentIntents.Create(ctx, create)
}

// RetrievePaymentIntent fetches the current intent state from Stripe.
func (c *Client) RetrievePaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	if c == nil || c.api == nil {
		return nil, fmt.Errorf("stripe client is not initialized")
	}
	return c.api.V1PaymentIntents.Retrieve(ctx, id, nil)
}

// CreateCheckoutSession opens a hosted checkout session in payment mode.
func (c *Client) CreateCheckoutSession(ctx context.Context, params SessionParams) (*stripe.CheckoutSession, error) {
	if c == nil || c.api == nil {
		return nil, fmt.Errorf("stripe client is not initialized")
	}

	items := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(params.LineItems))
	for _, li := range params.LineItems {
		items = append(items, &stripe.CheckoutSessionCreateLineItemParams{
			Quantity: stripe.Int64(li.Quantity),
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:   stripe.String(params.Currency),
				UnitAmount: stripe.Int64(li.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
			},
		})
	}

	create := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(params.SuccessURL),
		CancelURL:         stripe.String(params.CancelURL),
		ClientReferenceID: stripe.String(params.ClientReferenceID),
		LineItems:         items,
	}
	if params.CustomerEmail != "" {
		create.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	for k, v := range params.Metadata {
		create.AddMetadata(k, v)
	}
	if params.IdempotencyKey != "" {
		create.IdempotencyKey = stripe.String(params.IdempotencyKey)
	}

	return c.api.V1CheckoutSessions.Create(ctx, create)
}
