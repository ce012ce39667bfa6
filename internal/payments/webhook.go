package payments

import (
	"context"
	"encoding/json"

	stripego "github.com/stripe/stripe-go/v84"

	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

// HandleEvent routes verified Stripe events into settlement. Unhandled
// event types are acknowledged without side effects so Stripe stops
// retrying them.
func (s *service) HandleEvent(ctx context.Context, event stripego.Event) error {
	switch event.Type {
	case "payment_intent.succeeded":
		return s.handleIntentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		return s.handleIntentFailed(ctx, event)
	case "checkout.session.completed":
		return s.handleSessionCompleted(ctx, event)
	default:
		return nil
	}
}

func (s *service) handleIntentSucceeded(ctx context.Context, event stripego.Event) error {
	var intent stripego.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
	}

	row, err := s.payments.FindIntentByGatewayRef(ctx, intent.ID)
	if err != nil {
		return err
	}
	order, err := s.orders.FindByID(ctx, row.OrderID)
	if err != nil {
		return err
	}
	if err := checkAmount(intent.Amount, order.TotalCents); err != nil {
		return err
	}
	if err := checkOrderNumber(intent.Metadata, order.Number); err != nil {
		return err
	}

	settled, first, err := s.settle(ctx, order.ID, intent.ID, int(intent.Amount), intentSource)
	if err != nil {
		return err
	}
	if row.Status != enums.PaymentIntentSucceeded {
		row.Status = enums.PaymentIntentSucceeded
		if err := s.payments.SaveIntent(ctx, row); err != nil {
			return err
		}
	}
	if first {
		s.notifier.OrderConfirmed(settled)
	}
	return nil
}

// handleIntentFailed records the failure on the intent alone. The order is
// left untouched so the shopper can open a fresh attempt.
func (s *service) handleIntentFailed(ctx context.Context, event stripego.Event) error {
	var intent stripego.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
	}

	row, err := s.payments.FindIntentByGatewayRef(ctx, intent.ID)
	if err != nil {
		return err
	}
	// A failure after settlement, or a redelivered failure, changes
	// nothing.
	if row.Status.IsTerminal() {
		return nil
	}
	row.Status = enums.PaymentIntentFailed
	if err := s.payments.SaveIntent(ctx, row); err != nil {
		return err
	}

	order, err := s.orders.FindByID(ctx, row.OrderID)
	if err != nil {
		return err
	}
	s.notifier.PaymentFailed(order)
	return nil
}

func (s *service) handleSessionCompleted(ctx context.Context, event stripego.Event) error {
	var session stripego.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session event")
	}
	if session.ClientReferenceID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout session has no client reference")
	}

	order, err := s.orders.FindByNumber(ctx, session.ClientReferenceID)
	if err != nil {
		return err
	}
	if err := checkAmount(session.AmountTotal, order.TotalCents); err != nil {
		return err
	}

	transactionID := session.ID
	source := "stripe_checkout_session"
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		transactionID = session.PaymentIntent.ID
		source = intentSource
	}

	settled, first, err := s.settle(ctx, order.ID, transactionID, int(session.AmountTotal), source)
	if err != nil {
		return err
	}

	// Hosted checkout may settle before the session row was ever written
	// locally, so a missing row is not an error.
	row, err := s.payments.FindIntentByGatewayRef(ctx, session.ID)
	if err != nil {
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			return err
		}
	} else if row.Status != enums.PaymentIntentSucceeded {
		row.Status = enums.PaymentIntentSucceeded
		if err := s.payments.SaveIntent(ctx, row); err != nil {
			return err
		}
	}

	if first {
		s.notifier.OrderConfirmed(settled)
	}
	return nil
}
