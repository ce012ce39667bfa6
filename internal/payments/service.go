package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	stripego "github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/internal/orders"
	"github.com/calebreyes/storefront-backend/pkg/config"
	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/identity"
	stripeclient "github.com/calebreyes/storefront-backend/pkg/stripe"
)

// amountTolerance is the maximum allowed drift, in minor units, between
// the processor's charged amount and the order total.
const amountTolerance = 1

const intentSource = "stripe_payment_intent"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stripeGateway interface {
	CreatePaymentIntent(ctx context.Context, params stripeclient.IntentParams) (*stripego.PaymentIntent, error)
	RetrievePaymentIntent(ctx context.Context, id string) (*stripego.PaymentIntent, error)
	CreateCheckoutSession(ctx context.Context, params stripeclient.SessionParams) (*stripego.CheckoutSession, error)
}

type stockSeller interface {
	SellForOrder(tx *gorm.DB, variantID uuid.UUID, quantity int, reference string) error
}

type notifier interface {
	OrderConfirmed(order *models.Order)
	PaymentFailed(order *models.Order)
}

// Service owns payment initiation and idempotent settlement.
type Service interface {
	CreatePaymentIntent(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*stripego.PaymentIntent, error)
	CreateCheckoutSession(ctx context.Context, actor identity.Actor, orderID uuid.UUID, successURL, cancelURL string) (*stripego.CheckoutSession, error)
	CompletePayment(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*models.Order, error)
	HandleEvent(ctx context.Context, event stripego.Event) error
}

// ServiceParams wires the service dependencies.
type ServiceParams struct {
	Orders            orders.Repository
	Payments          Repository
	TransactionRunner txRunner
	Gateway           stripeGateway
	Seller            stockSeller
	Notifier          notifier
	Checkout          config.CheckoutConfig
}

type service struct {
	orders   orders.Repository
	payments Repository
	txRunner txRunner
	gateway  stripeGateway
	seller   stockSeller
	notifier notifier
	checkout config.CheckoutConfig
}

// NewService validates dependencies and builds the payment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payments repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe gateway required")
	}
	if params.Seller == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stock seller required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	return &service{
		orders:   params.Orders,
		payments: params.Payments,
		txRunner: params.TransactionRunner,
		gateway:  params.Gateway,
		seller:   params.Seller,
		notifier: params.Notifier,
		checkout: params.Checkout,
	}, nil
}

func (s *service) CreatePaymentIntent(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*stripego.PaymentIntent, error) {
	order, err := s.payableOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	row, err := s.payments.FindOpenIntentForOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	// An open intent is reused while the amount still matches, so a
	// retried checkout never opens a second charge.
	if row != nil && row.Status == enums.PaymentIntentRequiresPaymentMethod && row.AmountCents == order.TotalCents {
		intent, err := s.gateway.RetrievePaymentIntent(ctx, row.GatewayRef)
		if err == nil && intent != nil &&
			intent.Status != stripego.PaymentIntentStatusCanceled &&
			intent.Amount == int64(order.TotalCents) {
			return intent, nil
		}
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, stripeclient.IntentParams{
		AmountCents:    int64(order.TotalCents),
		Currency:       order.Currency,
		IdempotencyKey: fmt.Sprintf("order_%s_amount_%d", order.ID, order.TotalCents),
		Metadata: map[string]string{
			"order_number": order.Number,
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}

	// The stale open row, if any, is repointed in place so the order keeps
	// a single non-terminal intent.
	if row == nil {
		row = &models.PaymentIntent{OrderID: order.ID}
	}
	row.GatewayRef = intent.ID
	row.AmountCents = order.TotalCents
	row.Status = enums.PaymentIntentRequiresPaymentMethod
	row.ClientSecret = nil
	if intent.ClientSecret != "" {
		secret := intent.ClientSecret
		row.ClientSecret = &secret
	}
	if err := s.payments.SaveIntent(ctx, row); err != nil {
		return nil, err
	}
	return intent, nil
}

func (s *service) CreateCheckoutSession(ctx context.Context, actor identity.Actor, orderID uuid.UUID, successURL, cancelURL string) (*stripego.CheckoutSession, error) {
	order, err := s.payableOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if successURL == "" {
		successURL = s.checkout.SuccessURL
	}
	if cancelURL == "" {
		cancelURL = s.checkout.CancelURL
	}
	if successURL == "" || cancelURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "success and cancel urls are required")
	}

	items := make([]stripeclient.SessionLineItem, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		items = append(items, stripeclient.SessionLineItem{
			Name:            lineItemName(line),
			UnitAmountCents: int64(line.PriceCents),
			Quantity:        int64(line.Quantity),
		})
	}

	params := stripeclient.SessionParams{
		ClientReferenceID: order.Number,
		Currency:          order.Currency,
		SuccessURL:        successURL,
		CancelURL:         cancelURL,
		IdempotencyKey:    fmt.Sprintf("checkout_%s", order.Number),
		LineItems:         items,
		Metadata: map[string]string{
			"order_number": order.Number,
		},
	}
	if order.Email != nil {
		params.CustomerEmail = *order.Email
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	row, err := s.payments.FindOpenIntentForOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &models.PaymentIntent{OrderID: order.ID}
	}
	row.GatewayRef = session.ID
	row.AmountCents = order.TotalCents
	row.Status = enums.PaymentIntentCheckoutSession
	row.ClientSecret = nil
	if session.URL != "" {
		url := session.URL
		row.ClientSecret = &url
	}
	if err := s.payments.SaveIntent(ctx, row); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) CompletePayment(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(order) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	// The open intent was resolved on the first call, so a retry returns
	// the settled order as-is.
	if order.PaymentState == enums.PaymentStatePaid {
		return order, nil
	}
	rank := order.State.Rank()
	if rank < enums.OrderStateDelivery.Rank() || rank > enums.OrderStateConfirm.Rank() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not ready for payment")
	}

	row, err := s.payments.FindOpenIntentForOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no payment intent")
	}

	intent, err := s.gateway.RetrievePaymentIntent(ctx, row.GatewayRef)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retrieve payment intent")
	}
	if intent.Status != stripego.PaymentIntentStatusSucceeded {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("payment intent is %s, not succeeded", intent.Status))
	}
	if err := checkAmount(intent.Amount, order.TotalCents); err != nil {
		return nil, err
	}
	if err := checkOrderNumber(intent.Metadata, order.Number); err != nil {
		return nil, err
	}

	settled, firstSettle, err := s.settle(ctx, order.ID, intent.ID, int(intent.Amount), intentSource)
	if err != nil {
		return nil, err
	}
	row.Status = enums.PaymentIntentSucceeded
	if err := s.payments.SaveIntent(ctx, row); err != nil {
		return nil, err
	}
	if firstSettle {
		s.notifier.OrderConfirmed(settled)
	}
	return settled, nil
}

// settle finalizes the order exactly once per processor transaction. A
// paid order is returned untouched, so retries and duplicate webhooks are
// no-ops. Returns whether this call performed the settlement.
func (s *service) settle(ctx context.Context, orderID uuid.UUID, transactionID string, amountCents int, source string) (*models.Order, bool, error) {
	var (
		out   *models.Order
		first bool
	)
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		paymentsRepo := s.payments.WithTx(tx)

		order, err := ordersRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.PaymentState == enums.PaymentStatePaid {
			out = order
			return nil
		}

		payment := &models.Payment{
			OrderID:       order.ID,
			AmountCents:   amountCents,
			Status:        enums.PaymentStatusCompleted,
			Source:        source,
			TransactionID: transactionID,
		}
		if _, err := paymentsRepo.InsertIgnoreDuplicate(ctx, payment); err != nil {
			return err
		}

		if err := orders.CanTransition(order.State, enums.OrderStateComplete); err != nil {
			return err
		}

		now := nowUTC()
		ready := enums.ShipmentStateReady
		order.State = enums.OrderStateComplete
		order.PaymentState = enums.PaymentStatePaid
		order.CompletedAt = &now
		order.ShipmentState = &ready

		for i := range order.Shipments {
			if order.Shipments[i].State != enums.ShipmentStatePending {
				continue
			}
			order.Shipments[i].State = enums.ShipmentStateReady
			if err := ordersRepo.SaveShipment(ctx, &order.Shipments[i]); err != nil {
				return err
			}
		}

		var shipmentID *uuid.UUID
		if len(order.Shipments) > 0 {
			id := order.Shipments[0].ID
			shipmentID = &id
		}

		// One unit row per purchased quantity, so fulfillment and returns
		// can track individual pieces.
		var units []models.InventoryUnit
		for _, line := range order.LineItems {
			if err := s.seller.SellForOrder(tx, line.VariantID, line.Quantity, order.Number); err != nil {
				return err
			}
			for n := 0; n < line.Quantity; n++ {
				units = append(units, models.InventoryUnit{
					OrderID:    order.ID,
					VariantID:  line.VariantID,
					ShipmentID: shipmentID,
					State:      models.InventoryUnitOnHand,
				})
			}
		}
		if err := paymentsRepo.InsertInventoryUnits(ctx, units); err != nil {
			return err
		}

		if err := ordersRepo.Save(ctx, order); err != nil {
			return err
		}

		out = order
		first = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, first, nil
}

func (s *service) payableOrder(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(order) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	// Checkout settles from delivery; payment and confirm are reachable
	// only through operator moves and remain payable.
	rank := order.State.Rank()
	if rank < enums.OrderStateDelivery.Rank() || rank > enums.OrderStateConfirm.Rank() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not ready for payment")
	}
	if order.TotalCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive")
	}
	return order, nil
}

func checkAmount(charged int64, totalCents int) error {
	diff := charged - int64(totalCents)
	if diff < -amountTolerance || diff > amountTolerance {
		return pkgerrors.New(pkgerrors.CodeIntegrity, "charged amount does not match the order total").
			WithDetails(map[string]any{
				"charged": charged,
				"total":   totalCents,
			})
	}
	return nil
}

// checkOrderNumber verifies the intent was opened for this order. The
// number is stamped into gateway metadata at creation time.
func checkOrderNumber(metadata map[string]string, orderNumber string) error {
	got := metadata["order_number"]
	if got != orderNumber {
		return pkgerrors.New(pkgerrors.CodeIntegrity, "payment intent belongs to a different order").
			WithDetails(map[string]any{
				"intent_order_number": got,
				"order_number":        orderNumber,
			})
	}
	return nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func lineItemName(line models.LineItem) string {
	if line.Variant != nil {
		if line.Variant.Product != nil && line.Variant.Product.Name != "" {
			return line.Variant.Product.Name
		}
		if line.Variant.SKU != "" {
			return line.Variant.SKU
		}
	}
	return "Item"
}
