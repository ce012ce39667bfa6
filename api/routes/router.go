package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calebreyes/storefront-backend/api/controllers"
	webhookcontrollers "github.com/calebreyes/storefront-backend/api/controllers/webhooks"
	"github.com/calebreyes/storefront-backend/api/middleware"
	inventorysvc "github.com/calebreyes/storefront-backend/internal/inventory"
	ordersvc "github.com/calebreyes/storefront-backend/internal/orders"
	paymentsvc "github.com/calebreyes/storefront-backend/internal/payments"
	promotionsvc "github.com/calebreyes/storefront-backend/internal/promotions"
	shippingsvc "github.com/calebreyes/storefront-backend/internal/shipping"
	stripewebhook "github.com/calebreyes/storefront-backend/internal/webhooks/stripe"
	"github.com/calebreyes/storefront-backend/pkg/config"
	"github.com/calebreyes/storefront-backend/pkg/logger"
	"github.com/calebreyes/storefront-backend/pkg/metrics"
	stripeclient "github.com/calebreyes/storefront-backend/pkg/stripe"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	DB    controllers.Pinger
	Redis controllers.Pinger

	Orders     ordersvc.Service
	Shipping   shippingsvc.Service
	Inventory  inventorysvc.Service
	Promotions promotionsvc.Service
	Payments   paymentsvc.Service

	StripeClient *stripeclient.Client
	WebhookGuard *stripewebhook.IdempotencyGuard

	Metrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware(routePattern))
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Get("/api/public/ping", controllers.PublicPing())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.Payments, deps.StripeClient, deps.WebhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Orders, logg))
			r.Post("/items", controllers.CartAddItem(deps.Orders, logg))
			r.Patch("/items/{lineItemId}", controllers.CartUpdateItem(deps.Orders, logg))
			r.Delete("/items/{lineItemId}", controllers.CartRemoveItem(deps.Orders, logg))
			r.Post("/coupon", controllers.CartApplyCoupon(deps.Orders, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Put("/address", controllers.CheckoutSetAddress(deps.Orders, logg))
			r.Put("/shipping-method", controllers.CheckoutSetShippingMethod(deps.Orders, logg))
			r.Post("/payment-intent", controllers.PaymentIntentCreate(deps.Payments, logg))
			r.Post("/session", controllers.CheckoutSessionCreate(deps.Payments, logg))
			r.Post("/complete", controllers.PaymentComplete(deps.Payments, logg))
		})

		r.Get("/orders/{number}", controllers.OrderDetail(deps.Orders, logg))
		r.Get("/shipping-methods", controllers.ShippingMethodList(deps.Shipping, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.Orders, logg))
			r.Post("/{orderId}/state", controllers.AdminOrderUpdateState(deps.Orders, logg))
			r.Post("/{orderId}/ship", controllers.AdminOrderShip(deps.Orders, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/", controllers.AdminStockList(deps.Inventory, logg))
			r.Post("/movements", controllers.AdminMoveStock(deps.Inventory, logg))
		})

		r.Post("/promotions", controllers.AdminPromotionCreate(deps.Promotions, logg))
	})

	return r
}

// routePattern resolves the chi route template so metric labels stay
// bounded instead of exploding per uuid.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
