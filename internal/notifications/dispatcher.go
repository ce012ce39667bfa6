package notifications

import (
	"context"
	"time"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

const deliveryTimeout = 15 * time.Second

// Dispatcher sends notifications on background goroutines so callers are
// never blocked by a slow or broken sink.
type Dispatcher struct {
	sink Sink
	log  *logger.Logger
}

// NewDispatcher builds the async dispatcher around a sink.
func NewDispatcher(sink Sink, log *logger.Logger) *Dispatcher {
	return &Dispatcher{sink: sink, log: log}
}

// OrderConfirmed fires the confirmation without waiting on delivery.
func (d *Dispatcher) OrderConfirmed(order *models.Order) {
	d.dispatch("order confirmation", order, d.sink.OrderConfirmed)
}

// PaymentFailed fires the failure notice without waiting on delivery.
func (d *Dispatcher) PaymentFailed(order *models.Order) {
	d.dispatch("payment failure", order, d.sink.PaymentFailed)
}

func (d *Dispatcher) dispatch(what string, order *models.Order, deliver func(context.Context, *models.Order) error) {
	if d == nil || d.sink == nil || order == nil {
		return
	}
	snapshot := *order

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()

		if err := deliver(ctx, &snapshot); err != nil && d.log != nil {
			d.log.Error(d.log.WithOrderNumber(ctx, snapshot.Number), what+" notification failed", err)
		}
	}()
}
