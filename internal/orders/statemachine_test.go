package orders

import (
	"testing"
	"time"

	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		from    enums.OrderState
		to      enums.OrderState
		allowed bool
	}{
		{"cart to address", enums.OrderStateCart, enums.OrderStateAddress, true},
		{"cart straight to payment", enums.OrderStateCart, enums.OrderStatePayment, true},
		{"same state", enums.OrderStateDelivery, enums.OrderStateDelivery, true},
		{"payment back to cart", enums.OrderStatePayment, enums.OrderStateCart, false},
		{"confirm to complete", enums.OrderStateConfirm, enums.OrderStateComplete, true},
		{"complete back to payment", enums.OrderStateComplete, enums.OrderStatePayment, false},

		{"cancel from cart", enums.OrderStateCart, enums.OrderStateCanceled, true},
		{"cancel from payment", enums.OrderStatePayment, enums.OrderStateCanceled, true},
		{"cancel from complete", enums.OrderStateComplete, enums.OrderStateCanceled, false},
		{"cancel from returned", enums.OrderStateReturned, enums.OrderStateCanceled, false},
		{"cancel twice", enums.OrderStateCanceled, enums.OrderStateCanceled, true},

		{"return from complete", enums.OrderStateComplete, enums.OrderStateReturned, true},
		{"return from payment", enums.OrderStatePayment, enums.OrderStateReturned, false},
		{"return from canceled", enums.OrderStateCanceled, enums.OrderStateReturned, false},

		{"canceled cannot resume", enums.OrderStateCanceled, enums.OrderStateComplete, false},
		{"returned is terminal", enums.OrderStateReturned, enums.OrderStateComplete, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := CanTransition(tc.from, tc.to)
			if tc.allowed && err != nil {
				t.Fatalf("expected %s -> %s to be allowed, got %v", tc.from, tc.to, err)
			}
			if !tc.allowed {
				typed := pkgerrors.As(err)
				if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
					t.Fatalf("expected STATE_CONFLICT for %s -> %s, got %v", tc.from, tc.to, err)
				}
			}
		})
	}
}

func TestCanTransitionRejectsUnknownState(t *testing.T) {
	t.Parallel()

	err := CanTransition(enums.OrderStateCart, enums.OrderState("archived"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestNumberFormats(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(0x18F4C2A9B10)

	if got := OrderNumber(at); got != "R018F4C2A9B10" {
		t.Fatalf("OrderNumber = %q", got)
	}
	if got := ShipmentNumber(at); got != "H018F4C2A9B10" {
		t.Fatalf("ShipmentNumber = %q", got)
	}

	// A later instant always yields a different number.
	if OrderNumber(at) == OrderNumber(at.Add(time.Millisecond)) {
		t.Fatal("numbers must differ across milliseconds")
	}
}
