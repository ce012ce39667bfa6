package enums

import "fmt"

// OrderState tracks where an order sits in the checkout funnel.
type OrderState string

const (
	OrderStateCart     OrderState = "cart"
	OrderStateAddress  OrderState = "address"
	OrderStateDelivery OrderState = "delivery"
	OrderStatePayment  OrderState = "payment"
	OrderStateConfirm  OrderState = "confirm"
	OrderStateComplete OrderState = "complete"
	OrderStateCanceled OrderState = "canceled"
	OrderStateReturned OrderState = "returned"
)

var validOrderStates = []OrderState{
	OrderStateCart,
	OrderStateAddress,
	OrderStateDelivery,
	OrderStatePayment,
	OrderStateConfirm,
	OrderStateComplete,
	OrderStateCanceled,
	OrderStateReturned,
}

var orderStateRanks = map[OrderState]int{
	OrderStateCart:     0,
	OrderStateAddress:  1,
	OrderStateDelivery: 2,
	OrderStatePayment:  3,
	OrderStateConfirm:  4,
	OrderStateComplete: 5,
	OrderStateCanceled: 99,
	OrderStateReturned: 100,
}

// String implements fmt.Stringer.
func (s OrderState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderState.
func (s OrderState) IsValid() bool {
	for _, candidate := range validOrderStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// Rank orders the funnel states so transitions can be compared. Side states
// rank above complete.
func (s OrderState) Rank() int {
	if rank, ok := orderStateRanks[s]; ok {
		return rank
	}
	return -1
}

// ParseOrderState converts raw input into an OrderState.
func ParseOrderState(value string) (OrderState, error) {
	for _, candidate := range validOrderStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order state %q", value)
}
