package enums

import "fmt"

// PaymentState summarizes an order's balance with the processor.
type PaymentState string

const (
	PaymentStateBalanceDue PaymentState = "balance_due"
	PaymentStatePaid       PaymentState = "paid"
	PaymentStateFailed     PaymentState = "failed"
)

var validPaymentStates = []PaymentState{
	PaymentStateBalanceDue,
	PaymentStatePaid,
	PaymentStateFailed,
}

// String implements fmt.Stringer.
func (p PaymentState) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentState.
func (p PaymentState) IsValid() bool {
	for _, candidate := range validPaymentStates {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentState converts raw input into a PaymentState.
func ParsePaymentState(value string) (PaymentState, error) {
	for _, candidate := range validPaymentStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment state %q", value)
}
