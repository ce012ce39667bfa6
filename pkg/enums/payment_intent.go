package enums

import "fmt"

// PaymentIntentStatus tracks the lifecycle of an external-gateway payment
// handle. Hosted checkout sessions carry checkout_session until they
// resolve.
type PaymentIntentStatus string

const (
	PaymentIntentRequiresPaymentMethod PaymentIntentStatus = "requires_payment_method"
	PaymentIntentCheckoutSession       PaymentIntentStatus = "checkout_session"
	PaymentIntentSucceeded             PaymentIntentStatus = "succeeded"
	PaymentIntentFailed                PaymentIntentStatus = "failed"
)

var validPaymentIntentStatuses = []PaymentIntentStatus{
	PaymentIntentRequiresPaymentMethod,
	PaymentIntentCheckoutSession,
	PaymentIntentSucceeded,
	PaymentIntentFailed,
}

// String implements fmt.Stringer.
func (s PaymentIntentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PaymentIntentStatus.
func (s PaymentIntentStatus) IsValid() bool {
	for _, candidate := range validPaymentIntentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the intent can still change. At most one
// non-terminal intent exists per order.
func (s PaymentIntentStatus) IsTerminal() bool {
	return s == PaymentIntentSucceeded || s == PaymentIntentFailed
}

// ParsePaymentIntentStatus converts raw input into a PaymentIntentStatus.
func ParsePaymentIntentStatus(value string) (PaymentIntentStatus, error) {
	for _, candidate := range validPaymentIntentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment intent status %q", value)
}
