package enums

import "fmt"

// ShipmentState tracks fulfillment progress for a shipment.
type ShipmentState string

const (
	ShipmentStatePending  ShipmentState = "pending"
	ShipmentStateReady    ShipmentState = "ready"
	ShipmentStateShipped  ShipmentState = "shipped"
	ShipmentStateCanceled ShipmentState = "canceled"
)

var validShipmentStates = []ShipmentState{
	ShipmentStatePending,
	ShipmentStateReady,
	ShipmentStateShipped,
	ShipmentStateCanceled,
}

// String implements fmt.Stringer.
func (s ShipmentState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShipmentState.
func (s ShipmentState) IsValid() bool {
	for _, candidate := range validShipmentStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShipmentState converts raw input into a ShipmentState.
func ParseShipmentState(value string) (ShipmentState, error) {
	for _, candidate := range validShipmentStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment state %q", value)
}
