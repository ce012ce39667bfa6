package orders

import (
	"fmt"
	"time"
)

// Order and shipment numbers encode a millisecond timestamp in hex behind
// a type prefix, e.g. R0000018F4C2A9B10. Collisions within one
// millisecond surface as unique violations and the caller retries with a
// nudged clock.

// OrderNumber formats an order number for the given instant.
func OrderNumber(at time.Time) string {
	return fmt.Sprintf("R%012X", at.UnixMilli())
}

// ShipmentNumber formats a shipment number for the given instant.
func ShipmentNumber(at time.Time) string {
	return fmt.Sprintf("H%012X", at.UnixMilli())
}
