package enums

import "fmt"

// AdjustmentSource identifies which engine produced an adjustment.
type AdjustmentSource string

const (
	AdjustmentSourcePromotion AdjustmentSource = "promotion"
	AdjustmentSourceTaxRate   AdjustmentSource = "tax_rate"
)

var validAdjustmentSources = []AdjustmentSource{
	AdjustmentSourcePromotion,
	AdjustmentSourceTaxRate,
}

// String implements fmt.Stringer.
func (a AdjustmentSource) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustmentSource.
func (a AdjustmentSource) IsValid() bool {
	for _, candidate := range validAdjustmentSources {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustmentSource converts raw input into an AdjustmentSource.
func ParseAdjustmentSource(value string) (AdjustmentSource, error) {
	for _, candidate := range validAdjustmentSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment source %q", value)
}

// AdjustableType identifies what an adjustment attaches to.
type AdjustableType string

const (
	AdjustableTypeOrder    AdjustableType = "order"
	AdjustableTypeLineItem AdjustableType = "line_item"
	AdjustableTypeShipment AdjustableType = "shipment"
)

var validAdjustableTypes = []AdjustableType{
	AdjustableTypeOrder,
	AdjustableTypeLineItem,
	AdjustableTypeShipment,
}

// String implements fmt.Stringer.
func (a AdjustableType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustableType.
func (a AdjustableType) IsValid() bool {
	for _, candidate := range validAdjustableTypes {
		if candidate == a {
			return true
		}
	}
	return false
}
