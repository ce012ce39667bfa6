package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
)

// CostCalculator prices a shipment for an order under one method. The
// order must carry its line items with variants preloaded.
type CostCalculator interface {
	Cost(method *models.ShippingMethod, order *models.Order) int
}

// WeightBased charges the method's base cost plus a per-kilogram rate on
// the order's total variant weight.
type WeightBased struct {
	CentsPerKG int
}

// NewWeightBased builds the default calculator, 100 minor units per kg.
func NewWeightBased() WeightBased {
	return WeightBased{CentsPerKG: 100}
}

func (c WeightBased) Cost(method *models.ShippingMethod, order *models.Order) int {
	if method == nil || order == nil {
		return 0
	}

	weight := decimal.Zero
	for _, item := range order.LineItems {
		if item.Variant == nil {
			continue
		}
		weight = weight.Add(item.Variant.WeightKG.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	surcharge := weight.Mul(decimal.NewFromInt(int64(c.CentsPerKG))).Round(0)
	return method.BaseCostCents + int(surcharge.IntPart())
}
