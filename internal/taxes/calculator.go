package taxes

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

// Calculator recomputes an order's tax adjustments from its ship address.
// Each run deletes the previous tax rows and writes a fresh set, so the
// result never depends on what was there before.
type Calculator struct {
	repo Repository
}

// NewCalculator validates dependencies and builds the calculator.
func NewCalculator(repo Repository) (*Calculator, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "taxes repo required")
	}
	return &Calculator{repo: repo}, nil
}

// Apply replaces the order's tax adjustments inside the caller's
// transaction. The order must carry its line items and ship address. The
// caller recalculates totals afterwards.
func (c *Calculator) Apply(ctx context.Context, tx *gorm.DB, order *models.Order) ([]*models.Adjustment, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order is required")
	}

	repo := c.repo.WithTx(tx)

	if err := repo.DeleteTaxAdjustments(ctx, order.ID); err != nil {
		return nil, err
	}

	if order.ShipAddress == nil {
		return nil, nil
	}

	rates, err := repo.FindRatesForAddress(ctx, order.ShipAddress)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, nil
	}

	var adjustments []*models.Adjustment
	for _, item := range order.LineItems {
		lineTotal := item.TotalCents()
		for _, rate := range rates {
			amount := taxAmount(lineTotal, rate)
			if amount == 0 {
				continue
			}
			adjustments = append(adjustments, &models.Adjustment{
				OrderID:         order.ID,
				AdjustableType:  enums.AdjustableTypeLineItem,
				AdjustableID:    item.ID,
				SourceType:      enums.AdjustmentSourceTaxRate,
				SourceID:        rate.ID,
				AmountCents:     amount,
				Label:           taxLabel(rate),
				Eligible:        true,
				IncludedInPrice: rate.IncludedInPrice,
			})
		}
	}

	if err := repo.CreateAdjustments(ctx, adjustments); err != nil {
		return nil, err
	}
	return adjustments, nil
}

// taxAmount computes one rate's share of a line total in minor units,
// rounding half away from zero. An included rate is backed out of the
// price: total - round(total / (1 + rate)). An additional rate is charged
// on top: round(total * rate).
func taxAmount(lineTotalCents int, rate models.TaxRate) int {
	total := decimal.NewFromInt(int64(lineTotalCents))

	if rate.IncludedInPrice {
		divisor := decimal.NewFromInt(1).Add(rate.Amount)
		pretax := total.Div(divisor).Round(0)
		return lineTotalCents - int(pretax.IntPart())
	}

	return int(total.Mul(rate.Amount).Round(0).IntPart())
}

func taxLabel(rate models.TaxRate) string {
	percent := rate.Amount.Mul(decimal.NewFromInt(100))
	if rate.IncludedInPrice {
		return fmt.Sprintf("%s %s%% (included)", rate.Name, percent.String())
	}
	return fmt.Sprintf("%s %s%%", rate.Name, percent.String())
}
