package taxes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
)

type stubRepo struct {
	rates   []models.TaxRate
	deleted []uuid.UUID
	created []*models.Adjustment
}

func (r *stubRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepo) FindRatesForAddress(ctx context.Context, address *models.Address) ([]models.TaxRate, error) {
	return r.rates, nil
}

func (r *stubRepo) DeleteTaxAdjustments(ctx context.Context, orderID uuid.UUID) error {
	r.deleted = append(r.deleted, orderID)
	return nil
}

func (r *stubRepo) CreateAdjustments(ctx context.Context, adjustments []*models.Adjustment) error {
	r.created = append(r.created, adjustments...)
	return nil
}

func rate(amount string, included bool) models.TaxRate {
	return models.TaxRate{
		ID:              uuid.New(),
		Name:            "VAT",
		Amount:          decimal.RequireFromString(amount),
		IncludedInPrice: included,
	}
}

func orderWithLines(lines ...models.LineItem) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		LineItems:   lines,
		ShipAddress: &models.Address{CountryISO: "GB", Region: ""},
	}
}

func TestApplyAdditionalRate(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{rates: []models.TaxRate{rate("0.08", false)}}
	calc, err := NewCalculator(repo)
	require.NoError(t, err)

	order := orderWithLines(models.LineItem{ID: uuid.New(), Quantity: 2, PriceCents: 1999})
	adjustments, err := calc.Apply(context.Background(), nil, order)
	require.NoError(t, err)
	require.Len(t, adjustments, 1)

	// 3998 * 0.08 = 319.84 rounds to 320
	adj := adjustments[0]
	assert.Equal(t, 320, adj.AmountCents)
	assert.False(t, adj.IncludedInPrice)
	assert.Equal(t, enums.AdjustmentSourceTaxRate, adj.SourceType)
	assert.Equal(t, enums.AdjustableTypeLineItem, adj.AdjustableType)
	assert.Equal(t, []uuid.UUID{order.ID}, repo.deleted)
}

func TestApplyIncludedRateBacksOutOfPrice(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{rates: []models.TaxRate{rate("0.20", true)}}
	calc, err := NewCalculator(repo)
	require.NoError(t, err)

	order := orderWithLines(models.LineItem{ID: uuid.New(), Quantity: 1, PriceCents: 1200})
	adjustments, err := calc.Apply(context.Background(), nil, order)
	require.NoError(t, err)
	require.Len(t, adjustments, 1)

	// 1200 - round(1200 / 1.20) = 1200 - 1000 = 200
	assert.Equal(t, 200, adjustments[0].AmountCents)
	assert.True(t, adjustments[0].IncludedInPrice)
}

func TestApplyEmitsOneRowPerLineItemPerRate(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{rates: []models.TaxRate{rate("0.10", false), rate("0.05", true)}}
	calc, err := NewCalculator(repo)
	require.NoError(t, err)

	order := orderWithLines(
		models.LineItem{ID: uuid.New(), Quantity: 1, PriceCents: 1000},
		models.LineItem{ID: uuid.New(), Quantity: 3, PriceCents: 500},
	)
	adjustments, err := calc.Apply(context.Background(), nil, order)
	require.NoError(t, err)
	assert.Len(t, adjustments, 4)
}

func TestApplyWithoutAddressOnlyClears(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{rates: []models.TaxRate{rate("0.20", false)}}
	calc, err := NewCalculator(repo)
	require.NoError(t, err)

	order := &models.Order{
		ID:        uuid.New(),
		LineItems: []models.LineItem{{ID: uuid.New(), Quantity: 1, PriceCents: 1000}},
	}
	adjustments, err := calc.Apply(context.Background(), nil, order)
	require.NoError(t, err)
	assert.Empty(t, adjustments)
	assert.Equal(t, []uuid.UUID{order.ID}, repo.deleted)
	assert.Empty(t, repo.created)
}

func TestTaxAmountRounding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		total    int
		rate     models.TaxRate
		expected int
	}{
		{"half rounds away from zero", 1050, rate("0.05", false), 53}, // 52.5 -> 53
		{"below half rounds down", 1040, rate("0.05", false), 52},     // 52.0
		{"included exact division", 1100, rate("0.10", true), 100},
		{"included with remainder", 999, rate("0.20", true), 166}, // 999 - round(832.5) = 166
		{"zero total", 0, rate("0.20", false), 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, taxAmount(tc.total, tc.rate))
		})
	}
}

func TestZoneMemberMatching(t *testing.T) {
	t.Parallel()

	region := "CA"
	countrywide := models.ZoneMember{CountryISO: "US"}
	regional := models.ZoneMember{CountryISO: "US", Region: &region}

	assert.True(t, countrywide.Matches("US", "NY"))
	assert.True(t, countrywide.Matches("US", ""))
	assert.False(t, countrywide.Matches("GB", ""))

	assert.True(t, regional.Matches("US", "CA"))
	assert.False(t, regional.Matches("US", "NY"))
}
