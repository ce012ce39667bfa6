package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

func variantWeighing(kg string) *models.Variant {
	return &models.Variant{ID: uuid.New(), WeightKG: decimal.RequireFromString(kg)}
}

func TestWeightBasedCost(t *testing.T) {
	t.Parallel()

	calc := NewWeightBased()
	method := &models.ShippingMethod{BaseCostCents: 500}

	cases := []struct {
		name  string
		order *models.Order
		want  int
	}{
		{
			name: "base plus weight surcharge",
			order: &models.Order{LineItems: []models.LineItem{
				{Quantity: 2, Variant: variantWeighing("1.5")},
			}},
			want: 800, // 500 + 3.0kg * 100
		},
		{
			name: "fractional weight rounds half away from zero",
			order: &models.Order{LineItems: []models.LineItem{
				{Quantity: 1, Variant: variantWeighing("0.125")},
			}},
			want: 513, // 500 + round(12.5)
		},
		{
			name:  "empty order is base cost only",
			order: &models.Order{},
			want:  500,
		},
		{
			name: "line without preloaded variant adds nothing",
			order: &models.Order{LineItems: []models.LineItem{
				{Quantity: 5},
			}},
			want: 500,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, calc.Cost(method, tc.order))
		})
	}
}

type stubRepo struct {
	methods map[uuid.UUID]*models.ShippingMethod
}

func (r *stubRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepo) ListActiveMethods(ctx context.Context) ([]models.ShippingMethod, error) {
	var out []models.ShippingMethod
	for _, m := range r.methods {
		if m.Active {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubRepo) FindMethodByID(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error) {
	method, ok := r.methods[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipping method not found")
	}
	return method, nil
}

func TestGetActiveMethodRejectsInactive(t *testing.T) {
	t.Parallel()

	active := &models.ShippingMethod{ID: uuid.New(), Name: "Standard", Active: true}
	inactive := &models.ShippingMethod{ID: uuid.New(), Name: "Retired", Active: false}
	svc, err := NewService(&stubRepo{methods: map[uuid.UUID]*models.ShippingMethod{
		active.ID:   active,
		inactive.ID: inactive,
	}})
	require.NoError(t, err)

	got, err := svc.GetActiveMethod(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standard", got.Name)

	_, err = svc.GetActiveMethod(context.Background(), inactive.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.GetActiveMethod(context.Background(), uuid.New())
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
