package shipping

import (
	"context"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
)

// Service exposes storefront-facing shipping method reads.
type Service interface {
	ListMethods(ctx context.Context) ([]models.ShippingMethod, error)
	GetActiveMethod(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error)
}

type service struct {
	repo Repository
}

// NewService validates dependencies and builds the service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shipping repo required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListMethods(ctx context.Context) ([]models.ShippingMethod, error) {
	return s.repo.ListActiveMethods(ctx)
}

// GetActiveMethod resolves a method and rejects inactive ones, so a
// checkout can never select a method the storefront no longer offers.
func (s *service) GetActiveMethod(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error) {
	method, err := s.repo.FindMethodByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !method.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping method is not available")
	}
	return method, nil
}
