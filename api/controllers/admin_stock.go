package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/api/middleware"
	"github.com/calebreyes/storefront-backend/api/responses"
	"github.com/calebreyes/storefront-backend/api/validators"
	inventorysvc "github.com/calebreyes/storefront-backend/internal/inventory"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/logger"
)

type moveStockRequest struct {
	StockItemID uuid.UUID `json:"stock_item_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required"`
	Action      string    `json:"action" validate:"required"`
	Reference   *string   `json:"reference,omitempty"`
}

type stockMovementResponse struct {
	ID          uuid.UUID `json:"id"`
	StockItemID uuid.UUID `json:"stock_item_id"`
	Quantity    int       `json:"quantity"`
	Action      string    `json:"action"`
	Reference   *string   `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdminMoveStock appends a ledger entry and applies it to the count in
// one transaction.
func AdminMoveStock(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload moveStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := enums.ParseMovementAction(payload.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement action"))
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		movement, err := svc.MoveStock(r.Context(), actor, inventorysvc.MoveStockParams{
			StockItemID: payload.StockItemID,
			Quantity:    payload.Quantity,
			Action:      action,
			Reference:   payload.Reference,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stockMovementResponse{
			ID:          movement.ID,
			StockItemID: movement.StockItemID,
			Quantity:    movement.Quantity,
			Action:      string(movement.Action),
			Reference:   movement.Reference,
			CreatedAt:   movement.CreatedAt,
		})
	}
}

type stockItemResponse struct {
	ID              uuid.UUID `json:"id"`
	StockLocationID uuid.UUID `json:"stock_location_id"`
	VariantID       uuid.UUID `json:"variant_id"`
	CountOnHand     int       `json:"count_on_hand"`
	Backorderable   bool      `json:"backorderable"`
}

// AdminStockList shows stock items, optionally narrowed to one variant.
func AdminStockList(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var variantID *uuid.UUID
		if raw := r.URL.Query().Get("variant_id"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant id"))
				return
			}
			variantID = &parsed
		}

		actor := middleware.ActorFromContext(r.Context())
		items, err := svc.ListStock(r.Context(), actor, variantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]stockItemResponse, 0, len(items))
		for _, item := range items {
			out = append(out, stockItemResponse{
				ID:              item.ID,
				StockLocationID: item.StockLocationID,
				VariantID:       item.VariantID,
				CountOnHand:     item.CountOnHand,
				Backorderable:   item.Backorderable,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
