package validators

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/calebreyes/storefront-backend/internal/orders"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/pagination"
)

// ParseOrderListQuery reads the admin order listing filters from the
// query string. Unknown filter values fail fast instead of silently
// matching nothing.
func ParseOrderListQuery(values url.Values) (orders.ListQuery, pagination.Params, error) {
	var query orders.ListQuery

	if raw := strings.TrimSpace(values.Get("state")); raw != "" {
		state, err := enums.ParseOrderState(raw)
		if err != nil {
			return query, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid state filter")
		}
		query.State = &state
	}
	if raw := strings.TrimSpace(values.Get("payment_state")); raw != "" {
		state, err := enums.ParsePaymentState(raw)
		if err != nil {
			return query, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_state filter")
		}
		query.PaymentState = &state
	}
	if raw := strings.TrimSpace(values.Get("shipment_state")); raw != "" {
		state, err := enums.ParseShipmentState(raw)
		if err != nil {
			return query, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipment_state filter")
		}
		query.ShipmentState = &state
	}
	if raw := strings.TrimSpace(values.Get("email")); raw != "" {
		query.Email = &raw
	}
	if raw := strings.TrimSpace(values.Get("number")); raw != "" {
		query.Number = &raw
	}

	page := pagination.Params{Cursor: values.Get("cursor")}
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return query, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid limit")
		}
		page.Limit = limit
	}

	return query, page, nil
}
