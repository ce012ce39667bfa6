package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/calebreyes/storefront-backend/pkg/db/models"
)

type orderResponse struct {
	ID       uuid.UUID `json:"id"`
	Number   string    `json:"number"`
	State    string    `json:"state"`
	Email    *string   `json:"email,omitempty"`
	Currency string    `json:"currency"`

	ItemTotalCents       int `json:"item_total_cents"`
	ItemCount            int `json:"item_count"`
	AdjustmentTotalCents int `json:"adjustment_total_cents"`
	PromoTotalCents      int `json:"promo_total_cents"`
	TaxTotalCents        int `json:"tax_total_cents"`
	ShipmentTotalCents   int `json:"shipment_total_cents"`
	TotalCents           int `json:"total_cents"`

	PaymentState  string  `json:"payment_state"`
	ShipmentState *string `json:"shipment_state,omitempty"`

	LineItems   []lineItemResponse   `json:"line_items"`
	Adjustments []adjustmentResponse `json:"adjustments"`
	Shipments   []shipmentResponse   `json:"shipments"`
	ShipAddress *addressResponse     `json:"ship_address,omitempty"`
	BillAddress *addressResponse     `json:"bill_address,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CanceledAt  *time.Time `json:"canceled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type lineItemResponse struct {
	ID         uuid.UUID `json:"id"`
	VariantID  uuid.UUID `json:"variant_id"`
	SKU        string    `json:"sku,omitempty"`
	Quantity   int       `json:"quantity"`
	PriceCents int       `json:"price_cents"`
	TotalCents int       `json:"total_cents"`
}

type adjustmentResponse struct {
	ID              uuid.UUID `json:"id"`
	AdjustableType  string    `json:"adjustable_type"`
	SourceType      string    `json:"source_type"`
	AmountCents     int       `json:"amount_cents"`
	Label           string    `json:"label"`
	Eligible        bool      `json:"eligible"`
	IncludedInPrice bool      `json:"included_in_price"`
}

type shipmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	Number         string     `json:"number"`
	State          string     `json:"state"`
	MethodID       *uuid.UUID `json:"shipping_method_id,omitempty"`
	MethodName     *string    `json:"shipping_method_name,omitempty"`
	CostCents      int        `json:"cost_cents"`
	TrackingNumber *string    `json:"tracking_number,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
}

type addressResponse struct {
	Name       string  `json:"name"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	Region     string  `json:"region"`
	PostalCode string  `json:"postal_code"`
	CountryISO string  `json:"country_iso"`
	Phone      *string `json:"phone,omitempty"`
}

func newOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:                   order.ID,
		Number:               order.Number,
		State:                string(order.State),
		Email:                order.Email,
		Currency:             order.Currency,
		ItemTotalCents:       order.ItemTotalCents,
		ItemCount:            order.ItemCount,
		AdjustmentTotalCents: order.AdjustmentTotalCents,
		PromoTotalCents:      order.PromoTotalCents,
		TaxTotalCents:        order.TaxTotalCents,
		ShipmentTotalCents:   order.ShipmentTotalCents,
		TotalCents:           order.TotalCents,
		PaymentState:         string(order.PaymentState),
		LineItems:            make([]lineItemResponse, 0, len(order.LineItems)),
		Adjustments:          make([]adjustmentResponse, 0, len(order.Adjustments)),
		Shipments:            make([]shipmentResponse, 0, len(order.Shipments)),
		CompletedAt:          order.CompletedAt,
		CanceledAt:           order.CanceledAt,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}

	if order.ShipmentState != nil {
		state := string(*order.ShipmentState)
		resp.ShipmentState = &state
	}

	for _, line := range order.LineItems {
		item := lineItemResponse{
			ID:         line.ID,
			VariantID:  line.VariantID,
			Quantity:   line.Quantity,
			PriceCents: line.PriceCents,
			TotalCents: line.TotalCents(),
		}
		if line.Variant != nil {
			item.SKU = line.Variant.SKU
		}
		resp.LineItems = append(resp.LineItems, item)
	}

	for _, adj := range order.Adjustments {
		resp.Adjustments = append(resp.Adjustments, adjustmentResponse{
			ID:              adj.ID,
			AdjustableType:  string(adj.AdjustableType),
			SourceType:      string(adj.SourceType),
			AmountCents:     adj.AmountCents,
			Label:           adj.Label,
			Eligible:        adj.Eligible,
			IncludedInPrice: adj.IncludedInPrice,
		})
	}

	for _, shipment := range order.Shipments {
		s := shipmentResponse{
			ID:             shipment.ID,
			Number:         shipment.Number,
			State:          string(shipment.State),
			MethodID:       shipment.ShippingMethodID,
			CostCents:      shipment.CostCents,
			TrackingNumber: shipment.TrackingNumber,
			ShippedAt:      shipment.ShippedAt,
		}
		if shipment.ShippingMethod != nil {
			s.MethodName = &shipment.ShippingMethod.Name
		}
		resp.Shipments = append(resp.Shipments, s)
	}

	resp.ShipAddress = newAddressResponse(order.ShipAddress)
	resp.BillAddress = newAddressResponse(order.BillAddress)
	return resp
}

func newAddressResponse(address *models.Address) *addressResponse {
	if address == nil {
		return nil
	}
	return &addressResponse{
		Name:       address.Name,
		Line1:      address.Line1,
		Line2:      address.Line2,
		City:       address.City,
		Region:     address.Region,
		PostalCode: address.PostalCode,
		CountryISO: address.CountryISO,
		Phone:      address.Phone,
	}
}
