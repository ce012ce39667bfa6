package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calebreyes/storefront-backend/internal/shipping"
	"github.com/calebreyes/storefront-backend/pkg/db"
	"github.com/calebreyes/storefront-backend/pkg/db/models"
	"github.com/calebreyes/storefront-backend/pkg/enums"
	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/identity"
	"github.com/calebreyes/storefront-backend/pkg/pagination"
)

const (
	minQuantity = 1
	maxQuantity = 999

	maxNameLen   = 100
	maxLineLen   = 255
	maxCityLen   = 100
	maxRegionLen = 100
	maxPostalLen = 20
	maxPhoneLen  = 30
	maxEmailLen  = 254

	numberRetries = 5
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type stockReader interface {
	Availability(ctx context.Context, variantID uuid.UUID) (int, error)
}

type locationFinder interface {
	FindDefaultLocation(ctx context.Context) (*models.StockLocation, error)
}

type couponEngine interface {
	Apply(ctx context.Context, tx *gorm.DB, order *models.Order, code string, actor identity.Actor) ([]*models.Adjustment, error)
}

type taxCalculator interface {
	Apply(ctx context.Context, tx *gorm.DB, order *models.Order) ([]*models.Adjustment, error)
}

type methodResolver interface {
	GetActiveMethod(ctx context.Context, id uuid.UUID) (*models.ShippingMethod, error)
}

// AddressParams is a checkout address payload.
type AddressParams struct {
	Name       string
	Line1      string
	Line2      *string
	City       string
	Region     string
	PostalCode string
	CountryISO string
	Phone      *string
}

// SetAddressParams stores the checkout addresses. A nil Bill reuses the
// ship address.
type SetAddressParams struct {
	Email string
	Ship  AddressParams
	Bill  *AddressParams
}

// Service drives the cart and the checkout funnel.
type Service interface {
	GetOrCreateCart(ctx context.Context, actor identity.Actor) (*models.Order, error)
	AddToCart(ctx context.Context, actor identity.Actor, variantID uuid.UUID, quantity int) (*models.Order, error)
	UpdateLineItem(ctx context.Context, actor identity.Actor, lineItemID uuid.UUID, quantity int) (*models.Order, error)
	RemoveLineItem(ctx context.Context, actor identity.Actor, lineItemID uuid.UUID) (*models.Order, error)
	ApplyCoupon(ctx context.Context, actor identity.Actor, code string) (*models.Order, error)
	GetOrder(ctx context.Context, actor identity.Actor, number string) (*models.Order, error)

	SetAddress(ctx context.Context, actor identity.Actor, params SetAddressParams) (*models.Order, error)
	SetShippingMethod(ctx context.Context, actor identity.Actor, methodID uuid.UUID) (*models.Order, error)

	AdminUpdateState(ctx context.Context, actor identity.Actor, orderID uuid.UUID, target enums.OrderState) (*models.Order, error)
	AdminShip(ctx context.Context, actor identity.Actor, orderID uuid.UUID, trackingNumber string) (*models.Order, error)
	AdminList(ctx context.Context, actor identity.Actor, query ListQuery, page pagination.Params) ([]models.Order, string, error)
}

// ServiceParams wires the service dependencies.
type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
	Stock             stockReader
	Locations         locationFinder
	Coupons           couponEngine
	Taxes             taxCalculator
	Methods           methodResolver
	ShippingPricer    shipping.CostCalculator
	Currency          string
	Now               func() time.Time
}

type service struct {
	repo      Repository
	txRunner  txRunner
	stock     stockReader
	locations locationFinder
	coupons   couponEngine
	taxes     taxCalculator
	methods   methodResolver
	pricer    shipping.CostCalculator
	currency  string
	now       func() time.Time
}

// NewService validates dependencies and builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Stock == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stock reader required")
	}
	if params.Locations == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "location finder required")
	}
	if params.Coupons == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "coupon engine required")
	}
	if params.Taxes == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tax calculator required")
	}
	if params.Methods == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "method resolver required")
	}
	if params.ShippingPricer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shipping pricer required")
	}

	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		repo:      params.Repo,
		txRunner:  params.TransactionRunner,
		stock:     params.Stock,
		locations: params.Locations,
		coupons:   params.Coupons,
		taxes:     params.Taxes,
		methods:   params.Methods,
		pricer:    params.ShippingPricer,
		currency:  currency,
		now:       now,
	}, nil
}

func (s *service) GetOrCreateCart(ctx context.Context, actor identity.Actor) (*models.Order, error) {
	order, err := s.repo.FindOpenForActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if order != nil {
		return order, nil
	}
	return s.createCart(ctx, s.repo, actor)
}

func (s *service) createCart(ctx context.Context, repo Repository, actor identity.Actor) (*models.Order, error) {
	if actor.UserID == nil && actor.GuestToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "anonymous carts require a guest token")
	}

	at := s.now()
	for attempt := 0; attempt < numberRetries; attempt++ {
		order := &models.Order{
			Number:   OrderNumber(at),
			State:    enums.OrderStateCart,
			Currency: s.currency,
			UserID:   actor.UserID,
		}
		if actor.UserID == nil {
			token := actor.GuestToken
			order.GuestToken = &token
		}

		err := repo.Create(ctx, order)
		if err == nil {
			return order, nil
		}
		if isUniqueViolation(err) {
			at = at.Add(time.Millisecond)
			continue
		}
		return nil, err
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate an order number")
}

func (s *service) AddToCart(ctx context.Context, actor identity.Actor, variantID uuid.UUID, quantity int) (*models.Order, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}

	var out *models.Order
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.mutableOrder(ctx, repo, actor)
		if err != nil {
			return err
		}

		variant, err := repo.FindVariant(ctx, variantID)
		if err != nil {
			return err
		}

		requested := quantity
		var existing *models.LineItem
		for i := range order.LineItems {
			if order.LineItems[i].VariantID == variantID {
				existing = &order.LineItems[i]
				requested += existing.Quantity
				break
			}
		}

		if err := checkQuantity(requested); err != nil {
			return err
		}
		if err := s.checkAvailability(ctx, variantID, requested); err != nil {
			return err
		}

		if existing != nil {
			existing.Quantity = requested
			if err := repo.SaveLineItem(ctx, existing); err != nil {
				return err
			}
		} else {
			item := &models.LineItem{
				OrderID:    order.ID,
				VariantID:  variantID,
				Quantity:   quantity,
				PriceCents: variant.PriceCents,
			}
			if err := repo.CreateLineItem(ctx, item); err != nil {
				return err
			}
		}

		out, err = s.refreshTotals(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateLineItem sets an absolute quantity. Zero deletes the line, the
// same as RemoveLineItem.
func (s *service) UpdateLineItem(ctx context.Context, actor identity.Actor, lineItemID uuid.UUID, quantity int) (*models.Order, error) {
	if quantity != 0 {
		if err := checkQuantity(quantity); err != nil {
			return nil, err
		}
	}

	var out *models.Order
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.mutableOrder(ctx, repo, actor)
		if err != nil {
			return err
		}

		item := findLine(order, lineItemID)
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}

		if quantity == 0 {
			if err := repo.DeleteLineItem(ctx, item); err != nil {
				return err
			}
			out, err = s.refreshTotals(ctx, tx, order.ID)
			return err
		}

		if err := s.checkAvailability(ctx, item.VariantID, quantity); err != nil {
			return err
		}

		item.Quantity = quantity
		if err := repo.SaveLineItem(ctx, item); err != nil {
			return err
		}

		out, err = s.refreshTotals(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) RemoveLineItem(ctx context.Context, actor identity.Actor, lineItemID uuid.UUID) (*models.Order, error) {
	var out *models.Order
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.mutableOrder(ctx, repo, actor)
		if err != nil {
			return err
		}

		item := findLine(order, lineItemID)
		if item == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
		}

		if err := repo.DeleteLineItem(ctx, item); err != nil {
			return err
		}

		out, err = s.refreshTotals(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ApplyCoupon(ctx context.Context, actor identity.Actor, code string) (*models.Order, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	var out *models.Order
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.mutableOrder(ctx, repo, actor)
		if err != nil {
			return err
		}

		if _, err := s.coupons.Apply(ctx, tx, order, code, actor); err != nil {
			return err
		}

		out, err = s.refreshTotals(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder resolves an order by number for its owner. Non-owners get a
// not-found rather than a hint the number exists.
func (s *service) GetOrder(ctx context.Context, actor identity.Actor, number string) (*models.Order, error) {
	order, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(order) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) SetAddress(ctx context.Context, actor identity.Actor, params SetAddressParams) (*models.Order, error) {
	if err := checkEmail(params.Email); err != nil {
		return nil, err
	}
	if err := checkAddress("ship", params.Ship); err != nil {
		return nil, err
	}
	if params.Bill != nil {
		if err := checkAddress("bill", *params.Bill); err != nil {
			return nil, err
		}
	}

	var out *models.Order
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.openOrder(ctx, repo, actor)
		if err != nil {
			return err
		}
		if order.State.Rank() > enums.OrderStateDelivery.Rank() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "addresses are locked after delivery selection")
		}
		if len(order.LineItems) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cannot check out an empty cart")
		}

		ship := toAddressModel(params.Ship)
		if err := repo.CreateAddress(ctx, ship); err != nil {
			return err
		}
		billID := ship.ID
		if params.Bill != nil {
			bill := toAddressModel(*params.Bill)
			if err := repo.CreateAddress(ctx, bill); err != nil {
				return err
			}
			billID = bill.ID
		}

		email := strings.TrimSpace(params.Email)
		order.Email = &email
		order.ShipAddressID = &ship.ID
		order.BillAddressID = &billID
		// Advance to address; a re-entry from delivery keeps its progress.
		if order.State.Rank() < enums.OrderStateAddress.Rank() {
			order.State = enums.OrderStateAddress
		}

		if err := repo.Save(ctx, order); err != nil {
			return err
		}

		if err := s.proposeShipment(ctx, repo, order); err != nil {
			return err
		}

		out, err = s.refreshTotals(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// proposeShipment replaces the order's shipments with one pending shipment
// at the default stock location.
func (s *service) proposeShipment(ctx context.Context, repo Repository, order *models.Order) error {
	if err := repo.DeleteShipmentsForOrder(ctx, order.ID); err != nil {
		return err
	}

	location, err := s.locations.FindDefaultLocation(ctx)
	if err != nil {
		return err
	}

	at := s.now()
	for attempt := 0; attempt < numberRetries; attempt++ {
		shipment := &models.Shipment{
			OrderID:         order.ID,
			Number:          ShipmentNumber(at),
			State:           enums.ShipmentStatePending,
			StockLocationID: location.ID,
		}
		err := repo.CreateShipment(ctx, shipment)
		if err == nil {
			return nil
		}
		if isUniqueViolation(err) {
			at = at.Add(time.Millisecond)
			continue
		}
		return err
	}
	return pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a shipment number")
}

func (s *service) SetShippingMethod(ctx context.Context, actor identity.Actor, methodID uuid.UUID) (*models.Order, error) {
	var out *models.Order
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.openOrder(ctx, repo, actor)
		if err != nil {
			return err
		}
		rank := order.State.Rank()
		if rank < enums.OrderStateAddress.Rank() || rank > enums.OrderStateDelivery.Rank() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not ready for delivery selection")
		}
		if len(order.Shipments) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order has no shipment to price")
		}

		method, err := s.methods.GetActiveMethod(ctx, methodID)
		if err != nil {
			return err
		}

		shipment := &order.Shipments[0]
		shipment.ShippingMethodID = &method.ID
		shipment.CostCents = s.pricer.Cost(method, order)
		if err := repo.SaveShipment(ctx, shipment); err != nil {
			return err
		}

		order.State = enums.OrderStateDelivery
		if err := repo.Save(ctx, order); err != nil {
			return err
		}

		out, err = s.refreshTotals(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) AdminUpdateState(ctx context.Context, actor identity.Actor, orderID uuid.UUID, target enums.OrderState) (*models.Order, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "state changes are operator-only")
	}

	var out *models.Order
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := CanTransition(order.State, target); err != nil {
			return err
		}

		order.State = target
		switch target {
		case enums.OrderStateCanceled:
			at := s.now()
			order.CanceledAt = &at
		case enums.OrderStateComplete:
			if order.CompletedAt == nil {
				at := s.now()
				order.CompletedAt = &at
			}
		}

		if err := repo.Save(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) AdminShip(ctx context.Context, actor identity.Actor, orderID uuid.UUID, trackingNumber string) (*models.Order, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "shipping is operator-only")
	}

	var out *models.Order
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if len(order.Shipments) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order has no shipment")
		}

		shipment := &order.Shipments[0]
		if shipment.State != enums.ShipmentStateReady {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("shipment is %s, not ready", shipment.State))
		}

		at := s.now()
		shipment.State = enums.ShipmentStateShipped
		shipment.ShippedAt = &at
		if trimmed := strings.TrimSpace(trackingNumber); trimmed != "" {
			shipment.TrackingNumber = &trimmed
		}
		if err := repo.SaveShipment(ctx, shipment); err != nil {
			return err
		}

		shipped := enums.ShipmentStateShipped
		order.ShipmentState = &shipped
		if err := repo.Save(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) AdminList(ctx context.Context, actor identity.Actor, query ListQuery, page pagination.Params) ([]models.Order, string, error) {
	if !actor.IsAdmin() {
		return nil, "", pkgerrors.New(pkgerrors.CodeForbidden, "order listing is operator-only")
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(page.Limit)
	rows, err := s.repo.List(ctx, query, limit+1, cursor)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// mutableOrder loads the actor's open order and rejects mutation once the
// funnel has moved past payment.
func (s *service) mutableOrder(ctx context.Context, repo Repository, actor identity.Actor) (*models.Order, error) {
	order, err := repo.FindOpenForActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return s.createCart(ctx, repo, actor)
	}
	if order.State.Rank() > enums.OrderStatePayment.Rank() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be modified")
	}
	return order, nil
}

func (s *service) openOrder(ctx context.Context, repo Repository, actor identity.Actor) (*models.Order, error) {
	order, err := repo.FindOpenForActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open order")
	}
	return order, nil
}

func (s *service) checkAvailability(ctx context.Context, variantID uuid.UUID, requested int) error {
	available, err := s.stock.Availability(ctx, variantID)
	if err != nil {
		return err
	}
	if requested > available {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for this variant").
			WithDetails(map[string]any{
				"variant_id": variantID,
				"requested":  requested,
				"available":  available,
			})
	}
	return nil
}

// refreshTotals re-applies taxes, reloads the aggregate, and writes the
// derived totals so that total = item_total + shipment_total +
// adjustment_total. Included-in-price tax rows count toward tax_total but
// stay out of adjustment_total.
func (s *service) refreshTotals(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*models.Order, error) {
	repo := s.repo.WithTx(tx)

	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.taxes.Apply(ctx, tx, order); err != nil {
		return nil, err
	}

	order, err = repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	itemTotal := 0
	itemCount := 0
	for _, item := range order.LineItems {
		itemTotal += item.TotalCents()
		itemCount += item.Quantity
	}

	adjustmentTotal := 0
	promoTotal := 0
	taxTotal := 0
	for _, adj := range order.Adjustments {
		if !adj.Eligible {
			continue
		}
		switch adj.SourceType {
		case enums.AdjustmentSourcePromotion:
			promoTotal += adj.AmountCents
		case enums.AdjustmentSourceTaxRate:
			taxTotal += adj.AmountCents
		}
		if adj.IncludedInPrice {
			continue
		}
		adjustmentTotal += adj.AmountCents
	}

	shipmentTotal := 0
	for _, shipment := range order.Shipments {
		shipmentTotal += shipment.CostCents
	}

	order.ItemTotalCents = itemTotal
	order.ItemCount = itemCount
	order.AdjustmentTotalCents = adjustmentTotal
	order.PromoTotalCents = promoTotal
	order.TaxTotalCents = taxTotal
	order.ShipmentTotalCents = shipmentTotal
	order.TotalCents = itemTotal + shipmentTotal + adjustmentTotal

	if err := repo.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func findLine(order *models.Order, lineItemID uuid.UUID) *models.LineItem {
	for i := range order.LineItems {
		if order.LineItems[i].ID == lineItemID {
			return &order.LineItems[i]
		}
	}
	return nil
}

func checkQuantity(quantity int) error {
	if quantity < minQuantity || quantity > maxQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity must be between %d and %d", minQuantity, maxQuantity))
	}
	return nil
}

func checkEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" || len(trimmed) > maxEmailLen || !strings.Contains(trimmed, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	return nil
}

func checkAddress(which string, addr AddressParams) error {
	fail := func(field string) error {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s address %s is missing or too long", which, field))
	}

	switch {
	case addr.Name == "" || len(addr.Name) > maxNameLen:
		return fail("name")
	case addr.Line1 == "" || len(addr.Line1) > maxLineLen:
		return fail("line1")
	case addr.Line2 != nil && len(*addr.Line2) > maxLineLen:
		return fail("line2")
	case addr.City == "" || len(addr.City) > maxCityLen:
		return fail("city")
	case len(addr.Region) > maxRegionLen:
		return fail("region")
	case addr.PostalCode == "" || len(addr.PostalCode) > maxPostalLen:
		return fail("postal_code")
	case len(addr.CountryISO) != 2:
		return fail("country")
	case addr.Phone != nil && len(*addr.Phone) > maxPhoneLen:
		return fail("phone")
	}
	return nil
}

func toAddressModel(addr AddressParams) *models.Address {
	return &models.Address{
		Name:       strings.TrimSpace(addr.Name),
		Line1:      strings.TrimSpace(addr.Line1),
		Line2:      addr.Line2,
		City:       strings.TrimSpace(addr.City),
		Region:     strings.TrimSpace(addr.Region),
		PostalCode: strings.TrimSpace(addr.PostalCode),
		CountryISO: strings.ToUpper(strings.TrimSpace(addr.CountryISO)),
		Phone:      addr.Phone,
	}
}

func isUniqueViolation(err error) bool {
	if typed := pkgerrors.As(err); typed != nil && typed.Unwrap() != nil {
		return db.IsUniqueViolation(typed.Unwrap(), "")
	}
	return db.IsUniqueViolation(err, "")
}
