package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenandcrumb/bakeshop-backend/internal/delivery"
	"github.com/ovenandcrumb/bakeshop-backend/internal/notify"
	"github.com/ovenandcrumb/bakeshop-backend/internal/payments"
	"github.com/ovenandcrumb/bakeshop-backend/internal/pricing"
	"github.com/ovenandcrumb/bakeshop-backend/internal/scheduling"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/db"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/db/models"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/maps"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/metrics"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/pagination"
)

// Service owns the order lifecycle: quoting carts, creating paid orders, and
// moving orders through their status machine.
type Service interface {
	QuoteCart(ctx context.Context, input QuoteInput) (*QuoteDTO, error)
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, query ListOrdersQuery, params pagination.Params) (*OrderListResult, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, nextStatus string) (*OrderDTO, error)
}

// ItemCatalog is the slice of the catalog the order service reads.
type ItemCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// PaymentGateway covers the payment-intent interactions orders need.
type PaymentGateway interface {
	CreateAuthorization(ctx context.Context, amount money.Cents, currency enums.Currency) (*payments.Authorization, error)
	UpdateAuthorizationAmount(ctx context.Context, authorizationID string, amount money.Cents) (*payments.Authorization, error)
	VerifyAuthorization(ctx context.Context, authorizationID string, expected money.Cents) (*payments.Authorization, error)
}

// AddressResolver turns free-text delivery addresses into structured ones.
type AddressResolver interface {
	ResolveAddress(ctx context.Context, address string) (*maps.ResolvedAddress, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      OrderRepository
	catalog   ItemCatalog
	engine    *pricing.Engine
	delivery  *delivery.Validator
	scheduler *scheduling.Validator
	gateway   PaymentGateway
	resolver  AddressResolver
	notifier  notify.Notifier
	tx        TxRunner
	logg      *logger.Logger
	metrics   *metrics.OrderMetrics
}

type ServiceDeps struct {
	Repo      OrderRepository
	Catalog   ItemCatalog
	Engine    *pricing.Engine
	Delivery  *delivery.Validator
	Scheduler *scheduling.Validator
	Gateway   PaymentGateway
	Resolver  AddressResolver
	Notifier  notify.Notifier
	Tx        TxRunner
	Logger    *logger.Logger
	Metrics   *metrics.OrderMetrics
}

func NewService(deps ServiceDeps) (Service, error) {
	switch {
	case deps.Repo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order repository is required")
	case deps.Catalog == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "item catalog is required")
	case deps.Engine == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pricing engine is required")
	case deps.Delivery == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "delivery validator is required")
	case deps.Scheduler == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "scheduling validator is required")
	case deps.Gateway == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway is required")
	case deps.Resolver == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "address resolver is required")
	case deps.Notifier == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier is required")
	case deps.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner is required")
	case deps.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewOrderMetrics(nil)
	}
	return &service{
		repo:      deps.Repo,
		catalog:   deps.Catalog,
		engine:    deps.Engine,
		delivery:  deps.Delivery,
		scheduler: deps.Scheduler,
		gateway:   deps.Gateway,
		resolver:  deps.Resolver,
		notifier:  deps.Notifier,
		tx:        deps.Tx,
		logg:      deps.Logger,
		metrics:   deps.Metrics,
	}, nil
}

// QuoteCart prices a cart server-side and opens (or reprices) the payment
// authorization the client will complete.
func (s *service) QuoteCart(ctx context.Context, input QuoteInput) (*QuoteDTO, error) {
	method, err := enums.ParseFulfillmentMethod(input.FulfillmentMethod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fulfillment method")
	}

	lines, err := s.priceLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}
	quote, err := s.engine.QuoteCart(lines, method)
	if err != nil {
		return nil, err
	}

	var auth *payments.Authorization
	if input.PaymentIntentID != "" {
		auth, err = s.gateway.UpdateAuthorizationAmount(ctx, input.PaymentIntentID, quote.Total)
	} else {
		auth, err = s.gateway.CreateAuthorization(ctx, quote.Total, enums.CurrencyCAD)
	}
	if err != nil {
		return nil, err
	}

	return &QuoteDTO{
		SubtotalCents:    quote.Subtotal,
		DeliveryFeeCents: quote.DeliveryFee,
		TaxCents:         quote.Tax,
		TotalCents:       quote.Total,
		Currency:         enums.CurrencyCAD.String(),
		PaymentIntentID:  auth.ID,
		ClientSecret:     auth.ClientSecret,
	}, nil
}

// CreateOrder runs the full checkout pipeline. Validation is strictly
// ordered: cart pricing, delivery eligibility, scheduling, then payment.
// Nothing is persisted until every check has passed.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	method, err := validateCreateInput(input)
	if err != nil {
		return nil, err
	}

	lines, err := s.priceLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}
	quote, err := s.engine.QuoteCart(lines, method)
	if err != nil {
		return nil, err
	}

	var resolved *maps.ResolvedAddress
	if method == enums.FulfillmentMethodDelivery {
		resolved, err = s.resolver.ResolveAddress(ctx, *input.DeliveryAddress)
		if err != nil {
			return nil, err
		}
		if err := s.delivery.Validate(method, resolved.City); err != nil {
			return nil, err
		}
	}

	scheduledFor, err := s.scheduler.Validate(ctx, input.ScheduledFor)
	if err != nil {
		return nil, err
	}

	if _, err := s.gateway.VerifyAuthorization(ctx, input.PaymentIntentID, quote.Total); err != nil {
		return nil, err
	}

	order := buildOrder(input, method, scheduledFor, lines, quote, resolved)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, txErr := s.repo.WithTx(tx).Create(ctx, order)
		return txErr
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_orders_payment_intent") {
			// A retry of an already-recorded checkout; hand back the
			// original order instead of failing.
			existing, findErr := s.repo.FindByPaymentIntent(ctx, input.PaymentIntentID)
			if findErr == nil {
				return NewOrderDTO(existing), nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to persist order")
	}

	s.metrics.IncCreated(method.String())
	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "order created")

	if notifyErr := s.notifier.OrderConfirmation(ctx, order); notifyErr != nil {
		s.metrics.IncNotificationFailure("customer_confirmation")
		s.logg.Error(ctx, "failed to send order confirmation", notifyErr)
	}
	if notifyErr := s.notifier.AdminNewOrder(ctx, order); notifyErr != nil {
		s.metrics.IncNotificationFailure("admin_alert")
		s.logg.Error(ctx, "failed to send admin order alert", notifyErr)
	}

	return NewOrderDTO(order), nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListOrders(ctx context.Context, query ListOrdersQuery, params pagination.Params) (*OrderListResult, error) {
	filter, err := s.buildListFilter(query)
	if err != nil {
		return nil, err
	}

	orders, next, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list orders")
	}

	result := &OrderListResult{Orders: make([]OrderDTO, 0, len(orders))}
	for i := range orders {
		result.Orders = append(result.Orders, *NewOrderDTO(&orders[i]))
	}
	if next != nil {
		cursor := pagination.EncodeCursor(*next)
		result.NextCursor = &cursor
	}
	return result, nil
}

func (s *service) buildListFilter(query ListOrdersQuery) (ListFilter, error) {
	var filter ListFilter

	if raw := strings.TrimSpace(query.Status); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
		}
		filter.Status = &status
	}
	if raw := strings.TrimSpace(query.Method); raw != "" {
		method, err := enums.ParseFulfillmentMethod(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fulfillment method")
		}
		filter.Method = &method
	}

	loc := s.scheduler.Location()
	if raw := strings.TrimSpace(query.ScheduledFrom); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_from must be YYYY-MM-DD")
		}
		filter.ScheduledFrom = &day
	}
	if raw := strings.TrimSpace(query.ScheduledTo); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_to must be YYYY-MM-DD")
		}
		// Inclusive of the named day.
		end := day.AddDate(0, 0, 1)
		filter.ScheduledTo = &end
	}

	return filter, nil
}

// TransitionStatus advances an order through its lifecycle. The status write
// is conditional on the status the admin saw; losing that race is a conflict,
// not a silent overwrite.
func (s *service) TransitionStatus(ctx context.Context, id uuid.UUID, nextStatus string) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(nextStatus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load order")
	}

	if !order.Status.CanTransitionTo(next, order.FulfillmentMethod) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition is not allowed").
			WithDetails(map[string]any{
				"current_status":   order.Status.String(),
				"requested_status": next.String(),
			})
	}

	moved, err := s.repo.UpdateStatus(ctx, id, order.Status, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update order status")
	}
	if !moved {
		current, findErr := s.repo.FindByID(ctx, id)
		details := map[string]any{"requested_status": next.String()}
		if findErr == nil {
			details["current_status"] = current.Status.String()
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently").
			WithDetails(details)
	}

	order.Status = next
	s.metrics.IncTransition(next.String())
	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "order status updated")

	if next.Notifies() {
		if notifyErr := s.notifier.StatusUpdate(ctx, order); notifyErr != nil {
			s.metrics.IncNotificationFailure("status_update")
			s.logg.Error(ctx, "failed to send status notification", notifyErr)
		}
	}

	return NewOrderDTO(order), nil
}

// priceLines loads each referenced catalog item and snapshots its price into
// a cart line. Tier selection is exact; a pack size the item does not sell is
// a validation error, never a decomposition into smaller packs.
func (s *service) priceLines(ctx context.Context, inputs []CartLineInput) ([]pricing.Line, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}

	lines := make([]pricing.Line, 0, len(inputs))
	for _, in := range inputs {
		if in.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive").
				WithDetails(map[string]any{"item_id": in.ItemID.String()})
		}

		item, err := s.catalog.FindByID(ctx, in.ItemID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart references an unknown item").
					WithDetails(map[string]any{"item_id": in.ItemID.String()})
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load catalog item")
		}
		if !item.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item is not available").
				WithDetails(map[string]any{"item_id": in.ItemID.String()})
		}

		var unitPrice money.Cents
		tierQty := in.TierQuantity
		switch item.Type {
		case enums.ItemTypeSingle:
			unitPrice, err = s.engine.PriceTieredItem(item, in.TierQuantity)
		case enums.ItemTypeBundle:
			tierQty = 1
			unitPrice, err = s.engine.PriceBundle(item)
		default:
			err = pkgerrors.New(pkgerrors.CodeValidation, "item has an unknown type")
		}
		if err != nil {
			return nil, err
		}

		itemID := item.ID
		lines = append(lines, pricing.Line{
			ItemID:       &itemID,
			Name:         item.Name,
			ItemType:     item.Type,
			TierQuantity: tierQty,
			Qty:          in.Qty,
			UnitPrice:    unitPrice,
		})
	}
	return lines, nil
}

func validateCreateInput(input CreateOrderInput) (enums.FulfillmentMethod, error) {
	method, err := enums.ParseFulfillmentMethod(input.FulfillmentMethod)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fulfillment method")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if strings.TrimSpace(input.PaymentIntentID) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "payment intent id is required")
	}
	if method == enums.FulfillmentMethodDelivery {
		if input.DeliveryAddress == nil || strings.TrimSpace(*input.DeliveryAddress) == "" {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "delivery orders require a delivery address")
		}
	}
	return method, nil
}

func buildOrder(
	input CreateOrderInput,
	method enums.FulfillmentMethod,
	scheduledFor time.Time,
	lines []pricing.Line,
	quote *pricing.Quote,
	resolved *maps.ResolvedAddress,
) *models.Order {
	order := &models.Order{
		Status:            enums.OrderStatusPending,
		FulfillmentMethod: method,
		CustomerName:      strings.TrimSpace(input.CustomerName),
		CustomerEmail:     strings.TrimSpace(input.CustomerEmail),
		CustomerPhone:     strings.TrimSpace(input.CustomerPhone),
		ScheduledFor:      scheduledFor,
		SubtotalCents:     quote.Subtotal,
		DeliveryFeeCents:  quote.DeliveryFee,
		TaxCents:          quote.Tax,
		TotalCents:        quote.Total,
		Currency:          enums.CurrencyCAD,
		PaymentIntentID:   input.PaymentIntentID,
		Notes:             input.Notes,
	}
	if resolved != nil {
		address := resolved.FormattedAddress
		order.DeliveryAddress = &address
		city := resolved.City
		order.DeliveryCity = &city
		province := resolved.Province
		order.DeliveryProvince = &province
		postal := resolved.PostalCode
		order.DeliveryPostalCode = &postal
	}
	for _, line := range lines {
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			ItemID:         line.ItemID,
			Name:           line.Name,
			ItemType:       line.ItemType,
			TierQuantity:   line.TierQuantity,
			Qty:            line.Qty,
			UnitPriceCents: line.UnitPrice,
			LineTotalCents: line.Total(),
		})
	}
	return order
}
