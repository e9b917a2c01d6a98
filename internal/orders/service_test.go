package orders

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ovenandcrumb/bakeshop-backend/internal/delivery"
	"github.com/ovenandcrumb/bakeshop-backend/internal/payments"
	"github.com/ovenandcrumb/bakeshop-backend/internal/pricing"
	"github.com/ovenandcrumb/bakeshop-backend/internal/scheduling"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/db/models"
	dbtypes "github.com/ovenandcrumb/bakeshop-backend/pkg/db/types"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/maps"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/pagination"
)

type fakeOrderRepo struct {
	createFn       func(ctx context.Context, order *models.Order) (*models.Order, error)
	findByIDFn     func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	findByIntentFn func(ctx context.Context, paymentIntentID string) (*models.Order, error)
	listFn         func(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, *pagination.Cursor, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error)
}

func (f *fakeOrderRepo) WithTx(_ *gorm.DB) OrderRepository { return f }

func (f *fakeOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	return f.createFn(ctx, order)
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeOrderRepo) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	return f.findByIntentFn(ctx, paymentIntentID)
}

func (f *fakeOrderRepo) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, *pagination.Cursor, error) {
	return f.listFn(ctx, filter, params)
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	if f.updateStatusFn == nil {
		return false, errors.New("unexpected status write")
	}
	return f.updateStatusFn(ctx, id, from, to)
}

type fakeCatalog struct {
	items map[uuid.UUID]*models.Item
}

func (f *fakeCatalog) FindByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

type fakeGateway struct {
	createFn func(ctx context.Context, amount money.Cents, currency enums.Currency) (*payments.Authorization, error)
	updateFn func(ctx context.Context, authorizationID string, amount money.Cents) (*payments.Authorization, error)
	verifyFn func(ctx context.Context, authorizationID string, expected money.Cents) (*payments.Authorization, error)
}

func (f *fakeGateway) CreateAuthorization(ctx context.Context, amount money.Cents, currency enums.Currency) (*payments.Authorization, error) {
	return f.createFn(ctx, amount, currency)
}

func (f *fakeGateway) UpdateAuthorizationAmount(ctx context.Context, authorizationID string, amount money.Cents) (*payments.Authorization, error) {
	return f.updateFn(ctx, authorizationID, amount)
}

func (f *fakeGateway) VerifyAuthorization(ctx context.Context, authorizationID string, expected money.Cents) (*payments.Authorization, error) {
	return f.verifyFn(ctx, authorizationID, expected)
}

type fakeResolver struct {
	resolveFn func(ctx context.Context, address string) (*maps.ResolvedAddress, error)
}

func (f *fakeResolver) ResolveAddress(ctx context.Context, address string) (*maps.ResolvedAddress, error) {
	return f.resolveFn(ctx, address)
}

type fakeNotifier struct {
	confirmations int
	adminAlerts   int
	statusUpdates int
	err           error
}

func (f *fakeNotifier) OrderConfirmation(_ context.Context, _ *models.Order) error {
	f.confirmations++
	return f.err
}

func (f *fakeNotifier) AdminNewOrder(_ context.Context, _ *models.Order) error {
	f.adminAlerts++
	return f.err
}

func (f *fakeNotifier) StatusUpdate(_ context.Context, _ *models.Order) error {
	f.statusUpdates++
	return f.err
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeBlackouts struct {
	blocked map[string]bool
}

func (f *fakeBlackouts) IsBlackedOut(_ context.Context, day time.Time) (bool, error) {
	return f.blocked[day.Format("2006-01-02")], nil
}

var (
	tartsID  = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	bundleID = uuid.MustParse("22222222-2222-4222-8222-222222222222")
)

// testClock keeps every order comfortably inside the 48 hour lead window.
var testClock = func() time.Time {
	toronto, _ := time.LoadLocation("America/Toronto")
	return time.Date(2026, 6, 1, 9, 0, 0, 0, toronto)
}

func validScheduledFor() time.Time {
	toronto, _ := time.LoadLocation("America/Toronto")
	return time.Date(2026, 6, 5, 14, 0, 0, 0, toronto)
}

type testHarness struct {
	svc      Service
	repo     *fakeOrderRepo
	gateway  *fakeGateway
	resolver *fakeResolver
	notifier *fakeNotifier
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	catalog := &fakeCatalog{items: map[uuid.UUID]*models.Item{
		tartsID: {
			ID:       tartsID,
			Name:     "Butter Tarts",
			Type:     enums.ItemTypeSingle,
			IsActive: true,
			Tiers: dbtypes.PricingTiers{
				{Quantity: 1, UnitPriceCents: 350},
				{Quantity: 6, UnitPriceCents: 1800},
			},
		},
		bundleID: func() *models.Item {
			price := money.Cents(5200)
			return &models.Item{
				ID:          bundleID,
				Name:        "Holiday Box",
				Type:        enums.ItemTypeBundle,
				IsActive:    true,
				BundlePrice: &price,
				Components:  dbtypes.BundleComponents{{Name: "Butter Tarts", Quantity: 6}},
			}
		}(),
	}}

	engine, err := pricing.NewEngine(
		config.TaxConfig{Rate: "0.13"},
		config.DeliveryConfig{FreeThresholdCents: 4500, FeeCents: 599},
	)
	require.NoError(t, err)

	deliveryValidator, err := delivery.NewValidator(config.DeliveryConfig{
		AllowedCities: []string{"ajax", "whitby", "oshawa", "pickering", "scarborough"},
	})
	require.NoError(t, err)

	scheduler, err := scheduling.NewValidator(config.OrdersConfig{
		MinLeadHours:    48,
		WindowOpenHour:  10,
		WindowCloseHour: 18,
		Timezone:        "America/Toronto",
	}, &fakeBlackouts{})
	require.NoError(t, err)
	scheduler = scheduler.WithClock(testClock)

	repo := &fakeOrderRepo{
		createFn: func(_ context.Context, order *models.Order) (*models.Order, error) {
			order.ID = uuid.New()
			return order, nil
		},
	}
	gateway := &fakeGateway{
		verifyFn: func(_ context.Context, authorizationID string, expected money.Cents) (*payments.Authorization, error) {
			return &payments.Authorization{ID: authorizationID, AmountCents: expected, Succeeded: true}, nil
		},
	}
	resolver := &fakeResolver{
		resolveFn: func(_ context.Context, address string) (*maps.ResolvedAddress, error) {
			return &maps.ResolvedAddress{
				FormattedAddress: address,
				City:             "Oshawa",
				Province:         "ON",
				PostalCode:       "L1H 1A1",
			}, nil
		},
	}
	notifier := &fakeNotifier{}

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})

	svc, err := NewService(ServiceDeps{
		Repo:      repo,
		Catalog:   catalog,
		Engine:    engine,
		Delivery:  deliveryValidator,
		Scheduler: scheduler,
		Gateway:   gateway,
		Resolver:  resolver,
		Notifier:  notifier,
		Tx:        fakeTxRunner{},
		Logger:    logg,
	})
	require.NoError(t, err)

	return &testHarness{svc: svc, repo: repo, gateway: gateway, resolver: resolver, notifier: notifier}
}

func pickupInput() CreateOrderInput {
	return CreateOrderInput{
		Lines:             []CartLineInput{{ItemID: tartsID, TierQuantity: 6, Qty: 1}},
		FulfillmentMethod: "pickup",
		CustomerName:      "Dana Whitfield",
		CustomerEmail:     "dana@example.com",
		CustomerPhone:     "905-555-0134",
		ScheduledFor:      validScheduledFor(),
		PaymentIntentID:   "pi_123",
	}
}

func deliveryInput() CreateOrderInput {
	input := pickupInput()
	input.FulfillmentMethod = "delivery"
	address := "45 King St W, Oshawa, ON"
	input.DeliveryAddress = &address
	return input
}

func TestCreateOrderPickupTotals(t *testing.T) {
	h := newHarness(t)

	var verified money.Cents
	h.gateway.verifyFn = func(_ context.Context, id string, expected money.Cents) (*payments.Authorization, error) {
		verified = expected
		return &payments.Authorization{ID: id, AmountCents: expected, Succeeded: true}, nil
	}

	dto, err := h.svc.CreateOrder(context.Background(), pickupInput())
	require.NoError(t, err)

	assert.Equal(t, money.Cents(1800), dto.SubtotalCents)
	assert.Equal(t, money.Cents(0), dto.DeliveryFeeCents)
	assert.Equal(t, money.Cents(234), dto.TaxCents)
	assert.Equal(t, money.Cents(2034), dto.TotalCents)
	assert.Equal(t, money.Cents(2034), verified)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, 1, h.notifier.confirmations)
	assert.Equal(t, 1, h.notifier.adminAlerts)
}

func TestCreateOrderDeliveryFeeAndResolvedAddress(t *testing.T) {
	h := newHarness(t)

	dto, err := h.svc.CreateOrder(context.Background(), deliveryInput())
	require.NoError(t, err)

	assert.Equal(t, money.Cents(599), dto.DeliveryFeeCents)
	assert.Equal(t, money.Cents(312), dto.TaxCents)
	assert.Equal(t, money.Cents(2711), dto.TotalCents)
	require.NotNil(t, dto.DeliveryCity)
	assert.Equal(t, "Oshawa", *dto.DeliveryCity)
}

func TestCreateOrderUnservedCity(t *testing.T) {
	h := newHarness(t)
	h.resolver.resolveFn = func(_ context.Context, address string) (*maps.ResolvedAddress, error) {
		return &maps.ResolvedAddress{FormattedAddress: address, City: "Toronto"}, nil
	}

	_, err := h.svc.CreateOrder(context.Background(), deliveryInput())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Contains(t, appErr.Details(), "allowed_cities")
}

func TestCreateOrderStopsBeforePaymentOnBadSchedule(t *testing.T) {
	h := newHarness(t)

	verifyCalled := false
	h.gateway.verifyFn = func(_ context.Context, id string, expected money.Cents) (*payments.Authorization, error) {
		verifyCalled = true
		return &payments.Authorization{ID: id, AmountCents: expected, Succeeded: true}, nil
	}

	input := pickupInput()
	toronto, _ := time.LoadLocation("America/Toronto")
	input.ScheduledFor = time.Date(2026, 6, 1, 14, 0, 0, 0, toronto) // inside lead window

	_, err := h.svc.CreateOrder(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.False(t, verifyCalled, "payment must not be touched when scheduling fails")
}

func TestCreateOrderRejectsFailedPayment(t *testing.T) {
	h := newHarness(t)
	h.gateway.verifyFn = func(_ context.Context, _ string, _ money.Cents) (*payments.Authorization, error) {
		return nil, pkgerrors.New(pkgerrors.CodePaymentIncomplete, "payment has not succeeded")
	}

	_, err := h.svc.CreateOrder(context.Background(), pickupInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodePaymentIncomplete, pkgerrors.As(err).Code())
	assert.Equal(t, 0, h.notifier.confirmations)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	h := newHarness(t)

	input := pickupInput()
	input.Lines = nil

	_, err := h.svc.CreateOrder(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateOrderUnknownTier(t *testing.T) {
	h := newHarness(t)

	input := pickupInput()
	input.Lines = []CartLineInput{{ItemID: tartsID, TierQuantity: 4, Qty: 1}}

	_, err := h.svc.CreateOrder(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateOrderNotificationFailureDoesNotFail(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = pkgerrors.New(pkgerrors.CodeDependency, "smtp down")

	dto, err := h.svc.CreateOrder(context.Background(), pickupInput())
	require.NoError(t, err)
	assert.Equal(t, "pending", dto.Status)
}

func TestCreateOrderDeliveryRequiresAddress(t *testing.T) {
	h := newHarness(t)

	input := pickupInput()
	input.FulfillmentMethod = "delivery"

	_, err := h.svc.CreateOrder(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateOrderDuplicatePaymentIntentReturnsExisting(t *testing.T) {
	h := newHarness(t)

	existing := &models.Order{
		ID:              uuid.New(),
		Status:          enums.OrderStatusPending,
		PaymentIntentID: "pi_123",
		Currency:        enums.CurrencyCAD,
	}
	h.repo.createFn = func(_ context.Context, _ *models.Order) (*models.Order, error) {
		return nil, assertUniqueViolation{}
	}
	h.repo.findByIntentFn = func(_ context.Context, paymentIntentID string) (*models.Order, error) {
		assert.Equal(t, "pi_123", paymentIntentID)
		return existing, nil
	}

	dto, err := h.svc.CreateOrder(context.Background(), pickupInput())
	require.NoError(t, err)
	assert.Equal(t, existing.ID, dto.ID)
}

// assertUniqueViolation mimics the driver error text for a duplicate key hit
// on the payment intent index.
type assertUniqueViolation struct{}

func (assertUniqueViolation) Error() string {
	return `duplicate key value violates unique constraint "idx_orders_payment_intent"`
}

func TestQuoteCartCreatesAuthorization(t *testing.T) {
	h := newHarness(t)

	h.gateway.createFn = func(_ context.Context, amount money.Cents, currency enums.Currency) (*payments.Authorization, error) {
		assert.Equal(t, money.Cents(2034), amount)
		assert.Equal(t, enums.CurrencyCAD, currency)
		return &payments.Authorization{ID: "pi_new", ClientSecret: "pi_new_secret", AmountCents: amount}, nil
	}

	dto, err := h.svc.QuoteCart(context.Background(), QuoteInput{
		Lines:             []CartLineInput{{ItemID: tartsID, TierQuantity: 6, Qty: 1}},
		FulfillmentMethod: "pickup",
	})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(2034), dto.TotalCents)
	assert.Equal(t, "pi_new", dto.PaymentIntentID)
	assert.Equal(t, "pi_new_secret", dto.ClientSecret)
}

func TestQuoteCartRepricesExistingAuthorization(t *testing.T) {
	h := newHarness(t)

	h.gateway.updateFn = func(_ context.Context, authorizationID string, amount money.Cents) (*payments.Authorization, error) {
		assert.Equal(t, "pi_123", authorizationID)
		return &payments.Authorization{ID: authorizationID, AmountCents: amount}, nil
	}

	dto, err := h.svc.QuoteCart(context.Background(), QuoteInput{
		Lines:             []CartLineInput{{ItemID: bundleID, Qty: 1}},
		FulfillmentMethod: "pickup",
		PaymentIntentID:   "pi_123",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", dto.PaymentIntentID)
	// 5200 subtotal, free pickup, 13% tax.
	assert.Equal(t, money.Cents(5876), dto.TotalCents)
}

func storedOrder(status enums.OrderStatus, method enums.FulfillmentMethod) *models.Order {
	return &models.Order{
		ID:                uuid.New(),
		Status:            status,
		FulfillmentMethod: method,
		Currency:          enums.CurrencyCAD,
	}
}

func TestTransitionStatusHappyPath(t *testing.T) {
	h := newHarness(t)

	order := storedOrder(enums.OrderStatusPending, enums.FulfillmentMethodPickup)
	h.repo.findByIDFn = func(_ context.Context, _ uuid.UUID) (*models.Order, error) {
		return order, nil
	}
	h.repo.updateStatusFn = func(_ context.Context, _ uuid.UUID, from, to enums.OrderStatus) (bool, error) {
		assert.Equal(t, enums.OrderStatusPending, from)
		assert.Equal(t, enums.OrderStatusPreparing, to)
		return true, nil
	}

	dto, err := h.svc.TransitionStatus(context.Background(), order.ID, "preparing")
	require.NoError(t, err)
	assert.Equal(t, "preparing", dto.Status)
	assert.Equal(t, 0, h.notifier.statusUpdates, "preparing does not notify")
}

func TestTransitionStatusNotifiesOnReady(t *testing.T) {
	h := newHarness(t)

	order := storedOrder(enums.OrderStatusPreparing, enums.FulfillmentMethodPickup)
	h.repo.findByIDFn = func(_ context.Context, _ uuid.UUID) (*models.Order, error) {
		return order, nil
	}
	h.repo.updateStatusFn = func(_ context.Context, _ uuid.UUID, _, _ enums.OrderStatus) (bool, error) {
		return true, nil
	}

	_, err := h.svc.TransitionStatus(context.Background(), order.ID, "ready")
	require.NoError(t, err)
	assert.Equal(t, 1, h.notifier.statusUpdates)
}

func TestTransitionStatusInvalidMoves(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name   string
		order  *models.Order
		target string
	}{
		{"pending pickup cannot go out for delivery", storedOrder(enums.OrderStatusPending, enums.FulfillmentMethodPickup), "out-for-delivery"},
		{"backwards", storedOrder(enums.OrderStatusReady, enums.FulfillmentMethodPickup), "preparing"},
		{"completed is terminal", storedOrder(enums.OrderStatusCompleted, enums.FulfillmentMethodPickup), "cancelled"},
		{"cancelled is terminal", storedOrder(enums.OrderStatusCancelled, enums.FulfillmentMethodDelivery), "preparing"},
		{"pickup cannot go out for delivery", storedOrder(enums.OrderStatusReady, enums.FulfillmentMethodPickup), "out-for-delivery"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h.repo.findByIDFn = func(_ context.Context, _ uuid.UUID) (*models.Order, error) {
				return tc.order, nil
			}
			_, err := h.svc.TransitionStatus(context.Background(), tc.order.ID, tc.target)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
		})
	}
}

func TestTransitionStatusUnknownStatus(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.TransitionStatus(context.Background(), uuid.New(), "shipped")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestTransitionStatusConcurrentChange(t *testing.T) {
	h := newHarness(t)

	order := storedOrder(enums.OrderStatusPending, enums.FulfillmentMethodPickup)
	h.repo.findByIDFn = func(_ context.Context, _ uuid.UUID) (*models.Order, error) {
		return order, nil
	}
	h.repo.updateStatusFn = func(_ context.Context, _ uuid.UUID, _, _ enums.OrderStatus) (bool, error) {
		return false, nil
	}

	_, err := h.svc.TransitionStatus(context.Background(), order.ID, "preparing")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestTransitionStatusNotificationFailureDoesNotFail(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = pkgerrors.New(pkgerrors.CodeDependency, "smtp down")

	order := storedOrder(enums.OrderStatusPreparing, enums.FulfillmentMethodPickup)
	h.repo.findByIDFn = func(_ context.Context, _ uuid.UUID) (*models.Order, error) {
		return order, nil
	}
	h.repo.updateStatusFn = func(_ context.Context, _ uuid.UUID, _, _ enums.OrderStatus) (bool, error) {
		return true, nil
	}

	dto, err := h.svc.TransitionStatus(context.Background(), order.ID, "ready")
	require.NoError(t, err)
	assert.Equal(t, "ready", dto.Status)
}

func TestListOrdersFilters(t *testing.T) {
	h := newHarness(t)

	var gotFilter ListFilter
	h.repo.listFn = func(_ context.Context, filter ListFilter, _ pagination.Params) ([]models.Order, *pagination.Cursor, error) {
		gotFilter = filter
		return []models.Order{*storedOrder(enums.OrderStatusPending, enums.FulfillmentMethodPickup)}, nil, nil
	}

	result, err := h.svc.ListOrders(context.Background(), ListOrdersQuery{
		Status:        "pending",
		Method:        "delivery",
		ScheduledFrom: "2026-06-01",
		ScheduledTo:   "2026-06-07",
	}, pagination.Params{})
	require.NoError(t, err)
	require.NotNil(t, gotFilter.Status)
	assert.Equal(t, enums.OrderStatusPending, *gotFilter.Status)
	require.NotNil(t, gotFilter.Method)
	assert.Equal(t, enums.FulfillmentMethodDelivery, *gotFilter.Method)

	loc, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)
	require.NotNil(t, gotFilter.ScheduledFrom)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, loc), gotFilter.ScheduledFrom.In(loc))
	require.NotNil(t, gotFilter.ScheduledTo)
	assert.Equal(t, time.Date(2026, 6, 8, 0, 0, 0, 0, loc), gotFilter.ScheduledTo.In(loc))

	assert.Len(t, result.Orders, 1)
	assert.Nil(t, result.NextCursor)
}

func TestListOrdersRejectsBadDateFilter(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.ListOrders(context.Background(), ListOrdersQuery{ScheduledFrom: "June 1"}, pagination.Params{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestGetOrderNotFound(t *testing.T) {
	h := newHarness(t)
	h.repo.findByIDFn = func(_ context.Context, _ uuid.UUID) (*models.Order, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := h.svc.GetOrder(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
