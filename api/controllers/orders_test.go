package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ordersvc "github.com/ovenandcrumb/bakeshop-backend/internal/orders"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error"), Output: io.Discard})
}

type stubOrderService struct {
	quoteFn      func(ctx context.Context, input ordersvc.QuoteInput) (*ordersvc.QuoteDTO, error)
	createFn     func(ctx context.Context, input ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error)
	getFn        func(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDTO, error)
	listFn       func(ctx context.Context, query ordersvc.ListOrdersQuery, params pagination.Params) (*ordersvc.OrderListResult, error)
	transitionFn func(ctx context.Context, id uuid.UUID, nextStatus string) (*ordersvc.OrderDTO, error)
}

func (s *stubOrderService) QuoteCart(ctx context.Context, input ordersvc.QuoteInput) (*ordersvc.QuoteDTO, error) {
	return s.quoteFn(ctx, input)
}

func (s *stubOrderService) CreateOrder(ctx context.Context, input ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
	return s.createFn(ctx, input)
}

func (s *stubOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDTO, error) {
	return s.getFn(ctx, id)
}

func (s *stubOrderService) ListOrders(ctx context.Context, query ordersvc.ListOrdersQuery, params pagination.Params) (*ordersvc.OrderListResult, error) {
	return s.listFn(ctx, query, params)
}

func (s *stubOrderService) TransitionStatus(ctx context.Context, id uuid.UUID, nextStatus string) (*ordersvc.OrderDTO, error) {
	return s.transitionFn(ctx, id, nextStatus)
}

func TestCreateQuote(t *testing.T) {
	logg := testLogger()
	itemID := uuid.New()

	t.Run("success", func(t *testing.T) {
		var captured ordersvc.QuoteInput
		stub := &stubOrderService{
			quoteFn: func(ctx context.Context, input ordersvc.QuoteInput) (*ordersvc.QuoteDTO, error) {
				captured = input
				return &ordersvc.QuoteDTO{
					SubtotalCents: 1800, TaxCents: 234, TotalCents: 2034,
					Currency: "cad", PaymentIntentID: "pi_1", ClientSecret: "pi_1_secret",
				}, nil
			},
		}
		body := `{"lines":[{"item_id":"` + itemID.String() + `","tier_quantity":6,"qty":2}],"fulfillment_method":"pickup"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateQuote(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.FulfillmentMethod != "pickup" {
			t.Fatalf("expected pickup method, got %q", captured.FulfillmentMethod)
		}
		if len(captured.Lines) != 1 || captured.Lines[0].ItemID != itemID || captured.Lines[0].TierQuantity != 6 {
			t.Fatalf("unexpected lines: %+v", captured.Lines)
		}

		var envelope struct {
			Data ordersvc.QuoteDTO `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.TotalCents != 2034 || envelope.Data.ClientSecret != "pi_1_secret" {
			t.Fatalf("unexpected quote: %+v", envelope.Data)
		}
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		stub := &stubOrderService{
			quoteFn: func(ctx context.Context, input ordersvc.QuoteInput) (*ordersvc.QuoteDTO, error) {
				t.Fatal("service must not be called")
				return nil, nil
			},
		}
		body := `{"lines":[],"fulfillment_method":"pickup"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateQuote(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects unknown fulfillment method", func(t *testing.T) {
		stub := &stubOrderService{}
		body := `{"lines":[{"item_id":"` + itemID.String() + `","qty":1}],"fulfillment_method":"teleport"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateQuote(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCreateOrder(t *testing.T) {
	logg := testLogger()
	itemID := uuid.New()

	validBody := func() string {
		return `{
			"lines":[{"item_id":"` + itemID.String() + `","tier_quantity":6,"qty":2}],
			"fulfillment_method":"delivery",
			"customer_name":"Maya Singh",
			"customer_email":"maya@example.com",
			"customer_phone":"905-555-0147",
			"delivery_address":"44 King St E, Oshawa, ON",
			"scheduled_for":"2026-06-05T18:00:00Z",
			"payment_intent_id":"pi_123"
		}`
	}

	t.Run("created", func(t *testing.T) {
		orderID := uuid.New()
		stub := &stubOrderService{
			createFn: func(ctx context.Context, input ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
				if input.CustomerEmail != "maya@example.com" || input.PaymentIntentID != "pi_123" {
					t.Fatalf("unexpected input: %+v", input)
				}
				return &ordersvc.OrderDTO{ID: orderID, Status: "pending"}, nil
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(validBody()))
		rec := httptest.NewRecorder()
		CreateOrder(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing payment intent", func(t *testing.T) {
		stub := &stubOrderService{
			createFn: func(ctx context.Context, input ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
				t.Fatal("service must not be called")
				return nil, nil
			},
		}
		body := strings.Replace(validBody(), `"payment_intent_id":"pi_123"`, `"payment_intent_id":""`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateOrder(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("service validation error surfaces as 400", func(t *testing.T) {
		stub := &stubOrderService{
			createFn: func(ctx context.Context, input ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(validBody()))
		rec := httptest.NewRecorder()
		CreateOrder(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "delivery address is required") {
			t.Fatalf("expected service message in body, got %s", rec.Body.String())
		}
	})

	t.Run("payment incomplete surfaces as 402", func(t *testing.T) {
		stub := &stubOrderService{
			createFn: func(ctx context.Context, input ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
				return nil, pkgerrors.New(pkgerrors.CodePaymentIncomplete, "payment has not succeeded")
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(validBody()))
		rec := httptest.NewRecorder()
		CreateOrder(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusPaymentRequired {
			t.Fatalf("expected 402, got %d", rec.Code)
		}
	})
}

func TestGetOrder(t *testing.T) {
	logg := testLogger()

	t.Run("invalid id", func(t *testing.T) {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", "not-a-uuid")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		GetOrder(&stubOrderService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		orderID := uuid.New()
		stub := &stubOrderService{
			getFn: func(ctx context.Context, id uuid.UUID) (*ordersvc.OrderDTO, error) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			},
		}
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", orderID.String())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		GetOrder(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestAdminListOrders(t *testing.T) {
	logg := testLogger()

	var capturedQuery ordersvc.ListOrdersQuery
	var capturedParams pagination.Params
	stub := &stubOrderService{
		listFn: func(ctx context.Context, query ordersvc.ListOrdersQuery, params pagination.Params) (*ordersvc.OrderListResult, error) {
			capturedQuery = query
			capturedParams = params
			return &ordersvc.OrderListResult{Orders: []ordersvc.OrderDTO{}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?status=pending&method=delivery&scheduled_from=2026-06-01&limit=10", nil)
	rec := httptest.NewRecorder()
	AdminListOrders(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedQuery.Status != "pending" || capturedQuery.Method != "delivery" || capturedQuery.ScheduledFrom != "2026-06-01" {
		t.Fatalf("unexpected query: %+v", capturedQuery)
	}
	if capturedParams.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", capturedParams.Limit)
	}
}

func TestAdminTransitionOrderStatus(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()

	makeRequest := func(stub *stubOrderService, body string) *httptest.ResponseRecorder {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", orderID.String())
		req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID.String()+"/status", strings.NewReader(body))
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		AdminTransitionOrderStatus(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		stub := &stubOrderService{
			transitionFn: func(ctx context.Context, id uuid.UUID, nextStatus string) (*ordersvc.OrderDTO, error) {
				if id != orderID || nextStatus != "preparing" {
					t.Fatalf("unexpected call: %s %s", id, nextStatus)
				}
				return &ordersvc.OrderDTO{ID: orderID, Status: "preparing"}, nil
			},
		}
		rec := makeRequest(stub, `{"status":"preparing"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("illegal move surfaces as 422", func(t *testing.T) {
		stub := &stubOrderService{
			transitionFn: func(ctx context.Context, id uuid.UUID, nextStatus string) (*ordersvc.OrderDTO, error) {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move order from completed to preparing")
			},
		}
		rec := makeRequest(stub, `{"status":"preparing"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("missing status", func(t *testing.T) {
		rec := makeRequest(&stubOrderService{}, `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
