package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/linemk/switch-merchant/internal/app/handlers"
	"github.com/linemk/switch-merchant/internal/domain/models"
	"github.com/linemk/switch-merchant/internal/gateway"
	"github.com/linemk/switch-merchant/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCheckoutService - фиктивная реализация CheckoutService.
type fakeCheckoutService struct {
	product *models.Product
	err     error

	gotItem     string
	gotQuantity int
}

func (f *fakeCheckoutService) GetProduct(ctx context.Context, itemID string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func (f *fakeCheckoutService) PlaceOrder(ctx context.Context, itemID string, quantity int) (*service.Checkout, error) {
	f.gotItem, f.gotQuantity = itemID, quantity
	if f.err != nil {
		return nil, f.err
	}
	return &service.Checkout{
		Order: &models.Order{
			ID:       uuid.MustParse("11111111-2222-3333-4444-555555555555"),
			ItemID:   itemID,
			Quantity: quantity,
			Amount:   f.product.AmountFor(quantity),
			Currency: f.product.Currency,
		},
		Product:             f.product,
		ChargeID:            "charge-abc",
		InstrumentsURL:      "https://gw.example/v2/instruments",
		PublicAuthorization: "cHViOg==",
	}, nil
}

// fakePaymentService - фиктивная реализация PaymentService.
type fakePaymentService struct {
	handled    bool
	err        error
	authorized bool

	gotType, gotEvent string
}

func (f *fakePaymentService) HandleEvent(ctx context.Context, eventType, eventID string) (bool, error) {
	f.gotType, f.gotEvent = eventType, eventID
	return f.handled, f.err
}

func (f *fakePaymentService) InstrumentAuthorized(ctx context.Context, instrumentID string) (bool, error) {
	return f.authorized, f.err
}

type fakeOrderService struct {
	orders []*models.Order
	err    error
}

func (f *fakeOrderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return f.orders, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func meal() *models.Product {
	return &models.Product{ID: "sku42", Name: "Meal", Price: decimal.RequireFromString("5.50"), Currency: "EUR"}
}

func TestStoreHandler_RendersProduct(t *testing.T) {
	handler := handlers.StoreHandler(testLogger(), &fakeCheckoutService{product: meal()}, "sku42")

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	body := rr.Body.String()
	assert.Contains(t, body, "MERCHANT STORE")
	assert.Contains(t, body, "Meal")
	assert.Contains(t, body, "5.50")
	assert.Contains(t, body, "EUR")
	assert.Contains(t, body, `action="/order"`)
	assert.Contains(t, body, `value="sku42"`)
}

func TestStoreHandler_UnknownProduct(t *testing.T) {
	handler := handlers.StoreHandler(testLogger(), &fakeCheckoutService{err: service.ErrUnknownItem}, "sku42")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func postForm(handler http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/order", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestOrderHandler_FormSuccess(t *testing.T) {
	fakeSvc := &fakeCheckoutService{product: meal()}
	handler := handlers.OrderHandler(testLogger(), fakeSvc)

	rr := postForm(handler, url.Values{"item": {"sku42"}, "quantity": {"2"}})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "sku42", fakeSvc.gotItem)
	assert.Equal(t, 2, fakeSvc.gotQuantity)

	body := rr.Body.String()
	assert.Contains(t, body, "PAYMENT")
	assert.Contains(t, body, "11.00 EUR")
	assert.Contains(t, body, "charge-abc")
	assert.Contains(t, body, "https://gw.example/v2/instruments")
	assert.Contains(t, body, "/redirect?instrumentId=")
}

func TestOrderHandler_JSONSuccess(t *testing.T) {
	fakeSvc := &fakeCheckoutService{product: meal()}
	handler := handlers.OrderHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("POST", "/order", strings.NewReader(`{"item":"sku42","quantity":3}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, fakeSvc.gotQuantity)
}

func TestOrderHandler_ValidationErrors(t *testing.T) {
	cases := map[string]url.Values{
		"missing item":      {"quantity": {"1"}},
		"zero quantity":     {"item": {"sku42"}, "quantity": {"0"}},
		"negative quantity": {"item": {"sku42"}, "quantity": {"-1"}},
		"not a number":      {"item": {"sku42"}, "quantity": {"two"}},
	}
	for name, values := range cases {
		t.Run(name, func(t *testing.T) {
			fakeSvc := &fakeCheckoutService{product: meal()}
			rr := postForm(handlers.OrderHandler(testLogger(), fakeSvc), values)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, fakeSvc.gotItem, "service must not be called")
		})
	}
}

func TestOrderHandler_UnknownItem(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: fmt.Errorf("wrapped: %w", service.ErrUnknownItem)}
	rr := postForm(handlers.OrderHandler(testLogger(), fakeSvc), url.Values{"item": {"sku404"}, "quantity": {"1"}})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOrderHandler_GatewayErrorEchoed(t *testing.T) {
	apiErr := &gateway.APIError{StatusCode: http.StatusUnprocessableEntity, Body: []byte(`{"error":"bad amount"}`)}
	fakeSvc := &fakeCheckoutService{err: fmt.Errorf("create charge: %w", apiErr)}
	rr := postForm(handlers.OrderHandler(testLogger(), fakeSvc), url.Values{"item": {"sku42"}, "quantity": {"1"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"error":"bad amount"}`, rr.Body.String())
}

func TestOrderHandler_GatewayUnavailable(t *testing.T) {
	fakeSvc := &fakeCheckoutService{err: fmt.Errorf("create charge: %w", gateway.ErrUnavailable)}
	rr := postForm(handlers.OrderHandler(testLogger(), fakeSvc), url.Values{"item": {"sku42"}, "quantity": {"1"}})

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestEventsHandler_AlwaysAcknowledges(t *testing.T) {
	cases := map[string]*fakePaymentService{
		"handled":     {handled: true},
		"ignored":     {handled: false},
		"failed":      {handled: true, err: errors.New("gateway down")},
		"api failure": {handled: true, err: &gateway.APIError{StatusCode: 404, Body: []byte("{}")}},
	}
	for name, fakeSvc := range cases {
		t.Run(name, func(t *testing.T) {
			handler := handlers.EventsHandler(testLogger(), fakeSvc)

			req := httptest.NewRequest("POST", "/events?event_type=instrument.authorized&event=evt-1", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Empty(t, rr.Body.String())
			assert.Equal(t, "instrument.authorized", fakeSvc.gotType)
			assert.Equal(t, "evt-1", fakeSvc.gotEvent)
		})
	}
}

func TestRedirectHandler_Success(t *testing.T) {
	handler := handlers.RedirectHandler(testLogger(), &fakePaymentService{authorized: true})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/redirect?instrumentId=instr-1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Transaction Success")
	assert.NotContains(t, rr.Body.String(), "Transaction Error")
}

func TestRedirectHandler_Failure(t *testing.T) {
	handler := handlers.RedirectHandler(testLogger(), &fakePaymentService{authorized: false})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/redirect?instrumentId=instr-1", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Transaction Error")
	assert.Contains(t, rr.Body.String(), "try again")
}

func TestRedirectHandler_MissingInstrument(t *testing.T) {
	handler := handlers.RedirectHandler(testLogger(), &fakePaymentService{})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/redirect", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRedirectHandler_GatewayErrorEchoed(t *testing.T) {
	fakeSvc := &fakePaymentService{err: &gateway.APIError{StatusCode: http.StatusNotFound, Body: []byte(`{"error":"no such instrument"}`)}}
	handler := handlers.RedirectHandler(testLogger(), fakeSvc)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/redirect?instrumentId=nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"no such instrument"}`, rr.Body.String())
}

func TestOrdersHandler_Success(t *testing.T) {
	orders := []*models.Order{
		{ID: uuid.New(), ItemID: "sku43", Quantity: 2, Amount: decimal.RequireFromString("11.00"), Currency: "EUR", Authorized: true, InstrumentID: "instr-1"},
		{ID: uuid.New(), ItemID: "sku42", Quantity: 1, Amount: decimal.RequireFromString("5.50"), Currency: "EUR"},
	}
	handler := handlers.OrdersHandler(testLogger(), &fakeOrderService{orders: orders})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/orders", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "sku43", got[0]["itemId"])
	assert.Equal(t, true, got[0]["authorized"])
	assert.Equal(t, "instr-1", got[0]["instrumentId"])
	assert.Equal(t, 11.0, got[0]["amount"])
	assert.Equal(t, 5.5, got[1]["amount"])
	assert.Equal(t, false, got[1]["authorized"])
	assert.NotContains(t, got[1], "instrumentId")
}

func TestOrdersHandler_ServiceError(t *testing.T) {
	handler := handlers.OrdersHandler(testLogger(), &fakeOrderService{err: assert.AnError})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCORS(t *testing.T) {
	handler := handlers.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}
