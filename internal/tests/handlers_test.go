package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "foodiego/internal/api/http"
	"foodiego/internal/backend"
	"foodiego/internal/catalog"
	"foodiego/internal/domain"
	"foodiego/internal/mocks"
	"foodiego/internal/service"
	"foodiego/internal/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRouter(b *mocks.Backend, orders *mocks.OrderServiceInterface) *mux.Router {
	handler := httpapi.NewHandler(b, orders, zap.NewNop())
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandler_getRestaurants(t *testing.T) {
	mockBackend := mocks.NewBackend(t)
	router := setupTestRouter(mockBackend, mocks.NewOrderServiceInterface(t))
	all := catalog.Generate(10, 1).Restaurants()

	tests := []struct {
		name         string
		query        string
		prepareMocks func()
		expectedCode int
		expectedBody string
	}{
		{
			name:  "no_filters",
			query: "",
			prepareMocks: func() {
				mockBackend.On("ListRestaurants", mock.Anything).Return(all, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"total":10,"shown":10`,
		},
		{
			name:  "search_thai",
			query: "?search=THAI",
			prepareMocks: func() {
				mockBackend.On("ListRestaurants", mock.Anything).Return(all, nil).Once()
			},
			expectedCode: http.StatusOK,
			expectedBody: `"total":10,"shown":1,"activeFilters":["Search: \"THAI\""]`,
		},
		{
			name:  "backend_failure",
			query: "",
			prepareMocks: func() {
				mockBackend.On("ListRestaurants", mock.Anything).Return(nil, errors.New("Request failed with 500")).Once()
			},
			expectedCode: http.StatusBadGateway,
			expectedBody: "Request failed with 500",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()
			recorder := serve(router, "GET", "/api/restaurants"+testCase.query, "")
			assert.Equal(t, testCase.expectedCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), testCase.expectedBody)
		})
	}
}

func TestHandler_getRestaurant(t *testing.T) {
	mockBackend := mocks.NewBackend(t)
	router := setupTestRouter(mockBackend, mocks.NewOrderServiceInterface(t))

	mockBackend.On("GetRestaurant", mock.Anything, "3").Return(&domain.Restaurant{ID: 3, Name: "Blue Moon Bistro"}, nil).Once()
	mockBackend.On("GetRestaurant", mock.Anything, "42").Return(nil, fmt.Errorf("restaurant \"42\": %w", backend.ErrNotFound)).Once()

	recorder := serve(router, "GET", "/api/restaurants/3", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"name":"Blue Moon Bistro"`)

	recorder = serve(router, "GET", "/api/restaurants/42", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Restaurant not found")
}

func TestHandler_getRestaurantDetails(t *testing.T) {
	mockBackend := mocks.NewBackend(t)
	router := setupTestRouter(mockBackend, mocks.NewOrderServiceInterface(t))

	menu := catalog.Generate(2, 2).MenuForRestaurant(2)
	mockBackend.On("GetRestaurant", mock.Anything, "2").Return(nil, errors.New("timeout")).Once()
	mockBackend.On("GetRestaurantMenu", mock.Anything, "2").Return(menu, nil).Once()
	mockBackend.On("GetRestaurant", mock.Anything, "1").Return(&domain.Restaurant{ID: 1, Name: "The Golden Plate"}, nil).Once()
	mockBackend.On("GetRestaurantMenu", mock.Anything, "1").Return(nil, errors.New("boom")).Once()

	recorder := serve(router, "GET", "/api/restaurants/2/details", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var details struct {
		Restaurant *domain.Restaurant `json:"restaurant"`
		Menu       []domain.MenuItem  `json:"menu"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &details))
	assert.Nil(t, details.Restaurant)
	assert.Len(t, details.Menu, 2)

	recorder = serve(router, "GET", "/api/restaurants/1/details", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"restaurant":{"id":1,"name":"The Golden Plate","priceRange":"","cuisines":null,"rating":0},"menu":[]}`, recorder.Body.String())
}

func TestHandler_getMenuItems(t *testing.T) {
	mockBackend := mocks.NewBackend(t)
	router := setupTestRouter(mockBackend, mocks.NewOrderServiceInterface(t))
	items := catalog.Generate(10, 10).MenuItems()

	mockBackend.On("ListMenuItems", mock.Anything).Return(items, nil).Once()

	recorder := serve(router, "GET", "/api/menuitems?price=%24%24+(%2410+-+%2425)&dietary=Vegan", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Items []domain.MenuItem `json:"items"`
		Total int               `json:"total"`
		Shown int               `json:"shown"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 100, body.Total)
	assert.Equal(t, len(body.Items), body.Shown)
	require.NotEmpty(t, body.Items)
	for _, item := range body.Items {
		assert.True(t, item.IsVegan)
		assert.True(t, item.Price >= 10 && item.Price < 25)
	}
}

func TestHandler_getMenuItem(t *testing.T) {
	mockBackend := mocks.NewBackend(t)
	router := setupTestRouter(mockBackend, mocks.NewOrderServiceInterface(t))

	mockBackend.On("GetMenuItem", mock.Anything, "abc").Return(nil, backend.ErrNotFound).Once()

	recorder := serve(router, "GET", "/api/menuitems/abc", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Menu item not found")
}

func TestHandler_cart(t *testing.T) {
	mockBackend := mocks.NewBackend(t)
	mockOrders := mocks.NewOrderServiceInterface(t)
	router := setupTestRouter(mockBackend, mockOrders)
	summary := domain.CartSummary{Lines: []domain.CartSummaryLine{}, Total: 0}

	tests := []struct {
		name         string
		method       string
		target       string
		payload      string
		prepareMocks func()
		expectedCode int
	}{
		{
			name:    "add_default_quantity",
			method:  "POST",
			target:  "/api/cart/items",
			payload: `{"menuItemId":5}`,
			prepareMocks: func() {
				mockOrders.On("AddToCart", mock.Anything, 5, 1).Return(nil).Once()
				mockOrders.On("CartSummary", mock.Anything).Return(summary).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "add_invalid_quantity",
			method:  "POST",
			target:  "/api/cart/items",
			payload: `{"menuItemId":5,"quantity":0}`,
			prepareMocks: func() {
				mockOrders.On("AddToCart", mock.Anything, 5, 0).Return(service.ErrInvalidQuantity).Once()
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "add_invalid_json",
			method:       "POST",
			target:       "/api/cart/items",
			payload:      `bad json`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:    "update_quantity",
			method:  "PUT",
			target:  "/api/cart/items/5",
			payload: `{"quantity":0}`,
			prepareMocks: func() {
				mockOrders.On("UpdateQuantity", mock.Anything, 5, 0).Return(nil).Once()
				mockOrders.On("CartSummary", mock.Anything).Return(summary).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "update_bad_id",
			method:       "PUT",
			target:       "/api/cart/items/five",
			payload:      `{"quantity":1}`,
			prepareMocks: func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "remove",
			method: "DELETE",
			target: "/api/cart/items/5",
			prepareMocks: func() {
				mockOrders.On("RemoveFromCart", mock.Anything, 5).Return(nil).Once()
				mockOrders.On("CartSummary", mock.Anything).Return(summary).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "clear_storage_failure",
			method: "DELETE",
			target: "/api/cart",
			prepareMocks: func() {
				mockOrders.On("ClearCart", mock.Anything).Return(errors.New("failed to save cart: read only")).Once()
			},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:   "checkout_empty",
			method: "POST",
			target: "/api/checkout",
			prepareMocks: func() {
				mockOrders.On("Checkout", mock.Anything).Return(nil, service.ErrEmptyCart).Once()
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:   "checkout",
			method: "POST",
			target: "/api/checkout",
			prepareMocks: func() {
				mockOrders.On("Checkout", mock.Anything).Return(&domain.Order{ID: "1", Status: "processing"}, nil).Once()
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:   "qrcode_unknown_order",
			method: "GET",
			target: "/api/orders/77/qrcode",
			prepareMocks: func() {
				mockOrders.On("OrderQRCode", mock.Anything, "77").Return(nil, service.ErrOrderNotFound).Once()
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()
			recorder := serve(router, testCase.method, testCase.target, testCase.payload)
			assert.Equal(t, testCase.expectedCode, recorder.Code)
		})
	}
}

func TestHandler_getOrder(t *testing.T) {
	mockBackend := mocks.NewBackend(t)
	router := setupTestRouter(mockBackend, mocks.NewOrderServiceInterface(t))

	mockBackend.On("GetOrder", mock.Anything, "12").
		Return(&domain.Order{ID: "12", RestaurantID: 3, Status: domain.OrderStatusProcessing}, nil).Once()

	recorder := serve(router, "GET", "/api/orders/12", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"restaurantId":3`)
}

func TestHandler_filters(t *testing.T) {
	router := setupTestRouter(mocks.NewBackend(t), mocks.NewOrderServiceInterface(t))

	recorder := serve(router, "GET", "/api/filters/restaurants", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"All Cuisines"`)

	recorder = serve(router, "GET", "/api/filters/menuitems", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"dietary":["Vegetarian","Vegan","Gluten-Free"]`)
}

func TestRouter_Storefront(t *testing.T) {
	cat := catalog.Generate(10, 10)
	orders := service.NewOrderService(storage.NewMemoryStore(), cat, zap.NewNop(),
		service.WithQRGenerator(service.DefaultQRGenerator{BaseURL: "http://localhost:8080"}))
	handler := httpapi.NewHandler(backend.NewCatalogBackend(cat, backend.Delays{}), orders, zap.NewNop())
	router := httpapi.NewRouter(handler)

	recorder := serve(router, "GET", "/health", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	_, err := uuid.Parse(recorder.Header().Get(httpapi.RequestIDHeader))
	assert.NoError(t, err)

	recorder = serve(router, "POST", "/api/checkout", "")
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = serve(router, "POST", "/api/cart/items", `{"menuItemId":21,"quantity":2}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = serve(router, "POST", "/api/cart/items", `{"menuItemId":25}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var summary domain.CartSummary
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &summary))
	require.Len(t, summary.Lines, 2)

	recorder = serve(router, "POST", "/api/checkout", "")
	require.Equal(t, http.StatusCreated, recorder.Code)
	var order domain.Order
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &order))
	assert.Equal(t, summary.Total, order.Total)
	assert.Equal(t, 3, order.RestaurantID)

	assert.Empty(t, orders.GetCart(context.Background()))

	recorder = serve(router, "GET", "/api/orders", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"restaurantName":"Blue Moon Bistro"`)

	recorder = serve(router, "GET", "/api/orders/"+order.ID+"/qrcode", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))

	recorder = serve(router, "GET", "/api/orders/12/qrcode", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = serve(router, "GET", "/api/orders/12", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"restaurantId":3`)
}
