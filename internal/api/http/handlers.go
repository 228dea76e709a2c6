package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"foodiego/internal/backend"
	"foodiego/internal/catalog"
	"foodiego/internal/domain"
	"foodiego/internal/filter"
	"foodiego/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Handler struct {
	Backend backend.Backend
	Orders  service.OrderServiceInterface
	Logger  *zap.Logger
}

func NewHandler(b backend.Backend, orders service.OrderServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Backend: b,
		Orders:  orders,
		Logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/details", h.getRestaurantDetails).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/menuitems", h.getRestaurantMenu).Methods("GET")

	r.HandleFunc("/api/menuitems", h.getMenuItems).Methods("GET")
	r.HandleFunc("/api/menuitems/{id}", h.getMenuItem).Methods("GET")

	r.HandleFunc("/api/filters/restaurants", h.getRestaurantFilters).Methods("GET")
	r.HandleFunc("/api/filters/menuitems", h.getMenuItemFilters).Methods("GET")

	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{menuItemId}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/cart/items/{menuItemId}", h.removeCartItem).Methods("DELETE")

	r.HandleFunc("/api/checkout", h.checkout).Methods("POST")

	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storefront",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type restaurantList struct {
	Items         []domain.Restaurant `json:"items"`
	Total         int                 `json:"total"`
	Shown         int                 `json:"shown"`
	ActiveFilters []string            `json:"activeFilters"`
}

type menuItemList struct {
	Items         []domain.MenuItem `json:"items"`
	Total         int               `json:"total"`
	Shown         int               `json:"shown"`
	ActiveFilters []string          `json:"activeFilters"`
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Backend.ListRestaurants(r.Context())
	if err != nil {
		h.backendError(w, err, "Failed to load restaurants")
		return
	}
	sel := filter.RestaurantSelectionFromQuery(r.URL.Query())
	shown := filter.Restaurants(restaurants, sel)
	respondJSON(w, http.StatusOK, restaurantList{
		Items:         shown,
		Total:         len(restaurants),
		Shown:         len(shown),
		ActiveFilters: sel.Active(),
	})
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.Backend.GetRestaurant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.backendError(w, err, "Restaurant not found")
		return
	}
	respondJSON(w, http.StatusOK, restaurant)
}

type restaurantDetails struct {
	Restaurant *domain.Restaurant `json:"restaurant"`
	Menu       []domain.MenuItem  `json:"menu"`
}

// getRestaurantDetails loads the restaurant and its menu concurrently. A
// failed half is reported as null or an empty menu.
func (h *Handler) getRestaurantDetails(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	details := restaurantDetails{Menu: []domain.MenuItem{}}

	var g errgroup.Group
	g.Go(func() error {
		restaurant, err := h.Backend.GetRestaurant(r.Context(), id)
		if err != nil {
			h.Logger.Warn("restaurant unavailable", zap.String("restaurant_id", id), zap.Error(err))
			return nil
		}
		details.Restaurant = restaurant
		return nil
	})
	g.Go(func() error {
		menu, err := h.Backend.GetRestaurantMenu(r.Context(), id)
		if err != nil {
			h.Logger.Warn("menu unavailable", zap.String("restaurant_id", id), zap.Error(err))
			return nil
		}
		details.Menu = menu
		return nil
	})
	_ = g.Wait()

	respondJSON(w, http.StatusOK, details)
}

func (h *Handler) getRestaurantMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.Backend.GetRestaurantMenu(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.backendError(w, err, "Failed to load menu")
		return
	}
	h.respondMenu(w, r, menu)
}

func (h *Handler) getMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Backend.ListMenuItems(r.Context())
	if err != nil {
		h.backendError(w, err, "Failed to load menu items")
		return
	}
	h.respondMenu(w, r, items)
}

func (h *Handler) respondMenu(w http.ResponseWriter, r *http.Request, items []domain.MenuItem) {
	sel := filter.MenuItemSelectionFromQuery(r.URL.Query())
	shown := filter.MenuItems(items, sel)
	respondJSON(w, http.StatusOK, menuItemList{
		Items:         shown,
		Total:         len(items),
		Shown:         len(shown),
		ActiveFilters: sel.Active(),
	})
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Backend.GetMenuItem(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.backendError(w, err, "Menu item not found")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) getRestaurantFilters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"cuisines":    filter.CuisineOptions,
		"priceRanges": filter.PriceRangeOptions,
		"locations":   filter.LocationOptions,
		"ratings":     filter.RatingOptions,
	})
}

func (h *Handler) getMenuItemFilters(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"categories":  filter.CategoryOptions,
		"priceRanges": filter.PriceRangeOptions,
		"spiceLevels": filter.SpiceLevelOptions,
		"dietary":     filter.DietaryOptions,
	})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Orders.CartSummary(r.Context()))
}

type addCartItemRequest struct {
	MenuItemID int  `json:"menuItemId"`
	Quantity   *int `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if err := h.Orders.AddToCart(r.Context(), req.MenuItemID, quantity); err != nil {
		h.orderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.Orders.CartSummary(r.Context()))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	menuItemID, ok := catalog.ParseID(mux.Vars(r)["menuItemId"])
	if !ok {
		http.Error(w, "Invalid menu item id", http.StatusBadRequest)
		return
	}
	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Orders.UpdateQuantity(r.Context(), menuItemID, req.Quantity); err != nil {
		h.orderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.Orders.CartSummary(r.Context()))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	menuItemID, ok := catalog.ParseID(mux.Vars(r)["menuItemId"])
	if !ok {
		http.Error(w, "Invalid menu item id", http.StatusBadRequest)
		return
	}
	if err := h.Orders.RemoveFromCart(r.Context(), menuItemID); err != nil {
		h.orderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.Orders.CartSummary(r.Context()))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.ClearCart(r.Context()); err != nil {
		h.orderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Checkout(r.Context())
	if err != nil {
		h.orderError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.Orders.OrderHistory(r.Context()))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Backend.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.backendError(w, err, "Order not found")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Orders.OrderQRCode(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.orderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) backendError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		http.Error(w, notFoundMsg, http.StatusNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
	default:
		h.Logger.Error("backend request failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

func (h *Handler) orderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrOrderNotFound):
		http.Error(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, service.ErrQRUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		h.Logger.Error("order operation failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
