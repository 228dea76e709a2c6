package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"foodiego/internal/catalog"
	"foodiego/internal/domain"
	"foodiego/internal/storage"

	"go.uber.org/zap"
)

const (
	CartKey   = "foodiego-cart"
	OrdersKey = "foodiego-orders"

	OrderPlacedEvent = "order_placed"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrOrderNotFound   = errors.New("order not found")
	ErrQRUnavailable   = errors.New("qr code generator is not configured")
)

type OrderService struct {
	store     KeyValueStore
	lookup    CatalogLookup
	publisher OrderPublisher
	qr        QRGenerator
	codec     storage.Codec
	logger    *zap.Logger
	now       func() time.Time

	// mu serialises read-modify-write sequences on the cart and history.
	mu sync.Mutex
}

type Option func(*OrderService)

func WithPublisher(publisher OrderPublisher) Option {
	return func(s *OrderService) { s.publisher = publisher }
}

func WithQRGenerator(qr QRGenerator) Option {
	return func(s *OrderService) { s.qr = qr }
}

func WithCodec(codec storage.Codec) Option {
	return func(s *OrderService) { s.codec = codec }
}

func WithClock(now func() time.Time) Option {
	return func(s *OrderService) { s.now = now }
}

func NewOrderService(store KeyValueStore, lookup CatalogLookup, logger *zap.Logger, opts ...Option) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &OrderService{
		store:  store,
		lookup: lookup,
		codec:  storage.JSONCodec{},
		logger: logger.Named("orders"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddToCart increments the line for menuItemID or appends a new one.
func (s *OrderService) AddToCart(ctx context.Context, menuItemID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := readState[domain.CartLine](ctx, s, CartKey)
	if err != nil {
		return err
	}
	if i := lineIndex(cart, menuItemID); i >= 0 {
		cart[i].Quantity += quantity
	} else {
		cart = append(cart, domain.CartLine{MenuItemID: menuItemID, Quantity: quantity})
	}
	return s.saveCart(ctx, cart)
}

// UpdateQuantity replaces the line quantity. A quantity of zero or less
// removes the line.
func (s *OrderService) UpdateQuantity(ctx context.Context, menuItemID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, menuItemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := readState[domain.CartLine](ctx, s, CartKey)
	if err != nil {
		return err
	}
	i := lineIndex(cart, menuItemID)
	if i < 0 {
		return nil
	}
	cart[i].Quantity = quantity
	return s.saveCart(ctx, cart)
}

func (s *OrderService) RemoveFromCart(ctx context.Context, menuItemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := readState[domain.CartLine](ctx, s, CartKey)
	if err != nil {
		return err
	}
	i := lineIndex(cart, menuItemID)
	if i < 0 {
		return nil
	}
	return s.saveCart(ctx, slices.Delete(cart, i, i+1))
}

func (s *OrderService) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveCart(ctx, []domain.CartLine{})
}

// Checkout turns the cart into an order, appends it to the history and
// empties the cart in one storage batch. It returns ErrEmptyCart with a nil
// order when there is nothing to check out.
func (s *OrderService) Checkout(ctx context.Context) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := readState[domain.CartLine](ctx, s, CartKey)
	if err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	first, ok := s.lookup.MenuItemByID(cart[0].MenuItemID)
	if !ok {
		return nil, ErrEmptyCart
	}
	restaurant, ok := s.lookup.RestaurantByID(first.RestaurantID)
	if !ok {
		return nil, ErrEmptyCart
	}

	orders, err := readState[domain.Order](ctx, s, OrdersKey)
	if err != nil {
		return nil, err
	}
	createdAt := s.now().UTC()
	order := domain.Order{
		ID:           nextOrderID(createdAt, orders),
		RestaurantID: restaurant.ID,
		Status:       domain.OrderStatusProcessing,
		CreatedAt:    createdAt,
		Items:        slices.Clone(cart),
		Total:        s.total(cart),
	}

	ordersData, err := s.codec.Marshal(append(orders, order))
	if err != nil {
		return nil, fmt.Errorf("failed to encode orders: %w", err)
	}
	if err := s.store.Apply(ctx, storage.Put(OrdersKey, ordersData), storage.Remove(CartKey)); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("restaurant_id", order.RestaurantID),
		zap.Float64("total", order.Total))
	s.publish(ctx, order)

	return &order, nil
}

func (s *OrderService) GetCart(ctx context.Context) []domain.CartLine {
	return s.loadCart(ctx)
}

func (s *OrderService) GetOrders(ctx context.Context) []domain.Order {
	return s.loadOrders(ctx)
}

// CartSummary joins the cart with the catalog. Lines whose item no longer
// resolves keep a nil MenuItem and a zero subtotal.
func (s *OrderService) CartSummary(ctx context.Context) domain.CartSummary {
	cart := s.loadCart(ctx)
	summary := domain.CartSummary{Lines: make([]domain.CartSummaryLine, 0, len(cart))}
	for _, line := range cart {
		entry := domain.CartSummaryLine{CartLine: line}
		if item, ok := s.lookup.MenuItemByID(line.MenuItemID); ok {
			entry.MenuItem = &item
			entry.Subtotal = catalog.RoundCents(item.Price * float64(line.Quantity))
		}
		summary.Lines = append(summary.Lines, entry)
	}
	summary.Total = s.total(cart)
	return summary
}

func (s *OrderService) OrderHistory(ctx context.Context) []domain.OrderHistoryEntry {
	orders := s.loadOrders(ctx)
	history := make([]domain.OrderHistoryEntry, 0, len(orders))
	for _, order := range orders {
		entry := domain.OrderHistoryEntry{Order: order}
		if restaurant, ok := s.lookup.RestaurantByID(order.RestaurantID); ok {
			entry.RestaurantName = restaurant.Name
		}
		history = append(history, entry)
	}
	return history
}

// FindOrder looks orderID up in the recorded history.
func (s *OrderService) FindOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	for _, order := range s.loadOrders(ctx) {
		if order.ID == orderID {
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (s *OrderService) OrderQRCode(ctx context.Context, orderID string) ([]byte, error) {
	if s.qr == nil {
		return nil, ErrQRUnavailable
	}
	order, err := s.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.Generate(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}
	return png, nil
}

func (s *OrderService) total(cart []domain.CartLine) float64 {
	var total float64
	for _, line := range cart {
		if item, ok := s.lookup.MenuItemByID(line.MenuItemID); ok {
			total += item.Price * float64(line.Quantity)
		}
	}
	return catalog.RoundCents(total)
}

func (s *OrderService) publish(ctx context.Context, order domain.Order) {
	if s.publisher == nil {
		return
	}
	itemCount := 0
	for _, line := range order.Items {
		itemCount += line.Quantity
	}
	err := s.publisher.PublishOrder(ctx, domain.OrderEvent{
		Type:         OrderPlacedEvent,
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		Total:        order.Total,
		ItemCount:    itemCount,
		Timestamp:    order.CreatedAt,
	})
	if err != nil {
		s.logger.Warn("failed to publish order event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (s *OrderService) loadCart(ctx context.Context) []domain.CartLine {
	cart, err := readState[domain.CartLine](ctx, s, CartKey)
	if err != nil {
		s.logger.Warn("state unreadable, treating as empty", zap.String("key", CartKey), zap.Error(err))
		return []domain.CartLine{}
	}
	return cart
}

func (s *OrderService) loadOrders(ctx context.Context) []domain.Order {
	orders, err := readState[domain.Order](ctx, s, OrdersKey)
	if err != nil {
		s.logger.Warn("state unreadable, treating as empty", zap.String("key", OrdersKey), zap.Error(err))
		return []domain.Order{}
	}
	return orders
}

// readState decodes the list stored under key. Missing or corrupt state is
// empty; a failing store is returned so writers never overwrite what they
// could not read.
func readState[T any](ctx context.Context, s *OrderService, key string) ([]T, error) {
	data, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	var decoded []T
	if err := s.codec.Unmarshal(data, &decoded); err != nil {
		s.logger.Warn("state corrupt, treating as empty", zap.String("key", key), zap.Error(err))
		return []T{}, nil
	}
	if decoded == nil {
		return []T{}, nil
	}
	return decoded, nil
}

func (s *OrderService) saveCart(ctx context.Context, cart []domain.CartLine) error {
	data, err := s.codec.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.store.Set(ctx, CartKey, data); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func lineIndex(cart []domain.CartLine, menuItemID int) int {
	return slices.IndexFunc(cart, func(line domain.CartLine) bool { return line.MenuItemID == menuItemID })
}

// nextOrderID uses the creation time in milliseconds, moved past the largest
// numeric id already in the history.
func nextOrderID(createdAt time.Time, orders []domain.Order) string {
	id := createdAt.UnixMilli()
	for _, order := range orders {
		if existing, err := strconv.ParseInt(order.ID, 10, 64); err == nil && existing >= id {
			id = existing + 1
		}
	}
	return strconv.FormatInt(id, 10)
}
