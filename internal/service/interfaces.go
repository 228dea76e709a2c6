package service

import (
	"context"

	"foodiego/internal/domain"
	"foodiego/internal/storage"
)

type OrderServiceInterface interface {
	AddToCart(ctx context.Context, menuItemID, quantity int) error
	UpdateQuantity(ctx context.Context, menuItemID, quantity int) error
	RemoveFromCart(ctx context.Context, menuItemID int) error
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context) (*domain.Order, error)
	GetCart(ctx context.Context) []domain.CartLine
	GetOrders(ctx context.Context) []domain.Order
	CartSummary(ctx context.Context) domain.CartSummary
	OrderHistory(ctx context.Context) []domain.OrderHistoryEntry
	FindOrder(ctx context.Context, orderID string) (*domain.Order, error)
	OrderQRCode(ctx context.Context, orderID string) ([]byte, error)
}

type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Apply(ctx context.Context, writes ...storage.Write) error
}

type CatalogLookup interface {
	RestaurantByID(id int) (domain.Restaurant, bool)
	MenuItemByID(id int) (domain.MenuItem, bool)
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, event domain.OrderEvent) error
}

var (
	_ OrderServiceInterface = (*OrderService)(nil)
	_ KeyValueStore         = (*storage.MemoryStore)(nil)
	_ KeyValueStore         = (*storage.RedisStore)(nil)
	_ KeyValueStore         = (*storage.PostgresStore)(nil)
	_ OrderPublisher        = (*storage.KafkaPublisher)(nil)
	_ QRGenerator           = DefaultQRGenerator{}
)
