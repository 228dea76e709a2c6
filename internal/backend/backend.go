package backend

import (
	"context"
	"errors"

	"foodiego/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Backend is the data access facade shared by the catalog and remote
// implementations. Every call may block and honours ctx.
type Backend interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	GetRestaurantMenu(ctx context.Context, id string) ([]domain.MenuItem, error)
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

var _ Backend = (*CatalogBackend)(nil)
