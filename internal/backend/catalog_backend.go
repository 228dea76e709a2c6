package backend

import (
	"context"
	"fmt"
	"time"

	"foodiego/internal/catalog"
	"foodiego/internal/domain"
)

// Delays are the artificial latencies of the catalog backend.
type Delays struct {
	List  time.Duration
	Get   time.Duration
	Order time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		List:  150 * time.Millisecond,
		Get:   120 * time.Millisecond,
		Order: 200 * time.Millisecond,
	}
}

// CatalogBackend serves the generated catalog.
type CatalogBackend struct {
	catalog *catalog.Catalog
	delays  Delays
	now     func() time.Time
}

func NewCatalogBackend(c *catalog.Catalog, delays Delays) *CatalogBackend {
	return &CatalogBackend{catalog: c, delays: delays, now: time.Now}
}

func (b *CatalogBackend) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	if err := wait(ctx, b.delays.List); err != nil {
		return nil, err
	}
	return b.catalog.Restaurants(), nil
}

func (b *CatalogBackend) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	if err := wait(ctx, b.delays.Get); err != nil {
		return nil, err
	}
	rid, ok := catalog.ParseID(id)
	if !ok {
		return nil, fmt.Errorf("restaurant %q: %w", id, ErrNotFound)
	}
	r, ok := b.catalog.RestaurantByID(rid)
	if !ok {
		return nil, fmt.Errorf("restaurant %q: %w", id, ErrNotFound)
	}
	return &r, nil
}

// GetRestaurantMenu returns an empty menu for unknown restaurants.
func (b *CatalogBackend) GetRestaurantMenu(ctx context.Context, id string) ([]domain.MenuItem, error) {
	if err := wait(ctx, b.delays.Get); err != nil {
		return nil, err
	}
	rid, ok := catalog.ParseID(id)
	if !ok {
		return []domain.MenuItem{}, nil
	}
	return b.catalog.MenuForRestaurant(rid), nil
}

func (b *CatalogBackend) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	if err := wait(ctx, b.delays.List); err != nil {
		return nil, err
	}
	return b.catalog.MenuItems(), nil
}

func (b *CatalogBackend) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	if err := wait(ctx, b.delays.Get); err != nil {
		return nil, err
	}
	mid, ok := catalog.ParseID(id)
	if !ok {
		return nil, fmt.Errorf("menu item %q: %w", id, ErrNotFound)
	}
	item, ok := b.catalog.MenuItemByID(mid)
	if !ok {
		return nil, fmt.Errorf("menu item %q: %w", id, ErrNotFound)
	}
	return &item, nil
}

// GetOrder builds a demo order view for id. It does not consult the order
// history.
func (b *CatalogBackend) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if err := wait(ctx, b.delays.Order); err != nil {
		return nil, err
	}
	order, ok := SyntheticOrder(b.catalog, id, b.now().UTC())
	if !ok {
		return nil, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}
	return order, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
