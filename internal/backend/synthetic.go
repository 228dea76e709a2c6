package backend

import (
	"time"

	"foodiego/internal/catalog"
	"foodiego/internal/domain"
)

const syntheticOrderLines = 3

// SyntheticOrder derives a deterministic order from the digits of id. The
// digits, taken modulo the restaurant count, index the restaurant list; no
// digits or a zero value select index 1. It reports false only when the
// catalog has no restaurants.
func SyntheticOrder(c *catalog.Catalog, id string, createdAt time.Time) (*domain.Order, bool) {
	restaurants := c.Restaurants()
	if len(restaurants) == 0 {
		return nil, false
	}

	restaurant := restaurants[restaurantIndex(id, len(restaurants))]
	menu := c.MenuForRestaurant(restaurant.ID)

	items := []domain.CartLine{}
	var total float64
	if len(menu) > 0 {
		for i := 0; i < syntheticOrderLines; i++ {
			item := menu[(i*3+restaurant.ID)%len(menu)]
			quantity := i%2 + 1
			items = append(items, domain.CartLine{MenuItemID: item.ID, Quantity: quantity})
			total += item.Price * float64(quantity)
		}
	}

	return &domain.Order{
		ID:           id,
		RestaurantID: restaurant.ID,
		Status:       domain.OrderStatusProcessing,
		CreatedAt:    createdAt,
		Items:        items,
		Total:        catalog.RoundCents(total),
	}, true
}

func restaurantIndex(id string, n int) int {
	value, digits, allZero := 0, 0, true
	for _, r := range id {
		if r < '0' || r > '9' {
			continue
		}
		digits++
		if r != '0' {
			allZero = false
		}
		value = (value*10 + int(r-'0')) % n
	}
	if digits == 0 || allZero {
		return 1 % n
	}
	return value
}
