package catalog

import (
	"math"
	"strconv"
	"strings"

	"foodiego/internal/domain"
)

// Catalog is the read-only set of restaurants and menu items. It is safe for
// concurrent use because nothing mutates it after New returns; every accessor
// hands out copies.
type Catalog struct {
	restaurants []domain.Restaurant
	menuItems   []domain.MenuItem

	restaurantIndex map[int]int
	menuItemIndex   map[int]int
}

// New indexes the given restaurants and menu items. When ids repeat, the first
// occurrence wins, matching a linear scan.
func New(restaurants []domain.Restaurant, menuItems []domain.MenuItem) *Catalog {
	c := &Catalog{
		restaurants:     make([]domain.Restaurant, len(restaurants)),
		menuItems:       make([]domain.MenuItem, len(menuItems)),
		restaurantIndex: make(map[int]int, len(restaurants)),
		menuItemIndex:   make(map[int]int, len(menuItems)),
	}
	for i, r := range restaurants {
		c.restaurants[i] = cloneRestaurant(r)
		if _, ok := c.restaurantIndex[r.ID]; !ok {
			c.restaurantIndex[r.ID] = i
		}
	}
	for i, m := range menuItems {
		c.menuItems[i] = cloneMenuItem(m)
		if _, ok := c.menuItemIndex[m.ID]; !ok {
			c.menuItemIndex[m.ID] = i
		}
	}
	return c
}

func (c *Catalog) Restaurants() []domain.Restaurant {
	out := make([]domain.Restaurant, len(c.restaurants))
	for i, r := range c.restaurants {
		out[i] = cloneRestaurant(r)
	}
	return out
}

func (c *Catalog) MenuItems() []domain.MenuItem {
	out := make([]domain.MenuItem, len(c.menuItems))
	for i, m := range c.menuItems {
		out[i] = cloneMenuItem(m)
	}
	return out
}

func (c *Catalog) RestaurantByID(id int) (domain.Restaurant, bool) {
	idx, ok := c.restaurantIndex[id]
	if !ok {
		return domain.Restaurant{}, false
	}
	return cloneRestaurant(c.restaurants[idx]), true
}

func (c *Catalog) MenuItemByID(id int) (domain.MenuItem, bool) {
	idx, ok := c.menuItemIndex[id]
	if !ok {
		return domain.MenuItem{}, false
	}
	return cloneMenuItem(c.menuItems[idx]), true
}

// MenuForRestaurant returns the restaurant's items in generation order. The
// result is empty, never nil, for unknown restaurants.
func (c *Catalog) MenuForRestaurant(restaurantID int) []domain.MenuItem {
	out := []domain.MenuItem{}
	for _, m := range c.menuItems {
		if m.RestaurantID == restaurantID {
			out = append(out, cloneMenuItem(m))
		}
	}
	return out
}

// ParseID coerces an id taken from a URL or form value. Surrounding whitespace
// is ignored and integral decimal forms such as "3.0" are accepted.
func ParseID(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if id, err := strconv.Atoi(s); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func cloneRestaurant(r domain.Restaurant) domain.Restaurant {
	cuisines := make([]string, len(r.Cuisines))
	copy(cuisines, r.Cuisines)
	r.Cuisines = cuisines
	return r
}

func cloneMenuItem(m domain.MenuItem) domain.MenuItem {
	restrictions := make([]string, len(m.DietaryRestrictions))
	copy(restrictions, m.DietaryRestrictions)
	m.DietaryRestrictions = restrictions
	return m
}
