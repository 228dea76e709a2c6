package catalog

import (
	"fmt"
	"math"
	"strings"

	"foodiego/internal/domain"
)

var (
	restaurantNames = []string{
		"The Golden Plate",
		"Saffron Kitchen",
		"Blue Moon Bistro",
		"Rustic Table",
		"Spice Garden",
		"Coastal Catch",
		"Urban Farmhouse",
		"Mountain View Grill",
		"Sunset Terrace",
		"Heritage Kitchen",
	}

	cities = []string{
		"New York",
		"San Francisco",
		"Chicago",
		"Austin",
		"Seattle",
		"Boston",
		"Denver",
		"Los Angeles",
		"Portland",
		"Miami",
	}

	cuisines = []string{"Italian", "Japanese", "Mexican", "Chinese", "American", "French", "Thai", "Indian", "Korean", "Spanish"}

	adjectives = []string{"Crispy", "Smoky", "Zesty", "Creamy", "Hearty", "Spicy", "Savory", "Tangy", "Sweet", "Umami"}
	foods      = []string{"Tacos", "Burger", "Pasta", "Salad", "Ramen", "Curry", "Pizza", "Sushi Roll", "Wrap", "Stew"}
)

const (
	DefaultRestaurantCount    = 10
	DefaultItemsPerRestaurant = 10
)

// Generate builds a catalog of restaurantCount restaurants with itemsPerRestaurant
// menu items each. Output depends only on the two counts.
func Generate(restaurantCount, itemsPerRestaurant int) *Catalog {
	restaurants := generateRestaurants(restaurantCount)
	return New(restaurants, generateMenuItems(restaurants, itemsPerRestaurant))
}

func generateRestaurants(count int) []domain.Restaurant {
	if count < 0 {
		count = 0
	}
	restaurants := make([]domain.Restaurant, 0, count)
	for i := 0; i < count; i++ {
		id := i + 1
		name := restaurantNames[i%len(restaurantNames)]
		restaurants = append(restaurants, domain.Restaurant{
			ID:          id,
			Name:        name,
			Location:    cities[i%len(cities)],
			Description: fmt.Sprintf("A delightful place to enjoy curated flavors and seasonal specials. %s.", name),
			Image:       fmt.Sprintf("/restaurants/restaurant-%d.jpg", id),
			PriceRange:  domain.PriceTiers[i%len(domain.PriceTiers)],
			Cuisines:    []string{cuisines[i%len(cuisines)]},
			Rating:      4.0 + float64(i%10)*0.1,
		})
	}
	return restaurants
}

func generateMenuItems(restaurants []domain.Restaurant, perRestaurant int) []domain.MenuItem {
	if perRestaurant < 0 {
		perRestaurant = 0
	}
	items := make([]domain.MenuItem, 0, len(restaurants)*perRestaurant)
	nextID := 1
	for _, r := range restaurants {
		for j := 0; j < perRestaurant; j++ {
			adjective := adjectives[j%len(adjectives)]
			food := foods[(j+r.ID)%len(foods)]
			items = append(items, domain.MenuItem{
				ID:                  nextID,
				RestaurantID:        r.ID,
				Name:                adjective + " " + food,
				Description:         fmt.Sprintf("Chef's special %s with a %s twist.", strings.ToLower(food), strings.ToLower(adjective)),
				Price:               itemPrice(j, r.ID),
				Image:               fmt.Sprintf("/menus/menu-%d.jpg", j+1),
				Category:            domain.Categories[j%len(domain.Categories)],
				DietaryRestrictions: []string{},
				SpiceLevel:          domain.SpiceLevels[j%len(domain.SpiceLevels)],
				IsVegetarian:        j%2 == 0,
				IsVegan:             j%3 == 0,
				IsGlutenFree:        j%5 == 0,
			})
			nextID++
		}
	}
	return items
}

func itemPrice(itemIndex, restaurantID int) float64 {
	return RoundCents(8 + math.Mod(float64(itemIndex)*1.7+float64(restaurantID)*0.9, 17))
}

// RoundCents rounds a currency amount to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
