package domain

import "time"

type PriceTier string

const (
	PriceTierBudget     PriceTier = "$"
	PriceTierModerate   PriceTier = "$$"
	PriceTierUpscale    PriceTier = "$$$"
	PriceTierFineDining PriceTier = "$$$$"
)

var PriceTiers = []PriceTier{PriceTierBudget, PriceTierModerate, PriceTierUpscale, PriceTierFineDining}

func (t PriceTier) Valid() bool {
	for _, tier := range PriceTiers {
		if t == tier {
			return true
		}
	}
	return false
}

const (
	CategoryAppetizers = "Appetizers"
	CategoryEntrees    = "Entrees"
	CategoryDesserts   = "Desserts"
	CategoryDrinks     = "Drinks"
)

var Categories = []string{CategoryAppetizers, CategoryEntrees, CategoryDesserts, CategoryDrinks}

const (
	SpiceMild    = "Mild"
	SpiceMedium  = "Medium"
	SpiceHot     = "Hot"
	SpiceVeryHot = "Very Hot"
)

var SpiceLevels = []string{SpiceMild, SpiceMedium, SpiceHot, SpiceVeryHot}

const OrderStatusProcessing = "processing"

type Restaurant struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	PriceRange  PriceTier `json:"priceRange"`
	Cuisines    []string  `json:"cuisines"`
	Rating      float64   `json:"rating"`
}

type MenuItem struct {
	ID                  int      `json:"id"`
	RestaurantID        int      `json:"restaurantId"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	Price               float64  `json:"price"`
	Image               string   `json:"image,omitempty"`
	Category            string   `json:"category"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	SpiceLevel          string   `json:"spiceLevel"`
	IsVegetarian        bool     `json:"isVegetarian"`
	IsVegan             bool     `json:"isVegan"`
	IsGlutenFree        bool     `json:"isGlutenFree"`
}

// CartLine is one entry of the persisted cart, keyed by MenuItemID.
type CartLine struct {
	MenuItemID int `json:"menuItemId"`
	Quantity   int `json:"quantity"`
}

type Order struct {
	ID           string     `json:"id"`
	RestaurantID int        `json:"restaurantId"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	Items        []CartLine `json:"items"`
	Total        float64    `json:"total"`
}

// CartSummaryLine is a cart line joined with the catalog entry it points at.
// MenuItem is nil when the id no longer resolves.
type CartSummaryLine struct {
	CartLine
	MenuItem *MenuItem `json:"menuItem,omitempty"`
	Subtotal float64   `json:"subtotal"`
}

type CartSummary struct {
	Lines []CartSummaryLine `json:"lines"`
	Total float64           `json:"total"`
}

type OrderHistoryEntry struct {
	Order
	RestaurantName string `json:"restaurantName,omitempty"`
}

type OrderEvent struct {
	Type         string    `json:"type"`
	OrderID      string    `json:"orderId"`
	RestaurantID int       `json:"restaurantId"`
	Total        float64   `json:"total"`
	ItemCount    int       `json:"itemCount"`
	Timestamp    time.Time `json:"timestamp"`
}
