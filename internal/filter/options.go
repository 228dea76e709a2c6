package filter

import (
	"math"
	"strconv"
	"strings"

	"foodiego/internal/domain"
)

const (
	AllCuisines    = "All Cuisines"
	AllPrices      = "All Prices"
	AllLocations   = "All Locations"
	AllRatings     = "All Ratings"
	AllCategories  = "All Categories"
	AllSpiceLevels = "All Spice Levels"
)

const (
	DietaryVegetarian = "Vegetarian"
	DietaryVegan      = "Vegan"
	DietaryGlutenFree = "Gluten-Free"
)

// Option lists shown by the filter panels. The first entry of each list is the
// sentinel that disables the criterion.
var (
	CuisineOptions = []string{
		AllCuisines, "Italian", "Mexican", "Chinese", "Japanese", "Indian", "American",
		"Mediterranean", "Thai", "French", "Greek", "Korean", "Vietnamese", "Middle Eastern",
		"Caribbean", "African", "Spanish", "German", "Russian", "Brazilian",
	}

	PriceRangeOptions = []string{
		AllPrices,
		"$ (Under $10)",
		"$$ ($10 - $25)",
		"$$$ ($25 - $50)",
		"$$$$ (Over $50)",
	}

	LocationOptions = []string{
		AllLocations, "New York", "San Francisco", "Chicago", "Austin", "Seattle",
		"Boston", "Denver", "Los Angeles", "Portland", "Miami",
	}

	RatingOptions = []string{AllRatings, "4.5+ Stars", "4.0+ Stars", "3.5+ Stars", "3.0+ Stars"}

	CategoryOptions = append([]string{AllCategories}, domain.Categories...)

	SpiceLevelOptions = append([]string{AllSpiceLevels}, domain.SpiceLevels...)

	DietaryOptions = []string{DietaryVegetarian, DietaryVegan, DietaryGlutenFree}
)

// PriceBand is a half-open [Min, Max) price interval.
type PriceBand struct {
	Min float64
	Max float64
}

func (b PriceBand) Contains(price float64) bool {
	return price >= b.Min && price < b.Max
}

var priceBands = map[domain.PriceTier]PriceBand{
	domain.PriceTierBudget:     {Min: 0, Max: 10},
	domain.PriceTierModerate:   {Min: 10, Max: 25},
	domain.PriceTierUpscale:    {Min: 25, Max: 50},
	domain.PriceTierFineDining: {Min: 50, Max: math.Inf(1)},
}

var sentinels = map[string]bool{
	"":                              true,
	"all":                           true,
	strings.ToLower(AllCuisines):    true,
	strings.ToLower(AllPrices):      true,
	strings.ToLower(AllLocations):   true,
	strings.ToLower(AllRatings):     true,
	strings.ToLower(AllCategories):  true,
	strings.ToLower(AllSpiceLevels): true,
}

// isAll reports whether a selection value disables its criterion.
func isAll(value string) bool {
	return sentinels[strings.ToLower(strings.TrimSpace(value))]
}

// PriceTierFromLabel maps a label such as "$$ ($10 - $25)" or a bare "$$" to
// its tier symbol.
func PriceTierFromLabel(label string) (domain.PriceTier, bool) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return "", false
	}
	tier := domain.PriceTier(fields[0])
	return tier, tier.Valid()
}

func PriceBandFromLabel(label string) (PriceBand, bool) {
	tier, ok := PriceTierFromLabel(label)
	if !ok {
		return PriceBand{}, false
	}
	band, ok := priceBands[tier]
	return band, ok
}

// RatingThreshold reads the leading number of labels like "4.5+ Stars".
func RatingThreshold(label string) (float64, bool) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, false
	}
	threshold, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "+"), 64)
	if err != nil || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return 0, false
	}
	return threshold, true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
