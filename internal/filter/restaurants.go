package filter

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"foodiego/internal/domain"
)

type RestaurantSelection struct {
	Search      string `json:"search"`
	CuisineType string `json:"cuisineType"`
	PriceRange  string `json:"priceRange"`
	Location    string `json:"location"`
	Rating      string `json:"rating"`
}

// DefaultRestaurantSelection is the cleared state of the restaurant filter panel.
func DefaultRestaurantSelection() RestaurantSelection {
	return RestaurantSelection{
		CuisineType: AllCuisines,
		PriceRange:  AllPrices,
		Location:    AllLocations,
		Rating:      AllRatings,
	}
}

func RestaurantSelectionFromQuery(q url.Values) RestaurantSelection {
	return RestaurantSelection{
		Search:      q.Get("search"),
		CuisineType: q.Get("cuisine"),
		PriceRange:  q.Get("price"),
		Location:    q.Get("location"),
		Rating:      q.Get("rating"),
	}
}

// Active lists the enabled criteria in display form.
func (s RestaurantSelection) Active() []string {
	active := []string{}
	if strings.TrimSpace(s.Search) != "" {
		active = append(active, fmt.Sprintf("Search: %q", s.Search))
	}
	if !isAll(s.CuisineType) {
		active = append(active, "Cuisine: "+s.CuisineType)
	}
	if _, ok := PriceTierFromLabel(s.PriceRange); ok && !isAll(s.PriceRange) {
		active = append(active, "Price: "+s.PriceRange)
	}
	if !isAll(s.Location) {
		active = append(active, "Location: "+s.Location)
	}
	if _, ok := RatingThreshold(s.Rating); ok && !isAll(s.Rating) {
		active = append(active, "Rating: "+s.Rating)
	}
	return active
}

func (s RestaurantSelection) matches(r domain.Restaurant) bool {
	if strings.TrimSpace(s.Search) != "" {
		term := strings.ToLower(s.Search)
		found := containsFold(r.Name, term) ||
			containsFold(r.Description, term) ||
			slices.ContainsFunc(r.Cuisines, func(c string) bool { return containsFold(c, term) }) ||
			containsFold(r.Location, term)
		if !found {
			return false
		}
	}

	if !isAll(s.CuisineType) && !slices.Contains(r.Cuisines, s.CuisineType) {
		return false
	}

	if !isAll(s.PriceRange) {
		if tier, ok := PriceTierFromLabel(s.PriceRange); ok && r.PriceRange != tier {
			return false
		}
	}

	if !isAll(s.Location) && r.Location != s.Location {
		return false
	}

	if !isAll(s.Rating) {
		if threshold, ok := RatingThreshold(s.Rating); ok && r.Rating < threshold {
			return false
		}
	}

	return true
}

// Restaurants returns the restaurants matching every enabled criterion, in
// input order. The input slice is not modified.
func Restaurants(items []domain.Restaurant, sel RestaurantSelection) []domain.Restaurant {
	out := make([]domain.Restaurant, 0, len(items))
	for _, r := range items {
		if sel.matches(r) {
			out = append(out, r)
		}
	}
	return out
}
