package filter

import (
	"fmt"
	"net/url"
	"strings"

	"foodiego/internal/domain"
)

type MenuItemSelection struct {
	Search              string   `json:"search"`
	Category            string   `json:"category"`
	PriceRange          string   `json:"priceRange"`
	SpiceLevel          string   `json:"spiceLevel"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
}

func DefaultMenuItemSelection() MenuItemSelection {
	return MenuItemSelection{
		Category:            AllCategories,
		PriceRange:          AllPrices,
		SpiceLevel:          AllSpiceLevels,
		DietaryRestrictions: []string{},
	}
}

// MenuItemSelectionFromQuery accepts repeated or comma separated dietary values.
func MenuItemSelectionFromQuery(q url.Values) MenuItemSelection {
	var dietary []string
	for _, raw := range q["dietary"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				dietary = append(dietary, part)
			}
		}
	}
	return MenuItemSelection{
		Search:              q.Get("search"),
		Category:            q.Get("category"),
		PriceRange:          q.Get("price"),
		SpiceLevel:          q.Get("spice"),
		DietaryRestrictions: dietary,
	}
}

func (s MenuItemSelection) Active() []string {
	active := []string{}
	if strings.TrimSpace(s.Search) != "" {
		active = append(active, fmt.Sprintf("Search: %q", s.Search))
	}
	if !isAll(s.Category) {
		active = append(active, "Category: "+s.Category)
	}
	if _, ok := PriceBandFromLabel(s.PriceRange); ok && !isAll(s.PriceRange) {
		active = append(active, "Price: "+s.PriceRange)
	}
	if !isAll(s.SpiceLevel) {
		active = append(active, "Spice: "+s.SpiceLevel)
	}
	if tags := knownDietaryTags(s.DietaryRestrictions); len(tags) > 0 {
		active = append(active, "Dietary: "+strings.Join(tags, ", "))
	}
	return active
}

// knownDietaryTags normalises the selected tags and drops unknown ones.
func knownDietaryTags(selected []string) []string {
	var tags []string
	for _, tag := range selected {
		for _, known := range DietaryOptions {
			if strings.EqualFold(strings.TrimSpace(tag), known) {
				tags = append(tags, known)
				break
			}
		}
	}
	return tags
}

func satisfiesDietary(item domain.MenuItem, tag string) bool {
	switch tag {
	case DietaryVegetarian:
		return item.IsVegetarian
	case DietaryVegan:
		return item.IsVegan
	case DietaryGlutenFree:
		return item.IsGlutenFree
	default:
		return false
	}
}

func (s MenuItemSelection) matches(item domain.MenuItem, dietary []string) bool {
	if strings.TrimSpace(s.Search) != "" {
		term := strings.ToLower(s.Search)
		if !containsFold(item.Name, term) &&
			!containsFold(item.Description, term) &&
			!containsFold(item.Category, term) {
			return false
		}
	}

	if !isAll(s.Category) && item.Category != s.Category {
		return false
	}

	if !isAll(s.PriceRange) {
		if band, ok := PriceBandFromLabel(s.PriceRange); ok && !band.Contains(item.Price) {
			return false
		}
	}

	if !isAll(s.SpiceLevel) && item.SpiceLevel != s.SpiceLevel {
		return false
	}

	if len(dietary) > 0 {
		for _, tag := range dietary {
			if satisfiesDietary(item, tag) {
				return true
			}
		}
		return false
	}

	return true
}

// MenuItems returns the items matching every enabled criterion, in input
// order. Dietary tags are OR-combined among themselves.
func MenuItems(items []domain.MenuItem, sel MenuItemSelection) []domain.MenuItem {
	dietary := knownDietaryTags(sel.DietaryRestrictions)
	out := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if sel.matches(item, dietary) {
			out = append(out, item)
		}
	}
	return out
}
