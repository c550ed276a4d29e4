package service

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/searchly/bff/internal/models"
)

// Project derives the display view of a catalog: products whose name
// contains the query (case-insensitive), ordered by the sort key. It is a
// pure function of its inputs; the catalog itself is never mutated.
//
// Sorting is stable: products with equal sort keys keep their filtered
// relative order.
func Project(catalog []models.Product, query string, key models.SortKey) []models.Product {
	q := strings.ToLower(query)
	filtered := make([]models.Product, 0, len(catalog))
	for _, p := range catalog {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			filtered = append(filtered, p)
		}
	}

	switch key {
	case models.SortPriceLowToHigh:
		sort.SliceStable(filtered, func(i, j int) bool {
			return priceValue(filtered[i].Price, true) < priceValue(filtered[j].Price, true)
		})
	case models.SortPriceHighToLow:
		sort.SliceStable(filtered, func(i, j int) bool {
			return priceValue(filtered[i].Price, false) > priceValue(filtered[j].Price, false)
		})
	case models.SortRating:
		sort.SliceStable(filtered, func(i, j int) bool {
			return ratingValue(filtered[i].Rating) > ratingValue(filtered[j].Rating)
		})
	default:
		// Recommended: most-recently-considered first, i.e. the filtered
		// order reversed. A placeholder ranking, not a scored one.
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}
	return filtered
}

// priceValue parses a display price into a comparable number by keeping only
// its digits. Unpriced products ("Not Available" or digitless strings) map to
// +Inf ascending and 0 descending so they sort last in both directions.
func priceValue(price string, ascending bool) float64 {
	missing := math.Inf(1)
	if !ascending {
		missing = 0
	}

	if price == models.PriceNotAvailable {
		return missing
	}

	var digits strings.Builder
	for _, r := range price {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return missing
	}

	v, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil || v == 0 {
		return missing
	}
	return v
}

// ratingValue parses the leading numeric prefix of a rating string, treating
// absent or unparseable ratings as 0. Backend ratings arrive as display text
// ("4.5", "4.5 out of 5 stars"), so only the prefix counts.
func ratingValue(rating *string) float64 {
	if rating == nil {
		return 0
	}
	s := strings.TrimSpace(*rating)

	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}
