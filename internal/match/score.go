package match

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/localeats/resolver/internal/model"
)

// Name score ladder. Inputs are already normalized (trimmed, uppercased,
// whitespace-collapsed), so exact comparison is plain equality.
const (
	nameExact     = 100.0
	nameSubstring = 90.0
	nameClose     = 80.0 // edit distance <= 3
	nameNear      = 70.0 // edit distance <= 5
	nameFloor     = 50.0
)

// nameScore scores the similarity between a restaurant name and an
// establishment name.
func nameScore(restaurant, establishment string) float64 {
	if restaurant == establishment {
		return nameExact
	}
	if strings.Contains(restaurant, establishment) || strings.Contains(establishment, restaurant) {
		return nameSubstring
	}
	switch d := levenshtein.Distance(restaurant, establishment, nil); {
	case d <= 3:
		return nameClose
	case d <= 5:
		return nameNear
	default:
		return nameFloor
	}
}

// geoScore buckets a distance in meters into the categorical geo score.
// Callers must discard candidates beyond the distance cutoff before asking.
func geoScore(distanceM float64) float64 {
	switch {
	case distanceM <= 25:
		return 100
	case distanceM <= 50:
		return 90
	case distanceM <= 100:
		return 80
	case distanceM <= 200:
		return 70
	default:
		return 50
	}
}

// addressPostalMatch reports whether a restaurant and inspection share an
// exact normalized address and a known, equal postal code.
func addressPostalMatch(r *model.RestaurantRecord, in *model.InspectionRecord) bool {
	if r.Address == "" || in.Address == "" {
		return false
	}
	if r.PostalCode == model.PostalUnknown || r.PostalCode != in.PostalCode {
		return false
	}
	return r.Address == in.Address
}
