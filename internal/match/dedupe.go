package match

import (
	"sort"

	"github.com/localeats/resolver/internal/model"
)

// DedupeLinks enforces the at-most-one-accepted-link invariant per
// (restaurant, inspection date, violation code): highest confidence wins,
// ties go to the most recent inspection, then the smallest inspection id so
// repeated runs pick identically. Applied per jurisdiction pass and again
// across the cross-source union, since overlapping candidate windows can
// observe the same real-world violation through both registries.
func DedupeLinks(links []model.MatchLink) []model.MatchLink {
	best := make(map[model.EventKey]model.MatchLink, len(links))
	for _, l := range links {
		k := l.Key()
		cur, ok := best[k]
		if !ok || supersedes(l, cur) {
			best[k] = l
		}
	}

	out := make([]model.MatchLink, 0, len(best))
	for _, l := range best {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.RestaurantID != b.RestaurantID {
			return a.RestaurantID < b.RestaurantID
		}
		if !a.InspectedAt.Equal(b.InspectedAt) {
			return a.InspectedAt.Before(b.InspectedAt)
		}
		if a.ViolationCode != b.ViolationCode {
			return a.ViolationCode < b.ViolationCode
		}
		return a.InspectionID < b.InspectionID
	})
	return out
}

// supersedes reports whether link a should replace link b for the same event.
func supersedes(a, b model.MatchLink) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if !a.InspectedAt.Equal(b.InspectedAt) {
		return a.InspectedAt.After(b.InspectedAt)
	}
	return a.InspectionID < b.InspectionID
}
