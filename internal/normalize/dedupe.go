package normalize

import (
	"sort"
	"time"

	"github.com/localeats/resolver/internal/model"
)

// DedupeRestaurants collapses multiple canonical versions of the same
// restaurant to the one with the most recent load timestamp, tie-broken by
// most recent update timestamp. Output is sorted by identity so repeated
// runs produce identical ordering.
func DedupeRestaurants(recs []model.RestaurantRecord) []model.RestaurantRecord {
	byID := make(map[string]model.RestaurantRecord, len(recs))
	for _, r := range recs {
		cur, ok := byID[r.RestaurantID]
		if !ok || newer(r.LoadedAt, r.UpdatedAt, cur.LoadedAt, cur.UpdatedAt) {
			byID[r.RestaurantID] = r
		}
	}

	out := make([]model.RestaurantRecord, 0, len(byID))
	for _, r := range byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RestaurantID < out[j].RestaurantID })
	return out
}

// DedupeInspections collapses multiple versions of the same inspection row
// under the same latest-load-wins rule.
func DedupeInspections(recs []model.InspectionRecord) []model.InspectionRecord {
	byID := make(map[string]model.InspectionRecord, len(recs))
	for _, r := range recs {
		cur, ok := byID[r.InspectionID]
		if !ok || newer(r.LoadedAt, r.UpdatedAt, cur.LoadedAt, cur.UpdatedAt) {
			byID[r.InspectionID] = r
		}
	}

	out := make([]model.InspectionRecord, 0, len(byID))
	for _, r := range byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InspectionID < out[j].InspectionID })
	return out
}

// newer reports whether version a supersedes version b: most recent load
// wins, with the update timestamp breaking load-time ties.
func newer(aLoaded, aUpdated, bLoaded, bUpdated time.Time) bool {
	if !aLoaded.Equal(bLoaded) {
		return aLoaded.After(bLoaded)
	}
	return aUpdated.After(bUpdated)
}
