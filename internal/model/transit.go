package model

// AccessibilityCategory labels how close the nearest transit stop is.
type AccessibilityCategory string

const (
	AccessImmediate  AccessibilityCategory = "IMMEDIATE"  // <= 200m
	AccessVeryClose  AccessibilityCategory = "VERY_CLOSE" // <= 500m
	AccessWalkable   AccessibilityCategory = "WALKABLE"   // <= 1000m
	AccessAccessible AccessibilityCategory = "ACCESSIBLE" // <= 1500m
)

// TransitMetric holds nearest-stop metrics for one restaurant. A restaurant
// with no stop inside 1,500 m gets no TransitMetric at all (nil upstream),
// which the scorer must read as "no transit score", not missing data.
type TransitMetric struct {
	RestaurantID     string                `json:"restaurant_id"`
	NearestStopID    string                `json:"nearest_stop_id"`
	NearestStopName  string                `json:"nearest_stop_name"`
	NearestDistanceM float64               `json:"nearest_distance_m"`
	WalkMinutes      float64               `json:"walk_minutes"`
	Accessibility    AccessibilityCategory `json:"accessibility_category"`
	NearbyStops      int                   `json:"nearby_stops"`
	AccessibleStops  int                   `json:"accessible_stops"`
	VeryCloseStops   int                   `json:"very_close_stops"` // <= 500m
}
