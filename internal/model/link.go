package model

import "time"

// MatchLink relates one restaurant to one inspection with a bounded
// confidence score and the sub-scores that produced it. Inspection fields
// needed by the aggregator are denormalized onto the link so downstream
// stages never re-join against the registry rows.
type MatchLink struct {
	RestaurantID  string       `json:"restaurant_id"`
	InspectionID  string       `json:"inspection_id"`
	Jurisdiction  Jurisdiction `json:"jurisdiction"`
	Confidence    float64      `json:"confidence"` // 0-100
	NameScore     float64      `json:"name_score"`
	GeoScore      *float64     `json:"geo_score,omitempty"`  // nil when no coordinate comparison
	DistanceM     *float64     `json:"distance_m,omitempty"` // nil when no coordinate comparison
	ViolationCode string       `json:"violation_code"`
	Severity      Severity     `json:"severity"`
	Passed        bool         `json:"passed"`
	InspectedAt   time.Time    `json:"inspected_at"`
}

// EventKey identifies the real-world inspection event a link points at.
// At most one accepted link may exist per key.
type EventKey struct {
	RestaurantID  string
	InspectedAt   time.Time
	ViolationCode string
}

// Key returns the dedup key for the link's underlying event.
func (l *MatchLink) Key() EventKey {
	return EventKey{
		RestaurantID:  l.RestaurantID,
		InspectedAt:   l.InspectedAt,
		ViolationCode: l.ViolationCode,
	}
}
