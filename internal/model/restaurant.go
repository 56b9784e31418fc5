// Package model defines the canonical record types flowing through the
// resolver engine: bronze inputs after normalization, match links, derived
// summaries, and the gold scorecard output.
package model

import "time"

// PostalUnknown is the sentinel a postal code is coerced to when it fails
// validation. Rows keep flowing with this value rather than being dropped.
const PostalUnknown = "99999"

// RestaurantRecord is the canonical catalog record for a single restaurant.
// Immutable once produced for a batch; a later batch supersedes it wholesale.
type RestaurantRecord struct {
	RestaurantID string    `json:"restaurant_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Categories   []string  `json:"categories,omitempty"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	PriceTier    int       `json:"price_tier"` // 0 = unknown, 1-4 = $ through $$$$
	Closed       bool      `json:"closed"`
	LoadedAt     time.Time `json:"loaded_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TransitStop is one canonical transit stop row.
type TransitStop struct {
	StopID     string  `json:"stop_id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Wheelchair bool    `json:"wheelchair"`
}
