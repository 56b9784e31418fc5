package model

import "time"

// RunStats surfaces the per-run counters an operator needs to judge a batch:
// rows rejected at normalization, links discarded by the matcher, and
// restaurants lacking each derived data category.
type RunStats struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	RestaurantsLoaded   int            `json:"restaurants_loaded"`
	RestaurantsRejected int            `json:"restaurants_rejected"`
	InspectionsLoaded   map[string]int `json:"inspections_loaded"`
	InspectionsRejected map[string]int `json:"inspections_rejected"`
	StopsLoaded         int            `json:"stops_loaded"`
	StopsRejected       int            `json:"stops_rejected"`

	CandidatesScored    int `json:"candidates_scored"`
	LinksAccepted       int `json:"links_accepted"`
	LinksBelowThreshold int `json:"links_below_threshold"`
	LinksBeyondRange    int `json:"links_beyond_range"`
	LinksDeduped        int `json:"links_deduped"`

	NoInspectionData int `json:"no_inspection_data"`
	NoTransit        int `json:"no_transit"`
	Scored           int `json:"scored"`
}

// AddInspections records loaded/rejected counts for one registry source.
func (s *RunStats) AddInspections(source string, loaded, rejected int) {
	if s.InspectionsLoaded == nil {
		s.InspectionsLoaded = make(map[string]int)
	}
	if s.InspectionsRejected == nil {
		s.InspectionsRejected = make(map[string]int)
	}
	s.InspectionsLoaded[source] += loaded
	s.InspectionsRejected[source] += rejected
}
