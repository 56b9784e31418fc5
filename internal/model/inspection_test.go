package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		raw  string
		want Severity
	}{
		{"HIGH", SeverityHigh},
		{"CRITICAL", SeverityHigh},
		{"***", SeverityHigh},
		{"3", SeverityHigh},
		{"MEDIUM", SeverityMedium},
		{"SERIOUS", SeverityMedium},
		{"**", SeverityMedium},
		{"2", SeverityMedium},
		{"LOW", SeverityLow},
		{"*", SeverityLow},
		{"1", SeverityLow},
		{"", SeverityLow},
		{"WHATEVER", SeverityLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSeverity(tt.raw), "input %q", tt.raw)
	}
}

func TestSeverityWeight(t *testing.T) {
	assert.Equal(t, 10.0, SeverityHigh.Weight())
	assert.Equal(t, 5.0, SeverityMedium.Weight())
	assert.Equal(t, 1.0, SeverityLow.Weight())
	assert.Equal(t, 0.0, Severity("").Weight())
}

func TestHasCoordinates(t *testing.T) {
	lat, lon := 42.37, -71.11
	assert.True(t, (&InspectionRecord{Latitude: &lat, Longitude: &lon}).HasCoordinates())
	assert.False(t, (&InspectionRecord{Latitude: &lat}).HasCoordinates())
	assert.False(t, (&InspectionRecord{}).HasCoordinates())
}

func TestMatchLinkKey(t *testing.T) {
	day := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	a := MatchLink{RestaurantID: "r-1", InspectionID: "i-1", ViolationCode: "V1", InspectedAt: day}
	b := MatchLink{RestaurantID: "r-1", InspectionID: "i-2", ViolationCode: "V1", InspectedAt: day}
	c := MatchLink{RestaurantID: "r-1", InspectionID: "i-1", ViolationCode: "V2", InspectedAt: day}

	// Different inspection ids can still point at the same real-world event.
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
