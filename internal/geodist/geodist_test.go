package geodist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeters(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"identical points", 42.3736, -71.1190, 42.3736, -71.1190, 0, 0.001},
		{"one degree of latitude", 42.0, -71.0, 43.0, -71.0, 111195, 50},
		{"park st to harvard sq", 42.3564, -71.0624, 42.3736, -71.1190, 5030, 150},
		{"across the charles", 42.3601, -71.0589, 42.3655, -71.0610, 625, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Meters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestMetersSymmetric(t *testing.T) {
	a := Meters(42.3736, -71.1190, 42.3601, -71.0589)
	b := Meters(42.3601, -71.0589, 42.3736, -71.1190)
	assert.InDelta(t, a, b, 0.001)
}

func TestMetersNearIdenticalPointsDoNotNaN(t *testing.T) {
	// Floating-point overshoot on nearly coincident points must clamp
	// instead of producing NaN from acos outside its domain.
	got := Meters(42.37360000001, -71.1190, 42.3736, -71.1190)
	assert.False(t, got != got, "distance is NaN")
	assert.Less(t, got, 0.01)
}
