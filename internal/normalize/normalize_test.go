package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localeats/resolver/internal/model"
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrTime(v time.Time) *time.Time { return &v }

func testRegion() Region {
	return NewRegion(42.2, 42.45, -71.25, -70.9)
}

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"lowercase", "harvard pizza co", "HARVARD PIZZA CO"},
		{"surrounding space", "  Thelonious Monkfish ", "THELONIOUS MONKFISH"},
		{"internal runs collapse", "CAFE   DU    MONDE", "CAFE DU MONDE"},
		{"already canonical", "OLEANA", "OLEANA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.in))
		})
	}
}

func TestPostal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"five digits pass", "02139", "02139"},
		{"four digits zero padded", "2139", "02139"},
		{"zip plus four truncated", "02139-4301", "02139"},
		{"letters map to sentinel", "O2139", model.PostalUnknown},
		{"empty maps to sentinel", "", model.PostalUnknown},
		{"too long maps to sentinel", "021394", model.PostalUnknown},
		{"surrounding space", " 02139 ", "02139"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Postal(tt.in))
		})
	}
}

func TestPriceTier(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"$", 1},
		{"$$", 2},
		{"$$$", 3},
		{"$$$$", 4},
		{"1", 1},
		{"4", 4},
		{"", 0},
		{"cheap", 0},
		{"5", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceTier(tt.in), "input %q", tt.in)
	}
}

func TestCategories(t *testing.T) {
	assert.Nil(t, Categories(""))
	assert.Equal(t, []string{"Pizza", "Italian"}, Categories("Pizza, Italian"))
	assert.Equal(t, []string{"Thai", "Sushi"}, Categories("Thai|Sushi"))
	assert.Equal(t, []string{"Cafe"}, Categories(";Cafe;;"))
}

func TestRegionContains(t *testing.T) {
	r := testRegion()
	assert.True(t, r.Contains(42.3601, -71.0589))  // downtown Boston
	assert.False(t, r.Contains(40.7128, -74.0060)) // NYC
	assert.False(t, Region{}.Contains(42.36, -71.06))
}

func TestRestaurantNormalization(t *testing.T) {
	loaded := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	base := RawRestaurant{
		RestaurantID: "r-1",
		Name:         "  harvard pizza co ",
		Address:      "12 JFK St",
		City:         "cambridge",
		State:        "ma",
		PostalCode:   "2138",
		Latitude:     ptrFloat64(42.3736),
		Longitude:    ptrFloat64(-71.1190),
		Categories:   "Pizza, Italian",
		Rating:       4.2,
		ReviewCount:  310,
		Price:        "$$",
		Closed:       "false",
		LoadedAt:     loaded,
		UpdatedAt:    loaded,
	}

	rec, err := Restaurant(base, testRegion())
	require.NoError(t, err)
	assert.Equal(t, "HARVARD PIZZA CO", rec.Name)
	assert.Equal(t, "CAMBRIDGE", rec.City)
	assert.Equal(t, "MA", rec.State)
	assert.Equal(t, "02138", rec.PostalCode)
	assert.Equal(t, 2, rec.PriceTier)
	assert.False(t, rec.Closed)
	assert.Equal(t, []string{"Pizza", "Italian"}, rec.Categories)

	t.Run("missing id rejected", func(t *testing.T) {
		raw := base
		raw.RestaurantID = " "
		_, err := Restaurant(raw, testRegion())
		require.Error(t, err)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		raw := base
		raw.Name = ""
		_, err := Restaurant(raw, testRegion())
		require.Error(t, err)
	})

	t.Run("missing coordinates rejected", func(t *testing.T) {
		raw := base
		raw.Latitude = nil
		_, err := Restaurant(raw, testRegion())
		require.Error(t, err)
	})

	t.Run("outside region rejected", func(t *testing.T) {
		raw := base
		raw.Latitude = ptrFloat64(40.7128)
		raw.Longitude = ptrFloat64(-74.0060)
		_, err := Restaurant(raw, testRegion())
		require.Error(t, err)
	})
}

func TestInspectionNormalization(t *testing.T) {
	inspected := time.Date(2026, 7, 10, 9, 30, 0, 0, time.UTC)
	base := RawInspection{
		InspectionID:  "i-1",
		Jurisdiction:  model.JurisdictionBoston,
		Establishment: "harvard  pizza",
		Address:       "12 jfk st",
		City:          "Cambridge",
		PostalCode:    "02138",
		ViolationCode: "fc-4-501.11",
		Severity:      "***",
		Result:        "HE_Fail",
		InspectedAt:   ptrTime(inspected),
	}

	t.Run("boston needs no coordinates", func(t *testing.T) {
		rec, err := Inspection(base, testRegion())
		require.NoError(t, err)
		assert.Equal(t, "HARVARD PIZZA", rec.Establishment)
		assert.Equal(t, "FC-4-501.11", rec.ViolationCode)
		assert.Equal(t, model.SeverityHigh, rec.Severity)
		assert.False(t, rec.Passed)
		assert.False(t, rec.HasCoordinates())
	})

	t.Run("cambridge requires coordinates", func(t *testing.T) {
		raw := base
		raw.Jurisdiction = model.JurisdictionCambridge
		_, err := Inspection(raw, testRegion())
		require.Error(t, err)

		raw.Latitude = ptrFloat64(42.3732)
		raw.Longitude = ptrFloat64(-71.1189)
		rec, err := Inspection(raw, testRegion())
		require.NoError(t, err)
		assert.True(t, rec.HasCoordinates())
	})

	t.Run("cambridge outside region rejected", func(t *testing.T) {
		raw := base
		raw.Jurisdiction = model.JurisdictionCambridge
		raw.Latitude = ptrFloat64(41.0)
		raw.Longitude = ptrFloat64(-71.1)
		_, err := Inspection(raw, testRegion())
		require.Error(t, err)
	})

	t.Run("missing date rejected", func(t *testing.T) {
		raw := base
		raw.InspectedAt = nil
		_, err := Inspection(raw, testRegion())
		require.Error(t, err)
	})
}

func TestPassedResult(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Pass", true},
		{"HE_Pass", true},
		{"Passed", true},
		{"HE_Fail", false},
		{"Fail", false},
		{"Failed - reinspection", false},
		{"", false},
		{"Closed", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, passedResult(tt.in), "input %q", tt.in)
	}
}

func TestDedupeRestaurantsLatestLoadWins(t *testing.T) {
	d1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)

	recs := []model.RestaurantRecord{
		{RestaurantID: "r-1", Name: "OLD NAME", LoadedAt: d1, UpdatedAt: d1},
		{RestaurantID: "r-1", Name: "NEW NAME", LoadedAt: d2, UpdatedAt: d1},
		{RestaurantID: "r-2", Name: "OTHER", LoadedAt: d1, UpdatedAt: d1},
	}

	out := DedupeRestaurants(recs)
	require.Len(t, out, 2)
	assert.Equal(t, "r-1", out[0].RestaurantID)
	assert.Equal(t, "NEW NAME", out[0].Name)
	assert.Equal(t, "r-2", out[1].RestaurantID)
}

func TestDedupeRestaurantsUpdateBreaksLoadTie(t *testing.T) {
	load := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	u1 := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	u2 := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	out := DedupeRestaurants([]model.RestaurantRecord{
		{RestaurantID: "r-1", Name: "STALE", LoadedAt: load, UpdatedAt: u1},
		{RestaurantID: "r-1", Name: "FRESH", LoadedAt: load, UpdatedAt: u2},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "FRESH", out[0].Name)
}

func TestDedupeInspections(t *testing.T) {
	d1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)

	out := DedupeInspections([]model.InspectionRecord{
		{InspectionID: "i-1", Passed: false, LoadedAt: d1},
		{InspectionID: "i-1", Passed: true, LoadedAt: d2},
	})
	require.Len(t, out, 1)
	assert.True(t, out[0].Passed)
}
