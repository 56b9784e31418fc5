package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localeats/resolver/internal/model"
	"github.com/localeats/resolver/internal/normalize"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "resolver-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrTime(v time.Time) *time.Time { return &v }

func TestBronzeRestaurantRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	loadedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	in := []normalize.RawRestaurant{
		{
			RestaurantID: "r-1",
			Name:         "Harvard Pizza Co",
			Address:      "12 JFK St",
			City:         "Cambridge",
			State:        "MA",
			PostalCode:   "02138",
			Latitude:     ptrFloat64(42.3736),
			Longitude:    ptrFloat64(-71.1190),
			Categories:   "Pizza, Italian",
			Rating:       4.2,
			ReviewCount:  310,
			Price:        "$$",
			Closed:       "false",
			LoadedAt:     loadedAt,
			UpdatedAt:    loadedAt,
		},
		{
			RestaurantID: "r-2",
			Name:         "No Coords",
			LoadedAt:     loadedAt,
			UpdatedAt:    loadedAt,
		},
	}

	n, err := st.InsertRestaurants(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	out, err := st.LoadRestaurants(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "r-1", out[0].RestaurantID)
	assert.Equal(t, "Harvard Pizza Co", out[0].Name)
	require.NotNil(t, out[0].Latitude)
	assert.InDelta(t, 42.3736, *out[0].Latitude, 0.0001)
	assert.Equal(t, 310, out[0].ReviewCount)
	assert.True(t, out[0].LoadedAt.Equal(loadedAt))

	// Absent coordinates survive staging as NULL and come back nil.
	assert.Nil(t, out[1].Latitude)
	assert.Nil(t, out[1].Longitude)
}

func TestBronzeInspectionsFilterByJurisdiction(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	loadedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	inspectedAt := time.Date(2026, 7, 10, 9, 30, 0, 0, time.UTC)
	in := []normalize.RawInspection{
		{
			InspectionID:  "b-1",
			Jurisdiction:  model.JurisdictionBoston,
			Establishment: "HARVARD PIZZA",
			Severity:      "***",
			Result:        "HE_Fail",
			InspectedAt:   ptrTime(inspectedAt),
			LoadedAt:      loadedAt,
			UpdatedAt:     loadedAt,
		},
		{
			InspectionID:  "c-1",
			Jurisdiction:  model.JurisdictionCambridge,
			Establishment: "GIULIA",
			Latitude:      ptrFloat64(42.3781),
			Longitude:     ptrFloat64(-71.1222),
			InspectedAt:   ptrTime(inspectedAt),
			LoadedAt:      loadedAt,
			UpdatedAt:     loadedAt,
		},
	}

	n, err := st.InsertInspections(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	boston, err := st.LoadInspections(ctx, model.JurisdictionBoston)
	require.NoError(t, err)
	require.Len(t, boston, 1)
	assert.Equal(t, "b-1", boston[0].InspectionID)
	assert.Nil(t, boston[0].Latitude)
	require.NotNil(t, boston[0].InspectedAt)
	assert.True(t, boston[0].InspectedAt.Equal(inspectedAt))

	all, err := st.LoadInspections(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBronzeStopsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	n, err := st.InsertStops(ctx, []normalize.RawStop{
		{StopID: "place-harsq", Name: "Harvard", Latitude: ptrFloat64(42.3736), Longitude: ptrFloat64(-71.1190), Wheelchair: "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	out, err := st.LoadStops(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Harvard", out[0].Name)
	assert.Equal(t, "1", out[0].Wheelchair)
}

func goldFixture() []model.GoldRow {
	pass := 87.5
	recent := 100.0
	days := 42
	return []model.GoldRow{
		{
			Restaurant: model.RestaurantRecord{
				RestaurantID: "r-1",
				Name:         "HARVARD PIZZA CO",
				City:         "CAMBRIDGE",
				State:        "MA",
				PostalCode:   "02138",
				Latitude:     42.3736,
				Longitude:    -71.1190,
				Categories:   []string{"Pizza", "Italian"},
				Rating:       4.2,
				ReviewCount:  310,
				PriceTier:    2,
			},
			Summary: model.InspectionSummary{
				RestaurantID:     "r-1",
				TotalInspections: 8,
				PassRate:         &pass,
				RecentPassRate:   &recent,
				DaysSinceLast:    &days,
				Performance:      model.PerformanceExcellent,
				HealthRisk:       model.RiskLow,
				DataQuality:      model.QualityMedium,
			},
			Transit: &model.TransitMetric{
				RestaurantID:     "r-1",
				NearestStopID:    "place-harsq",
				NearestStopName:  "Harvard",
				NearestDistanceM: 150,
				WalkMinutes:      2,
				Accessibility:    model.AccessImmediate,
				NearbyStops:      6,
				AccessibleStops:  4,
				VeryCloseStops:   3,
			},
			Scores: model.ScoreCard{
				RestaurantID:  "r-1",
				Safety:        92.5,
				Accessibility: 64.8,
				Popularity:    85,
				Value:         50,
				Overall:       78.86,
				Tier:          model.TierRecommended,
			},
		},
		{
			Restaurant: model.RestaurantRecord{
				RestaurantID: "r-2",
				Name:         "QUIET CORNER CAFE",
				City:         "BOSTON",
				Latitude:     42.35,
				Longitude:    -71.05,
			},
			Summary: model.InspectionSummary{
				RestaurantID: "r-2",
				Performance:  model.PerformanceNoData,
				HealthRisk:   model.RiskUnknown,
				DataQuality:  model.QualityNoData,
			},
			Scores: model.ScoreCard{
				RestaurantID: "r-2",
				Safety:       40,
				Value:        50,
				Overall:      21.5,
				Tier:         model.TierBelowAverage,
			},
		},
	}
}

func TestGoldRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	scoredAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, st.ReplaceGold(ctx, "run-1", goldFixture(), scoredAt))

	out, err := st.LoadGold(ctx, GoldFilters{})
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Ordered by overall score descending.
	top := out[0]
	assert.Equal(t, "r-1", top.Restaurant.RestaurantID)
	assert.Equal(t, []string{"Pizza", "Italian"}, top.Restaurant.Categories)
	require.NotNil(t, top.Summary.PassRate)
	assert.InDelta(t, 87.5, *top.Summary.PassRate, 0.001)
	require.NotNil(t, top.Summary.RecentPassRate)
	require.NotNil(t, top.Summary.DaysSinceLast)
	assert.Equal(t, 42, *top.Summary.DaysSinceLast)
	require.NotNil(t, top.Transit)
	assert.Equal(t, "place-harsq", top.Transit.NearestStopID)
	assert.Equal(t, 3, top.Transit.VeryCloseStops)
	assert.Equal(t, model.TierRecommended, top.Scores.Tier)

	// The no-data row serializes a -1 pass rate and restores to nil.
	bottom := out[1]
	assert.Equal(t, "r-2", bottom.Restaurant.RestaurantID)
	assert.Nil(t, bottom.Summary.PassRate)
	assert.Nil(t, bottom.Summary.RecentPassRate)
	assert.Nil(t, bottom.Summary.DaysSinceLast)
	assert.Nil(t, bottom.Transit)
}

func TestGoldFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.ReplaceGold(ctx, "run-1", goldFixture(), time.Now().UTC()))

	t.Run("tier filter", func(t *testing.T) {
		out, err := st.LoadGold(ctx, GoldFilters{Tier: model.TierBelowAverage})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "r-2", out[0].Restaurant.RestaurantID)
	})

	t.Run("limit", func(t *testing.T) {
		out, err := st.LoadGold(ctx, GoldFilters{Limit: 1})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "r-1", out[0].Restaurant.RestaurantID)
	})
}

func TestReplaceGoldIsWholesale(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.ReplaceGold(ctx, "run-1", goldFixture(), time.Now().UTC()))
	require.NoError(t, st.ReplaceGold(ctx, "run-2", goldFixture()[:1], time.Now().UTC()))

	out, err := st.LoadGold(ctx, GoldFilters{})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestRunStatsRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first, err := st.LatestRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, first)

	stats := &model.RunStats{
		RunID:             "run-1",
		StartedAt:         time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		CompletedAt:       time.Date(2026, 8, 1, 12, 5, 0, 0, time.UTC),
		RestaurantsLoaded: 120,
		LinksAccepted:     75,
		Scored:            120,
	}
	stats.AddInspections("boston", 300, 4)
	require.NoError(t, st.SaveRun(ctx, stats))

	later := &model.RunStats{
		RunID:       "run-2",
		StartedAt:   time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2026, 8, 2, 12, 4, 0, 0, time.UTC),
		Scored:      121,
	}
	require.NoError(t, st.SaveRun(ctx, later))

	got, err := st.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "run-2", got.RunID)
	assert.Equal(t, 121, got.Scored)
}
