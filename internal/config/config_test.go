package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "resolver.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Engine.Workers)

	assert.InDelta(t, 70.0, cfg.Match.AcceptThreshold, 0.001)
	assert.InDelta(t, 0.7, cfg.Match.NameWeight, 0.001)
	assert.InDelta(t, 0.3, cfg.Match.GeoWeight, 0.001)
	assert.InDelta(t, 200.0, cfg.Match.MaxDistanceM, 0.001)
	assert.InDelta(t, 0.005, cfg.Match.BostonWindowDeg, 0.0001)
	assert.InDelta(t, 0.002, cfg.Match.CambridgeWindowDeg, 0.0001)

	assert.Equal(t, 180, cfg.Aggregate.RecentWindowDays)

	assert.InDelta(t, 1500.0, cfg.Transit.MaxDistanceM, 0.001)
	assert.InDelta(t, 75.0, cfg.Transit.WalkMetersPerMin, 0.001)
	assert.Equal(t, 10, cfg.Transit.KeepNearest)

	wsum := cfg.Score.SafetyWeight + cfg.Score.AccessibilityWeight +
		cfg.Score.PopularityWeight + cfg.Score.ValueWeight
	assert.InDelta(t, 1.0, wsum, 0.001)
	assert.Equal(t, 365, cfg.Score.StaleAfterDays)

	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LOCALEATS_STORE_PATH", "/tmp/other.db")
	t.Setenv("LOCALEATS_ENGINE_WORKERS", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.Store.Path)
	assert.Equal(t, 2, cfg.Engine.Workers)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	t.Run("empty region", func(t *testing.T) {
		cfg := base()
		cfg.Region.MinLat = cfg.Region.MaxLat
		assert.Error(t, cfg.Validate())
	})

	t.Run("threshold out of range", func(t *testing.T) {
		cfg := base()
		cfg.Match.AcceptThreshold = 120
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero match weights", func(t *testing.T) {
		cfg := base()
		cfg.Match.NameWeight = 0
		cfg.Match.GeoWeight = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero walking speed", func(t *testing.T) {
		cfg := base()
		cfg.Transit.WalkMetersPerMin = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero score weights", func(t *testing.T) {
		cfg := base()
		cfg.Score.SafetyWeight = 0
		cfg.Score.AccessibilityWeight = 0
		cfg.Score.PopularityWeight = 0
		cfg.Score.ValueWeight = 0
		assert.Error(t, cfg.Validate())
	})
}
