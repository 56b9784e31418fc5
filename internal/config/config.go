package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Region    RegionConfig    `yaml:"region" mapstructure:"region"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Aggregate AggregateConfig `yaml:"aggregate" mapstructure:"aggregate"`
	Transit   TransitConfig   `yaml:"transit" mapstructure:"transit"`
	Score     ScoreConfig     `yaml:"score" mapstructure:"score"`
	Engine    EngineConfig    `yaml:"engine" mapstructure:"engine"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the SQLite staging and gold store.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RegionConfig is the bounding region a geocoded row must fall inside to
// survive normalization.
type RegionConfig struct {
	MinLat float64 `yaml:"min_lat" mapstructure:"min_lat"`
	MaxLat float64 `yaml:"max_lat" mapstructure:"max_lat"`
	MinLon float64 `yaml:"min_lon" mapstructure:"min_lon"`
	MaxLon float64 `yaml:"max_lon" mapstructure:"max_lon"`
}

// MatchConfig configures candidate generation and confidence scoring.
type MatchConfig struct {
	AcceptThreshold    float64 `yaml:"accept_threshold" mapstructure:"accept_threshold"`
	NameWeight         float64 `yaml:"name_weight" mapstructure:"name_weight"`
	GeoWeight          float64 `yaml:"geo_weight" mapstructure:"geo_weight"`
	MaxDistanceM       float64 `yaml:"max_distance_m" mapstructure:"max_distance_m"`
	BostonWindowDeg    float64 `yaml:"boston_window_deg" mapstructure:"boston_window_deg"`
	CambridgeWindowDeg float64 `yaml:"cambridge_window_deg" mapstructure:"cambridge_window_deg"`
}

// AggregateConfig configures temporal windowing for inspection summaries.
type AggregateConfig struct {
	RecentWindowDays int `yaml:"recent_window_days" mapstructure:"recent_window_days"`
}

// TransitConfig configures the proximity engine.
type TransitConfig struct {
	WindowDeg        float64 `yaml:"window_deg" mapstructure:"window_deg"`
	MaxDistanceM     float64 `yaml:"max_distance_m" mapstructure:"max_distance_m"`
	WalkMetersPerMin float64 `yaml:"walk_meters_per_min" mapstructure:"walk_meters_per_min"`
	KeepNearest      int     `yaml:"keep_nearest" mapstructure:"keep_nearest"`
}

// ScoreConfig holds the fixed sub-score weights and staleness heuristics.
// The defaults are the contract; changing them changes recommendation
// outcomes for every restaurant.
type ScoreConfig struct {
	SafetyWeight        float64 `yaml:"safety_weight" mapstructure:"safety_weight"`
	AccessibilityWeight float64 `yaml:"accessibility_weight" mapstructure:"accessibility_weight"`
	PopularityWeight    float64 `yaml:"popularity_weight" mapstructure:"popularity_weight"`
	ValueWeight         float64 `yaml:"value_weight" mapstructure:"value_weight"`
	StaleAfterDays      int     `yaml:"stale_after_days" mapstructure:"stale_after_days"`
}

// EngineConfig configures run-level execution.
type EngineConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LOCALEATS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "resolver.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("engine.workers", 8)

	// Greater Boston bounding region.
	v.SetDefault("region.min_lat", 42.2)
	v.SetDefault("region.max_lat", 42.45)
	v.SetDefault("region.min_lon", -71.25)
	v.SetDefault("region.max_lon", -70.9)

	v.SetDefault("match.accept_threshold", 70.0)
	v.SetDefault("match.name_weight", 0.7)
	v.SetDefault("match.geo_weight", 0.3)
	v.SetDefault("match.max_distance_m", 200.0)
	v.SetDefault("match.boston_window_deg", 0.005)
	v.SetDefault("match.cambridge_window_deg", 0.002)

	v.SetDefault("aggregate.recent_window_days", 180)

	v.SetDefault("transit.window_deg", 0.015)
	v.SetDefault("transit.max_distance_m", 1500.0)
	v.SetDefault("transit.walk_meters_per_min", 75.0)
	v.SetDefault("transit.keep_nearest", 10)

	v.SetDefault("score.safety_weight", 0.35)
	v.SetDefault("score.accessibility_weight", 0.15)
	v.SetDefault("score.popularity_weight", 0.35)
	v.SetDefault("score.value_weight", 0.15)
	v.SetDefault("score.stale_after_days", 365)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the loaded configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Region.MinLat >= c.Region.MaxLat || c.Region.MinLon >= c.Region.MaxLon {
		return eris.New("config: bounding region is empty")
	}
	if c.Match.AcceptThreshold <= 0 || c.Match.AcceptThreshold > 100 {
		return eris.Errorf("config: accept threshold %.1f out of range (0,100]", c.Match.AcceptThreshold)
	}
	if c.Match.NameWeight+c.Match.GeoWeight == 0 {
		return eris.New("config: match weights sum to zero")
	}
	if c.Transit.WalkMetersPerMin <= 0 {
		return eris.New("config: walking speed must be positive")
	}
	wsum := c.Score.SafetyWeight + c.Score.AccessibilityWeight + c.Score.PopularityWeight + c.Score.ValueWeight
	if wsum <= 0 {
		return eris.New("config: score weights sum to zero")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
