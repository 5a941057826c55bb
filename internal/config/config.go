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
	City         CityConfig         `yaml:"city" mapstructure:"city"`
	Data         DataConfig         `yaml:"data" mapstructure:"data"`
	Dedupe       DedupeConfig       `yaml:"dedupe" mapstructure:"dedupe"`
	Clustering   ClusteringConfig   `yaml:"clustering" mapstructure:"clustering"`
	Intersection IntersectionConfig `yaml:"intersection" mapstructure:"intersection"`
	Temporal     TemporalConfig     `yaml:"temporal" mapstructure:"temporal"`
	Fetch        FetchConfig        `yaml:"fetch" mapstructure:"fetch"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// CityConfig anchors the local projection used for all planar math.
type CityConfig struct {
	Name      string  `yaml:"name" mapstructure:"name"`
	CenterLat float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon float64 `yaml:"center_lon" mapstructure:"center_lon"`
}

// DataConfig holds input and output locations for the pipeline stages.
type DataConfig struct {
	RestaurantsGoogle string `yaml:"restaurants_google" mapstructure:"restaurants_google"`
	RestaurantsOSM    string `yaml:"restaurants_osm" mapstructure:"restaurants_osm"`
	TaxiDir           string `yaml:"taxi_dir" mapstructure:"taxi_dir"`
	Boundary          string `yaml:"boundary" mapstructure:"boundary"`
	OutputDir         string `yaml:"output_dir" mapstructure:"output_dir"`
}

// DedupeConfig configures cross-source restaurant deduplication.
type DedupeConfig struct {
	DistanceThresholdM float64 `yaml:"distance_threshold_m" mapstructure:"distance_threshold_m"`
	NameSimilarity     float64 `yaml:"name_similarity" mapstructure:"name_similarity"`
}

// HDBSCANConfig holds the density-clustering parameters for one point source.
type HDBSCANConfig struct {
	MinClusterSize   int     `yaml:"min_cluster_size" mapstructure:"min_cluster_size"`
	MinSamples       int     `yaml:"min_samples" mapstructure:"min_samples"`
	SelectionEpsilon float64 `yaml:"cluster_selection_epsilon" mapstructure:"cluster_selection_epsilon"`
	SelectionMethod  string  `yaml:"cluster_selection_method" mapstructure:"cluster_selection_method"`
}

// ClusteringConfig configures both clustering runs and zone construction.
type ClusteringConfig struct {
	Restaurants      HDBSCANConfig `yaml:"restaurants" mapstructure:"restaurants"`
	Taxi             HDBSCANConfig `yaml:"taxi" mapstructure:"taxi"`
	DiningZoneBuffer float64       `yaml:"dining_zone_buffer_m" mapstructure:"dining_zone_buffer_m"`
	TaxiBuffer       float64       `yaml:"taxi_hotspot_buffer_m" mapstructure:"taxi_hotspot_buffer_m"`
	ValidationSample int           `yaml:"validation_sample" mapstructure:"validation_sample"`
}

// IntersectionConfig configures hotspot filtering.
type IntersectionConfig struct {
	MinAreaSqm      float64 `yaml:"min_area_sqm" mapstructure:"min_area_sqm"`
	MinOverlapRatio float64 `yaml:"min_overlap_ratio" mapstructure:"min_overlap_ratio"`
}

// TemporalConfig holds drop-off weighting by time slot.
type TemporalConfig struct {
	Weights WeightConfig `yaml:"weights" mapstructure:"weights"`
}

// WeightConfig assigns a temporal weight to each dining time slot.
type WeightConfig struct {
	WeekendDinner    float64 `yaml:"weekend_dinner" mapstructure:"weekend_dinner"`
	WeekdayDinner    float64 `yaml:"weekday_dinner" mapstructure:"weekday_dinner"`
	WeekdayLunch     float64 `yaml:"weekday_lunch" mapstructure:"weekday_lunch"`
	Breakfast        float64 `yaml:"breakfast" mapstructure:"breakfast"`
	LateNightWeekend float64 `yaml:"late_night_weekend" mapstructure:"late_night_weekend"`
	LateNightWeekday float64 `yaml:"late_night_weekday" mapstructure:"late_night_weekday"`
	OffPeak          float64 `yaml:"off_peak" mapstructure:"off_peak"`
}

// FetchConfig configures boundary downloads.
type FetchConfig struct {
	BoundaryURL   string  `yaml:"boundary_url" mapstructure:"boundary_url"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int     `yaml:"max_retries" mapstructure:"max_retries"`
	TempDir       string  `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// StoreConfig configures the run-record backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the results HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("HOTSPOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("city.name", "nyc")
	v.SetDefault("city.center_lat", 40.7128)
	v.SetDefault("city.center_lon", -74.0060)
	v.SetDefault("data.output_dir", "data/processed")
	v.SetDefault("data.taxi_dir", "data/raw/taxi")
	v.SetDefault("dedupe.distance_threshold_m", 50.0)
	v.SetDefault("dedupe.name_similarity", 80.0)
	v.SetDefault("clustering.restaurants.min_cluster_size", 30)
	v.SetDefault("clustering.restaurants.min_samples", 10)
	v.SetDefault("clustering.restaurants.cluster_selection_epsilon", 200.0)
	v.SetDefault("clustering.restaurants.cluster_selection_method", "eom")
	v.SetDefault("clustering.taxi.min_cluster_size", 50)
	v.SetDefault("clustering.taxi.min_samples", 15)
	v.SetDefault("clustering.taxi.cluster_selection_epsilon", 250.0)
	v.SetDefault("clustering.taxi.cluster_selection_method", "eom")
	v.SetDefault("clustering.dining_zone_buffer_m", 100.0)
	v.SetDefault("clustering.taxi_hotspot_buffer_m", 150.0)
	v.SetDefault("clustering.validation_sample", 10000)
	v.SetDefault("intersection.min_area_sqm", 10000.0)
	v.SetDefault("intersection.min_overlap_ratio", 0.15)
	v.SetDefault("temporal.weights.weekend_dinner", 1.5)
	v.SetDefault("temporal.weights.weekday_dinner", 1.0)
	v.SetDefault("temporal.weights.weekday_lunch", 0.8)
	v.SetDefault("temporal.weights.breakfast", 0.5)
	v.SetDefault("temporal.weights.late_night_weekend", 0.7)
	v.SetDefault("temporal.weights.late_night_weekday", 0.4)
	v.SetDefault("temporal.weights.off_peak", 0.3)
	v.SetDefault("fetch.rate_per_second", 2.0)
	v.SetDefault("fetch.timeout_secs", 120)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.temp_dir", "/tmp/hotspot-cli")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "hotspot.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
