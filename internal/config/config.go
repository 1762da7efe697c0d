// Package config loads application configuration from file and environment
// and initializes the global logger.
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
	Dedupe    DedupeConfig    `yaml:"dedupe" mapstructure:"dedupe"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Market    MarketConfig    `yaml:"market" mapstructure:"market"`
	Geo       GeoConfig       `yaml:"geo" mapstructure:"geo"`
	Taxonomy  TaxonomyConfig  `yaml:"taxonomy" mapstructure:"taxonomy"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Recommend RecommendConfig `yaml:"recommend" mapstructure:"recommend"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// DedupeConfig configures duplicate detection.
type DedupeConfig struct {
	Threshold     float64 `yaml:"threshold" mapstructure:"threshold"`
	NameGate      float64 `yaml:"name_gate" mapstructure:"name_gate"`
	NameWeight    float64 `yaml:"name_weight" mapstructure:"name_weight"`
	AddressWeight float64 `yaml:"address_weight" mapstructure:"address_weight"`
}

// ScoringConfig configures lead scoring weights, tier cutoffs, and the
// optional learned adjustment model.
type ScoringConfig struct {
	RatingQualityWeight     float64 `yaml:"rating_quality_weight" mapstructure:"rating_quality_weight"`
	ReviewVolumeWeight      float64 `yaml:"review_volume_weight" mapstructure:"review_volume_weight"`
	CompletenessWeight      float64 `yaml:"completeness_weight" mapstructure:"completeness_weight"`
	CategoryFitWeight       float64 `yaml:"category_fit_weight" mapstructure:"category_fit_weight"`
	MarketOpportunityWeight float64 `yaml:"market_opportunity_weight" mapstructure:"market_opportunity_weight"`
	GrowthSignalWeight      float64 `yaml:"growth_signal_weight" mapstructure:"growth_signal_weight"`

	TopCutoff    float64 `yaml:"top_cutoff" mapstructure:"top_cutoff"`
	HighCutoff   float64 `yaml:"high_cutoff" mapstructure:"high_cutoff"`
	MediumCutoff float64 `yaml:"medium_cutoff" mapstructure:"medium_cutoff"`

	ModelPath string  `yaml:"model_path" mapstructure:"model_path"`
	MaxAdjust float64 `yaml:"max_adjust" mapstructure:"max_adjust"`
}

// MarketConfig configures area aggregation.
type MarketConfig struct {
	NoveltyThreshold   int     `yaml:"novelty_threshold" mapstructure:"novelty_threshold"`
	SaturationCount    int     `yaml:"saturation_count" mapstructure:"saturation_count"`
	SaturationPenalty  float64 `yaml:"saturation_penalty" mapstructure:"saturation_penalty"`
	TopAreas           int     `yaml:"top_areas" mapstructure:"top_areas"`
	MinAreaSampleCount int     `yaml:"min_area_sample_count" mapstructure:"min_area_sample_count"`
}

// GeoConfig configures the locality gazetteer.
type GeoConfig struct {
	GazetteerPath string `yaml:"gazetteer_path" mapstructure:"gazetteer_path"`
}

// TaxonomyConfig configures category classification rules.
type TaxonomyConfig struct {
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
}

// PipelineConfig configures batch orchestration.
type PipelineConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RecommendConfig configures the sales recommendation builder.
type RecommendConfig struct {
	LeadsPerSegment int `yaml:"leads_per_segment" mapstructure:"leads_per_segment"`
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
	v.SetEnvPrefix("LEADSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadscan.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("dedupe.threshold", 0.62)
	v.SetDefault("dedupe.name_gate", 0.45)
	v.SetDefault("dedupe.name_weight", 0.7)
	v.SetDefault("dedupe.address_weight", 0.3)
	v.SetDefault("scoring.rating_quality_weight", 25)
	v.SetDefault("scoring.review_volume_weight", 15)
	v.SetDefault("scoring.completeness_weight", 15)
	v.SetDefault("scoring.category_fit_weight", 20)
	v.SetDefault("scoring.market_opportunity_weight", 15)
	v.SetDefault("scoring.growth_signal_weight", 10)
	v.SetDefault("scoring.top_cutoff", 8.0)
	v.SetDefault("scoring.high_cutoff", 6.0)
	v.SetDefault("scoring.medium_cutoff", 4.0)
	v.SetDefault("scoring.max_adjust", 1.0)
	v.SetDefault("market.novelty_threshold", 3)
	v.SetDefault("market.saturation_count", 10)
	v.SetDefault("market.saturation_penalty", 1.0)
	v.SetDefault("market.top_areas", 5)
	v.SetDefault("market.min_area_sample_count", 2)
	v.SetDefault("pipeline.workers", 8)
	v.SetDefault("recommend.leads_per_segment", 5)

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
