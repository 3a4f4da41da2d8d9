package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Query   QueryConfig   `yaml:"query" mapstructure:"query"`
	Weights WeightsConfig `yaml:"weights" mapstructure:"weights"`
	Alerts  AlertsConfig  `yaml:"alerts" mapstructure:"alerts"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SourcesConfig holds the upstream API endpoints and limits.
type SourcesConfig struct {
	WorldBankURL string  `yaml:"worldbank_url" mapstructure:"worldbank_url"`
	GazetteerURL string  `yaml:"gazetteer_url" mapstructure:"gazetteer_url"`
	OverpassURL  string  `yaml:"overpass_url" mapstructure:"overpass_url"`
	OverpassRPS  float64 `yaml:"overpass_rps" mapstructure:"overpass_rps"`
}

// CacheConfig holds the TTLs per data class. Indicator and gazetteer data
// change slowly; geospatial queries are volatile and rate-limit-sensitive.
type CacheConfig struct {
	IndicatorTTLHours int `yaml:"indicator_ttl_hours" mapstructure:"indicator_ttl_hours"`
	GeospatialTTLMins int `yaml:"geospatial_ttl_mins" mapstructure:"geospatial_ttl_mins"`
}

// IndicatorTTL returns the indicator/gazetteer cache TTL.
func (c CacheConfig) IndicatorTTL() time.Duration {
	return time.Duration(c.IndicatorTTLHours) * time.Hour
}

// GeospatialTTL returns the geospatial query cache TTL.
func (c CacheConfig) GeospatialTTL() time.Duration {
	return time.Duration(c.GeospatialTTLMins) * time.Minute
}

// QueryConfig holds geospatial query tunables.
type QueryConfig struct {
	RadiusKM       int      `yaml:"radius_km" mapstructure:"radius_km"`
	MaxPoints      int      `yaml:"max_points" mapstructure:"max_points"`
	ZoneTypes      []string `yaml:"zone_types" mapstructure:"zone_types"`
	CategoryFile   string   `yaml:"category_file" mapstructure:"category_file"`
	BestCandidates int      `yaml:"best_candidates" mapstructure:"best_candidates"`
}

// WeightsConfig holds the composite score weight defaults; each can be
// overridden per invocation with command flags.
type WeightsConfig struct {
	Population   float64 `yaml:"population" mapstructure:"population"`
	GDPPerCapita float64 `yaml:"gdp_pc" mapstructure:"gdp_pc"`
	Inflation    float64 `yaml:"inflation" mapstructure:"inflation"`
	Unemployment float64 `yaml:"unemployment" mapstructure:"unemployment"`
	Growth       float64 `yaml:"growth" mapstructure:"growth"`
	Risk         float64 `yaml:"risk" mapstructure:"risk"`
}

// AlertsConfig holds the alert thresholds.
type AlertsConfig struct {
	InflationAbove    float64 `yaml:"inflation_above" mapstructure:"inflation_above"`
	UnemploymentAbove float64 `yaml:"unemployment_above" mapstructure:"unemployment_above"`
	RiskBelow         float64 `yaml:"risk_below" mapstructure:"risk_below"`
}

// StoreConfig configures the watchlist store backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// ServerConfig configures the JSON API server.
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
	v.SetEnvPrefix("RADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.worldbank_url", "https://api.worldbank.org/v2")
	v.SetDefault("sources.gazetteer_url", "https://public.opendatasoft.com/api/records/1.0/search/")
	v.SetDefault("sources.overpass_url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("sources.overpass_rps", 1.0)
	v.SetDefault("cache.indicator_ttl_hours", 24)
	v.SetDefault("cache.geospatial_ttl_mins", 60)
	v.SetDefault("query.radius_km", 10)
	v.SetDefault("query.max_points", 150)
	v.SetDefault("query.zone_types", []string{"neighbourhood", "suburb", "quarter", "district"})
	v.SetDefault("query.best_candidates", 8)
	v.SetDefault("weights.population", 1.2)
	v.SetDefault("weights.gdp_pc", 1.0)
	v.SetDefault("weights.inflation", 1.0)
	v.SetDefault("weights.unemployment", 1.0)
	v.SetDefault("weights.growth", 0.8)
	v.SetDefault("weights.risk", 0.6)
	v.SetDefault("alerts.inflation_above", 10.0)
	v.SetDefault("alerts.unemployment_above", 12.0)
	v.SetDefault("alerts.risk_below", -0.5)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "radar.db")
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
