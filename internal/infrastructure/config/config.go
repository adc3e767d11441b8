// internal/infrastructure/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"fare-tracker-service/internal/domain/entity"
)

const (
	envPrefix     = "FARETRACKER_"
	configFileEnv = "FARETRACKER_CONFIG"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string `koanf:"app_version"`
	LogLevel   string `koanf:"log_level"`

	// Server (serve command)
	Port         string        `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// Relational store. Driver is "sqlite" or "postgres".
	DBDriver string `koanf:"db_driver"`
	DBDSN    string `koanf:"db_dsn"`

	// Raw archive. Backend is "sql" or "mongo"; the sql backend lives in RawDBDSN.
	RawArchiveBackend string `koanf:"raw_archive_backend"`
	RawDBDSN          string `koanf:"raw_db_dsn"`

	// MongoDB
	MongoURI      string `koanf:"mongo_uri"`
	MongoDB       string `koanf:"mongo_db"`
	MongoUser     string `koanf:"mongo_user"`
	MongoPassword string `koanf:"mongo_password"`

	// Fare search API
	FareAPIURL   string        `koanf:"fare_api_url"`
	FareLanguage string        `koanf:"fare_language"`
	FareMarket   string        `koanf:"fare_market"`
	FareLimit    int           `koanf:"fare_limit"`
	HTTPTimeout  time.Duration `koanf:"http_timeout"`

	// Tracking plan
	Routes          []string      `koanf:"routes"`
	DaysToTrack     int           `koanf:"days_to_track"`
	StartOffsetDays int           `koanf:"start_offset_days"`
	RequestDelay    time.Duration `koanf:"request_delay"`
	Timezone        string        `koanf:"timezone"`

	// Notifications
	NotifyURL   string `koanf:"notify_url"`
	NotifyTopic string `koanf:"notify_topic"`

	// Metrics
	PushgatewayURL string `koanf:"pushgateway_url"`
	MetricsJob     string `koanf:"metrics_job"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		AppVersion:   "1.0.0",
		LogLevel:     "info",
		Port:         "8080",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,

		DBDriver: "sqlite",
		DBDSN:    "data/flights.db",

		RawArchiveBackend: "sql",
		RawDBDSN:          "data/raw_data.db",

		MongoURI: "mongodb://localhost:27017",
		MongoDB:  "faretracker",

		FareAPIURL:   "https://services-api.ryanair.com/farfnd/3/oneWayFares",
		FareLanguage: "en",
		FareMarket:   "en-gb",
		FareLimit:    16,
		HTTPTimeout:  30 * time.Second,

		DaysToTrack:  50,
		RequestDelay: 2 * time.Second,
		Timezone:     "Local",

		NotifyTopic: "faretracker",
		MetricsJob:  "faretracker",
	}
}

// LoadConfig loads configuration by layering defaults, an optional YAML file
// (FARETRACKER_CONFIG) and FARETRACKER_* environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	k := koanf.New(".")

	if path := os.Getenv(configFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// FARETRACKER_DB_DSN -> db_dsn; FARETRACKER_ROUTES is a comma separated list
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		if key == "config" {
			return "", nil
		}
		if key == "routes" {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	routes := cfg.Routes
	cfg.Routes = nil
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Routes) == 0 {
		cfg.Routes = routes
	}
	if len(cfg.Routes) == 0 {
		cfg.Routes = []string{"VLC-BER"}
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("db dsn is required")
	}

	switch c.RawArchiveBackend {
	case "sql":
		if c.RawDBDSN == "" {
			return errors.New("raw db dsn is required for the sql archive backend")
		}
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("mongo uri is required for the mongo archive backend")
		}
	default:
		return fmt.Errorf("unsupported raw archive backend %q", c.RawArchiveBackend)
	}

	if c.DaysToTrack <= 0 {
		return fmt.Errorf("days to track must be positive, got %d", c.DaysToTrack)
	}
	if c.StartOffsetDays < 0 {
		return fmt.Errorf("start offset must not be negative, got %d", c.StartOffsetDays)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("request delay must not be negative, got %s", c.RequestDelay)
	}
	if _, err := c.ParsedRoutes(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ParsedRoutes turns "VLC-BER" style entries into routes
func (c *Config) ParsedRoutes() ([]entity.Route, error) {
	if len(c.Routes) == 0 {
		return nil, errors.New("at least one route is required")
	}

	routes := make([]entity.Route, 0, len(c.Routes))
	for _, raw := range c.Routes {
		route, err := entity.ParseRoute(raw)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// Location resolves the timezone observation instants are taken in
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
