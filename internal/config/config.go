// Package config loads the runtime configuration shared by the ingestion
// pipeline, the feed cache and the HTTP API.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"space-mission-pipeline/internal/model"
	"space-mission-pipeline/pkg/utils"
)

// Config is the root configuration. It is passed explicitly into every
// component constructor; nothing reads it from package state.
type Config struct {
	Database Database `yaml:"database"`
	Ingest   Ingest   `yaml:"ingest"`
	Feeds    Feeds    `yaml:"feeds"`
	API      API      `yaml:"api"`
	Log      Log      `yaml:"log"`
}

// Database configures the SQLite store
type Database struct {
	Path        string `yaml:"path" validate:"required"`
	BusyTimeout string `yaml:"busy_timeout"`
}

// Ingest configures the mission ingestion pipeline
type Ingest struct {
	Source              string   `yaml:"source"`
	BatchSize           int      `yaml:"batch_size" validate:"gte=1"`
	ValidationWorkers   int      `yaml:"validation_workers" validate:"gte=1"`
	TransformWorkers    int      `yaml:"transform_workers" validate:"gte=1"`
	ChannelBufferSize   int      `yaml:"channel_buffer_size" validate:"gte=0"`
	AllowedTargetTypes  []string `yaml:"allowed_target_types"`
	AllowedMissionTypes []string `yaml:"allowed_mission_types"`
}

// Feeds configures the external feed cache and the NASA client
type Feeds struct {
	APIKey         string           `yaml:"api_key"`
	APODURL        string           `yaml:"apod_url" validate:"required,url"`
	NEOURL         string           `yaml:"neo_url" validate:"required,url"`
	EarthURL       string           `yaml:"earth_url" validate:"required,url"`
	ExoplanetURL   string           `yaml:"exoplanet_url" validate:"required,url"`
	Timeout        string           `yaml:"timeout"`
	MaxRetries     int              `yaml:"max_retries" validate:"gte=0,lte=10"`
	RequestsPerSec float64          `yaml:"requests_per_second" validate:"gt=0"`
	ExoplanetLimit int              `yaml:"exoplanet_limit" validate:"gte=1"`
	EarthDim       float64          `yaml:"earth_dim" validate:"gt=0"`
	APODWarmupDays int              `yaml:"apod_warmup_days" validate:"gte=0"`
	NEOWindowDays  int              `yaml:"neo_window_days" validate:"gte=0,lte=7"`
	TTL            TTL              `yaml:"ttl"`
	EarthLocations []model.Location `yaml:"earth_locations" validate:"dive"`
}

// TTL holds the per-feed time-to-live as duration strings
type TTL struct {
	DailyImage      string `yaml:"daily_image"`
	NearEarthObject string `yaml:"near_earth_object"`
	EarthImagery    string `yaml:"earth_imagery"`
	Exoplanet       string `yaml:"exoplanet"`
}

// API configures the HTTP query surface
type API struct {
	Addr      string `yaml:"addr" validate:"required"`
	ExportDir string `yaml:"export_dir" validate:"required"`
	SourceDir string `yaml:"source_dir"` // directory POST /loads may read named sources from
	TopN      int    `yaml:"top_n" validate:"gte=1"`
}

// Log configures slog output
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns configuration with sensible defaults
func Default() *Config {
	return &Config{
		Database: Database{
			Path:        "nasa_missions.db",
			BusyTimeout: "5s",
		},
		Ingest: Ingest{
			Source:              "space_missions_dataset.csv",
			BatchSize:           500,
			ValidationWorkers:   3,
			TransformWorkers:    2,
			ChannelBufferSize:   256,
			AllowedTargetTypes:  append([]string(nil), model.DefaultTargetTypes...),
			AllowedMissionTypes: append([]string(nil), model.DefaultMissionTypes...),
		},
		Feeds: Feeds{
			APIKey:         "DEMO_KEY",
			APODURL:        "https://api.nasa.gov/planetary/apod",
			NEOURL:         "https://api.nasa.gov/neo/rest/v1/feed",
			EarthURL:       "https://api.nasa.gov/planetary/earth/imagery",
			ExoplanetURL:   "https://exoplanetarchive.ipac.caltech.edu/TAP/sync",
			Timeout:        "10s",
			MaxRetries:     2,
			RequestsPerSec: 2,
			ExoplanetLimit: 50,
			EarthDim:       0.15,
			APODWarmupDays: 7,
			NEOWindowDays:  7,
			TTL: TTL{
				DailyImage:      "24h",
				NearEarthObject: "1h",
				EarthImagery:    "168h",
				Exoplanet:       "720h",
			},
			EarthLocations: []model.Location{
				{Name: "New York City", Latitude: 40.7128, Longitude: -74.0060},
				{Name: "Tokyo", Latitude: 35.6895, Longitude: 139.6917},
				{Name: "London", Latitude: 51.5074, Longitude: -0.1278},
				{Name: "Sydney", Latitude: -33.8688, Longitude: 151.2093},
			},
		},
		API: API{
			Addr:      ":8080",
			ExportDir: "output",
			SourceDir: "data",
			TopN:      5,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Database.Path = getEnv("MISSIONS_DB_PATH", c.Database.Path)
	c.Ingest.Source = getEnv("MISSIONS_SOURCE", c.Ingest.Source)
	c.Feeds.APIKey = getEnv("NASA_API_KEY", c.Feeds.APIKey)
	c.API.Addr = getEnv("MISSIONS_HTTP_ADDR", c.API.Addr)
	c.API.ExportDir = getEnv("MISSIONS_EXPORT_DIR", c.API.ExportDir)
	c.API.SourceDir = getEnv("MISSIONS_SOURCE_DIR", c.API.SourceDir)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	if v := os.Getenv("MISSIONS_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Ingest.BatchSize = n
		}
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that every duration string parses
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	durations := map[string]string{
		"database.busy_timeout":       c.Database.BusyTimeout,
		"feeds.timeout":               c.Feeds.Timeout,
		"feeds.ttl.daily_image":       c.Feeds.TTL.DailyImage,
		"feeds.ttl.near_earth_object": c.Feeds.TTL.NearEarthObject,
		"feeds.ttl.earth_imagery":     c.Feeds.TTL.EarthImagery,
		"feeds.ttl.exoplanet":         c.Feeds.TTL.Exoplanet,
	}
	var errs []error
	for key, raw := range durations {
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive", key))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DailyImageTTL is how long a cached daily image stays fresh
func (t TTL) DailyImageTTL() time.Duration {
	return utils.ParseDuration(t.DailyImage, 24*time.Hour)
}

// NearEarthObjectTTL is how long a cached asteroid window stays fresh
func (t TTL) NearEarthObjectTTL() time.Duration {
	return utils.ParseDuration(t.NearEarthObject, time.Hour)
}

// EarthImageryTTL is how long a cached Earth image stays fresh
func (t TTL) EarthImageryTTL() time.Duration {
	return utils.ParseDuration(t.EarthImagery, 7*24*time.Hour)
}

// ExoplanetTTL is how long the cached exoplanet list stays fresh
func (t TTL) ExoplanetTTL() time.Duration {
	return utils.ParseDuration(t.Exoplanet, 30*24*time.Hour)
}

// RequestTimeout is the per-request HTTP timeout of the feed client
func (f Feeds) RequestTimeout() time.Duration {
	return utils.ParseDuration(f.Timeout, 10*time.Second)
}

// BusyTimeoutMillis is the SQLite busy timeout in milliseconds
func (d Database) BusyTimeoutMillis() int64 {
	return utils.ParseDuration(d.BusyTimeout, 5*time.Second).Milliseconds()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
