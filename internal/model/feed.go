package model

import "time"

// Feed names an external data feed
type Feed string

const (
	FeedDailyImage      Feed = "apod"
	FeedNearEarthObject Feed = "neo"
	FeedExoplanet       Feed = "exoplanet"
	FeedEarthImagery    Feed = "earth_imagery"
)

// Source labels stored alongside cached feed rows
const (
	SourceAPOD          = "APOD"
	SourceNEO           = "NEO"
	SourceExoplanet     = "Exoplanet Archive"
	SourceEarthImagery  = "Earth Imagery"
	ExplanationMaxRunes = 500
)

// DailyImage is an astronomy picture of the day, keyed by Date
type DailyImage struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Explanation string    `json:"explanation"`
	URL         string    `json:"url"`
	MediaType   string    `json:"media_type"`
	Source      string    `json:"source"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// NearEarthObject is one close approach, keyed by Name and ApproachDate
type NearEarthObject struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	ApproachDate   string    `json:"approach_date"`
	DiameterKm     float64   `json:"diameter_km"`
	Hazardous      bool      `json:"hazardous"`
	VelocityKms    float64   `json:"velocity_kms"`
	VelocityKph    float64   `json:"velocity_kph"`
	MissDistanceKm float64   `json:"miss_distance_km"`
	Source         string    `json:"source"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// Exoplanet is one confirmed planet, keyed by Name. Archive columns may be null.
type Exoplanet struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	PlanetCount   *int      `json:"planet_count"`
	RadiusEarth   *float64  `json:"radius_earth"`
	MassEarth     *float64  `json:"mass_earth"`
	DistancePC    *float64  `json:"distance_pc"`
	DiscoveryYear *int      `json:"discovery_year"`
	Source        string    `json:"source"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Location is a named point for earth imagery requests
type Location struct {
	Name      string  `json:"name" yaml:"name" validate:"required"`
	Latitude  float64 `json:"latitude" yaml:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" yaml:"longitude" validate:"gte=-180,lte=180"`
}

// EarthImage is an imagery pointer, keyed by location name and coordinates
type EarthImage struct {
	ID        int64     `json:"id"`
	Location  string    `json:"location"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Dim       float64   `json:"dim"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// FeedResult wraps feed data with its freshness.
// Stale is set when a refresh failed and the last cached value was served
// instead; Err then carries the fetch failure.
type FeedResult[T any] struct {
	Data      T         `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
	FromCache bool      `json:"from_cache"`
	Stale     bool      `json:"stale"`
	Err       error     `json:"-"`
}
