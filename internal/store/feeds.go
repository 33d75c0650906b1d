package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"space-mission-pipeline/internal/model"
)

// ------------------- Daily image -------------------

// GetDailyImage returns the cached image for date. found is false on a miss.
func (s *Store) GetDailyImage(ctx context.Context, date string) (img model.DailyImage, found bool, err error) {
	var fetchedAt string
	err = s.db.QueryRowContext(ctx,
		`SELECT id, date, title, explanation, url, media_type, source, fetched_at FROM apod WHERE date = ?`, date).
		Scan(&img.ID, &img.Date, &img.Title, &img.Explanation, &img.URL, &img.MediaType, &img.Source, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return img, false, nil
	}
	if err != nil {
		return img, false, unavailable("get apod "+date, err)
	}
	if img.FetchedAt, err = parseTime(fetchedAt); err != nil {
		return img, false, unavailable("parse apod fetched_at", err)
	}
	return img, true, nil
}

// UpsertDailyImage replaces the cached image for img.Date
func (s *Store) UpsertDailyImage(ctx context.Context, img model.DailyImage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO apod (date, title, explanation, url, media_type, source, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			title = excluded.title,
			explanation = excluded.explanation,
			url = excluded.url,
			media_type = excluded.media_type,
			source = excluded.source,
			fetched_at = excluded.fetched_at`,
		img.Date, img.Title, img.Explanation, img.URL, img.MediaType, img.Source, formatTime(img.FetchedAt))
	if err != nil {
		return unavailable("upsert apod "+img.Date, err)
	}
	return nil
}

// ------------------- Near-earth objects -------------------

// NearEarthObjectsBetween returns cached approaches within [start, end] inclusive
func (s *Store) NearEarthObjectsBetween(ctx context.Context, start, end string) ([]model.NearEarthObject, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, date, diameter_km, hazardous, velocity_kms, velocity_kph, miss_distance_km, source, fetched_at
		FROM neo WHERE date >= ? AND date <= ? ORDER BY date, name`, start, end)
	if err != nil {
		return nil, unavailable("query neo", err)
	}
	defer rows.Close()

	objects := make([]model.NearEarthObject, 0)
	for rows.Next() {
		var o model.NearEarthObject
		var diameter, velocity, velocityKph, missDistance sql.NullFloat64
		var source sql.NullString
		var fetchedAt string
		if err := rows.Scan(&o.ID, &o.Name, &o.ApproachDate, &diameter, &o.Hazardous, &velocity,
			&velocityKph, &missDistance, &source, &fetchedAt); err != nil {
			return nil, unavailable("scan neo", err)
		}
		o.DiameterKm, o.VelocityKms, o.Source = diameter.Float64, velocity.Float64, source.String
		o.VelocityKph, o.MissDistanceKm = velocityKph.Float64, missDistance.Float64
		if o.FetchedAt, err = parseTime(fetchedAt); err != nil {
			return nil, unavailable("parse neo fetched_at", err)
		}
		objects = append(objects, o)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate neo", err)
	}
	return objects, nil
}

// UpsertNearEarthObjects replaces cached approaches keyed by name and date
func (s *Store) UpsertNearEarthObjects(ctx context.Context, objects []model.NearEarthObject) error {
	return s.inTx(ctx, "upsert neo", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO neo (date, name, diameter_km, hazardous, velocity_kms, velocity_kph, miss_distance_km, source, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (name, date) DO UPDATE SET
				diameter_km = excluded.diameter_km,
				hazardous = excluded.hazardous,
				velocity_kms = excluded.velocity_kms,
				velocity_kph = excluded.velocity_kph,
				miss_distance_km = excluded.miss_distance_km,
				source = excluded.source,
				fetched_at = excluded.fetched_at`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, o := range objects {
			if _, err := stmt.ExecContext(ctx, o.ApproachDate, o.Name, o.DiameterKm, o.Hazardous,
				o.VelocityKms, o.VelocityKph, o.MissDistanceKm, o.Source, formatTime(o.FetchedAt)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ------------------- Exoplanets -------------------

// Exoplanets returns every cached exoplanet, most recent discoveries first
func (s *Store) Exoplanets(ctx context.Context) ([]model.Exoplanet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, planet_count, radius_earth, mass_earth, distance_pc, discovery_year, source, fetched_at
		FROM exoplanet ORDER BY discovery_year DESC, name`)
	if err != nil {
		return nil, unavailable("query exoplanet", err)
	}
	defer rows.Close()

	planets := make([]model.Exoplanet, 0)
	for rows.Next() {
		var p model.Exoplanet
		var count, year sql.NullInt64
		var radius, mass, distance sql.NullFloat64
		var source sql.NullString
		var fetchedAt string
		if err := rows.Scan(&p.ID, &p.Name, &count, &radius, &mass, &distance, &year, &source, &fetchedAt); err != nil {
			return nil, unavailable("scan exoplanet", err)
		}
		p.PlanetCount, p.DiscoveryYear = nullInt(count), nullInt(year)
		p.RadiusEarth, p.MassEarth, p.DistancePC = nullFloat(radius), nullFloat(mass), nullFloat(distance)
		p.Source = source.String
		if p.FetchedAt, err = parseTime(fetchedAt); err != nil {
			return nil, unavailable("parse exoplanet fetched_at", err)
		}
		planets = append(planets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate exoplanet", err)
	}
	return planets, nil
}

// UpsertExoplanets replaces cached exoplanets keyed by name
func (s *Store) UpsertExoplanets(ctx context.Context, planets []model.Exoplanet) error {
	return s.inTx(ctx, "upsert exoplanet", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO exoplanet (name, planet_count, radius_earth, mass_earth, distance_pc, discovery_year, source, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (name) DO UPDATE SET
				planet_count = excluded.planet_count,
				radius_earth = excluded.radius_earth,
				mass_earth = excluded.mass_earth,
				distance_pc = excluded.distance_pc,
				discovery_year = excluded.discovery_year,
				source = excluded.source,
				fetched_at = excluded.fetched_at`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, p := range planets {
			if _, err := stmt.ExecContext(ctx, p.Name, p.PlanetCount, p.RadiusEarth, p.MassEarth,
				p.DistancePC, p.DiscoveryYear, p.Source, formatTime(p.FetchedAt)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ------------------- Earth imagery -------------------

// GetEarthImage returns the cached imagery pointer for loc
func (s *Store) GetEarthImage(ctx context.Context, loc model.Location) (img model.EarthImage, found bool, err error) {
	var dim sql.NullFloat64
	var url, source sql.NullString
	var fetchedAt string
	err = s.db.QueryRowContext(ctx, `
		SELECT id, location, latitude, longitude, dim, url, source, fetched_at
		FROM earth_imagery WHERE location = ? AND latitude = ? AND longitude = ?`,
		loc.Name, loc.Latitude, loc.Longitude).
		Scan(&img.ID, &img.Location, &img.Latitude, &img.Longitude, &dim, &url, &source, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return img, false, nil
	}
	if err != nil {
		return img, false, unavailable("get earth imagery "+loc.Name, err)
	}
	img.Dim, img.URL, img.Source = dim.Float64, url.String, source.String
	if img.FetchedAt, err = parseTime(fetchedAt); err != nil {
		return img, false, unavailable("parse earth imagery fetched_at", err)
	}
	return img, true, nil
}

// UpsertEarthImage replaces the cached imagery pointer for the image location
func (s *Store) UpsertEarthImage(ctx context.Context, img model.EarthImage) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO earth_imagery (location, latitude, longitude, dim, url, source, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (location, latitude, longitude) DO UPDATE SET
			dim = excluded.dim,
			url = excluded.url,
			source = excluded.source,
			fetched_at = excluded.fetched_at`,
		img.Location, img.Latitude, img.Longitude, img.Dim, img.URL, img.Source, formatTime(img.FetchedAt))
	if err != nil {
		return unavailable("upsert earth imagery "+img.Location, err)
	}
	return nil
}

// ------------------- Fetch log -------------------

// FeedRequest returns when the request identified by feed and key was last
// fetched successfully
func (s *Store) FeedRequest(ctx context.Context, feed model.Feed, key string) (time.Time, bool, error) {
	var fetchedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM feed_requests WHERE feed = ? AND request_key = ?`, string(feed), key).
		Scan(&fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, unavailable("get feed request", err)
	}
	t, err := parseTime(fetchedAt)
	if err != nil {
		return time.Time{}, false, unavailable("parse feed request fetched_at", err)
	}
	return t, true, nil
}

// RecordFeedRequest stamps a successful fetch of the request identified by feed and key
func (s *Store) RecordFeedRequest(ctx context.Context, feed model.Feed, key string, fetchedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feed_requests (feed, request_key, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT (feed, request_key) DO UPDATE SET fetched_at = excluded.fetched_at`,
		string(feed), key, formatTime(fetchedAt))
	if err != nil {
		return unavailable("record feed request", err)
	}
	return nil
}

// ------------------- Helpers -------------------

func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(op, err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return unavailable(op, err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable(op, err)
	}
	return nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
