package feeds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"space-mission-pipeline/internal/model"
)

// NeoWs rejects windows longer than a week
const maxNEOWindowDays = 7

// exoplanetCatalogKey identifies the single exoplanet request in the fetch log
const exoplanetCatalogKey = "catalog"

// DailyImage returns the astronomy picture of date (YYYY-MM-DD)
func (c *Cache) DailyImage(ctx context.Context, date string) (model.FeedResult[model.DailyImage], error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return model.FeedResult[model.DailyImage]{}, fmt.Errorf("%w: date %q: %w", model.ErrInvalidRequest, date, err)
	}

	return getOrRefresh(ctx, c, model.FeedDailyImage,
		func(ctx context.Context) (cached[model.DailyImage], error) {
			img, found, err := c.store.GetDailyImage(ctx, date)
			return cached[model.DailyImage]{data: img, fetchedAt: img.FetchedAt, found: found}, err
		},
		func(ctx context.Context, now time.Time) (model.DailyImage, error) {
			img, err := c.fetcher.FetchDailyImage(ctx, date)
			if err != nil {
				return img, err
			}
			// keyed by the requested date even if the service answers with another
			img.Date = date
			img.FetchedAt = now
			if err := c.store.UpsertDailyImage(ctx, img); err != nil {
				return img, err
			}
			return img, nil
		})
}

// NearEarthObjects returns the close approaches between start and end inclusive
func (c *Cache) NearEarthObjects(ctx context.Context, start, end string) (model.FeedResult[[]model.NearEarthObject], error) {
	if err := validateWindow(start, end); err != nil {
		return model.FeedResult[[]model.NearEarthObject]{}, err
	}
	key := start + "/" + end

	return getOrRefresh(ctx, c, model.FeedNearEarthObject,
		func(ctx context.Context) (cached[[]model.NearEarthObject], error) {
			fetchedAt, found, err := c.store.FeedRequest(ctx, model.FeedNearEarthObject, key)
			if err != nil || !found {
				return cached[[]model.NearEarthObject]{}, err
			}
			objects, err := c.store.NearEarthObjectsBetween(ctx, start, end)
			return cached[[]model.NearEarthObject]{data: objects, fetchedAt: fetchedAt, found: true}, err
		},
		func(ctx context.Context, now time.Time) ([]model.NearEarthObject, error) {
			objects, err := c.fetcher.FetchNearEarthObjects(ctx, start, end)
			if err != nil {
				return nil, err
			}
			for i := range objects {
				objects[i].FetchedAt = now
			}
			if err := c.store.UpsertNearEarthObjects(ctx, objects); err != nil {
				return nil, err
			}
			if err := c.store.RecordFeedRequest(ctx, model.FeedNearEarthObject, key, now); err != nil {
				return nil, err
			}
			if objects == nil {
				objects = []model.NearEarthObject{}
			}
			return objects, nil
		})
}

// HazardousAsteroids returns the potentially hazardous approaches on date
func (c *Cache) HazardousAsteroids(ctx context.Context, date string) (model.FeedResult[[]model.NearEarthObject], error) {
	res, err := c.NearEarthObjects(ctx, date, date)
	if err != nil {
		return res, err
	}
	hazardous := make([]model.NearEarthObject, 0, len(res.Data))
	for _, o := range res.Data {
		if o.Hazardous {
			hazardous = append(hazardous, o)
		}
	}
	res.Data = hazardous
	return res, nil
}

// Exoplanets returns the cached exoplanet catalog
func (c *Cache) Exoplanets(ctx context.Context) (model.FeedResult[[]model.Exoplanet], error) {
	return getOrRefresh(ctx, c, model.FeedExoplanet,
		func(ctx context.Context) (cached[[]model.Exoplanet], error) {
			fetchedAt, found, err := c.store.FeedRequest(ctx, model.FeedExoplanet, exoplanetCatalogKey)
			if err != nil || !found {
				return cached[[]model.Exoplanet]{}, err
			}
			planets, err := c.store.Exoplanets(ctx)
			return cached[[]model.Exoplanet]{data: planets, fetchedAt: fetchedAt, found: true}, err
		},
		func(ctx context.Context, now time.Time) ([]model.Exoplanet, error) {
			planets, err := c.fetcher.FetchExoplanets(ctx)
			if err != nil {
				return nil, err
			}
			for i := range planets {
				planets[i].FetchedAt = now
			}
			if err := c.store.UpsertExoplanets(ctx, planets); err != nil {
				return nil, err
			}
			if err := c.store.RecordFeedRequest(ctx, model.FeedExoplanet, exoplanetCatalogKey, now); err != nil {
				return nil, err
			}
			return c.store.Exoplanets(ctx)
		})
}

// EarthImagery returns the imagery pointer of a configured location, matched
// by name ignoring case
func (c *Cache) EarthImagery(ctx context.Context, location string) (model.FeedResult[model.EarthImage], error) {
	loc, ok := c.Location(location)
	if !ok {
		return model.FeedResult[model.EarthImage]{}, fmt.Errorf("%w: location %q", model.ErrNotFound, location)
	}

	return getOrRefresh(ctx, c, model.FeedEarthImagery,
		func(ctx context.Context) (cached[model.EarthImage], error) {
			img, found, err := c.store.GetEarthImage(ctx, loc)
			return cached[model.EarthImage]{data: img, fetchedAt: img.FetchedAt, found: found}, err
		},
		func(ctx context.Context, now time.Time) (model.EarthImage, error) {
			img, err := c.fetcher.FetchEarthImagery(ctx, loc.Latitude, loc.Longitude, c.cfg.EarthDim)
			if err != nil {
				return img, err
			}
			img.Location = loc.Name
			img.Latitude, img.Longitude = loc.Latitude, loc.Longitude
			img.FetchedAt = now
			if err := c.store.UpsertEarthImage(ctx, img); err != nil {
				return img, err
			}
			return img, nil
		})
}

// Locations lists the configured earth imagery locations
func (c *Cache) Locations() []model.Location {
	return c.cfg.EarthLocations
}

// Location looks up a configured location by name
func (c *Cache) Location(name string) (model.Location, bool) {
	for _, loc := range c.cfg.EarthLocations {
		if strings.EqualFold(loc.Name, strings.TrimSpace(name)) {
			return loc, true
		}
	}
	return model.Location{}, false
}

// DefaultWindow is the NEO window starting today
func (c *Cache) DefaultWindow() (start, end string) {
	days := min(max(c.cfg.NEOWindowDays, 0), maxNEOWindowDays)
	today := c.now().UTC()
	return today.Format(model.DateLayout), today.AddDate(0, 0, days).Format(model.DateLayout)
}

func validateWindow(start, end string) error {
	s, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start date %q: %w", model.ErrInvalidRequest, start, err)
	}
	e, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end date %q: %w", model.ErrInvalidRequest, end, err)
	}
	if e.Before(s) {
		return fmt.Errorf("%w: end date %s before start date %s", model.ErrInvalidRequest, end, start)
	}
	if e.Sub(s) > maxNEOWindowDays*24*time.Hour {
		return fmt.Errorf("%w: window %s/%s exceeds %d days", model.ErrInvalidRequest, start, end, maxNEOWindowDays)
	}
	return nil
}
