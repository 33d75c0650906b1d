package feeds

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"space-mission-pipeline/internal/model"
)

// RefreshSummary reports a RefreshAll pass
type RefreshSummary struct {
	Fresh     int      `json:"fresh"`
	Refreshed int      `json:"refreshed"`
	Degraded  int      `json:"degraded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// RefreshAll warms every feed concurrently: the last APOD warmup days, the
// default NEO window, the exoplanet catalog and each configured location.
// Fetch failures are counted in the summary; a store failure aborts the pass.
func (c *Cache) RefreshAll(ctx context.Context) (RefreshSummary, error) {
	var (
		mu      sync.Mutex
		summary RefreshSummary
	)
	record := func(name string, stale, fromCache bool, err error) error {
		var fetchErr *model.FetchError
		if err != nil && !errors.As(err, &fetchErr) {
			return err
		}

		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			summary.Failed++
			summary.Errors = append(summary.Errors, name+": "+err.Error())
			c.logger.Warn("feed refresh failed", "feed", name, "error", err)
		case stale:
			summary.Degraded++
		case fromCache:
			summary.Fresh++
		default:
			summary.Refreshed++
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	today := c.now().UTC()
	for i := 0; i < c.cfg.APODWarmupDays; i++ {
		date := today.AddDate(0, 0, -i).Format(model.DateLayout)
		g.Go(func() error {
			res, err := c.DailyImage(ctx, date)
			return record("apod "+date, res.Stale, res.FromCache, err)
		})
	}

	start, end := c.DefaultWindow()
	g.Go(func() error {
		res, err := c.NearEarthObjects(ctx, start, end)
		return record("neo "+start+"/"+end, res.Stale, res.FromCache, err)
	})

	g.Go(func() error {
		res, err := c.Exoplanets(ctx)
		return record("exoplanets", res.Stale, res.FromCache, err)
	})

	for _, loc := range c.cfg.EarthLocations {
		g.Go(func() error {
			res, err := c.EarthImagery(ctx, loc.Name)
			return record("earth "+loc.Name, res.Stale, res.FromCache, err)
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	c.logger.Info("feeds refreshed",
		"fresh", summary.Fresh,
		"refreshed", summary.Refreshed,
		"degraded", summary.Degraded,
		"failed", summary.Failed,
	)
	return summary, nil
}
