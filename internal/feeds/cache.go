// Package feeds keeps a local, TTL-bound copy of the external feeds and
// degrades to the last stored value when a refresh fails.
package feeds

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"space-mission-pipeline/internal/config"
	"space-mission-pipeline/internal/model"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "missions",
		Subsystem: "feed_cache",
		Name:      "hits_total",
		Help:      "Feed reads served from a fresh cached row.",
	}, []string{"feed"})
	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "missions",
		Subsystem: "feed_cache",
		Name:      "misses_total",
		Help:      "Feed reads that required a fetch.",
	}, []string{"feed"})
	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "missions",
		Subsystem: "feed_cache",
		Name:      "fetch_failures_total",
		Help:      "Failed feed refreshes, by feed and kind.",
	}, []string{"feed", "kind"})
	degradedReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "missions",
		Subsystem: "feed_cache",
		Name:      "degraded_reads_total",
		Help:      "Feed reads answered with a stale row after a failed refresh.",
	}, []string{"feed"})
)

// Fetcher retrieves feed data from the outside world. Failures must be
// *model.FetchError.
type Fetcher interface {
	FetchDailyImage(ctx context.Context, date string) (model.DailyImage, error)
	FetchNearEarthObjects(ctx context.Context, start, end string) ([]model.NearEarthObject, error)
	FetchExoplanets(ctx context.Context) ([]model.Exoplanet, error)
	FetchEarthImagery(ctx context.Context, lat, lon, dim float64) (model.EarthImage, error)
}

// Store is the persistence backing the cache
type Store interface {
	GetDailyImage(ctx context.Context, date string) (model.DailyImage, bool, error)
	UpsertDailyImage(ctx context.Context, img model.DailyImage) error
	NearEarthObjectsBetween(ctx context.Context, start, end string) ([]model.NearEarthObject, error)
	UpsertNearEarthObjects(ctx context.Context, objects []model.NearEarthObject) error
	Exoplanets(ctx context.Context) ([]model.Exoplanet, error)
	UpsertExoplanets(ctx context.Context, planets []model.Exoplanet) error
	GetEarthImage(ctx context.Context, loc model.Location) (model.EarthImage, bool, error)
	UpsertEarthImage(ctx context.Context, img model.EarthImage) error
	FeedRequest(ctx context.Context, feed model.Feed, key string) (time.Time, bool, error)
	RecordFeedRequest(ctx context.Context, feed model.Feed, key string, fetchedAt time.Time) error
}

// Cache serves feed reads cache-aside. Concurrent refreshes of the same key
// are not coordinated; the last upsert wins.
type Cache struct {
	store   Store
	fetcher Fetcher
	cfg     config.Feeds
	ttl     map[model.Feed]time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Cache
type Option func(*Cache)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a cache over st that refreshes through fetcher
func NewCache(st Store, fetcher Fetcher, cfg config.Feeds, logger *slog.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		store:   st,
		fetcher: fetcher,
		cfg:     cfg,
		ttl: map[model.Feed]time.Duration{
			model.FeedDailyImage:      cfg.TTL.DailyImageTTL(),
			model.FeedNearEarthObject: cfg.TTL.NearEarthObjectTTL(),
			model.FeedEarthImagery:    cfg.TTL.EarthImageryTTL(),
			model.FeedExoplanet:       cfg.TTL.ExoplanetTTL(),
		},
		now:    time.Now,
		logger: logger.With("component", "feeds"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the freshness window of feed
func (c *Cache) TTL(feed model.Feed) time.Duration {
	return c.ttl[feed]
}

// cached is what a lookup found in the store
type cached[T any] struct {
	data      T
	fetchedAt time.Time
	found     bool
}

// getOrRefresh returns the stored value while it is younger than the feed
// TTL. Otherwise it refreshes; when the refresh fails with a fetch error and
// a stored value exists, that value is returned marked stale. Store errors
// are never degraded.
func getOrRefresh[T any](
	ctx context.Context,
	c *Cache,
	feed model.Feed,
	lookup func(ctx context.Context) (cached[T], error),
	refresh func(ctx context.Context, now time.Time) (T, error),
) (model.FeedResult[T], error) {
	hit, err := lookup(ctx)
	if err != nil {
		return model.FeedResult[T]{}, err
	}

	now := c.now()
	if hit.found && now.Sub(hit.fetchedAt) < c.ttl[feed] {
		cacheHits.WithLabelValues(string(feed)).Inc()
		return model.FeedResult[T]{Data: hit.data, FetchedAt: hit.fetchedAt, FromCache: true}, nil
	}
	cacheMisses.WithLabelValues(string(feed)).Inc()

	data, err := refresh(ctx, now)
	if err == nil {
		return model.FeedResult[T]{Data: data, FetchedAt: now}, nil
	}

	var fetchErr *model.FetchError
	if !errors.As(err, &fetchErr) {
		return model.FeedResult[T]{}, err
	}
	fetchFailures.WithLabelValues(string(feed), string(fetchErr.Kind)).Inc()
	if !hit.found {
		return model.FeedResult[T]{}, err
	}

	degradedReads.WithLabelValues(string(feed)).Inc()
	c.logger.Warn("serving stale feed data", "feed", feed, "fetched_at", hit.fetchedAt, "error", err)
	return model.FeedResult[T]{
		Data:      hit.data,
		FetchedAt: hit.fetchedAt,
		FromCache: true,
		Stale:     true,
		Err:       err,
	}, nil
}
