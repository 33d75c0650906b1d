package handler

import (
	"net/http"
	"time"

	"space-mission-pipeline/internal/model"
)

// FeedResponse is a feed payload with its freshness. Warning carries the
// refresh failure when stale data is served.
type FeedResponse[T any] struct {
	model.FeedResult[T]
	Warning string `json:"warning,omitempty"`
}

func writeFeed[T any](w http.ResponseWriter, res model.FeedResult[T]) {
	resp := FeedResponse[T]{FeedResult: res}
	if res.Err != nil {
		resp.Warning = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// DailyImage returns the astronomy picture of the day
// @Summary Astronomy picture of the day
// @Tags feeds
// @Produce json
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} FeedResponse[model.DailyImage]
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /feeds/apod [get]
func (h *Handler) DailyImage(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format(model.DateLayout)
	}
	res, err := h.feeds.DailyImage(r.Context(), date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeFeed(w, res)
}

// NearEarthObjects returns close approaches in a window of at most 7 days
// @Summary Near-earth objects
// @Tags feeds
// @Produce json
// @Param start query string false "YYYY-MM-DD, defaults to today"
// @Param end query string false "YYYY-MM-DD, defaults to start plus the configured window"
// @Success 200 {object} FeedResponse[[]model.NearEarthObject]
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /feeds/neo [get]
func (h *Handler) NearEarthObjects(w http.ResponseWriter, r *http.Request) {
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	defStart, defEnd := h.feeds.DefaultWindow()
	switch {
	case start == "" && end == "":
		start, end = defStart, defEnd
	case start == "":
		start = end
	case end == "":
		end = start
	}
	res, err := h.feeds.NearEarthObjects(r.Context(), start, end)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeFeed(w, res)
}

// HazardousAsteroids returns the potentially hazardous approaches of a day
// @Summary Hazardous asteroids
// @Tags feeds
// @Produce json
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} FeedResponse[[]model.NearEarthObject]
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /feeds/neo/hazardous [get]
func (h *Handler) HazardousAsteroids(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format(model.DateLayout)
	}
	res, err := h.feeds.HazardousAsteroids(r.Context(), date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeFeed(w, res)
}

// Exoplanets returns the exoplanet catalog
// @Summary Exoplanets
// @Tags feeds
// @Produce json
// @Success 200 {object} FeedResponse[[]model.Exoplanet]
// @Failure 502 {object} ErrorResponse
// @Router /feeds/exoplanets [get]
func (h *Handler) Exoplanets(w http.ResponseWriter, r *http.Request) {
	res, err := h.feeds.Exoplanets(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeFeed(w, res)
}

// EarthImagery returns the imagery pointer of a configured location, or the
// location list when none is given
// @Summary Earth imagery
// @Tags feeds
// @Produce json
// @Param location query string false "Configured location name"
// @Success 200 {object} FeedResponse[model.EarthImage]
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /feeds/earth [get]
func (h *Handler) EarthImagery(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeJSON(w, http.StatusOK, h.feeds.Locations())
		return
	}
	res, err := h.feeds.EarthImagery(r.Context(), location)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeFeed(w, res)
}

// RefreshFeeds warms every feed
// @Summary Refresh feeds
// @Tags feeds
// @Produce json
// @Success 200 {object} feeds.RefreshSummary
// @Failure 503 {object} ErrorResponse
// @Router /feeds/refresh [post]
func (h *Handler) RefreshFeeds(w http.ResponseWriter, r *http.Request) {
	summary, err := h.feeds.RefreshAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
