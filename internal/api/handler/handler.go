package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"space-mission-pipeline/internal/feeds"
	"space-mission-pipeline/internal/model"
	"space-mission-pipeline/internal/pipeline"
	"space-mission-pipeline/pkg/utils"
)

// MissionQuerier answers mission queries
type MissionQuerier interface {
	ListMissions(ctx context.Context, criteria model.FilterCriteria) ([]model.Mission, error)
	ComputeAggregates(ctx context.Context, criteria model.FilterCriteria) (model.AggregateResult, error)
	FilterOptions(ctx context.Context) (model.FilterOptions, error)
}

// MissionLoader runs ingestion
type MissionLoader interface {
	LoadMissions(ctx context.Context, source string, opts ...pipeline.LoadOption) (model.LoadReport, error)
}

// LoadRunReader reads persisted load reports
type LoadRunReader interface {
	ListLoadRuns(ctx context.Context, limit int) ([]model.LoadReport, error)
	GetLoadRun(ctx context.Context, runID string) (model.LoadReport, error)
}

// FeedReader serves the cached external feeds
type FeedReader interface {
	DailyImage(ctx context.Context, date string) (model.FeedResult[model.DailyImage], error)
	NearEarthObjects(ctx context.Context, start, end string) (model.FeedResult[[]model.NearEarthObject], error)
	HazardousAsteroids(ctx context.Context, date string) (model.FeedResult[[]model.NearEarthObject], error)
	Exoplanets(ctx context.Context) (model.FeedResult[[]model.Exoplanet], error)
	EarthImagery(ctx context.Context, location string) (model.FeedResult[model.EarthImage], error)
	Locations() []model.Location
	DefaultWindow() (start, end string)
	RefreshAll(ctx context.Context) (feeds.RefreshSummary, error)
}

// Handler serves the HTTP API
type Handler struct {
	missions MissionQuerier
	loader   MissionLoader
	runs     LoadRunReader
	feeds    FeedReader
	output   *utils.OutputManager
	sources  sourcePolicy
	logger   *slog.Logger
}

// Deps groups the collaborators of a Handler
type Deps struct {
	Missions MissionQuerier
	Loader   MissionLoader
	Runs     LoadRunReader
	Feeds    FeedReader
	Output   *utils.OutputManager
	Logger   *slog.Logger

	// DefaultSource is the configured dataset a load may name explicitly.
	// Any other named source must be a bare file name inside SourceDir.
	DefaultSource string
	SourceDir     string
}

// New creates the API handler
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		missions: d.Missions,
		loader:   d.Loader,
		runs:     d.Runs,
		feeds:    d.Feeds,
		output:   d.Output,
		sources:  sourcePolicy{defaultSource: d.DefaultSource, dir: d.SourceDir},
		logger:   logger.With("component", "api"),
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var fetchErr *model.FetchError
	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrSchemaMismatch), errors.Is(err, model.ErrSourceUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidRequest, msg)
}

// parseCriteria reads mission filters from the query string. List filters
// may repeat or be comma-separated.
func parseCriteria(r *http.Request) (model.FilterCriteria, error) {
	q := r.URL.Query()
	criteria := model.FilterCriteria{
		MissionTypes: utils.SplitList(q["mission_type"]),
		TargetTypes:  utils.SplitList(q["target_type"]),
		Vehicles:     utils.SplitList(q["vehicle"]),
	}

	var err error
	if criteria.YearMin, err = yearParam(q.Get("year_min")); err != nil {
		return criteria, badRequest("year_min: " + err.Error())
	}
	if criteria.YearMax, err = yearParam(q.Get("year_max")); err != nil {
		return criteria, badRequest("year_max: " + err.Error())
	}
	return criteria, nil
}

func yearParam(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// pathParam returns the path segment following prefix
func pathParam(r *http.Request, prefix string) string {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	rest, _, _ = strings.Cut(strings.Trim(rest, "/"), "/")
	return rest
}
