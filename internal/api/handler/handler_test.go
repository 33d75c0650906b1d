package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"space-mission-pipeline/internal/api"
	"space-mission-pipeline/internal/api/handler"
	"space-mission-pipeline/internal/feeds"
	"space-mission-pipeline/internal/model"
	"space-mission-pipeline/internal/pipeline"
	"space-mission-pipeline/pkg/router"
	"space-mission-pipeline/pkg/utils"
)

type fakeMissions struct {
	missions []model.Mission
	err      error
	criteria model.FilterCriteria
}

func (f *fakeMissions) ListMissions(_ context.Context, c model.FilterCriteria) ([]model.Mission, error) {
	f.criteria = c
	return f.missions, f.err
}

func (f *fakeMissions) ComputeAggregates(_ context.Context, c model.FilterCriteria) (model.AggregateResult, error) {
	f.criteria = c
	avg := 2.0
	return model.AggregateResult{TotalCount: 3, AverageCost: &avg}, f.err
}

func (f *fakeMissions) FilterOptions(context.Context) (model.FilterOptions, error) {
	return model.FilterOptions{MissionTypes: []string{"Rover"}, YearMin: 2000, YearMax: 2050}, f.err
}

type fakeLoader struct {
	source string
	opts   int
	calls  int
	err    error
}

func (f *fakeLoader) LoadMissions(_ context.Context, source string, opts ...pipeline.LoadOption) (model.LoadReport, error) {
	f.source, f.opts = source, len(opts)
	f.calls++
	return model.LoadReport{RunID: "run-1", Source: source, Status: model.LoadStatusCompleted, RowsRead: 2, RowsLoaded: 1}, f.err
}

type fakeRuns struct{}

func (fakeRuns) ListLoadRuns(_ context.Context, limit int) ([]model.LoadReport, error) {
	return []model.LoadReport{{RunID: fmt.Sprintf("limit-%d", limit)}}, nil
}

func (fakeRuns) GetLoadRun(_ context.Context, runID string) (model.LoadReport, error) {
	if runID != "run-1" {
		return model.LoadReport{}, fmt.Errorf("load run %s: %w", runID, model.ErrNotFound)
	}
	return model.LoadReport{RunID: runID}, nil
}

type fakeFeeds struct {
	stale      bool
	err        error
	neoStart   string
	neoEnd     string
	refreshErr error
}

func (f *fakeFeeds) DailyImage(_ context.Context, date string) (model.FeedResult[model.DailyImage], error) {
	if f.err != nil {
		return model.FeedResult[model.DailyImage]{}, f.err
	}
	res := model.FeedResult[model.DailyImage]{Data: model.DailyImage{Date: date, Title: "Horsehead"}, FromCache: true}
	if f.stale {
		res.Stale = true
		res.Err = model.NewFetchError(model.FeedDailyImage, model.FetchRateLimited, errors.New("HTTP 429"))
	}
	return res, nil
}

func (f *fakeFeeds) NearEarthObjects(_ context.Context, start, end string) (model.FeedResult[[]model.NearEarthObject], error) {
	f.neoStart, f.neoEnd = start, end
	return model.FeedResult[[]model.NearEarthObject]{Data: []model.NearEarthObject{}}, f.err
}

func (f *fakeFeeds) HazardousAsteroids(_ context.Context, date string) (model.FeedResult[[]model.NearEarthObject], error) {
	return model.FeedResult[[]model.NearEarthObject]{Data: []model.NearEarthObject{{Name: "(2024 AB)", ApproachDate: date, Hazardous: true}}}, f.err
}

func (f *fakeFeeds) Exoplanets(context.Context) (model.FeedResult[[]model.Exoplanet], error) {
	return model.FeedResult[[]model.Exoplanet]{}, f.err
}

func (f *fakeFeeds) EarthImagery(_ context.Context, location string) (model.FeedResult[model.EarthImage], error) {
	if location != "Tokyo" {
		return model.FeedResult[model.EarthImage]{}, fmt.Errorf("%w: location %q", model.ErrNotFound, location)
	}
	return model.FeedResult[model.EarthImage]{Data: model.EarthImage{Location: location}}, nil
}

func (f *fakeFeeds) Locations() []model.Location {
	return []model.Location{{Name: "Tokyo", Latitude: 35.6895, Longitude: 139.6917}}
}

func (f *fakeFeeds) DefaultWindow() (string, string) { return "2026-10-16", "2026-10-23" }

func (f *fakeFeeds) RefreshAll(context.Context) (feeds.RefreshSummary, error) {
	return feeds.RefreshSummary{Refreshed: 4, Failed: 1}, f.refreshErr
}

type fixture struct {
	missions *fakeMissions
	loader   *fakeLoader
	feeds    *fakeFeeds
	output   *utils.OutputManager
	router   *router.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		missions: &fakeMissions{missions: []model.Mission{
			{MissionID: "MSN-0001", MissionName: "Curiosity", LaunchDate: "2011-11-26", LaunchYear: 2011, MissionType: "Rover"},
		}},
		loader: &fakeLoader{},
		feeds:  &fakeFeeds{},
		output: utils.NewOutputManager(t.TempDir()),
		router: router.New(router.WithLogger(logger), router.WithColor(false)),
	}
	h := handler.New(handler.Deps{
		Missions: f.missions,
		Loader:   f.loader,
		Runs:     fakeRuns{},
		Feeds:    f.feeds,
		Output:   f.output,
		Logger:   logger,

		DefaultSource: "space_missions_dataset.csv",
		SourceDir:     "incoming",
	})
	api.RegisterRoutes(f.router, h)
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestListMissionsParsesFilters(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/missions?mission_type=Rover,Orbiter&mission_type=Lander&vehicle=Atlas%20V&year_min=2000&year_max=2025", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, model.FilterCriteria{
		MissionTypes: []string{"Rover", "Orbiter", "Lander"},
		Vehicles:     []string{"Atlas V"},
		YearMin:      2000,
		YearMax:      2025,
	}, f.missions.criteria)

	missions := decode[[]model.Mission](t, rec)
	require.Len(t, missions, 1)
	assert.Equal(t, 2011, missions[0].LaunchYear)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"storage", fmt.Errorf("query: %w", model.ErrStorageUnavailable), http.StatusServiceUnavailable},
		{"not found", model.ErrNotFound, http.StatusNotFound},
		{"invalid", model.ErrInvalidRequest, http.StatusBadRequest},
		{"schema", model.ErrSchemaMismatch, http.StatusUnprocessableEntity},
		{"fetch", model.NewFetchError(model.FeedExoplanet, model.FetchTimeout, nil), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.missions.err = tt.err

			rec := f.do(http.MethodGet, "/api/v1/aggregates", "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.err.Error(), decode[handler.ErrorResponse](t, rec).Error)
		})
	}
}

func TestBadYearIsRejected(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/aggregates?year_min=twenty", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[handler.ErrorResponse](t, rec).Error, "year_min")
}

func TestAggregatesAndFilters(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/aggregates?mission_type=Rover", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[model.AggregateResult](t, rec)
	assert.Equal(t, 3, res.TotalCount)
	require.NotNil(t, res.AverageCost)
	assert.Equal(t, 2.0, *res.AverageCost)

	rec = f.do(http.MethodGet, "/api/v1/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2050, decode[model.FilterOptions](t, rec).YearMax)
}

func TestExportMissions(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/missions/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "missions.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "mission_id,mission_name,launch_date"))

	rec = f.do(http.MethodGet, "/api/v1/missions/export?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAndDownloadExport(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/exports?format=json", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	result := decode[pipeline.ExportResult](t, rec)
	assert.Equal(t, 1, result.RecordCount)

	rec = f.do(http.MethodGet, result.DownloadURL, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Len(t, decode[[]model.Mission](t, rec), 1)

	rec = f.do(http.MethodGet, "/api/v1/exports/missions/absent.csv", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateLoad(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/loads", `{"source":"missions-2024.csv","truncate":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, filepath.Join("incoming", "missions-2024.csv"), f.loader.source)
	assert.Equal(t, 1, f.loader.opts)
	report := decode[model.LoadReport](t, rec)
	assert.Equal(t, 1, report.RowsLoaded)

	// an empty body loads the configured source
	rec = f.do(http.MethodPost, "/api/v1/loads", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.loader.source)
	assert.Zero(t, f.loader.opts)

	rec = f.do(http.MethodPost, "/api/v1/loads", `{"source":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.loader.err = fmt.Errorf("%w: missing columns launch_vehicle", model.ErrSchemaMismatch)
	rec = f.do(http.MethodPost, "/api/v1/loads", "{}")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateLoadConfiguredSource(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/loads", `{"source":"space_missions_dataset.csv"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "space_missions_dataset.csv", f.loader.source)
}

func TestCreateLoadRejectsSourcesOutsideSourceDir(t *testing.T) {
	for _, source := range []string{
		"http://169.254.169.254/latest/meta-data/",
		"https://example.com/missions.csv",
		"file:///etc/passwd",
		"/etc/passwd",
		"../missions.csv",
		"incoming/../../missions.db",
		"sub/missions.csv",
		".env",
		"..",
	} {
		t.Run(source, func(t *testing.T) {
			f := newFixture(t)
			body, err := json.Marshal(handler.LoadRequest{Source: source})
			require.NoError(t, err)

			rec := f.do(http.MethodPost, "/api/v1/loads", string(body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, f.loader.calls)
		})
	}
}

func TestLoadRuns(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/loads?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "limit-5", decode[[]model.LoadReport](t, rec)[0].RunID)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/v1/loads?limit=-1", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/loads/run-1", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/v1/loads/run-2", "").Code)
}

func TestStaleFeedCarriesWarning(t *testing.T) {
	f := newFixture(t)
	f.feeds.stale = true

	rec := f.do(http.MethodGet, "/api/v1/feeds/apod?date=2026-10-15", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data    model.DailyImage `json:"data"`
		Stale   bool             `json:"stale"`
		Warning string           `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Stale)
	assert.Equal(t, "2026-10-15", body.Data.Date)
	assert.Contains(t, body.Warning, "rate_limited")
}

func TestFeedFailureWithoutCache(t *testing.T) {
	f := newFixture(t)
	f.feeds.err = model.NewFetchError(model.FeedDailyImage, model.FetchUnreachable, errors.New("connection refused"))

	rec := f.do(http.MethodGet, "/api/v1/feeds/apod", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNearEarthObjectsWindowDefaults(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/feeds/neo", "").Code)
	assert.Equal(t, "2026-10-16", f.feeds.neoStart)
	assert.Equal(t, "2026-10-23", f.feeds.neoEnd)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/feeds/neo?start=2026-11-01", "").Code)
	assert.Equal(t, "2026-11-01", f.feeds.neoEnd)

	rec := f.do(http.MethodGet, "/api/v1/feeds/neo/hazardous?date=2026-10-16", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "(2024 AB)")
}

func TestEarthImagery(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/feeds/earth", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Location](t, rec), 1)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/feeds/earth?location=Tokyo", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/v1/feeds/earth?location=Atlantis", "").Code)
}

func TestRefreshFeeds(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/feeds/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, feeds.RefreshSummary{Refreshed: 4, Failed: 1}, decode[feeds.RefreshSummary](t, rec))

	f.feeds.refreshErr = fmt.Errorf("upsert: %w", model.ErrStorageUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodPost, "/api/v1/feeds/refresh", "").Code)
}

func TestMetricsAndSwaggerMounted(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/missions")
}
