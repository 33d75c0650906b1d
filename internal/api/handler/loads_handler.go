package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"space-mission-pipeline/internal/pipeline"
)

// LoadRequest starts a load run. Source is empty for the configured dataset
// or a bare file name inside the configured source directory.
type LoadRequest struct {
	Source   string `json:"source,omitempty"`
	Truncate bool   `json:"truncate"`
}

// sourcePolicy limits what a load over HTTP may read
type sourcePolicy struct {
	defaultSource string
	dir           string
}

// resolve maps a requested source to the path handed to the loader. URLs and
// paths that would leave dir are refused.
func (p sourcePolicy) resolve(source string) (string, error) {
	if source == "" || source == p.defaultSource {
		return source, nil
	}
	if p.dir == "" {
		return "", badRequest("only the configured source can be loaded")
	}
	if strings.Contains(source, "://") || filepath.IsAbs(source) ||
		filepath.Base(source) != source || strings.HasPrefix(source, ".") {
		return "", badRequest("source must be a file name inside the source directory")
	}
	return filepath.Join(p.dir, source), nil
}

// loadTimeout bounds a load started over HTTP
const loadTimeout = 10 * time.Minute

// CreateLoad runs the ingestion pipeline and returns its report
// @Summary Load missions
// @Description Ingest the configured dataset, or a named file from the source directory, and return the load report
// @Tags loads
// @Accept json
// @Produce json
// @Param load body LoadRequest false "Load options"
// @Success 200 {object} model.LoadReport
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /loads [post]
func (h *Handler) CreateLoad(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, badRequest("invalid JSON payload"))
		return
	}

	source, err := h.sources.resolve(req.Source)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var opts []pipeline.LoadOption
	if req.Truncate {
		opts = append(opts, pipeline.WithTruncate())
	}

	// a client hanging up must not abort a half-written load
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), loadTimeout)
	defer cancel()

	report, err := h.loader.LoadMissions(ctx, source, opts...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListLoads lists load reports, newest first
// @Summary List load runs
// @Tags loads
// @Produce json
// @Param limit query int false "Maximum runs" default(50)
// @Success 200 {array} model.LoadReport
// @Router /loads [get]
func (h *Handler) ListLoads(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.writeError(w, r, badRequest("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	reports, err := h.runs.ListLoadRuns(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// GetLoad returns one load report
// @Summary Get load run
// @Tags loads
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.LoadReport
// @Failure 404 {object} ErrorResponse
// @Router /loads/{id} [get]
func (h *Handler) GetLoad(w http.ResponseWriter, r *http.Request) {
	runID := pathParam(r, "/api/v1/loads/")
	if runID == "" {
		h.writeError(w, r, badRequest("run ID is required"))
		return
	}
	report, err := h.runs.GetLoadRun(r.Context(), runID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
