package handler

import (
	"fmt"
	"net/http"
	"strings"

	"space-mission-pipeline/internal/pipeline"
)

// ListMissions lists missions matching the filters
// @Summary List missions
// @Description List missions ordered by mission_id. Empty filters match everything; year bounds are inclusive.
// @Tags missions
// @Produce json
// @Param mission_type query []string false "Mission types" collectionFormat(multi)
// @Param target_type query []string false "Target types" collectionFormat(multi)
// @Param vehicle query []string false "Launch vehicles" collectionFormat(multi)
// @Param year_min query int false "First launch year"
// @Param year_max query int false "Last launch year"
// @Success 200 {array} model.Mission
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /missions [get]
func (h *Handler) ListMissions(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	missions, err := h.missions.ListMissions(r.Context(), criteria)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, missions)
}

// ExportMissions downloads the filtered missions
// @Summary Download missions
// @Description Download the filtered missions as CSV, JSON or Parquet
// @Tags missions
// @Produce text/csv
// @Produce json
// @Produce application/vnd.apache.parquet
// @Param format query string false "csv, json or parquet" default(csv)
// @Param mission_type query []string false "Mission types" collectionFormat(multi)
// @Param target_type query []string false "Target types" collectionFormat(multi)
// @Param vehicle query []string false "Launch vehicles" collectionFormat(multi)
// @Param year_min query int false "First launch year"
// @Param year_max query int false "Last launch year"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /missions/export [get]
func (h *Handler) ExportMissions(w http.ResponseWriter, r *http.Request) {
	format, err := pipeline.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, badRequest(err.Error()))
		return
	}
	criteria, err := parseCriteria(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	missions, err := h.missions.ListMissions(r.Context(), criteria)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="missions.%s"`, format))
	if _, err := pipeline.ExportMissions(w, format, missions); err != nil {
		h.logger.Error("export missions", "format", format, "error", err)
	}
}

// CreateExport writes the filtered missions to the export directory
// @Summary Export missions to a file
// @Tags missions
// @Produce json
// @Param format query string false "csv, json or parquet" default(csv)
// @Success 201 {object} pipeline.ExportResult
// @Failure 400 {object} ErrorResponse
// @Router /exports [post]
func (h *Handler) CreateExport(w http.ResponseWriter, r *http.Request) {
	format, err := pipeline.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, badRequest(err.Error()))
		return
	}
	criteria, err := parseCriteria(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	missions, err := h.missions.ListMissions(r.Context(), criteria)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := pipeline.ExportToFile(h.output, "missions", format, missions)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// DownloadExport serves a file written by CreateExport
// @Summary Download an export file
// @Tags missions
// @Param group path string true "Export group"
// @Param file path string true "File name"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /exports/{group}/{file} [get]
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/exports/"), "/")
	group, file, _ := strings.Cut(rest, "/")
	path, ok := h.output.ResolveFile(group, file)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "export not found"})
		return
	}
	if format, err := pipeline.ParseFormat(h.output.GetFileType(file)); err == nil {
		w.Header().Set("Content-Type", format.ContentType())
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file))
	http.ServeFile(w, r, path)
}

// Aggregates computes the dashboard figures
// @Summary Aggregate missions
// @Description Aggregate figures over the filtered missions. average_cost and success_rate are null when nothing matches.
// @Tags missions
// @Produce json
// @Param mission_type query []string false "Mission types" collectionFormat(multi)
// @Param target_type query []string false "Target types" collectionFormat(multi)
// @Param vehicle query []string false "Launch vehicles" collectionFormat(multi)
// @Param year_min query int false "First launch year"
// @Param year_max query int false "Last launch year"
// @Success 200 {object} model.AggregateResult
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /aggregates [get]
func (h *Handler) Aggregates(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.missions.ComputeAggregates(r.Context(), criteria)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Filters returns the values each filter can take
// @Summary Filter options
// @Tags missions
// @Produce json
// @Success 200 {object} model.FilterOptions
// @Router /filters [get]
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	opts, err := h.missions.FilterOptions(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
