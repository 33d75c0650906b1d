package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"space-mission-pipeline/internal/model"
)

// SaveLoadRun inserts or updates the persisted report of a load run
func (s *Store) SaveLoadRun(ctx context.Context, report model.LoadReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode load report: %w", err)
	}

	now := formatTime(s.now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO load_runs (id, source, status, report, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			report = excluded.report,
			updated_at = excluded.updated_at`,
		report.RunID, report.Source, report.Status, reportJSON, now, now)
	if err != nil {
		return unavailable("save load run "+report.RunID, err)
	}
	return nil
}

// ListLoadRuns returns stored load reports, newest first
func (s *Store) ListLoadRuns(ctx context.Context, limit int) ([]model.LoadReport, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT report FROM load_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, unavailable("list load runs", err)
	}
	defer rows.Close()

	reports := make([]model.LoadReport, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, unavailable("scan load run", err)
		}
		var report model.LoadReport
		if err := json.Unmarshal([]byte(raw), &report); err != nil {
			return nil, fmt.Errorf("decode load report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate load runs", err)
	}
	return reports, nil
}

// GetLoadRun fetches one load report. Unknown IDs return model.ErrNotFound.
func (s *Store) GetLoadRun(ctx context.Context, runID string) (model.LoadReport, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM load_runs WHERE id = ?`, runID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LoadReport{}, fmt.Errorf("load run %s: %w", runID, model.ErrNotFound)
	}
	if err != nil {
		return model.LoadReport{}, unavailable("get load run "+runID, err)
	}
	var report model.LoadReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return model.LoadReport{}, fmt.Errorf("decode load report: %w", err)
	}
	return report, nil
}
