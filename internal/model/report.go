package model

import "time"

// Load run statuses
const (
	LoadStatusRunning   = "running"
	LoadStatusCompleted = "completed"
	LoadStatusFailed    = "failed"
)

// LoadReport summarizes one ingestion run
type LoadReport struct {
	RunID            string               `json:"run_id"`
	Source           string               `json:"source"`
	Status           string               `json:"status"`
	RowsRead         int                  `json:"rows_read"`
	RowsLoaded       int                  `json:"rows_loaded"`
	RowsRejected     int                  `json:"rows_rejected"`
	RejectionReasons map[string]int       `json:"rejection_reasons"`
	Rejections       []RowValidationError `json:"rejections"`
	Error            string               `json:"error,omitempty"`
	StartedAt        time.Time            `json:"started_at"`
	FinishedAt       time.Time            `json:"finished_at"`
}
