// Package pipeline ingests the mission dataset: a reader stage streams CSV
// rows, validation and transform worker pools turn them into missions, and a
// single writer upserts them in batches.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"space-mission-pipeline/internal/config"
	"space-mission-pipeline/internal/model"
)

// MissionStore is the persistence the pipeline writes to
type MissionStore interface {
	UpsertMissions(ctx context.Context, missions []model.Mission) (int, error)
	TruncateMissions(ctx context.Context) error
	SaveLoadRun(ctx context.Context, report model.LoadReport) error
}

// Pipeline runs load runs against a MissionStore
type Pipeline struct {
	store  MissionStore
	cfg    config.Ingest
	rules  *ValidationRules
	logger *slog.Logger
	now    func() time.Time
}

// New creates a pipeline with the validation rules derived from cfg
func New(st MissionStore, cfg config.Ingest, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:  st,
		cfg:    cfg,
		rules:  DefaultRules(cfg),
		logger: logger.With("component", "pipeline"),
		now:    time.Now,
	}
}

// Rules returns the validation rules rows are checked against
func (p *Pipeline) Rules() *ValidationRules {
	return p.rules
}

type loadOptions struct {
	truncate bool
}

// LoadOption tunes a single load run
type LoadOption func(*loadOptions)

// WithTruncate empties the missions collection before loading
func WithTruncate() LoadOption {
	return func(o *loadOptions) { o.truncate = true }
}

// ------------------- Pipeline Runner -------------------

// LoadMissions reads every row of source, upserts the valid ones and returns
// the run report. Row-level problems only show up in the report; the returned
// error is reserved for schema mismatch, an unreadable source or a failing
// store. The report is persisted in every case where the store is reachable.
func (p *Pipeline) LoadMissions(ctx context.Context, source string, opts ...LoadOption) (model.LoadReport, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	if source == "" {
		source = p.cfg.Source
	}

	tracker := newRunTracker(source, p.now())
	logger := p.logger.With("run_id", tracker.runID(), "source", source)
	logger.Info("load started", "truncate", o.truncate)

	err := p.run(ctx, source, o, tracker, logger)
	report := tracker.finish(err, p.now())

	// the run may have been cancelled; the report is still worth keeping
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if saveErr := p.store.SaveLoadRun(saveCtx, report); saveErr != nil {
		logger.Error("persist load report", "error", saveErr)
		if err == nil {
			err = saveErr
		}
	}

	if err != nil {
		logger.Error("load failed", "error", err, "rows_read", report.RowsRead, "rows_loaded", report.RowsLoaded)
		return report, err
	}
	logger.Info("load completed",
		"rows_read", report.RowsRead,
		"rows_loaded", report.RowsLoaded,
		"rows_rejected", report.RowsRejected,
		"duration_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, source string, o loadOptions, tracker *runTracker, logger *slog.Logger) error {
	in, err := openSource(ctx, source)
	if err != nil {
		return err
	}
	defer in.Close()

	reader := newCSVReader(in)
	columns, err := readHeader(reader)
	if err != nil {
		return err
	}

	if o.truncate {
		if err := p.store.TruncateMissions(ctx); err != nil {
			return err
		}
		logger.Info("missions truncated")
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	bufferSize := p.cfg.ChannelBufferSize
	rowsCh := make(chan sourceRow, bufferSize)
	validCh := make(chan sourceRow, bufferSize)
	missionsCh := make(chan rowMission, bufferSize)
	rejectsCh := make(chan model.RowValidationError, bufferSize)

	var (
		wg        sync.WaitGroup
		readErr   error
		writeErr  error
		rejectsWG sync.WaitGroup
	)

	// --- REJECT COLLECTOR ---
	rejectsWG.Add(1)
	go func() {
		defer rejectsWG.Done()
		for rejection := range rejectsCh {
			tracker.rowRejected(rejection)
			logger.Debug("row rejected", "row", rejection.Row, "field", rejection.Field, "reason", rejection.Reason)
		}
	}()

	// --- INGESTION STAGE ---
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(rowsCh)
		if err := streamRows(ctx, reader, columns, rowsCh, rejectsCh, tracker.rowRead); err != nil {
			readErr = err
			cancel(err)
		}
	}()

	// --- VALIDATION STAGE ---
	wg.Add(1)
	go func() {
		defer wg.Done()
		ValidateRecords(ctx, p.rules, rowsCh, validCh, rejectsCh, workers(p.cfg.ValidationWorkers, 3))
	}()

	// --- TRANSFORMATION STAGE ---
	wg.Add(1)
	go func() {
		defer wg.Done()
		TransformRecords(ctx, validCh, missionsCh, workers(p.cfg.TransformWorkers, 2))
	}()

	// --- WRITE STAGE ---
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := p.writeBatches(ctx, missionsCh, tracker); err != nil {
			writeErr = err
			cancel(err)
			// keep upstream stages from blocking on a full channel
			for range missionsCh {
			}
		}
	}()

	wg.Wait()
	close(rejectsCh)
	rejectsWG.Wait()

	switch {
	case writeErr != nil:
		return writeErr
	case readErr != nil:
		return readErr
	case ctx.Err() != nil:
		return context.Cause(ctx)
	}
	return nil
}

// writeBatches upserts missions in batches of the configured size. Workers
// deliver rows out of order, so when a source repeats a mission_id the
// highest row wins and every other row with that id is rejected as a
// duplicate. RowsLoaded counts distinct missions written.
func (p *Pipeline) writeBatches(ctx context.Context, in <-chan rowMission, tracker *runTracker) error {
	batchSize := p.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	batch := make([]rowMission, 0, batchSize)
	pending := make(map[string]int, batchSize) // mission_id -> index in batch
	written := make(map[string]int)            // mission_id -> row stored by an earlier flush

	duplicate := func(row int, missionID string) {
		tracker.rowRejected(model.RowValidationError{
			Row:       row,
			MissionID: missionID,
			Field:     model.ColMissionID,
			Reason:    model.ReasonDuplicateID,
			Value:     missionID,
		})
	}

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		missions := make([]model.Mission, len(batch))
		for i, m := range batch {
			missions[i] = m.Mission
		}
		if _, err := p.store.UpsertMissions(ctx, missions); err != nil {
			return fmt.Errorf("write batch of %d missions: %w", len(batch), err)
		}
		loaded := 0
		for _, m := range batch {
			if _, seen := written[m.MissionID]; !seen {
				loaded++
			}
			written[m.MissionID] = m.row
		}
		tracker.rowsLoaded(loaded)
		batch = batch[:0]
		clear(pending)
		return nil
	}

	for m := range in {
		id := m.MissionID
		if i, ok := pending[id]; ok {
			if m.row < batch[i].row {
				duplicate(m.row, id)
				continue
			}
			duplicate(batch[i].row, id)
			batch[i] = m
			continue
		}
		if row, ok := written[id]; ok {
			if m.row < row {
				duplicate(m.row, id)
				continue
			}
			duplicate(row, id)
		}

		pending[id] = len(batch)
		batch = append(batch, m)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return flush()
}

func workers(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
