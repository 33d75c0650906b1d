package pipeline

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"space-mission-pipeline/internal/model"
)

var (
	rowsReadTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "missions",
		Subsystem: "ingest",
		Name:      "rows_read_total",
		Help:      "Data rows read from mission sources.",
	})
	rowsLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "missions",
		Subsystem: "ingest",
		Name:      "rows_loaded_total",
		Help:      "Missions upserted into the store.",
	})
	rowsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "missions",
		Subsystem: "ingest",
		Name:      "rows_rejected_total",
		Help:      "Source rows rejected, by reason.",
	}, []string{"reason"})
	loadRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "missions",
		Subsystem: "ingest",
		Name:      "runs_total",
		Help:      "Finished load runs, by status.",
	}, []string{"status"})
	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "missions",
		Subsystem: "ingest",
		Name:      "run_duration_seconds",
		Help:      "Wall time of load runs.",
		Buckets:   prometheus.DefBuckets,
	})
)

// runTracker accumulates the counters of a single load run. Every stage
// reports into it concurrently.
type runTracker struct {
	mu         sync.Mutex
	report     model.LoadReport
	rejections []model.RowValidationError
}

func newRunTracker(source string, startedAt time.Time) *runTracker {
	return &runTracker{
		report: model.LoadReport{
			RunID:            uuid.NewString(),
			Source:           source,
			Status:           model.LoadStatusRunning,
			RejectionReasons: map[string]int{},
			Rejections:       []model.RowValidationError{},
			StartedAt:        startedAt,
		},
	}
}

func (t *runTracker) runID() string {
	return t.report.RunID
}

func (t *runTracker) rowRead() {
	t.mu.Lock()
	t.report.RowsRead++
	t.mu.Unlock()
	rowsReadTotal.Inc()
}

func (t *runTracker) rowsLoaded(n int) {
	t.mu.Lock()
	t.report.RowsLoaded += n
	t.mu.Unlock()
	rowsLoadedTotal.Add(float64(n))
}

func (t *runTracker) rowRejected(rejection model.RowValidationError) {
	t.mu.Lock()
	t.rejections = append(t.rejections, rejection)
	t.report.RejectionReasons[rejection.Reason]++
	t.mu.Unlock()
	rowsRejectedTotal.WithLabelValues(rejection.Reason).Inc()
}

// snapshot returns a copy of the report with rejections ordered by row
func (t *runTracker) snapshot() model.LoadReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	report := t.report
	report.RejectionReasons = maps.Clone(t.report.RejectionReasons)
	report.Rejections = slices.Clone(t.rejections)
	slices.SortFunc(report.Rejections, func(a, b model.RowValidationError) int {
		return a.Row - b.Row
	})
	report.RowsRejected = len(report.Rejections)
	return report
}

// finish stamps the terminal status and returns the final report
func (t *runTracker) finish(err error, finishedAt time.Time) model.LoadReport {
	t.mu.Lock()
	t.report.FinishedAt = finishedAt
	if err != nil {
		t.report.Status = model.LoadStatusFailed
		t.report.Error = err.Error()
	} else {
		t.report.Status = model.LoadStatusCompleted
	}
	t.mu.Unlock()

	report := t.snapshot()
	loadRunsTotal.WithLabelValues(report.Status).Inc()
	loadDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	return report
}
