// Package analytics answers mission queries: filtered listings and the
// aggregate figures the dashboard is built from.
package analytics

import (
	"context"
	"log/slog"

	"space-mission-pipeline/internal/model"
)

// MissionReader is the read side of the mission store
type MissionReader interface {
	ListMissions(ctx context.Context, criteria model.FilterCriteria) ([]model.Mission, error)
	MissionOptions(ctx context.Context) (model.FilterOptions, error)
}

// Service runs read-only queries and is safe for concurrent callers
type Service struct {
	reader    MissionReader
	topN      int
	workers   int
	chunkSize int
	logger    *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithTopN sets how many missions top5_by_cost keeps
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithWorkers sets the number of aggregation workers
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewService creates a query service over reader
func NewService(reader MissionReader, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		reader:    reader,
		topN:      DefaultTopN,
		workers:   2,
		chunkSize: defaultChunkSize,
		logger:    logger.With("component", "analytics"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListMissions returns the missions matching criteria ordered by mission_id
func (s *Service) ListMissions(ctx context.Context, criteria model.FilterCriteria) ([]model.Mission, error) {
	missions, err := s.reader.ListMissions(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if missions == nil {
		missions = []model.Mission{}
	}
	return missions, nil
}

// ComputeAggregates computes the aggregate figures over the missions matching criteria
func (s *Service) ComputeAggregates(ctx context.Context, criteria model.FilterCriteria) (model.AggregateResult, error) {
	missions, err := s.reader.ListMissions(ctx, criteria)
	if err != nil {
		return model.AggregateResult{}, err
	}
	result := aggregateChunks(missions, s.topN, s.workers, s.chunkSize)
	s.logger.Debug("aggregates computed", "missions", result.TotalCount)
	return result, nil
}

// FilterOptions returns the values the filters can take
func (s *Service) FilterOptions(ctx context.Context) (model.FilterOptions, error) {
	return s.reader.MissionOptions(ctx)
}
