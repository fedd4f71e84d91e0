package patients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service answers the patient views of the dashboard.
type Service struct {
	repo     Repository
	index    *Index
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithCache caches suggestion results in cache for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds a Service over repo, completing search queries from index.
func NewService(repo Repository, index *Index, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		index:  index,
		logger: zap.NewNop(),
	}
	if s.index == nil {
		s.index = NewIndex(nil)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all patient summaries.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.List(ctx)
}

// Patient returns one patient.
func (s *Service) Patient(ctx context.Context, id string) (Patient, error) {
	return s.repo.Get(ctx, id)
}

// History returns the merged, day-ordered care history of a patient.
func (s *Service) History(ctx context.Context, id string) ([]Event, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.History(), nil
}

// EarlyWarnings returns the DRGs a patient is at risk of entering, most
// probable first.
func (s *Service) EarlyWarnings(ctx context.Context, id string) ([]EarlyWarning, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	warnings := make([]EarlyWarning, len(p.EarlyWarnings))
	copy(warnings, p.EarlyWarnings)
	sortWarnings(warnings)
	return warnings, nil
}

// Futures projects trajectories for a patient from similar histories.
func (s *Service) Futures(ctx context.Context, id string, snapshot, topK int) ([]Trajectory, error) {
	target, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	others, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	trajectories := Futures(target, others, snapshot, topK)
	s.logger.Debug("projected futures",
		zap.String("op", "patients.Futures"),
		zap.String("patient_id", id),
		zap.Int("snapshot_events", snapshot),
		zap.Int("trajectories", len(trajectories)),
	)
	return trajectories, nil
}

// Suggest completes a search query. Cache failures are logged and the index
// is searched directly.
func (s *Service) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	if s.cache == nil {
		return s.index.Search(query, limit), nil
	}

	key := fmt.Sprintf("suggest:%d:%s", limit, Fold(query))
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("suggest cache read failed",
			zap.String("op", "patients.Suggest"),
			zap.Error(err),
		)
	}
	if ok {
		var suggestions []Suggestion
		if err := json.Unmarshal(cached, &suggestions); err == nil {
			return suggestions, nil
		}
		s.logger.Warn("discarding malformed cache entry",
			zap.String("op", "patients.Suggest"),
			zap.String("key", key),
		)
	}

	suggestions := s.index.Search(query, limit)
	encoded, err := json.Marshal(suggestions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode suggestions: %w", err)
	}
	if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
		s.logger.Warn("suggest cache write failed",
			zap.String("op", "patients.Suggest"),
			zap.Error(err),
		)
	}
	return suggestions, nil
}
