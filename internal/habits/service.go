package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/mhabit/internal/domain"
	"github.com/emiliopalmerini/mhabit/internal/insights"
	"github.com/emiliopalmerini/mhabit/internal/logger"
	"github.com/emiliopalmerini/mhabit/internal/ports"
)

// Mutation names reported to the metrics exporter.
const (
	OpCreate = "create"
	OpToggle = "toggle"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Analyzer produces an insight report for a habit set.
type Analyzer interface {
	Analyze(ctx context.Context, habits []domain.Habit, now time.Time) (*domain.InsightReport, error)
}

// ToggleResult is the outcome of a toggle.
type ToggleResult struct {
	HabitID   string `json:"habit_id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// Service implements the habit operations on top of a whole-document store.
// Writes are serialized within the process; separate processes sharing one
// store are not coordinated.
type Service struct {
	store    ports.HabitStore
	cache    *insights.Cache
	analyzer Analyzer
	metrics  ports.MetricsExporter
	now      func() time.Time
	newID    func() string

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator sets how new habit ids are produced.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithMetrics sets the metrics exporter.
func WithMetrics(m ports.MetricsExporter) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService wires a service. cache is shared by every request of the process.
func NewService(store ports.HabitStore, cache *insights.Cache, analyzer Analyzer, opts ...Option) *Service {
	s := &Service{
		store:    store,
		cache:    cache,
		analyzer: analyzer,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load is the read path: storage failures degrade to an empty collection.
func (s *Service) load(ctx context.Context) *domain.HabitCollection {
	c, err := s.store.Load(ctx)
	if err != nil {
		logger.Warn("failed to load habits, serving empty data", "error", err)
		return domain.NewHabitCollection()
	}
	return c
}

// mutate runs fn against the freshly loaded collection and persists the
// result. The document is saved and the cache invalidated only when fn succeeds.
func (s *Service) mutate(ctx context.Context, op string, fn func(c *domain.HabitCollection) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	if err := fn(c); err != nil {
		return err
	}

	if err := s.store.Save(ctx, c); err != nil {
		return fmt.Errorf("failed to save habits: %w", err)
	}

	s.cache.Invalidate()
	if s.metrics != nil {
		s.metrics.RecordMutation(ctx, op)
	}
	return nil
}

// List returns every habit in insertion order.
func (s *Service) List(ctx context.Context) []domain.Habit {
	return s.load(ctx).Habits
}

// Create adds a new habit with an empty history.
func (s *Service) Create(ctx context.Context, name, description string) (domain.Habit, error) {
	if err := domain.ValidateName(name); err != nil {
		return domain.Habit{}, err
	}

	h := domain.NewHabit(s.newID(), strings.TrimSpace(name), description, s.now())
	err := s.mutate(ctx, OpCreate, func(c *domain.HabitCollection) error {
		c.Add(h)
		return nil
	})
	if err != nil {
		return domain.Habit{}, err
	}

	logger.Info("habit created", "id", h.ID, "name", h.Name)
	return h, nil
}

// Toggle flips the completion of id on date.
func (s *Service) Toggle(ctx context.Context, id, date string) (ToggleResult, error) {
	if err := domain.ValidateDate(date); err != nil {
		return ToggleResult{}, err
	}

	result := ToggleResult{HabitID: id, Date: date}
	err := s.mutate(ctx, OpToggle, func(c *domain.HabitCollection) error {
		h := c.Find(id)
		if h == nil {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		result.Completed = h.Toggle(date, s.now())
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}

	logger.Debug("habit toggled", "id", id, "date", date, "completed", result.Completed)
	return result, nil
}

// Update changes the name and/or description of id.
func (s *Service) Update(ctx context.Context, id string, u domain.HabitUpdate) (domain.Habit, error) {
	if u.Name != nil {
		if err := domain.ValidateName(*u.Name); err != nil {
			return domain.Habit{}, err
		}
		trimmed := strings.TrimSpace(*u.Name)
		u.Name = &trimmed
	}

	// Nothing to change: report the habit as is, without a write.
	if u.Empty() {
		c, err := s.store.Load(ctx)
		if err != nil {
			return domain.Habit{}, fmt.Errorf("failed to load habits: %w", err)
		}
		h := c.Find(id)
		if h == nil {
			return domain.Habit{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return *h, nil
	}

	var updated domain.Habit
	err := s.mutate(ctx, OpUpdate, func(c *domain.HabitCollection) error {
		h := c.Find(id)
		if h == nil {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		h.Apply(u)
		updated = *h
		return nil
	})
	if err != nil {
		return domain.Habit{}, err
	}
	return updated, nil
}

// Delete removes id and its history.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.mutate(ctx, OpDelete, func(c *domain.HabitCollection) error {
		if !c.Remove(id) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("habit deleted", "id", id)
	return nil
}

// Stats returns per-habit statistics as of now.
func (s *Service) Stats(ctx context.Context) domain.StatsSummary {
	return domain.ComputeStats(s.load(ctx), s.now())
}

// Goals returns weekly target suggestions.
func (s *Service) Goals(ctx context.Context) domain.GoalReport {
	return domain.SuggestGoals(s.load(ctx), s.now())
}

// errLoadFailed marks an insights computation that could not read storage.
var errLoadFailed = errors.New("failed to load habits")

// Insights returns the cached report or analyzes the current habits.
// When storage cannot be read the caller gets the empty-collection report,
// which is never cached.
func (s *Service) Insights(ctx context.Context) (*domain.InsightReport, error) {
	report, hit, err := s.cache.GetOrCompute(ctx, func(ctx context.Context) (*domain.InsightReport, error) {
		c, err := s.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errLoadFailed, err)
		}
		return s.analyzer.Analyze(ctx, c.Habits, s.now())
	})
	if errors.Is(err, errLoadFailed) {
		logger.Warn("failed to load habits, serving empty insights", "error", err)
		report, err = s.analyzer.Analyze(ctx, nil, s.now())
	}
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordInsightsRequest(ctx, hit)
	}
	return report, nil
}
