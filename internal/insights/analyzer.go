package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/mhabit/internal/domain"
	"github.com/emiliopalmerini/mhabit/internal/logger"
	"github.com/emiliopalmerini/mhabit/internal/ports"
)

const (
	// MinTotalCompletions is the completion count across all habits required
	// before any model call is made.
	MinTotalCompletions = 3
	// MinHabitCompletions is the completion count a single habit needs to get
	// its own insight.
	MinHabitCompletions = 3

	DefaultTimeout     = 10 * time.Second
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 200
)

const (
	MessageNoHabits      = "No habits to analyze yet. Add a habit to get started."
	MessageNeedMoreData  = "Need more data for pattern analysis. Keep tracking your habits!"
	MessageNeedsTracking = "Each habit needs more tracking before patterns can be analyzed. Aim for at least 3 completions per habit."

	FallbackTimeout   = "Analysis in progress... the insight model is taking longer than expected."
	FallbackTransport = "Unable to connect to the insight model. Make sure Ollama is running."
	FallbackStatus    = "Insight model returned an error. Try again later."
)

const (
	targetHabit   = "habit"
	targetOverall = "overall"
)

// Analyzer turns a habit set into an insight report, calling the generator
// once per qualifying habit plus once for the overall summary.
type Analyzer struct {
	gen     ports.InsightGenerator
	metrics ports.MetricsExporter
	opts    ports.GenerateOptions
	timeout time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTimeout bounds every generator call.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithMetrics records model call outcomes.
func WithMetrics(m ports.MetricsExporter) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// NewAnalyzer creates an analyzer backed by gen.
func NewAnalyzer(gen ports.InsightGenerator, opts ...Option) *Analyzer {
	a := &Analyzer{
		gen:     gen,
		opts:    ports.GenerateOptions{Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze builds the report for habits as of now. Generator failures become
// fallback text on the affected item; an error is returned only when the
// analysis itself could not finish, such as a cancelled ctx or a panicking generator.
func (a *Analyzer) Analyze(ctx context.Context, habits []domain.Habit, now time.Time) (*domain.InsightReport, error) {
	report := &domain.InsightReport{GeneratedAt: domain.FormatTimestamp(now)}

	if len(habits) == 0 {
		report.Message = MessageNoHabits
		return report, nil
	}

	stats := domain.ComputeBasicStats(habits, now)
	report.BasicStats = &stats

	if stats.TotalCompletions < MinTotalCompletions {
		report.Message = MessageNeedMoreData
		return report, nil
	}

	var qualifying []domain.Habit
	for _, h := range habits {
		if len(h.CompletionDays()) >= MinHabitCompletions {
			qualifying = append(qualifying, h)
		}
	}
	if len(qualifying) == 0 {
		report.Message = MessageNeedsTracking
		return report, nil
	}

	texts := make([]string, len(qualifying))
	var overall string

	g, gctx := errgroup.WithContext(ctx)
	for i, h := range qualifying {
		prompt := HabitPrompt(h, now)
		g.Go(func() error {
			text, err := a.generate(gctx, targetHabit, prompt)
			texts[i] = text
			return err
		})
	}
	g.Go(func() error {
		text, err := a.generate(gctx, targetOverall, OverallPrompt(stats))
		overall = text
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.AnalysisReady = true
	report.HabitInsights = make([]domain.HabitInsight, len(qualifying))
	for i, h := range qualifying {
		report.HabitInsights[i] = domain.HabitInsight{
			HabitName: h.Name,
			HabitID:   h.ID,
			Insight:   texts[i],
		}
	}
	report.OverallAnalysis = overall
	return report, nil
}

func (a *Analyzer) generate(ctx context.Context, target, prompt string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("insight analysis aborted: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("insight generator panicked: %v", r)
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	text, genErr := a.gen.Generate(callCtx, prompt, a.opts)
	elapsed := time.Since(start)

	if genErr == nil {
		a.record(ctx, target, ports.OutcomeOK, elapsed)
		return text, nil
	}

	// The caller went away; this is not a model failure.
	if ctx.Err() != nil {
		return "", fmt.Errorf("insight analysis aborted: %w", ctx.Err())
	}

	var (
		statusErr *ports.StatusError
		outcome   string
	)
	switch {
	case errors.Is(genErr, context.DeadlineExceeded):
		text, outcome = FallbackTimeout, ports.OutcomeTimeout
	case errors.As(genErr, &statusErr):
		text, outcome = FallbackStatus, ports.OutcomeStatusError
	case errors.Is(genErr, ports.ErrGeneratorUnavailable):
		text, outcome = FallbackTransport, ports.OutcomeUnavailable
	default:
		text, outcome = FallbackTransport, ports.OutcomeTransport
	}

	logger.Warn("insight model call failed, using fallback", "target", target, "outcome", outcome, "error", genErr)
	a.record(ctx, target, outcome, elapsed)
	return text, nil
}

func (a *Analyzer) record(ctx context.Context, target, outcome string, d time.Duration) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordModelCall(ctx, ports.ModelCall{Target: target, Outcome: outcome, Duration: d})
}
