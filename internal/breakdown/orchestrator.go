package breakdown

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/yukitake212/first-hackathon-product/models"
)

// DefaultTimeout bounds one provider call.
const DefaultTimeout = 30 * time.Second

// Orchestrator requests breakdowns and maps accepted ones into tasks. It never
// touches storage; callers hand ApplyBreakdown's output to TaskStore.ReplaceTask.
type Orchestrator struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeout bounds each provider call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger used to report provider failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the createdAt source for applied tasks.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDFunc overrides the id generator for applied tasks.
func WithIDFunc(f func() string) Option {
	return func(o *Orchestrator) { o.newID = f }
}

// New returns an Orchestrator. A nil provider means every request uses the fallback.
func New(provider Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider: provider,
		timeout:  DefaultTimeout,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    models.NewTaskID,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HasProvider reports whether a suggestion provider is configured.
func (o *Orchestrator) HasProvider() bool { return o.provider != nil }

// RequestBreakdown always returns a usable Result. Provider failures, timeouts and
// invalid answers are logged and replaced by Fallback.
func (o *Orchestrator) RequestBreakdown(ctx context.Context, task models.Task) Result {
	req := RequestFromTask(task)
	if o.provider == nil {
		return Fallback(req)
	}

	result, err := call(ctx, o.timeout, func(ctx context.Context) (Result, error) {
		return o.provider.Propose(ctx, req)
	})
	if err != nil {
		o.logger.Warn("breakdown provider failed, using fallback", "task", task.ID, "error", err)
		return Fallback(req)
	}
	if err := ValidateProposals(result.Subtasks); err != nil {
		o.logger.Warn("breakdown provider answer rejected, using fallback", "task", task.ID, "error", err)
		return Fallback(req)
	}
	result.Source = SourceProvider
	return result
}

// OptimizeSchedule returns scheduling tips for tasks, falling back to fixed tips.
func (o *Orchestrator) OptimizeSchedule(ctx context.Context, tasks []models.Task) []string {
	if o.provider == nil || len(tasks) == 0 {
		return FallbackScheduleTips(false)
	}
	reqs := make([]Request, 0, len(tasks))
	for _, t := range tasks {
		reqs = append(reqs, RequestFromTask(t))
	}

	tips, err := call(ctx, o.timeout, func(ctx context.Context) ([]string, error) {
		return o.provider.Advise(ctx, reqs)
	})
	if err != nil {
		o.logger.Warn("schedule provider failed, using fallback tips", "tasks", len(tasks), "error", err)
		return FallbackScheduleTips(true)
	}
	return tips
}

// call runs fn with a deadline and stops waiting when it expires, even if fn
// ignores its context.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				done <- outcome{zero, &ProviderError{Op: "call", Err: fmt.Errorf("panic: %v", r)}}
			}
		}()
		v, err := fn(ctx)
		done <- outcome{v, err}
	}()

	select {
	case out := <-done:
		return out.val, out.err
	case <-ctx.Done():
		var zero T
		return zero, &ProviderError{Op: "call", Err: ctx.Err()}
	}
}

// ApplyOption configures ApplyBreakdown.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	estimateSchedule bool
}

// WithEstimateSchedule gives each task a due date derived from the cumulative
// estimates: the n-th task is due startDate + (days of tasks 1..n) - 1.
func WithEstimateSchedule() ApplyOption {
	return func(c *applyConfig) { c.estimateSchedule = true }
}

// ApplyBreakdown maps each proposed subtask into a new single task owned by the
// same user. Tasks inherit the original's startDate and dueDate (a period task
// has none, so its subtasks get no deadline unless WithEstimateSchedule is
// given), get fresh ids and createdAt, and carry their
// estimate and dependencies as task ids. Breakdowns are always flattened into
// sibling tasks.
func (o *Orchestrator) ApplyBreakdown(original models.Task, result Result, opts ...ApplyOption) []models.Task {
	var cfg applyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	start := original.StartDate
	if start == "" {
		start = original.Date
	}
	due := original.DueDate
	startDay, startErr := models.ParseDay(start)

	createdAt := o.now()
	idByTitle := make(map[string]string, len(result.Subtasks))
	tasks := make([]models.Task, 0, len(result.Subtasks))
	for _, s := range result.Subtasks {
		id := o.newID()
		idByTitle[s.Title] = id
		tasks = append(tasks, models.Task{
			ID:            id,
			UserID:        original.UserID,
			Title:         s.Title,
			Description:   s.Description,
			TaskType:      models.TypeSingle,
			StartDate:     start,
			Date:          start,
			DueDate:       due,
			Priority:      s.Priority,
			CreatedAt:     createdAt,
			EstimatedDays: s.EstimatedDays,
		})
	}

	cumulative := 0
	for i, s := range result.Subtasks {
		for _, dep := range s.Dependencies {
			if id, ok := idByTitle[dep]; ok && id != tasks[i].ID {
				tasks[i].Dependencies = append(tasks[i].Dependencies, id)
			}
		}
		if cfg.estimateSchedule && startErr == nil {
			days := s.EstimatedDays
			if days < 1 {
				days = 1
			}
			cumulative += days
			tasks[i].DueDate = models.FormatDay(models.AddDays(startDay, cumulative-1))
		}
	}
	return tasks
}
