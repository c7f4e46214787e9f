package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yukitake212/first-hackathon-product/internal/breakdown"
	"github.com/yukitake212/first-hackathon-product/internal/schedule"
	"github.com/yukitake212/first-hackathon-product/internal/telemetry"
	"github.com/yukitake212/first-hackathon-product/models"
	"github.com/yukitake212/first-hackathon-product/store"
)

// TaskApp provides task lifecycle and calendar operations.
// CLI, HTTP and MCP all call these methods.
type TaskApp struct {
	ctx *Context
}

// NewTaskApp creates a new task application service.
func NewTaskApp(ctx *Context) *TaskApp {
	return &TaskApp{ctx: ctx}
}

// Context returns the shared dependencies.
func (a *TaskApp) Context() *Context { return a.ctx }

// Today returns the current calendar day.
func (a *TaskApp) Today() time.Time {
	return models.DayOf(a.ctx.today())
}

// Add creates a task and returns it as stored.
func (a *TaskApp) Add(ctx context.Context, task models.Task) (models.Task, error) {
	if task.UserID == "" {
		task.UserID = a.ctx.DefaultUser
	}
	id, err := a.ctx.Store.CreateTask(ctx, task)
	if err != nil {
		return models.Task{}, err
	}
	created, err := a.ctx.Store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("read created task: %w", err)
	}
	a.ctx.Logger.Debug("task created", "id", id, "type", created.TaskType)
	a.ctx.track(telemetry.EventTaskCreated, telemetry.Properties{
		"task_type": string(created.TaskType),
		"priority":  string(created.Priority),
	})
	return created, nil
}

// Get returns one task.
func (a *TaskApp) Get(ctx context.Context, id string) (models.Task, error) {
	return a.ctx.Store.GetTask(ctx, id)
}

// Update applies a partial update. An empty patch is rejected.
func (a *TaskApp) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if patch.IsEmpty() {
		return models.Task{}, &models.ValidationError{Field: "patch", Rule: "required", Msg: "nothing to update"}
	}
	updated, err := a.ctx.Store.UpdateTask(ctx, id, patch)
	if err != nil {
		return models.Task{}, err
	}
	a.ctx.track(telemetry.EventTaskUpdated, telemetry.Properties{"task_type": string(updated.TaskType)})
	return updated, nil
}

// Toggle flips the completion flag.
func (a *TaskApp) Toggle(ctx context.Context, id string) (models.Task, error) {
	current, err := a.ctx.Store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	done := !current.Completed
	updated, err := a.ctx.Store.UpdateTask(ctx, id, models.TaskPatch{Completed: &done})
	if err != nil {
		return models.Task{}, err
	}
	a.ctx.track(telemetry.EventTaskUpdated, telemetry.Properties{"completed": done})
	return updated, nil
}

// Delete removes a task.
func (a *TaskApp) Delete(ctx context.Context, id string) error {
	if err := a.ctx.Store.DeleteTask(ctx, id); err != nil {
		return err
	}
	a.ctx.track(telemetry.EventTaskDeleted, nil)
	return nil
}

// List returns tasks matching filter. An unset UserID is scoped to the default user.
func (a *TaskApp) List(ctx context.Context, filter store.Filter) ([]models.Task, error) {
	if filter.UserID == "" {
		filter.UserID = a.ctx.DefaultUser
	}
	if filter.OnlyOverdue && filter.Reference.IsZero() {
		filter.Reference = a.Today()
	}
	return a.ctx.Store.ListTasks(ctx, filter)
}

// OnDate returns the tasks occurring on day.
func (a *TaskApp) OnDate(ctx context.Context, userID string, day time.Time) ([]models.Task, error) {
	tasks, err := a.List(ctx, store.Filter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return schedule.TasksOnDate(tasks, day), nil
}

// Summary counts overdue, due-soon, active-period and completed tasks as of today.
func (a *TaskApp) Summary(ctx context.Context, userID string) (schedule.Summary, error) {
	return a.SummaryAt(ctx, userID, a.Today())
}

// SummaryAt is Summary with an explicit reference day.
func (a *TaskApp) SummaryAt(ctx context.Context, userID string, ref time.Time) (schedule.Summary, error) {
	tasks, err := a.List(ctx, store.Filter{UserID: userID})
	if err != nil {
		return schedule.Summary{}, err
	}
	return schedule.Summarize(tasks, ref), nil
}

// InRange returns the period tasks overlapping [from, to]. Reversed bounds are swapped.
func (a *TaskApp) InRange(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error) {
	tasks, err := a.List(ctx, store.Filter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return schedule.TasksInRange(tasks, from, to), nil
}

// Overdue returns the overdue tasks as of today, earliest deadline first.
func (a *TaskApp) Overdue(ctx context.Context, userID string) ([]models.Task, error) {
	return a.List(ctx, store.Filter{UserID: userID, OnlyOverdue: true, Reference: a.Today()})
}

// BreakdownPreview is a proposed breakdown that has not been stored.
type BreakdownPreview struct {
	Task   models.Task      `json:"task"`
	Result breakdown.Result `json:"result"`
}

// Breakdown proposes subtasks for a task without changing anything.
func (a *TaskApp) Breakdown(ctx context.Context, id string) (*BreakdownPreview, error) {
	task, err := a.ctx.Store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	result := a.ctx.Breakdown.RequestBreakdown(ctx, task)
	a.ctx.track(telemetry.EventBreakdownRequested, telemetry.Properties{
		"source":   string(result.Source),
		"subtasks": len(result.Subtasks),
	})
	return &BreakdownPreview{Task: task, Result: result}, nil
}

// ApplyOptions configures ApplyBreakdown.
type ApplyOptions struct {
	// Result is a previously previewed breakdown. Nil requests a fresh one.
	Result *breakdown.Result
	// EstimateSchedule spreads due dates over the subtask estimates.
	EstimateSchedule bool
}

// ApplyBreakdown replaces the task with its breakdown in one store operation and
// returns the new tasks as stored.
func (a *TaskApp) ApplyBreakdown(ctx context.Context, id string, opts ApplyOptions) ([]models.Task, error) {
	original, err := a.ctx.Store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	var result breakdown.Result
	if opts.Result != nil {
		result = *opts.Result
		if err := breakdown.ValidateProposals(result.Subtasks); err != nil {
			return nil, err
		}
	} else {
		result = a.ctx.Breakdown.RequestBreakdown(ctx, original)
	}

	var applyOpts []breakdown.ApplyOption
	if opts.EstimateSchedule {
		applyOpts = append(applyOpts, breakdown.WithEstimateSchedule())
	}
	replacements := a.ctx.Breakdown.ApplyBreakdown(original, result, applyOpts...)

	ids, err := a.ctx.Store.ReplaceTask(ctx, id, replacements)
	if err != nil {
		return nil, fmt.Errorf("apply breakdown: %w", err)
	}

	stored := make([]models.Task, 0, len(ids))
	for _, newID := range ids {
		t, err := a.ctx.Store.GetTask(ctx, newID)
		if err != nil {
			return nil, fmt.Errorf("read applied task: %w", err)
		}
		stored = append(stored, t)
	}
	a.ctx.Logger.Debug("breakdown applied", "original", id, "tasks", len(stored), "source", result.Source)
	a.ctx.track(telemetry.EventBreakdownApplied, telemetry.Properties{
		"source":            string(result.Source),
		"count":             len(stored),
		"estimate_schedule": opts.EstimateSchedule,
	})
	return stored, nil
}

// Tips returns scheduling advice for the user's open tasks.
func (a *TaskApp) Tips(ctx context.Context, userID string) ([]string, error) {
	tasks, err := a.List(ctx, store.Filter{UserID: userID})
	if err != nil {
		return nil, err
	}
	open := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			open = append(open, t)
		}
	}
	return a.ctx.Breakdown.OptimizeSchedule(ctx, open), nil
}
