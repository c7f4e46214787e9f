package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/schedule"
	"github.com/yukitake212/first-hackathon-product/models"
)

// HandleTasksOnDate lists the tasks occurring on one day.
func HandleTasksOnDate(ctx context.Context, tasks *app.TaskApp, params TasksOnDateParams) (*ToolResult, error) {
	today := tasks.Today()
	day, err := models.ResolveDay(params.Date, today)
	if err != nil {
		return validationResult("date", err), nil
	}
	found, err := tasks.OnDate(ctx, params.UserID, day)
	if err != nil {
		return errorResult(err)
	}
	return &ToolResult{Content: FormatTasks("Tasks on "+models.FormatDay(day), found, today)}, nil
}

// HandleTaskSummary returns the overdue, due soon, active period and completed counts.
func HandleTaskSummary(ctx context.Context, tasks *app.TaskApp, params TaskSummaryParams) (*ToolResult, error) {
	ref, err := models.ResolveDay(params.Date, tasks.Today())
	if err != nil {
		return validationResult("date", err), nil
	}
	summary, err := tasks.SummaryAt(ctx, params.UserID, ref)
	if err != nil {
		return errorResult(err)
	}
	return &ToolResult{Content: FormatSummary(summary, ref)}, nil
}

// HandleTasksInRange lists period tasks overlapping [from, to]. Reversed bounds are accepted.
func HandleTasksInRange(ctx context.Context, tasks *app.TaskApp, params TasksInRangeParams) (*ToolResult, error) {
	if strings.TrimSpace(params.From) == "" {
		return &ToolResult{Field: "from", Error: "from is required"}, nil
	}
	if strings.TrimSpace(params.To) == "" {
		return &ToolResult{Field: "to", Error: "to is required"}, nil
	}
	today := tasks.Today()
	from, err := models.ResolveDay(params.From, today)
	if err != nil {
		return validationResult("from", err), nil
	}
	to, err := models.ResolveDay(params.To, today)
	if err != nil {
		return validationResult("to", err), nil
	}
	from, to = schedule.NormalizeRange(from, to)
	found, err := tasks.InRange(ctx, params.UserID, from, to)
	if err != nil {
		return errorResult(err)
	}
	heading := fmt.Sprintf("Period tasks %s to %s", models.FormatDay(from), models.FormatDay(to))
	return &ToolResult{Content: FormatTasks(heading, found, today)}, nil
}

// HandleBreakdownTask previews a breakdown, or applies one and replaces the task.
func HandleBreakdownTask(ctx context.Context, tasks *app.TaskApp, params BreakdownTaskParams) (*ToolResult, error) {
	id := strings.TrimSpace(params.TaskID)
	if id == "" {
		return &ToolResult{Field: "task_id", Error: "task_id is required"}, nil
	}
	action := params.Action
	if action == "" {
		action = BreakdownActionPreview
	}
	if !action.IsValid() {
		return &ToolResult{
			Field: "action",
			Error: fmt.Sprintf("invalid action %q (want %s or %s)", action, BreakdownActionPreview, BreakdownActionApply),
		}, nil
	}

	if action == BreakdownActionApply {
		created, err := tasks.ApplyBreakdown(ctx, id, app.ApplyOptions{EstimateSchedule: params.EstimateSchedule})
		if err != nil {
			return errorResult(err)
		}
		return &ToolResult{Content: FormatApplied(id, created, tasks.Today())}, nil
	}

	preview, err := tasks.Breakdown(ctx, id)
	if err != nil {
		return errorResult(err)
	}
	return &ToolResult{Content: FormatBreakdown(preview.Task, preview.Result)}, nil
}

// errorResult turns domain failures into tool errors the client can correct.
// Anything else is returned as a Go error.
func errorResult(err error) (*ToolResult, error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return &ToolResult{Field: ve.Field, Error: err.Error()}, nil
	case models.IsNotFound(err):
		return &ToolResult{Error: err.Error()}, nil
	}
	return nil, err
}

func validationResult(field string, err error) *ToolResult {
	return &ToolResult{Field: field, Error: err.Error()}
}
