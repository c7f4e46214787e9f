package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/models"
	"github.com/yukitake212/first-hackathon-product/store"
)

func newTestTasks(t *testing.T) *app.TaskApp {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := app.NewContext(s, nil)
	ctx.Now = func() time.Time { return time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC) }
	return app.NewTaskApp(ctx)
}

func seed(t *testing.T, tasks *app.TaskApp, task models.Task) models.Task {
	t.Helper()
	created, err := tasks.Add(context.Background(), task)
	require.NoError(t, err)
	return created
}

func TestHandleTasksOnDate(t *testing.T) {
	tasks := newTestTasks(t)
	seed(t, tasks, models.Task{Title: "Dentist", StartDate: "2024-06-05"})
	seed(t, tasks, models.Task{Title: "Trip", TaskType: models.TypePeriod, StartDate: "2024-06-03", EndDate: "2024-06-07"})
	seed(t, tasks, models.Task{Title: "Later", StartDate: "2024-06-20"})

	res, err := HandleTasksOnDate(context.Background(), tasks, TasksOnDateParams{})
	require.NoError(t, err)
	require.False(t, res.IsError())
	assert.Contains(t, res.Content, "Tasks on 2024-06-05 (2)")
	assert.Contains(t, res.Content, "**Dentist**")
	assert.Contains(t, res.Content, "**Trip** `period`")
	assert.NotContains(t, res.Content, "Later")

	res, err = HandleTasksOnDate(context.Background(), tasks, TasksOnDateParams{Date: "2024-06-20"})
	require.NoError(t, err)
	assert.Contains(t, res.Content, "Later")
}

func TestHandleTasksOnDate_BadDate(t *testing.T) {
	tasks := newTestTasks(t)
	res, err := HandleTasksOnDate(context.Background(), tasks, TasksOnDateParams{Date: "soon"})
	require.NoError(t, err)
	assert.True(t, res.IsError())
	assert.Equal(t, "date", res.Field)
	assert.Contains(t, res.Markdown(), "Validation Error")
}

func TestHandleTaskSummary(t *testing.T) {
	tasks := newTestTasks(t)
	seed(t, tasks, models.Task{Title: "Late", StartDate: "2024-06-01", DueDate: "2024-06-03"})
	seed(t, tasks, models.Task{Title: "Soon", StartDate: "2024-06-01", DueDate: "2024-06-06"})
	seed(t, tasks, models.Task{Title: "Trip", TaskType: models.TypePeriod, StartDate: "2024-06-03", EndDate: "2024-06-07"})
	seed(t, tasks, models.Task{Title: "Done", StartDate: "2024-06-01", Completed: true})

	res, err := HandleTaskSummary(context.Background(), tasks, TaskSummaryParams{})
	require.NoError(t, err)
	assert.Contains(t, res.Content, "Summary for 2024-06-05")
	assert.Contains(t, res.Content, "| 1 | 1 | 1 | 1 |")
}

func TestHandleTasksInRange(t *testing.T) {
	tasks := newTestTasks(t)
	seed(t, tasks, models.Task{Title: "Trip", TaskType: models.TypePeriod, StartDate: "2024-06-03", EndDate: "2024-06-07"})
	seed(t, tasks, models.Task{Title: "Sprint", TaskType: models.TypePeriod, StartDate: "2024-07-01", EndDate: "2024-07-14"})
	seed(t, tasks, models.Task{Title: "Single", StartDate: "2024-06-04"})

	tests := []struct {
		name      string
		params    TasksInRangeParams
		wantField string
		want      []string
		notWant   []string
	}{
		{
			name:    "overlap",
			params:  TasksInRangeParams{From: "2024-06-06", To: "2024-06-30"},
			want:    []string{"Trip"},
			notWant: []string{"Sprint", "Single"},
		},
		{
			name:   "reversed bounds",
			params: TasksInRangeParams{From: "2024-07-10", To: "2024-06-01"},
			want:   []string{"Trip", "Sprint", "2024-06-01 to 2024-07-10"},
		},
		{name: "missing from", params: TasksInRangeParams{To: "2024-06-01"}, wantField: "from"},
		{name: "bad to", params: TasksInRangeParams{From: "2024-06-01", To: "later"}, wantField: "to"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := HandleTasksInRange(context.Background(), tasks, tt.params)
			require.NoError(t, err)
			if tt.wantField != "" {
				assert.True(t, res.IsError())
				assert.Equal(t, tt.wantField, res.Field)
				return
			}
			for _, w := range tt.want {
				assert.Contains(t, res.Content, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, res.Content, w)
			}
		})
	}
}

func TestHandleBreakdownTask_Preview(t *testing.T) {
	tasks := newTestTasks(t)
	task := seed(t, tasks, models.Task{Title: "Report", StartDate: "2024-06-05"})

	res, err := HandleBreakdownTask(context.Background(), tasks, BreakdownTaskParams{TaskID: task.ID})
	require.NoError(t, err)
	require.False(t, res.IsError())
	assert.Contains(t, res.Content, `Breakdown of "Report"`)
	assert.Contains(t, res.Content, "1. **Report - Plan**")
	assert.Contains(t, res.Content, "Source: fallback")

	_, err = tasks.Get(context.Background(), task.ID)
	assert.NoError(t, err, "preview must not change the store")
}

func TestHandleBreakdownTask_Apply(t *testing.T) {
	tasks := newTestTasks(t)
	task := seed(t, tasks, models.Task{Title: "Report", StartDate: "2024-06-05"})

	res, err := HandleBreakdownTask(context.Background(), tasks, BreakdownTaskParams{
		TaskID:           task.ID,
		Action:           BreakdownActionApply,
		EstimateSchedule: true,
	})
	require.NoError(t, err)
	require.False(t, res.IsError())
	assert.Contains(t, res.Content, "with 3 task(s)")

	_, err = tasks.Get(context.Background(), task.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestHandleBreakdownTask_Errors(t *testing.T) {
	tasks := newTestTasks(t)
	tests := []struct {
		name      string
		params    BreakdownTaskParams
		wantField string
	}{
		{name: "missing id", params: BreakdownTaskParams{}, wantField: "task_id"},
		{name: "bad action", params: BreakdownTaskParams{TaskID: "task-1", Action: "explode"}, wantField: "action"},
		{name: "unknown task", params: BreakdownTaskParams{TaskID: "task-missing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := HandleBreakdownTask(context.Background(), tasks, tt.params)
			require.NoError(t, err)
			assert.True(t, res.IsError())
			assert.Equal(t, tt.wantField, res.Field)
		})
	}
}

func TestToolResult_Markdown(t *testing.T) {
	assert.Equal(t, "", (*ToolResult)(nil).Markdown())
	assert.Equal(t, "ok", (&ToolResult{Content: "ok"}).Markdown())
	assert.Contains(t, (&ToolResult{Error: "boom"}).Markdown(), "**Details**: boom")
	assert.Contains(t, (&ToolResult{Error: "bad", Field: "date"}).Markdown(), "`date`")
}
