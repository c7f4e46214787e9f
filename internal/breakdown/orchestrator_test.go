package breakdown

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukitake212/first-hackathon-product/internal/schedule"
	"github.com/yukitake212/first-hackathon-product/models"
)

type fakeProvider struct {
	result Result
	tips   []string
	err    error
	delay  time.Duration
	calls  int
	last   Request
}

func (f *fakeProvider) Propose(ctx context.Context, req Request) (Result, error) {
	f.calls++
	f.last = req
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.result, f.err
}

func (f *fakeProvider) Advise(ctx context.Context, reqs []Request) ([]string, error) {
	f.calls++
	return f.tips, f.err
}

func sampleTask() models.Task {
	return models.Task{
		ID:        "task-orig",
		UserID:    "alice",
		Title:     "Launch site",
		TaskType:  models.TypeSingle,
		StartDate: "2024-06-01",
		Date:      "2024-06-01",
		DueDate:   "2024-06-10",
		Priority:  models.PriorityHigh,
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("task-%d", n)
	}
}

func TestRequestBreakdown_NoProviderUsesFallback(t *testing.T) {
	o := New(nil)
	got := o.RequestBreakdown(context.Background(), sampleTask())

	assert.Equal(t, SourceFallback, got.Source)
	require.Len(t, got.Subtasks, 3)

	var days []int
	var priorities []models.TaskPriority
	for _, s := range got.Subtasks {
		days = append(days, s.EstimatedDays)
		priorities = append(priorities, s.Priority)
	}
	assert.Equal(t, []int{1, 2, 1}, days)
	assert.Equal(t, []models.TaskPriority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow}, priorities)

	assert.Empty(t, got.Subtasks[0].Dependencies)
	assert.Equal(t, []string{got.Subtasks[0].Title}, got.Subtasks[1].Dependencies)
	assert.Equal(t, []string{got.Subtasks[1].Title}, got.Subtasks[2].Dependencies)
	assert.Len(t, got.Suggestions, 3)
}

func TestRequestBreakdown_ProviderFailureUsesFallback(t *testing.T) {
	p := &fakeProvider{err: &ProviderError{Op: "propose", Err: errors.New("connection refused")}}
	o := New(p)

	got := o.RequestBreakdown(context.Background(), sampleTask())
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, Fallback(RequestFromTask(sampleTask())), got)
}

func TestRequestBreakdown_FallbackIsStable(t *testing.T) {
	o := New(&fakeProvider{err: errors.New("down")})
	a := o.RequestBreakdown(context.Background(), sampleTask())
	b := o.RequestBreakdown(context.Background(), sampleTask())
	assert.Equal(t, a, b)
}

func TestRequestBreakdown_Timeout(t *testing.T) {
	p := &fakeProvider{
		result: Result{Subtasks: []SubtaskProposal{{Title: "late", EstimatedDays: 1, Priority: models.PriorityLow}}},
		delay:  200 * time.Millisecond,
	}
	o := New(p, WithTimeout(20*time.Millisecond))

	start := time.Now()
	got := o.RequestBreakdown(context.Background(), sampleTask())
	assert.Less(t, time.Since(start), 150*time.Millisecond, "caller is not held past the timeout")
	assert.Equal(t, SourceFallback, got.Source)
}

func TestRequestBreakdown_ProviderSuccess(t *testing.T) {
	p := &fakeProvider{result: Result{
		Subtasks: []SubtaskProposal{
			{Title: "Design", EstimatedDays: 2, Priority: models.PriorityHigh},
			{Title: "Build", EstimatedDays: 3, Priority: models.PriorityMedium, Dependencies: []string{"Design"}},
		},
		Suggestions: []string{"Ship small"},
	}}
	o := New(p)

	got := o.RequestBreakdown(context.Background(), sampleTask())
	assert.Equal(t, SourceProvider, got.Source)
	assert.Len(t, got.Subtasks, 2)
	assert.Equal(t, Request{Title: "Launch site", DueDate: "2024-06-10", Priority: "high"}, p.last)
}

func TestRequestFromTask_Period(t *testing.T) {
	task := models.Task{Title: "Sprint", TaskType: models.TypePeriod, StartDate: "2024-06-01", EndDate: "2024-06-14", Priority: models.PriorityLow}
	req := RequestFromTask(task)
	assert.Empty(t, req.DueDate, "a period has no deadline")
	assert.Equal(t, "2024-06-14", req.EndDate)
}

func TestRequestBreakdown_InvalidProviderAnswerUsesFallback(t *testing.T) {
	tests := []struct {
		name   string
		result Result
	}{
		{name: "empty", result: Result{}},
		{name: "empty with suggestions", result: Result{Suggestions: []string{"just do it"}}},
		{name: "blank title", result: Result{Subtasks: []SubtaskProposal{{Title: " ", EstimatedDays: 1, Priority: models.PriorityLow}}}},
		{name: "zero estimate", result: Result{Subtasks: []SubtaskProposal{{Title: "Build", EstimatedDays: 0, Priority: models.PriorityLow}}}},
		{name: "unknown priority", result: Result{Subtasks: []SubtaskProposal{{Title: "Build", EstimatedDays: 1, Priority: "urgent"}}}},
		{name: "duplicate titles", result: Result{Subtasks: []SubtaskProposal{
			{Title: "Build", EstimatedDays: 1, Priority: models.PriorityLow},
			{Title: "Build", EstimatedDays: 2, Priority: models.PriorityHigh},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{result: tt.result}
			o := New(p)

			got := o.RequestBreakdown(context.Background(), sampleTask())
			assert.Equal(t, 1, p.calls)
			assert.Equal(t, Fallback(RequestFromTask(sampleTask())), got)
			assert.NotEmpty(t, o.ApplyBreakdown(sampleTask(), got), "a rejected answer never yields an empty breakdown")
		})
	}
}

func TestValidateProposals(t *testing.T) {
	valid := SubtaskProposal{Title: "Build", EstimatedDays: 1, Priority: models.PriorityMedium}

	assert.NoError(t, ValidateProposals([]SubtaskProposal{valid}))
	assert.NoError(t, ValidateProposals(Fallback(RequestFromTask(sampleTask())).Subtasks))

	for name, proposals := range map[string][]SubtaskProposal{
		"none":      nil,
		"duplicate": {valid, valid},
		"invalid":   {{Title: "Build", EstimatedDays: -1, Priority: models.PriorityMedium}},
	} {
		err := ValidateProposals(proposals)
		require.Error(t, err, name)
		assert.True(t, models.IsValidation(err), name)
	}
}

func TestApplyBreakdown_RoundTrip(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	o := New(nil, WithIDFunc(sequentialIDs()), WithClock(func() time.Time { return created }))
	orig := sampleTask()

	result := o.RequestBreakdown(context.Background(), orig)
	tasks := o.ApplyBreakdown(orig, result)

	require.Len(t, tasks, len(result.Subtasks))
	for i, task := range tasks {
		assert.Equal(t, models.TypeSingle, task.TaskType)
		assert.Equal(t, orig.StartDate, task.StartDate)
		assert.Equal(t, orig.StartDate, task.Date)
		assert.Equal(t, orig.DueDate, task.DueDate)
		assert.Equal(t, orig.UserID, task.UserID)
		assert.False(t, task.Completed)
		assert.Equal(t, created, task.CreatedAt)
		assert.Equal(t, fmt.Sprintf("task-%d", i+1), task.ID)
		assert.NotEqual(t, orig.ID, task.ID)
		require.NoError(t, models.Prepare(&task), "applied tasks are valid")
	}

	assert.Empty(t, tasks[0].Dependencies)
	assert.Equal(t, []string{"task-1"}, tasks[1].Dependencies)
	assert.Equal(t, []string{"task-2"}, tasks[2].Dependencies)
	assert.Equal(t, 2, tasks[1].EstimatedDays)
}

func TestApplyBreakdown_FreshIDsEachTime(t *testing.T) {
	o := New(nil)
	orig := sampleTask()
	result := Fallback(RequestFromTask(orig))

	first := o.ApplyBreakdown(orig, result)
	second := o.ApplyBreakdown(orig, result)
	seen := map[string]bool{}
	for _, task := range append(first, second...) {
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
}

func TestApplyBreakdown_EstimateSchedule(t *testing.T) {
	o := New(nil, WithIDFunc(sequentialIDs()))
	orig := sampleTask()

	tasks := o.ApplyBreakdown(orig, Fallback(RequestFromTask(orig)), WithEstimateSchedule())
	require.Len(t, tasks, 3)
	// Estimates 1, 2, 1 starting 2024-06-01.
	assert.Equal(t, "2024-06-01", tasks[0].DueDate)
	assert.Equal(t, "2024-06-03", tasks[1].DueDate)
	assert.Equal(t, "2024-06-04", tasks[2].DueDate)
	for _, task := range tasks {
		assert.Equal(t, "2024-06-01", task.StartDate)
	}
}

func TestApplyBreakdown_PeriodOriginal(t *testing.T) {
	o := New(nil)
	orig := models.Task{ID: "p", Title: "Sprint", TaskType: models.TypePeriod, StartDate: "2024-06-01", Date: "2024-06-01", EndDate: "2024-06-14"}

	tasks := o.ApplyBreakdown(orig, Fallback(RequestFromTask(orig)))
	require.Len(t, tasks, 3)
	after := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	for _, task := range tasks {
		assert.Equal(t, models.TypeSingle, task.TaskType)
		assert.Equal(t, "2024-06-01", task.StartDate)
		assert.Empty(t, task.DueDate, "the period had no deadline to inherit")
		assert.Empty(t, task.EndDate)
		assert.False(t, schedule.IsOverdue(task, after))
	}

	scheduled := o.ApplyBreakdown(orig, Fallback(RequestFromTask(orig)), WithEstimateSchedule())
	assert.Equal(t, "2024-06-01", scheduled[0].DueDate)
	assert.Equal(t, "2024-06-04", scheduled[2].DueDate)
}

func TestApplyBreakdown_DependenciesResolveByTitle(t *testing.T) {
	o := New(nil, WithIDFunc(sequentialIDs()))
	result := Result{Subtasks: []SubtaskProposal{
		{Title: "Design", EstimatedDays: 1, Priority: models.PriorityHigh},
		{Title: "Build", EstimatedDays: 2, Priority: models.PriorityMedium, Dependencies: []string{"Design"}},
		{Title: "Test", EstimatedDays: 1, Priority: models.PriorityLow, Dependencies: []string{"Design", "Build"}},
	}}
	tasks := o.ApplyBreakdown(sampleTask(), result)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"task-1"}, tasks[1].Dependencies)
	assert.Equal(t, []string{"task-1", "task-2"}, tasks[2].Dependencies)
}

func TestOptimizeSchedule(t *testing.T) {
	tasks := []models.Task{sampleTask()}

	assert.Equal(t, FallbackScheduleTips(false), New(nil).OptimizeSchedule(context.Background(), tasks))
	assert.Len(t, FallbackScheduleTips(false), 4)

	failing := New(&fakeProvider{err: errors.New("down")})
	assert.Equal(t, FallbackScheduleTips(true), failing.OptimizeSchedule(context.Background(), tasks))
	assert.Len(t, FallbackScheduleTips(true), 3)

	ok := New(&fakeProvider{tips: []string{"Do the report first"}})
	assert.Equal(t, []string{"Do the report first"}, ok.OptimizeSchedule(context.Background(), tasks))
}

func TestCall_RecoversPanics(t *testing.T) {
	_, err := call(context.Background(), time.Second, func(context.Context) (int, error) {
		panic("boom")
	})
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
}
