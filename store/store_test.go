package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukitake212/first-hackathon-product/models"
)

// tickClock hands out strictly increasing timestamps so createdAt ordering is deterministic.
func tickClock() func() time.Time {
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
}

type storeFactory func(t *testing.T) TaskStore

func backends(t *testing.T) map[string]storeFactory {
	t.Helper()
	factories := map[string]storeFactory{
		"file-json": func(t *testing.T) TaskStore { return setupFileStore(t, FormatJSON) },
		"file-yaml": func(t *testing.T) TaskStore { return setupFileStore(t, FormatYAML) },
		"file-toml": func(t *testing.T) TaskStore { return setupFileStore(t, FormatTOML) },
		"sqlite": func(t *testing.T) TaskStore {
			s, err := NewSQLiteStore(":memory:")
			require.NoError(t, err)
			s.now = tickClock()
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
	if dsn := os.Getenv("TASKCAL_TEST_POSTGRES_DSN"); dsn != "" {
		factories["postgres"] = func(t *testing.T) TaskStore {
			s, err := NewPostgresStore(dsn)
			require.NoError(t, err)
			_, err = s.db.Exec("DELETE FROM tasks")
			require.NoError(t, err)
			s.now = tickClock()
			t.Cleanup(func() { _ = s.Close() })
			return s
		}
	}
	return factories
}

func setupFileStore(t *testing.T, format string) *FileTaskStore {
	t.Helper()

	s := NewFileTaskStore()
	err := s.Initialize(map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "tasks."+format),
		"dataFileFormat": format,
	})
	require.NoError(t, err, "Failed to initialize store")
	s.now = tickClock()
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s TaskStore)) {
	for name, factory := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func TestTaskStore_CRUD(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s TaskStore) {
		ctx := context.Background()

		id, err := s.CreateTask(ctx, models.Task{
			Title:     "  Write report ",
			StartDate: "2024-06-01",
			DueDate:   "2024-06-03",
			UserID:    "alice",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		got, err := s.GetTask(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Write report", got.Title)
		assert.Equal(t, models.TypeSingle, got.TaskType)
		assert.Equal(t, models.PriorityMedium, got.Priority)
		assert.Equal(t, "2024-06-01", got.Date)
		assert.False(t, got.CreatedAt.IsZero())

		title := "Write final report"
		done := true
		updated, err := s.UpdateTask(ctx, id, models.TaskPatch{Title: &title, Completed: &done})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.True(t, updated.Completed)
		assert.Equal(t, got.CreatedAt.UTC(), updated.CreatedAt.UTC(), "createdAt is immutable")

		reloaded, err := s.GetTask(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, title, reloaded.Title)
		assert.True(t, reloaded.Completed)

		require.NoError(t, s.DeleteTask(ctx, id))
		_, err = s.GetTask(ctx, id)
		assert.True(t, models.IsNotFound(err))
	})
}

func TestTaskStore_NotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s TaskStore) {
		ctx := context.Background()

		_, err := s.GetTask(ctx, "missing")
		assert.True(t, models.IsNotFound(err))

		title := "x"
		_, err = s.UpdateTask(ctx, "missing", models.TaskPatch{Title: &title})
		assert.True(t, models.IsNotFound(err))

		err = s.DeleteTask(ctx, "missing")
		assert.True(t, models.IsNotFound(err))

		_, err = s.ReplaceTask(ctx, "missing", nil)
		assert.True(t, models.IsNotFound(err))
	})
}

func TestTaskStore_TypeRuleOnCreateAndUpdate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s TaskStore) {
		ctx := context.Background()

		id, err := s.CreateTask(ctx, models.Task{
			Title:     "Sprint",
			TaskType:  models.TypePeriod,
			StartDate: "2024-06-01",
			DueDate:   "2024-06-05",
		})
		require.NoError(t, err)

		got, err := s.GetTask(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, got.DueDate, "period tasks drop dueDate")
		assert.Equal(t, "2024-06-01", got.EndDate, "endDate defaults to startDate")

		single := models.TypeSingle
		updated, err := s.UpdateTask(ctx, id, models.TaskPatch{TaskType: &single})
		require.NoError(t, err)
		assert.Empty(t, updated.EndDate, "single tasks drop endDate")

		period := models.TypePeriod
		end := "2024-05-20"
		_, err = s.UpdateTask(ctx, id, models.TaskPatch{TaskType: &period, EndDate: &end})
		assert.True(t, models.IsValidation(err), "endDate before startDate is rejected")

		unchanged, err := s.GetTask(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.TypeSingle, unchanged.TaskType, "failed update leaves the task untouched")
	})
}

func TestTaskStore_RejectsInvalidTasks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s TaskStore) {
		ctx := context.Background()

		_, err := s.CreateTask(ctx, models.Task{Title: "   ", StartDate: "2024-06-01"})
		assert.True(t, models.IsValidation(err))

		_, err = s.CreateTask(ctx, models.Task{Title: "x", StartDate: "someday"})
		assert.True(t, models.IsValidation(err))

		tasks, err := s.ListTasks(ctx, Filter{})
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}

func TestTaskStore_ListFilters(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s TaskStore) {
		ctx := context.Background()
		create := func(task models.Task) string {
			t.Helper()
			id, err := s.CreateTask(ctx, task)
			require.NoError(t, err)
			return id
		}

		first := create(models.Task{Title: "first", StartDate: "2024-06-01", DueDate: "2024-06-02", UserID: "alice"})
		second := create(models.Task{Title: "second", StartDate: "2024-06-01", DueDate: "2024-06-04", UserID: "alice"})
		sprint := create(models.Task{Title: "sprint", TaskType: models.TypePeriod, StartDate: "2024-05-30", EndDate: "2024-06-03", UserID: "alice"})
		other := create(models.Task{Title: "bob's", StartDate: "2024-06-01", UserID: "bob"})

		all, err := s.ListTasks(ctx, Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{other, sprint, second, first}, taskIDs(all), "newest first")

		alice, err := s.ListTasks(ctx, Filter{UserID: "alice"})
		require.NoError(t, err)
		assert.Equal(t, []string{sprint, second, first}, taskIDs(alice))

		periods, err := s.ListTasks(ctx, Filter{TaskType: models.TypePeriod})
		require.NoError(t, err)
		assert.Equal(t, []string{sprint}, taskIDs(periods))

		on := mustDay(t, "2024-06-03")
		onDate, err := s.ListTasks(ctx, Filter{UserID: "alice", Date: &on})
		require.NoError(t, err)
		assert.Equal(t, []string{sprint}, taskIDs(onDate))

		from, to := mustDay(t, "2024-06-03"), mustDay(t, "2024-06-10")
		inRange, err := s.ListTasks(ctx, Filter{From: &from, To: &to})
		require.NoError(t, err)
		assert.Equal(t, []string{sprint}, taskIDs(inRange))

		overdue, err := s.ListTasks(ctx, Filter{OnlyOverdue: true, Reference: mustDay(t, "2024-06-05")})
		require.NoError(t, err)
		assert.Equal(t, []string{first, second}, taskIDs(overdue), "overdue is ordered by due date")
	})
}

func TestTaskStore_ReplaceTask(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s TaskStore) {
		ctx := context.Background()

		orig, err := s.CreateTask(ctx, models.Task{Title: "Launch", StartDate: "2024-06-01", UserID: "alice"})
		require.NoError(t, err)

		ids, err := s.ReplaceTask(ctx, orig, []models.Task{
			{ID: "task-plan", Title: "Launch - Plan", StartDate: "2024-06-01", UserID: "alice", EstimatedDays: 1},
			{Title: "Launch - Execute", StartDate: "2024-06-01", UserID: "alice", EstimatedDays: 2, Dependencies: []string{"task-plan"}},
		})
		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.Equal(t, "task-plan", ids[0])

		_, err = s.GetTask(ctx, orig)
		assert.True(t, models.IsNotFound(err), "original is removed")

		exec, err := s.GetTask(ctx, ids[1])
		require.NoError(t, err)
		assert.Equal(t, 2, exec.EstimatedDays)
		assert.Equal(t, []string{"task-plan"}, exec.Dependencies)

		all, err := s.ListTasks(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestTaskStore_ReplaceTaskIsAllOrNothing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s TaskStore) {
		ctx := context.Background()

		orig, err := s.CreateTask(ctx, models.Task{Title: "Launch", StartDate: "2024-06-01"})
		require.NoError(t, err)

		_, err = s.ReplaceTask(ctx, orig, []models.Task{
			{Title: "ok", StartDate: "2024-06-01"},
			{Title: "", StartDate: "2024-06-01"},
		})
		require.Error(t, err)

		got, err := s.GetTask(ctx, orig)
		require.NoError(t, err, "original survives a failed replace")
		assert.Equal(t, "Launch", got.Title)

		all, err := s.ListTasks(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestTaskStore_ReplaceTaskNeedsReplacements(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s TaskStore) {
		ctx := context.Background()

		orig, err := s.CreateTask(ctx, models.Task{Title: "Launch", StartDate: "2024-06-01"})
		require.NoError(t, err)

		for _, replacements := range [][]models.Task{nil, {}} {
			ids, err := s.ReplaceTask(ctx, orig, replacements)
			require.Error(t, err)
			assert.True(t, models.IsValidation(err))
			assert.Empty(t, ids)
		}

		got, err := s.GetTask(ctx, orig)
		require.NoError(t, err, "the task is kept when nothing replaces it")
		assert.Equal(t, "Launch", got.Title)
	})
}

func TestTaskStore_ReturnsCopies(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s TaskStore) {
		ctx := context.Background()

		id, err := s.CreateTask(ctx, models.Task{Title: "Original", StartDate: "2024-06-01"})
		require.NoError(t, err)

		got, err := s.GetTask(ctx, id)
		require.NoError(t, err)
		got.Title = "mutated"

		again, err := s.GetTask(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Original", again.Title)
	})
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseDay(s)
	require.NoError(t, err)
	return d
}

func taskIDs(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}
