package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/breakdown"
	"github.com/yukitake212/first-hackathon-product/internal/schedule"
	"github.com/yukitake212/first-hackathon-product/models"
	"github.com/yukitake212/first-hackathon-product/store"
)

// newTestServer returns a server over an in-memory sqlite store whose "today" is 2024-06-05.
func newTestServer(t *testing.T, origins ...string) *Server {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := app.NewContext(s, nil)
	ctx.Now = func() time.Time { return time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC) }
	return New(app.NewTaskApp(ctx), Options{AllowedOrigins: origins})
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createTask(t *testing.T, srv *Server, req CreateTaskRequest) models.Task {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/tasks", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Task](t, rec)
}

func TestTaskCRUD(t *testing.T) {
	srv := newTestServer(t)

	created := createTask(t, srv, CreateTaskRequest{Title: "Dentist", StartDate: "2024-06-05", DueDate: "2024-06-05"})
	assert.Equal(t, models.TypeSingle, created.TaskType)
	assert.Equal(t, models.PriorityMedium, created.Priority)

	rec := do(t, srv, http.MethodGet, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dentist", decode[models.Task](t, rec).Title)

	rec = do(t, srv, http.MethodPatch, "/api/tasks/"+created.ID, map[string]any{"priority": "high"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.PriorityHigh, decode[models.Task](t, rec).Priority)

	rec = do(t, srv, http.MethodPost, "/api/tasks/"+created.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.Task](t, rec).Completed)

	rec = do(t, srv, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[TasksResponse](t, rec).TotalCount)

	rec = do(t, srv, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"blank title", http.MethodPost, "/api/tasks", CreateTaskRequest{Title: " ", StartDate: "2024-06-05"}, http.StatusBadRequest},
		{"bad priority", http.MethodPost, "/api/tasks", CreateTaskRequest{Title: "x", StartDate: "2024-06-05", Priority: "urgent"}, http.StatusBadRequest},
		{"period ends before start", http.MethodPost, "/api/tasks", CreateTaskRequest{Title: "x", TaskType: "period", StartDate: "2024-06-05", EndDate: "2024-06-01"}, http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/api/tasks/task-nope", nil, http.StatusNotFound},
		{"patch unknown id", http.MethodPatch, "/api/tasks/task-nope", map[string]any{"title": "y"}, http.StatusNotFound},
		{"empty patch", http.MethodPatch, "/api/tasks/task-nope", map[string]any{}, http.StatusBadRequest},
		{"bad calendar date", http.MethodGet, "/api/calendar/june", nil, http.StatusBadRequest},
		{"range missing bound", http.MethodGet, "/api/range?from=2024-06-01", nil, http.StatusBadRequest},
		{"bad type filter", http.MethodGet, "/api/tasks?type=weekly", nil, http.StatusBadRequest},
		{"breakdown unknown id", http.MethodPost, "/api/tasks/task-nope/breakdown", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestInvalidBody(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarViews(t *testing.T) {
	srv := newTestServer(t)

	late := createTask(t, srv, CreateTaskRequest{Title: "Late", StartDate: "2024-06-01", DueDate: "2024-06-03"})
	trip := createTask(t, srv, CreateTaskRequest{Title: "Trip", TaskType: "period", StartDate: "2024-06-04", EndDate: "2024-06-09"})
	createTask(t, srv, CreateTaskRequest{Title: "Soon", StartDate: "2024-06-06", DueDate: "2024-06-07"})

	rec := do(t, srv, http.MethodGet, "/api/calendar/2024-06-05", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	day := decode[TasksResponse](t, rec)
	require.Len(t, day.Tasks, 1)
	assert.Equal(t, trip.ID, day.Tasks[0].ID)

	rec = do(t, srv, http.MethodGet, "/api/overdue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overdue := decode[TasksResponse](t, rec)
	require.Len(t, overdue.Tasks, 1)
	assert.Equal(t, late.ID, overdue.Tasks[0].ID)

	rec = do(t, srv, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, schedule.Summary{Overdue: 1, DueSoon: 1, ActivePeriod: 1}, decode[schedule.Summary](t, rec))

	rec = do(t, srv, http.MethodGet, "/api/summary?date=2024-06-20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[schedule.Summary](t, rec).Overdue)

	rec = do(t, srv, http.MethodGet, "/api/range?from=2024-06-10&to=2024-06-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[TasksResponse](t, rec).TotalCount)

	rec = do(t, srv, http.MethodGet, "/api/tasks?overdue=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[TasksResponse](t, rec).TotalCount)

	rec = do(t, srv, http.MethodGet, "/api/tips", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, breakdown.FallbackScheduleTips(false), decode[TipsResponse](t, rec).Tips)
}

func TestBreakdownPreviewAndApply(t *testing.T) {
	srv := newTestServer(t)
	task := createTask(t, srv, CreateTaskRequest{Title: "Launch", StartDate: "2024-06-05", DueDate: "2024-06-12"})

	rec := do(t, srv, http.MethodPost, "/api/tasks/"+task.ID+"/breakdown", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode[app.BreakdownPreview](t, rec)
	assert.Equal(t, breakdown.SourceFallback, preview.Result.Source)
	require.Len(t, preview.Result.Subtasks, 3)

	preview.Result.Subtasks = preview.Result.Subtasks[:2]
	rec = do(t, srv, http.MethodPost, "/api/tasks/"+task.ID+"/breakdown/apply", ApplyBreakdownRequest{Result: &preview.Result})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	applied := decode[TasksResponse](t, rec)
	require.Len(t, applied.Tasks, 2)
	assert.Equal(t, "Launch - Plan", applied.Tasks[0].Title)
	assert.Equal(t, "2024-06-12", applied.Tasks[0].DueDate)

	rec = do(t, srv, http.MethodGet, "/api/tasks/"+task.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, "http://localhost:5173")

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, "http://localhost:5173", preflight("http://localhost:5173").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight("http://evil.example").Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_GracefulShutdown(t *testing.T) {
	srv := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/summary")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
