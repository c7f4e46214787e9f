package server

import "net/http"

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.handleToggleTask)

	// Breakdown
	mux.HandleFunc("POST /api/tasks/{id}/breakdown", s.handleBreakdown)
	mux.HandleFunc("POST /api/tasks/{id}/breakdown/apply", s.handleApplyBreakdown)

	// Calendar views
	mux.HandleFunc("GET /api/calendar/{date}", s.handleCalendarDay)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/range", s.handleRange)
	mux.HandleFunc("GET /api/overdue", s.handleOverdue)
	mux.HandleFunc("GET /api/tips", s.handleTips)

	return s.corsMiddleware(s.recoverMiddleware(s.logMiddleware(mux)))
}
