package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/models"
	"github.com/yukitake212/first-hackathon-product/store"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// handleListTasks supports ?user, ?type, ?date, ?from&to and ?overdue=true.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.Filter{UserID: q.Get("user")}

	if v := q.Get("type"); v != "" {
		tt, ok := models.ParseTaskType(v)
		if !ok {
			writeAPIError(w, http.StatusBadRequest, fmt.Sprintf("unknown task type %q", v))
			return
		}
		filter.TaskType = tt
	}
	if v := q.Get("date"); v != "" {
		d, err := models.ParseDay(v)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		filter.Date = &d
	}
	if q.Get("from") != "" || q.Get("to") != "" {
		from, to, err := rangeParams(r)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		filter.From, filter.To = &from, &to
	}
	if v := q.Get("overdue"); v != "" {
		overdue, err := strconv.ParseBool(v)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "overdue must be true or false")
			return
		}
		filter.OnlyOverdue = overdue
	}

	tasks, err := s.tasks.List(r.Context(), filter)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSON(w, TasksResponse{Tasks: tasks, TotalCount: len(tasks)})
}

// handleCreateTask
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := s.tasks.Add(r.Context(), req.Task())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSONStatus(w, http.StatusCreated, created)
}

// handleGetTask
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSON(w, task)
}

// handleUpdateTask
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch models.TaskPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	updated, err := s.tasks.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSON(w, updated)
}

// handleDeleteTask
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleTask
func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Toggle(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSON(w, task)
}

// handleBreakdown returns a preview; nothing is stored.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	preview, err := s.tasks.Breakdown(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSON(w, preview)
}

// handleApplyBreakdown replaces the task with its breakdown.
func (s *Server) handleApplyBreakdown(w http.ResponseWriter, r *http.Request) {
	var req ApplyBreakdownRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	tasks, err := s.tasks.ApplyBreakdown(r.Context(), r.PathValue("id"), app.ApplyOptions{
		Result:           req.Result,
		EstimateSchedule: req.EstimateSchedule,
	})
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSONStatus(w, http.StatusCreated, TasksResponse{Tasks: tasks, TotalCount: len(tasks)})
}

// handleCalendarDay lists the tasks occurring on {date}.
func (s *Server) handleCalendarDay(w http.ResponseWriter, r *http.Request) {
	day, err := models.ParseDay(r.PathValue("date"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	tasks, err := s.tasks.OnDate(r.Context(), r.URL.Query().Get("user"), day)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSON(w, TasksResponse{Tasks: tasks, TotalCount: len(tasks)})
}

// handleSummary counts as of today, or ?date when given.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ref := s.tasks.Today()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := models.ParseDay(v)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		ref = d
	}
	summary, err := s.tasks.SummaryAt(r.Context(), r.URL.Query().Get("user"), ref)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSON(w, summary)
}

// handleRange lists period tasks overlapping ?from..?to.
func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	tasks, err := s.tasks.InRange(r.Context(), r.URL.Query().Get("user"), from, to)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSON(w, TasksResponse{Tasks: tasks, TotalCount: len(tasks)})
}

// handleOverdue
func (s *Server) handleOverdue(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.Overdue(r.Context(), r.URL.Query().Get("user"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSON(w, TasksResponse{Tasks: tasks, TotalCount: len(tasks)})
}

// handleTips
func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	tips, err := s.tasks.Tips(r.Context(), r.URL.Query().Get("user"))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeAPIJSON(w, TipsResponse{Tips: tips})
}

func rangeParams(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		return time.Time{}, time.Time{}, &models.ValidationError{Field: "from", Rule: "required", Msg: "from and to are both required"}
	}
	from, err := models.ParseDay(q.Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := models.ParseDay(q.Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeAPIError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeErr maps domain errors onto status codes: validation and parse failures are
// 400, unknown ids 404, anything else 500.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	var perr *models.ParseError
	switch {
	case errors.As(err, &verr):
		writeAPIJSONStatus(w, http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.As(err, &perr):
		writeAPIError(w, http.StatusBadRequest, perr.Error())
	case models.IsNotFound(err):
		writeAPIError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeAPIError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeAPIError(w http.ResponseWriter, status int, msg string) {
	writeAPIJSONStatus(w, status, ErrorResponse{Error: msg})
}

func writeAPIJSON(w http.ResponseWriter, data interface{}) {
	writeAPIJSONStatus(w, http.StatusOK, data)
}

func writeAPIJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
