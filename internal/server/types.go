package server

import (
	"github.com/yukitake212/first-hackathon-product/internal/breakdown"
	"github.com/yukitake212/first-hackathon-product/models"
)

// CreateTaskRequest is the payload for POST /api/tasks
type CreateTaskRequest struct {
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TaskType    string `json:"taskType"`
	Date        string `json:"date"`
	StartDate   string `json:"startDate"`
	DueDate     string `json:"dueDate"`
	EndDate     string `json:"endDate"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
}

// Task maps the request onto a new task. Unknown enum values are passed through
// so validation reports them.
func (r CreateTaskRequest) Task() models.Task {
	return models.Task{
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		TaskType:    models.TaskType(r.TaskType),
		Date:        r.Date,
		StartDate:   r.StartDate,
		DueDate:     r.DueDate,
		EndDate:     r.EndDate,
		Priority:    models.TaskPriority(r.Priority),
		Completed:   r.Completed,
	}
}

// ApplyBreakdownRequest is the payload for POST /api/tasks/{id}/breakdown/apply.
// An omitted result asks for a fresh breakdown.
type ApplyBreakdownRequest struct {
	Result           *breakdown.Result `json:"result,omitempty"`
	EstimateSchedule bool              `json:"estimateSchedule"`
}

// TasksResponse wraps task listings.
type TasksResponse = models.TaskList

// TipsResponse is the response for /api/tips
type TipsResponse struct {
	Tips []string `json:"tips"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
