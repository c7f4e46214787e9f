// Package mcp provides the tool handlers and Markdown presenters behind the
// taskcal MCP server. Handlers take typed parameters and return a ToolResult;
// the cmd layer adapts them to the go-sdk.
package mcp

// BreakdownAction selects what breakdown_task does.
type BreakdownAction string

const (
	BreakdownActionPreview BreakdownAction = "preview"
	BreakdownActionApply   BreakdownAction = "apply"
)

// IsValid checks if the action is a valid breakdown action.
func (a BreakdownAction) IsValid() bool {
	switch a {
	case BreakdownActionPreview, BreakdownActionApply:
		return true
	}
	return false
}

// TasksOnDateParams defines the parameters for the tasks_on_date tool.
type TasksOnDateParams struct {
	// Date is YYYY-MM-DD, "today" or empty for today.
	Date   string `json:"date,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

// TaskSummaryParams defines the parameters for the task_summary tool.
type TaskSummaryParams struct {
	// Date is the reference day; empty means today.
	Date   string `json:"date,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

// TasksInRangeParams defines the parameters for the tasks_in_range tool.
type TasksInRangeParams struct {
	From   string `json:"from"`
	To     string `json:"to"`
	UserID string `json:"user_id,omitempty"`
}

// BreakdownTaskParams defines the parameters for the breakdown_task tool.
type BreakdownTaskParams struct {
	TaskID string `json:"task_id"`

	// Action defaults to preview. apply replaces the task with its subtasks.
	Action BreakdownAction `json:"action,omitempty"`

	// EstimateSchedule gives applied subtasks consecutive due dates from their estimates.
	EstimateSchedule bool `json:"estimate_schedule,omitempty"`
}

// ToolResult is what every handler returns. Error is set for failures the
// caller should see as a tool error rather than a protocol error.
type ToolResult struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
	Field   string `json:"field,omitempty"`
}

// IsError reports whether the result carries a tool error.
func (r *ToolResult) IsError() bool { return r != nil && r.Error != "" }

// Markdown renders the result for the client.
func (r *ToolResult) Markdown() string {
	switch {
	case r == nil:
		return ""
	case r.Error != "" && r.Field != "":
		return FormatValidationError(r.Field, r.Error)
	case r.Error != "":
		return FormatError(r.Error)
	}
	return r.Content
}
