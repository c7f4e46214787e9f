package models

// TaskPatch is a partial update. Nil fields are left untouched; a pointer to ""
// clears an optional date.
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	TaskType    *TaskType     `json:"taskType,omitempty"`
	StartDate   *string       `json:"startDate,omitempty"`
	DueDate     *string       `json:"dueDate,omitempty"`
	EndDate     *string       `json:"endDate,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	Completed   *bool         `json:"completed,omitempty"`
	UserID      *string       `json:"userId,omitempty"`
	Subtasks    *[]SubTask    `json:"subtasks,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.TaskType == nil && p.StartDate == nil &&
		p.DueDate == nil && p.EndDate == nil && p.Priority == nil && p.Completed == nil &&
		p.UserID == nil && p.Subtasks == nil
}

// Apply returns a copy of t with the patch applied. id and createdAt are never touched.
// The result is not normalized; callers run Prepare on it so updates go through
// the same rule as creates.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.TaskType != nil {
		t.TaskType = *p.TaskType
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
		t.Date = *p.StartDate
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.UserID != nil {
		t.UserID = *p.UserID
	}
	if p.Subtasks != nil {
		t.Subtasks = append([]SubTask(nil), (*p.Subtasks)...)
	}
	return t
}
