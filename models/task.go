package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

// TaskType discriminates which optional date field of a task is meaningful.
type TaskType string

const (
	TypeSingle TaskType = "single"
	TypePeriod TaskType = "period"
)

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ParsePriority maps user input onto a priority, reporting whether it was recognized.
func ParsePriority(s string) (TaskPriority, bool) {
	switch TaskPriority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}

// ParseTaskType maps user input onto a task type, reporting whether it was recognized.
func ParseTaskType(s string) (TaskType, bool) {
	switch TaskType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeSingle:
		return TypeSingle, true
	case TypePeriod:
		return TypePeriod, true
	}
	return "", false
}

// Task is a unit of work anchored to one day (single) or spanning an inclusive range of days (period).
// Dates are calendar-day strings; see ParseDay.
type Task struct {
	ID          string       `json:"id" yaml:"id" toml:"id"`
	UserID      string       `json:"userId,omitempty" yaml:"userId,omitempty" toml:"userId,omitempty"`
	Title       string       `json:"title" yaml:"title" toml:"title" validate:"notblank,max=255"`
	Description string       `json:"description" yaml:"description" toml:"description"`
	Date        string       `json:"date" yaml:"date" toml:"date"`
	TaskType    TaskType     `json:"taskType" yaml:"taskType" toml:"taskType" validate:"oneof=single period"`
	StartDate   string       `json:"startDate" yaml:"startDate" toml:"startDate" validate:"required,datetime=2006-01-02"`
	DueDate     string       `json:"dueDate,omitempty" yaml:"dueDate,omitempty" toml:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string       `json:"endDate,omitempty" yaml:"endDate,omitempty" toml:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Priority    TaskPriority `json:"priority" yaml:"priority" toml:"priority" validate:"oneof=low medium high"`
	Completed   bool         `json:"completed" yaml:"completed" toml:"completed"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"createdAt" toml:"createdAt"`

	// Set on tasks produced by a breakdown.
	EstimatedDays int      `json:"estimatedDays,omitempty" yaml:"estimatedDays,omitempty" toml:"estimatedDays,omitempty" validate:"gte=0"`
	Dependencies  []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`

	// Subtasks is carried for records written by older clients. Breakdowns are always
	// flattened into sibling tasks and never populate it.
	Subtasks []SubTask `json:"subtasks,omitempty" yaml:"subtasks,omitempty" toml:"subtasks,omitempty" validate:"dive"`
}

// SubTask is a lightweight single-style record nested under a task.
type SubTask struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Title       string `json:"title" yaml:"title" toml:"title" validate:"notblank"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Completed   bool   `json:"completed" yaml:"completed" toml:"completed"`
	DueDate     string `json:"dueDate,omitempty" yaml:"dueDate,omitempty" toml:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// TaskList is the on-disk envelope used by the file store.
type TaskList struct {
	Tasks      []Task `json:"tasks" yaml:"tasks" toml:"tasks" validate:"dive"`
	TotalCount int    `json:"totalCount" yaml:"totalCount" toml:"totalCount"`
}

// IsPeriod reports whether the task spans a range of days.
func (t Task) IsPeriod() bool { return t.TaskType == TypePeriod }

// NewTaskID returns a fresh task identifier.
func NewTaskID() string {
	return "task-" + uuid.NewString()
}

// validate is a single instance of Validate, it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterStructValidation(taskStructLevel, Task{})
}

// taskStructLevel enforces the date rules that span more than one field.
func taskStructLevel(sl validator.StructLevel) {
	t := sl.Current().Interface().(Task)
	switch t.TaskType {
	case TypePeriod:
		if t.DueDate != "" {
			sl.ReportError(t.DueDate, "dueDate", "DueDate", "excluded_with_period", "")
		}
		if t.EndDate == "" {
			sl.ReportError(t.EndDate, "endDate", "EndDate", "required_with_period", "")
			return
		}
		start, errStart := ParseDay(t.StartDate)
		end, errEnd := ParseDay(t.EndDate)
		if errStart == nil && errEnd == nil && end.Before(start) {
			sl.ReportError(t.EndDate, "endDate", "EndDate", "gtefield", "startDate")
		}
	case TypeSingle:
		if t.EndDate != "" {
			sl.ReportError(t.EndDate, "endDate", "EndDate", "excluded_with_single", "")
		}
	}
}

// ValidateStruct validates any struct with validator tags and converts the first
// failure into a *ValidationError.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return &ValidationError{Field: fe.Field(), Rule: fe.Tag(), Msg: ruleMessage(fe)}
	}
	return fmt.Errorf("validate: %w", err)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return "must not be blank"
	case "datetime":
		return fmt.Sprintf("%q is not a YYYY-MM-DD date", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gtefield":
		return "must not be before " + fe.Param()
	case "excluded_with_period":
		return "must be empty for a period task"
	case "excluded_with_single":
		return "must be empty for a single task"
	case "required_with_period":
		return "is required for a period task"
	}
	return ""
}

// Normalize applies the one invariant-preserving rule for tasks. It runs identically on
// create and on update:
//   - single tasks lose endDate; dueDate stays optional
//   - period tasks lose dueDate; endDate defaults to startDate
//
// It also defaults type and priority, trims the title, canonicalizes parseable dates
// and keeps the display date equal to startDate.
func Normalize(t *Task) {
	t.Title = strings.TrimSpace(t.Title)
	if t.TaskType == "" {
		t.TaskType = TypeSingle
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.StartDate == "" {
		t.StartDate = t.Date
	}
	t.StartDate = canonicalDay(t.StartDate)
	t.DueDate = canonicalDay(t.DueDate)
	t.EndDate = canonicalDay(t.EndDate)

	switch t.TaskType {
	case TypeSingle:
		t.EndDate = ""
	case TypePeriod:
		t.DueDate = ""
		if t.EndDate == "" {
			t.EndDate = t.StartDate
		}
	}
	t.Date = t.StartDate

	for i := range t.Subtasks {
		t.Subtasks[i].Title = strings.TrimSpace(t.Subtasks[i].Title)
		t.Subtasks[i].DueDate = canonicalDay(t.Subtasks[i].DueDate)
	}
}

// Validate checks a normalized task.
func Validate(t Task) error {
	return ValidateStruct(t)
}

// Prepare normalizes and validates t in place. Stores call it on every write.
func Prepare(t *Task) error {
	Normalize(t)
	return Validate(*t)
}
