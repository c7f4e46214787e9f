package store

import (
	"sort"
	"time"

	"github.com/yukitake212/first-hackathon-product/internal/schedule"
	"github.com/yukitake212/first-hackathon-product/models"
)

// Filter narrows ListTasks. Zero values mean "no constraint".
//
// Results are ordered by createdAt, newest first. With OnlyOverdue they are ordered
// by due date, earliest first. Date and range matching use the schedule package so
// listings agree with the classification engine.
type Filter struct {
	UserID string
	// Date keeps tasks occurring on that day (single anchored there, or period covering it).
	Date *time.Time
	// From and To keep period tasks overlapping the closed range. Both must be set.
	From *time.Time
	To   *time.Time
	// TaskType keeps only tasks of that type.
	TaskType models.TaskType
	// OnlyOverdue keeps tasks overdue relative to Reference.
	OnlyOverdue bool
	// Reference is "today" for OnlyOverdue. Zero means time.Now().
	Reference time.Time
}

// HasRange reports whether both range bounds are set.
func (f Filter) HasRange() bool {
	return f.From != nil && f.To != nil
}

func (f Filter) reference() time.Time {
	if f.Reference.IsZero() {
		return time.Now()
	}
	return f.Reference
}

// Apply filters and orders tasks. The input slice is not modified.
func (f Filter) Apply(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if f.TaskType != "" && t.TaskType != f.TaskType {
			continue
		}
		out = append(out, t)
	}

	sortByCreatedDesc(out)

	if f.Date != nil {
		out = schedule.TasksOnDate(out, *f.Date)
	}
	if f.HasRange() {
		out = schedule.TasksInRange(out, *f.From, *f.To)
	}
	if f.OnlyOverdue {
		out = schedule.OverdueTasks(out, f.reference())
	}
	return out
}

// sortByCreatedDesc orders newest first; ties fall back to id for a stable listing.
func sortByCreatedDesc(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
