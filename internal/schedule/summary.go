package schedule

import (
	"sort"
	"time"

	"github.com/yukitake212/first-hackathon-product/models"
)

// Summary holds dashboard counters for one reference day.
type Summary struct {
	Overdue      int `json:"overdueCount"`
	DueSoon      int `json:"dueSoonCount"`
	ActivePeriod int `json:"activePeriodCount"`
	Completed    int `json:"completedCount"`
}

// Summarize counts tasks per category. It is recomputed from tasks on every call.
func Summarize(tasks []models.Task, ref time.Time) Summary {
	var s Summary
	for _, t := range tasks {
		if IsOverdue(t, ref) {
			s.Overdue++
		}
		if IsDueSoon(t, ref) {
			s.DueSoon++
		}
		if IsActivePeriod(t, ref) {
			s.ActivePeriod++
		}
		if t.Completed {
			s.Completed++
		}
	}
	return s
}

// OverdueTasks returns the overdue tasks ordered by deadline, earliest first.
// Tasks sharing a deadline keep their collection order.
func OverdueTasks(tasks []models.Task, ref time.Time) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range tasks {
		if IsOverdue(t, ref) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := dueDay(out[i])
		b, _ := dueDay(out[j])
		return a.Before(b)
	})
	return out
}

// DueSoonTasks returns the tasks due within the window, in collection order.
func DueSoonTasks(tasks []models.Task, ref time.Time) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range tasks {
		if IsDueSoon(t, ref) {
			out = append(out, t)
		}
	}
	return out
}

// ActivePeriodTasks returns the period tasks running on ref, in collection order.
func ActivePeriodTasks(tasks []models.Task, ref time.Time) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range tasks {
		if IsActivePeriod(t, ref) {
			out = append(out, t)
		}
	}
	return out
}
