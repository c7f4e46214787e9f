// Package schedule classifies tasks against calendar days.
//
// Every function here is pure: it reads the collection it is given, never mutates a
// task, and keeps no state between calls. Dates are compared as calendar days, so
// time-of-day never matters. A task whose date fields cannot be parsed simply does
// not match a predicate; nothing in this package returns or panics on bad data.
package schedule

import (
	"time"

	"github.com/yukitake212/first-hackathon-product/models"
)

// DueSoonWindow is the inclusive number of days ahead a deadline counts as due soon.
const DueSoonWindow = 3

// TasksOnDate returns the single tasks anchored to day plus the period tasks whose
// inclusive range contains it, in collection order.
func TasksOnDate(tasks []models.Task, day time.Time) []models.Task {
	d := models.DayOf(day)
	out := make([]models.Task, 0)
	for _, t := range tasks {
		if occursOn(t, d) {
			out = append(out, t)
		}
	}
	return out
}

// OccursOn reports whether t shows up on day.
func OccursOn(t models.Task, day time.Time) bool {
	return occursOn(t, models.DayOf(day))
}

func occursOn(t models.Task, d time.Time) bool {
	if t.TaskType == models.TypePeriod {
		start, end, ok := periodBounds(t)
		return ok && !d.Before(start) && !d.After(end)
	}
	anchor := t.StartDate
	if anchor == "" {
		anchor = t.Date
	}
	a, err := models.ParseDay(anchor)
	return err == nil && a.Equal(d)
}

// IsOverdue reports whether t has a deadline strictly before ref and is not completed.
// Period tasks have no deadline and are never overdue.
func IsOverdue(t models.Task, ref time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := dueDay(t)
	if !ok {
		return false
	}
	return due.Before(models.DayOf(ref))
}

// IsDueSoon reports whether t is not completed and its deadline is 0 to DueSoonWindow
// days after ref. It is evaluated on its own, without consulting IsOverdue.
func IsDueSoon(t models.Task, ref time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := dueDay(t)
	if !ok {
		return false
	}
	diff := models.DaysBetween(ref, due)
	return diff >= 0 && diff <= DueSoonWindow
}

// IsActivePeriod reports whether t is an unfinished period task whose range contains ref.
func IsActivePeriod(t models.Task, ref time.Time) bool {
	if t.TaskType != models.TypePeriod || t.Completed {
		return false
	}
	start, end, ok := periodBounds(t)
	if !ok {
		return false
	}
	d := models.DayOf(ref)
	return !d.Before(start) && !d.After(end)
}

// DaysUntilDue returns the signed day difference from ref to t's deadline.
func DaysUntilDue(t models.Task, ref time.Time) (int, bool) {
	due, ok := dueDay(t)
	if !ok {
		return 0, false
	}
	return models.DaysBetween(ref, due), true
}

// PeriodBadge is the label rendered next to a task: "period" for period tasks, empty
// otherwise. It depends on nothing but the task itself.
func PeriodBadge(t models.Task) string {
	if t.TaskType == models.TypePeriod {
		return string(models.TypePeriod)
	}
	return ""
}

// dueDay is the deadline of a single task. A period task never has one, even when a
// stale dueDate survived an edit that changed its type.
func dueDay(t models.Task) (time.Time, bool) {
	if t.TaskType == models.TypePeriod || t.DueDate == "" {
		return time.Time{}, false
	}
	due, err := models.ParseDay(t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

func periodBounds(t models.Task) (time.Time, time.Time, bool) {
	if t.StartDate == "" || t.EndDate == "" {
		return time.Time{}, time.Time{}, false
	}
	start, err := models.ParseDay(t.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := models.ParseDay(t.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
