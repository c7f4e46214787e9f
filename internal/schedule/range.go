package schedule

import (
	"time"

	"github.com/yukitake212/first-hackathon-product/models"
)

// NormalizeRange returns the two days ordered so that start <= end.
func NormalizeRange(a, b time.Time) (time.Time, time.Time) {
	start, end := models.DayOf(a), models.DayOf(b)
	if end.Before(start) {
		start, end = end, start
	}
	return start, end
}

// TasksInRange returns the period tasks whose closed range overlaps [a, b].
// A reversed range is normalized first, so [a, b] and [b, a] give the same result.
func TasksInRange(tasks []models.Task, a, b time.Time) []models.Task {
	rangeStart, rangeEnd := NormalizeRange(a, b)
	out := make([]models.Task, 0)
	for _, t := range tasks {
		if t.TaskType != models.TypePeriod {
			continue
		}
		start, end, ok := periodBounds(t)
		if !ok {
			continue
		}
		if !start.After(rangeEnd) && !end.Before(rangeStart) {
			out = append(out, t)
		}
	}
	return out
}
