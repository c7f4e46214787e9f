package mcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukitake212/first-hackathon-product/internal/breakdown"
	"github.com/yukitake212/first-hackathon-product/internal/schedule"
	"github.com/yukitake212/first-hackathon-product/internal/utils"
	"github.com/yukitake212/first-hackathon-product/models"
)

// FormatTasks renders tasks as a Markdown list, one line per task with its
// dates, priority and status relative to ref.
func FormatTasks(heading string, tasks []models.Task, ref time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%d)\n", heading, len(tasks))
	if len(tasks) == 0 {
		sb.WriteString("\nNo tasks.\n")
		return sb.String()
	}
	sb.WriteString("\n")
	for _, t := range tasks {
		sb.WriteString(formatTaskLine(t, ref))
		sb.WriteString("\n")
		if t.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", utils.Truncate(t.Description, 150))
		}
	}
	return sb.String()
}

func formatTaskLine(t models.Task, ref time.Time) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	line := fmt.Sprintf("- %s **%s**", check, t.Title)
	if badge := schedule.PeriodBadge(t); badge != "" {
		line += " `" + badge + "`"
	}
	line += fmt.Sprintf(" (%s) %s", t.Priority, formatDates(t))
	if status := statusOf(t, ref); status != "" {
		line += ", " + status
	}
	return line + fmt.Sprintf(" `%s`", t.ID)
}

func formatDates(t models.Task) string {
	if t.IsPeriod() {
		return t.StartDate + " → " + t.EndDate
	}
	if t.DueDate != "" && t.DueDate != t.StartDate {
		return t.StartDate + ", due " + t.DueDate
	}
	return t.StartDate
}

func statusOf(t models.Task, ref time.Time) string {
	switch {
	case t.Completed:
		return ""
	case schedule.IsOverdue(t, ref):
		return "overdue"
	case schedule.IsDueSoon(t, ref):
		return "due soon"
	case schedule.IsActivePeriod(t, ref):
		return "in progress"
	}
	return ""
}

// FormatSummary renders the four dashboard counters.
func FormatSummary(s schedule.Summary, ref time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Summary for %s\n\n", models.FormatDay(ref))
	fmt.Fprintf(&sb, "| Overdue | Due soon | Active period | Completed |\n")
	fmt.Fprintf(&sb, "|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d |\n", s.Overdue, s.DueSoon, s.ActivePeriod, s.Completed)
	return sb.String()
}

// FormatBreakdown renders a proposed breakdown as a numbered list followed by
// its suggestions.
func FormatBreakdown(original models.Task, r breakdown.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Breakdown of %q\n\n", original.Title)
	fmt.Fprintf(&sb, "Source: %s\n\n", r.Source)
	for i, s := range r.Subtasks {
		fmt.Fprintf(&sb, "%d. **%s** (%s, ~%dd)", i+1, s.Title, s.Priority, s.EstimatedDays)
		if len(s.Dependencies) > 0 {
			fmt.Fprintf(&sb, " after: %s", strings.Join(s.Dependencies, ", "))
		}
		sb.WriteString("\n")
		if s.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", s.Description)
		}
	}
	if len(r.Suggestions) > 0 {
		sb.WriteString("\n### Suggestions\n")
		for _, tip := range r.Suggestions {
			fmt.Fprintf(&sb, "- %s\n", tip)
		}
	}
	return sb.String()
}

// FormatApplied renders the tasks that replaced an original after a breakdown.
func FormatApplied(originalID string, created []models.Task, ref time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Replaced `%s` with %d task(s).\n\n", originalID, len(created))
	sb.WriteString(FormatTasks("Created", created, ref))
	return sb.String()
}

// FormatError returns a Markdown error block.
func FormatError(message string) string {
	return fmt.Sprintf("## Error\n\n**Details**: %s", message)
}

// FormatValidationError returns a Markdown error for validation failures.
func FormatValidationError(field, message string) string {
	return fmt.Sprintf("## Validation Error\n\n**Field**: `%s`\n**Details**: %s", field, message)
}
