package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yukitake212/first-hackathon-product/internal/breakdown"
	"github.com/yukitake212/first-hackathon-product/internal/schedule"
	"github.com/yukitake212/first-hackathon-product/models"
)

// DateSpan is the compact date column: "Jun 05" for single tasks (with "→ due" when
// a deadline is set) and "Jun 03 – Jun 09" for periods.
func DateSpan(t models.Task) string {
	short := func(s string) string {
		d, err := models.ParseDay(s)
		if err != nil {
			return s
		}
		return d.Format("Jan 02")
	}
	if t.IsPeriod() {
		return short(t.StartDate) + " – " + short(t.EndDate)
	}
	if t.DueDate != "" && t.DueDate != t.StartDate {
		return short(t.StartDate) + " → " + short(t.DueDate)
	}
	return short(t.StartDate)
}

// StatusText describes t relative to ref: done, overdue, due soon, active or open.
func StatusText(t models.Task, ref time.Time) string {
	switch {
	case t.Completed:
		return "done"
	case schedule.IsOverdue(t, ref):
		days, _ := schedule.DaysUntilDue(t, ref)
		return fmt.Sprintf("overdue %dd", -days)
	case schedule.IsDueSoon(t, ref):
		days, _ := schedule.DaysUntilDue(t, ref)
		if days == 0 {
			return "due today"
		}
		return fmt.Sprintf("due in %dd", days)
	case schedule.IsActivePeriod(t, ref):
		return "active"
	}
	return "open"
}

// TaskLine renders one task as a single styled line.
func TaskLine(t models.Task, ref time.Time) string {
	check := "[ ]"
	title := StyleTitle.Render(t.Title)
	if t.Completed {
		check = StyleSuccess.Render("[✓]")
		title = StyleDone.Render(t.Title)
	}

	parts := []string{check, title}
	if badge := schedule.PeriodBadge(t); badge != "" {
		parts = append(parts, StyleBadge.Render(badge))
	}
	parts = append(parts, PriorityStyle(t.Priority).Render(Label(string(t.Priority))))
	parts = append(parts, StyleSubtle.Render(DateSpan(t)))

	status := StatusText(t, ref)
	switch {
	case schedule.IsOverdue(t, ref):
		parts = append(parts, StyleOverdue.Render(status))
	case schedule.IsDueSoon(t, ref):
		parts = append(parts, StyleDueSoon.Render(status))
	}
	parts = append(parts, StyleSubtle.Render("("+TruncateID(t.ID)+")"))
	return strings.Join(parts, " ")
}

// RenderTaskList writes a heading followed by one line per task.
func RenderTaskList(w io.Writer, heading string, tasks []models.Task, ref time.Time) {
	_, _ = fmt.Fprintln(w, StyleHeader.Render(fmt.Sprintf("%s (%d)", heading, len(tasks))))
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, StyleSubtle.Render("  No tasks."))
		return
	}
	for _, t := range tasks {
		_, _ = fmt.Fprintln(w, "  "+TaskLine(t, ref))
	}
}

// RenderTaskDetail writes every field of a task.
func RenderTaskDetail(w io.Writer, t models.Task, ref time.Time) {
	rows := [][2]string{
		{"ID", t.ID},
		{"Type", Label(string(t.TaskType))},
		{"Priority", Label(string(t.Priority))},
		{"Start", t.StartDate},
	}
	if t.IsPeriod() {
		rows = append(rows, [2]string{"End", t.EndDate})
	} else if t.DueDate != "" {
		rows = append(rows, [2]string{"Due", t.DueDate})
	}
	rows = append(rows, [2]string{"Status", StatusText(t, ref)})
	if t.UserID != "" {
		rows = append(rows, [2]string{"User", t.UserID})
	}
	if t.EstimatedDays > 0 {
		rows = append(rows, [2]string{"Estimate", fmt.Sprintf("%d day(s)", t.EstimatedDays)})
	}
	if len(t.Dependencies) > 0 {
		deps := make([]string, len(t.Dependencies))
		for i, d := range t.Dependencies {
			deps[i] = TruncateID(d)
		}
		rows = append(rows, [2]string{"Depends on", strings.Join(deps, ", ")})
	}

	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(StyleSubtle.Render(fmt.Sprintf("%-11s", r[0])) + r[1] + "\n")
	}
	if t.Description != "" {
		sb.WriteString("\n" + t.Description + "\n")
	}
	_, _ = fmt.Fprintln(w, RenderPanel(t.Title, strings.TrimRight(sb.String(), "\n"), ColorSecondary))
}

// RenderSummary writes the dashboard counters.
func RenderSummary(w io.Writer, s schedule.Summary, ref time.Time) {
	_, _ = fmt.Fprintln(w, StyleHeader.Render("Summary for "+models.FormatDay(ref)))
	line := func(label string, n int, style func(...string) string) {
		_, _ = fmt.Fprintf(w, "  %-14s %s\n", label, style(fmt.Sprint(n)))
	}
	line("Overdue", s.Overdue, StyleOverdue.Render)
	line("Due soon", s.DueSoon, StyleDueSoon.Render)
	line("Active period", s.ActivePeriod, StylePrimary.Render)
	line("Completed", s.Completed, StyleSuccess.Render)
}

// RenderBreakdown writes a proposed breakdown as a numbered list.
func RenderBreakdown(w io.Writer, original models.Task, r breakdown.Result) {
	source := "suggestion provider"
	if r.Source == breakdown.SourceFallback {
		source = "built-in template"
	}
	_, _ = fmt.Fprintln(w, StyleHeader.Render(fmt.Sprintf("Breakdown of %q", original.Title))+StyleSubtle.Render("via "+source))
	for i, s := range r.Subtasks {
		_, _ = fmt.Fprintf(w, "  %d. %s %s %s\n", i+1,
			StyleTitle.Render(s.Title),
			PriorityStyle(s.Priority).Render(Label(string(s.Priority))),
			StyleSubtle.Render(fmt.Sprintf("~%dd", s.EstimatedDays)))
		if s.Description != "" {
			_, _ = fmt.Fprintf(w, "     %s\n", StyleSubtle.Render(s.Description))
		}
		if len(s.Dependencies) > 0 {
			_, _ = fmt.Fprintf(w, "     %s\n", StyleSubtle.Render("after: "+strings.Join(s.Dependencies, ", ")))
		}
	}
	if len(r.Suggestions) > 0 {
		_, _ = fmt.Fprintln(w)
		RenderTips(w, "Suggestions", r.Suggestions)
	}
}

// RenderTips writes tips in a bordered box.
func RenderTips(w io.Writer, heading string, tips []string) {
	lines := make([]string, len(tips))
	for i, tip := range tips {
		lines[i] = "• " + tip
	}
	_, _ = fmt.Fprintln(w, StyleTipBox.Render(StyleSectionTitle.Render(heading)+"\n"+strings.Join(lines, "\n")))
}
