package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/ui"
	"github.com/yukitake212/first-hackathon-product/models"
	"github.com/yukitake212/first-hackathon-product/store"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isQuiet() bool {
	return viper.GetBool("quiet")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func currentUser() string {
	return strings.TrimSpace(viper.GetString("user.id"))
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// printTasks writes tasks as a JSON TaskList or a styled list.
func printTasks(w io.Writer, heading string, tasks []models.Task, ref time.Time) error {
	if isJSON() {
		return printJSON(w, models.TaskList{Tasks: tasks, TotalCount: len(tasks)})
	}
	ui.RenderTaskList(w, heading, tasks, ref)
	return nil
}

// parseDayFlag resolves a day argument relative to the app's today.
func parseDayFlag(tasks *app.TaskApp, value string) (time.Time, error) {
	return models.ResolveDay(value, tasks.Today())
}

// parseOptionalDay canonicalizes an optional date flag; empty stays empty.
func parseOptionalDay(tasks *app.TaskApp, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	d, err := parseDayFlag(tasks, value)
	if err != nil {
		return "", err
	}
	return models.FormatDay(d), nil
}

// resolveTask finds the task named by args[0]: an exact id, or a unique id
// prefix with or without the "task-" prefix. Without an argument it asks the
// user to pick one when the terminal is interactive.
func resolveTask(ctx context.Context, tasks *app.TaskApp, args []string, label string) (models.Task, error) {
	if len(args) == 0 {
		if !ui.IsInteractive() || isJSON() {
			return models.Task{}, fmt.Errorf("a task id is required")
		}
		all, err := tasks.List(ctx, store.Filter{})
		if err != nil {
			return models.Task{}, fmt.Errorf("list tasks for selection: %w", err)
		}
		return selectTaskInteractive(all, label)
	}

	id := strings.TrimSpace(args[0])
	t, err := tasks.Get(ctx, id)
	if err == nil || !models.IsNotFound(err) {
		return t, err
	}

	all, listErr := tasks.List(ctx, store.Filter{})
	if listErr != nil {
		return models.Task{}, err
	}
	prefix := strings.TrimPrefix(id, "task-")
	var matches []models.Task
	for _, candidate := range all {
		if strings.HasPrefix(strings.TrimPrefix(candidate.ID, "task-"), prefix) {
			matches = append(matches, candidate)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, err
	case 1:
		return matches[0], nil
	}
	return models.Task{}, fmt.Errorf("id %q is ambiguous: matches %d tasks", id, len(matches))
}

// selectTaskInteractive presents a prompt to the user to select a task from a list.
func selectTaskInteractive(tasks []models.Task, label string) (models.Task, error) {
	if len(tasks) == 0 {
		return models.Task{}, ErrNoTasksFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Title | cyan }} ({{ .TaskType }}, {{ .StartDate }})`,
		Inactive: `  {{ .Title | faint }} ({{ .TaskType }}, {{ .StartDate }})`,
		Selected: `{{ "✔" | green }} {{ .Title | faint }}`,
		Details: `
--------- Task ----------
{{ "ID:\t" | faint }} {{ .ID }}
{{ "Start:\t" | faint }} {{ .StartDate }}
{{ "Due:\t" | faint }} {{ .DueDate }}
{{ "End:\t" | faint }} {{ .EndDate }}
{{ "Priority:\t" | faint }} {{ .Priority }}`,
	}

	searcher := func(input string, index int) bool {
		t := tasks[index]
		input = strings.ToLower(input)
		return strings.Contains(strings.ToLower(t.Title), input) || strings.Contains(t.ID, input)
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Searcher:  searcher,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return models.Task{}, err
	}
	return tasks[i], nil
}

// confirm asks a yes/no question. It answers no without asking when the
// terminal is not interactive.
func confirm(label string) bool {
	if !ui.IsInteractive() {
		return false
	}
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := prompt.Run()
	return err == nil
}
