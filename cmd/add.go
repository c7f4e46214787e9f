/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/logger"
	"github.com/yukitake212/first-hackathon-product/internal/ui"
	"github.com/yukitake212/first-hackathon-product/models"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Long: `Add a single-day or period task.

A single task is anchored to its start day (today unless --start is given) and
may carry a deadline with --due. A period task spans --start to --end inclusive;
giving --end without --type makes the task a period.`,
	Example: `  taskcal add "Dentist" --start tomorrow
  taskcal add "Write report" --due 2024-06-12 --priority high
  taskcal add "Conference" --start 2024-06-10 --end 2024-06-12`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			task, err := taskFromAddFlags(cmd, tasks, strings.Join(args, " "))
			if err != nil {
				return err
			}
			created, err := tasks.Add(ctx, task)
			if err != nil {
				return err
			}
			logger.SetLastTask(created.Title)

			out := cmd.OutOrStdout()
			switch {
			case isJSON():
				return printJSON(out, created)
			case isQuiet():
				_, _ = fmt.Fprintln(out, created.ID)
			default:
				_, _ = fmt.Fprintln(out, ui.StyleSuccess.Render("✓ Added ")+ui.TaskLine(created, tasks.Today()))
			}
			return nil
		})
	},
}

func taskFromAddFlags(cmd *cobra.Command, tasks *app.TaskApp, title string) (models.Task, error) {
	flags := cmd.Flags()
	typeStr, _ := flags.GetString("type")
	startStr, _ := flags.GetString("start")
	dueStr, _ := flags.GetString("due")
	endStr, _ := flags.GetString("end")
	priorityStr, _ := flags.GetString("priority")
	description, _ := flags.GetString("description")

	task := models.Task{Title: title, Description: description}

	if typeStr != "" {
		tt, ok := models.ParseTaskType(typeStr)
		if !ok {
			return models.Task{}, &models.ValidationError{Field: "taskType", Rule: "oneof", Msg: fmt.Sprintf("unknown task type %q (want single or period)", typeStr)}
		}
		task.TaskType = tt
	}
	if priorityStr != "" {
		p, ok := models.ParsePriority(priorityStr)
		if !ok {
			return models.Task{}, &models.ValidationError{Field: "priority", Rule: "oneof", Msg: fmt.Sprintf("unknown priority %q (want low, medium or high)", priorityStr)}
		}
		task.Priority = p
	}

	start, err := parseDayFlag(tasks, startStr)
	if err != nil {
		return models.Task{}, err
	}
	task.StartDate = models.FormatDay(start)

	if task.DueDate, err = parseOptionalDay(tasks, dueStr); err != nil {
		return models.Task{}, err
	}
	if task.EndDate, err = parseOptionalDay(tasks, endStr); err != nil {
		return models.Task{}, err
	}
	if task.TaskType == "" && task.EndDate != "" {
		task.TaskType = models.TypePeriod
	}
	if task.TaskType == models.TypePeriod && task.DueDate != "" {
		return models.Task{}, &models.ValidationError{Field: "dueDate", Rule: "excluded_with", Msg: "--due cannot be combined with a period task; use --end"}
	}
	return task, nil
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("type", "t", "", "task type: single or period")
	addCmd.Flags().StringP("start", "s", "", "start day (YYYY-MM-DD, today, tomorrow); defaults to today")
	addCmd.Flags().StringP("due", "d", "", "deadline of a single task")
	addCmd.Flags().StringP("end", "e", "", "last day of a period task")
	addCmd.Flags().StringP("priority", "p", "", "priority: low, medium or high (default medium)")
	addCmd.Flags().String("description", "", "longer description")
}
