/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/logger"
	"github.com/yukitake212/first-hackathon-product/internal/ui"
	"github.com/yukitake212/first-hackathon-product/models"
)

// breakdownCmd represents the breakdown command
var breakdownCmd = &cobra.Command{
	Use:     "breakdown [id]",
	Aliases: []string{"split"},
	Short:   "Split a task into smaller tasks",
	Long: `Propose subtasks for a task and, once accepted, replace the task with them.

The proposal comes from the configured suggestion provider (see 'taskcal config
llm'); without one, or when it fails or times out, a built-in plan/execute/verify
template is used. The original task is removed and the subtasks are stored as
ordinary single tasks in one step.

With --schedule each subtask gets a deadline: the start day plus the running
total of the estimates. A period task's end date is kept as every subtask's
deadline otherwise.`,
	Example: `  taskcal breakdown 3f2a
  taskcal breakdown 3f2a --apply --schedule
  taskcal breakdown 3f2a --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			t, err := resolveTask(ctx, tasks, args, "Select a task to break down")
			if err != nil {
				return err
			}
			logger.SetLastTask(t.Title)

			preview, err := previewBreakdown(ctx, cmd, tasks, t.ID)
			if err != nil {
				return err
			}

			apply, _ := cmd.Flags().GetBool("apply")
			schedule, _ := cmd.Flags().GetBool("schedule")
			out := cmd.OutOrStdout()

			if isJSON() && !apply {
				return printJSON(out, preview)
			}
			if !isJSON() && !isQuiet() {
				ui.RenderBreakdown(out, preview.Task, preview.Result)
				_, _ = fmt.Fprintln(out)
			}
			if !apply && !confirm("Replace the task with these subtasks") {
				if !isQuiet() {
					_, _ = fmt.Fprintln(out, ui.StyleSubtle.Render("Not applied. Run again with --apply to store it."))
				}
				return nil
			}

			created, err := tasks.ApplyBreakdown(ctx, t.ID, app.ApplyOptions{
				Result:           &preview.Result,
				EstimateSchedule: schedule,
			})
			if err != nil {
				return err
			}
			return printApplied(cmd, tasks, created)
		})
	},
}

// previewBreakdown requests a breakdown, showing a spinner while a provider is working.
func previewBreakdown(ctx context.Context, cmd *cobra.Command, tasks *app.TaskApp, id string) (*app.BreakdownPreview, error) {
	if tasks.Context().Breakdown.HasProvider() && ui.IsInteractive() && !isJSON() && !isQuiet() {
		spin := ui.NewSpinner(cmd.ErrOrStderr(), "Asking for a breakdown...")
		spin.Start()
		defer spin.Stop()
	}
	return tasks.Breakdown(ctx, id)
}

func printApplied(cmd *cobra.Command, tasks *app.TaskApp, created []models.Task) error {
	out := cmd.OutOrStdout()
	switch {
	case isJSON():
		return printJSON(out, models.TaskList{Tasks: created, TotalCount: len(created)})
	case isQuiet():
		for _, t := range created {
			_, _ = fmt.Fprintln(out, t.ID)
		}
		return nil
	}
	ui.RenderTaskList(out, "Created", created, tasks.Today())
	return nil
}

func init() {
	rootCmd.AddCommand(breakdownCmd)
	breakdownCmd.Flags().Bool("apply", false, "store the breakdown without asking")
	breakdownCmd.Flags().Bool("schedule", false, "give subtasks consecutive deadlines from their estimates")
}
