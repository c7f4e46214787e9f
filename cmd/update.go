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

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change fields of a task",
	Long: `Change only the fields given as flags. Pass an empty string to --due or
--end to clear that date. Changing the type re-applies the single/period rule:
a single task drops its end date and a period task drops its deadline.`,
	Example: `  taskcal update 3f2a --priority high
  taskcal update 3f2a --type period --end 2024-06-20
  taskcal update 3f2a --due ""`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			t, err := resolveTask(ctx, tasks, args, "Select a task to update")
			if err != nil {
				return err
			}
			patch, err := patchFromUpdateFlags(cmd, tasks)
			if err != nil {
				return err
			}
			updated, err := tasks.Update(ctx, t.ID, patch)
			if err != nil {
				return err
			}
			logger.SetLastTask(updated.Title)

			out := cmd.OutOrStdout()
			switch {
			case isJSON():
				return printJSON(out, updated)
			case isQuiet():
				_, _ = fmt.Fprintln(out, updated.ID)
			default:
				_, _ = fmt.Fprintln(out, ui.StyleSuccess.Render("✓ Updated ")+ui.TaskLine(updated, tasks.Today()))
			}
			return nil
		})
	},
}

func patchFromUpdateFlags(cmd *cobra.Command, tasks *app.TaskApp) (models.TaskPatch, error) {
	flags := cmd.Flags()
	var patch models.TaskPatch

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		patch.Title = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		patch.Description = &v
	}
	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		tt, ok := models.ParseTaskType(v)
		if !ok {
			return patch, &models.ValidationError{Field: "taskType", Rule: "oneof", Msg: fmt.Sprintf("unknown task type %q (want single or period)", v)}
		}
		patch.TaskType = &tt
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		p, ok := models.ParsePriority(v)
		if !ok {
			return patch, &models.ValidationError{Field: "priority", Rule: "oneof", Msg: fmt.Sprintf("unknown priority %q (want low, medium or high)", v)}
		}
		patch.Priority = &p
	}

	dates := []struct {
		flag   string
		target **string
	}{
		{"start", &patch.StartDate},
		{"due", &patch.DueDate},
		{"end", &patch.EndDate},
	}
	for _, d := range dates {
		if !flags.Changed(d.flag) {
			continue
		}
		v, _ := flags.GetString(d.flag)
		day, err := parseOptionalDay(tasks, v)
		if err != nil {
			return patch, err
		}
		*d.target = &day
	}
	return patch, nil
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().String("title", "", "new title")
	updateCmd.Flags().String("description", "", "new description")
	updateCmd.Flags().StringP("type", "t", "", "new task type: single or period")
	updateCmd.Flags().StringP("priority", "p", "", "new priority: low, medium or high")
	updateCmd.Flags().StringP("start", "s", "", "new start day")
	updateCmd.Flags().StringP("due", "d", "", "new deadline; empty clears it")
	updateCmd.Flags().StringP("end", "e", "", "new last day of a period; empty clears it")
}
