/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/ui"
	"github.com/yukitake212/first-hackathon-product/models"
	"github.com/yukitake212/first-hackathon-product/store"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, newest first.

Filters combine: --date keeps tasks occurring on that day, --from/--to keep
period tasks overlapping the range, --overdue keeps unfinished tasks whose
deadline has passed (earliest deadline first).`,
	Example: `  taskcal list
  taskcal list --type period --from 2024-06-01 --to 2024-06-30
  taskcal list --overdue --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			filter, err := filterFromListFlags(cmd, tasks)
			if err != nil {
				return err
			}
			found, err := tasks.List(ctx, filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case isJSON():
				return printJSON(out, models.TaskList{Tasks: found, TotalCount: len(found)})
			case isQuiet():
				for _, t := range found {
					_, _ = fmt.Fprintln(out, t.ID)
				}
				return nil
			case len(found) == 0:
				_, _ = fmt.Fprintln(out, ui.StyleSubtle.Render("No tasks found."))
				return nil
			}
			table := ui.TaskTable(found, tasks.Today())
			table.MaxWidth = max(20, ui.TerminalWidth(120)/3)
			_, _ = fmt.Fprint(out, table.Render())
			_, _ = fmt.Fprintln(out, ui.StyleSubtle.Render(fmt.Sprintf("%d task(s)", len(found))))
			return nil
		})
	},
}

func filterFromListFlags(cmd *cobra.Command, tasks *app.TaskApp) (store.Filter, error) {
	flags := cmd.Flags()
	var filter store.Filter

	if typeStr, _ := flags.GetString("type"); typeStr != "" {
		tt, ok := models.ParseTaskType(typeStr)
		if !ok {
			return filter, &models.ValidationError{Field: "type", Rule: "oneof", Msg: fmt.Sprintf("unknown task type %q (want single or period)", typeStr)}
		}
		filter.TaskType = tt
	}
	if dateStr, _ := flags.GetString("date"); dateStr != "" {
		d, err := parseDayFlag(tasks, dateStr)
		if err != nil {
			return filter, err
		}
		filter.Date = &d
	}

	fromStr, _ := flags.GetString("from")
	toStr, _ := flags.GetString("to")
	if (fromStr == "") != (toStr == "") {
		return filter, &models.ValidationError{Field: "range", Rule: "required", Msg: "--from and --to must be given together"}
	}
	if fromStr != "" {
		from, err := parseDayFlag(tasks, fromStr)
		if err != nil {
			return filter, err
		}
		to, err := parseDayFlag(tasks, toStr)
		if err != nil {
			return filter, err
		}
		filter.From, filter.To = &from, &to
	}

	filter.OnlyOverdue, _ = flags.GetBool("overdue")
	return filter, nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("type", "t", "", "only tasks of this type: single or period")
	listCmd.Flags().String("date", "", "only tasks occurring on this day")
	listCmd.Flags().String("from", "", "start of a period range (with --to)")
	listCmd.Flags().String("to", "", "end of a period range (with --from)")
	listCmd.Flags().Bool("overdue", false, "only overdue tasks")
}
