/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/models"
)

// dayCmd represents the day command
var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Show the tasks occurring on a day",
	Long: `Show the single tasks anchored to a day and the period tasks covering it.
The date defaults to today and also accepts "tomorrow" and "yesterday".`,
	Example: `  taskcal day
  taskcal day tomorrow
  taskcal day 2024-06-05 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			value := ""
			if len(args) > 0 {
				value = args[0]
			}
			d, err := parseDayFlag(tasks, value)
			if err != nil {
				return err
			}
			found, err := tasks.OnDate(ctx, "", d)
			if err != nil {
				return err
			}
			heading := d.Format("Monday, Jan 2 2006")
			if d.Equal(tasks.Today()) {
				heading = todayHeading(tasks)
			}
			return printTasks(cmd.OutOrStdout(), heading, found, tasks.Today())
		})
	},
}

// todayHeading is the heading shared by day and watch for the current day.
func todayHeading(tasks *app.TaskApp) string {
	return "Today, " + models.FormatDay(tasks.Today())
}

func init() {
	rootCmd.AddCommand(dayCmd)
}
