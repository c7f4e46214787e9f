/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/schedule"
	"github.com/yukitake212/first-hackathon-product/models"
)

// rangeCmd represents the range command
var rangeCmd = &cobra.Command{
	Use:   "range <from> <to>",
	Short: "Show the period tasks overlapping a date range",
	Long: `Show the period tasks whose span shares at least one day with the closed
range. The bounds may be given in either order.`,
	Example: `  taskcal range 2024-06-01 2024-06-30`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			from, err := parseDayFlag(tasks, args[0])
			if err != nil {
				return err
			}
			to, err := parseDayFlag(tasks, args[1])
			if err != nil {
				return err
			}
			from, to = schedule.NormalizeRange(from, to)
			found, err := tasks.InRange(ctx, "", from, to)
			if err != nil {
				return err
			}
			heading := fmt.Sprintf("Periods %s to %s", models.FormatDay(from), models.FormatDay(to))
			return printTasks(cmd.OutOrStdout(), heading, found, tasks.Today())
		})
	},
}

func init() {
	rootCmd.AddCommand(rangeCmd)
}
