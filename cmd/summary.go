/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/ui"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count overdue, due soon, active period and completed tasks",
	Long: `Show the dashboard counters. A task can count in more than one category:
a deadline today is both due soon and, tomorrow, overdue.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			dateStr, _ := cmd.Flags().GetString("date")
			ref, err := parseDayFlag(tasks, dateStr)
			if err != nil {
				return err
			}
			s, err := tasks.SummaryAt(ctx, "", ref)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), s)
			}
			ui.RenderSummary(cmd.OutOrStdout(), s, ref)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().String("date", "", "reference day (default today)")
}
