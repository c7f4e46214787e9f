/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
)

// overdueCmd represents the overdue command
var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Show unfinished tasks whose deadline has passed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			found, err := tasks.Overdue(ctx, "")
			if err != nil {
				return err
			}
			return printTasks(cmd.OutOrStdout(), "Overdue", found, tasks.Today())
		})
	},
}

func init() {
	rootCmd.AddCommand(overdueCmd)
}
