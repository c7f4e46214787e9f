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

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one task in detail",
	Long:  `Show every field of a task. The id may be shortened to any unique prefix.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			t, err := resolveTask(ctx, tasks, args, "Select a task to show")
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), t)
			}
			ui.RenderTaskDetail(cmd.OutOrStdout(), t, tasks.Today())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
