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
	"github.com/yukitake212/first-hackathon-product/store"
)

// calendarCmd represents the calendar command
var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Browse tasks in an interactive month view",
	Long: `Open a full-screen month view. Days with tasks are marked (red when one
of them is overdue) and the tasks of the selected day are listed below the grid.
Press ? for the keys.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsInteractive() {
			return fmt.Errorf("calendar needs an interactive terminal; use 'taskcal day' or 'taskcal range' instead")
		}
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			all, err := tasks.List(ctx, store.Filter{})
			if err != nil {
				return err
			}
			return ui.RunCalendar(all, tasks.Today())
		})
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
}
