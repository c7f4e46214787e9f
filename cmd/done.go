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
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:     "done [id]",
	Aliases: []string{"toggle"},
	Short:   "Toggle a task between done and not done",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			t, err := resolveTask(ctx, tasks, args, "Select a task to mark")
			if err != nil {
				return err
			}
			toggled, err := tasks.Toggle(ctx, t.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case isJSON():
				return printJSON(out, toggled)
			case isQuiet():
				_, _ = fmt.Fprintln(out, toggled.ID)
			case toggled.Completed:
				_, _ = fmt.Fprintln(out, ui.StyleSuccess.Render("✓ Done ")+ui.TaskLine(toggled, tasks.Today()))
			default:
				_, _ = fmt.Fprintln(out, ui.StyleWarning.Render("↺ Reopened ")+ui.TaskLine(toggled, tasks.Today()))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
