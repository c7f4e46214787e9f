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

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task permanently. You are asked to confirm unless --yes is given;
without a terminal to ask on, --yes is required.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			t, err := resolveTask(ctx, tasks, args, "Select a task to delete")
			if err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && !confirm(fmt.Sprintf("Delete %q", t.Title)) {
				if !ui.IsInteractive() {
					return fmt.Errorf("refusing to delete %s without confirmation; pass --yes", t.ID)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := tasks.Delete(ctx, t.ID); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case isJSON():
				return printJSON(out, map[string]string{"deleted": t.ID})
			case isQuiet():
				_, _ = fmt.Fprintln(out, t.ID)
			default:
				_, _ = fmt.Fprintln(out, ui.StyleSuccess.Render("✓ Deleted ")+t.Title)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolP("yes", "y", false, "delete without asking")
}
