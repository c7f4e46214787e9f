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

// tipsCmd represents the tips command
var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Get scheduling advice for your open tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			var spin *ui.Spinner
			if tasks.Context().Breakdown.HasProvider() && ui.IsInteractive() && !isJSON() {
				spin = ui.NewSpinner(cmd.ErrOrStderr(), "Thinking about your schedule...")
				spin.Start()
			}
			tips, err := tasks.Tips(ctx, "")
			if spin != nil {
				spin.Stop()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case isJSON():
				return printJSON(out, map[string][]string{"tips": tips})
			case isQuiet():
				for _, tip := range tips {
					_, _ = fmt.Fprintln(out, tip)
				}
				return nil
			}
			ui.RenderTips(out, "Schedule tips", tips)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(tipsCmd)
}
