/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/config"
	"github.com/yukitake212/first-hackathon-product/internal/telemetry"
	"github.com/yukitake212/first-hackathon-product/internal/ui"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage anonymous usage telemetry",
	Long: `View and manage taskcal's anonymous telemetry settings.

Telemetry is off until you enable it and only counts commands and task
operations. Task titles, descriptions and user ids are never sent.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		consent, err := telemetry.Load(config.GetDataDir())
		if err != nil {
			return fmt.Errorf("failed to read telemetry status: %w", err)
		}
		out := cmd.OutOrStdout()
		if isJSON() {
			return printJSON(out, consent)
		}
		if consent.IsEnabled() {
			_, _ = fmt.Fprintln(out, "Telemetry: "+ui.StyleSuccess.Render("enabled"))
			_, _ = fmt.Fprintf(out, "   Anonymous ID: %s\n", consent.AnonymousID)
			_, _ = fmt.Fprintln(out, "   To disable: taskcal telemetry disable")
			return nil
		}
		_, _ = fmt.Fprintln(out, "Telemetry: "+ui.StyleSubtle.Render("disabled"))
		_, _ = fmt.Fprintln(out, "   To enable: taskcal telemetry enable")
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetryConsent(cmd, true)
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetryConsent(cmd, false)
	},
}

func setTelemetryConsent(cmd *cobra.Command, enabled bool) error {
	dataDir := config.GetDataDir()
	consent, err := telemetry.Load(dataDir)
	if err != nil {
		return fmt.Errorf("failed to read telemetry status: %w", err)
	}
	if enabled {
		consent.Enable()
	} else {
		consent.Disable()
	}
	if err := consent.Save(dataDir); err != nil {
		return fmt.Errorf("failed to save telemetry status: %w", err)
	}

	if isQuiet() {
		return nil
	}
	if enabled {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess.Render("✓ Telemetry enabled.")+" Thank you for helping improve taskcal!")
	} else {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess.Render("✓ Telemetry disabled."))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd)
	telemetryCmd.AddCommand(telemetryEnableCmd)
	telemetryCmd.AddCommand(telemetryDisableCmd)
}
