/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yukitake212/first-hackathon-product/internal/config"
	"github.com/yukitake212/first-hackathon-product/internal/llm"
	"github.com/yukitake212/first-hackathon-product/internal/ui"
)

// configSections are the top-level keys 'config set' accepts.
var configSections = []string{"data", "user", "llm", "prompts", "server", "telemetry"}

// configCmd is the parent config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage taskcal configuration",
	Long: `View and change taskcal settings.

Settings are read from --config, ./.taskcal/config.yaml or
~/.taskcal/config.yaml (first found), then TASKCAL_* environment variables
(TASKCAL_LLM_PROVIDER for llm.provider). 'config set' writes the global file.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write one setting to the global config file",
	Example: `  taskcal config set user.id alice
  taskcal config set data.backend sqlite
  taskcal config set llm.requestTimeoutSeconds 45`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.TrimSpace(args[0])
		section, _, _ := strings.Cut(key, ".")
		known := false
		for _, s := range configSections {
			if s == section {
				known = true
				break
			}
		}
		if !known || !strings.Contains(key, ".") {
			return fmt.Errorf("unknown config key %q (keys start with one of: %s)", key, strings.Join(configSections, ", "))
		}

		if err := config.SaveGlobalSetting(key, parseConfigValue(args[1])); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		if !isQuiet() {
			path, _ := config.GlobalConfigFile()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s (%s)\n", ui.StyleSuccess.Render("✓"), key, args[1], path)
		}
		return nil
	},
}

// parseConfigValue stores booleans and integers with their YAML types.
func parseConfigValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

var configLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Choose the suggestion provider used for breakdowns and tips",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsInteractive() {
			return fmt.Errorf("config llm needs an interactive terminal; use 'taskcal config set llm.provider <name>' instead")
		}
		selection, err := ui.PromptLLMSelection()
		if err != nil {
			return err
		}
		key := ""
		if selection.NeedsKey {
			if key, err = ui.PromptAPIKey(string(selection.Provider)); err != nil {
				return err
			}
		}
		if err := config.SaveGlobalLLMConfig(string(selection.Provider), selection.Model, key); err != nil {
			return fmt.Errorf("save llm config: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Using %s (%s)\n", ui.StyleSuccess.Render("✓"), ui.Label(string(selection.Provider)), selection.Model)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		shown := *cfg
		shown.LLM.APIKey = redact(shown.LLM.APIKey)
		shown.Telemetry.APIKey = redact(shown.Telemetry.APIKey)
		shown.Data.Dir = config.GetDataDir()

		if isJSON() {
			return printJSON(cmd.OutOrStdout(), shown)
		}
		llmCfg, llmErr := config.LoadLLMConfig()
		rows := [][2]string{
			{"config file", orNone(viper.ConfigFileUsed())},
			{"data.dir", shown.Data.Dir},
			{"data.backend", shown.Data.Backend},
			{"data.file", shown.Data.File},
			{"data.format", shown.Data.Format},
			{"user.id", orNone(shown.User.ID)},
			{"server.port", strconv.Itoa(shown.Server.Port)},
			{"telemetry.enabled", strconv.FormatBool(shown.Telemetry.Enabled)},
		}
		if llmErr == nil {
			keyState := "set"
			if llmCfg.APIKey == "" && llmCfg.Provider != llm.ProviderOllama {
				keyState = "missing (built-in breakdowns)"
			}
			rows = append(rows,
				[2]string{"llm.provider", string(llmCfg.Provider)},
				[2]string{"llm.model", llmCfg.Model},
				[2]string{"llm api key", keyState},
			)
		} else {
			rows = append(rows, [2]string{"llm", llmErr.Error()})
		}
		rows = append(rows, [2]string{"llm.requestTimeout", config.RequestTimeout().String()})

		out := cmd.OutOrStdout()
		for _, r := range rows {
			_, _ = fmt.Fprintf(out, "%s %s\n", ui.StyleSubtle.Render(fmt.Sprintf("%-20s", r[0])), r[1])
		}
		return nil
	},
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configLLMCmd)
	configCmd.AddCommand(configShowCmd)
}
