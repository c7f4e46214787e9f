/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yukitake212/first-hackathon-product/internal/config"
	"github.com/yukitake212/first-hackathon-product/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// ErrNoTasksFound is returned when an interactive selection is attempted but no tasks are available.
	ErrNoTasksFound = errors.New("no tasks found matching your criteria")
	// version is the application version, overridden at build time.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskcal",
	Short: "taskcal keeps a calendar of single-day and period tasks.",
	Long: `taskcal is a task calendar for the command line.

Tasks are either anchored to one day (single) or span a range of days (period).
taskcal answers what is on a given day, what is overdue or due soon, and which
periods are in progress, and can break a task down into smaller ones with an
LLM suggestion provider or a built-in template.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(isVerbose(), cmd.ErrOrStderr())
		logger.SetBasePath(config.GetDataDir())
		logger.SetVersion(version)
		logger.SetCommand(strings.TrimSpace(cmd.CommandPath() + " " + strings.Join(args, " ")))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// GetVersion returns the build version.
func GetVersion() string { return version }

func init() {
	cobra.OnInitialize(InitConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.taskcal/config.yaml or $HOME/.taskcal/config.yaml)")
	flags.BoolP("verbose", "v", false, "enable verbose output")
	flags.Bool("json", false, "print machine-readable JSON")
	flags.BoolP("quiet", "q", false, "print only essential output")
	flags.StringP("user", "u", "", "owner of the tasks to show or create (default user.id)")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("json", flags.Lookup("json"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("user.id", flags.Lookup("user"))
}
