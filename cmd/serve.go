/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task calendar as a JSON HTTP API",
	Long: `Start the HTTP API on server.port (default 8080). Browser clients on the
origins listed in server.allowedOrigins may call it cross-origin.
Stop with Ctrl+C; in-flight requests are allowed to finish.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			cfg, err := GetConfig()
			if err != nil {
				return err
			}
			port := cfg.Server.Port
			if cmd.Flags().Changed("port") {
				port, _ = cmd.Flags().GetInt("port")
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(tasks, server.Options{
				Port:           port,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Logger:         slog.Default(),
			})
			if !isQuiet() {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Serving the task API on %s (Ctrl+C to stop)\n", srv.Addr())
			}
			return srv.Run(ctx, nil)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", server.DefaultPort, "port to listen on (overrides server.port)")
}
