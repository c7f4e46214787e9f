/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/ui"
	"github.com/yukitake212/first-hackathon-product/store"
)

// watchDebounce coalesces the write, rename and checksum events of one save.
const watchDebounce = 250 * time.Millisecond

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep today's tasks on screen, refreshing when they change",
	Long: `Show today's tasks and the summary counters, and redraw them whenever the
task file is changed by another taskcal process (or the day rolls over).
Needs the file or sqlite backend. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			fb, ok := tasks.Context().Store.(store.FileBacked)
			if !ok || fb.Path() == "" {
				return fmt.Errorf("watch needs the file or sqlite backend")
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			redraw := ui.IsInteractive() && !isJSON()
			render := func() {
				if err := renderToday(ctx, out, tasks, redraw); err != nil {
					slog.Warn("refresh failed", "error", err)
				}
			}
			render()
			return watchFile(ctx, fb.Path(), watchDebounce, render)
		})
	},
}

func renderToday(ctx context.Context, w io.Writer, tasks *app.TaskApp, redraw bool) error {
	today := tasks.Today()
	found, err := tasks.OnDate(ctx, "", today)
	if err != nil {
		return err
	}
	summary, err := tasks.Summary(ctx, "")
	if err != nil {
		return err
	}
	if isJSON() {
		return printJSON(w, map[string]any{"date": today.Format("2006-01-02"), "tasks": found, "summary": summary})
	}
	if redraw {
		_, _ = fmt.Fprint(w, "\033[H\033[2J")
	}
	ui.RenderTaskList(w, todayHeading(tasks), found, today)
	_, _ = fmt.Fprintln(w)
	ui.RenderSummary(w, summary, today)
	if redraw {
		_, _ = fmt.Fprintln(w, ui.StyleSubtle.Render("\nWatching for changes. Ctrl+C to stop."))
	}
	return nil
}

// watchFile calls onChange after path is written, created, renamed or removed,
// at most once per debounce interval, and once a minute so a new day shows up.
// The parent directory is watched because saves replace the file by rename.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	name := filepath.Base(path)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-timer.C:
			onChange()
		case <-tick.C:
			onChange()
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
