// Package logger sets up structured logging and crash reports for taskcal.
package logger

import (
	"io"
	"log/slog"
)

// New returns a text slog logger writing to w. Verbose enables debug records;
// otherwise only warnings and errors are shown so normal CLI output stays clean.
func New(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Init builds a logger with New and installs it as the slog default.
func Init(verbose bool, w io.Writer) *slog.Logger {
	l := New(verbose, w)
	slog.SetDefault(l)
	return l
}
