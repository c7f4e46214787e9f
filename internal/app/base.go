// Package app provides the application layer that orchestrates business logic.
// This layer sits between the CLI, HTTP and MCP handlers and the store and
// breakdown packages, so all three surfaces share one implementation.
package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/yukitake212/first-hackathon-product/internal/breakdown"
	"github.com/yukitake212/first-hackathon-product/internal/telemetry"
	"github.com/yukitake212/first-hackathon-product/store"
)

// Context holds shared dependencies for all app services.
type Context struct {
	Store     store.TaskStore
	Breakdown *breakdown.Orchestrator
	Telemetry telemetry.Client
	Logger    *slog.Logger

	// DefaultUser is applied to new tasks and listings that name no user.
	DefaultUser string

	// Now is "today" for the classification queries.
	Now func() time.Time
}

// NewContext creates an app context. A nil orchestrator gets one without a
// provider, so breakdowns use the fallback template.
func NewContext(s store.TaskStore, o *breakdown.Orchestrator) *Context {
	if o == nil {
		o = breakdown.New(nil)
	}
	return &Context{
		Store:     s,
		Breakdown: o,
		Telemetry: telemetry.NoopClient{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       time.Now,
	}
}

func (c *Context) today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now()
}

func (c *Context) track(event string, props telemetry.Properties) {
	if c.Telemetry != nil {
		c.Telemetry.Track(event, props)
	}
}
