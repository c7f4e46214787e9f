package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client is the interface for telemetry clients.
type Client interface {
	// Track queues an event and returns immediately. No-op when disabled.
	Track(event string, properties Properties)

	// Close flushes pending events.
	Close() error
}

// Properties are event properties.
type Properties = map[string]any

// Event names.
const (
	EventTaskCreated        = "task_created"
	EventTaskUpdated        = "task_updated"
	EventTaskDeleted        = "task_deleted"
	EventBreakdownRequested = "breakdown_requested"
	EventBreakdownApplied   = "breakdown_applied"
	EventCommandExecuted    = "command_executed"
)

// enqueuer is the part of the PostHog client we use.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient wraps the PostHog SDK.
type PostHogClient struct {
	mu      sync.Mutex
	client  enqueuer
	config  *Config
	version string
	closed  bool
}

// Options configures New.
type Options struct {
	APIKey   string
	Endpoint string // self-hosted PostHog; empty uses the cloud default
	Version  string
	// ForceEnabled turns telemetry on regardless of the consent file (telemetry.enabled).
	ForceEnabled bool
}

// New returns a PostHog-backed client when telemetry is enabled and keyed, and a
// NoopClient otherwise.
func New(consent *Config, opts Options) (Client, error) {
	if opts.APIKey == "" || consent == nil {
		return NoopClient{}, nil
	}
	if opts.ForceEnabled && !consent.Enabled {
		c := *consent
		c.Enabled = true
		consent = &c
	}
	if !consent.IsEnabled() {
		return NoopClient{}, nil
	}

	phConfig := posthog.Config{
		// CLI sessions send a handful of events and exit quickly.
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    quietLogger{},
	}
	if opts.Endpoint != "" {
		phConfig.Endpoint = opts.Endpoint
	}
	client, err := posthog.NewWithConfig(opts.APIKey, phConfig)
	if err != nil {
		return nil, err
	}
	return newPostHogClient(client, consent, opts.Version), nil
}

func newPostHogClient(enq enqueuer, cfg *Config, version string) *PostHogClient {
	return &PostHogClient{client: enq, config: cfg, version: version}
}

// Track queues event with the standard os/arch/version properties.
func (c *PostHogClient) Track(event string, properties Properties) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.config.IsEnabled() {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("cli_version", c.version)
	// Anonymous events only: no person profiles.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.config.AnonymousID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes the queue. Later Track calls are dropped.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// NoopClient is a telemetry client that does nothing.
type NoopClient struct{}

// Track is a no-op.
func (NoopClient) Track(string, Properties) {}

// Close is a no-op.
func (NoopClient) Close() error { return nil }

// quietLogger keeps PostHog transport warnings out of CLI output.
type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
