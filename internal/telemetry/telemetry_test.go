package telemetry

import (
	"os"
	"runtime"
	"sync"
	"testing"

	"github.com/posthog/posthog-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEnqueuer captures events for testing.
type mockEnqueuer struct {
	mu     sync.Mutex
	events []posthog.Capture
	closed bool
}

func (m *mockEnqueuer) Enqueue(msg posthog.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if capture, ok := msg.(posthog.Capture); ok {
		m.events = append(m.events, capture)
	}
	return nil
}

func (m *mockEnqueuer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func TestPostHogClient_Track(t *testing.T) {
	cfg := &Config{Enabled: true, ConsentAsked: true, AnonymousID: "anon-123"}
	mock := &mockEnqueuer{}
	client := newPostHogClient(mock, cfg, "1.2.3")

	client.Track(EventBreakdownRequested, Properties{"source": "fallback"})

	require.Len(t, mock.events, 1)
	ev := mock.events[0]
	assert.Equal(t, "anon-123", ev.DistinctId)
	assert.Equal(t, EventBreakdownRequested, ev.Event)
	assert.Equal(t, "fallback", ev.Properties["source"])
	assert.Equal(t, runtime.GOOS, ev.Properties["os"])
	assert.Equal(t, "1.2.3", ev.Properties["cli_version"])
	assert.Equal(t, false, ev.Properties["$process_person_profile"])
}

func TestPostHogClient_DisabledOrClosed(t *testing.T) {
	mock := &mockEnqueuer{}
	cfg := &Config{Enabled: false, AnonymousID: "anon"}
	client := newPostHogClient(mock, cfg, "dev")

	client.Track(EventTaskCreated, nil)
	assert.Empty(t, mock.events, "disabled config sends nothing")

	cfg.Enable()
	require.NoError(t, client.Close())
	assert.True(t, mock.closed)
	client.Track(EventTaskCreated, nil)
	assert.Empty(t, mock.events, "closed client sends nothing")
	require.NoError(t, client.Close(), "double close is fine")
}

func TestNew_ReturnsNoopWithoutConsentOrKey(t *testing.T) {
	enabled := &Config{Enabled: true, AnonymousID: "a"}
	disabled := &Config{AnonymousID: "a"}

	c, err := New(enabled, Options{})
	require.NoError(t, err)
	assert.IsType(t, NoopClient{}, c)

	c, err = New(disabled, Options{APIKey: "phc_test"})
	require.NoError(t, err)
	assert.IsType(t, NoopClient{}, c)

	c, err = New(nil, Options{APIKey: "phc_test"})
	require.NoError(t, err)
	assert.IsType(t, NoopClient{}, c)
}

func TestNew_ForceEnabled(t *testing.T) {
	consent := &Config{AnonymousID: "a"}
	c, err := New(consent, Options{APIKey: "phc_test", Endpoint: "http://127.0.0.1:1", ForceEnabled: true})
	require.NoError(t, err)
	assert.IsType(t, &PostHogClient{}, c)
	assert.False(t, consent.Enabled, "the stored consent is not modified")
	_ = c.Close()
}

func TestConfig_LoadSave(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.NeedsConsent())
	assert.NotEmpty(t, cfg.AnonymousID)

	cfg.Enable()
	require.NoError(t, cfg.Save(dir))

	info, err := os.Stat(ConfigPath(dir))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, again.IsEnabled())
	assert.False(t, again.NeedsConsent())
	assert.Equal(t, cfg.AnonymousID, again.AnonymousID, "the anonymous id is stable")

	again.Disable()
	assert.False(t, again.IsEnabled())
	assert.False(t, again.NeedsConsent())
}

func TestConfig_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte("{not json"), 0o600))
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestNoopClient(t *testing.T) {
	var c Client = NoopClient{}
	c.Track(EventTaskDeleted, Properties{"x": 1})
	assert.NoError(t, c.Close())
}
