package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	"github.com/yukitake212/first-hackathon-product/internal/breakdown"
	"github.com/yukitake212/first-hackathon-product/internal/config"
	"github.com/yukitake212/first-hackathon-product/internal/llm"
	"github.com/yukitake212/first-hackathon-product/internal/telemetry"
	"github.com/yukitake212/first-hackathon-product/prompts"
	"github.com/yukitake212/first-hackathon-product/store"
	"github.com/yukitake212/first-hackathon-product/types"
)

// openApp builds the store, breakdown orchestrator and telemetry client from
// the loaded configuration. The returned cleanup closes them.
func openApp(cmd *cobra.Command) (*app.TaskApp, func(), error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, nil, err
	}

	dataDir := config.GetDataDir()
	dataCfg := cfg.Data
	dataCfg.Dir = dataDir
	s, err := store.Open(dataCfg)
	if err != nil {
		return nil, nil, err
	}

	log := slog.Default()
	orch := breakdown.New(
		buildProvider(cmd.Context(), cfg, log),
		breakdown.WithTimeout(config.RequestTimeout()),
		breakdown.WithLogger(log),
	)

	appCtx := app.NewContext(s, orch)
	appCtx.Logger = log
	appCtx.DefaultUser = currentUser()
	appCtx.Telemetry = openTelemetry(cfg, dataDir, log)
	appCtx.Telemetry.Track(telemetry.EventCommandExecuted, telemetry.Properties{"command": cmd.Name()})

	cleanup := func() {
		_ = appCtx.Telemetry.Close()
		if err := s.Close(); err != nil {
			log.Warn("close store", "error", err)
		}
	}
	return app.NewTaskApp(appCtx), cleanup, nil
}

// buildProvider returns the chat-model suggestion provider, or nil when none is
// usable. A nil provider makes every breakdown use the built-in template.
func buildProvider(ctx context.Context, cfg *types.AppConfig, log *slog.Logger) breakdown.Provider {
	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		log.Warn("llm configuration ignored", "error", err)
		return nil
	}
	if llmCfg.Provider != llm.ProviderOllama && llmCfg.APIKey == "" {
		log.Debug("no api key for suggestion provider, using built-in breakdowns", "provider", llmCfg.Provider)
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	chatModel, err := llm.NewChatModel(ctx, llmCfg)
	if err != nil {
		log.Warn("suggestion provider unavailable, using built-in breakdowns", "provider", llmCfg.Provider, "error", err)
		return nil
	}
	loader := prompts.NewLoader(afero.NewOsFs(), cfg.Prompts.TemplatesDir)
	return breakdown.NewChatProvider(chatModel, loader, cfg.LLM.Language)
}

// openTelemetry returns a PostHog client when the user opted in and a key is
// configured, and a no-op client otherwise.
func openTelemetry(cfg *types.AppConfig, dataDir string, log *slog.Logger) telemetry.Client {
	consent, err := telemetry.Load(dataDir)
	if err != nil {
		log.Debug("telemetry consent unreadable", "error", err)
		return telemetry.NoopClient{}
	}
	client, err := telemetry.New(consent, telemetry.Options{
		APIKey:       cfg.Telemetry.APIKey,
		Endpoint:     cfg.Telemetry.Endpoint,
		Version:      version,
		ForceEnabled: cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Debug("telemetry disabled", "error", err)
		return telemetry.NoopClient{}
	}
	return client
}

// withApp runs fn with an opened app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, tasks *app.TaskApp) error) error {
	tasks, cleanup, err := openApp(cmd)
	if err != nil {
		return fmt.Errorf("open task store: %w", err)
	}
	defer cleanup()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, tasks)
}
