package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/yukitake212/first-hackathon-product/internal/llm"
)

// SaveGlobalSetting writes one dotted key (e.g. "llm.provider") into the global
// config file, creating the file and intermediate maps as needed. Other keys are kept.
func SaveGlobalSetting(key string, value any) error {
	path, err := GlobalConfigFile()
	if err != nil {
		return err
	}
	return saveSetting(path, key, value)
}

// SaveGlobalLLMConfig saves the LLM provider, model and API key to the global config.
// The key is stored under llm.apiKeys.<provider> so switching providers keeps both keys.
func SaveGlobalLLMConfig(provider, model, key string) error {
	if provider == "" {
		return fmt.Errorf("provider cannot be empty")
	}
	p, err := llm.ValidateProvider(provider)
	if err != nil {
		return err
	}
	if model == "" {
		model = llm.DefaultModelForProvider(provider)
	}

	path, err := GlobalConfigFile()
	if err != nil {
		return err
	}
	if err := saveSetting(path, "llm.provider", string(p)); err != nil {
		return err
	}
	if err := saveSetting(path, "llm.model", model); err != nil {
		return err
	}
	// Key can be empty for providers like Ollama
	if key != "" {
		return saveSetting(path, "llm.apiKeys."+provider, key)
	}
	return nil
}

func saveSetting(path, key string, value any) error {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid config key %q", key)
		}
	}

	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}

	node := doc
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[p] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// 0600: the file may hold API keys.
	return os.WriteFile(path, out, 0o600)
}
