package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yukitake212/first-hackathon-product/internal/llm"
)

// DefaultRequestTimeout bounds one breakdown request when llm.requestTimeoutSeconds is unset.
const DefaultRequestTimeout = 30 * time.Second

// LoadLLMConfig loads LLM configuration from Viper and Environment variables.
// It handles precedence: Explicit Viper Config > Environment Variables > Defaults.
// It does NOT handle interactive prompts (that belongs in the CLI layer).
func LoadLLMConfig() (llm.Config, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		if inferred, ok := llm.InferProviderFromModel(viper.GetString("llm.model")); ok {
			provider = string(inferred)
		} else {
			provider = string(llm.DefaultProvider)
		}
	}

	llmProvider, err := llm.ValidateProvider(provider)
	if err != nil {
		return llm.Config{}, fmt.Errorf("invalid provider: %w", err)
	}

	model := viper.GetString("llm.model")
	if model == "" {
		model = llm.DefaultModelForProvider(string(llmProvider))
	}

	// A missing key is not an error here: Ollama needs none, and without a key the
	// breakdown falls back to the built-in template.
	apiKey := ResolveAPIKey(llmProvider)

	baseURL := viper.GetString("llm.baseURL")
	if baseURL == "" && llmProvider == llm.ProviderOllama {
		baseURL = llm.DefaultOllamaURL
	}

	return llm.Config{
		Provider: llmProvider,
		Model:    model,
		APIKey:   apiKey,
		BaseURL:  baseURL,
	}, nil
}

// RequestTimeout returns llm.requestTimeoutSeconds as a duration.
func RequestTimeout() time.Duration {
	if secs := viper.GetInt("llm.requestTimeoutSeconds"); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return DefaultRequestTimeout
}

// ResolveAPIKey returns the best API key for the given provider: the explicit
// llm.apiKey, then llm.apiKeys.<provider>, then the provider's env vars.
func ResolveAPIKey(provider llm.Provider) string {
	keyFromViper := func(path string) string {
		if viper.IsSet(path) {
			return strings.TrimSpace(viper.GetString(path))
		}
		return ""
	}

	if key := keyFromViper("llm.apiKey"); key != "" {
		return key
	}
	if key := keyFromViper(fmt.Sprintf("llm.apiKeys.%s", provider)); key != "" {
		return key
	}
	return providerEnvKey(provider)
}

func providerEnvKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	case llm.ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case llm.ProviderGemini:
		key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		if key == "" {
			key = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		return key
	default:
		return ""
	}
}
