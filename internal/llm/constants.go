package llm

import "strings"

// Provider constants
const (
	// DefaultProvider is the default LLM provider
	DefaultProvider = ProviderOpenAI

	ProviderOpenAI    Provider = "openai"
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// DefaultOllamaURL is the default URL for Ollama server
const DefaultOllamaURL = "http://localhost:11434"

// Default chat models. Breakdowns are short structured answers, so the small
// tier of each provider is enough.
var defaultModels = map[Provider]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderOllama:    "llama3.2",
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderGemini:    "gemini-2.0-flash",
}

// modelPrefixes maps model name prefixes to the provider serving them.
var modelPrefixes = []struct {
	prefix   string
	provider Provider
}{
	{"gpt-", ProviderOpenAI},
	{"o1", ProviderOpenAI},
	{"o3", ProviderOpenAI},
	{"o4", ProviderOpenAI},
	{"claude-", ProviderAnthropic},
	{"gemini-", ProviderGemini},
	{"llama", ProviderOllama},
	{"codellama", ProviderOllama},
	{"mistral", ProviderOllama},
	{"qwen", ProviderOllama},
	{"phi", ProviderOllama},
	{"gemma", ProviderOllama},
}

// DefaultModelForProvider returns the default model ID for a given provider,
// or "" for an unknown provider.
func DefaultModelForProvider(provider string) string {
	return defaultModels[Provider(provider)]
}

// InferProviderFromModel guesses the provider from a model name.
func InferProviderFromModel(model string) (Provider, bool) {
	m := strings.ToLower(strings.TrimSpace(model))
	for _, p := range modelPrefixes {
		if strings.HasPrefix(m, p.prefix) {
			return p.provider, true
		}
	}
	return "", false
}
