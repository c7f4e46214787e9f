package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yukitake212/first-hackathon-product/internal/config"
	"github.com/yukitake212/first-hackathon-product/internal/llm"
)

// ProviderOption is one row of the provider picker.
type ProviderOption struct {
	ID          llm.Provider
	Name        string
	Description string
	NeedsKey    bool
	HasAPIKey   bool
}

func buildProviderOptions() []ProviderOption {
	options := []ProviderOption{
		{ID: llm.ProviderOpenAI, Name: "OpenAI", NeedsKey: true},
		{ID: llm.ProviderAnthropic, Name: "Anthropic", NeedsKey: true},
		{ID: llm.ProviderGemini, Name: "Gemini", NeedsKey: true},
		{ID: llm.ProviderOllama, Name: "Ollama"},
	}
	for i := range options {
		o := &options[i]
		o.Description = llm.DefaultModelForProvider(string(o.ID))
		if !o.NeedsKey {
			o.Description += " • local, no key"
			continue
		}
		o.HasAPIKey = config.ResolveAPIKey(o.ID) != ""
		if !o.HasAPIKey {
			o.Description += " • key not set"
		}
	}
	return options
}

// LLMSelection is the result of the provider picker.
type LLMSelection struct {
	Provider llm.Provider
	Model    string
	// NeedsKey is set when the provider requires a key and none is configured.
	NeedsKey bool
}

// PromptLLMSelection asks the user to pick a suggestion provider. The model is
// the provider's default.
func PromptLLMSelection() (*LLMSelection, error) {
	m := providerSelectModel{options: buildProviderOptions()}
	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("error running provider selection: %w", err)
	}

	result := finalModel.(providerSelectModel)
	if result.quit {
		return nil, fmt.Errorf("provider selection cancelled")
	}
	opt := result.options[result.cursor]
	return &LLMSelection{
		Provider: opt.ID,
		Model:    llm.DefaultModelForProvider(string(opt.ID)),
		NeedsKey: opt.NeedsKey && !opt.HasAPIKey,
	}, nil
}

type providerSelectModel struct {
	options []ProviderOption
	cursor  int
	chosen  bool
	quit    bool
}

func (m providerSelectModel) Init() tea.Cmd {
	return nil
}

func (m providerSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quit = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m providerSelectModel) View() string {
	s := "\n" + StyleSelectTitle.Render("Select suggestion provider") + "\n\n"

	for i, opt := range m.options {
		cursor := "  "
		style := StyleSelectNormal
		if m.cursor == i {
			cursor = "▶ "
			style = StyleSelectActive
		}
		s += cursor + style.Render(fmt.Sprintf("%-10s", opt.Name)) + StyleSelectDim.Render(" "+opt.Description) + "\n"
	}

	s += "\n" + StyleSelectDim.Render("↑/↓ navigate • enter select • esc cancel") + "\n"
	return s
}
