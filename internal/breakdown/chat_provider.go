package breakdown

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/yukitake212/first-hackathon-product/internal/utils"
	"github.com/yukitake212/first-hackathon-product/models"
	"github.com/yukitake212/first-hackathon-product/prompts"
)

// ChatProvider implements Provider on an Eino chat model.
type ChatProvider struct {
	model    model.BaseChatModel
	prompts  *prompts.Loader
	language string
}

// NewChatProvider returns a provider that renders prompts from loader and sends them
// to m. language selects the language suggestions are written in.
func NewChatProvider(m model.BaseChatModel, loader *prompts.Loader, language string) *ChatProvider {
	if loader == nil {
		loader = prompts.NewLoader(nil, "")
	}
	if strings.TrimSpace(language) == "" {
		language = prompts.DefaultLanguage
	}
	return &ChatProvider{model: m, prompts: loader, language: language}
}

// rawProposal mirrors the JSON a model returns before it is trusted.
type rawProposal struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	EstimatedDays float64  `json:"estimatedDays"`
	Priority      string   `json:"priority"`
	Dependencies  []string `json:"dependencies"`
}

type rawResult struct {
	Subtasks    []rawProposal `json:"subtasks"`
	Suggestions []string      `json:"suggestions"`
}

// Propose asks the model for a breakdown of req.
func (p *ChatProvider) Propose(ctx context.Context, req Request) (Result, error) {
	prompt, err := p.prompts.Render(prompts.KeyBreakdownTask, prompts.BreakdownData{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		EndDate:     req.EndDate,
		Priority:    req.Priority,
		Language:    p.language,
	})
	if err != nil {
		return Result{}, &ProviderError{Op: "propose", Err: err}
	}

	text, err := p.generate(ctx, prompt)
	if err != nil {
		return Result{}, &ProviderError{Op: "propose", Err: err}
	}

	raw, err := utils.ExtractAndParseJSON[rawResult](text)
	if err != nil {
		return Result{}, &ProviderError{Op: "propose", Err: err}
	}
	result, err := sanitize(raw)
	if err != nil {
		return Result{}, &ProviderError{Op: "propose", Err: err}
	}
	result.Source = SourceProvider
	return result, nil
}

// Advise asks the model for schedule tips over reqs, one tip per line.
func (p *ChatProvider) Advise(ctx context.Context, reqs []Request) ([]string, error) {
	data := prompts.ScheduleData{Language: p.language}
	for _, r := range reqs {
		data.Tasks = append(data.Tasks, prompts.BreakdownData{
			Title:       r.Title,
			Description: r.Description,
			DueDate:     r.DueDate,
			EndDate:     r.EndDate,
			Priority:    r.Priority,
		})
	}
	prompt, err := p.prompts.Render(prompts.KeyOptimizeSchedule, data)
	if err != nil {
		return nil, &ProviderError{Op: "advise", Err: err}
	}

	text, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, &ProviderError{Op: "advise", Err: err}
	}
	tips := splitTips(text)
	if len(tips) == 0 {
		return nil, &ProviderError{Op: "advise", Err: fmt.Errorf("empty response")}
	}
	return tips, nil
}

func (p *ChatProvider) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("empty response")
	}
	return resp.Content, nil
}

// sanitize turns an untrusted model answer into a valid Result:
// priorities are lowercased with unknown values becoming medium, estimates are
// rounded up to at least one day, and dependencies that do not name another
// proposed subtask are dropped. Duplicate titles are rejected because
// dependencies name subtasks by title.
func sanitize(raw rawResult) (Result, error) {
	if len(raw.Subtasks) == 0 {
		return Result{}, ErrEmptyBreakdown
	}

	titles := make(map[string]bool, len(raw.Subtasks))
	for i, s := range raw.Subtasks {
		title := strings.TrimSpace(s.Title)
		if titles[title] {
			return Result{}, fmt.Errorf("subtask %d: duplicate title %q", i+1, title)
		}
		titles[title] = true
	}

	out := Result{Subtasks: make([]SubtaskProposal, 0, len(raw.Subtasks))}
	for i, s := range raw.Subtasks {
		title := strings.TrimSpace(s.Title)
		priority, ok := models.ParsePriority(s.Priority)
		if !ok {
			priority = models.PriorityMedium
		}
		days := int(math.Ceil(s.EstimatedDays))
		if days < 1 {
			days = 1
		}

		var deps []string
		seen := map[string]bool{}
		for _, d := range s.Dependencies {
			d = strings.TrimSpace(d)
			if d == "" || d == title || !titles[d] || seen[d] {
				continue
			}
			seen[d] = true
			deps = append(deps, d)
		}

		proposal := SubtaskProposal{
			Title:         title,
			Description:   strings.TrimSpace(s.Description),
			EstimatedDays: days,
			Priority:      priority,
			Dependencies:  deps,
		}
		if err := models.ValidateStruct(proposal); err != nil {
			return Result{}, fmt.Errorf("subtask %d: %w", i+1, err)
		}
		out.Subtasks = append(out.Subtasks, proposal)
	}

	for _, tip := range raw.Suggestions {
		if tip = strings.TrimSpace(tip); tip != "" {
			out.Suggestions = append(out.Suggestions, tip)
		}
	}
	return out, nil
}

var bulletPrefix = regexp.MustCompile(`^(?:[-*•]\s+|\d+[.)]\s+)`)

// splitTips keeps the non-empty lines of text, stripped of list markers and
// markdown emphasis, dropping headings.
func splitTips(text string) []string {
	var tips []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") {
			continue
		}
		line = bulletPrefix.ReplaceAllString(line, "")
		line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		if line != "" {
			tips = append(tips, line)
		}
	}
	return tips
}
