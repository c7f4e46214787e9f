package breakdown

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukitake212/first-hackathon-product/models"
	"github.com/yukitake212/first-hackathon-product/prompts"
)

// stubChatModel answers every Generate call with a canned reply.
type stubChatModel struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	for _, m := range input {
		s.prompts = append(s.prompts, m.Content)
	}
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestChatProvider_Propose(t *testing.T) {
	m := &stubChatModel{reply: "```json\n" + `{
  "subtasks": [
    {"title": " Research ", "description": "Look around", "estimatedDays": 1.5, "priority": "HIGH"},
    {"title": "Write", "estimatedDays": 0, "priority": "urgent", "dependencies": ["Research", "Nope", "Write"]},
    {"title": "Review", "estimatedDays": 1, "priority": "low", "dependencies": ["Write", "Write"]}
  ],
  "suggestions": ["  Start early  ", ""]
}` + "\n```"}
	p := NewChatProvider(m, prompts.NewLoader(afero.NewMemMapFs(), ""), "German")

	got, err := p.Propose(context.Background(), Request{Title: "Essay", Priority: "medium"})
	require.NoError(t, err)
	assert.Equal(t, SourceProvider, got.Source)
	require.Len(t, got.Subtasks, 3)

	assert.Equal(t, SubtaskProposal{Title: "Research", Description: "Look around", EstimatedDays: 2, Priority: models.PriorityHigh}, got.Subtasks[0])
	assert.Equal(t, 1, got.Subtasks[1].EstimatedDays, "estimates are at least one day")
	assert.Equal(t, models.PriorityMedium, got.Subtasks[1].Priority, "unknown priorities become medium")
	assert.Equal(t, []string{"Research"}, got.Subtasks[1].Dependencies, "unknown and self dependencies are dropped")
	assert.Equal(t, []string{"Write"}, got.Subtasks[2].Dependencies, "duplicates are dropped")
	assert.Equal(t, []string{"Start early"}, got.Suggestions)

	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], "Title: Essay")
	assert.Contains(t, m.prompts[0], "in German")
}

func TestChatProvider_ProposeFailures(t *testing.T) {
	tests := []struct {
		name  string
		model *stubChatModel
	}{
		{name: "transport error", model: &stubChatModel{err: errors.New("dial tcp: connection refused")}},
		{name: "empty reply", model: &stubChatModel{reply: "  "}},
		{name: "not JSON", model: &stubChatModel{reply: "Sorry, I can't do that."}},
		{name: "no subtasks", model: &stubChatModel{reply: `{"subtasks": [], "suggestions": ["x"]}`}},
		{name: "blank title", model: &stubChatModel{reply: `{"subtasks": [{"title": "  ", "estimatedDays": 1}]}`}},
		{name: "duplicate titles", model: &stubChatModel{reply: `{"subtasks": [{"title": "Draft", "estimatedDays": 1}, {"title": " Draft ", "estimatedDays": 2}]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewChatProvider(tt.model, nil, "")
			_, err := p.Propose(context.Background(), Request{Title: "x"})
			var perr *ProviderError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "propose", perr.Op)
		})
	}
}

func TestChatProvider_ProposePeriodPrompt(t *testing.T) {
	m := &stubChatModel{reply: `{"subtasks": [{"title": "Pack", "estimatedDays": 1, "priority": "low"}]}`}
	p := NewChatProvider(m, prompts.NewLoader(afero.NewMemMapFs(), ""), "English")

	req := RequestFromTask(models.Task{Title: "Trip", TaskType: models.TypePeriod, StartDate: "2024-06-01", EndDate: "2024-06-14", Priority: models.PriorityLow})
	_, err := p.Propose(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], "Due date: not set")
	assert.Contains(t, m.prompts[0], "Period ends: 2024-06-14")
}

func TestChatProvider_FailureFallsBackThroughOrchestrator(t *testing.T) {
	p := NewChatProvider(&stubChatModel{reply: "<html>502 Bad Gateway</html>"}, nil, "")
	got := New(p).RequestBreakdown(context.Background(), sampleTask())
	assert.Equal(t, SourceFallback, got.Source)
	assert.Len(t, got.Subtasks, 3)
}

func TestChatProvider_Advise(t *testing.T) {
	m := &stubChatModel{reply: "## Suggestions\n\n- **Do the report first**\n2. Batch small chores\n* Leave Friday free\n"}
	p := NewChatProvider(m, nil, "")

	tips, err := p.Advise(context.Background(), []Request{{Title: "Report", Priority: "high"}, {Title: "Chores", Priority: "low"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Do the report first", "Batch small chores", "Leave Friday free"}, tips)
	assert.True(t, strings.Contains(m.prompts[0], "1. Report") && strings.Contains(m.prompts[0], "2. Chores"))

	_, err = NewChatProvider(&stubChatModel{reply: "# only a heading"}, nil, "").Advise(context.Background(), nil)
	var perr *ProviderError
	assert.ErrorAs(t, err, &perr)
}
