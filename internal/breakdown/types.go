// Package breakdown turns one task into a set of smaller single tasks, using a
// chat-model suggestion provider when one is configured and a fixed
// plan/execute/verify template otherwise.
package breakdown

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukitake212/first-hackathon-product/models"
)

// Request is what a provider sees of a task.
type Request struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	// EndDate is the last day of a period task. It is context for the provider,
	// not a deadline.
	EndDate  string `json:"endDate,omitempty"`
	Priority string `json:"priority"`
}

// RequestFromTask builds a Request.
func RequestFromTask(t models.Task) Request {
	req := Request{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
	}
	if t.IsPeriod() {
		req.EndDate = t.EndDate
	}
	return req
}

// SubtaskProposal is one proposed subtask, validated before it is mapped into a Task.
type SubtaskProposal struct {
	Title         string              `json:"title" validate:"notblank,max=255"`
	Description   string              `json:"description"`
	EstimatedDays int                 `json:"estimatedDays" validate:"gte=1"`
	Priority      models.TaskPriority `json:"priority" validate:"oneof=low medium high"`
	// Dependencies are titles of other subtasks in the same Result.
	Dependencies []string `json:"dependencies,omitempty"`
}

// Source records where a Result came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// Result is a proposed breakdown.
type Result struct {
	Subtasks    []SubtaskProposal `json:"subtasks"`
	Suggestions []string          `json:"suggestions"`
	Source      Source            `json:"source"`
}

// Provider proposes breakdowns and schedule advice.
type Provider interface {
	Propose(ctx context.Context, req Request) (Result, error)
	Advise(ctx context.Context, reqs []Request) ([]string, error)
}

// ErrEmptyBreakdown is reported when a provider proposes no subtasks.
var ErrEmptyBreakdown = errors.New("no subtasks proposed")

// ValidateProposals checks a breakdown before it may replace a task: at least
// one subtask, every proposal valid, and titles unique so dependencies resolve
// to exactly one subtask.
func ValidateProposals(proposals []SubtaskProposal) error {
	if len(proposals) == 0 {
		return &models.ValidationError{Field: "subtasks", Rule: "min", Msg: ErrEmptyBreakdown.Error()}
	}
	seen := make(map[string]bool, len(proposals))
	for i, p := range proposals {
		if err := models.ValidateStruct(p); err != nil {
			return fmt.Errorf("subtask %d: %w", i+1, err)
		}
		if seen[p.Title] {
			return &models.ValidationError{Field: "subtasks", Rule: "unique", Msg: fmt.Sprintf("duplicate subtask title %q", p.Title)}
		}
		seen[p.Title] = true
	}
	return nil
}

// ProviderError wraps any suggestion provider failure: transport, timeout,
// malformed or invalid payload. The orchestrator recovers from it by falling back.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("suggestion provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
