package breakdown

import "github.com/yukitake212/first-hackathon-product/models"

// Fallback returns the fixed three-phase breakdown for req. It needs no network
// and is a pure function of req.Title.
func Fallback(req Request) Result {
	plan := req.Title + " - Plan"
	execute := req.Title + " - Execute"
	verify := req.Title + " - Verify"
	return Result{
		Subtasks: []SubtaskProposal{
			{
				Title:         plan,
				Description:   "Define the requirements and make a plan",
				EstimatedDays: 1,
				Priority:      models.PriorityHigh,
			},
			{
				Title:         execute,
				Description:   "Carry out the actual work",
				EstimatedDays: 2,
				Priority:      models.PriorityMedium,
				Dependencies:  []string{plan},
			},
			{
				Title:         verify,
				Description:   "Check the results and fix what needs fixing",
				EstimatedDays: 1,
				Priority:      models.PriorityLow,
				Dependencies:  []string{execute},
			},
		},
		Suggestions: []string{
			"Splitting a task into small pieces makes progress easier to track",
			"Make dependencies explicit and work through them in an efficient order",
			"Define clear completion criteria for each phase",
		},
		Source: SourceFallback,
	}
}

// scheduleTips are returned when no provider is configured.
var scheduleTips = []string{
	"Work through tasks in order of priority, highest first",
	"Limit yourself to 3-5 tasks per day",
	"Review progress regularly and adjust the plan when needed",
	"Schedule important tasks for the hours you focus best",
}

// FallbackScheduleTips returns the fixed schedule advice. A provider that failed
// gets the shorter list.
func FallbackScheduleTips(providerFailed bool) []string {
	n := len(scheduleTips)
	if providerFailed {
		n = 3
	}
	return append([]string(nil), scheduleTips[:n]...)
}
