package prompts

// Default prompt templates. They are text/template sources; see BreakdownData and
// ScheduleData for the fields they can use.
const (
	// BreakdownTaskPrompt asks for a JSON breakdown of one task into subtasks.
	BreakdownTaskPrompt = `Split the following task into concrete, actionable subtasks so it can be carried out efficiently.

Task:
- Title: {{.Title}}
- Description: {{if .Description}}{{.Description}}{{else}}(none){{end}}
- Due date: {{if .DueDate}}{{.DueDate}}{{else}}not set{{end}}
{{- if .EndDate}}
- Period ends: {{.EndDate}}{{end}}
- Priority: {{.Priority}}

Respond with a single JSON object in exactly this shape:
{
  "subtasks": [
    {
      "title": "Concrete subtask title",
      "description": "What needs to be done",
      "estimatedDays": 1,
      "priority": "low" | "medium" | "high",
      "dependencies": ["Title of a subtask this one depends on, if any"]
    }
  ],
  "suggestions": [
    "Extra advice or tips for carrying out the task"
  ]
}

Rules:
- Every subtask must be specific and actionable.
- Size each subtask so it can be finished in 1-3 days.
- List dependencies by the exact title of another subtask in this answer.
- Do not add any text before or after the JSON object.
- Write titles, descriptions and suggestions in {{.Language}}.
`

	// OptimizeSchedulePrompt asks for scheduling advice over a list of tasks.
	OptimizeSchedulePrompt = `Analyze the task list below and suggest an efficient schedule.
{{range $i, $t := .Tasks}}
{{inc $i}}. {{$t.Title}}
   Description: {{if $t.Description}}{{$t.Description}}{{else}}(none){{end}}
   Due date: {{if $t.DueDate}}{{$t.DueDate}}{{else}}not set{{end}}
{{- if $t.EndDate}}
   Period ends: {{$t.EndDate}}{{end}}
   Priority: {{$t.Priority}}
{{end}}
Cover these points:
- task priorities
- an efficient order of execution
- time management tips
- things to watch out for

Answer in {{.Language}} as a bulleted list, one suggestion per line.
`
)
