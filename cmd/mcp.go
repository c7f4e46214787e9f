/*
Copyright © 2026 yukitake212
*/
package cmd

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/yukitake212/first-hackathon-product/internal/app"
	mcptools "github.com/yukitake212/first-hackathon-product/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server on stdio exposing the task calendar as tools",
	Long: `Run a Model Context Protocol server over stdin/stdout so AI assistants can
query the calendar and break tasks down. Tools:

  tasks_on_date   tasks occurring on a day
  task_summary    overdue, due soon, active period and completed counts
  tasks_in_range  period tasks overlapping a date range
  breakdown_task  preview a breakdown, or apply it and replace the task`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, tasks *app.TaskApp) error {
			server := newMCPServer(tasks)
			if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		})
	},
}

func newMCPServer(tasks *app.TaskApp) *mcpsdk.Server {
	impl := &mcpsdk.Implementation{
		Name:    "taskcal-mcp",
		Version: version,
	}
	server := mcpsdk.NewServer(impl, nil)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "tasks_on_date",
		Description: `List the tasks occurring on a day: single tasks anchored to it and period tasks covering it. {"date":"YYYY-MM-DD"}; date defaults to today and accepts "today", "tomorrow", "yesterday".`,
	}, func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcptools.TasksOnDateParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpResponse(mcptools.HandleTasksOnDate(ctx, tasks, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "task_summary",
		Description: "Count overdue, due soon (deadline within 3 days), active period and completed tasks as of a day (default today).",
	}, func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcptools.TaskSummaryParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpResponse(mcptools.HandleTaskSummary(ctx, tasks, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "tasks_in_range",
		Description: `List period tasks sharing at least one day with the closed range {"from":"YYYY-MM-DD","to":"YYYY-MM-DD"}. Bounds may be reversed.`,
	}, func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcptools.TasksInRangeParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpResponse(mcptools.HandleTasksInRange(ctx, tasks, params.Arguments))
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name: "breakdown_task",
		Description: `Break a task into smaller single tasks.
- action "preview" (default): propose subtasks without changing anything
- action "apply": replace the task with the proposed subtasks; estimate_schedule=true gives them consecutive deadlines
REQUIRED: task_id`,
	}, func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[mcptools.BreakdownTaskParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return mcpResponse(mcptools.HandleBreakdownTask(ctx, tasks, params.Arguments))
	})

	return server
}

// mcpResponse wraps a handler result. Tool errors are returned in the result with
// IsError set so the client can see them and correct its call.
func mcpResponse(result *mcptools.ToolResult, err error) (*mcpsdk.CallToolResultFor[any], error) {
	if err != nil {
		return mcpErrorResponse(err)
	}
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: result.Markdown()}},
		IsError: result.IsError(),
	}, nil
}

// mcpErrorResponse wraps an error in an MCP tool result with IsError=true.
func mcpErrorResponse(err error) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: mcptools.FormatError(err.Error())}},
		IsError: true,
	}, nil
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
