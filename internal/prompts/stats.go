package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatsPrompt handles the draftsmith-stats MCP prompt. It instructs the
// AI to read and present the invocation journal.
type StatsPrompt struct{}

// NewStatsPrompt creates a StatsPrompt.
func NewStatsPrompt() *StatsPrompt {
	return &StatsPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatsPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("draftsmith-stats",
		mcp.WithPromptDescription(
			"Show how draftsmith has been used: total invocations, "+
				"per-tool call counts, failures, and success rate.",
		),
	)
}

// Handle processes the draftsmith-stats prompt request.
func (p *StatsPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Draftsmith usage statistics",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `draft_stats` to read my draftsmith usage statistics.\n\n" +
						"Then:\n" +
						"1. Present the totals and the per-tool table as given\n" +
						"2. Point out the most-used tool and any tool with failures\n" +
						"3. If the tool is missing, the journal is disabled — say so and stop",
				),
			},
		},
	}, nil
}
