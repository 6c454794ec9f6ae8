// Package prompts implements the MCP prompt handlers draftsmith exposes.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the draftsmith-start MCP prompt. It points the AI
// at the right drafting tool for whatever the user wants to produce.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("draftsmith-start",
		mcp.WithPromptDescription(
			"Draft a document with draftsmith. Describe what you need — "+
				"a task prompt, diagram, sprint plan, release notes, an "+
				"onboarding doc, or a hygiene report — and the right tool "+
				"is picked for you.",
		),
		mcp.WithArgument("task",
			mcp.ArgumentDescription("What you want drafted, in your own words"),
		),
	)
}

// Handle processes the draftsmith-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	task := "a document"
	if args := req.Params.Arguments; args != nil {
		if t, ok := args["task"]; ok && t != "" {
			task = t
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Draft: %s", task),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want draftsmith to draft: %s\n\n"+
						"Please:\n"+
						"1. Read the resource `draftsmith://tools/catalog` to see the available tools and their input contracts\n"+
						"2. Pick the tool that matches what I asked for:\n"+
						"   - draft_prompt for task briefs aimed at an AI or a teammate\n"+
						"   - draft_diagram for Mermaid flowcharts, sequence, or state diagrams\n"+
						"   - draft_sprint_plan for sprint schedules and capacity\n"+
						"   - draft_release_notes for grouped release notes\n"+
						"   - draft_onboarding for a codebase onboarding document\n"+
						"   - draft_hygiene_report for a repository hygiene score\n"+
						"3. Ask me for any required inputs you cannot infer, then call the tool\n"+
						"4. If the call reports field errors, fix every listed field in one retry — "+
						"the errors name each offending field\n"+
						"5. Show me the drafted markdown and offer to adjust it",
					task,
				)),
			},
		},
	}, nil
}
