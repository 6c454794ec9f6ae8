package tools

import (
	"context"

	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/render"
	"github.com/draftsmith-io/draftsmith/internal/schema"
)

// Tone values accepted by draft_prompt.
var promptTones = []string{"neutral", "formal", "casual", "direct"}

// PromptTool drafts task briefs for LLM consumption.
type PromptTool struct {
	renderer render.Renderer
}

// NewPromptTool creates a PromptTool with the given renderer.
func NewPromptTool(renderer render.Renderer) *PromptTool {
	return &PromptTool{renderer: renderer}
}

// Spec returns the registry entry for draft_prompt.
func (t *PromptTool) Spec() registry.ToolSpec {
	return registry.ToolSpec{
		Name: "draft_prompt",
		Description: "Draft a structured LLM prompt from a context and a goal. " +
			"Optional constraints, audience, tone, and success criteria " +
			"become their own sections.",
		ReadOnly:   true,
		Idempotent: true,
		Schema: schema.Descriptor{
			Fields: []schema.Field{
				{
					Name:        "context",
					Type:        schema.TypeString,
					Required:    true,
					Description: "What the reader must know before acting",
					Example:     "backend service",
				},
				{
					Name:        "goal",
					Type:        schema.TypeString,
					Required:    true,
					Description: "The outcome the response should achieve",
					Example:     "add caching",
				},
				{
					Name:        "constraints",
					Type:        schema.TypeStringList,
					Description: "Hard limits the response must respect",
				},
				{
					Name:        "audience",
					Type:        schema.TypeString,
					Description: "Who will read the response",
				},
				{
					Name:        "tone",
					Type:        schema.TypeString,
					Description: "Voice of the response",
					Enum:        promptTones,
				},
				{
					Name:        "success_criteria",
					Type:        schema.TypeStringList,
					Description: "Checklist that defines done",
				},
			},
		},
		Render: t.render,
	}
}

func (t *PromptTool) render(ctx context.Context, in schema.Input) (string, error) {
	data := render.PromptData{
		Context:         in.String("context", ""),
		Goal:            in.String("goal", ""),
		Audience:        in.String("audience", ""),
		Tone:            in.String("tone", ""),
		Constraints:     in.StringList("constraints"),
		SuccessCriteria: in.StringList("success_criteria"),
	}
	return t.renderer.Render(render.Prompt, data)
}
