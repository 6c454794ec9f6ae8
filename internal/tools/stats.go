package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/draftsmith-io/draftsmith/internal/journal"
	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/schema"
)

// StatsTool reports journal statistics.
type StatsTool struct {
	journal *journal.Journal
}

// NewStatsTool creates a StatsTool with the given journal.
func NewStatsTool(j *journal.Journal) *StatsTool {
	return &StatsTool{journal: j}
}

// Spec returns the registry entry for draft_stats. Not idempotent:
// counts move between calls.
func (t *StatsTool) Spec() registry.ToolSpec {
	return registry.ToolSpec{
		Name: "draft_stats",
		Description: "Show invocation statistics — totals, per-tool calls " +
			"and failures, success rate.",
		ReadOnly:   true,
		Idempotent: false,
		Schema:     schema.Descriptor{},
		Render:     t.render,
	}
}

func (t *StatsTool) render(ctx context.Context, in schema.Input) (string, error) {
	stats, err := t.journal.Stats()
	if err != nil {
		return "", errors.Wrap(err, "reading journal")
	}

	var sb strings.Builder
	sb.WriteString("## Invocation Statistics\n\n")
	fmt.Fprintf(&sb, "- **Invocations**: %d\n", stats.TotalInvocations)
	fmt.Fprintf(&sb, "- **Failures**: %d\n", stats.TotalFailures)
	if stats.TotalInvocations > 0 {
		fmt.Fprintf(&sb, "- **Success rate**: %.1f%%\n", stats.SuccessRate*100)
	}

	if len(stats.PerTool) > 0 {
		sb.WriteString("\n| Tool | Calls | Failures |\n")
		sb.WriteString("|------|-------|----------|\n")
		for _, ts := range stats.PerTool {
			fmt.Fprintf(&sb, "| %s | %d | %d |\n", ts.Tool, ts.Calls, ts.Failures)
		}
	} else {
		sb.WriteString("\nNo invocations recorded yet.\n")
	}

	return sb.String(), nil
}
