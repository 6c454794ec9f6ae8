// Package tools implements the draftsmith tool catalogue.
//
// Each tool lives in its own file as a struct that receives its
// dependencies (render.Renderer, scan.Scanner, *journal.Journal) via a
// constructor and exposes Spec() returning its registry.ToolSpec. Tools
// hold no mutable state; a render method is a pure function of its
// validated input plus whatever the scanner reports.
package tools

import (
	"fmt"

	"github.com/draftsmith-io/draftsmith/internal/journal"
	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/render"
	"github.com/draftsmith-io/draftsmith/internal/scan"
)

// Deps bundles everything the catalogue needs.
type Deps struct {
	Renderer render.Renderer
	Scanner  scan.Scanner
	Journal  *journal.Journal
	// ScanRoot is the default project root for scanner tools when the
	// input omits a path.
	ScanRoot string
}

// Catalogue returns every tool spec in registration order. draft_stats
// is only included when a journal is present.
func Catalogue(d Deps) []registry.ToolSpec {
	specs := []registry.ToolSpec{
		NewPromptTool(d.Renderer).Spec(),
		NewDiagramTool().Spec(),
		NewSprintTool(d.Renderer).Spec(),
		NewReleaseTool(d.Renderer).Spec(),
		NewOnboardTool(d.Renderer, d.Scanner, d.ScanRoot).Spec(),
		NewHygieneTool(d.Renderer, d.Scanner, d.ScanRoot).Spec(),
	}
	if d.Journal != nil {
		specs = append(specs, NewStatsTool(d.Journal).Spec())
	}
	return specs
}

// ─── Token Estimation ───────────────────────────────────────────────────────

// EstimateTokens approximates the token count of a response using the
// chars/4 heuristic. Returns 0 for empty strings, at least 1 otherwise.
func EstimateTokens(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	tokens := n / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}

// TokenFooter returns a one-line footer with the estimated token count,
// appended to tool responses to give the caller visibility into context
// cost.
func TokenFooter(estimatedTokens int) string {
	return fmt.Sprintf("\n📏 ~%s tokens", formatNumber(estimatedTokens))
}

// formatNumber formats an integer with comma separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	var parts []string
	for n > 0 {
		if n < 1000 {
			parts = append([]string{fmt.Sprintf("%d", n)}, parts...)
			break
		}
		parts = append([]string{fmt.Sprintf("%03d", n%1000)}, parts...)
		n /= 1000
	}
	result := parts[0]
	for _, p := range parts[1:] {
		result += "," + p
	}
	return result
}
