// hygiene.go implements the draft_hygiene_report tool: a weighted
// 0-100 hygiene score for a repository, computed from scanner evidence.
// Each dimension contributes score * weight; the report shows the
// per-dimension breakdown plus findings and recommendations.
package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/render"
	"github.com/draftsmith-io/draftsmith/internal/scan"
	"github.com/draftsmith-io/draftsmith/internal/schema"
)

const (
	// oversizeThreshold flags source files that have grown past easy
	// review size.
	oversizeThreshold = 64 * 1024

	// maxTodoReads caps how many files the TODO scan reads.
	maxTodoReads = 20

	// thinReadmeBytes is the size under which a README counts as thin.
	thinReadmeBytes = 200

	defaultMaxFindings = 10
)

// codeExtensions mark files that count as source for ratio metrics.
var codeExtensions = map[string]bool{
	".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".rs": true, ".java": true, ".rb": true, ".php": true,
	".ex": true, ".exs": true, ".c": true, ".h": true, ".cpp": true,
	".cs": true,
}

// HygieneTool drafts repo hygiene reports.
type HygieneTool struct {
	renderer render.Renderer
	scanner  scan.Scanner
	root     string
}

// NewHygieneTool creates a HygieneTool. root is the default project
// path when the input omits one.
func NewHygieneTool(renderer render.Renderer, scanner scan.Scanner, root string) *HygieneTool {
	return &HygieneTool{renderer: renderer, scanner: scanner, root: root}
}

// Spec returns the registry entry for draft_hygiene_report.
func (t *HygieneTool) Spec() registry.ToolSpec {
	return registry.ToolSpec{
		Name: "draft_hygiene_report",
		Description: "Score a repository's hygiene (README, tests, docs, file " +
			"sizes, TODO debt, license, changelog) and draft a report with " +
			"findings and recommendations.",
		ReadOnly:   true,
		Idempotent: true,
		Schema: schema.Descriptor{
			Fields: []schema.Field{
				{
					Name:        "path",
					Type:        schema.TypeString,
					Description: "Repository root to scan (defaults to the configured root)",
					Example:     ".",
				},
				{
					Name:        "max_findings",
					Type:        schema.TypeInt,
					Description: "Cap on listed findings (default 10)",
					Min:         schema.Ptr(1),
					Max:         schema.Ptr(100),
				},
			},
		},
		Render: t.render,
	}
}

func (t *HygieneTool) render(ctx context.Context, in schema.Input) (string, error) {
	root := in.String("path", t.root)
	if root == "" {
		root = "."
	}
	maxFindings := in.Int("max_findings", defaultMaxFindings)

	data := render.HygieneReportData{Path: root}

	files, err := t.scanner.ListFiles(ctx, root)
	if err != nil {
		data.ScanNote = "filesystem scan failed; no dimensions could be evaluated"
		data.Grade = "n/a"
		return t.renderer.Render(render.HygieneReport, data)
	}

	facts := gatherFacts(ctx, t.scanner, root, files)
	results := evaluateDimensions(facts)

	totalWeight, weightedSum := 0, 0
	for _, r := range results {
		totalWeight += r.weight
		weightedSum += r.score * r.weight

		data.Dimensions = append(data.Dimensions, render.DimensionRow{
			Name:   r.name,
			Status: statusEmoji(r.score),
			Score:  r.score,
			Note:   r.note,
		})
		if r.finding != "" && len(data.Findings) < maxFindings {
			data.Findings = append(data.Findings, r.finding)
		}
		if r.recommendation != "" && r.score < 80 && len(data.Recommendations) < 5 {
			data.Recommendations = append(data.Recommendations, r.recommendation)
		}
	}

	data.FileCount = facts.fileCount
	if totalWeight > 0 {
		data.Score = weightedSum / totalWeight
	}
	data.Grade = grade(data.Score)

	return t.renderer.Render(render.HygieneReport, data)
}

// ─── Evidence gathering ─────────────────────────────────────────────────────

type repoFacts struct {
	fileCount    int
	hasReadme    bool
	readmeSize   int64
	sourceFiles  int
	testFiles    int
	extraDocs    int
	docsFiles    int
	oversized    int
	todoCount    int
	sampledFiles int
	hasLicense   bool
	hasChangelog bool
}

func gatherFacts(ctx context.Context, scanner scan.Scanner, root string, files []scan.FileInfo) repoFacts {
	facts := repoFacts{fileCount: len(files)}

	for _, f := range files {
		p := f.Path
		base := filepath.Base(p)

		switch p {
		case "README.md", "README", "README.rst":
			facts.hasReadme = true
			facts.readmeSize = f.Size
		case "LICENSE", "LICENSE.md", "LICENSE.txt", "COPYING":
			facts.hasLicense = true
		case "CHANGELOG.md", "CHANGELOG":
			facts.hasChangelog = true
		}

		if strings.HasPrefix(p, "docs/") {
			facts.docsFiles++
		}
		if !strings.Contains(p, "/") && strings.HasSuffix(p, ".md") && p != "README.md" {
			facts.extraDocs++
		}

		if !codeExtensions[filepath.Ext(p)] {
			continue
		}
		if isTestFile(p, base) {
			facts.testFiles++
		} else {
			facts.sourceFiles++
		}
		if f.Size > oversizeThreshold {
			facts.oversized++
		}
	}

	// Sample source files for TODO/FIXME markers, capped for cost. The
	// file list is sorted, so the sample is deterministic.
	for _, f := range files {
		if facts.sampledFiles >= maxTodoReads {
			break
		}
		if !codeExtensions[filepath.Ext(f.Path)] || f.Size > oversizeThreshold {
			continue
		}
		content, err := scanner.ReadFile(ctx, filepath.Join(root, f.Path))
		if err != nil {
			continue
		}
		facts.sampledFiles++
		facts.todoCount += strings.Count(content, "TODO") + strings.Count(content, "FIXME")
	}

	return facts
}

func isTestFile(path, base string) bool {
	return strings.HasSuffix(path, "_test.go") ||
		strings.Contains(base, ".spec.") ||
		strings.Contains(base, ".test.") ||
		(strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py")) ||
		strings.HasPrefix(path, "tests/") ||
		strings.HasPrefix(path, "test/")
}

// ─── Scoring ────────────────────────────────────────────────────────────────

// dimensionResult is one evaluated hygiene axis.
type dimensionResult struct {
	name           string
	weight         int // relative importance (1-10)
	score          int // 0-100
	note           string
	finding        string
	recommendation string
}

func evaluateDimensions(f repoFacts) []dimensionResult {
	readme := dimensionResult{name: "Readme", weight: 8, recommendation: "write a README.md covering purpose, setup, and usage"}
	switch {
	case !f.hasReadme:
		readme.note = "no README found"
		readme.finding = "no README at the repository root"
	case f.readmeSize < thinReadmeBytes:
		readme.score = 50
		readme.note = "README is thin"
		readme.finding = fmt.Sprintf("README is only %d bytes", f.readmeSize)
	default:
		readme.score = 100
		readme.note = "README present"
	}

	tests := dimensionResult{name: "Tests", weight: 10, recommendation: "add tests alongside the code they cover"}
	switch {
	case f.sourceFiles == 0 && f.testFiles == 0:
		tests.score = 50
		tests.note = "no source files detected"
	case f.testFiles == 0:
		tests.note = "no test files found"
		tests.finding = fmt.Sprintf("%d source files with no tests", f.sourceFiles)
	default:
		ratio := float64(f.testFiles) / float64(max(f.sourceFiles, 1))
		switch {
		case ratio >= 0.3:
			tests.score = 100
		case ratio >= 0.1:
			tests.score = 70
		default:
			tests.score = 40
			tests.finding = fmt.Sprintf("only %d test files for %d source files", f.testFiles, f.sourceFiles)
		}
		tests.note = fmt.Sprintf("%d test files", f.testFiles)
	}

	docs := dimensionResult{name: "Docs", weight: 6, recommendation: "add a docs/ directory or contributor guides"}
	switch {
	case f.docsFiles > 0 || f.extraDocs >= 2:
		docs.score = 100
		docs.note = "documentation beyond the README"
	case f.extraDocs == 1:
		docs.score = 60
		docs.note = "one extra markdown document"
	default:
		docs.note = "no docs beyond the README"
		docs.finding = "no documentation beyond the README"
	}

	size := dimensionResult{name: "File sizes", weight: 6, recommendation: "split source files larger than 64KB"}
	switch pct := percent(f.oversized, f.sourceFiles+f.testFiles); {
	case f.oversized == 0:
		size.score = 100
		size.note = "no oversized source files"
	case pct < 5:
		size.score = 70
		size.note = fmt.Sprintf("%d oversized source files", f.oversized)
	case pct < 15:
		size.score = 40
		size.note = fmt.Sprintf("%d oversized source files", f.oversized)
		size.finding = fmt.Sprintf("%d source files exceed 64KB", f.oversized)
	default:
		size.note = fmt.Sprintf("%d oversized source files", f.oversized)
		size.finding = fmt.Sprintf("%d source files exceed 64KB", f.oversized)
	}

	todo := dimensionResult{name: "TODO debt", weight: 4, recommendation: "burn down TODO/FIXME markers or move them to the tracker"}
	todo.note = fmt.Sprintf("%d markers in %d sampled files", f.todoCount, f.sampledFiles)
	switch {
	case f.todoCount == 0:
		todo.score = 100
	case f.todoCount <= 5:
		todo.score = 70
	case f.todoCount <= 20:
		todo.score = 40
		todo.finding = fmt.Sprintf("%d TODO/FIXME markers in sampled files", f.todoCount)
	default:
		todo.finding = fmt.Sprintf("%d TODO/FIXME markers in sampled files", f.todoCount)
	}

	license := dimensionResult{name: "License", weight: 4, recommendation: "add a LICENSE file"}
	if f.hasLicense {
		license.score = 100
		license.note = "license present"
	} else {
		license.note = "no license file"
		license.finding = "no LICENSE file"
	}

	changelog := dimensionResult{name: "Changelog", weight: 2, recommendation: "keep a CHANGELOG.md"}
	if f.hasChangelog {
		changelog.score = 100
		changelog.note = "changelog present"
	} else {
		changelog.note = "no changelog"
	}

	return []dimensionResult{readme, tests, docs, size, todo, license, changelog}
}

func statusEmoji(score int) string {
	switch {
	case score >= 80:
		return "✅"
	case score >= 50:
		return "⚠️"
	default:
		return "❌"
	}
}

func grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 60:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}
