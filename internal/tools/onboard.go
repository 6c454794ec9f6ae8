// onboard.go implements the draft_onboarding tool. It builds an
// onboarding document for a codebase from scanner evidence alone: no
// code execution, no VCS access, read-only.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/render"
	"github.com/draftsmith-io/draftsmith/internal/scan"
	"github.com/draftsmith-io/draftsmith/internal/schema"
)

// Audiences accepted by draft_onboarding.
var onboardingAudiences = []string{"new-hire", "contributor", "reviewer"}

// manifestEcosystems maps root-level manifest files to the ecosystem
// they betray, in detection priority order.
var manifestEcosystems = []struct {
	file      string
	ecosystem string
}{
	{"go.mod", "Go"},
	{"package.json", "JavaScript/TypeScript"},
	{"pyproject.toml", "Python"},
	{"requirements.txt", "Python"},
	{"Cargo.toml", "Rust"},
	{"pom.xml", "Java"},
	{"build.gradle", "Java"},
	{"Gemfile", "Ruby"},
	{"composer.json", "PHP"},
	{"mix.exs", "Elixir"},
}

const (
	maxTreeLines   = 30
	maxEntryPoints = 10
)

// OnboardTool drafts onboarding documents.
type OnboardTool struct {
	renderer render.Renderer
	scanner  scan.Scanner
	root     string
}

// NewOnboardTool creates an OnboardTool. root is the default project
// path when the input omits one.
func NewOnboardTool(renderer render.Renderer, scanner scan.Scanner, root string) *OnboardTool {
	return &OnboardTool{renderer: renderer, scanner: scanner, root: root}
}

// Spec returns the registry entry for draft_onboarding.
func (t *OnboardTool) Spec() registry.ToolSpec {
	return registry.ToolSpec{
		Name: "draft_onboarding",
		Description: "Draft an onboarding document for a codebase: layout, " +
			"detected ecosystem, entry points, test evidence, and docs " +
			"worth reading first.",
		ReadOnly:   true,
		Idempotent: true,
		Schema: schema.Descriptor{
			Fields: []schema.Field{
				{
					Name:        "project_name",
					Type:        schema.TypeString,
					Description: "Display name (defaults to the directory name)",
				},
				{
					Name:        "path",
					Type:        schema.TypeString,
					Description: "Project root to scan (defaults to the configured root)",
					Example:     ".",
				},
				{
					Name:        "audience",
					Type:        schema.TypeString,
					Description: "Who the document is for",
					Enum:        onboardingAudiences,
				},
			},
		},
		Render: t.render,
	}
}

func (t *OnboardTool) render(ctx context.Context, in schema.Input) (string, error) {
	root := in.String("path", t.root)
	if root == "" {
		root = "."
	}

	data := render.OnboardingData{
		ProjectName: in.String("project_name", ""),
		Audience:    in.String("audience", ""),
	}
	if data.ProjectName == "" {
		data.ProjectName = projectNameFromPath(root)
	}

	// I/O trouble is not the caller's fault: note it and render what we
	// can instead of failing the invocation.
	files, err := t.scanner.ListFiles(ctx, root)
	if err != nil {
		data.ScanNote = "filesystem scan failed; structural sections are omitted"
		return t.renderer.Render(render.Onboarding, data)
	}

	data.FileCount = len(files)
	data.Tree = layoutSummary(files)
	data.Manifests, data.Ecosystem = detectManifests(ctx, t.scanner, root, files)
	data.EntryPoints = detectEntryPoints(files)
	data.TestEvidence = testEvidence(files)
	data.Docs = detectDocs(files)

	return t.renderer.Render(render.Onboarding, data)
}

// projectNameFromPath derives a display name from the scanned path.
func projectNameFromPath(root string) string {
	base := filepath.Base(root)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

// layoutSummary condenses the file list into a one-level tree: each
// top-level directory with its file count, then root-level files.
func layoutSummary(files []scan.FileInfo) string {
	counts := make(map[string]int)
	var rootFiles []string
	for _, f := range files {
		top, _, nested := strings.Cut(f.Path, "/")
		if nested {
			counts[top]++
		} else {
			rootFiles = append(rootFiles, top)
		}
	}

	dirs := make([]string, 0, len(counts))
	for d := range counts {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var lines []string
	for _, d := range dirs {
		lines = append(lines, fmt.Sprintf("%s/ (%d files)", d, counts[d]))
	}
	lines = append(lines, rootFiles...)

	if len(lines) > maxTreeLines {
		lines = append(lines[:maxTreeLines], "...")
	}
	return strings.Join(lines, "\n")
}

// detectManifests reports root-level manifests and the ecosystems they
// imply. Go modules and npm packages get their name read out of the
// manifest; a failed read falls back to the plain ecosystem label.
func detectManifests(ctx context.Context, scanner scan.Scanner, root string, files []scan.FileInfo) (manifests []string, ecosystem string) {
	present := make(map[string]bool)
	for _, f := range files {
		present[f.Path] = true
	}

	var ecosystems []string
	seen := make(map[string]bool)
	for _, m := range manifestEcosystems {
		if !present[m.file] {
			continue
		}
		manifests = append(manifests, manifestLabel(ctx, scanner, root, m.file, m.ecosystem))
		if !seen[m.ecosystem] {
			seen[m.ecosystem] = true
			ecosystems = append(ecosystems, m.ecosystem)
		}
	}
	return manifests, strings.Join(ecosystems, ", ")
}

func manifestLabel(ctx context.Context, scanner scan.Scanner, root, file, ecosystem string) string {
	switch file {
	case "go.mod":
		if content, err := scanner.ReadFile(ctx, filepath.Join(root, file)); err == nil {
			first, _, _ := strings.Cut(content, "\n")
			if module, ok := strings.CutPrefix(strings.TrimSpace(first), "module "); ok {
				return fmt.Sprintf("go.mod (module %s)", strings.TrimSpace(module))
			}
		}
	case "package.json":
		if content, err := scanner.ReadFile(ctx, filepath.Join(root, file)); err == nil {
			var pkg struct {
				Name string `json:"name"`
			}
			if json.Unmarshal([]byte(content), &pkg) == nil && pkg.Name != "" {
				return fmt.Sprintf("package.json (%s)", pkg.Name)
			}
		}
	}
	return fmt.Sprintf("%s (%s)", file, ecosystem)
}

// detectEntryPoints picks out well-known entry point paths from the
// file list, in sorted order, capped.
func detectEntryPoints(files []scan.FileInfo) []string {
	exact := map[string]bool{
		"main.go": true, "index.js": true, "index.ts": true,
		"app.py": true, "main.py": true, "manage.py": true,
		"server.js": true, "server.ts": true,
		"src/main.rs": true, "src/index.ts": true, "src/index.js": true,
		"src/main.ts": true,
	}

	var entries []string
	for _, f := range files {
		p := f.Path
		isCmdMain := strings.HasPrefix(p, "cmd/") && strings.HasSuffix(p, "/main.go")
		if exact[p] || isCmdMain {
			entries = append(entries, p)
		}
		if len(entries) >= maxEntryPoints {
			break
		}
	}
	return entries
}

// testEvidence summarizes what testing exists, by convention spotting.
func testEvidence(files []scan.FileInfo) []string {
	var goTests, specs, pyTests, testDirFiles int
	for _, f := range files {
		p := f.Path
		base := filepath.Base(p)
		switch {
		case strings.HasSuffix(p, "_test.go"):
			goTests++
		case strings.Contains(base, ".spec.") || strings.Contains(base, ".test."):
			specs++
		case strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py"):
			pyTests++
		}
		if strings.HasPrefix(p, "tests/") || strings.HasPrefix(p, "test/") {
			testDirFiles++
		}
	}

	var evidence []string
	if goTests > 0 {
		evidence = append(evidence, fmt.Sprintf("%d Go test files (*_test.go)", goTests))
	}
	if specs > 0 {
		evidence = append(evidence, fmt.Sprintf("%d JS/TS spec files", specs))
	}
	if pyTests > 0 {
		evidence = append(evidence, fmt.Sprintf("%d Python test files", pyTests))
	}
	if testDirFiles > 0 {
		evidence = append(evidence, fmt.Sprintf("dedicated test directory (%d files)", testDirFiles))
	}
	return evidence
}

// detectDocs lists documentation worth reading first.
func detectDocs(files []scan.FileInfo) []string {
	known := []string{"README.md", "CONTRIBUTING.md", "CHANGELOG.md", "LICENSE", "ARCHITECTURE.md"}
	present := make(map[string]bool)
	docsFiles := 0
	for _, f := range files {
		present[f.Path] = true
		if strings.HasPrefix(f.Path, "docs/") {
			docsFiles++
		}
	}

	var docs []string
	for _, name := range known {
		if present[name] {
			docs = append(docs, name)
		}
	}
	if docsFiles > 0 {
		docs = append(docs, fmt.Sprintf("docs/ (%d files)", docsFiles))
	}
	return docs
}
