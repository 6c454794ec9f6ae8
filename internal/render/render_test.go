package render

import (
	"strings"
	"testing"
)

// --- NewRenderer ---

func TestNewRenderer_Succeeds(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer() failed: %v", err)
	}
	if r == nil {
		t.Fatal("NewRenderer() returned nil")
	}
}

// --- Render: Prompt ---

func TestRender_Prompt(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := PromptData{
		Context:         "backend service",
		Goal:            "add caching",
		Audience:        "backend engineers",
		Tone:            "direct",
		Constraints:     []string{"no new dependencies", "keep p99 under 50ms"},
		SuccessCriteria: []string{"cache hit ratio above 80%"},
	}

	result, err := r.Render(Prompt, data)
	if err != nil {
		t.Fatalf("Render(Prompt) failed: %v", err)
	}

	checks := []string{
		"# Task Brief",
		"## Context",
		"backend service",
		"## Goal",
		"add caching",
		"## Audience",
		"Written for: backend engineers.",
		"## Tone",
		"Keep the response direct.",
		"## Constraints",
		"- no new dependencies",
		"- keep p99 under 50ms",
		"## Success Criteria",
		"- [ ] cache hit ratio above 80%",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("Prompt output missing: %q", check)
		}
	}
}

func TestRender_Prompt_OptionalSectionsOmitted(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := PromptData{
		Context: "backend service",
		Goal:    "add caching",
	}

	result, err := r.Render(Prompt, data)
	if err != nil {
		t.Fatalf("Render(Prompt) failed: %v", err)
	}

	// Required sections stay.
	for _, check := range []string{"## Context", "backend service", "## Goal", "add caching"} {
		if !strings.Contains(result, check) {
			t.Errorf("Prompt output missing: %q", check)
		}
	}

	// Optional sections must vanish entirely, not render empty.
	absent := []string{
		"## Audience",
		"## Tone",
		"## Constraints",
		"## Success Criteria",
	}
	for _, header := range absent {
		if strings.Contains(result, header) {
			t.Errorf("Prompt output should NOT contain %q when its data is empty", header)
		}
	}
}

func TestRender_Prompt_Deterministic(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := PromptData{
		Context:     "backend service",
		Goal:        "add caching",
		Constraints: []string{"no new dependencies"},
	}

	first, err := r.Render(Prompt, data)
	if err != nil {
		t.Fatalf("Render(Prompt) failed: %v", err)
	}
	second, err := r.Render(Prompt, data)
	if err != nil {
		t.Fatalf("Render(Prompt) failed on second pass: %v", err)
	}

	if first != second {
		t.Error("same data should render byte-identical output")
	}
}

// --- Render: ReleaseNotes ---

func TestRender_ReleaseNotes(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := ReleaseNotesData{
		Version:  "v1.4.0",
		Date:     "2026-02-01",
		Breaking: []string{"config key renamed from log to logging"},
		Groups: []ChangeGroup{
			{Title: "Added", Items: []string{"sprint planning tool"}},
			{Title: "Fixed", Items: []string{"off-by-one in capacity math"}},
		},
		Contributors: []string{"avila", "moss"},
	}

	result, err := r.Render(ReleaseNotes, data)
	if err != nil {
		t.Fatalf("Render(ReleaseNotes) failed: %v", err)
	}

	checks := []string{
		"# Release v1.4.0 (2026-02-01)",
		"## Breaking Changes",
		"- **Breaking**: config key renamed from log to logging",
		"## Added",
		"- sprint planning tool",
		"## Fixed",
		"- off-by-one in capacity math",
		"## Contributors",
		"- @avila",
		"- @moss",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("ReleaseNotes output missing: %q", check)
		}
	}
}

func TestRender_ReleaseNotes_MinimalData(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := ReleaseNotesData{
		Version: "v0.1.0",
		Groups:  []ChangeGroup{{Title: "Added", Items: []string{"first release"}}},
	}

	result, err := r.Render(ReleaseNotes, data)
	if err != nil {
		t.Fatalf("Render(ReleaseNotes) failed: %v", err)
	}

	if !strings.Contains(result, "# Release v0.1.0") {
		t.Error("ReleaseNotes output missing title")
	}
	if strings.Contains(result, "(") {
		t.Error("date parenthetical should NOT render without a date")
	}
	if strings.Contains(result, "## Breaking Changes") {
		t.Error("Breaking Changes section should NOT render when empty")
	}
	if strings.Contains(result, "## Contributors") {
		t.Error("Contributors section should NOT render when empty")
	}
}

// --- Render: SprintPlan ---

func TestRender_SprintPlan(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := SprintPlanData{
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-15",
		LengthDays:  14,
		WorkingDays: 9,
		TeamSize:    5,
		FocusFactor: "0.8",
		Capacity:    "36",
		Forecast:    "29",
		Holidays:    []string{"2026-03-06"},
		Goals:       []string{"ship caching layer", "retire legacy cron"},
	}

	result, err := r.Render(SprintPlan, data)
	if err != nil {
		t.Fatalf("Render(SprintPlan) failed: %v", err)
	}

	checks := []string{
		"# Sprint Plan",
		"## Schedule",
		"- **Start**: 2026-03-02",
		"- **End**: 2026-03-15",
		"- **Length**: 14 days (9 working days)",
		"- **Holidays**: 2026-03-06",
		"## Capacity",
		"- **Team size**: 5",
		"- **Focus factor**: 0.8",
		"- **Capacity**: 36 person-days",
		"- **Forecast**: 29 points",
		"## Goals",
		"- ship caching layer",
		"- retire legacy cron",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("SprintPlan output missing: %q", check)
		}
	}
}

func TestRender_SprintPlan_DateNoteAndNoCapacity(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	// A start date that matched the pattern but is not a real calendar
	// date degrades to a note; capacity math is skipped upstream.
	data := SprintPlanData{
		StartDate: "2026-13-45",
		DateNote:  "start_date is not a real calendar date; schedule math skipped",
	}

	result, err := r.Render(SprintPlan, data)
	if err != nil {
		t.Fatalf("Render(SprintPlan) failed: %v", err)
	}

	if !strings.Contains(result, "> start_date is not a real calendar date") {
		t.Error("SprintPlan output missing degradation note")
	}
	if !strings.Contains(result, "- **Start**: 2026-13-45") {
		t.Error("SprintPlan output should still echo the start date")
	}
	if strings.Contains(result, "## Capacity") {
		t.Error("Capacity section should NOT render when capacity is empty")
	}
	if strings.Contains(result, "- **End**:") {
		t.Error("End line should NOT render when end date is empty")
	}
}

// --- Render: Onboarding ---

func TestRender_Onboarding(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := OnboardingData{
		ProjectName:  "payments",
		Audience:     "new-hire",
		Ecosystem:    "Go",
		FileCount:    42,
		Tree:         "cmd/\ninternal/\ngo.mod",
		Manifests:    []string{"go.mod (Go module)"},
		EntryPoints:  []string{"cmd/payments/main.go"},
		TestEvidence: []string{"12 *_test.go files"},
		Docs:         []string{"README.md", "docs/architecture.md"},
	}

	result, err := r.Render(Onboarding, data)
	if err != nil {
		t.Fatalf("Render(Onboarding) failed: %v", err)
	}

	checks := []string{
		"# payments Onboarding",
		"Prepared for: new-hire.",
		"## At a Glance",
		"- **Ecosystem**: Go",
		"- **Files scanned**: 42",
		"## Layout",
		"cmd/",
		"internal/",
		"## Manifests",
		"- go.mod (Go module)",
		"## Entry Points",
		"- `cmd/payments/main.go`",
		"## Tests",
		"- 12 *_test.go files",
		"## Where to Read Next",
		"- README.md",
		"*Drafted by draftsmith.*",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("Onboarding output missing: %q", check)
		}
	}
}

func TestRender_Onboarding_EmptyData(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	result, err := r.Render(Onboarding, OnboardingData{})
	if err != nil {
		t.Fatalf("Render(Onboarding, empty) failed: %v", err)
	}

	checks := []string{
		"# Project Onboarding",
		"- **Ecosystem**: unknown",
		"- **Files scanned**: 0",
		"*Drafted by draftsmith.*",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("empty Onboarding output missing: %q", check)
		}
	}

	if strings.Contains(result, "## Layout") {
		t.Error("Layout section should NOT render without a tree")
	}
}

// --- Render: HygieneReport ---

func TestRender_HygieneReport(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	data := HygieneReportData{
		Path:      "services/payments",
		FileCount: 87,
		Score:     72,
		Grade:     "B",
		Dimensions: []DimensionRow{
			{Name: "Documentation", Status: "⚠️", Score: 55, Note: "no CONTRIBUTING guide"},
			{Name: "Tests", Status: "✅", Score: 90, Note: "test files alongside sources"},
		},
		Findings:        []string{"no LICENSE file"},
		Recommendations: []string{"add a CONTRIBUTING.md"},
	}

	result, err := r.Render(HygieneReport, data)
	if err != nil {
		t.Fatalf("Render(HygieneReport) failed: %v", err)
	}

	checks := []string{
		"# Hygiene Report: `services/payments`",
		"**Score**: 72/100 (B)",
		"## Dimensions",
		"| Dimension | Status | Score | Notes |",
		"| Documentation | ⚠️ | 55/100 | no CONTRIBUTING guide |",
		"| Tests | ✅ | 90/100 | test files alongside sources |",
		"## Findings",
		"- no LICENSE file",
		"## Recommendations",
		"- add a CONTRIBUTING.md",
		"*Files scanned: 87. Drafted by draftsmith.*",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("HygieneReport output missing: %q", check)
		}
	}
}

// --- Render: Unknown template ---

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	_, err = r.Render("nonexistent.md.tmpl", nil)
	if err == nil {
		t.Fatal("Render(nonexistent) should fail")
	}
}

// --- Render: Empty data ---

func TestRender_EmptyPromptData(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	// Should render without error even with zero values.
	result, err := r.Render(Prompt, PromptData{})
	if err != nil {
		t.Fatalf("Render(Prompt, empty) failed: %v", err)
	}

	// Structure should still be present.
	if !strings.Contains(result, "## Context") {
		t.Error("empty prompt should still contain section headers")
	}
	if !strings.Contains(result, "## Goal") {
		t.Error("empty prompt should still contain section headers")
	}
}

// --- Renderer interface compliance ---

func TestEmbedRenderer_ImplementsRenderer(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	// Compile-time interface check.
	var _ Renderer = r
}

// --- Slugify ---

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Add Caching", "add-caching"},
		{"punctuation", "Fix: cache TTL (redis)", "fix-cache-ttl-redis"},
		{"collapses dashes", "a -- b", "a-b"},
		{"trims edges", "  --Fancy--  ", "fancy"},
		{"empty", "", "untitled"},
		{"symbols only", "!!!", "untitled"},
		{
			"long input truncates at word boundary",
			"this is a very long title that keeps going and going and going beyond fifty characters",
			"this-is-a-very-long-title-that-keeps-going-and",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(got) > maxSlugLen {
				t.Errorf("Slugify(%q) length %d exceeds %d", tt.input, len(got), maxSlugLen)
			}
		})
	}
}
