package tools

import (
	"context"
	"strings"

	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/render"
	"github.com/draftsmith-io/draftsmith/internal/schema"
)

const versionPattern = `^v?\d+\.\d+\.\d+$`

// Change kinds in display order, keep-a-changelog style. Entries with
// no recognized prefix land in Changed.
var changeKinds = []struct {
	kind  string
	title string
}{
	{"added", "Added"},
	{"changed", "Changed"},
	{"fixed", "Fixed"},
	{"removed", "Removed"},
	{"security", "Security"},
}

// ReleaseTool drafts release notes.
type ReleaseTool struct {
	renderer render.Renderer
}

// NewReleaseTool creates a ReleaseTool with the given renderer.
func NewReleaseTool(renderer render.Renderer) *ReleaseTool {
	return &ReleaseTool{renderer: renderer}
}

// Spec returns the registry entry for draft_release_notes.
func (t *ReleaseTool) Spec() registry.ToolSpec {
	return registry.ToolSpec{
		Name: "draft_release_notes",
		Description: "Draft release notes from a change list. Prefix entries " +
			"with added:, changed:, fixed:, removed:, or security: to group " +
			"them; unprefixed entries land under Changed.",
		ReadOnly:   true,
		Idempotent: true,
		Schema: schema.Descriptor{
			Fields: []schema.Field{
				{
					Name:        "version",
					Type:        schema.TypeString,
					Required:    true,
					Description: "Release version",
					Example:     "v1.4.0",
					Pattern:     versionPattern,
				},
				{
					Name:        "date",
					Type:        schema.TypeString,
					Description: "Release date (YYYY-MM-DD)",
					Pattern:     datePattern,
				},
				{
					Name:        "changes",
					Type:        schema.TypeStringList,
					Required:    true,
					Description: "Changes, optionally prefixed with their kind",
					Example:     "fixed: race in session cleanup",
					Min:         schema.Ptr(1),
					Max:         schema.Ptr(100),
				},
				{
					Name:        "breaking",
					Type:        schema.TypeStringList,
					Description: "Breaking changes, called out first",
				},
				{
					Name:        "contributors",
					Type:        schema.TypeStringList,
					Description: "Contributor handles",
				},
			},
		},
		Render: t.render,
	}
}

func (t *ReleaseTool) render(ctx context.Context, in schema.Input) (string, error) {
	buckets := make(map[string][]string)
	for _, change := range in.StringList("changes") {
		kind, desc := splitChange(change)
		buckets[kind] = append(buckets[kind], desc)
	}

	var groups []render.ChangeGroup
	for _, ck := range changeKinds {
		if items := buckets[ck.kind]; len(items) > 0 {
			groups = append(groups, render.ChangeGroup{Title: ck.title, Items: items})
		}
	}

	var contributors []string
	for _, c := range in.StringList("contributors") {
		contributors = append(contributors, strings.TrimPrefix(c, "@"))
	}

	data := render.ReleaseNotesData{
		Version:      in.String("version", ""),
		Date:         in.String("date", ""),
		Breaking:     in.StringList("breaking"),
		Groups:       groups,
		Contributors: contributors,
	}
	return t.renderer.Render(render.ReleaseNotes, data)
}

// splitChange resolves one change entry to its kind and description.
// Unknown or missing prefixes keep the whole entry and land in
// "changed".
func splitChange(change string) (kind, desc string) {
	prefix, rest, found := strings.Cut(change, ":")
	if found {
		k := strings.ToLower(strings.TrimSpace(prefix))
		d := strings.TrimSpace(rest)
		if d != "" {
			for _, ck := range changeKinds {
				if ck.kind == k {
					return k, d
				}
			}
		}
	}
	return "changed", strings.TrimSpace(change)
}
