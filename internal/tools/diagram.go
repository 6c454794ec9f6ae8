// diagram.go implements the draft_diagram tool: Mermaid source built
// from a list of "From -> To: label" steps. The tool emits source text
// only; rendering the diagram is the client's concern.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/render"
	"github.com/draftsmith-io/draftsmith/internal/schema"
)

// Diagram kinds and directions accepted by draft_diagram.
var (
	diagramKinds      = []string{"flowchart", "sequence", "state"}
	diagramDirections = []string{"TB", "LR"}
)

// DiagramTool generates Mermaid diagram source.
type DiagramTool struct{}

// NewDiagramTool creates a DiagramTool.
func NewDiagramTool() *DiagramTool {
	return &DiagramTool{}
}

// Spec returns the registry entry for draft_diagram.
func (t *DiagramTool) Spec() registry.ToolSpec {
	return registry.ToolSpec{
		Name: "draft_diagram",
		Description: "Generate Mermaid diagram source from a step list. " +
			"Steps use \"From -> To: label\" syntax; a step without an " +
			"arrow declares a standalone node.",
		ReadOnly:   true,
		Idempotent: true,
		Schema: schema.Descriptor{
			Fields: []schema.Field{
				{
					Name:        "kind",
					Type:        schema.TypeString,
					Required:    true,
					Description: "Diagram flavor",
					Enum:        diagramKinds,
				},
				{
					Name:        "title",
					Type:        schema.TypeString,
					Description: "Diagram title",
				},
				{
					Name:        "direction",
					Type:        schema.TypeString,
					Description: "Layout direction (flowchart and state)",
					Enum:        diagramDirections,
				},
				{
					Name:        "steps",
					Type:        schema.TypeStringList,
					Required:    true,
					Description: "Edges or nodes, e.g. \"Parse -> Validate: ok\"",
					Example:     "Client -> Server: request",
					Min:         schema.Ptr(1),
					Max:         schema.Ptr(50),
				},
			},
		},
		Render: t.render,
	}
}

func (t *DiagramTool) render(ctx context.Context, in schema.Input) (string, error) {
	kind := in.String("kind", "")
	title := in.String("title", "")
	direction := in.String("direction", "TB")

	steps := in.StringList("steps")
	edges := make([]edge, 0, len(steps))
	for _, s := range steps {
		edges = append(edges, parseStep(s))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	if title != "" {
		fmt.Fprintf(&sb, "---\ntitle: %s\n---\n", title)
	}
	switch kind {
	case "sequence":
		writeSequence(&sb, edges)
	case "state":
		writeState(&sb, edges, direction)
	default:
		writeFlowchart(&sb, edges, direction)
	}
	sb.WriteString("```\n")
	return sb.String(), nil
}

// ─── Step parsing ───────────────────────────────────────────────────────────

// edge is one parsed step. A step without an arrow is a standalone
// node: from holds the name and to stays empty.
type edge struct {
	from  string
	to    string
	label string
}

// parseStep splits "From -> To: label" into an edge. Malformed steps
// degrade to a standalone node carrying the raw text; parsing never
// fails.
func parseStep(step string) edge {
	from, rest, found := strings.Cut(step, "->")
	if !found {
		return edge{from: strings.TrimSpace(step)}
	}

	// Tolerate sequence-style arrows ("A ->> B").
	rest = strings.TrimPrefix(strings.TrimSpace(rest), ">")

	to, label, _ := strings.Cut(rest, ":")
	e := edge{
		from:  strings.TrimSpace(from),
		to:    strings.TrimSpace(to),
		label: strings.TrimSpace(label),
	}
	if e.from == "" || e.to == "" {
		return edge{from: strings.TrimSpace(step)}
	}
	return e
}

// nodeList assigns stable Mermaid ids to node names in first-seen
// order. Distinct names that slugify identically get numeric suffixes.
type nodeList struct {
	order []string
	ids   map[string]string
	used  map[string]bool
}

func newNodeList(edges []edge) *nodeList {
	n := &nodeList{ids: make(map[string]string), used: make(map[string]bool)}
	for _, e := range edges {
		if e.from != "" {
			n.id(e.from)
		}
		if e.to != "" {
			n.id(e.to)
		}
	}
	return n
}

func (n *nodeList) id(name string) string {
	if id, ok := n.ids[name]; ok {
		return id
	}

	base := strings.ReplaceAll(render.Slugify(name), "-", "_")
	id := base
	for i := 2; n.used[id]; i++ {
		id = fmt.Sprintf("%s_%d", base, i)
	}

	n.used[id] = true
	n.ids[name] = id
	n.order = append(n.order, name)
	return id
}

// ─── Writers ────────────────────────────────────────────────────────────────

func writeFlowchart(sb *strings.Builder, edges []edge, direction string) {
	fmt.Fprintf(sb, "flowchart %s\n", direction)

	nodes := newNodeList(edges)
	for _, name := range nodes.order {
		fmt.Fprintf(sb, "    %s[\"%s\"]\n", nodes.ids[name], escapeQuotes(name))
	}
	for _, e := range edges {
		if e.to == "" {
			continue
		}
		if e.label != "" {
			fmt.Fprintf(sb, "    %s -->|%s| %s\n", nodes.ids[e.from], escapeLabel(e.label), nodes.ids[e.to])
		} else {
			fmt.Fprintf(sb, "    %s --> %s\n", nodes.ids[e.from], nodes.ids[e.to])
		}
	}
}

func writeSequence(sb *strings.Builder, edges []edge) {
	sb.WriteString("sequenceDiagram\n")

	nodes := newNodeList(edges)
	for _, name := range nodes.order {
		fmt.Fprintf(sb, "    participant %s as %s\n", nodes.ids[name], name)
	}
	for _, e := range edges {
		if e.to == "" {
			continue
		}
		fmt.Fprintf(sb, "    %s->>%s: %s\n", nodes.ids[e.from], nodes.ids[e.to], e.label)
	}
}

func writeState(sb *strings.Builder, edges []edge, direction string) {
	sb.WriteString("stateDiagram-v2\n")
	if direction == "LR" {
		sb.WriteString("    direction LR\n")
	}

	nodes := newNodeList(edges)
	for _, name := range nodes.order {
		fmt.Fprintf(sb, "    state \"%s\" as %s\n", escapeQuotes(name), nodes.ids[name])
	}
	for _, e := range edges {
		if e.to == "" {
			continue
		}
		if e.label != "" {
			fmt.Fprintf(sb, "    %s --> %s: %s\n", nodes.ids[e.from], nodes.ids[e.to], e.label)
		} else {
			fmt.Fprintf(sb, "    %s --> %s\n", nodes.ids[e.from], nodes.ids[e.to])
		}
	}
}

// escapeQuotes keeps node text safe inside Mermaid's quoted labels.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}

// escapeLabel keeps edge text safe inside |...| labels.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "|", "/")
}
