// Package resources implements the MCP resources draftsmith exposes.
//
// Resources are read-only data the host can load for context, addressed
// by URI (draftsmith://...). The tool catalog mirrors the registry so a
// client can inspect every input contract without calling anything.
package resources

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/draftsmith-io/draftsmith/internal/journal"
	"github.com/draftsmith-io/draftsmith/internal/registry"
)

// Handler serves the draftsmith resource endpoints.
type Handler struct {
	reg     *registry.Registry
	journal *journal.Journal
}

// NewHandler creates a resource Handler. journal may be nil when the
// invocation journal is disabled.
func NewHandler(reg *registry.Registry, jnl *journal.Journal) *Handler {
	return &Handler{reg: reg, journal: jnl}
}

// catalogEntry is one tool in the exported catalog.
type catalogEntry struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	ReadOnly    bool               `json:"read_only"`
	Idempotent  bool               `json:"idempotent"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// CatalogResource returns the resource definition for the tool catalog.
func (h *Handler) CatalogResource() mcp.Resource {
	return mcp.NewResource(
		"draftsmith://tools/catalog",
		"Tool Catalog",
		mcp.WithResourceDescription("Every registered tool with its JSON Schema input contract"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCatalog renders the registry as a JSON array, tools in name order.
func (h *Handler) HandleCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries := make([]catalogEntry, 0, h.reg.Len())
	for _, name := range h.reg.Names() {
		spec, ok := h.reg.Get(name)
		if !ok {
			continue
		}
		entries = append(entries, catalogEntry{
			Name:        spec.Name,
			Description: spec.Description,
			ReadOnly:    spec.ReadOnly,
			Idempotent:  spec.Idempotent,
			InputSchema: spec.Schema.JSONSchema(h.reg.Strict()),
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling tool catalog")
	}
	return jsonContents(req.Params.URI, data), nil
}

// StatsResource returns the resource definition for invocation statistics.
func (h *Handler) StatsResource() mcp.Resource {
	return mcp.NewResource(
		"draftsmith://stats",
		"Invocation Statistics",
		mcp.WithResourceDescription("Journal totals and per-tool call counts"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStats renders journal statistics, or a disabled marker when no
// journal is configured.
func (h *Handler) HandleStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.journal == nil {
		return jsonContents(req.Params.URI, []byte(`{"journal": "disabled"}`)), nil
	}

	stats, err := h.journal.Stats()
	if err != nil {
		return nil, errors.Wrap(err, "reading journal stats")
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling journal stats")
	}
	return jsonContents(req.Params.URI, data), nil
}

func jsonContents(uri string, data []byte) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}
}
