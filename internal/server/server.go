// Package server wires all draftsmith components and creates the MCP
// server instance.
//
// This is the composition root: it creates the renderer, scanner,
// journal, and registry, and injects them into the tools, prompts, and
// resources that depend on them. No business logic lives here — only
// wiring.
package server

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/phuslu/log"

	"github.com/draftsmith-io/draftsmith/internal/config"
	"github.com/draftsmith-io/draftsmith/internal/journal"
	"github.com/draftsmith-io/draftsmith/internal/prompts"
	"github.com/draftsmith-io/draftsmith/internal/registry"
	"github.com/draftsmith-io/draftsmith/internal/render"
	"github.com/draftsmith-io/draftsmith/internal/resources"
	"github.com/draftsmith-io/draftsmith/internal/scan"
	"github.com/draftsmith-io/draftsmith/internal/schema"
	"github.com/draftsmith-io/draftsmith/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the invocation journal and must
// be called on shutdown (typically via defer). It is always non-nil and
// safe to call even if journal init failed.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	configureLogging(cfg.Logging)

	// --- Create shared dependencies ---

	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, noop, errors.Wrap(err, "creating template renderer")
	}

	scanner := &scan.DirScanner{
		MaxFiles:  cfg.Scan.MaxFiles,
		MaxDepth:  cfg.Scan.MaxDepth,
		MaxFileKB: cfg.Scan.MaxFileKB,
	}

	// The journal is an independent sidecar: if it fails to open, the
	// drafting tools continue working. We log a warning and run without
	// history — draft_stats and the stats resource report it as disabled.

	cleanup := noop
	var jnl *journal.Journal
	if cfg.Journal.Enabled {
		j, jerr := journal.New(journal.Config{DataDir: cfg.Journal.Dir})
		if jerr != nil {
			log.Warn().Err(jerr).Msg("invocation journal disabled")
		} else {
			jnl = j
			cleanup = func() {
				if cerr := j.Close(); cerr != nil {
					log.Warn().Err(cerr).Msg("journal close")
				}
			}
		}
	}

	// --- Build the tool registry ---

	reg := registry.New(
		registry.WithStrictFields(cfg.Validation.StrictFields),
		registry.WithObserver(observe(jnl)),
	)

	catalogue := tools.Catalogue(tools.Deps{
		Renderer: renderer,
		Scanner:  scanner,
		Journal:  jnl,
		ScanRoot: cfg.Scan.Root,
	})
	for _, spec := range catalogue {
		if rerr := reg.Register(spec); rerr != nil {
			cleanup()
			return nil, noop, errors.Wrapf(rerr, "registering %s", spec.Name)
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"draftsmith",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---
	//
	// Every tool goes through the registry: the MCP handler is a thin
	// adapter that invokes by name and converts the Result. Input
	// mistakes come back as tool errors the model can fix, never as
	// protocol errors.

	for _, spec := range catalogue {
		s.AddTool(mcpTool(spec), invokeHandler(reg, spec.Name))
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statsPrompt := prompts.NewStatsPrompt()
	s.AddPrompt(statsPrompt.Definition(), statsPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(reg, jnl)
	s.AddResource(resourceHandler.CatalogResource(), resourceHandler.HandleCatalog)
	s.AddResource(resourceHandler.StatsResource(), resourceHandler.HandleStats)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the journal
// is disabled or hasn't been initialized.
func noop() {}

// configureLogging sets up the process-wide structured logger. Output
// goes to stderr because stdout carries the MCP stdio transport; a file
// target takes over when configured.
func configureLogging(cfg config.LoggingConfig) {
	logger := log.Logger{
		Level:      log.ParseLevel(cfg.Level),
		TimeFormat: cfg.TimeFormat,
	}
	if cfg.File != "" {
		logger.Writer = &log.FileWriter{
			Filename:     cfg.File,
			MaxSize:      10 * 1024 * 1024,
			MaxBackups:   2,
			EnsureFolder: true,
			LocalTime:    true,
		}
	} else {
		logger.Writer = &log.ConsoleWriter{Writer: os.Stderr}
	}
	log.DefaultLogger = logger
}

// observe returns the registry observer: one log line per invocation,
// plus a journal record when the journal is available. Record is
// nil-safe, so the observer never has to branch on journal presence.
func observe(jnl *journal.Journal) registry.Observer {
	return func(res registry.Result) {
		log.Info().
			Str("tool", res.Tool).
			Str("invocation", res.ID).
			Str("kind", string(res.Kind)).
			Bool("ok", res.Success).
			Dur("duration", res.Duration).
			Int("errors", len(res.Errors)).
			Msg("tool invocation")

		if err := jnl.Record(journal.Entry{
			ID:         res.ID,
			Tool:       res.Tool,
			Kind:       string(res.Kind),
			Success:    res.Success,
			DurationMS: res.Duration.Milliseconds(),
			ErrorCount: len(res.Errors),
		}); err != nil {
			log.Warn().Err(err).Str("invocation", res.ID).Msg("journal record failed")
		}
	}
}

// invokeHandler adapts one registered tool to the MCP handler shape.
func invokeHandler(reg *registry.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := reg.Invoke(ctx, name, req.GetArguments())
		if !res.Success {
			return mcp.NewToolResultError(errorBody(res)), nil
		}
		output := res.Output + tools.TokenFooter(tools.EstimateTokens(res.Output))
		return mcp.NewToolResultText(output), nil
	}
}

// errorBody flattens a failed Result into a single tool-error message.
// Validation failures list every bad field so the caller can fix the
// whole request in one retry.
func errorBody(res registry.Result) string {
	if res.Kind != registry.KindValidation {
		if len(res.Errors) > 0 {
			return res.Errors[0].Message
		}
		return "invocation failed"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s rejected the input:\n", res.Tool)
	for _, e := range res.Errors {
		fmt.Fprintf(&b, "- %s: %s\n", e.Field, e.Message)
	}
	b.WriteString("\nAll problems are listed above. Fix every field, then retry once.")
	return b.String()
}

// mcpTool translates a registered tool spec into its MCP definition.
func mcpTool(spec registry.ToolSpec) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(spec.Description),
		mcp.WithReadOnlyHintAnnotation(spec.ReadOnly),
		mcp.WithIdempotentHintAnnotation(spec.Idempotent),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	}
	for _, f := range spec.Schema.Fields {
		opts = append(opts, fieldOption(f))
	}
	return mcp.NewTool(spec.Name, opts...)
}

// fieldOption maps one schema field onto the matching mcp-go property
// option. mcp-go models integers as numbers; the exact integer check
// happens during validation.
func fieldOption(f schema.Field) mcp.ToolOption {
	var props []mcp.PropertyOption
	if f.Description != "" {
		desc := f.Description
		if f.Example != "" {
			desc = fmt.Sprintf("%s (e.g. %s)", desc, f.Example)
		}
		props = append(props, mcp.Description(desc))
	}
	if f.Required {
		props = append(props, mcp.Required())
	}

	switch f.Type {
	case schema.TypeInt, schema.TypeNumber:
		if f.Min != nil {
			props = append(props, mcp.Min(*f.Min))
		}
		if f.Max != nil {
			props = append(props, mcp.Max(*f.Max))
		}
		return mcp.WithNumber(f.Name, props...)

	case schema.TypeBool:
		return mcp.WithBoolean(f.Name, props...)

	case schema.TypeStringList:
		if f.Min != nil {
			props = append(props, mcp.MinItems(int(*f.Min)))
		}
		if f.Max != nil {
			props = append(props, mcp.MaxItems(int(*f.Max)))
		}
		return mcp.WithArray(f.Name, append([]mcp.PropertyOption{mcp.WithStringItems()}, props...)...)

	default:
		if len(f.Enum) > 0 {
			props = append(props, mcp.Enum(f.Enum...))
		}
		if f.Pattern != "" {
			props = append(props, mcp.Pattern(f.Pattern))
		}
		if f.Min != nil {
			props = append(props, mcp.MinLength(int(*f.Min)))
		}
		if f.Max != nil {
			props = append(props, mcp.MaxLength(int(*f.Max)))
		}
		return mcp.WithString(f.Name, props...)
	}
}

// serverInstructions returns the system instructions that tell the AI
// how to use draftsmith effectively.
func serverInstructions() string {
	return `You have access to draftsmith, a document drafting MCP server.

## What draftsmith Does

draftsmith turns structured inputs into polished markdown documents:
prompt briefs, Mermaid diagrams, sprint plans, release notes, onboarding
guides, and repository hygiene reports. YOU gather the facts from the
user; draftsmith validates them and renders a consistent document.

## Tools

- draft_prompt — task brief for an AI coding assistant (context + goal,
  optional constraints, tone, audience, acceptance criteria)
- draft_diagram — Mermaid diagram from plain-text steps (flowchart,
  sequence, or state)
- draft_sprint_plan — sprint plan with working-day capacity and a
  velocity forecast
- draft_release_notes — grouped release notes from a raw change list
- draft_onboarding — onboarding guide drafted from a scan of the project
  tree
- draft_hygiene_report — scored repository health report (README, tests,
  docs, file sizes, TODO debt, license, changelog)
- draft_stats — invocation statistics from the journal (only present
  when the journal is enabled)

The full input contract for every tool is published as a resource at
draftsmith://tools/catalog. Read it when unsure about a field.

## CRITICAL: How Validation Works

draftsmith validates the ENTIRE input before rendering and reports ALL
problems at once, as data:

- A failed call lists every bad field with a reason. Fix all of them and
  retry ONCE — never retry field by field.
- Unknown fields are silently dropped (unless the server runs in strict
  mode, where they are errors). Do not invent fields; check the catalog.
- Blank strings and whitespace-only values count as missing. If a field
  is required, send real content.
- A successful call never mixes in warnings as errors: degraded inputs
  (an impossible date, a malformed step) are noted inside the rendered
  document instead. Read the document body for "> " notes.

## Workflow

1. Ask the user for the facts the tool needs — real content, never
   placeholder text like "TBD".
2. Call the tool with every required field filled.
3. If the call fails, fix every listed field in one retry.
4. Present the rendered markdown to the user; offer to adjust inputs and
   re-run. Calls are deterministic: same input, same document.

## Prompts and Resources

- Prompt "draftsmith-start": guided entry point for drafting a document.
- Prompt "draftsmith-stats": summarize usage history via draft_stats.
- Resource draftsmith://tools/catalog: JSON input contracts of all tools.
- Resource draftsmith://stats: raw invocation statistics as JSON.

Every tool response ends with a "📏 ~N tokens" footer estimating its
context cost.`
}
